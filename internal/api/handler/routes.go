package handler

import (
	"net/http"

	"github.com/vfg2006/ads-refresh-engine/internal/api/handler/router"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/account"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/compacting"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/refreshing"
	"github.com/vfg2006/ads-refresh-engine/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func AdAccounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts",
			Method:      http.MethodGet,
			Handler:     AdAccountList(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/accounts/:id/enable",
			Method:      http.MethodPost,
			Handler:     EnableAdAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Refresh(service refreshing.Refresher) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/refresh",
			Method:      http.MethodPost,
			Handler:     TriggerRefresh(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/refresh/jobs/:id",
			Method:      http.MethodGet,
			Handler:     GetRefreshJob(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Bundles(service compacting.Compactor) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/tenants/:id/bundle",
			Method:      http.MethodGet,
			Handler:     GetTenantBundle(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/tenants/:id/accounts/:account_id/bundle",
			Method:      http.MethodGet,
			Handler:     GetAccountBundle(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
	}
}
