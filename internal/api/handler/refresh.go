package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/refreshing"
	"github.com/vfg2006/ads-refresh-engine/pkg/apiErrors"
)

// TriggerRefresh dispara o refresh interativo de uma conta. O caminho sob
// demanda entra com prioridade alta no controlador de admissão
func TriggerRefresh(service refreshing.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - TriggerRefresh")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Identificador da conta não informado", nil)
			return
		}

		tenantID := r.URL.Query().Get("tenant_id")

		result, err := service.Refresh(r.Context(), accountID, tenantID, domain.RefreshRoleInteractive)
		if err != nil {
			writeRefreshError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resposta de refresh")
		}
	}
}

// GetRefreshJob consulta o estado de um job de refresh
func GetRefreshJob(service refreshing.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRefreshJob")

		jobID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if jobID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Identificador do job não informado", nil)
			return
		}

		job, err := service.JobStatus(jobID)
		if err != nil || job == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Job de refresh não encontrado", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(job); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resposta do job")
		}
	}
}

// writeRefreshError traduz a taxonomia de falhas de refresh nos códigos da API
func writeRefreshError(w http.ResponseWriter, err error) {
	var code string
	switch refreshing.CategoryOf(err) {
	case refreshing.CategoryBadRequest:
		code = apiErrors.ErrRefreshPerCall
	case refreshing.CategoryAccount:
		code = apiErrors.ErrRefreshPerAccount
	case refreshing.CategoryStructural:
		code = apiErrors.ErrRefreshStructural
	case refreshing.CategoryExhausted:
		code = apiErrors.ErrRefreshExhausted
	default:
		code = apiErrors.ErrRefreshTransient
	}

	apiErrors.WriteError(w, code, err.Error(), nil)
}
