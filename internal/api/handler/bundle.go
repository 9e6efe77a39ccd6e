package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/storage"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/compacting"
	"github.com/vfg2006/ads-refresh-engine/pkg/apiErrors"
)

// GetTenantBundle devolve o bundle colunar agregado de um tenant
func GetTenantBundle(service compacting.Compactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetTenantBundle")

		tenantID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if tenantID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Identificador do tenant não informado", nil)
			return
		}

		bundle, err := service.LoadTenantBundle(r.Context(), tenantID)
		if err != nil {
			writeBundleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bundle); err != nil {
			logrus.WithError(err).Error("Erro ao serializar bundle do tenant")
		}
	}
}

// GetAccountBundle devolve o bundle colunar de uma conta específica
func GetAccountBundle(service compacting.Compactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetAccountBundle")

		params := httprouter.ParamsFromContext(r.Context())
		tenantID := params.ByName("id")
		accountID := params.ByName("account_id")
		if tenantID == "" || accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Identificadores do tenant e da conta são obrigatórios", nil)
			return
		}

		bundle, err := service.LoadAccountBundle(r.Context(), tenantID, accountID)
		if err != nil {
			writeBundleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bundle); err != nil {
			logrus.WithError(err).Error("Erro ao serializar bundle da conta")
		}
	}
}

func writeBundleError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		apiErrors.WriteError(w, apiErrors.ErrNotFound, "Bundle ainda não gerado", nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrRefreshStructural, "Bundle armazenado ilegível", nil)
}
