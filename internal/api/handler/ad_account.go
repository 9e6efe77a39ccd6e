package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/account"
	"github.com/vfg2006/ads-refresh-engine/pkg/apiErrors"
)

// AdAccountList lista as contas de anúncio ativas
func AdAccountList(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - AdAccountList")

		accounts, err := service.ListAdAccounts()
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao listar contas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(accounts); err != nil {
			logrus.WithError(err).Error("Erro ao serializar lista de contas")
		}
	}
}

// EnableAdAccount reativa uma conta desligada pelo circuit breaker
func EnableAdAccount(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - EnableAdAccount")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Identificador da conta não informado", nil)
			return
		}

		if err := service.EnableAccount(accountID); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao reativar a conta", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"message":    "Conta reativada com sucesso",
			"account_id": accountID,
		}); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resposta de reativação")
		}
	}
}
