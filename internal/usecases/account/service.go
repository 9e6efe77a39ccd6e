package account

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/repository"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

type AccountService interface {
	ListAdAccounts() ([]*domain.AdAccount, error)
	ListTenants() ([]string, error)
	EnableAccount(accountID string) error
}

type Service struct {
	accountRepository repository.AccountRepository
}

func NewService(accountRepository repository.AccountRepository) AccountService {
	return &Service{accountRepository: accountRepository}
}

func (s *Service) ListAdAccounts() ([]*domain.AdAccount, error) {
	return s.accountRepository.ListActiveAccounts()
}

func (s *Service) ListTenants() ([]string, error) {
	return s.accountRepository.ListTenants()
}

// EnableAccount reativa manualmente uma conta desligada pelo circuit breaker,
// zerando o contador de falhas consecutivas
func (s *Service) EnableAccount(accountID string) error {
	if err := s.accountRepository.Enable(accountID); err != nil {
		return err
	}

	logrus.WithField("account_id", accountID).Info("Conta reativada manualmente")
	return s.accountRepository.ResetFailureCount(accountID)
}
