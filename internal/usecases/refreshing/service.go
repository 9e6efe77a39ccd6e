package refreshing

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/ratelimit"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/repository"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/admission"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/compacting"
	"github.com/vfg2006/ads-refresh-engine/pkg/crypto"
	"github.com/vfg2006/ads-refresh-engine/pkg/utils"
)

// A contagem de workers é relida do controlador de taxa a cada lote de contas,
// não por tarefa, para evitar oscilação
const workerRefreshInterval = 5

// Refresher é a operação pública de refresh consumida pelo processo agendado e
// pelo caminho sob demanda. Os dois passam pelo controlador de admissão
type Refresher interface {
	Refresh(ctx context.Context, accountRef, tenantRef string, role domain.RefreshRole) (*domain.RefreshResult, error)
	RefreshTenant(ctx context.Context, tenantID string, role domain.RefreshRole) (*domain.TenantRefreshResult, error)
	RefreshAll(ctx context.Context) error
	JobStatus(jobID string) (*domain.RefreshJob, error)
}

type Service struct {
	cfg               *config.Config
	meta              *meta.MetaIntegrator
	accountRepository repository.AccountRepository
	insightRepository repository.AdDailyInsightRepository
	jobRepository     repository.RefreshJobRepository
	admitter          admission.Admitter
	compactor         compacting.Compactor
	sealer            *crypto.Sealer
	controller        *ratelimit.Controller
	retry             *ratelimit.RetryPolicy
	now               func() time.Time
}

func NewService(
	cfg *config.Config,
	metaService *meta.MetaIntegrator,
	accountRepo repository.AccountRepository,
	insightRepo repository.AdDailyInsightRepository,
	jobRepo repository.RefreshJobRepository,
	admitter admission.Admitter,
	compactor compacting.Compactor,
	sealer *crypto.Sealer,
	controller *ratelimit.Controller,
) *Service {
	return &Service{
		cfg:               cfg,
		meta:              metaService,
		accountRepository: accountRepo,
		insightRepository: insightRepo,
		jobRepository:     jobRepo,
		admitter:          admitter,
		compactor:         compactor,
		sealer:            sealer,
		controller:        controller,
		retry: ratelimit.NewRetryPolicy(
			cfg.RateLimit.RetryBaseDelay,
			cfg.RateLimit.RetryMaxDelay,
			cfg.RateLimit.RetryMaxAttempts,
		),
		now: time.Now,
	}
}

// Refresh executa o ciclo completo de uma conta: admissão, fetch, persistência
// bruta, transformação colunar e gravação do bundle
func (s *Service) Refresh(
	ctx context.Context,
	accountRef, tenantRef string,
	role domain.RefreshRole,
) (*domain.RefreshResult, error) {
	account, err := s.accountRepository.GetAccountByExternalID(accountRef)
	if err != nil || account == nil {
		return nil, newRefreshError(CategoryBadRequest, "conta não encontrada", err)
	}
	if account.Status == domain.AdAccountStatusDisabled {
		return nil, newRefreshError(CategoryAccount, "conta desativada pelo circuit breaker", nil)
	}
	if tenantRef != "" && account.TenantID != tenantRef {
		return nil, newRefreshError(CategoryBadRequest, "conta não pertence ao tenant informado", nil)
	}

	jobID, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	job := &domain.RefreshJob{
		ID:        jobID,
		TenantID:  account.TenantID,
		AccountID: account.ExternalID,
		Role:      role,
		Status:    domain.RefreshJobStatusQueued,
	}

	admitted, available, err := s.admitter.Acquire(ctx, job)
	if err != nil {
		// Banco inacessível nega admissão, nunca libera concorrência sem teto
		return nil, newRefreshError(CategoryExhausted, "não foi possível verificar os jobs ativos", err)
	}
	if !admitted {
		logrus.WithFields(logrus.Fields{
			"account_id": account.ExternalID,
			"role":       role,
			"available":  available,
		}).Info("Refresh negado pelo controlador de admissão")
		return nil, newRefreshError(CategoryExhausted, "limite de atualizações simultâneas atingido, tente novamente em instantes", nil)
	}

	result, err := s.runJob(ctx, job, account)
	if err != nil {
		message := err.Error()
		if completeErr := s.jobRepository.Complete(job.ID, domain.RefreshJobStatusError, &message); completeErr != nil {
			logrus.WithError(completeErr).WithField("job_id", job.ID).Error("Erro ao finalizar job com falha")
		}
		s.recordAccountFailure(account, err)
		return nil, err
	}

	if completeErr := s.jobRepository.Complete(job.ID, domain.RefreshJobStatusOK, nil); completeErr != nil {
		logrus.WithError(completeErr).WithField("job_id", job.ID).Error("Erro ao finalizar job")
	}
	if resetErr := s.accountRepository.ResetFailureCount(account.ID); resetErr != nil {
		logrus.WithError(resetErr).WithField("account_id", account.ExternalID).Warn("Erro ao zerar contador de falhas")
	}

	return result, nil
}

// runJob é o corpo do job já admitido: a transição para RUNNING, as duas
// passadas de fetch e a compactação
func (s *Service) runJob(
	ctx context.Context,
	job *domain.RefreshJob,
	account *domain.AdAccount,
) (*domain.RefreshResult, error) {
	if err := s.jobRepository.SetRunning(job.ID); err != nil {
		return nil, newRefreshError(CategoryStructural, "erro ao iniciar o job", err)
	}

	token, err := s.sealer.Open(account.SealedToken)
	if err != nil {
		return nil, newRefreshError(CategoryAccount, "erro ao descriptografar o token da conta", err)
	}

	reference := s.now().AddDate(0, 0, -1) // último dia completamente decorrido
	window := metaclient.DateWindow{
		Since: reference.AddDate(0, 0, -(s.cfg.RefreshSync.LookbackDays - 1)),
		Until: reference,
	}

	fetched, err := s.fetchAccount(ctx, token, account, window)
	if err != nil {
		return nil, s.classifyFetchError(err)
	}

	records, err := s.insightRepository.GetByAccountSince(account.ExternalID, window.Since)
	if err != nil {
		return nil, newRefreshError(CategoryStructural, "erro ao ler os registros persistidos", err)
	}

	if _, err := s.compactor.CompactAccount(ctx, account, records, reference); err != nil {
		return nil, newRefreshError(CategoryStructural, "erro ao gravar o bundle da conta", err)
	}

	return &domain.RefreshResult{
		JobID:        job.ID,
		Status:       string(domain.RefreshJobStatusOK),
		ItemsFetched: fetched,
		FilesWritten: []string{"meta", "flat", "summary"},
		RefreshedAt:  s.now(),
	}, nil
}

// classifyFetchError mapeia falhas do provedor na taxonomia de refresh
func (s *Service) classifyFetchError(err error) error {
	if refreshErr, ok := err.(*RefreshError); ok {
		return refreshErr
	}

	if apiErr, ok := err.(*metadomain.APIError); ok {
		switch {
		case apiErr.IsPermissionDenied() || apiErr.IsTokenInvalid():
			return newRefreshError(CategoryAccount, "acesso negado pelo provedor", apiErr)
		case apiErr.IsRateLimit() || apiErr.IsTooManyCalls() || apiErr.IsServerError():
			return newRefreshError(CategoryTransient, "retentativas esgotadas contra o provedor", apiErr)
		default:
			return newRefreshError(CategoryBadRequest, "requisição rejeitada pelo provedor", apiErr)
		}
	}

	return newRefreshError(CategoryTransient, "falha de transporte contra o provedor", err)
}

// recordAccountFailure alimenta o circuit breaker: apenas falhas com
// assinatura de permissão/token incrementam o contador de falhas consecutivas
func (s *Service) recordAccountFailure(account *domain.AdAccount, err error) {
	if CategoryOf(err) != CategoryAccount {
		return
	}

	failures, incErr := s.accountRepository.IncrementFailureCount(account.ID, err.Error())
	if incErr != nil {
		logrus.WithError(incErr).WithField("account_id", account.ExternalID).
			Error("Erro ao incrementar contador de falhas")
		return
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ExternalID,
		"failures":   failures,
	}).Warn("Falha de permissão registrada para a conta")
}

// RefreshTenant atualiza todas as contas ativas de um tenant com um pool de
// workers limitado e, ao final, mescla os bundles no agregado do tenant.
// Falhas por conta são isoladas e nunca abortam as contas irmãs
func (s *Service) RefreshTenant(
	ctx context.Context,
	tenantID string,
	role domain.RefreshRole,
) (*domain.TenantRefreshResult, error) {
	accounts, err := s.accountRepository.ListActiveAccountsByTenant(tenantID)
	if err != nil {
		return nil, err
	}

	result := &domain.TenantRefreshResult{
		TenantID:  tenantID,
		StartedAt: s.now(),
	}

	var mu sync.Mutex
	accountIDs := make([]string, 0, len(accounts))

	// As contas são processadas em lotes: a contagem de workers é relida do
	// controlador de taxa entre lotes, conforme a utilização média observada
	for start := 0; start < len(accounts); start += workerRefreshInterval {
		if err := ctx.Err(); err != nil {
			// Timeout da rodada aborta as contas restantes sem corromper as concluídas
			logrus.WithField("tenant_id", tenantID).Warn("Rodada cancelada, abortando contas restantes")
			break
		}

		end := start + workerRefreshInterval
		if end > len(accounts) {
			end = len(accounts)
		}

		workers := s.controller.OptimalWorkerCount()
		semaphore := make(chan struct{}, workers)
		var wg sync.WaitGroup

		for _, account := range accounts[start:end] {
			wg.Add(1)
			semaphore <- struct{}{}

			go func(account *domain.AdAccount) {
				defer wg.Done()
				defer func() { <-semaphore }()

				_, refreshErr := s.Refresh(ctx, account.ExternalID, tenantID, role)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case refreshErr == nil:
					result.AccountsOK++
				case CategoryOf(refreshErr) == CategoryExhausted:
					result.AccountsSkipped++
				default:
					result.AccountsFailed++
					logrus.WithError(refreshErr).WithFields(logrus.Fields{
						"tenant_id":  tenantID,
						"account_id": account.ExternalID,
						"category":   CategoryOf(refreshErr),
					}).Error("Erro ao atualizar conta do tenant")
				}
			}(account)
		}

		wg.Wait()
	}

	for _, account := range accounts {
		accountIDs = append(accountIDs, account.ExternalID)
	}

	aggregate, err := s.compactor.AggregateTenant(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}

	result.Aggregate = aggregate
	result.FinishedAt = s.now()

	logrus.WithFields(logrus.Fields{
		"tenant_id":        tenantID,
		"accounts_ok":      result.AccountsOK,
		"accounts_failed":  result.AccountsFailed,
		"accounts_skipped": result.AccountsSkipped,
	}).Info("Rodada de refresh do tenant concluída")

	return result, nil
}

// RefreshAll roda o caminho agendado sobre todos os tenants com contas ativas
func (s *Service) RefreshAll(ctx context.Context) error {
	tenants, err := s.accountRepository.ListTenants()
	if err != nil {
		return err
	}

	for _, tenantID := range tenants {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := s.RefreshTenant(ctx, tenantID, domain.RefreshRoleBackground); err != nil {
			logrus.WithError(err).WithField("tenant_id", tenantID).
				Error("Erro na rodada agendada do tenant")
		}
	}

	return nil
}

// JobStatus consulta o estado atual de um job de refresh
func (s *Service) JobStatus(jobID string) (*domain.RefreshJob, error) {
	return s.jobRepository.GetByID(jobID)
}
