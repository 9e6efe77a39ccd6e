package compacting

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/storage"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Compactor transforma registros brutos em bundles colunarizados e mescla os
// bundles de um tenant
type Compactor interface {
	CompactAccount(ctx context.Context, account *domain.AdAccount, records []*domain.AdDailyInsight, reference time.Time) (*domain.ColumnarBundle, error)
	AggregateTenant(ctx context.Context, tenantID string, accountIDs []string) (*domain.TenantAggregate, error)
	LoadAccountBundle(ctx context.Context, tenantID, accountID string) (*domain.ColumnarBundle, error)
	LoadTenantBundle(ctx context.Context, tenantID string) (*domain.ColumnarBundle, error)
}

type service struct {
	store storage.ObjectStore
}

func NewService(store storage.ObjectStore) Compactor {
	return &service{store: store}
}

// Os três arquivos do bundle são gravados sob chaves fixas por conta e por
// tenant, consumidas diretamente pela camada de relatórios
func accountKey(tenantID, accountID, kind string) string {
	return fmt.Sprintf("tenants/%s/accounts/%s/%s.json", tenantID, accountID, kind)
}

func tenantKey(tenantID, kind string) string {
	return fmt.Sprintf("tenants/%s/%s.json", tenantID, kind)
}

// CompactAccount transforma os registros da conta e persiste os três arquivos
// do bundle. Conta sem registros ainda emite um bundle estruturalmente válido
func (s *service) CompactAccount(
	ctx context.Context,
	account *domain.AdAccount,
	records []*domain.AdDailyInsight,
	reference time.Time,
) (*domain.ColumnarBundle, error) {
	bundle := Transform(account, records, reference)

	if err := s.persist(ctx, account.TenantID, accountKeyFunc(account.ExternalID), bundle); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ExternalID,
		"tenant_id":  account.TenantID,
		"ads":        len(bundle.Flat.AdIDs),
	}).Info("Bundle da conta gravado")

	return bundle, nil
}

// AggregateTenant mescla os bundles das contas informadas e persiste o bundle
// do tenant. Falhas por conta entram no manifesto e nunca abortam a mesclagem
func (s *service) AggregateTenant(ctx context.Context, tenantID string, accountIDs []string) (*domain.TenantAggregate, error) {
	aggregate := Aggregate(accountIDs, func(accountID string) (*domain.ColumnarBundle, error) {
		return s.LoadAccountBundle(ctx, tenantID, accountID)
	})

	for _, failure := range aggregate.Failures {
		logrus.WithFields(logrus.Fields{
			"tenant_id":  tenantID,
			"account_id": failure.AccountID,
			"reason":     failure.Reason,
		}).Warn("Conta pulada na agregação do tenant")
	}

	if err := s.persist(ctx, tenantID, tenantKeyFunc(), aggregate.Bundle); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id":       tenantID,
		"accounts_merged": aggregate.AccountsMerged,
		"accounts_failed": aggregate.AccountsFailed,
	}).Info("Bundle do tenant gravado")

	return aggregate, nil
}

// LoadAccountBundle lê os três arquivos do bundle de uma conta. Arquivo
// ausente indica conta ainda não atualizada; conteúdo ilegível indica bundle
// corrompido
func (s *service) LoadAccountBundle(ctx context.Context, tenantID, accountID string) (*domain.ColumnarBundle, error) {
	return s.load(ctx, tenantID, accountKeyFunc(accountID))
}

// LoadTenantBundle lê o bundle agregado do tenant
func (s *service) LoadTenantBundle(ctx context.Context, tenantID string) (*domain.ColumnarBundle, error) {
	return s.load(ctx, tenantID, tenantKeyFunc())
}

type keyFunc func(tenantID, kind string) string

func accountKeyFunc(accountID string) keyFunc {
	return func(tenantID, kind string) string {
		return accountKey(tenantID, accountID, kind)
	}
}

func tenantKeyFunc() keyFunc {
	return func(tenantID, kind string) string {
		return tenantKey(tenantID, kind)
	}
}

func (s *service) persist(ctx context.Context, tenantID string, key keyFunc, bundle *domain.ColumnarBundle) error {
	parts := map[string]interface{}{
		"meta":    bundle.Meta,
		"flat":    bundle.Flat,
		"summary": bundle.Summary,
	}

	for kind, part := range parts {
		payload, err := json.Marshal(part)
		if err != nil {
			return errors.Wrapf(err, "erro ao serializar o arquivo %s do bundle", kind)
		}
		if err := s.store.Put(ctx, key(tenantID, kind), payload); err != nil {
			return errors.Wrapf(err, "erro ao gravar o arquivo %s do bundle", kind)
		}
	}

	return nil
}

func (s *service) load(ctx context.Context, tenantID string, key keyFunc) (*domain.ColumnarBundle, error) {
	bundle := &domain.ColumnarBundle{}
	parts := map[string]interface{}{
		"meta":    &bundle.Meta,
		"flat":    &bundle.Flat,
		"summary": &bundle.Summary,
	}

	for kind, part := range parts {
		payload, err := s.store.Get(ctx, key(tenantID, kind))
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, part); err != nil {
			return nil, errors.Wrapf(errCorruptBundle, "erro ao decodificar o arquivo %s do bundle: %v", kind, err)
		}
	}

	return bundle, nil
}

var errCorruptBundle = errors.New("bundle corrompido")

// failureReason classifica a falha de leitura de um bundle para o manifesto:
// arquivo ausente significa conta ainda não atualizada, qualquer outra falha
// de decodificação significa bundle corrompido
func failureReason(err error) string {
	if errors.Is(err, storage.ErrNotFound) {
		return domain.MergeFailureNotRefreshed
	}
	return domain.MergeFailureCorrupt
}
