package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

const (
	adAccountsTable = "ad_accounts a"

	// Falhas consecutivas de permissão antes do desligamento automático da conta
	maxConsecutiveFailures = 3
)

type AccountRepository interface {
	GetAccountByID(accountID string) (*domain.AdAccount, error)
	GetAccountByExternalID(accountExternalID string) (*domain.AdAccount, error)
	ListActiveAccounts() ([]*domain.AdAccount, error)
	ListActiveAccountsByTenant(tenantID string) ([]*domain.AdAccount, error)
	ListTenants() ([]string, error)
	// IncrementFailureCount incrementa o contador de falhas consecutivas e
	// desativa a conta ao cruzar o limiar. Retorna o novo valor do contador.
	// É um circuit breaker, não uma retentativa: a conta fica fora das
	// rodadas agendadas até ser reativada manualmente
	IncrementFailureCount(accountID string, reason string) (int, error)
	ResetFailureCount(accountID string) error
	Enable(accountID string) error
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

const accountColumns = "a.id, a.external_id, a.tenant_id, a.name, a.nickname, a.currency, a.status, a.sealed_token, a.consecutive_failures, a.disabled_reason, a.created_at, a.updated_at"

func (a *accountRepository) GetAccountByID(accountID string) (*domain.AdAccount, error) {
	return a.getAccount(squirrel.Eq{"a.id": accountID})
}

func (a *accountRepository) GetAccountByExternalID(accountExternalID string) (*domain.AdAccount, error) {
	return a.getAccount(squirrel.Eq{"a.external_id": accountExternalID})
}

func (a *accountRepository) getAccount(whereClause map[string]interface{}) (*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select(accountColumns).
		From(adAccountsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := a.conn.QueryRow(query, args...)
	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear conta: %w", err)
	}

	return account, nil
}

func scanAccount(row *sql.Row) (*domain.AdAccount, error) {
	account := &domain.AdAccount{}
	if err := row.Scan(
		&account.ID,
		&account.ExternalID,
		&account.TenantID,
		&account.Name,
		&account.Nickname,
		&account.Currency,
		&account.Status,
		&account.SealedToken,
		&account.ConsecutiveFailures,
		&account.DisabledReason,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return account, nil
}

func (a *accountRepository) listAccounts(whereClause squirrel.Sqlizer) ([]*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select(accountColumns).
		From(adAccountsTable).
		Where(whereClause).
		OrderBy("a.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := a.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.AdAccount, 0)
	for rows.Next() {
		account := &domain.AdAccount{}
		if err := rows.Scan(
			&account.ID,
			&account.ExternalID,
			&account.TenantID,
			&account.Name,
			&account.Nickname,
			&account.Currency,
			&account.Status,
			&account.SealedToken,
			&account.ConsecutiveFailures,
			&account.DisabledReason,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear contas: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return accounts, nil
}

func (a *accountRepository) ListActiveAccounts() ([]*domain.AdAccount, error) {
	return a.listAccounts(squirrel.Eq{"a.status": domain.AdAccountStatusActive})
}

func (a *accountRepository) ListActiveAccountsByTenant(tenantID string) ([]*domain.AdAccount, error) {
	return a.listAccounts(squirrel.Eq{
		"a.status":    domain.AdAccountStatusActive,
		"a.tenant_id": tenantID,
	})
}

func (a *accountRepository) ListTenants() ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT a.tenant_id").
		From(adAccountsTable).
		Where(squirrel.Eq{"a.status": domain.AdAccountStatusActive}).
		OrderBy("a.tenant_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := a.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	tenants := make([]string, 0)
	for rows.Next() {
		var tenantID string
		if err := rows.Scan(&tenantID); err != nil {
			return nil, fmt.Errorf("erro ao escanear tenant: %w", err)
		}
		tenants = append(tenants, tenantID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return tenants, nil
}

func (a *accountRepository) IncrementFailureCount(accountID string, reason string) (int, error) {
	query, args, err := squirrel.
		Update("ad_accounts").
		Set("consecutive_failures", squirrel.Expr("consecutive_failures + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		Suffix("RETURNING consecutive_failures").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var failures int
	if err := a.conn.QueryRow(query, args...).Scan(&failures); err != nil {
		return 0, fmt.Errorf("erro ao incrementar contador de falhas: %w", err)
	}

	if failures >= maxConsecutiveFailures {
		if err := a.disable(accountID, reason); err != nil {
			return failures, err
		}
	}

	return failures, nil
}

func (a *accountRepository) disable(accountID string, reason string) error {
	query, args, err := squirrel.
		Update("ad_accounts").
		Set("status", domain.AdAccountStatusDisabled).
		Set("disabled_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := a.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao desativar conta: %w", err)
	}

	return nil
}

func (a *accountRepository) ResetFailureCount(accountID string) error {
	query, args, err := squirrel.
		Update("ad_accounts").
		Set("consecutive_failures", 0).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := a.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao zerar contador de falhas: %w", err)
	}

	return nil
}

// Enable reativa manualmente uma conta desligada pelo circuit breaker
func (a *accountRepository) Enable(accountID string) error {
	query, args, err := squirrel.
		Update("ad_accounts").
		Set("status", domain.AdAccountStatusActive).
		Set("consecutive_failures", 0).
		Set("disabled_reason", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := a.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao reativar conta: %w", err)
	}

	return nil
}
