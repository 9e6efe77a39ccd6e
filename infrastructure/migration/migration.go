package migration

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/database/postgres"
)

// Esquema mínimo do engine: contas, registros brutos diários e jobs de refresh
var statements = []string{
	`CREATE TABLE IF NOT EXISTS ad_accounts (
		id                   VARCHAR(36) PRIMARY KEY,
		external_id          VARCHAR(64) NOT NULL UNIQUE,
		tenant_id            VARCHAR(36) NOT NULL,
		name                 VARCHAR(255) NOT NULL,
		nickname             VARCHAR(255),
		currency             VARCHAR(8) NOT NULL DEFAULT 'BRL',
		status               VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
		sealed_token         TEXT NOT NULL DEFAULT '',
		consecutive_failures INTEGER NOT NULL DEFAULT 0,
		disabled_reason      TEXT,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ad_accounts_tenant ON ad_accounts (tenant_id, status)`,

	`CREATE TABLE IF NOT EXISTS ad_daily_insights (
		id         BIGSERIAL PRIMARY KEY,
		account_id VARCHAR(64) NOT NULL,
		ad_id      VARCHAR(64) NOT NULL,
		date       DATE NOT NULL,
		record     JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (account_id, ad_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ad_daily_insights_account_date ON ad_daily_insights (account_id, date)`,

	`CREATE TABLE IF NOT EXISTS refresh_jobs (
		id          VARCHAR(21) PRIMARY KEY,
		tenant_id   VARCHAR(36) NOT NULL,
		account_id  VARCHAR(64) NOT NULL,
		role        VARCHAR(16) NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'QUEUED',
		started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		finished_at TIMESTAMPTZ,
		error       TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_jobs_status ON refresh_jobs (status)`,
}

// Run aplica o esquema de forma idempotente na inicialização
func Run(ctx context.Context, conn *postgres.Connection) error {
	for _, statement := range statements {
		if _, err := conn.ExecContext(ctx, statement); err != nil {
			logrus.WithError(err).Error("Erro ao aplicar migração")
			return err
		}
	}

	logrus.Info("Migrações aplicadas com sucesso")
	return nil
}
