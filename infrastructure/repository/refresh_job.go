package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
	"github.com/vfg2006/ads-refresh-engine/pkg/utils"
)

const (
	refreshJobsTable = "refresh_jobs rj"

	// Mensagem padrão gravada pelo reaper em jobs zumbis
	zombieErrorMessage = "job excedeu o tempo máximo de execução e foi finalizado pelo reaper"

	// Chave do advisory lock que serializa a admissão entre processos
	admissionLockKey = "refresh_jobs_admission"
)

type RefreshJobRepository interface {
	// Acquire tenta admitir o job respeitando o limite: a contagem de jobs
	// ativos e a inserção acontecem na mesma transação, serializadas por
	// advisory lock, porque o contador é compartilhado entre processos
	// independentes e nenhum mutex de cliente seria suficiente
	Acquire(ctx context.Context, job *domain.RefreshJob, limit int) (bool, int, error)
	ActiveCount() (int, error)
	ReapZombies(olderThan time.Duration) (int64, error)
	SetRunning(jobID string) error
	Complete(jobID string, status domain.RefreshJobStatus, errMessage *string) error
	GetByID(jobID string) (*domain.RefreshJob, error)
}

type refreshJobRepository struct {
	conn *postgres.Connection
}

func NewRefreshJobRepository(conn *postgres.Connection) RefreshJobRepository {
	return &refreshJobRepository{
		conn: conn,
	}
}

func (r *refreshJobRepository) Acquire(ctx context.Context, job *domain.RefreshJob, limit int) (bool, int, error) {
	if job.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return false, 0, fmt.Errorf("erro ao gerar id do job: %w", err)
		}
		job.ID = id
	}

	admitted := false
	available := 0

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		// Serializa a seção contagem+inserção entre todos os processos
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", admissionLockKey); err != nil {
			return fmt.Errorf("erro ao adquirir lock de admissão: %w", err)
		}

		var active int
		row := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM refresh_jobs WHERE status IN ($1, $2)",
			domain.RefreshJobStatusQueued, domain.RefreshJobStatusRunning,
		)
		if err := row.Scan(&active); err != nil {
			return fmt.Errorf("erro ao contar jobs ativos: %w", err)
		}

		available = limit - active
		if available <= 0 {
			available = 0
			return nil
		}

		insertSQL, args, err := squirrel.
			Insert("refresh_jobs").
			Columns("id", "tenant_id", "account_id", "role", "status", "started_at").
			Values(job.ID, job.TenantID, job.AccountID, job.Role, domain.RefreshJobStatusQueued, squirrel.Expr("NOW()")).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
			}
			return fmt.Errorf("erro ao inserir job: %w", err)
		}

		job.Status = domain.RefreshJobStatusQueued
		admitted = true
		available--
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return admitted, available, nil
}

func (r *refreshJobRepository) ActiveCount() (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(refreshJobsTable).
		Where(squirrel.Eq{"rj.status": []domain.RefreshJobStatus{
			domain.RefreshJobStatusQueued,
			domain.RefreshJobStatusRunning,
		}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar jobs ativos: %w", err)
	}

	return count, nil
}

// ReapZombies transiciona atomicamente jobs RUNNING mais velhos que o timeout
// para ERROR. O predicado exclui linhas já em ERROR, então é idempotente e
// seguro de correr em paralelo entre processos: o último escritor vence sem
// dupla contagem
func (r *refreshJobRepository) ReapZombies(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := squirrel.
		Update("refresh_jobs").
		Set("status", domain.RefreshJobStatusError).
		Set("error", zombieErrorMessage).
		Set("finished_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.RefreshJobStatusRunning}).
		Where(squirrel.Lt{"started_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *refreshJobRepository) SetRunning(jobID string) error {
	query, args, err := squirrel.
		Update("refresh_jobs").
		Set("status", domain.RefreshJobStatusRunning).
		Set("started_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.RefreshJobStatusQueued}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *refreshJobRepository) Complete(jobID string, status domain.RefreshJobStatus, errMessage *string) error {
	if status != domain.RefreshJobStatusOK && status != domain.RefreshJobStatusError {
		return fmt.Errorf("status terminal inválido: %s", status)
	}

	query, args, err := squirrel.
		Update("refresh_jobs").
		Set("status", status).
		Set("error", errMessage).
		Set("finished_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID}).
		// Estados terminais nunca revertem, inclusive após o reaper
		Where(squirrel.Eq{"status": []domain.RefreshJobStatus{
			domain.RefreshJobStatusQueued,
			domain.RefreshJobStatusRunning,
		}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *refreshJobRepository) GetByID(jobID string) (*domain.RefreshJob, error) {
	query, args, err := squirrel.
		Select("rj.id, rj.tenant_id, rj.account_id, rj.role, rj.status, rj.started_at, rj.finished_at, rj.error, rj.created_at, rj.updated_at").
		From(refreshJobsTable).
		Where(squirrel.Eq{"rj.id": jobID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	job := &domain.RefreshJob{}
	row := r.conn.QueryRow(query, args...)
	if err := row.Scan(
		&job.ID,
		&job.TenantID,
		&job.AccountID,
		&job.Role,
		&job.Status,
		&job.StartedAt,
		&job.FinishedAt,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear job: %w", err)
	}

	return job, nil
}
