package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

const adDailyInsightsTable = "ad_daily_insights adi"

type AdDailyInsightRepository interface {
	// SaveBatch faz upsert idempotente dos registros pela chave
	// (account_id, ad_id, date): um fetch mais novo substitui o anterior
	SaveBatch(records []*domain.AdDailyInsight) error
	GetByAccountSince(accountID string, since time.Time) ([]*domain.AdDailyInsight, error)
	DeleteOlderThan(days int) (int64, error)
}

type adDailyInsightRepository struct {
	conn *postgres.Connection
}

func NewAdDailyInsightRepository(conn *postgres.Connection) AdDailyInsightRepository {
	return &adDailyInsightRepository{
		conn: conn,
	}
}

func (r *adDailyInsightRepository) SaveBatch(records []*domain.AdDailyInsight) error {
	if len(records) == 0 {
		return nil
	}

	builder := squirrel.StatementBuilder.
		Insert("ad_daily_insights").
		Columns("account_id", "ad_id", "date", "record")

	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("erro ao serializar registro para JSON: %w", err)
		}

		builder = builder.Values(
			record.AccountID,
			record.AdID,
			record.Date.Format(time.DateOnly),
			payload,
		)
	}

	query, args, err := builder.
		Suffix(`
			ON CONFLICT (account_id, ad_id, date) DO UPDATE SET
				record = EXCLUDED.record,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *adDailyInsightRepository) GetByAccountSince(accountID string, since time.Time) ([]*domain.AdDailyInsight, error) {
	query, args, err := squirrel.
		Select("adi.record").
		From(adDailyInsightsTable).
		Where(squirrel.Eq{"adi.account_id": accountID}).
		Where(squirrel.GtOrEq{"adi.date": since.Format(time.DateOnly)}).
		OrderBy("adi.date ASC, adi.ad_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AdDailyInsight, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("erro ao escanear registro: %w", err)
		}

		record := &domain.AdDailyInsight{}
		if err := json.Unmarshal(payload, record); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON do registro: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *adDailyInsightRepository) DeleteOlderThan(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format(time.DateOnly)

	query, args, err := squirrel.
		Delete("ad_daily_insights").
		Where(squirrel.Lt{"date": cutoffDate}).
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
