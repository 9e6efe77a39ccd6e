package compacting

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/storage"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

func accountBundle(t *testing.T, accountID, adID string, spendCents int64, date time.Time) *domain.ColumnarBundle {
	t.Helper()

	account := &domain.AdAccount{
		ID:         accountID,
		ExternalID: accountID,
		TenantID:   "tenant-1",
		Name:       "Conta " + accountID,
		Currency:   "BRL",
	}
	record := dailyRecord(adID, date, 100, spendCents)
	record.AccountID = accountID
	record.Reach = 250

	return Transform(account, []*domain.AdDailyInsight{record}, date.AddDate(0, 0, 1))
}

func TestAggregateSkipsFailedAccounts(t *testing.T) {
	date := time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC)
	bundles := map[string]*domain.ColumnarBundle{
		"act_1": accountBundle(t, "act_1", "X", 5000, date),
	}

	result := Aggregate([]string{"act_1", "act_2"}, func(accountID string) (*domain.ColumnarBundle, error) {
		bundle, ok := bundles[accountID]
		if !ok {
			return nil, errors.Wrap(storage.ErrNotFound, accountID)
		}
		return bundle, nil
	})

	assert.Equal(t, 1, result.AccountsMerged)
	assert.Equal(t, 1, result.AccountsFailed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "act_2", result.Failures[0].AccountID)
	assert.Equal(t, domain.MergeFailureNotRefreshed, result.Failures[0].Reason)

	// O anúncio sobrevivente aparece exatamente uma vez
	assert.Equal(t, []string{"X"}, result.Bundle.Flat.AdIDs)
}

func TestAggregateClassifiesCorruptBundles(t *testing.T) {
	result := Aggregate([]string{"act_1"}, func(string) (*domain.ColumnarBundle, error) {
		return nil, errors.New("json inválido")
	})

	require.Len(t, result.Failures, 1)
	assert.Equal(t, domain.MergeFailureCorrupt, result.Failures[0].Reason)
}

func TestAggregateMergesValuesAndDictionaries(t *testing.T) {
	date := time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	bundles := map[string]*domain.ColumnarBundle{
		"act_1": accountBundle(t, "act_1", "A", 5000, date),
		"act_2": accountBundle(t, "act_2", "B", 3000, earlier),
	}

	result := Aggregate([]string{"act_1", "act_2"}, func(accountID string) (*domain.ColumnarBundle, error) {
		return bundles[accountID], nil
	})

	merged := result.Bundle
	assert.Equal(t, 2, result.AccountsMerged)
	assert.Equal(t, []string{"A", "B"}, merged.Flat.AdIDs)

	stride := len(merged.Flat.Periods) * len(merged.Flat.Metrics)
	assert.Len(t, merged.Flat.Values, 2*stride)
	assert.Len(t, merged.Meta.Ads, 2)

	// União dos dicionários cobre as duas contas
	assert.Equal(t, "Conta act_1", merged.Meta.Accounts["act_1"])
	assert.Equal(t, "Conta act_2", merged.Meta.Accounts["act_2"])

	// A data máxima mais recente entre as contas prevalece
	assert.Equal(t, "2025-08-24", merged.Meta.DataMaxDate)
	assert.Equal(t, domain.PipelineTagAggregated, merged.Meta.Pipeline)
}

func TestAggregateSummaryIsAdditiveExceptReach(t *testing.T) {
	date := time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC)

	bundles := map[string]*domain.ColumnarBundle{
		"act_1": accountBundle(t, "act_1", "A", 5000, date),
		"act_2": accountBundle(t, "act_2", "B", 3000, date),
	}

	result := Aggregate([]string{"act_1", "act_2"}, func(accountID string) (*domain.ColumnarBundle, error) {
		return bundles[accountID], nil
	})

	totals := result.Bundle.Summary.Periods["90d"]
	require.NotNil(t, totals)
	assert.Equal(t, int64(8000), totals.SpendCents)
	assert.Equal(t, int64(200), totals.Impressions)

	// Reach somado seria semanticamente errado: no nível de tenant é sempre 0
	assert.Zero(t, totals.Reach)
}

func TestAggregateEmptyInputStillReturnsBundle(t *testing.T) {
	result := Aggregate(nil, func(string) (*domain.ColumnarBundle, error) {
		t.Fatal("não deveria carregar nenhuma conta")
		return nil, nil
	})

	require.NotNil(t, result.Bundle)
	assert.Zero(t, result.AccountsMerged)
	assert.Equal(t, domain.PeriodLabels(), result.Bundle.Flat.Periods)
	for _, label := range domain.PeriodLabels() {
		assert.NotNil(t, result.Bundle.Summary.Periods[label])
	}
}
