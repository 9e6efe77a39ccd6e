package compacting

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

func testAccount() *domain.AdAccount {
	return &domain.AdAccount{
		ID:         "ACC001",
		ExternalID: "act_123",
		TenantID:   "tenant-1",
		Name:       "Loja Centro",
		Currency:   "BRL",
		Status:     domain.AdAccountStatusActive,
	}
}

func dailyRecord(adID string, date time.Time, impressions, spendCents int64) *domain.AdDailyInsight {
	return &domain.AdDailyInsight{
		AdID:         adID,
		AdName:       "Anúncio " + adID,
		CampaignID:   "camp-1",
		CampaignName: "Campanha Verão",
		AdsetID:      "set-1",
		AdsetName:    "Conjunto A",
		AccountID:    "act_123",
		AccountName:  "Loja Centro",
		Date:         date,
		Impressions:  impressions,
		Clicks:       impressions / 10,
		SpendCents:   spendCents,
		Currency:     "BRL",
	}
}

func TestTransformPeriodMembership(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	// Registro de 20 de agosto: dentro do corte de 7d (19/08), fora do de 3d (23/08)
	record := dailyRecord("A1", time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), 100, 1000)

	bundle := Transform(testAccount(), []*domain.AdDailyInsight{record}, reference)

	require.Equal(t, []string{"A1"}, bundle.Flat.AdIDs)

	assert.Equal(t, int64(100), metricAt(t, bundle, "A1", "7d", "impressions"))
	assert.Equal(t, int64(1000), metricAt(t, bundle, "A1", "7d", "spend"))
	assert.Equal(t, int64(0), metricAt(t, bundle, "A1", "3d", "impressions"))
	assert.Equal(t, int64(0), metricAt(t, bundle, "A1", "3d", "spend"))
	assert.Equal(t, int64(100), metricAt(t, bundle, "A1", "90d", "impressions"))
}

func TestTransformFlatLayoutInvariant(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	records := []*domain.AdDailyInsight{
		dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 1000),
		dailyRecord("A2", time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC), 200, 5000),
		dailyRecord("A3", time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), 50, 200),
	}

	bundle := Transform(testAccount(), records, reference)

	stride := len(bundle.Flat.Periods) * len(bundle.Flat.Metrics)
	assert.Len(t, bundle.Flat.Values, len(bundle.Flat.AdIDs)*stride)
	assert.Len(t, bundle.Meta.Ads, len(bundle.Flat.AdIDs))
	assert.Equal(t, domain.BundleMetrics, bundle.Flat.Metrics)
	assert.Equal(t, domain.PeriodLabels(), bundle.Flat.Periods)
}

func TestTransformOrdersBySpendDescending(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	records := []*domain.AdDailyInsight{
		dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 1000),
		dailyRecord("A2", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 9000),
		dailyRecord("A3", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 4000),
	}

	bundle := Transform(testAccount(), records, reference)

	assert.Equal(t, []string{"A2", "A3", "A1"}, bundle.Flat.AdIDs)
}

func TestTransformReachIsMaxNeverSum(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	first := dailyRecord("A1", time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC), 100, 1000)
	first.Reach = 500
	second := dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 1000)
	second.Reach = 300

	bundle := Transform(testAccount(), []*domain.AdDailyInsight{first, second}, reference)

	assert.Equal(t, int64(500), metricAt(t, bundle, "A1", "7d", "reach"))
	assert.Equal(t, int64(500), bundle.Summary.Periods["7d"].Reach)
}

func TestTransformDerivedRatesFromSummedTotals(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	// Dois dias com taxas diárias distintas: o CPM do período sai dos totais
	// somados, não da média das taxas diárias
	first := dailyRecord("A1", time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC), 1000, 2000)
	second := dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 3000, 2000)

	bundle := Transform(testAccount(), []*domain.AdDailyInsight{first, second}, reference)

	// 4000 centavos / 4000 impressões × 1000 = 1000 centavos de CPM
	assert.Equal(t, int64(1000), metricAt(t, bundle, "A1", "7d", "cpm"))
	// 400 cliques / 4000 impressões = 10% = 1000 pontos base
	assert.Equal(t, int64(1000), metricAt(t, bundle, "A1", "7d", "ctr"))
}

func TestTransformPurchaseExtractionPerRecord(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	record := dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 1000)
	record.Actions = []domain.AdAction{
		{Type: "purchase", Value: 5},
		{Type: "omni_purchase", Value: 7},
	}
	record.ActionValues = []domain.AdAction{
		{Type: "omni_purchase", Value: 150},
	}

	bundle := Transform(testAccount(), []*domain.AdDailyInsight{record}, reference)

	assert.Equal(t, int64(7), metricAt(t, bundle, "A1", "3d", "purchases"))
	assert.Equal(t, int64(15000), metricAt(t, bundle, "A1", "3d", "purchase_value"))
}

func TestTransformIsIdempotent(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	records := []*domain.AdDailyInsight{
		dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 1000),
		dailyRecord("A2", time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), 300, 7000),
	}

	first := Transform(testAccount(), records, reference)
	second := Transform(testAccount(), records, reference)

	json := jsoniter.ConfigCompatibleWithStandardLibrary

	firstPayload, err := json.Marshal(first.Flat)
	require.NoError(t, err)
	secondPayload, err := json.Marshal(second.Flat)
	require.NoError(t, err)

	assert.Equal(t, firstPayload, secondPayload)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestTransformEmptyAccountEmitsValidBundle(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	bundle := Transform(testAccount(), nil, reference)

	assert.Empty(t, bundle.Flat.AdIDs)
	assert.Empty(t, bundle.Flat.Values)
	assert.Empty(t, bundle.Meta.Ads)

	// O dicionário de contas sempre contém a própria conta
	assert.Equal(t, "Loja Centro", bundle.Meta.Accounts["act_123"])
	assert.Equal(t, "BRL", bundle.Meta.Currencies["act_123"])
	assert.Equal(t, domain.PipelineTag, bundle.Meta.Pipeline)
	assert.Equal(t, "2025-08-25", bundle.Meta.ReferenceDate)

	for _, label := range domain.PeriodLabels() {
		require.NotNil(t, bundle.Summary.Periods[label])
		assert.Zero(t, bundle.Summary.Periods[label].Impressions)
	}
}

func TestTransformBundleMetadata(t *testing.T) {
	reference := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	records := []*domain.AdDailyInsight{
		dailyRecord("A1", time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), 100, 1000),
		dailyRecord("A1", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), 100, 1000),
	}

	bundle := Transform(testAccount(), records, reference)

	assert.Equal(t, "2025-08-10", bundle.Meta.DataMinDate)
	assert.Equal(t, "2025-08-24", bundle.Meta.DataMaxDate)
	assert.Equal(t, 90, bundle.Meta.RangeDays)
	assert.Equal(t, "Campanha Verão", bundle.Meta.Campaigns["camp-1"])
	assert.Equal(t, "Conjunto A", bundle.Meta.Adsets["set-1"])
}

// metricAt lê um valor do array plano pelo layout anúncio/período/métrica
func metricAt(t *testing.T, bundle *domain.ColumnarBundle, adID, period, metric string) int64 {
	t.Helper()

	adIndex := indexOf(t, bundle.Flat.AdIDs, adID)
	periodIndex := indexOf(t, bundle.Flat.Periods, period)
	metricIndex := indexOf(t, bundle.Flat.Metrics, metric)

	stride := len(bundle.Flat.Periods) * len(bundle.Flat.Metrics)
	return bundle.Flat.Values[adIndex*stride+periodIndex*len(bundle.Flat.Metrics)+metricIndex]
}

func indexOf(t *testing.T, values []string, target string) int {
	t.Helper()
	for i, v := range values {
		if v == target {
			return i
		}
	}
	t.Fatalf("valor %q não encontrado em %v", target, values)
	return -1
}
