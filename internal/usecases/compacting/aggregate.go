package compacting

import (
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// Aggregate mescla os bundles por conta de um tenant em uma visão única.
// Contas com bundle ausente ou ilegível entram no manifesto de falhas e a
// mesclagem sempre completa com as contas sobreviventes
func Aggregate(
	accountIDs []string,
	load func(accountID string) (*domain.ColumnarBundle, error),
) *domain.TenantAggregate {
	merged := &domain.ColumnarBundle{
		Meta: domain.BundleMeta{
			Pipeline:   domain.PipelineTagAggregated,
			RangeDays:  domain.BasePeriod().Days,
			Campaigns:  map[string]string{},
			Adsets:     map[string]string{},
			Accounts:   map[string]string{},
			Currencies: map[string]string{},
			Ads:        []domain.AdDescriptor{},
		},
		Flat: domain.FlatBundle{
			Periods: domain.PeriodLabels(),
			Metrics: domain.BundleMetrics,
			AdIDs:   []string{},
			Values:  []int64{},
			Scales:  domain.BundleScales,
		},
		Summary: domain.SummaryBundle{
			Periods: make(map[string]*domain.PeriodTotals, len(domain.Periods)),
		},
	}
	for _, period := range domain.Periods {
		merged.Summary.Periods[period.Label] = &domain.PeriodTotals{}
	}

	result := &domain.TenantAggregate{Bundle: merged}

	for _, accountID := range accountIDs {
		bundle, err := load(accountID)
		if err != nil {
			result.AccountsFailed++
			result.Failures = append(result.Failures, domain.MergeFailure{
				AccountID: accountID,
				Reason:    failureReason(err),
			})
			continue
		}

		mergeBundle(merged, bundle)
		result.AccountsMerged++
	}

	return result
}

func mergeBundle(merged, bundle *domain.ColumnarBundle) {
	// Ordem dentro da conta é preservada; entre contas a ordem de chegada basta
	merged.Flat.AdIDs = append(merged.Flat.AdIDs, bundle.Flat.AdIDs...)
	merged.Flat.Values = append(merged.Flat.Values, bundle.Flat.Values...)
	merged.Meta.Ads = append(merged.Meta.Ads, bundle.Meta.Ads...)

	// União dos dicionários: em colisão de chave o último escrito vence,
	// aceitável porque os ids são globalmente únicos no provedor
	for id, name := range bundle.Meta.Campaigns {
		merged.Meta.Campaigns[id] = name
	}
	for id, name := range bundle.Meta.Adsets {
		merged.Meta.Adsets[id] = name
	}
	for id, name := range bundle.Meta.Accounts {
		merged.Meta.Accounts[id] = name
	}
	for id, currency := range bundle.Meta.Currencies {
		merged.Meta.Currencies[id] = currency
	}

	if merged.Meta.ReferenceDate == "" || bundle.Meta.ReferenceDate > merged.Meta.ReferenceDate {
		merged.Meta.ReferenceDate = bundle.Meta.ReferenceDate
	}
	if merged.Meta.DataMinDate == "" || (bundle.Meta.DataMinDate != "" && bundle.Meta.DataMinDate < merged.Meta.DataMinDate) {
		merged.Meta.DataMinDate = bundle.Meta.DataMinDate
	}
	if bundle.Meta.DataMaxDate > merged.Meta.DataMaxDate {
		merged.Meta.DataMaxDate = bundle.Meta.DataMaxDate
	}

	for label, totals := range bundle.Summary.Periods {
		target, ok := merged.Summary.Periods[label]
		if !ok {
			target = &domain.PeriodTotals{}
			merged.Summary.Periods[label] = target
		}
		target.Impressions += totals.Impressions
		target.Clicks += totals.Clicks
		target.UniqueClicks += totals.UniqueClicks
		target.SpendCents += totals.SpendCents
		target.Purchases += totals.Purchases
		target.PurchaseValueCents += totals.PurchaseValueCents
		target.Leads += totals.Leads
		// Reach não é aditivo e fica sempre zerado no nível de tenant
		target.Reach = 0
	}
}
