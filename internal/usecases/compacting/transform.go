package compacting

import (
	"sort"
	"time"

	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

const dateLayout = "2006-01-02"

// Acumulador de um par (anúncio, período). Contadores aditivos são somados,
// reach é máximo corrido e cpm/ctr são derivados dos pares somados no final
type periodAccumulator struct {
	impressions        int64
	clicks             int64
	uniqueClicks       int64
	spendCents         int64
	reach              int64
	purchases          int64
	purchaseValueCents int64
	leads              int64
}

func (a *periodAccumulator) add(record *domain.AdDailyInsight) {
	a.impressions += record.Impressions
	a.clicks += record.Clicks
	a.uniqueClicks += record.UniqueClicks
	a.spendCents += record.SpendCents
	if record.Reach > a.reach {
		a.reach = record.Reach
	}
	a.purchases += record.Purchases()
	a.purchaseValueCents += record.PurchaseValueCents()
	a.leads += record.Leads()
}

// cpmCents calcula o CPM em centavos a partir dos totais somados, nunca como
// média de médias diárias
func (a *periodAccumulator) cpmCents() int64 {
	if a.impressions == 0 {
		return 0
	}
	return a.spendCents * 1000 / a.impressions
}

// ctrBasisPoints calcula o CTR em pontos base a partir dos totais somados
func (a *periodAccumulator) ctrBasisPoints() int64 {
	if a.impressions == 0 {
		return 0
	}
	return a.clicks * 10000 / a.impressions
}

func (a *periodAccumulator) metricValue(metric string) int64 {
	switch metric {
	case "impressions":
		return a.impressions
	case "clicks":
		return a.clicks
	case "unique_clicks":
		return a.uniqueClicks
	case "spend":
		return a.spendCents
	case "reach":
		return a.reach
	case "purchases":
		return a.purchases
	case "purchase_value":
		return a.purchaseValueCents
	case "leads":
		return a.leads
	case "cpm":
		return a.cpmCents()
	case "ctr":
		return a.ctrBasisPoints()
	}
	return 0
}

type adState struct {
	descriptor domain.AdDescriptor
	periods    map[string]*periodAccumulator
	firstSeen  int
}

// Transform converte os registros diários brutos de uma conta no bundle
// colunar de três arquivos. O maior período define o universo de anúncios e a
// ordem de emissão é por gasto decrescente no período base
func Transform(
	account *domain.AdAccount,
	records []*domain.AdDailyInsight,
	reference time.Time,
) *domain.ColumnarBundle {
	minDate, maxDate := dataBounds(records)

	cutoffs := make(map[string]time.Time, len(domain.Periods))
	for _, period := range domain.Periods {
		cutoffs[period.Label] = period.Cutoff(reference, minDate)
	}

	ads := make(map[string]*adState)
	campaigns := map[string]string{}
	adsets := map[string]string{}
	accounts := map[string]string{account.ExternalID: account.DisplayName()}
	currencies := map[string]string{account.ExternalID: account.Currency}

	for _, record := range records {
		state, ok := ads[record.AdID]
		if !ok {
			state = &adState{
				descriptor: domain.AdDescriptor{
					AdID:        record.AdID,
					Name:        record.AdName,
					CampaignID:  record.CampaignID,
					AdsetID:     record.AdsetID,
					AccountID:   record.AccountID,
					Format:      record.Format,
					Status:      record.Status,
					MediaURL:    record.MediaURL,
					CreatedTime: record.CreatedTime,
				},
				periods:   make(map[string]*periodAccumulator, len(domain.Periods)),
				firstSeen: len(ads),
			}
			ads[record.AdID] = state
		}

		if record.CampaignName != "" {
			campaigns[record.CampaignID] = record.CampaignName
		}
		if record.AdsetName != "" {
			adsets[record.AdsetID] = record.AdsetName
		}
		if record.AccountName != "" {
			accounts[record.AccountID] = record.AccountName
		}
		if record.MediaURL != "" && state.descriptor.MediaURL == "" {
			state.descriptor.MediaURL = record.MediaURL
		}

		for _, period := range domain.Periods {
			if record.Date.Before(cutoffs[period.Label]) {
				continue
			}
			accumulator, ok := state.periods[period.Label]
			if !ok {
				accumulator = &periodAccumulator{}
				state.periods[period.Label] = accumulator
			}
			accumulator.add(record)
		}
	}

	ordered := orderBySpend(ads)

	periodLabels := domain.PeriodLabels()
	stride := len(periodLabels) * len(domain.BundleMetrics)

	adIDs := make([]string, 0, len(ordered))
	descriptors := make([]domain.AdDescriptor, 0, len(ordered))
	values := make([]int64, 0, len(ordered)*stride)

	for _, state := range ordered {
		adIDs = append(adIDs, state.descriptor.AdID)
		descriptors = append(descriptors, state.descriptor)
		for _, label := range periodLabels {
			accumulator := state.periods[label]
			for _, metric := range domain.BundleMetrics {
				if accumulator == nil {
					values = append(values, 0)
					continue
				}
				values = append(values, accumulator.metricValue(metric))
			}
		}
	}

	summary := domain.SummaryBundle{Periods: make(map[string]*domain.PeriodTotals, len(periodLabels))}
	for _, label := range periodLabels {
		totals := &domain.PeriodTotals{}
		for _, state := range ordered {
			accumulator := state.periods[label]
			if accumulator == nil {
				continue
			}
			totals.Impressions += accumulator.impressions
			totals.Clicks += accumulator.clicks
			totals.UniqueClicks += accumulator.uniqueClicks
			totals.SpendCents += accumulator.spendCents
			totals.Purchases += accumulator.purchases
			totals.PurchaseValueCents += accumulator.purchaseValueCents
			totals.Leads += accumulator.leads
			if accumulator.reach > totals.Reach {
				totals.Reach = accumulator.reach
			}
		}
		summary.Periods[label] = totals
	}

	return &domain.ColumnarBundle{
		Meta: domain.BundleMeta{
			ReferenceDate: reference.Format(dateLayout),
			DataMinDate:   formatBound(minDate),
			DataMaxDate:   formatBound(maxDate),
			RangeDays:     domain.BasePeriod().Days,
			Pipeline:      domain.PipelineTag,
			Campaigns:     campaigns,
			Adsets:        adsets,
			Accounts:      accounts,
			Currencies:    currencies,
			Ads:           descriptors,
		},
		Flat: domain.FlatBundle{
			Periods: periodLabels,
			Metrics: domain.BundleMetrics,
			AdIDs:   adIDs,
			Values:  values,
			Scales:  domain.BundleScales,
		},
		Summary: summary,
	}
}

// orderBySpend ordena os anúncios por gasto decrescente no período base, com
// desempate pela ordem de chegada para manter a saída determinística
func orderBySpend(ads map[string]*adState) []*adState {
	base := domain.BasePeriod().Label
	ordered := make([]*adState, 0, len(ads))
	for _, state := range ads {
		ordered = append(ordered, state)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		var left, right int64
		if acc := ordered[i].periods[base]; acc != nil {
			left = acc.spendCents
		}
		if acc := ordered[j].periods[base]; acc != nil {
			right = acc.spendCents
		}
		if left != right {
			return left > right
		}
		return ordered[i].firstSeen < ordered[j].firstSeen
	})
	return ordered
}

func dataBounds(records []*domain.AdDailyInsight) (time.Time, time.Time) {
	var minDate, maxDate time.Time
	for _, record := range records {
		if minDate.IsZero() || record.Date.Before(minDate) {
			minDate = record.Date
		}
		if maxDate.IsZero() || record.Date.After(maxDate) {
			maxDate = record.Date
		}
	}
	return minDate, maxDate
}

func formatBound(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(dateLayout)
}
