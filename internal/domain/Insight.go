package domain

import (
	"time"
)

// AdAction representa um evento de ação reportado pelo provedor para um anúncio,
// como par (tipo, contagem) ou (tipo, valor monetário)
type AdAction struct {
	Type  string  `json:"action_type"`
	Value float64 `json:"value"`
}

// AdDailyInsight é a observação bruta de um anúncio em um dia de calendário.
// Imutável após o fetch; substituída apenas por um fetch mais novo da mesma
// chave (ad_id, date)
type AdDailyInsight struct {
	AdID         string     `json:"ad_id"`
	AdName       string     `json:"ad_name"`
	CampaignID   string     `json:"campaign_id"`
	CampaignName string     `json:"campaign_name"`
	AdsetID      string     `json:"adset_id"`
	AdsetName    string     `json:"adset_name"`
	AccountID    string     `json:"account_id"`
	AccountName  string     `json:"account_name"`
	Date         time.Time  `json:"date"`
	Impressions  int64      `json:"impressions"`
	Clicks       int64      `json:"clicks"`
	UniqueClicks int64      `json:"unique_clicks"`
	SpendCents   int64      `json:"spend_cents"`
	Reach        int64      `json:"reach"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	Format       string     `json:"format"`
	MediaURL     string     `json:"media_url,omitempty"`
	CreatedTime  *time.Time `json:"created_time,omitempty"`
	Actions      []AdAction `json:"actions,omitempty"`
	ActionValues []AdAction `json:"action_values,omitempty"`
}

// Ordem de prioridade para extração de compras e leads das listas de ações.
// O tipo canônico vem primeiro, depois os aliases legados; a primeira
// correspondência vence e tipos desconhecidos são ignorados
var (
	PurchaseActionPriority = []string{
		"omni_purchase",
		"purchase",
		"offsite_conversion.fb_pixel_purchase",
	}

	LeadActionPriority = []string{
		"lead",
		"onsite_conversion.lead_grouped",
		"offsite_conversion.fb_pixel_lead",
	}
)

// ExtractAction busca o valor de uma ação seguindo a ordem de prioridade dos
// tipos. Sem correspondência, retorna zero
func ExtractAction(actions []AdAction, priority []string) float64 {
	for _, actionType := range priority {
		for _, action := range actions {
			if action.Type == actionType {
				return action.Value
			}
		}
	}
	return 0
}

// Purchases retorna a contagem de compras do registro
func (i *AdDailyInsight) Purchases() int64 {
	return int64(ExtractAction(i.Actions, PurchaseActionPriority))
}

// PurchaseValueCents retorna o valor monetário das compras em centavos
func (i *AdDailyInsight) PurchaseValueCents() int64 {
	return int64(ExtractAction(i.ActionValues, PurchaseActionPriority) * 100)
}

// Leads retorna a contagem de leads do registro
func (i *AdDailyInsight) Leads() int64 {
	return int64(ExtractAction(i.Actions, LeadActionPriority))
}
