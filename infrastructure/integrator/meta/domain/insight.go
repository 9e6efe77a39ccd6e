package metadomain

// ActionEntry é um par (tipo, valor) das listas heterogêneas de ações da API.
// Valores numéricos chegam como string no JSON do provedor
type ActionEntry struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// AdInsightRow é uma linha de insights por anúncio e por dia retornada pelo
// endpoint de insights com time_increment=1
type AdInsightRow struct {
	AdID         string        `json:"ad_id"`
	AdName       string        `json:"ad_name"`
	CampaignID   string        `json:"campaign_id"`
	CampaignName string        `json:"campaign_name"`
	AdsetID      string        `json:"adset_id"`
	AdsetName    string        `json:"adset_name"`
	AccountID    string        `json:"account_id"`
	AccountName  string        `json:"account_name"`
	DateStart    string        `json:"date_start"`
	DateStop     string        `json:"date_stop"`
	Impressions  string        `json:"impressions"`
	Clicks       string        `json:"clicks"`
	UniqueClicks string        `json:"unique_clicks"`
	Spend        string        `json:"spend"`
	Reach        string        `json:"reach"`
	Currency     string        `json:"account_currency"`
	Actions      []ActionEntry `json:"actions,omitempty"`
	ActionValues []ActionEntry `json:"action_values,omitempty"`
}

// Cursors são os tokens de continuação da paginação
type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Paging é o bloco de paginação das respostas do provedor. A página N+1 só
// pode ser requisitada com o cursor devolvido pela página N
type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// InsightsResponse é o envelope de uma página de insights
type InsightsResponse struct {
	Data   []AdInsightRow `json:"data"`
	Paging *Paging        `json:"paging,omitempty"`
}

// HasNextPage indica se existe página seguinte a consumir
func (r *InsightsResponse) HasNextPage() bool {
	return r.Paging != nil && r.Paging.Next != ""
}

// NextCursor retorna o token de continuação ou vazio quando esgotado
func (r *InsightsResponse) NextCursor() string {
	if !r.HasNextPage() {
		return ""
	}
	return r.Paging.Cursors.After
}
