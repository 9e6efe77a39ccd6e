package domain

import (
	"time"
)

// BundleMetrics é a lista fixa de métricas na ordem em que aparecem no array
// plano de valores. O stride por anúncio é |Periods| × |BundleMetrics| e os
// consumidores dependem desse layout bit a bit
var BundleMetrics = []string{
	"impressions",
	"clicks",
	"unique_clicks",
	"spend",
	"reach",
	"purchases",
	"purchase_value",
	"leads",
	"cpm",
	"ctr",
}

// Divisores de armazenamento: valores monetários em centavos, CTR em pontos base
var BundleScales = map[string]int{
	"spend":          100,
	"purchase_value": 100,
	"cpm":            100,
	"ctr":            10000,
}

const (
	// PipelineTag identifica a versão do pipeline que gerou o bundle
	PipelineTag = "columnar-v2"

	// PipelineTagAggregated marca bundles produzidos pela agregação multi-conta
	PipelineTagAggregated = "columnar-v2/aggregated"
)

// AdDescriptor descreve um anúncio no arquivo de metadados do bundle
type AdDescriptor struct {
	AdID        string     `json:"ad_id"`
	Name        string     `json:"name"`
	CampaignID  string     `json:"campaign_id"`
	AdsetID     string     `json:"adset_id"`
	AccountID   string     `json:"account_id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	MediaURL    string     `json:"media_url,omitempty"`
	CreatedTime *time.Time `json:"created_time,omitempty"`
}

// BundleMeta é o arquivo de metadados do bundle: dicionários de entidades,
// descritores por anúncio e proveniência
type BundleMeta struct {
	ReferenceDate string            `json:"reference_date"`
	DataMinDate   string            `json:"data_min_date"`
	DataMaxDate   string            `json:"data_max_date"`
	RangeDays     int               `json:"range_days"`
	Pipeline      string            `json:"pipeline"`
	Campaigns     map[string]string `json:"campaigns"`
	Adsets        map[string]string `json:"adsets"`
	Accounts      map[string]string `json:"accounts"`
	Currencies    map[string]string `json:"currencies"`
	Ads           []AdDescriptor    `json:"ads"`
}

// FlatBundle é o arquivo de agregados planos: valores inteiros em layout
// anúncio-major, depois período-major, depois métrica-major
type FlatBundle struct {
	Periods []string       `json:"periods"`
	Metrics []string       `json:"metrics"`
	AdIDs   []string       `json:"ad_ids"`
	Values  []int64        `json:"values"`
	Scales  map[string]int `json:"scales"`
}

// PeriodTotals são os totais aditivos de um período no arquivo de resumo.
// Reach é não-aditivo: máximo no nível de conta, sempre 0 no nível de tenant
type PeriodTotals struct {
	Impressions        int64 `json:"impressions"`
	Clicks             int64 `json:"clicks"`
	UniqueClicks       int64 `json:"unique_clicks"`
	SpendCents         int64 `json:"spend"`
	Reach              int64 `json:"reach"`
	Purchases          int64 `json:"purchases"`
	PurchaseValueCents int64 `json:"purchase_value"`
	Leads              int64 `json:"leads"`
}

// SummaryBundle é o arquivo de resumo: totais aditivos por período
type SummaryBundle struct {
	Periods map[string]*PeriodTotals `json:"periods"`
}

// ColumnarBundle reúne os três arquivos colunarizados de uma conta ou tenant
type ColumnarBundle struct {
	Meta    BundleMeta    `json:"meta"`
	Flat    FlatBundle    `json:"flat"`
	Summary SummaryBundle `json:"summary"`
}

// Razões registradas no manifesto de falhas da agregação multi-conta
const (
	MergeFailureNotRefreshed = "not_refreshed"
	MergeFailureCorrupt      = "corrupt"
)

// MergeFailure registra uma conta pulada durante a agregação de tenant
type MergeFailure struct {
	AccountID string `json:"account_id"`
	Reason    string `json:"reason"`
}

// TenantAggregate é o resultado da agregação multi-conta: o bundle mesclado
// das contas sobreviventes mais o manifesto de falhas
type TenantAggregate struct {
	Bundle         *ColumnarBundle `json:"bundle"`
	AccountsMerged int             `json:"accounts_merged"`
	AccountsFailed int             `json:"accounts_failed"`
	Failures       []MergeFailure  `json:"failures,omitempty"`
}
