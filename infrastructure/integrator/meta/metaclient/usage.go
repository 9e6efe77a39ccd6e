package metaclient

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// Cabeçalhos de telemetria de uso enviados pelo provedor. Cada um carrega um
// payload JSON com percentuais de utilização por dimensão
const (
	headerAppUsage             = "X-App-Usage"
	headerAdAccountUsage       = "X-Ad-Account-Usage"
	headerBusinessUseCaseUsage = "X-Business-Use-Case-Usage"
)

// appUsagePayload cobre X-App-Usage e X-Ad-Account-Usage
type appUsagePayload struct {
	CallCount    float64 `json:"call_count"`
	TotalTime    float64 `json:"total_time"`
	TotalCPUTime float64 `json:"total_cputime"`
	// AccUtilPct aparece apenas em X-Ad-Account-Usage
	AccUtilPct float64 `json:"acc_id_util_pct"`
}

// businessUseCaseEntry é uma entrada de X-Business-Use-Case-Usage, agrupada
// por conta no payload
type businessUseCaseEntry struct {
	Type                        string  `json:"type"`
	CallCount                   float64 `json:"call_count"`
	TotalTime                   float64 `json:"total_time"`
	TotalCPUTime                float64 `json:"total_cputime"`
	EstimatedTimeToRegainAccess float64 `json:"estimated_time_to_regain_access"`
}

// ParseUsageHeaders decodifica os cabeçalhos de uso de uma resposta em um
// UsageSnapshot normalizado. A utilização é o máximo entre todas as dimensões
// observadas para a conta; uma estimativa explícita de espera, quando
// presente, é autoritativa. Cabeçalhos malformados ou ausentes nunca geram
// erro: a telemetria é consultiva, então a falha é aberta (utilização 0)
func ParseUsageHeaders(header http.Header, accountID string) *domain.UsageSnapshot {
	snapshot := &domain.UsageSnapshot{
		AccountID:  accountID,
		ObservedAt: time.Now(),
	}

	if raw := header.Get(headerAppUsage); raw != "" {
		var payload appUsagePayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			snapshot.Utilization = maxFloat(snapshot.Utilization, payload.CallCount, payload.TotalTime, payload.TotalCPUTime)
		}
	}

	if raw := header.Get(headerAdAccountUsage); raw != "" {
		var payload appUsagePayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			snapshot.Utilization = maxFloat(snapshot.Utilization, payload.AccUtilPct)
		}
	}

	if raw := header.Get(headerBusinessUseCaseUsage); raw != "" {
		var payload map[string][]businessUseCaseEntry
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			for payloadAccount, entries := range payload {
				if accountID != "" && payloadAccount != accountID {
					continue
				}
				for _, entry := range entries {
					snapshot.Utilization = maxFloat(snapshot.Utilization, entry.CallCount, entry.TotalTime, entry.TotalCPUTime)
					if entry.EstimatedTimeToRegainAccess > 0 {
						// A estimativa vem em minutos
						wait := time.Duration(entry.EstimatedTimeToRegainAccess) * time.Minute
						if wait > snapshot.SuggestedPause {
							snapshot.SuggestedPause = wait
						}
					}
				}
			}
		}
	}

	return snapshot
}

func maxFloat(values ...float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
