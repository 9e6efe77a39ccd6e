package domain

import (
	"time"
)

// UsageSnapshot é o retrato normalizado da telemetria de cota de uma conta,
// reconstruído a partir dos cabeçalhos de cada resposta do provedor.
// Efêmero e local ao processo; nunca é persistido
type UsageSnapshot struct {
	AccountID string
	// Utilization é o percentual máximo de utilização observado entre as
	// dimensões reportadas (chamadas, tempo total, tempo de CPU)
	Utilization float64
	// SuggestedPause é o tempo explícito para recuperar acesso informado pelo
	// provedor; zero quando ausente
	SuggestedPause time.Duration
	ObservedAt     time.Time
}
