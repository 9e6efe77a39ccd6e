package ratelimit

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// Mode seleciona os limiares do controlador. O modo conservador pausa e reduz
// lotes em utilizações mais baixas que o modo de produção
type Mode string

const (
	ModeConservative Mode = "conservative"
	ModeProduction   Mode = "production"
)

// ParseMode converte a string de configuração, com produção como padrão
func ParseMode(s string) Mode {
	if s == string(ModeConservative) {
		return ModeConservative
	}
	return ModeProduction
}

// Controller decide pausas proativas, tamanho ótimo de lote e número ótimo de
// workers a partir da telemetria de uso mais recente de cada conta. Cada conta
// é escrita por exatamente um worker por vez; o mutex protege apenas a
// estrutura do mapa compartilhado entre workers de contas distintas
type Controller struct {
	mode Mode

	mu        sync.RWMutex
	snapshots map[string]*domain.UsageSnapshot
}

func NewController(mode Mode) *Controller {
	return &Controller{
		mode:      mode,
		snapshots: make(map[string]*domain.UsageSnapshot),
	}
}

// Observe registra o snapshot mais recente da conta
func (c *Controller) Observe(snapshot *domain.UsageSnapshot) {
	if snapshot == nil || snapshot.AccountID == "" {
		return
	}

	c.mu.Lock()
	c.snapshots[snapshot.AccountID] = snapshot
	c.mu.Unlock()
}

// Usage retorna o último snapshot observado da conta, ou nil
func (c *Controller) Usage(accountID string) *domain.UsageSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshots[accountID]
}

// pauseThreshold é a utilização a partir da qual o controlador pausa
func (c *Controller) pauseThreshold() float64 {
	if c.mode == ModeConservative {
		return 75
	}
	return 90
}

// ShouldPause decide se a conta deve pausar antes da próxima chamada e por
// quanto tempo. A duração recebe jitter de ±10% para evitar retentativas
// sincronizadas entre workers
func (c *Controller) ShouldPause(accountID string) (bool, time.Duration) {
	snapshot := c.Usage(accountID)
	if snapshot == nil {
		return false, 0
	}

	// Estimativa explícita do provedor é autoritativa
	if snapshot.SuggestedPause > 0 {
		return true, withJitter(snapshot.SuggestedPause)
	}

	if snapshot.Utilization < c.pauseThreshold() {
		return false, 0
	}

	var pause time.Duration
	switch {
	case snapshot.Utilization >= c.pauseThreshold()+20:
		pause = 120 * time.Second
	case snapshot.Utilization >= c.pauseThreshold()+10:
		pause = 60 * time.Second
	default:
		pause = 30 * time.Second
	}

	return true, withJitter(pause)
}

// OptimalBatchSize retorna o tamanho de lote para lookups em lote da conta,
// reduzido em degraus conforme a utilização sobe
func (c *Controller) OptimalBatchSize(accountID string) int {
	utilization := 0.0
	if snapshot := c.Usage(accountID); snapshot != nil {
		utilization = snapshot.Utilization
	}

	if c.mode == ModeConservative {
		switch {
		case utilization < 50:
			return 50
		case utilization < 75:
			return 40
		case utilization < 90:
			return 25
		default:
			return 10
		}
	}

	switch {
	case utilization < 60:
		return 100
	case utilization < 80:
		return 75
	case utilization < 90:
		return 40
	default:
		return 15
	}
}

// OptimalWorkerCount deriva o número de workers da utilização média entre
// todas as contas rastreadas. O estrangulamento é global, não por conta: a
// cota externa costuma ser compartilhada acima do nível de conta individual
func (c *Controller) OptimalWorkerCount() int {
	average := c.averageUtilization()

	if c.mode == ModeConservative {
		switch {
		case average < 50:
			return 4
		case average < 75:
			return 3
		case average < 90:
			return 2
		default:
			return 1
		}
	}

	switch {
	case average < 60:
		return 8
	case average < 80:
		return 5
	case average < 90:
		return 3
	default:
		return 2
	}
}

func (c *Controller) averageUtilization() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.snapshots) == 0 {
		return 0
	}

	total := 0.0
	for _, snapshot := range c.snapshots {
		total += snapshot.Utilization
	}
	return total / float64(len(c.snapshots))
}

// withJitter aplica ±10% de variação aleatória
func withJitter(d time.Duration) time.Duration {
	factor := 0.9 + rand.Float64()*0.2
	return time.Duration(float64(d) * factor)
}
