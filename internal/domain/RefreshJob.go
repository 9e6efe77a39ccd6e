package domain

import (
	"time"
)

type RefreshJobStatus string

const (
	RefreshJobStatusQueued  RefreshJobStatus = "QUEUED"
	RefreshJobStatusRunning RefreshJobStatus = "RUNNING"
	RefreshJobStatusOK      RefreshJobStatus = "OK"
	RefreshJobStatusError   RefreshJobStatus = "ERROR"
)

// RefreshRole identifica a origem de uma solicitação de refresh para fins de
// prioridade de admissão
type RefreshRole string

const (
	// RefreshRoleInteractive é o caminho sob demanda disparado por usuário,
	// com prioridade alta até o teto global
	RefreshRoleInteractive RefreshRole = "interactive"

	// RefreshRoleBackground é o caminho agendado, que cede vagas quando a
	// contagem ativa cruza o limiar de corte
	RefreshRoleBackground RefreshRole = "background"
)

// RefreshJob é uma execução de refresh de conta. Criado pelo orquestrador,
// mutado apenas pelo worker que o possui; OK e ERROR são estados terminais
type RefreshJob struct {
	ID         string           `json:"id"`
	TenantID   string           `json:"tenant_id"`
	AccountID  string           `json:"account_id"`
	Role       RefreshRole      `json:"role"`
	Status     RefreshJobStatus `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      *string          `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// RefreshResult é o retorno da operação pública de refresh
type RefreshResult struct {
	JobID        string    `json:"job_id"`
	Status       string    `json:"status"`
	ItemsFetched int       `json:"items_fetched"`
	FilesWritten []string  `json:"files_written"`
	RefreshedAt  time.Time `json:"refreshed_at"`
}

// TenantRefreshResult resume uma rodada de refresh de todas as contas de um tenant
type TenantRefreshResult struct {
	TenantID        string          `json:"tenant_id"`
	AccountsOK      int             `json:"accounts_ok"`
	AccountsFailed  int             `json:"accounts_failed"`
	AccountsSkipped int             `json:"accounts_skipped"`
	Aggregate       *TenantAggregate `json:"aggregate,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	FinishedAt      time.Time       `json:"finished_at"`
}
