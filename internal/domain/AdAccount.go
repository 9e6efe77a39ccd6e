package domain

import (
	"time"
)

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
	// AdAccountStatusDisabled indica que a conta foi desativada automaticamente
	// pelo circuit breaker após falhas consecutivas de permissão
	AdAccountStatusDisabled AdAccountStatus = "DISABLED"
)

type AdAccount struct {
	ID                  string          `json:"id"`
	ExternalID          string          `json:"external_id"`
	TenantID            string          `json:"tenant_id"`
	Name                string          `json:"name"`
	Nickname            *string         `json:"nickname"`
	Currency            string          `json:"currency"`
	Status              AdAccountStatus `json:"status"`
	SealedToken         string          `json:"-"`
	ConsecutiveFailures int             `json:"consecutive_failures"`
	DisabledReason      *string         `json:"disabled_reason,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// DisplayName retorna o apelido da conta quando definido, caso contrário o nome
func (a *AdAccount) DisplayName() string {
	if a.Nickname != nil && *a.Nickname != "" {
		return *a.Nickname
	}
	return a.Name
}

type Claims struct {
	UserID     string `json:"user_id"`
	UserRoleID int    `json:"user_role_id"`
}
