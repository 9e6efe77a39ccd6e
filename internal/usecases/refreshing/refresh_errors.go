package refreshing

import (
	"fmt"
	"time"
)

// Category distingue as cinco classes de falha de um refresh. Quem chama reage
// de forma diferente: o cron loga e segue, o caminho interativo devolve uma
// dica de retentativa ao usuário
type Category string

const (
	// CategoryTransient cobre rate limit, 5xx e timeout após esgotar as
	// retentativas locais
	CategoryTransient Category = "transient"

	// CategoryBadRequest cobre parâmetros malformados, sem retentativa
	CategoryBadRequest Category = "bad_request"

	// CategoryAccount cobre falha de descriptografia ou de permissão: isola e
	// desativa a conta sem abortar a rodada
	CategoryAccount Category = "account"

	// CategoryStructural cobre bundle armazenado malformado ou ausente
	CategoryStructural Category = "structural"

	// CategoryExhausted cobre admissão negada: condição de "tente mais tarde",
	// nunca enfileirada silenciosamente
	CategoryExhausted Category = "exhausted"
)

// RefreshError carrega a razão legível por máquina de uma falha de refresh
type RefreshError struct {
	Category   Category
	Message    string
	RetryAfter time.Duration
	cause      error
}

func (e *RefreshError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *RefreshError) Unwrap() error {
	return e.cause
}

func newRefreshError(category Category, message string, cause error) *RefreshError {
	return &RefreshError{Category: category, Message: message, cause: cause}
}

// CategoryOf extrai a categoria de um erro de refresh; erros desconhecidos são
// tratados como transitórios
func CategoryOf(err error) Category {
	if refreshErr, ok := err.(*RefreshError); ok {
		return refreshErr.Category
	}
	return CategoryTransient
}
