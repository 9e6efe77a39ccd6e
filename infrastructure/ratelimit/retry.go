package ratelimit

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
)

// RetryPolicy centraliza a política de retentativa e backoff de todas as
// chamadas ao provedor, parametrizada pela taxonomia de erros: falhas
// transitórias são retentadas com backoff exponencial com jitter; o erro
// "too many calls" honra a estimativa de espera do provedor quando presente;
// erros 4xx não retentáveis falham imediatamente
type RetryPolicy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// NewRetryPolicy aplica os defaults da política quando os valores são zero
func NewRetryPolicy(base, max time.Duration, attempts int) *RetryPolicy {
	if base <= 0 {
		base = 2 * time.Second
	}
	if max <= 0 {
		max = 60 * time.Second
	}
	if attempts <= 0 {
		attempts = 5
	}
	return &RetryPolicy{BaseDelay: base, MaxDelay: max, MaxAttempts: attempts}
}

// BackoffDelay calcula base × 2^attempt × uniform(0.75, 1.25), limitado ao teto
func (p *RetryPolicy) BackoffDelay(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}

	jitter := 0.75 + rand.Float64()*0.5
	delay = time.Duration(float64(delay) * jitter)
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// RetryDecision classifica um erro para fins de retentativa
type RetryDecision struct {
	Retryable bool
	// Wait é a espera explícita informada pelo provedor; zero quando ausente,
	// caso em que o backoff exponencial é usado
	Wait time.Duration
}

// Classify aplica a taxonomia de erros do provedor
func Classify(err error) RetryDecision {
	apiErr, ok := err.(*metadomain.APIError)
	if !ok {
		// Erros de transporte (timeout, conexão) são transitórios
		return RetryDecision{Retryable: true}
	}

	if apiErr.IsTooManyCalls() {
		// A estimativa do provedor é honrada literalmente; sem estimativa,
		// cai no backoff exponencial
		return RetryDecision{Retryable: true, Wait: apiErr.EstimatedWait}
	}

	if apiErr.IsRateLimit() || apiErr.IsServerError() {
		return RetryDecision{Retryable: true}
	}

	// Demais 4xx falham imediatamente sem consumir tentativas
	return RetryDecision{Retryable: false}
}

// Execute roda a operação com a política de retentativa. A classificação é
// reavaliada a cada falha; o contexto cancela esperas pendentes
func (p *RetryPolicy) Execute(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		decision := Classify(lastErr)
		if !decision.Retryable {
			return lastErr
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		wait := decision.Wait
		if wait <= 0 {
			wait = p.BackoffDelay(attempt)
		}

		logrus.WithFields(logrus.Fields{
			"operation": op,
			"attempt":   attempt + 1,
			"wait":      wait.String(),
		}).Warn("Falha transitória, aguardando antes de retentar")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}
