package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
)

func TestBackoffDelayBounds(t *testing.T) {
	policy := NewRetryPolicy(2*time.Second, 60*time.Second, 5)

	// base × 2^attempt × uniform(0.75, 1.25), limitado ao teto
	tests := []struct {
		attempt int
		minimum time.Duration
		maximum time.Duration
	}{
		{attempt: 0, minimum: 1500 * time.Millisecond, maximum: 2500 * time.Millisecond},
		{attempt: 1, minimum: 3 * time.Second, maximum: 5 * time.Second},
		{attempt: 2, minimum: 6 * time.Second, maximum: 10 * time.Second},
		{attempt: 10, minimum: 0, maximum: 60 * time.Second},
	}

	for _, tt := range tests {
		for i := 0; i < 50; i++ {
			delay := policy.BackoffDelay(tt.attempt)
			assert.GreaterOrEqual(t, delay, tt.minimum, "tentativa %d", tt.attempt)
			assert.LessOrEqual(t, delay, tt.maximum, "tentativa %d", tt.attempt)
		}
	}
}

func TestNewRetryPolicyDefaults(t *testing.T) {
	policy := NewRetryPolicy(0, 0, 0)

	assert.Equal(t, 2*time.Second, policy.BaseDelay)
	assert.Equal(t, 60*time.Second, policy.MaxDelay)
	assert.Equal(t, 5, policy.MaxAttempts)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		wait      time.Duration
	}{
		{
			name:      "Erro de transporte é transitório",
			err:       errors.New("connection reset"),
			retryable: true,
		},
		{
			name: "Too many calls honra a estimativa do provedor",
			err: &metadomain.APIError{
				StatusCode:    http.StatusBadRequest,
				Code:          metadomain.ErrCodeTooManyCalls,
				EstimatedWait: 3 * time.Minute,
			},
			retryable: true,
			wait:      3 * time.Minute,
		},
		{
			name: "Rate limit genérico usa backoff exponencial",
			err: &metadomain.APIError{
				StatusCode: http.StatusBadRequest,
				Code:       metadomain.ErrCodeAppRateLimit,
			},
			retryable: true,
		},
		{
			name: "5xx do provedor é retentável",
			err: &metadomain.APIError{
				StatusCode: http.StatusInternalServerError,
			},
			retryable: true,
		},
		{
			name: "Permissão negada falha imediatamente",
			err: &metadomain.APIError{
				StatusCode: http.StatusForbidden,
				Code:       metadomain.ErrCodePermissionDenied,
			},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Classify(tt.err)
			assert.Equal(t, tt.retryable, decision.Retryable)
			assert.Equal(t, tt.wait, decision.Wait)
		})
	}
}

func TestExecuteRetriesTransientFailures(t *testing.T) {
	policy := NewRetryPolicy(time.Millisecond, 5*time.Millisecond, 5)

	calls := 0
	err := policy.Execute(context.Background(), "teste", func() error {
		calls++
		if calls < 3 {
			return &metadomain.APIError{StatusCode: http.StatusInternalServerError}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteStopsOnNonRetryable(t *testing.T) {
	policy := NewRetryPolicy(time.Millisecond, 5*time.Millisecond, 5)

	permission := &metadomain.APIError{
		StatusCode: http.StatusForbidden,
		Code:       metadomain.ErrCodePermissionDenied,
	}

	calls := 0
	err := policy.Execute(context.Background(), "teste", func() error {
		calls++
		return permission
	})

	assert.Equal(t, permission, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	policy := NewRetryPolicy(time.Millisecond, 5*time.Millisecond, 3)

	calls := 0
	err := policy.Execute(context.Background(), "teste", func() error {
		calls++
		return &metadomain.APIError{StatusCode: http.StatusBadGateway}
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	policy := NewRetryPolicy(time.Minute, time.Minute, 5)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Execute(ctx, "teste", func() error {
			calls++
			cancel()
			return &metadomain.APIError{StatusCode: http.StatusInternalServerError}
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Execute não respeitou o cancelamento do contexto")
	}
}
