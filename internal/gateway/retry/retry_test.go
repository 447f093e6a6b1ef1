package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Outcome
	}{
		{
			name:     "Sem erro",
			err:      nil,
			expected: OutcomeSuccess,
		},
		{
			name: "Token expirado (190/460)",
			err: &domain.RemoteError{
				StatusCode: 401,
				Code:       190,
				Subcode:    460,
				Type:       "OAuthException",
			},
			expected: OutcomeAuthFailure,
		},
		{
			name: "Limite do remoto (código 4)",
			err: &domain.RemoteError{
				StatusCode: 400,
				Code:       4,
			},
			expected: OutcomeRateLimited,
		},
		{
			name: "Limite do remoto (HTTP 429)",
			err: &domain.RemoteError{
				StatusCode: 429,
				Code:       613,
			},
			expected: OutcomeRateLimited,
		},
		{
			name: "Erro interno do remoto (500)",
			err: &domain.RemoteError{
				StatusCode: 500,
				Code:       1,
			},
			expected: OutcomeTransient,
		},
		{
			name: "Requisição inválida (400 sem código conhecido)",
			err: &domain.RemoteError{
				StatusCode: 400,
				Code:       100,
			},
			expected: OutcomePermanent,
		},
		{
			name:     "Erro embrulhado preserva a classificação",
			err:      errors.Wrap(&domain.RemoteError{StatusCode: 503, Code: 2}, "chamando o Graph"),
			expected: OutcomeTransient,
		},
		{
			name:     "Deadline excedido é transiente",
			err:      context.DeadlineExceeded,
			expected: OutcomeTransient,
		},
		{
			name:     "Erro desconhecido é permanente",
			err:      errors.New("algo inesperado"),
			expected: OutcomePermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}

func TestPolicy_Decide(t *testing.T) {
	policy := Policy{
		MaxAttempts: 3,
		BackoffBase: time.Second,
		BackoffMax:  30 * time.Second,
	}

	t.Run("Transiente dentro do limite de tentativas gera nova tentativa", func(t *testing.T) {
		again, delay := policy.Decide(1, OutcomeTransient)
		require.True(t, again)
		assert.GreaterOrEqual(t, delay, time.Second)
		assert.LessOrEqual(t, delay, time.Second+time.Second/4)
	})

	t.Run("Backoff cresce exponencialmente", func(t *testing.T) {
		_, first := policy.Decide(1, OutcomeTransient)
		_, second := policy.Decide(2, OutcomeTransient)

		assert.GreaterOrEqual(t, second, 2*time.Second)
		assert.Less(t, first, second+time.Second)
	})

	t.Run("Esgota na última tentativa", func(t *testing.T) {
		again, _ := policy.Decide(3, OutcomeTransient)
		assert.False(t, again)
	})

	t.Run("Falha de autenticação nunca gera nova tentativa", func(t *testing.T) {
		again, _ := policy.Decide(1, OutcomeAuthFailure)
		assert.False(t, again)
	})

	t.Run("Limite do remoto gera nova tentativa com backoff", func(t *testing.T) {
		again, delay := policy.Decide(1, OutcomeRateLimited)
		require.True(t, again)
		assert.GreaterOrEqual(t, delay, time.Second)
	})

	t.Run("Limite do remoto também esgota na última tentativa", func(t *testing.T) {
		again, _ := policy.Decide(3, OutcomeRateLimited)
		assert.False(t, again)
	})

	t.Run("Falha permanente nunca gera nova tentativa", func(t *testing.T) {
		again, _ := policy.Decide(1, OutcomePermanent)
		assert.False(t, again)
	})
}

func TestExecutor_Execute(t *testing.T) {
	newExecutor := func() *Executor {
		e := NewExecutor(Policy{
			MaxAttempts: 3,
			BackoffBase: time.Millisecond,
			BackoffMax:  5 * time.Millisecond,
		})
		e.sleep = func(ctx context.Context, d time.Duration) error { return nil }
		return e
	}

	t.Run("Duas falhas transientes seguidas de sucesso", func(t *testing.T) {
		e := newExecutor()

		calls := 0
		outcome, err := e.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return &domain.RemoteError{StatusCode: 500, Code: 1}
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
		assert.Equal(t, 3, calls)
	})

	t.Run("Três falhas transientes esgotam as tentativas", func(t *testing.T) {
		e := newExecutor()

		calls := 0
		outcome, err := e.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			return &domain.RemoteError{StatusCode: 503, Code: 2}
		})

		require.Error(t, err)
		assert.Equal(t, OutcomeTransient, outcome)
		assert.Equal(t, 3, calls, "deveria parar exatamente no limite de tentativas")
	})

	t.Run("Limite do remoto que passa na segunda tentativa", func(t *testing.T) {
		e := newExecutor()

		calls := 0
		outcome, err := e.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return &domain.RemoteError{StatusCode: 429, Code: 17}
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
		assert.Equal(t, 2, calls)
	})

	t.Run("Limite do remoto persistente esgota as tentativas", func(t *testing.T) {
		e := newExecutor()

		calls := 0
		outcome, err := e.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			return &domain.RemoteError{StatusCode: 429, Code: 17}
		})

		require.Error(t, err)
		assert.Equal(t, OutcomeRateLimited, outcome)
		assert.Equal(t, 3, calls)
	})

	t.Run("Falha de autenticação falha na primeira chamada", func(t *testing.T) {
		e := newExecutor()

		calls := 0
		outcome, err := e.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			return &domain.RemoteError{StatusCode: 401, Code: 190, Type: "OAuthException", Subcode: 463}
		})

		require.Error(t, err)
		assert.Equal(t, OutcomeAuthFailure, outcome)
		assert.Equal(t, 1, calls)
	})

	t.Run("Contexto cancelado interrompe antes da chamada", func(t *testing.T) {
		e := newExecutor()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := e.Execute(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})
}
