// Package retry classifica falhas do remoto e reexecuta chamadas
// transientes com backoff exponencial.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// Outcome é a classe de uma falha vista pelo executor
type Outcome int

const (
	// OutcomeSuccess indica que a chamada terminou sem erro
	OutcomeSuccess Outcome = iota
	// OutcomeTransient cobre 5xx, timeouts de rede e erros internos
	// do remoto que valem nova tentativa
	OutcomeTransient
	// OutcomeRateLimited indica que o próprio remoto sinalizou
	// limite de chamadas; retentável como transiente
	OutcomeRateLimited
	// OutcomeAuthFailure indica token expirado ou revogado
	OutcomeAuthFailure
	// OutcomePermanent cobre 4xx de request inválido e tudo que
	// repetir não resolve
	OutcomePermanent
)

// Classify mapeia um erro de transporte para a classe que decide o
// comportamento do executor. A ordem importa: falha de autenticação e
// limite do remoto têm precedência sobre transiente.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var remoteErr *domain.RemoteError
	if errors.As(err, &remoteErr) {
		switch {
		case remoteErr.IsTokenExpired():
			return OutcomeAuthFailure
		case remoteErr.IsRateLimited():
			return OutcomeRateLimited
		case remoteErr.IsTransient():
			return OutcomeTransient
		default:
			return OutcomePermanent
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTransient
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTransient
	}

	return OutcomePermanent
}

// Policy decide, para uma tentativa que acabou de falhar, se o
// executor tenta de novo e quanto espera antes. É uma função pura da
// configuração, do número da tentativa (1-based) e da classe da falha.
type Policy struct {
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// Decide devolve (true, espera) quando a tentativa attempt deve ser
// seguida de outra. Transiente e limite do remoto são retentáveis;
// falha de autenticação e falha permanente falham na hora.
func (p Policy) Decide(attempt int, outcome Outcome) (bool, time.Duration) {
	if outcome != OutcomeTransient && outcome != OutcomeRateLimited {
		return false, 0
	}

	if attempt >= p.MaxAttempts {
		return false, 0
	}

	return true, p.backoff(attempt)
}

func (p Policy) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(p.BackoffBase) * math.Pow(2, float64(attempt-1)))
	if delay > p.BackoffMax || delay <= 0 {
		delay = p.BackoffMax
	}

	// jitter de até 25% para não sincronizar clientes
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))

	return delay + jitter
}

// Executor reexecuta uma chamada segundo a Policy, respeitando o
// contexto entre tentativas
type Executor struct {
	policy Policy
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewExecutor(policy Policy) *Executor {
	return &Executor{
		policy: policy,
		sleep:  sleepCtx,
	}
}

// Execute chama fn até obter sucesso, esgotar as tentativas ou
// encontrar uma falha não retentável. Devolve o último erro observado
// e sua classe.
func (e *Executor) Execute(ctx context.Context, fn func(ctx context.Context) error) (Outcome, error) {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return OutcomePermanent, err
		}

		lastErr = fn(ctx)
		outcome := Classify(lastErr)
		if outcome == OutcomeSuccess {
			return OutcomeSuccess, nil
		}

		again, delay := e.policy.Decide(attempt, outcome)
		if !again {
			return outcome, lastErr
		}

		if err := e.sleep(ctx, delay); err != nil {
			return OutcomePermanent, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
