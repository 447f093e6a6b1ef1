// Package ratelimit implementa o limitador de janela deslizante por
// credencial. A decisão de admitir então-gravar é uma seção crítica:
// dois chamadores nunca podem observar "count < quota" e ambos serem
// admitidos quando só resta uma vaga.
package ratelimit

import (
	"sync"
	"time"
)

// DecisionKind é o resultado de uma tentativa de admissão
type DecisionKind int

const (
	Admitted DecisionKind = iota
	Delayed
	Rejected
)

// Decision carrega o resultado e, quando Delayed, quanto esperar até o
// timestamp mais antigo sair da janela
type Decision struct {
	Kind       DecisionKind
	RetryAfter time.Duration
}

type Limiter struct {
	mu      sync.Mutex
	quota   int
	window  time.Duration
	maxWait time.Duration
	now     func() time.Time

	// timestamps de requisições dentro da janela, por credencial,
	// em ordem crescente
	windows map[string][]time.Time
}

type Option func(*Limiter)

// WithClock injeta o relógio, usado nos testes
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func New(quota int, window, maxWait time.Duration, opts ...Option) *Limiter {
	if quota <= 0 {
		quota = 1
	}

	l := &Limiter{
		quota:   quota,
		window:  window,
		maxWait: maxWait,
		now:     time.Now,
		windows: make(map[string][]time.Time),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Admit tenta admitir uma requisição para a credencial. Entradas mais
// velhas que a janela são purgadas preguiçosamente aqui. A checagem e a
// gravação acontecem sob o mesmo lock.
func (l *Limiter) Admit(credentialID string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	timestamps := l.windows[credentialID]

	// purge preguiçoso: descarta o prefixo fora da janela
	idx := 0
	for idx < len(timestamps) && !timestamps[idx].After(cutoff) {
		idx++
	}
	timestamps = timestamps[idx:]

	if len(timestamps) < l.quota {
		l.windows[credentialID] = append(timestamps, now)
		return Decision{Kind: Admitted}
	}

	l.windows[credentialID] = timestamps

	// tempo até o timestamp mais antigo envelhecer para fora da janela
	retryAfter := timestamps[0].Add(l.window).Sub(now)
	if retryAfter > l.maxWait {
		return Decision{Kind: Rejected, RetryAfter: retryAfter}
	}

	return Decision{Kind: Delayed, RetryAfter: retryAfter}
}

// Reset limpa a janela de uma credencial (uso administrativo)
func (l *Limiter) Reset(credentialID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, credentialID)
}

// InWindow devolve quantas requisições estão na janela atual da
// credencial, sem gravar nada
func (l *Limiter) InWindow(credentialID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)

	count := 0
	for _, ts := range l.windows[credentialID] {
		if ts.After(cutoff) {
			count++
		}
	}

	return count
}
