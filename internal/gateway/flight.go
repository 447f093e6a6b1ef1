package gateway

import (
	"context"
	"sync"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// call é uma execução em voo compartilhada por todos os requests com
// o mesmo fingerprint. A execução pertence ao grupo, não a quem a
// iniciou: se o primeiro chamador desistir, os demais seguem
// esperando o mesmo resultado.
type call struct {
	done   chan struct{}
	cancel context.CancelFunc

	refs int

	result *domain.CallResult
	err    error
}

// flightGroup colapsa chamadas idênticas concorrentes em uma única
// execução remota
type flightGroup struct {
	mu    sync.Mutex
	calls map[string]*call
}

func newFlightGroup() *flightGroup {
	return &flightGroup{
		calls: make(map[string]*call),
	}
}

// Do executa fn para o fingerprint, ou espera uma execução já em voo
// para o mesmo fingerprint. A execução roda em contexto próprio e só
// é cancelada quando o último interessado desiste; nesse caso quem
// desistiu recebe o erro do próprio contexto.
func (g *flightGroup) Do(
	ctx context.Context,
	fingerprint string,
	fn func(ctx context.Context) (*domain.CallResult, error),
) (*domain.CallResult, error) {
	g.mu.Lock()

	c, inFlight := g.calls[fingerprint]
	if !inFlight {
		callCtx, cancel := context.WithCancel(context.Background())
		c = &call{
			done:   make(chan struct{}),
			cancel: cancel,
		}
		g.calls[fingerprint] = c

		go func() {
			result, err := fn(callCtx)

			g.mu.Lock()
			c.result = result
			c.err = err
			// um abort pode já ter removido esta entrada e outra
			// execução pode tê-la substituído; só remove a própria
			if cur, ok := g.calls[fingerprint]; ok && cur == c {
				delete(g.calls, fingerprint)
			}
			g.mu.Unlock()

			cancel()
			close(c.done)
		}()
	}

	c.refs++
	g.mu.Unlock()

	select {
	case <-c.done:
		g.mu.Lock()
		c.refs--
		g.mu.Unlock()

		return c.result, c.err

	case <-ctx.Done():
		g.mu.Lock()
		c.refs--
		if c.refs == 0 {
			// último interessado: aborta a execução e libera o
			// fingerprint para uma nova chamada
			c.cancel()
			if cur, ok := g.calls[fingerprint]; ok && cur == c {
				delete(g.calls, fingerprint)
			}
		}
		g.mu.Unlock()

		return nil, ctx.Err()
	}
}
