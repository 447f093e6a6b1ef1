package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// InMemoryCredentialRepository guarda credenciais só em memória. Serve
// para testes e para rodar localmente sem banco. Seguro para leitores
// concorrentes e um escritor por sessão.
type InMemoryCredentialRepository struct {
	mu    sync.RWMutex
	creds map[string]*domain.Credential
}

func NewInMemoryCredentialRepository() *InMemoryCredentialRepository {
	return &InMemoryCredentialRepository{
		creds: make(map[string]*domain.Credential),
	}
}

func (r *InMemoryCredentialRepository) Get(_ context.Context, sessionID string) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.creds[sessionID]
	if !ok {
		return nil, domain.NewError(domain.KindCredentialNotFound, "nenhuma credencial para a sessão")
	}

	// cópia para o leitor nunca observar uma escrita parcial
	copied := *cred
	return &copied, nil
}

func (r *InMemoryCredentialRepository) Put(_ context.Context, sessionID string, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *cred
	r.creds[sessionID] = &copied

	return nil
}

func (r *InMemoryCredentialRepository) Invalidate(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.creds, sessionID)

	return nil
}

func (r *InMemoryCredentialRepository) ListExpiring(_ context.Context, within time.Duration) (map[string]*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	result := make(map[string]*domain.Credential)
	for sessionID, cred := range r.creds {
		if cred.ExpiresWithin(now, within) {
			copied := *cred
			result[sessionID] = &copied
		}
	}

	return result, nil
}
