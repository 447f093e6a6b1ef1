package domain

import (
	"time"
)

// CredentialSource indica de onde a credencial veio
type CredentialSource string

const (
	CredentialSourceOAuth   CredentialSource = "oauth"
	CredentialSourceManual  CredentialSource = "manual"
	CredentialSourceRefresh CredentialSource = "refresh"
)

// Credential é a credencial de longa duração produzida pelo fluxo OAuth
// externo. No máximo uma credencial ativa por sessão: um novo Put
// substitui a anterior, nunca mescla.
type Credential struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   *time.Time       `json:"expires_at"` // nil = o remoto não declarou expiração
	Scopes      []string         `json:"scopes"`
	AccountIDs  []string         `json:"account_ids"`
	FBUserID    string           `json:"fb_user_id"`
	Source      CredentialSource `json:"source"`
	StoredAt    time.Time        `json:"stored_at"`
}

// Expired verifica a expiração local. Quando o remoto não informou
// expiração, a credencial é considerada viva até o primeiro 401.
func (c *Credential) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(*c.ExpiresAt)
}

// ExpiresWithin verifica se a credencial ainda vale agora mas expira
// dentro da janela dada. Credenciais já expiradas ficam de fora: não
// há troca possível para elas. Usado pelo worker de renovação proativa.
func (c *Credential) ExpiresWithin(now time.Time, window time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	remaining := c.ExpiresAt.Sub(now)
	return remaining > 0 && remaining <= window
}

// HasScopes verifica se o conjunto concedido cobre todos os escopos
// exigidos, devolvendo os que faltam.
func (c *Credential) HasScopes(required []string) (bool, []string) {
	granted := make(map[string]struct{}, len(c.Scopes))
	for _, s := range c.Scopes {
		granted[s] = struct{}{}
	}

	var missing []string
	for _, s := range required {
		if _, ok := granted[s]; !ok {
			missing = append(missing, s)
		}
	}

	return len(missing) == 0, missing
}

// CredentialInfo é a visão da credencial exposta pela API inbound.
// Nunca ecoa o token.
type CredentialInfo struct {
	Exists     bool               `json:"exists"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty"`
	Scopes     []string           `json:"scopes,omitempty"`
	AccountIDs []string           `json:"account_ids,omitempty"`
	Source     CredentialSource   `json:"source,omitempty"`
	StoredAt   *time.Time         `json:"stored_at,omitempty"`
	Remote     *RemoteTokenStatus `json:"remote,omitempty"`
}

// RemoteTokenStatus é a visão do próprio remoto sobre o token, obtida
// por introspecção. Ausente quando a introspecção não está disponível.
type RemoteTokenStatus struct {
	IsValid   bool       `json:"is_valid"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Scopes    []string   `json:"scopes,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
}
