package tokening

import (
	"context"
	"fmt"
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-gateway/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-gateway/infrastructure/repository"
	"github.com/vfg2006/meta-ads-gateway/internal/config"
	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// tokenPattern é a forma básica de um token do Graph: longo e só com
// caracteres de URL. A validação de verdade acontece na primeira
// chamada remota.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const minTokenLength = 50

// TokenService valida credenciais localmente antes do uso e gerencia o
// ciclo de vida delas (troca, invalidação, introspecção).
type TokenService interface {
	GetUsable(ctx context.Context, sessionID string, requiredScopes []string) (*domain.Credential, error)
	EnsureUsable(cred *domain.Credential, requiredScopes []string) error
	StoreCredential(ctx context.Context, sessionID string, cred *domain.Credential) error
	InvalidateOnAuthFailure(ctx context.Context, sessionID string) error
	Invalidate(ctx context.Context, sessionID string) error
	Describe(ctx context.Context, sessionID string) (*domain.CredentialInfo, error)
	Refresh(ctx context.Context, sessionID string, cred *domain.Credential) (*domain.Credential, error)
	RefreshSession(ctx context.Context, sessionID string) (*domain.CredentialInfo, error)
	Introspect(ctx context.Context, sessionID string, cred *domain.Credential) (*metaclient.DebugTokenInfo, error)
}

type Service struct {
	cfg        *config.Config
	store      repository.CredentialRepository
	meta       metaclient.Client
	debugCache *gocache.Cache
	now        func() time.Time
}

func NewService(cfg *config.Config, store repository.CredentialRepository, meta metaclient.Client) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		meta:  meta,
		// introspecção é cara e muda raramente; memoizar por 5 minutos
		debugCache: gocache.New(5*time.Minute, 10*time.Minute),
		now:        time.Now,
	}
}

// GetUsable busca a credencial da sessão e a valida localmente.
// Nenhuma chamada de rede acontece aqui: a aceitação remota só é
// confirmada quando a primeira chamada real falha com erro de
// autenticação.
func (s *Service) GetUsable(ctx context.Context, sessionID string, requiredScopes []string) (*domain.Credential, error) {
	cred, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.EnsureUsable(cred, requiredScopes); err != nil {
		return nil, err
	}

	return cred, nil
}

// EnsureUsable aplica as verificações locais, nesta ordem: presença,
// expiração (quando conhecida), cobertura de escopos.
func (s *Service) EnsureUsable(cred *domain.Credential, requiredScopes []string) error {
	if cred == nil || cred.AccessToken == "" {
		return domain.NewError(domain.KindCredentialNotFound, "credencial ausente")
	}

	if cred.Expired(s.now()) {
		return domain.NewError(domain.KindCredentialExpired, "credencial expirada")
	}

	if len(requiredScopes) == 0 {
		requiredScopes = s.cfg.Meta.DefaultScopes
	}

	if ok, missing := cred.HasScopes(requiredScopes); !ok {
		return domain.NewInsufficientScopeError(missing)
	}

	return nil
}

// StoreCredential grava a credencial entregue pelo fluxo OAuth externo,
// substituindo qualquer credencial anterior da sessão
func (s *Service) StoreCredential(ctx context.Context, sessionID string, cred *domain.Credential) error {
	if err := validateTokenFormat(cred.AccessToken); err != nil {
		return err
	}

	if cred.Source == "" {
		cred.Source = domain.CredentialSourceOAuth
	}
	if cred.StoredAt.IsZero() {
		cred.StoredAt = s.now()
	}

	if err := s.store.Put(ctx, sessionID, cred); err != nil {
		return err
	}

	s.debugCache.Delete(sessionID)

	return nil
}

// InvalidateOnAuthFailure remove a credencial depois que o remoto a
// rejeitou, para a próxima chamada falhar rápido sem ida à rede
func (s *Service) InvalidateOnAuthFailure(ctx context.Context, sessionID string) error {
	logrus.WithField("session_id", sessionID).Warn("token rejeitado pela API Meta; invalidando credencial da sessão")

	return s.store.Invalidate(ctx, sessionID)
}

// Invalidate é o reset explícito pedido pelo chamador
func (s *Service) Invalidate(ctx context.Context, sessionID string) error {
	s.debugCache.Delete(sessionID)

	return s.store.Invalidate(ctx, sessionID)
}

// Describe devolve os metadados da credencial sem nunca ecoar o token.
// Quando a introspecção responde, a visão do remoto (validade, escopos
// concedidos) acompanha os metadados locais.
func (s *Service) Describe(ctx context.Context, sessionID string) (*domain.CredentialInfo, error) {
	cred, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if domain.IsKind(err, domain.KindCredentialNotFound) {
			return &domain.CredentialInfo{Exists: false}, nil
		}
		return nil, err
	}

	storedAt := cred.StoredAt
	info := &domain.CredentialInfo{
		Exists:     true,
		ExpiresAt:  cred.ExpiresAt,
		Scopes:     cred.Scopes,
		AccountIDs: cred.AccountIDs,
		Source:     cred.Source,
		StoredAt:   &storedAt,
	}

	debug, err := s.Introspect(ctx, sessionID, cred)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).
			Warn("introspecção indisponível; devolvendo só os metadados locais")
		return info, nil
	}

	remote := &domain.RemoteTokenStatus{
		IsValid: debug.Data.IsValid,
		Scopes:  debug.Data.Scopes,
		UserID:  debug.Data.UserID,
	}
	if debug.Data.ExpiresAt > 0 {
		expiresAt := time.Unix(debug.Data.ExpiresAt, 0).UTC()
		remote.ExpiresAt = &expiresAt
	}
	info.Remote = remote

	return info, nil
}

// Refresh troca a credencial por um novo token de longa duração e a
// regrava. Usado pelo worker de renovação proativa.
func (s *Service) Refresh(ctx context.Context, sessionID string, cred *domain.Credential) (*domain.Credential, error) {
	tokenResp, err := s.meta.ExchangeLongLivedToken(ctx, cred.AccessToken)
	if err != nil {
		return nil, err
	}

	expiresAt := metaclient.CalculateTokenExpiration(tokenResp.ExpiresIn)

	renewed := &domain.Credential{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   &expiresAt,
		Scopes:      cred.Scopes,
		AccountIDs:  cred.AccountIDs,
		FBUserID:    cred.FBUserID,
		Source:      domain.CredentialSourceRefresh,
		StoredAt:    s.now(),
	}

	if err := s.store.Put(ctx, sessionID, renewed); err != nil {
		return nil, err
	}

	return renewed, nil
}

// RefreshSession carrega a credencial da sessão e a renova sob
// demanda, devolvendo os metadados novos sem o token
func (s *Service) RefreshSession(ctx context.Context, sessionID string) (*domain.CredentialInfo, error) {
	cred, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Refresh(ctx, sessionID, cred); err != nil {
		return nil, err
	}

	s.debugCache.Delete(sessionID)

	return s.Describe(ctx, sessionID)
}

// Introspect consulta o /debug_token, memoizando por sessão para não
// repetir a ida à rede a cada validação
func (s *Service) Introspect(ctx context.Context, sessionID string, cred *domain.Credential) (*metaclient.DebugTokenInfo, error) {
	if cached, ok := s.debugCache.Get(sessionID); ok {
		return cached.(*metaclient.DebugTokenInfo), nil
	}

	info, err := s.meta.DebugToken(ctx, cred.AccessToken)
	if err != nil {
		return nil, err
	}

	s.debugCache.SetDefault(sessionID, info)

	return info, nil
}

func validateTokenFormat(token string) error {
	if len(token) < minTokenLength {
		return domain.NewError(domain.KindInvalidRequest,
			fmt.Sprintf("token muito curto (%d caracteres)", len(token)))
	}
	if !tokenPattern.MatchString(token) {
		return domain.NewError(domain.KindInvalidRequest, "token com caracteres inválidos")
	}
	return nil
}
