// Package gateway orquestra uma chamada ao remoto de ponta a ponta:
// validação, credencial, cache, colapso de chamadas idênticas, limite
// de taxa, retry e normalização.
package gateway

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/vfg2006/meta-ads-gateway/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-gateway/internal/config"
	"github.com/vfg2006/meta-ads-gateway/internal/domain"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/ratelimit"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/requestcache"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/retry"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/normalizing"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/tokening"
	"github.com/vfg2006/meta-ads-gateway/pkg/log"
	"github.com/vfg2006/meta-ads-gateway/pkg/utils"
)

// Gateway é a única porta de entrada para chamadas ao remoto. Nenhuma
// outra camada fala com o transporte diretamente.
type Gateway interface {
	Invoke(ctx context.Context, sessionID string, req *domain.CallRequest) (*domain.CallResult, error)
}

type Service struct {
	cfg        *config.Config
	tokens     tokening.TokenService
	meta       metaclient.Client
	normalizer normalizing.Normalizer
	limiter    *ratelimit.Limiter
	cache      *requestcache.Cache
	executor   *retry.Executor
	flights    *flightGroup

	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(
	cfg *config.Config,
	tokens tokening.TokenService,
	meta metaclient.Client,
	normalizer normalizing.Normalizer,
	limiter *ratelimit.Limiter,
	cache *requestcache.Cache,
) *Service {
	return &Service{
		cfg:        cfg,
		tokens:     tokens,
		meta:       meta,
		normalizer: normalizer,
		limiter:    limiter,
		cache:      cache,
		executor: retry.NewExecutor(retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BackoffBase: cfg.Retry.BackoffBase,
			BackoffMax:  cfg.Retry.BackoffMax,
		}),
		flights: newFlightGroup(),
		sleep:   sleepCtx,
	}
}

// Invoke executa uma chamada em nome da sessão. A credencial é
// validada antes de qualquer consulta ao cache ou ao limitador; um
// hit de cache não consome cota; chamadas idênticas concorrentes
// geram uma única requisição remota.
func (s *Service) Invoke(ctx context.Context, sessionID string, req *domain.CallRequest) (*domain.CallResult, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"session_id": sessionID,
		"endpoint":   req.Endpoint,
		"kind":       req.Kind,
	})

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := resolveTimeRange(req); err != nil {
		return nil, err
	}

	cred, err := s.tokens.GetUsable(ctx, sessionID, req.RequiredScopes)
	if err != nil {
		return nil, err
	}

	fingerprint := requestcache.Fingerprint(req, sessionID)

	if result, ok := s.cache.Lookup(fingerprint); ok {
		logger.Debug("cache hit, skipping remote call")
		return result, nil
	}

	return s.flights.Do(ctx, fingerprint, func(callCtx context.Context) (*domain.CallResult, error) {
		// outro request pode ter populado o cache enquanto este
		// esperava a vaga no grupo
		if result, ok := s.cache.Lookup(fingerprint); ok {
			return result, nil
		}

		if err := s.admit(callCtx, sessionID, logger); err != nil {
			return nil, err
		}

		raw, err := s.execute(callCtx, sessionID, cred, req, logger)
		if err != nil {
			return nil, err
		}

		result, err := s.normalizer.Normalize(req.Kind, raw)
		if err != nil {
			// resposta malformada não entra no cache: a próxima
			// chamada idêntica vai ao remoto de novo
			logger.WithError(err).Warn("failed to normalize remote response")
			return nil, err
		}

		s.cache.Store(fingerprint, result)

		return result, nil
	})
}

// maxAdmitDelays limita quantas vezes uma chamada espera por vaga na
// janela antes de desistir
const maxAdmitDelays = 3

// admit reserva uma vaga na janela da credencial, esperando quando a
// espera prevista cabe em maxWait. A própria espera é limitada: depois
// de maxAdmitDelays ciclos sem vaga a chamada é rejeitada.
func (s *Service) admit(ctx context.Context, sessionID string, logger log.Logger) error {
	for delays := 0; ; delays++ {
		decision := s.limiter.Admit(sessionID)

		switch decision.Kind {
		case ratelimit.Admitted:
			return nil

		case ratelimit.Delayed:
			if delays >= maxAdmitDelays {
				return domain.NewRateLimitError(decision.RetryAfter)
			}

			logger.WithField("retry_after", decision.RetryAfter.String()).
				Info("rate limit window full, delaying request")

			if err := s.sleep(ctx, decision.RetryAfter); err != nil {
				return err
			}

		case ratelimit.Rejected:
			return domain.NewRateLimitError(decision.RetryAfter)
		}
	}
}

// execute faz a chamada remota com retry. Falha de autenticação
// invalida a credencial armazenada antes de propagar o erro.
func (s *Service) execute(
	ctx context.Context,
	sessionID string,
	cred *domain.Credential,
	req *domain.CallRequest,
	logger log.Logger,
) ([]byte, error) {
	endpoint := buildEndpoint(req)
	params := buildParams(req)

	var raw []byte

	outcome, err := s.executor.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		raw, callErr = s.meta.Do(ctx, cred.AccessToken, endpoint, params)
		return callErr
	})
	if err == nil {
		return raw, nil
	}

	switch outcome {
	case retry.OutcomeAuthFailure:
		logger.Warn("remote rejected credential, invalidating stored token")

		if invErr := s.tokens.InvalidateOnAuthFailure(ctx, sessionID); invErr != nil {
			logger.WithError(invErr).Error("failed to invalidate credential after auth failure")
		}

		return nil, domain.WrapError(domain.KindCredentialInvalid,
			"o remoto rejeitou a credencial desta sessão", err)

	case retry.OutcomeRateLimited:
		return nil, domain.WrapError(domain.KindRateLimitExceeded,
			"o remoto sinalizou limite de chamadas", err)

	case retry.OutcomeTransient:
		return nil, domain.WrapError(domain.KindTransient,
			"o remoto seguiu indisponível após todas as tentativas", err)

	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.WrapError(domain.KindPermanentFailure,
			"o remoto recusou a chamada", err)
	}
}

// buildEndpoint resolve o caminho final: quando há ObjectID, ele é o
// primeiro segmento do caminho
func buildEndpoint(req *domain.CallRequest) string {
	if req.ObjectID == "" {
		return req.Endpoint
	}

	objectID := req.ObjectID
	if req.Kind == domain.EntityAccount || strings.HasPrefix(objectID, "act_") {
		objectID = domain.NormalizeAccountID(objectID)
	}

	return "/" + objectID + req.Endpoint
}

// resolveTimeRange traduz since/until (incluindo as formas relativas
// "N days ago" e "today") para o time_range que o Graph aceita. A
// tradução acontece antes do fingerprint, então duas formas do mesmo
// intervalo absoluto compartilham a entrada de cache.
func resolveTimeRange(req *domain.CallRequest) error {
	preset := req.Parameters["date_preset"]
	since := req.Parameters["since"]
	until := req.Parameters["until"]

	if preset == "" && since == "" && until == "" {
		return nil
	}

	rangeParams, err := utils.BuildTimeRange(preset, since, until, time.Now())
	if err != nil {
		return domain.WrapError(domain.KindInvalidRequest, "intervalo de datas inválido", err)
	}

	params := make(map[string]string, len(req.Parameters)+1)
	for key, value := range req.Parameters {
		if key == "date_preset" || key == "since" || key == "until" {
			continue
		}
		params[key] = value
	}
	for key, value := range rangeParams {
		params[key] = value
	}
	req.Parameters = params

	return nil
}

func buildParams(req *domain.CallRequest) url.Values {
	params := url.Values{}

	for key, value := range req.Parameters {
		params.Set(key, value)
	}

	if len(req.Fields) > 0 {
		params.Set("fields", strings.Join(req.Fields, ","))
	}

	return params
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
