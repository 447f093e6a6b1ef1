package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clientmocks "github.com/vfg2006/meta-ads-gateway/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/meta-ads-gateway/internal/config"
	"github.com/vfg2006/meta-ads-gateway/internal/domain"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/ratelimit"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway/requestcache"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/normalizing"
	tokenmocks "github.com/vfg2006/meta-ads-gateway/internal/usecases/tokening/mocks"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Retry.MaxAttempts = 3
	cfg.Retry.BackoffBase = time.Millisecond
	cfg.Retry.BackoffMax = 2 * time.Millisecond
	return cfg
}

func testCredential() *domain.Credential {
	return &domain.Credential{
		AccessToken: "EAAB-test-token-with-enough-length-to-look-plausible-0001",
		Scopes:      []string{"ads_read"},
	}
}

func testRequest() *domain.CallRequest {
	return &domain.CallRequest{
		Endpoint: "/campaigns",
		ObjectID: "act_123456789012345",
		Kind:     domain.EntityRaw,
		Fields:   []string{"id", "name"},
	}
}

func newTestService(
	t *testing.T,
	limiter *ratelimit.Limiter,
	cache *requestcache.Cache,
) (*Service, *tokenmocks.MockTokenService, *clientmocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	tokens := tokenmocks.NewMockTokenService(ctrl)
	client := clientmocks.NewMockClient(ctrl)

	service := NewService(testConfig(), tokens, client, normalizing.NewService(), limiter, cache)
	service.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	return service, tokens, client
}

func TestService_Invoke_CacheHitSkipsLimiterAndRemote(t *testing.T) {
	limiter := ratelimit.New(2, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil).
		Times(2)

	// uma única ida ao remoto para duas invocações idênticas
	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"data":[]}`), nil).
		Times(1)

	first, err := service.Invoke(context.Background(), "sess-1", testRequest())
	require.NoError(t, err)

	second, err := service.Invoke(context.Background(), "sess-1", testRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// o hit não consumiu cota
	assert.Equal(t, 1, limiter.InWindow("sess-1"))
}

// O cache é transparente: a mesma sequência de chamadas devolve os
// mesmos valores com ele ligado ou desligado; só o número de idas ao
// remoto muda.
func TestService_Invoke_CacheTransparency(t *testing.T) {
	payloads := map[string]string{
		"/act_123456789012345/campaigns": `{"data":[{"id":"c-1","name":"Campanha A"}]}`,
		"/act_123456789012345/adsets":    `{"data":[{"id":"s-1","name":"Conjunto B"}]}`,
	}

	runSequence := func(t *testing.T, enabled bool, expectedRemoteCalls int) []*domain.CallResult {
		t.Helper()

		limiter := ratelimit.New(100, time.Hour, time.Minute)
		cache := requestcache.New(enabled, 10, time.Hour)

		service, tokens, client := newTestService(t, limiter, cache)

		tokens.EXPECT().
			GetUsable(gomock.Any(), "sess-1", gomock.Any()).
			Return(testCredential(), nil).
			Times(3)

		client.EXPECT().
			Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, token, endpoint string, params interface{}) ([]byte, error) {
				return []byte(payloads[endpoint]), nil
			}).
			Times(expectedRemoteCalls)

		repeated := testRequest()
		distinct := testRequest()
		distinct.Endpoint = "/adsets"

		results := make([]*domain.CallResult, 0, 3)
		for _, req := range []*domain.CallRequest{repeated, repeated, distinct} {
			result, err := service.Invoke(context.Background(), "sess-1", req)
			require.NoError(t, err)
			results = append(results, result)
		}
		return results
	}

	// ligado: a repetição é servida do cache; desligado: toda chamada
	// vai ao remoto
	withCache := runSequence(t, true, 2)
	withoutCache := runSequence(t, false, 3)

	require.Len(t, withoutCache, len(withCache))
	for i := range withCache {
		assert.Equal(t, withoutCache[i], withCache[i], "chamada %d", i)
	}
}

func TestService_Invoke_CollapsesConcurrentIdenticalCalls(t *testing.T) {
	const callers = 8

	limiter := ratelimit.New(100, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil).
		Times(callers)

	release := make(chan struct{})

	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, token, endpoint string, params interface{}) ([]byte, error) {
			<-release
			return []byte(`{"data":[]}`), nil
		}).
		Times(1)

	var wg sync.WaitGroup
	results := make([]*domain.CallResult, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.Invoke(context.Background(), "sess-1", testRequest())
		}(i)
	}

	// dá tempo de todos entrarem no grupo antes de liberar o remoto
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "chamador %d", i)
		assert.Equal(t, results[0], results[i], "chamador %d", i)
	}
}

func TestService_Invoke_LeaderCancellationDoesNotDropCall(t *testing.T) {
	limiter := ratelimit.New(100, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil).
		Times(2)

	started := make(chan struct{})
	release := make(chan struct{})

	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, token, endpoint string, params interface{}) ([]byte, error) {
			close(started)
			select {
			case <-release:
				return []byte(`{"data":[]}`), nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}).
		Times(1)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	var leaderErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, leaderErr = service.Invoke(leaderCtx, "sess-1", testRequest())
	}()

	<-started

	var followerResult *domain.CallResult
	var followerErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		followerResult, followerErr = service.Invoke(context.Background(), "sess-1", testRequest())
	}()

	// o seguidor precisa entrar no grupo antes do líder desistir
	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Error(t, leaderErr)
	assert.ErrorIs(t, leaderErr, context.Canceled)

	require.NoError(t, followerErr, "o seguidor deveria herdar a execução em voo")
	require.NotNil(t, followerResult)
	assert.Equal(t, domain.EntityRaw, followerResult.Kind)
}

func TestService_Invoke_InsufficientScopeNeverReachesRemote(t *testing.T) {
	limiter := ratelimit.New(10, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, _ := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", []string{"ads_management"}).
		Return(nil, domain.NewInsufficientScopeError([]string{"ads_management"}))

	req := testRequest()
	req.RequiredScopes = []string{"ads_management"}

	_, err := service.Invoke(context.Background(), "sess-1", req)

	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientScope, domain.KindOf(err))

	var gErr *domain.GatewayError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, []string{"ads_management"}, gErr.MissingScopes)

	assert.Equal(t, 0, limiter.InWindow("sess-1"), "validação de escopo não deveria consumir cota")
}

func TestService_Invoke_AuthFailureInvalidatesCredential(t *testing.T) {
	limiter := ratelimit.New(10, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil)

	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &domain.RemoteError{StatusCode: 401, Code: 190, Type: "OAuthException"}).
		Times(1)

	tokens.EXPECT().
		InvalidateOnAuthFailure(gomock.Any(), "sess-1").
		Return(nil)

	_, err := service.Invoke(context.Background(), "sess-1", testRequest())

	require.Error(t, err)
	assert.Equal(t, domain.KindCredentialInvalid, domain.KindOf(err))
}

func TestService_Invoke_MalformedResponseIsNotCached(t *testing.T) {
	limiter := ratelimit.New(10, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil).
		Times(2)

	// linha de insights sem spend: malformada, e a segunda invocação
	// volta ao remoto em vez de servir a falha do cache
	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"data":[{"impressions":"10","clicks":"2"}]}`), nil).
		Times(2)

	req := testRequest()
	req.Kind = domain.EntityInsights

	for i := 0; i < 2; i++ {
		_, err := service.Invoke(context.Background(), "sess-1", req)
		require.Error(t, err)
		assert.Equal(t, domain.KindMalformedResponse, domain.KindOf(err))
	}
}

func TestService_Invoke_RateLimitRejection(t *testing.T) {
	// cota 1 com espera máxima zero: a segunda chamada é rejeitada
	limiter := ratelimit.New(1, time.Hour, 0)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil).
		Times(2)

	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"data":[]}`), nil).
		Times(1)

	_, err := service.Invoke(context.Background(), "sess-1", testRequest())
	require.NoError(t, err)

	other := testRequest()
	other.Endpoint = "/adsets"

	_, err = service.Invoke(context.Background(), "sess-1", other)
	require.Error(t, err)
	assert.Equal(t, domain.KindRateLimitExceeded, domain.KindOf(err))

	var gErr *domain.GatewayError
	require.ErrorAs(t, err, &gErr)
	assert.Greater(t, gErr.RetryAfter, time.Duration(0))
}

func TestService_Invoke_DelayedAdmissionGivesUpAfterBoundedWaits(t *testing.T) {
	// cota 1 com espera máxima generosa: a segunda chamada entra em
	// ciclo de espera, mas o ciclo é limitado
	limiter := ratelimit.New(1, time.Hour, 2*time.Hour)
	cache := requestcache.New(true, 10, time.Hour)

	service, tokens, client := newTestService(t, limiter, cache)

	sleeps := 0
	service.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	tokens.EXPECT().
		GetUsable(gomock.Any(), "sess-1", gomock.Any()).
		Return(testCredential(), nil).
		Times(2)

	client.EXPECT().
		Do(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"data":[]}`), nil).
		Times(1)

	_, err := service.Invoke(context.Background(), "sess-1", testRequest())
	require.NoError(t, err)

	other := testRequest()
	other.Endpoint = "/adsets"

	_, err = service.Invoke(context.Background(), "sess-1", other)
	require.Error(t, err)
	assert.Equal(t, domain.KindRateLimitExceeded, domain.KindOf(err))
	assert.Equal(t, maxAdmitDelays, sleeps, "deveria desistir depois do número fixo de esperas")
}

func TestService_Invoke_InvalidRequestFailsBeforeCredential(t *testing.T) {
	limiter := ratelimit.New(10, time.Hour, time.Minute)
	cache := requestcache.New(true, 10, time.Hour)

	service, _, _ := newTestService(t, limiter, cache)

	req := testRequest()
	req.Endpoint = "campaigns" // sem a barra inicial

	_, err := service.Invoke(context.Background(), "sess-1", req)

	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
}

func TestBuildEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		req      *domain.CallRequest
		expected string
	}{
		{
			name:     "Sem ObjectID usa o endpoint direto",
			req:      &domain.CallRequest{Endpoint: "/me/adaccounts"},
			expected: "/me/adaccounts",
		},
		{
			name: "ObjectID vira o primeiro segmento",
			req: &domain.CallRequest{
				Endpoint: "/campaigns",
				ObjectID: "act_123456789012345",
			},
			expected: "/act_123456789012345/campaigns",
		},
		{
			name: "Conta numérica ganha o prefixo act_",
			req: &domain.CallRequest{
				Endpoint: "/insights",
				ObjectID: "123456789012345",
				Kind:     domain.EntityAccount,
			},
			expected: "/act_123456789012345/insights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildEndpoint(tt.req))
		})
	}
}

func TestResolveTimeRange(t *testing.T) {
	t.Run("Since relativo e until implícito viram time_range", func(t *testing.T) {
		req := testRequest()
		req.Parameters = map[string]string{"since": "7 days ago", "level": "campaign"}

		require.NoError(t, resolveTimeRange(req))

		assert.Contains(t, req.Parameters, "time_range")
		assert.NotContains(t, req.Parameters, "since")
		assert.Equal(t, "campaign", req.Parameters["level"])
	})

	t.Run("date_preset passa adiante sem tradução", func(t *testing.T) {
		req := testRequest()
		req.Parameters = map[string]string{"date_preset": "last_30d"}

		require.NoError(t, resolveTimeRange(req))

		assert.Equal(t, "last_30d", req.Parameters["date_preset"])
	})

	t.Run("Intervalo inválido é rejeitado antes do remoto", func(t *testing.T) {
		req := testRequest()
		req.Parameters = map[string]string{"since": "sempre"}

		err := resolveTimeRange(req)
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
	})
}
