package metaclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/meta-ads-gateway/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-gateway/internal/config"
	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// Client é o transporte outbound para a Graph API. Todo o tráfego do
// gateway para o Meta passa por aqui; a política de retry fica fora,
// no executor do gateway.
type Client interface {
	Do(ctx context.Context, accessToken, endpoint string, params url.Values) ([]byte, error)
	ExchangeLongLivedToken(ctx context.Context, accessToken string) (*TokenResponse, error)
	DebugToken(ctx context.Context, accessToken string) (*DebugTokenInfo, error)
}

type MetaClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Meta.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	return &MetaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Do executa uma única requisição GET contra o Graph. Erros declarados
// pela API viram *domain.RemoteError; falhas de rede são devolvidas
// embrulhadas para o executor classificar como transientes.
func (c *MetaClient) Do(ctx context.Context, accessToken, endpoint string, params url.Values) ([]byte, error) {
	requestURL := fmt.Sprintf("%s%s", c.cfg.Meta.URL, endpoint)

	query := url.Values{}
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao fazer a requisição")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	return nil, c.handleErrorResponse(resp.StatusCode, body)
}

// handleErrorResponse converte o corpo de erro do Graph em RemoteError
func (c *MetaClient) handleErrorResponse(statusCode int, body []byte) error {
	errorResp, parseErr := metadomain.ParseErrorResponse(body)
	if parseErr != nil || errorResp.Error.Code == 0 && errorResp.Error.Message == "" {
		logrus.WithFields(logrus.Fields{
			"status": statusCode,
			"body":   string(body),
		}).Warn("meta: resposta de erro sem envelope reconhecível")

		return &domain.RemoteError{
			StatusCode: statusCode,
			Message:    string(body),
		}
	}

	return errorResp.ToRemoteError(statusCode)
}
