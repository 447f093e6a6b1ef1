package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TokenResponse representa a resposta da API do Meta ao trocar um token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// DebugTokenInfo é o resultado do endpoint /debug_token
type DebugTokenInfo struct {
	Data struct {
		AppID     string   `json:"app_id"`
		IsValid   bool     `json:"is_valid"`
		ExpiresAt int64    `json:"expires_at"`
		Scopes    []string `json:"scopes"`
		UserID    string   `json:"user_id"`
	} `json:"data"`
}

// ExchangeLongLivedToken troca um token existente por um novo token de
// longa duração via grant fb_exchange_token
func (c *MetaClient) ExchangeLongLivedToken(ctx context.Context, accessToken string) (*TokenResponse, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("token de acesso não pode ser vazio")
	}

	endpoint := fmt.Sprintf("%s/oauth/access_token", c.cfg.Meta.URL)

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", c.cfg.Meta.AppID)
	params.Add("client_secret", c.cfg.Meta.AppSecret)
	params.Add("fb_exchange_token", accessToken)

	body, err := c.getJSON(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "erro ao obter token de longa duração")
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta")
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token retornado pela API é vazio")
	}

	logrus.Infof("Token de longa duração obtido com sucesso. Expira em %s.", FormatDuration(tokenResp.ExpiresIn))

	return &tokenResp, nil
}

// DebugToken obtém informações de introspecção sobre um token do Meta
// usando o app access token (app_id|app_secret)
func (c *MetaClient) DebugToken(ctx context.Context, accessToken string) (*DebugTokenInfo, error) {
	endpoint := fmt.Sprintf("%s/debug_token", c.cfg.Meta.URL)

	params := url.Values{}
	params.Add("input_token", accessToken)
	params.Add("access_token", c.cfg.Meta.AppID+"|"+c.cfg.Meta.AppSecret)

	body, err := c.getJSON(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "erro ao obter informações de debug do token")
	}

	var info DebugTokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta")
	}

	return &info, nil
}

func (c *MetaClient) getJSON(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// FormatDuration formata a duração em segundos para um formato legível
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	days := duration / (24 * time.Hour)
	hours := (duration % (24 * time.Hour)) / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d dias, %d horas e %d minutos", days, hours, minutes)
}

// CalculateTokenExpiration calcula a data de expiração com uma folga de
// um dia para renovar antes da expiração real
func CalculateTokenExpiration(expiresIn int64) time.Time {
	buffer := int64(24 * 60 * 60)
	safeExpiresIn := expiresIn - buffer

	if safeExpiresIn < 0 {
		safeExpiresIn = expiresIn / 2
	}

	return time.Now().Add(time.Duration(safeExpiresIn) * time.Second)
}
