package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func signSessionToken(t *testing.T, secret, sessionID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := SessionFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sessionID))
	})

	handler := AuthMiddleware(testSecret)(next)

	t.Run("Token válido injeta a sessão no contexto", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/invoke", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionToken(t, testSecret, "sess-42"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sess-42", rec.Body.String())
	})

	t.Run("Sem Authorization", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/invoke", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Sem o prefixo Bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/invoke", nil)
		req.Header.Set("Authorization", signSessionToken(t, testSecret, "sess-42"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Assinatura de outro segredo", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/invoke", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionToken(t, "outro-segredo", "sess-42"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Token sem sid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/invoke", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionToken(t, testSecret, ""))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Healthcheck passa sem autenticação", func(t *testing.T) {
		passthrough := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		rec := httptest.NewRecorder()
		passthrough.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
