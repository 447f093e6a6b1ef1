package requestcache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// Fingerprint deriva a chave de cache/dedup de uma requisição. É
// determinística e independente da ordem dos parâmetros nomeados;
// apenas Fields, lista explicitamente ordenada, preserva a ordem.
// A identidade da credencial entra na chave: sessões diferentes nunca
// compartilham entradas.
func Fingerprint(req *domain.CallRequest, credentialID string) string {
	keys := make([]string, 0, len(req.Parameters))
	for key := range req.Parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(req.ObjectID)
	b.WriteByte('\n')
	b.WriteString(req.Endpoint)
	b.WriteByte('\n')
	b.WriteString(string(req.Kind))
	b.WriteByte('\n')

	for _, key := range keys {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(req.Parameters[key])
		b.WriteByte('&')
	}

	b.WriteString("fields=")
	b.WriteString(strings.Join(req.Fields, ","))
	b.WriteByte('\n')
	b.WriteString(credentialID)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
