package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-gateway/infrastructure/database/postgres"
	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

const credentialsTable = "credentials"

const nanoidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CredentialRepository é o armazenamento durável de credenciais.
// Uma linha por sessão: Put substitui atomicamente via upsert.
type CredentialRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Credential, error)
	Put(ctx context.Context, sessionID string, cred *domain.Credential) error
	Invalidate(ctx context.Context, sessionID string) error
	ListExpiring(ctx context.Context, within time.Duration) (map[string]*domain.Credential, error)
}

type credentialRepository struct {
	conn *postgres.Connection
}

func NewCredentialRepository(conn *postgres.Connection) CredentialRepository {
	return &credentialRepository{conn: conn}
}

func (r *credentialRepository) Get(ctx context.Context, sessionID string) (*domain.Credential, error) {
	query, args, err := squirrel.
		Select("access_token", "expires_at", "scopes", "account_ids", "fb_user_id", "source", "stored_at").
		From(credentialsTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao montar consulta de credencial", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)

	cred, err := deserializeCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindCredentialNotFound, "nenhuma credencial para a sessão")
		}
		return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao consultar credencial", err)
	}

	return cred, nil
}

// Put grava a credencial da sessão. O upsert por chave primária garante
// a troca atômica: um leitor concorrente vê a credencial antiga ou a
// nova, nunca uma mistura.
func (r *credentialRepository) Put(ctx context.Context, sessionID string, cred *domain.Credential) error {
	id, err := gonanoid.Generate(nanoidAlphabet, 12)
	if err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao gerar id do registro", err)
	}

	scopes, err := json.Marshal(cred.Scopes)
	if err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao serializar escopos", err)
	}

	accountIDs, err := json.Marshal(cred.AccountIDs)
	if err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao serializar contas", err)
	}

	var expiresAt interface{}
	if cred.ExpiresAt != nil {
		expiresAt = *cred.ExpiresAt
	}

	query, args, err := squirrel.
		Insert(credentialsTable).
		Columns("id", "session_id", "access_token", "expires_at", "scopes", "account_ids", "fb_user_id", "source", "stored_at").
		Values(id, sessionID, cred.AccessToken, expiresAt, scopes, accountIDs, cred.FBUserID, string(cred.Source), cred.StoredAt).
		Suffix(`ON CONFLICT (session_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at,
			scopes = EXCLUDED.scopes,
			account_ids = EXCLUDED.account_ids,
			fb_user_id = EXCLUDED.fb_user_id,
			source = EXCLUDED.source,
			stored_at = EXCLUDED.stored_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao montar upsert de credencial", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao gravar credencial", err)
	}

	logrus.WithField("session_id", sessionID).Info("credencial gravada para a sessão")

	return nil
}

func (r *credentialRepository) Invalidate(ctx context.Context, sessionID string) error {
	query, args, err := squirrel.
		Delete(credentialsTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao montar remoção de credencial", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return domain.WrapError(domain.KindStorageUnavailable, "erro ao invalidar credencial", err)
	}

	logrus.WithField("session_id", sessionID).Info("credencial invalidada para a sessão")

	return nil
}

// ListExpiring devolve as credenciais que expiram dentro da janela,
// chaveadas por sessão. Credenciais já expiradas ficam de fora: a
// troca fb_exchange_token exige um token ainda válido.
func (r *credentialRepository) ListExpiring(ctx context.Context, within time.Duration) (map[string]*domain.Credential, error) {
	now := time.Now()
	deadline := now.Add(within)

	query, args, err := squirrel.
		Select("session_id", "access_token", "expires_at", "scopes", "account_ids", "fb_user_id", "source", "stored_at").
		From(credentialsTable).
		Where(squirrel.And{
			squirrel.NotEq{"expires_at": nil},
			squirrel.Gt{"expires_at": now},
			squirrel.LtOrEq{"expires_at": deadline},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao montar consulta de expiração", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao listar credenciais expirando", err)
	}
	defer rows.Close()

	result := make(map[string]*domain.Credential)
	for rows.Next() {
		var sessionID string
		var cred domain.Credential
		var expiresAt sql.NullTime
		var scopes, accountIDs []byte
		var source string

		err := rows.Scan(&sessionID, &cred.AccessToken, &expiresAt, &scopes, &accountIDs, &cred.FBUserID, &source, &cred.StoredAt)
		if err != nil {
			return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao ler credencial", err)
		}

		if expiresAt.Valid {
			t := expiresAt.Time
			cred.ExpiresAt = &t
		}
		if err := json.Unmarshal(scopes, &cred.Scopes); err != nil {
			return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao desserializar escopos", err)
		}
		if err := json.Unmarshal(accountIDs, &cred.AccountIDs); err != nil {
			return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao desserializar contas", err)
		}
		cred.Source = domain.CredentialSource(source)

		result[sessionID] = &cred
	}

	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindStorageUnavailable, "erro ao percorrer credenciais", err)
	}

	return result, nil
}

func deserializeCredential(row *sql.Row) (*domain.Credential, error) {
	var cred domain.Credential
	var expiresAt sql.NullTime
	var scopes, accountIDs []byte
	var source string

	err := row.Scan(&cred.AccessToken, &expiresAt, &scopes, &accountIDs, &cred.FBUserID, &source, &cred.StoredAt)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		cred.ExpiresAt = &t
	}
	if err := json.Unmarshal(scopes, &cred.Scopes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(accountIDs, &cred.AccountIDs); err != nil {
		return nil, err
	}
	cred.Source = domain.CredentialSource(source)

	return &cred, nil
}
