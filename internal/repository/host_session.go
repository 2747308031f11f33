package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// HostSessionRepository handles dashboard session data operations
type HostSessionRepository interface {
	Create(ctx context.Context, params model.CreateHostSessionParams) (*model.HostSession, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.HostSession, error)
	Delete(ctx context.Context, id string) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type hostSessionRepo struct {
	db *sqlx.DB
}

func NewHostSessionRepository(db *sqlx.DB) HostSessionRepository {
	return &hostSessionRepo{db: db}
}

func (r *hostSessionRepo) Create(ctx context.Context, params model.CreateHostSessionParams) (*model.HostSession, error) {
	var session model.HostSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO host_sessions (host_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.HostID, params.TokenHash, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByTokenHash returns the session only while it is still live.
func (r *hostSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.HostSession, error) {
	var session model.HostSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM host_sessions
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *hostSessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM host_sessions WHERE id = $1`, id)
	return err
}

func (r *hostSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM host_sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *hostSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM host_sessions WHERE expires_at < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
