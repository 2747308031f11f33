package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// HostRepository handles host account data operations
type HostRepository interface {
	Create(ctx context.Context, params model.CreateHostParams) (*model.Host, error)
	FindByID(ctx context.Context, id string) (*model.Host, error)
	FindByEmail(ctx context.Context, email string) (*model.Host, error)
	Delete(ctx context.Context, id string) error
}

type hostRepo struct {
	db *sqlx.DB
}

func NewHostRepository(db *sqlx.DB) HostRepository {
	return &hostRepo{db: db}
}

func (r *hostRepo) Create(ctx context.Context, params model.CreateHostParams) (*model.Host, error) {
	var host model.Host
	err := r.db.GetContext(ctx, &host, `
		INSERT INTO hosts (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Email, params.Name, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &host, nil
}

func (r *hostRepo) FindByID(ctx context.Context, id string) (*model.Host, error) {
	var host model.Host
	err := r.db.GetContext(ctx, &host, `
		SELECT * FROM hosts WHERE id = $1
	`, id)
	return HandleNotFound(&host, err)
}

func (r *hostRepo) FindByEmail(ctx context.Context, email string) (*model.Host, error) {
	var host model.Host
	err := r.db.GetContext(ctx, &host, `
		SELECT * FROM hosts WHERE email = $1
	`, email)
	return HandleNotFound(&host, err)
}

func (r *hostRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM hosts WHERE id = $1`, id)
	return err
}
