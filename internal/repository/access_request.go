package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// AccessRequestRepository handles guest access request data operations
type AccessRequestRepository interface {
	Create(ctx context.Context, params model.CreateAccessRequestParams) (*model.AccessRequest, error)
	FindRecent(ctx context.Context, propertyID, guestEmail string, since time.Time) (*model.AccessRequest, error)
	ListByPropertyID(ctx context.Context, propertyID string) ([]model.AccessRequest, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type accessRequestRepo struct {
	db *sqlx.DB
}

func NewAccessRequestRepository(db *sqlx.DB) AccessRequestRepository {
	return &accessRequestRepo{db: db}
}

func (r *accessRequestRepo) Create(ctx context.Context, params model.CreateAccessRequestParams) (*model.AccessRequest, error) {
	var request model.AccessRequest
	err := r.db.GetContext(ctx, &request, `
		INSERT INTO access_requests (property_id, guest_name, guest_email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.PropertyID, params.GuestName, params.GuestEmail, params.Message)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindRecent returns the newest request for (property, email) created at
// or after `since`, if any. This is the read half of the rolling-window
// rate limit; the read-then-write race is accepted.
func (r *accessRequestRepo) FindRecent(ctx context.Context, propertyID, guestEmail string, since time.Time) (*model.AccessRequest, error) {
	var request model.AccessRequest
	err := r.db.GetContext(ctx, &request, `
		SELECT * FROM access_requests
		WHERE property_id = $1 AND guest_email = $2 AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`, propertyID, guestEmail, since)
	return HandleNotFound(&request, err)
}

func (r *accessRequestRepo) ListByPropertyID(ctx context.Context, propertyID string) ([]model.AccessRequest, error) {
	requests := []model.AccessRequest{}
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM access_requests
		WHERE property_id = $1
		ORDER BY created_at DESC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *accessRequestRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM access_requests WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
