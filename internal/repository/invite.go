package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// InviteRepository handles guest invite data operations
type InviteRepository interface {
	Create(ctx context.Context, params model.CreateGuestInviteParams) (*model.GuestInvite, error)
	FindByID(ctx context.Context, id string) (*model.GuestInvite, error)
	FindByPropertyAndCode(ctx context.Context, propertyID, accessCode string) (*model.GuestInvite, error)
	FindActiveByPropertyAndCode(ctx context.Context, propertyID, accessCode string) (*model.GuestInvite, error)
	ListByPropertyID(ctx context.Context, propertyID string) ([]model.GuestInvite, error)
	UpdateStatus(ctx context.Context, id string, status model.InviteStatus) error
	RecordAccess(ctx context.Context, id string, at time.Time, status model.InviteStatus) error
	SweepExpired(ctx context.Context, today time.Time) (int64, error)
}

type inviteRepo struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) InviteRepository {
	return &inviteRepo{db: db}
}

func (r *inviteRepo) Create(ctx context.Context, params model.CreateGuestInviteParams) (*model.GuestInvite, error) {
	var invite model.GuestInvite
	err := r.db.GetContext(ctx, &invite, `
		INSERT INTO guest_invites (
			property_id, guest_name, guest_email, check_in_date, check_out_date,
			lead_time_days, post_checkout_days, access_code, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`, params.PropertyID, params.GuestName, params.GuestEmail,
		params.CheckInDate, params.CheckOutDate, params.LeadTimeDays,
		params.PostCheckoutDays, params.AccessCode, params.Status)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepo) FindByID(ctx context.Context, id string) (*model.GuestInvite, error) {
	var invite model.GuestInvite
	err := r.db.GetContext(ctx, &invite, `
		SELECT * FROM guest_invites WHERE id = $1
	`, id)
	return HandleNotFound(&invite, err)
}

// FindByPropertyAndCode matches any invite for the property, revoked ones
// included, so the caller can distinguish a revoked code from a missing one.
func (r *inviteRepo) FindByPropertyAndCode(ctx context.Context, propertyID, accessCode string) (*model.GuestInvite, error) {
	var invite model.GuestInvite
	err := r.db.GetContext(ctx, &invite, `
		SELECT * FROM guest_invites
		WHERE property_id = $1 AND access_code = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, propertyID, accessCode)
	return HandleNotFound(&invite, err)
}

// FindActiveByPropertyAndCode is the collision check used when issuing
// new codes; revoked and expired invites do not reserve their code.
func (r *inviteRepo) FindActiveByPropertyAndCode(ctx context.Context, propertyID, accessCode string) (*model.GuestInvite, error) {
	var invite model.GuestInvite
	err := r.db.GetContext(ctx, &invite, `
		SELECT * FROM guest_invites
		WHERE property_id = $1 AND access_code = $2
		AND status IN ('pending', 'active')
		ORDER BY created_at DESC
		LIMIT 1
	`, propertyID, accessCode)
	return HandleNotFound(&invite, err)
}

func (r *inviteRepo) ListByPropertyID(ctx context.Context, propertyID string) ([]model.GuestInvite, error) {
	invites := []model.GuestInvite{}
	err := r.db.SelectContext(ctx, &invites, `
		SELECT * FROM guest_invites
		WHERE property_id = $1
		ORDER BY check_in_date DESC, created_at DESC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *inviteRepo) UpdateStatus(ctx context.Context, id string, status model.InviteStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE guest_invites
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, status, time.Now())
	return err
}

// RecordAccess bumps last_accessed_at and refreshes the derived status in
// a single write. A lost race between concurrent validations is harmless:
// both write derived facts.
func (r *inviteRepo) RecordAccess(ctx context.Context, id string, at time.Time, status model.InviteStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE guest_invites
		SET last_accessed_at = $2, status = $3, updated_at = $2
		WHERE id = $1
	`, id, at, status)
	return err
}

// SweepExpired marks non-revoked invites whose access window closed
// before today. The stored status is an advisory cache; validation always
// recomputes from dates.
func (r *inviteRepo) SweepExpired(ctx context.Context, today time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE guest_invites
		SET status = 'expired', updated_at = NOW()
		WHERE status IN ('pending', 'active')
		AND check_out_date + post_checkout_days * INTERVAL '1 day' < $1
	`, today)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
