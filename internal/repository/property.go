package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// PropertyRepository handles property data operations
type PropertyRepository interface {
	Create(ctx context.Context, params model.CreatePropertyParams) (*model.Property, error)
	FindByID(ctx context.Context, id string) (*model.Property, error)
	ListByHostID(ctx context.Context, hostID string) ([]model.Property, error)
	Update(ctx context.Context, id string, params model.UpdatePropertyParams) (*model.Property, error)
	Delete(ctx context.Context, id string) error
}

type propertyRepo struct {
	db *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) Create(ctx context.Context, params model.CreatePropertyParams) (*model.Property, error) {
	var property model.Property
	err := r.db.GetContext(ctx, &property, `
		INSERT INTO properties (
			host_id, name, address, wifi_network, wifi_password,
			check_in_instructions, check_out_instructions, house_rules
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.HostID, params.Name, params.Address, params.WifiNetwork,
		params.WifiPassword, params.CheckInInstructions,
		params.CheckOutInstructions, params.HouseRules)
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepo) FindByID(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	err := r.db.GetContext(ctx, &property, `
		SELECT * FROM properties WHERE id = $1
	`, id)
	return HandleNotFound(&property, err)
}

func (r *propertyRepo) ListByHostID(ctx context.Context, hostID string) ([]model.Property, error) {
	properties := []model.Property{}
	err := r.db.SelectContext(ctx, &properties, `
		SELECT * FROM properties
		WHERE host_id = $1
		ORDER BY created_at DESC
	`, hostID)
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// Update applies only the non-nil fields via COALESCE.
func (r *propertyRepo) Update(ctx context.Context, id string, params model.UpdatePropertyParams) (*model.Property, error) {
	var property model.Property
	err := r.db.GetContext(ctx, &property, `
		UPDATE properties SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			wifi_network = COALESCE($4, wifi_network),
			wifi_password = COALESCE($5, wifi_password),
			check_in_instructions = COALESCE($6, check_in_instructions),
			check_out_instructions = COALESCE($7, check_out_instructions),
			house_rules = COALESCE($8, house_rules),
			updated_at = $9
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Address, params.WifiNetwork, params.WifiPassword,
		params.CheckInInstructions, params.CheckOutInstructions,
		params.HouseRules, time.Now())
	return HandleNotFound(&property, err)
}

func (r *propertyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}
