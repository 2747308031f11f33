package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// GuideSectionRepository handles guide section data operations
type GuideSectionRepository interface {
	Create(ctx context.Context, params model.CreateGuideSectionParams) (*model.GuideSection, error)
	FindByID(ctx context.Context, id string) (*model.GuideSection, error)
	ListByPropertyID(ctx context.Context, propertyID string) ([]model.GuideSection, error)
	Update(ctx context.Context, id string, params model.UpdateGuideSectionParams) (*model.GuideSection, error)
	Delete(ctx context.Context, id string) error
}

type guideSectionRepo struct {
	db *sqlx.DB
}

func NewGuideSectionRepository(db *sqlx.DB) GuideSectionRepository {
	return &guideSectionRepo{db: db}
}

func (r *guideSectionRepo) Create(ctx context.Context, params model.CreateGuideSectionParams) (*model.GuideSection, error) {
	var section model.GuideSection
	err := r.db.GetContext(ctx, &section, `
		INSERT INTO guide_sections (property_id, title, body, category, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.PropertyID, params.Title, params.Body, params.Category, params.SortOrder)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *guideSectionRepo) FindByID(ctx context.Context, id string) (*model.GuideSection, error) {
	var section model.GuideSection
	err := r.db.GetContext(ctx, &section, `
		SELECT * FROM guide_sections WHERE id = $1
	`, id)
	return HandleNotFound(&section, err)
}

func (r *guideSectionRepo) ListByPropertyID(ctx context.Context, propertyID string) ([]model.GuideSection, error) {
	sections := []model.GuideSection{}
	err := r.db.SelectContext(ctx, &sections, `
		SELECT * FROM guide_sections
		WHERE property_id = $1
		ORDER BY sort_order ASC, created_at ASC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *guideSectionRepo) Update(ctx context.Context, id string, params model.UpdateGuideSectionParams) (*model.GuideSection, error) {
	var section model.GuideSection
	err := r.db.GetContext(ctx, &section, `
		UPDATE guide_sections SET
			title = COALESCE($2, title),
			body = COALESCE($3, body),
			category = COALESCE($4, category),
			sort_order = COALESCE($5, sort_order),
			updated_at = $6
		WHERE id = $1
		RETURNING *
	`, id, params.Title, params.Body, params.Category, params.SortOrder, time.Now())
	return HandleNotFound(&section, err)
}

func (r *guideSectionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM guide_sections WHERE id = $1`, id)
	return err
}
