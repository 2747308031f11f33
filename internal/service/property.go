package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
)

// PropertyService manages a host's properties. All operations are scoped
// to the owning host; a property belonging to someone else is reported
// as not found, never as forbidden.
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	guide        *GuideService
}

func NewPropertyService(propertyRepo repository.PropertyRepository, guide *GuideService) *PropertyService {
	return &PropertyService{propertyRepo: propertyRepo, guide: guide}
}

func (s *PropertyService) Create(ctx context.Context, hostID string, params model.CreatePropertyParams) (*model.Property, error) {
	if params.Name == "" {
		return nil, apperrors.MissingRequired("name")
	}
	params.HostID = hostID

	property, err := s.propertyRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("propertyId", property.ID).Str("hostId", hostID).Msg("property created")
	return property, nil
}

func (s *PropertyService) List(ctx context.Context, hostID string) ([]model.Property, error) {
	properties, err := s.propertyRepo.ListByHostID(ctx, hostID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return properties, nil
}

// Get returns the property only if it belongs to the host.
func (s *PropertyService) Get(ctx context.Context, hostID, propertyID string) (*model.Property, error) {
	if _, err := uuid.Parse(propertyID); err != nil {
		return nil, apperrors.NotFound("Property")
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if property == nil || property.HostID != hostID {
		return nil, apperrors.NotFound("Property")
	}
	return property, nil
}

func (s *PropertyService) Update(ctx context.Context, hostID, propertyID string, params model.UpdatePropertyParams) (*model.Property, error) {
	if _, err := s.Get(ctx, hostID, propertyID); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.Update(ctx, propertyID, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if property == nil {
		return nil, apperrors.NotFound("Property")
	}

	s.guide.Invalidate(ctx, propertyID)
	return property, nil
}

func (s *PropertyService) Delete(ctx context.Context, hostID, propertyID string) error {
	if _, err := s.Get(ctx, hostID, propertyID); err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(ctx, propertyID); err != nil {
		return apperrors.Database(err)
	}

	s.guide.Invalidate(ctx, propertyID)
	log.Info().Str("propertyId", propertyID).Msg("property deleted")
	return nil
}
