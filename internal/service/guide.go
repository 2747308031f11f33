package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/cache"
	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/redis"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
)

// Guide is the assembled house manual payload served to guests.
type Guide struct {
	PropertyID           string               `json:"propertyId"`
	PropertyName         string               `json:"propertyName"`
	Address              string               `json:"address"`
	WifiNetwork          string               `json:"wifiNetwork"`
	WifiPassword         string               `json:"wifiPassword"`
	CheckInInstructions  string               `json:"checkInInstructions"`
	CheckOutInstructions string               `json:"checkOutInstructions"`
	HouseRules           string               `json:"houseRules"`
	Sections             []model.GuideSection `json:"sections"`
}

// GuideService assembles and caches guide payloads, and manages guide
// sections for hosts. Cache writes are best-effort: a cache failure is
// logged and the guide served from the database.
type GuideService struct {
	sectionRepo  repository.GuideSectionRepository
	propertyRepo repository.PropertyRepository
	store        cache.Store
	ttl          time.Duration
}

func NewGuideService(
	sectionRepo repository.GuideSectionRepository,
	propertyRepo repository.PropertyRepository,
	store cache.Store,
	ttl time.Duration,
) *GuideService {
	return &GuideService{
		sectionRepo:  sectionRepo,
		propertyRepo: propertyRepo,
		store:        store,
		ttl:          ttl,
	}
}

// Get returns the guide for a property, from cache when possible.
// Access control happens at the handler; this only assembles content.
func (s *GuideService) Get(ctx context.Context, propertyID string) (*Guide, error) {
	key := redis.GuideKey(propertyID)

	if data, ok, err := s.store.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("propertyId", propertyID).Msg("guide cache read failed")
	} else if ok {
		var guide Guide
		if err := json.Unmarshal(data, &guide); err == nil {
			return &guide, nil
		}
		log.Warn().Str("propertyId", propertyID).Msg("dropping undecodable guide cache entry")
		_ = s.store.Delete(ctx, key)
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if property == nil {
		return nil, apperrors.NotFound("Property")
	}

	sections, err := s.sectionRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	guide := &Guide{
		PropertyID:           property.ID,
		PropertyName:         property.Name,
		Address:              property.Address,
		WifiNetwork:          property.WifiNetwork,
		WifiPassword:         property.WifiPassword,
		CheckInInstructions:  property.CheckInInstructions,
		CheckOutInstructions: property.CheckOutInstructions,
		HouseRules:           property.HouseRules,
		Sections:             sections,
	}

	if data, err := json.Marshal(guide); err == nil {
		if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
			log.Warn().Err(err).Str("propertyId", propertyID).Msg("guide cache write failed")
		}
	}

	return guide, nil
}

// Invalidate drops the cached guide after any content change.
func (s *GuideService) Invalidate(ctx context.Context, propertyID string) {
	if err := s.store.Delete(ctx, redis.GuideKey(propertyID)); err != nil {
		log.Warn().Err(err).Str("propertyId", propertyID).Msg("guide cache invalidation failed")
	}
}

func (s *GuideService) CreateSection(ctx context.Context, params model.CreateGuideSectionParams) (*model.GuideSection, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.Category == "" {
		params.Category = model.GuideCategoryMiscellaneous
	}

	section, err := s.sectionRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.Invalidate(ctx, params.PropertyID)
	return section, nil
}

func (s *GuideService) UpdateSection(ctx context.Context, propertyID, sectionID string, params model.UpdateGuideSectionParams) (*model.GuideSection, error) {
	existing, err := s.sectionRepo.FindByID(ctx, sectionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing == nil || existing.PropertyID != propertyID {
		return nil, apperrors.NotFound("Guide section")
	}

	section, err := s.sectionRepo.Update(ctx, sectionID, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.Invalidate(ctx, propertyID)
	return section, nil
}

func (s *GuideService) DeleteSection(ctx context.Context, propertyID, sectionID string) error {
	existing, err := s.sectionRepo.FindByID(ctx, sectionID)
	if err != nil {
		return apperrors.Database(err)
	}
	if existing == nil || existing.PropertyID != propertyID {
		return apperrors.NotFound("Guide section")
	}

	if err := s.sectionRepo.Delete(ctx, sectionID); err != nil {
		return apperrors.Database(err)
	}

	s.Invalidate(ctx, propertyID)
	return nil
}

func (s *GuideService) ListSections(ctx context.Context, propertyID string) ([]model.GuideSection, error) {
	sections, err := s.sectionRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return sections, nil
}
