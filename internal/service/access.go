package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
)

// DenialReason discriminates why a validation was rejected.
type DenialReason string

const (
	DenialNone            DenialReason = ""
	DenialInvalidCode     DenialReason = "invalid_code"
	DenialRevoked         DenialReason = "revoked"
	DenialNotYetAvailable DenialReason = "not_yet_available"
	DenialExpired         DenialReason = "expired"
)

// AccessResult is the verdict for one validation attempt. On success the
// invite and its freshly computed window are populated; on denial the
// reason is set, with DaysUntilAccess carrying the "available in N days"
// hint for not-yet-available codes.
type AccessResult struct {
	Valid           bool
	Denial          DenialReason
	Invite          *model.GuestInvite
	Window          model.AccessWindow
	DaysUntilAccess int
}

// AccessService answers "can this guest view this property's guide right
// now, using this code?" and keeps the stored invite status consistent
// with elapsed time.
type AccessService struct {
	inviteRepo repository.InviteRepository
	now        func() time.Time
}

func NewAccessService(inviteRepo repository.InviteRepository) *AccessService {
	return &AccessService{
		inviteRepo: inviteRepo,
		now:        time.Now,
	}
}

// Validate checks a guest-supplied access code against a property.
//
// The verdict is always recomputed from the stay dates and margins; the
// stored status is consulted only for the terminal revoked state. A miss
// is reported identically whether the property or the code is wrong, so
// callers cannot probe which codes exist.
func (s *AccessService) Validate(ctx context.Context, propertyID, accessCode string) (*AccessResult, error) {
	code := model.NormalizeAccessCode(accessCode)

	// A malformed property id is indistinguishable from a wrong code, and
	// must not reach the uuid column as an invalid cast.
	if _, err := uuid.Parse(propertyID); err != nil {
		return &AccessResult{Denial: DenialInvalidCode}, nil
	}

	invite, err := s.inviteRepo.FindByPropertyAndCode(ctx, propertyID, code)
	if err != nil {
		return nil, fmt.Errorf("find invite: %w", err)
	}
	if invite == nil {
		log.Warn().Str("propertyId", propertyID).Msg("access code validation failed: no match")
		return &AccessResult{Denial: DenialInvalidCode}, nil
	}

	if invite.Status == model.InviteStatusRevoked {
		log.Info().Str("inviteId", invite.ID).Msg("access denied: invite revoked")
		return &AccessResult{Denial: DenialRevoked, Invite: invite}, nil
	}

	now := s.now()
	window := invite.Window()
	today := model.DateOnly(now)

	if today.Before(window.Start) {
		days := model.DaysBetween(today, window.Start)
		log.Info().
			Str("inviteId", invite.ID).
			Int("daysUntilAccess", days).
			Msg("access denied: window not open yet")
		return &AccessResult{
			Denial:          DenialNotYetAvailable,
			Invite:          invite,
			Window:          window,
			DaysUntilAccess: days,
		}, nil
	}

	if today.After(window.End) {
		log.Info().Str("inviteId", invite.ID).Msg("access denied: window closed")
		return &AccessResult{Denial: DenialExpired, Invite: invite, Window: window}, nil
	}

	// Granted. Persist the access timestamp and refreshed status as a
	// single best-effort write; the verdict never depends on it.
	if err := s.inviteRepo.RecordAccess(ctx, invite.ID, now, model.InviteStatusActive); err != nil {
		log.Error().Err(err).Str("inviteId", invite.ID).Msg("failed to record invite access")
	}

	log.Info().
		Str("inviteId", invite.ID).
		Str("propertyId", propertyID).
		Msg("access code validated")

	return &AccessResult{Valid: true, Invite: invite, Window: window}, nil
}
