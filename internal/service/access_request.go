package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/config"
	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/email"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
	"github.com/stayhaven/guidebook-server-go/internal/util"
)

// AccessRequestService handles guest-initiated "request access" flows.
// One request per (property, guest email) per rolling 24 hours; the
// check is read-then-write without isolation, a rare double-send under
// concurrency is accepted.
type AccessRequestService struct {
	requestRepo  repository.AccessRequestRepository
	propertyRepo repository.PropertyRepository
	hostRepo     repository.HostRepository
	mailer       email.Sender
	now          func() time.Time
}

func NewAccessRequestService(
	requestRepo repository.AccessRequestRepository,
	propertyRepo repository.PropertyRepository,
	hostRepo repository.HostRepository,
	mailer email.Sender,
) *AccessRequestService {
	return &AccessRequestService{
		requestRepo:  requestRepo,
		propertyRepo: propertyRepo,
		hostRepo:     hostRepo,
		mailer:       mailer,
		now:          time.Now,
	}
}

// Submit records a guest's request and notifies the host by email.
func (s *AccessRequestService) Submit(ctx context.Context, propertyID, guestName, guestEmail, message string) (*model.AccessRequest, error) {
	if !util.IsValidEmail(guestEmail) {
		return nil, apperrors.InvalidInput("email", "not a valid email address")
	}
	normalizedEmail := util.NormalizeEmail(guestEmail)

	if _, err := uuid.Parse(propertyID); err != nil {
		return nil, apperrors.NotFound("Property")
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if property == nil {
		return nil, apperrors.NotFound("Property")
	}

	since := s.now().Add(-config.AccessRequestWindow)
	recent, err := s.requestRepo.FindRecent(ctx, propertyID, normalizedEmail, since)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if recent != nil {
		log.Info().
			Str("propertyId", propertyID).
			Str("guestEmail", normalizedEmail).
			Msg("access request throttled")
		return nil, apperrors.New(apperrors.ErrCodeRateLimitExceeded,
			"You already requested access recently. Please wait for the host to respond.")
	}

	request, err := s.requestRepo.Create(ctx, model.CreateAccessRequestParams{
		PropertyID: propertyID,
		GuestName:  guestName,
		GuestEmail: normalizedEmail,
		Message:    message,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("requestId", request.ID).
		Str("propertyId", propertyID).
		Msg("guest access request recorded")

	s.notifyHost(ctx, property, request)

	return request, nil
}

func (s *AccessRequestService) ListByProperty(ctx context.Context, propertyID string) ([]model.AccessRequest, error) {
	requests, err := s.requestRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return requests, nil
}

// notifyHost is best-effort: the request is already recorded.
func (s *AccessRequestService) notifyHost(ctx context.Context, property *model.Property, request *model.AccessRequest) {
	host, err := s.hostRepo.FindByID(ctx, property.HostID)
	if err != nil || host == nil {
		log.Error().Err(err).Str("hostId", property.HostID).Msg("could not look up host for notification")
		return
	}

	if err := s.mailer.SendAccessRequestNotice(ctx, host.Email, request, property); err != nil {
		log.Error().Err(err).Str("requestId", request.ID).Msg("failed to notify host of access request")
	}
}
