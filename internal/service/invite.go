package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/email"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
	"github.com/stayhaven/guidebook-server-go/internal/util"
)

// Alphabet omits 0/O/1/I to keep codes readable off a phone screen.
const accessCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeGenAttempts = 10

// IssueInviteParams is the host-facing input for creating an invite.
type IssueInviteParams struct {
	PropertyID       string
	GuestName        string
	GuestEmail       string
	CheckInDate      time.Time
	CheckOutDate     time.Time
	LeadTimeDays     int
	PostCheckoutDays int
}

// InviteService manages the invite lifecycle on behalf of hosts.
type InviteService struct {
	inviteRepo   repository.InviteRepository
	propertyRepo repository.PropertyRepository
	mailer       email.Sender
	now          func() time.Time
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	propertyRepo repository.PropertyRepository,
	mailer email.Sender,
) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          time.Now,
	}
}

// Issue validates the stay window, generates a code unique among the
// property's live invites, stores the invite, and emails the guest.
func (s *InviteService) Issue(ctx context.Context, params IssueInviteParams) (*model.GuestInvite, error) {
	if params.GuestName == "" {
		return nil, apperrors.MissingRequired("guestName")
	}
	if !util.IsValidEmail(params.GuestEmail) {
		return nil, apperrors.InvalidInput("guestEmail", "not a valid email address")
	}
	if params.CheckOutDate.Before(params.CheckInDate) {
		return nil, apperrors.ValidationError("check-out date must not be before check-in date")
	}
	if params.LeadTimeDays < 0 || params.PostCheckoutDays < 0 {
		return nil, apperrors.ValidationError("access margins must be non-negative")
	}

	property, err := s.propertyRepo.FindByID(ctx, params.PropertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if property == nil {
		return nil, apperrors.NotFound("Property")
	}

	code, err := s.generateCode(ctx, params.PropertyID)
	if err != nil {
		return nil, err
	}

	invite, err := s.inviteRepo.Create(ctx, model.CreateGuestInviteParams{
		PropertyID:       params.PropertyID,
		GuestName:        params.GuestName,
		GuestEmail:       util.NormalizeEmail(params.GuestEmail),
		CheckInDate:      model.DateOnly(params.CheckInDate),
		CheckOutDate:     model.DateOnly(params.CheckOutDate),
		LeadTimeDays:     params.LeadTimeDays,
		PostCheckoutDays: params.PostCheckoutDays,
		AccessCode:       code,
		Status:           initialStatus(params, s.now()),
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("inviteId", invite.ID).
		Str("propertyId", invite.PropertyID).
		Time("checkIn", invite.CheckInDate).
		Time("checkOut", invite.CheckOutDate).
		Msg("guest invite issued")

	if err := s.mailer.SendInvite(ctx, invite, property); err != nil {
		log.Error().Err(err).Str("inviteId", invite.ID).Msg("failed to send invite email")
	}

	return invite, nil
}

// Revoke is terminal: a revoked invite is never reactivated, whatever
// its dates say.
func (s *InviteService) Revoke(ctx context.Context, inviteID string) (*model.GuestInvite, error) {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if invite == nil {
		return nil, apperrors.NotFound("Invite")
	}

	if invite.Status != model.InviteStatusRevoked {
		if err := s.inviteRepo.UpdateStatus(ctx, inviteID, model.InviteStatusRevoked); err != nil {
			return nil, apperrors.Database(err)
		}
		invite.Status = model.InviteStatusRevoked
		log.Info().Str("inviteId", inviteID).Msg("guest invite revoked")
	}

	return invite, nil
}

// Resend re-emails the existing code to the guest. Revoked invites
// cannot be resent; issue a new invite instead.
func (s *InviteService) Resend(ctx context.Context, inviteID string) error {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		return apperrors.Database(err)
	}
	if invite == nil {
		return apperrors.NotFound("Invite")
	}
	if invite.Status == model.InviteStatusRevoked {
		return apperrors.New(apperrors.ErrCodeConflict, "Cannot resend a revoked invite")
	}

	property, err := s.propertyRepo.FindByID(ctx, invite.PropertyID)
	if err != nil {
		return apperrors.Database(err)
	}
	if property == nil {
		return apperrors.NotFound("Property")
	}

	if err := s.mailer.SendInvite(ctx, invite, property); err != nil {
		log.Error().Err(err).Str("inviteId", inviteID).Msg("failed to resend invite email")
		return apperrors.External("email", err)
	}

	log.Info().Str("inviteId", inviteID).Msg("guest invite resent")
	return nil
}

func (s *InviteService) ListByProperty(ctx context.Context, propertyID string) ([]model.GuestInvite, error) {
	invites, err := s.inviteRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return invites, nil
}

func (s *InviteService) FindByID(ctx context.Context, inviteID string) (*model.GuestInvite, error) {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return invite, nil
}

func (s *InviteService) generateCode(ctx context.Context, propertyID string) (string, error) {
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code := generateAccessCode()
		existing, err := s.inviteRepo.FindActiveByPropertyAndCode(ctx, propertyID, code)
		if err != nil {
			return "", apperrors.Database(err)
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", apperrors.Internal("could not generate a unique access code")
}

func initialStatus(params IssueInviteParams, now time.Time) model.InviteStatus {
	probe := model.GuestInvite{
		CheckInDate:      params.CheckInDate,
		CheckOutDate:     params.CheckOutDate,
		LeadTimeDays:     params.LeadTimeDays,
		PostCheckoutDays: params.PostCheckoutDays,
		Status:           model.InviteStatusPending,
	}
	return probe.DeriveStatus(now)
}

// generateAccessCode produces an 8-character code in XXXX-XXXX format.
func generateAccessCode() string {
	chars := []byte(accessCodeChars)
	code := make([]byte, 9)
	for i := range code {
		if i == 4 {
			code[i] = '-'
			continue
		}
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		code[i] = chars[n.Int64()]
	}
	return string(code)
}
