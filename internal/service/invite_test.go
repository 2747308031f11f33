package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/model"
)

type mockPropertyRepo struct {
	mock.Mock
}

func (m *mockPropertyRepo) Create(ctx context.Context, params model.CreatePropertyParams) (*model.Property, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *mockPropertyRepo) FindByID(ctx context.Context, id string) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *mockPropertyRepo) ListByHostID(ctx context.Context, hostID string) ([]model.Property, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, id string, params model.UpdatePropertyParams) (*model.Property, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendInvite(ctx context.Context, invite *model.GuestInvite, property *model.Property) error {
	args := m.Called(ctx, invite, property)
	return args.Error(0)
}

func (m *mockMailer) SendAccessRequestNotice(ctx context.Context, hostEmail string, request *model.AccessRequest, property *model.Property) error {
	args := m.Called(ctx, hostEmail, request, property)
	return args.Error(0)
}

func testProperty() *model.Property {
	return &model.Property{
		ID:     testPropertyID,
		HostID: "host-1",
		Name:   "Seaside Loft",
	}
}

func issueParams() IssueInviteParams {
	return IssueInviteParams{
		PropertyID:       testPropertyID,
		GuestName:        "Jamie Park",
		GuestEmail:       "Jamie@Example.com",
		CheckInDate:      time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate:     time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		LeadTimeDays:     2,
		PostCheckoutDays: 1,
	}
}

func TestIssue_Success(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)

	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(testProperty(), nil)
	inviteRepo.On("FindActiveByPropertyAndCode", mock.Anything, testPropertyID, mock.AnythingOfType("string")).
		Return(nil, nil)

	var created model.CreateGuestInviteParams
	inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateGuestInviteParams")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(model.CreateGuestInviteParams)
		}).
		Return(juneInvite(), nil)
	mailer.On("SendInvite", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		// Before the window opens, so the stored status starts pending.
		now: fixedNow(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}

	invite, err := service.Issue(context.Background(), issueParams())

	require.NoError(t, err)
	require.NotNil(t, invite)

	assert.Equal(t, "jamie@example.com", created.GuestEmail)
	assert.Equal(t, model.InviteStatusPending, created.Status)
	assert.Len(t, created.AccessCode, 9)
	assert.Equal(t, byte('-'), created.AccessCode[4])

	mailer.AssertCalled(t, "SendInvite", mock.Anything, mock.Anything, mock.Anything)
}

func TestIssue_MidStayStartsActive(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)

	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(testProperty(), nil)
	inviteRepo.On("FindActiveByPropertyAndCode", mock.Anything, testPropertyID, mock.AnythingOfType("string")).
		Return(nil, nil)

	var created model.CreateGuestInviteParams
	inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateGuestInviteParams")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(model.CreateGuestInviteParams)
		}).
		Return(juneInvite(), nil)
	mailer.On("SendInvite", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          fixedNow(time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)),
	}

	_, err := service.Issue(context.Background(), issueParams())

	require.NoError(t, err)
	assert.Equal(t, model.InviteStatusActive, created.Status)
}

func TestIssue_ValidationErrors(t *testing.T) {
	service := &InviteService{now: time.Now}

	params := issueParams()
	params.GuestName = ""
	_, err := service.Issue(context.Background(), params)
	assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))

	params = issueParams()
	params.GuestEmail = "not-an-email"
	_, err = service.Issue(context.Background(), params)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))

	params = issueParams()
	params.CheckOutDate = params.CheckInDate.AddDate(0, 0, -1)
	_, err = service.Issue(context.Background(), params)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))

	params = issueParams()
	params.LeadTimeDays = -1
	_, err = service.Issue(context.Background(), params)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestIssue_SameDayCheckInAndOut(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)

	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(testProperty(), nil)
	inviteRepo.On("FindActiveByPropertyAndCode", mock.Anything, testPropertyID, mock.AnythingOfType("string")).
		Return(nil, nil)
	inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateGuestInviteParams")).
		Return(juneInvite(), nil)
	mailer.On("SendInvite", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          fixedNow(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}

	params := issueParams()
	params.CheckOutDate = params.CheckInDate

	_, err := service.Issue(context.Background(), params)
	require.NoError(t, err)
}

func TestIssue_PropertyNotFound(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)

	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(nil, nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		now:          time.Now,
	}

	_, err := service.Issue(context.Background(), issueParams())

	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	inviteRepo.AssertNotCalled(t, "Create")
}

func TestIssue_CodeCollisionRetries(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)

	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(testProperty(), nil)

	// First candidate collides with a live invite, second is free.
	inviteRepo.On("FindActiveByPropertyAndCode", mock.Anything, testPropertyID, mock.AnythingOfType("string")).
		Return(juneInvite(), nil).Once()
	inviteRepo.On("FindActiveByPropertyAndCode", mock.Anything, testPropertyID, mock.AnythingOfType("string")).
		Return(nil, nil).Once()
	inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateGuestInviteParams")).
		Return(juneInvite(), nil)
	mailer.On("SendInvite", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          fixedNow(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}

	_, err := service.Issue(context.Background(), issueParams())

	require.NoError(t, err)
	inviteRepo.AssertNumberOfCalls(t, "FindActiveByPropertyAndCode", 2)
}

func TestIssue_EmailFailureDoesNotFailIssue(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)

	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(testProperty(), nil)
	inviteRepo.On("FindActiveByPropertyAndCode", mock.Anything, testPropertyID, mock.AnythingOfType("string")).
		Return(nil, nil)
	inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateGuestInviteParams")).
		Return(juneInvite(), nil)
	mailer.On("SendInvite", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("ses throttled"))

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          fixedNow(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}

	invite, err := service.Issue(context.Background(), issueParams())

	require.NoError(t, err)
	assert.NotNil(t, invite)
}

func TestRevoke(t *testing.T) {
	inviteRepo := new(mockInviteRepo)

	inviteRepo.On("FindByID", mock.Anything, "inv-1").
		Return(juneInvite(), nil)
	inviteRepo.On("UpdateStatus", mock.Anything, "inv-1", model.InviteStatusRevoked).
		Return(nil)

	service := &InviteService{inviteRepo: inviteRepo, now: time.Now}

	invite, err := service.Revoke(context.Background(), "inv-1")

	require.NoError(t, err)
	assert.Equal(t, model.InviteStatusRevoked, invite.Status)
}

func TestRevoke_AlreadyRevokedIsIdempotent(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	revoked := juneInvite()
	revoked.Status = model.InviteStatusRevoked

	inviteRepo.On("FindByID", mock.Anything, "inv-1").
		Return(revoked, nil)

	service := &InviteService{inviteRepo: inviteRepo, now: time.Now}

	invite, err := service.Revoke(context.Background(), "inv-1")

	require.NoError(t, err)
	assert.Equal(t, model.InviteStatusRevoked, invite.Status)
	inviteRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestRevoke_NotFound(t *testing.T) {
	inviteRepo := new(mockInviteRepo)

	inviteRepo.On("FindByID", mock.Anything, "missing").
		Return(nil, nil)

	service := &InviteService{inviteRepo: inviteRepo, now: time.Now}

	_, err := service.Revoke(context.Background(), "missing")

	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
}

func TestResend_RevokedIsRejected(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)
	revoked := juneInvite()
	revoked.Status = model.InviteStatusRevoked

	inviteRepo.On("FindByID", mock.Anything, "inv-1").
		Return(revoked, nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          time.Now,
	}

	err := service.Resend(context.Background(), "inv-1")

	assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))
	mailer.AssertNotCalled(t, "SendInvite")
}

func TestResend_Success(t *testing.T) {
	inviteRepo := new(mockInviteRepo)
	propertyRepo := new(mockPropertyRepo)
	mailer := new(mockMailer)

	inviteRepo.On("FindByID", mock.Anything, "inv-1").
		Return(juneInvite(), nil)
	propertyRepo.On("FindByID", mock.Anything, testPropertyID).
		Return(testProperty(), nil)
	mailer.On("SendInvite", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := &InviteService{
		inviteRepo:   inviteRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		now:          time.Now,
	}

	err := service.Resend(context.Background(), "inv-1")

	require.NoError(t, err)
	mailer.AssertCalled(t, "SendInvite", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateAccessCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateAccessCode()
		assert.Len(t, code, 9, "Code should be 9 characters (XXXX-XXXX)")
		assert.Equal(t, "-", string(code[4]), "5th character should be hyphen")

		for j, ch := range code {
			if j == 4 {
				continue
			}
			assert.Contains(t, accessCodeChars, string(ch),
				"Code should only contain characters from accessCodeChars")
		}

		// Ambiguous glyphs are excluded from the alphabet.
		assert.False(t, strings.ContainsAny(code, "01OI"))
	}
}
