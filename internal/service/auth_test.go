package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/util"
)

type mockHostSessionRepo struct {
	mock.Mock
}

func (m *mockHostSessionRepo) Create(ctx context.Context, params model.CreateHostSessionParams) (*model.HostSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HostSession), args.Error(1)
}

func (m *mockHostSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.HostSession, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HostSession), args.Error(1)
}

func (m *mockHostSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockHostSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockHostSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestSignup_Success(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	hostRepo.On("FindByEmail", mock.Anything, "host@example.com").
		Return(nil, nil)

	var created model.CreateHostParams
	hostRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateHostParams")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(model.CreateHostParams)
		}).
		Return(&model.Host{ID: "host-1", Email: "host@example.com", Name: "Alex"}, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	host, err := service.Signup(context.Background(), "  Host@Example.com ", "Alex", "hunter2hunter2")

	require.NoError(t, err)
	assert.Equal(t, "host-1", host.ID)

	// Email is normalized and the password is stored only as a hash.
	assert.Equal(t, "host@example.com", created.Email)
	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash)
	assert.True(t, util.CheckPasswordHash("hunter2hunter2", created.PasswordHash))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	hostRepo.On("FindByEmail", mock.Anything, "host@example.com").
		Return(&model.Host{ID: "host-1"}, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	_, err := service.Signup(context.Background(), "host@example.com", "Alex", "hunter2hunter2")

	assert.Equal(t, apperrors.ErrCodeAlreadyExists, apperrors.GetCode(err))
	hostRepo.AssertNotCalled(t, "Create")
}

func TestSignup_WeakPassword(t *testing.T) {
	service := NewAuthService(new(mockHostRepo), new(mockHostSessionRepo))

	_, err := service.Signup(context.Background(), "host@example.com", "Alex", "short")

	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
}

func TestLogin_Success(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	hash, err := util.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	hostRepo.On("FindByEmail", mock.Anything, "host@example.com").
		Return(&model.Host{ID: "host-1", Email: "host@example.com", PasswordHash: hash}, nil)

	var created model.CreateHostSessionParams
	sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreateHostSessionParams")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(model.CreateHostSessionParams)
		}).
		Return(&model.HostSession{ID: "sess-1", HostID: "host-1"}, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	host, token, err := service.Login(context.Background(), "host@example.com", "hunter2hunter2")

	require.NoError(t, err)
	assert.Equal(t, "host-1", host.ID)
	assert.NotEmpty(t, token)

	// Only the hash hits the database.
	assert.NotEqual(t, token, created.TokenHash)
	assert.Equal(t, util.HashToken(token), created.TokenHash)
	assert.True(t, created.ExpiresAt.After(time.Now()))
}

func TestLogin_WrongPassword(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	hash, err := util.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	hostRepo.On("FindByEmail", mock.Anything, "host@example.com").
		Return(&model.Host{ID: "host-1", PasswordHash: hash}, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	_, _, err = service.Login(context.Background(), "host@example.com", "wrong-password")

	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.GetCode(err))
	sessionRepo.AssertNotCalled(t, "Create")
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	hostRepo.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(nil, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	_, _, err := service.Login(context.Background(), "nobody@example.com", "whatever123")

	// Same message as a wrong password, no account probing.
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
	assert.Equal(t, "Invalid email or password", appErr.Message)
}

func TestValidateSession(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	token, err := util.GenerateToken()
	require.NoError(t, err)

	sessionRepo.On("FindByTokenHash", mock.Anything, util.HashToken(token)).
		Return(&model.HostSession{ID: "sess-1", HostID: "host-1", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	hostRepo.On("FindByID", mock.Anything, "host-1").
		Return(&model.Host{ID: "host-1"}, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	host, err := service.ValidateSession(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "host-1", host.ID)
}

func TestValidateSession_Unknown(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	sessionRepo.On("FindByTokenHash", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, nil)

	service := NewAuthService(hostRepo, sessionRepo)

	host, err := service.ValidateSession(context.Background(), "bogus-token")

	require.NoError(t, err)
	assert.Nil(t, host)
}

func TestLogout_DeletesByHash(t *testing.T) {
	hostRepo := new(mockHostRepo)
	sessionRepo := new(mockHostSessionRepo)

	sessionRepo.On("DeleteByTokenHash", mock.Anything, util.HashToken("tok")).
		Return(nil)

	service := NewAuthService(hostRepo, sessionRepo)

	require.NoError(t, service.Logout(context.Background(), "tok"))
	sessionRepo.AssertCalled(t, "DeleteByTokenHash", mock.Anything, util.HashToken("tok"))
}
