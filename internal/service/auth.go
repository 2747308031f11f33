package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/config"
	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
	"github.com/stayhaven/guidebook-server-go/internal/util"
)

// AuthService manages host accounts and dashboard sessions. Session
// tokens are opaque; only their SHA-256 hash is stored.
type AuthService struct {
	hostRepo    repository.HostRepository
	sessionRepo repository.HostSessionRepository
}

func NewAuthService(
	hostRepo repository.HostRepository,
	sessionRepo repository.HostSessionRepository,
) *AuthService {
	return &AuthService{
		hostRepo:    hostRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *AuthService) Signup(ctx context.Context, emailAddr, name, password string) (*model.Host, error) {
	if !util.IsValidEmail(emailAddr) {
		return nil, apperrors.InvalidInput("email", "not a valid email address")
	}
	if name == "" {
		return nil, apperrors.MissingRequired("name")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidInput("password", "must be at least 8 characters")
	}

	normalized := util.NormalizeEmail(emailAddr)
	existing, err := s.hostRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Account")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password")
	}

	host, err := s.hostRepo.Create(ctx, model.CreateHostParams{
		Email:        normalized,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("hostId", host.ID).Msg("host account created")
	return host, nil
}

// Login verifies credentials and returns the host plus a fresh session
// token. The same generic message covers unknown email and bad password.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*model.Host, string, error) {
	host, err := s.hostRepo.FindByEmail(ctx, util.NormalizeEmail(emailAddr))
	if err != nil {
		return nil, "", apperrors.Database(err)
	}
	if host == nil || !util.CheckPasswordHash(password, host.PasswordHash) {
		return nil, "", apperrors.Unauthorized("Invalid email or password")
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, "", apperrors.Internal("failed to generate session token")
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateHostSessionParams{
		HostID:    host.ID,
		TokenHash: util.HashToken(token),
		ExpiresAt: time.Now().Add(config.HostSessionTTL),
	})
	if err != nil {
		return nil, "", apperrors.Database(err)
	}

	log.Info().Str("hostId", host.ID).Msg("host logged in")
	return host, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByTokenHash(ctx, util.HashToken(token))
}

// ValidateSession resolves a session cookie token to its host, or nil
// when the session is missing or expired.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.Host, error) {
	session, err := s.sessionRepo.FindByTokenHash(ctx, util.HashToken(token))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return s.hostRepo.FindByID(ctx, session.HostID)
}
