package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/config"
	"ngplus/api/internal/mail"
	"ngplus/api/internal/models"
	"ngplus/api/internal/repository"
	"ngplus/api/internal/security"
)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	SetRefreshTokenHash(ctx context.Context, id string, hash []byte) error
	SetPassword(ctx context.Context, id string, passwordHash []byte) error
}

// Mailer enqueues transactional mail; delivery is asynchronous and
// best-effort.
type Mailer interface {
	Enqueue(ctx context.Context, kind, to string, data map[string]string)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users  UserStore
	mailer Mailer
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAuthService(users UserStore, mailer Mailer, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
	}
}

// Login verifies credentials and issues an access/refresh pair. The hash of
// the refresh token's jti becomes the user's single rotation anchor.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, apperr.Unauthorized("Invalid credentials.")
		}
		return TokenPair{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return TokenPair{}, apperr.Unauthorized("Invalid credentials.")
	}

	if err := s.users.SetLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return TokenPair{}, err
	}

	return s.issuePair(ctx, user)
}

// Logout clears the stored jti hash, invalidating every outstanding refresh
// token at once. There is no finer-grained revocation: one anchor per user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("Entry not found.")
		}
		return err
	}
	return nil
}

// Refresh rotates the token pair. The presented refresh token is only valid
// while the hash of its jti matches the stored anchor, so each rotation
// invalidates the previous token and logout invalidates all of them.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, apperr.Forbidden("Access denied.")
		}
		return TokenPair{}, err
	}

	if len(user.RefreshTokenHash) == 0 {
		return TokenPair{}, apperr.Forbidden("Access denied.")
	}

	claims, err := security.ParseToken(refreshToken, s.cfg.Security.JWTRefreshSecret)
	if err != nil {
		return TokenPair{}, apperr.Forbidden("Access denied.")
	}

	if !security.JTIMatches(claims.JTI(), user.RefreshTokenHash) {
		return TokenPair{}, apperr.Forbidden("Access denied.")
	}

	return s.issuePair(ctx, user)
}

// RequestPasswordReset issues a short-lived reset token and mails it. Stored
// state is untouched; presenting the token is the only proof required.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("Entry not found.")
		}
		return err
	}

	token, _, err := security.IssueToken(s.cfg.Security.JWTResetSecret, user, s.cfg.Security.JWTResetTTL)
	if err != nil {
		return err
	}

	s.mailer.Enqueue(ctx, mail.KindPasswordReset, user.Email, map[string]string{
		"username": user.Username,
		"token":    token,
	})
	return nil
}

// ResetPassword replaces the password hash and clears the refresh anchor so
// every session must log in again. The reset token is verified upstream.
func (s *AuthService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("Entry not found.")
		}
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.SetPassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	s.mailer.Enqueue(ctx, mail.KindPasswordResetSuccess, user.Email, map[string]string{
		"username": user.Username,
	})
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, user models.User) (TokenPair, error) {
	accessToken, _, err := security.IssueToken(s.cfg.Security.JWTAccessSecret, user, s.cfg.Security.JWTAccessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, jti, err := security.IssueToken(s.cfg.Security.JWTRefreshSecret, user, s.cfg.Security.JWTRefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.ID, security.HashJTI(jti)); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
