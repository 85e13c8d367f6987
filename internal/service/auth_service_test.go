package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/config"
	"ngplus/api/internal/mail"
	"ngplus/api/internal/models"
	"ngplus/api/internal/security"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore, *fakeMailer) {
	t.Helper()

	passwordHash, err := security.HashPassword("correct-horse")
	if err != nil {
		t.Fatal(err)
	}

	store := newFakeUserStore(models.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: passwordHash,
		AccountType:  models.AccountTypeUser,
	})
	mailer := &fakeMailer{}

	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret:  "access-secret",
			JWTRefreshSecret: "refresh-secret",
			JWTResetSecret:   "reset-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    168 * time.Hour,
			JWTResetTTL:      30 * time.Minute,
		},
	}

	return NewAuthService(store, mailer, cfg, zerolog.Nop()), store, mailer
}

func TestLoginSuccess(t *testing.T) {
	svc, store, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("incomplete token pair")
	}

	user := store.users["u-1"]
	if user.LastLogin == nil {
		t.Error("last login not recorded")
	}
	if len(user.RefreshTokenHash) == 0 {
		t.Error("rotation anchor not stored")
	}

	claims, err := security.ParseToken(pair.RefreshToken, "refresh-secret")
	if err != nil {
		t.Fatal(err)
	}
	if !security.JTIMatches(claims.JTI(), user.RefreshTokenHash) {
		t.Error("stored anchor does not match issued refresh token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	// Unknown user and wrong password must be indistinguishable.
	for _, c := range []struct{ username, password string }{
		{"nobody", "correct-horse"},
		{"alice", "wrong-password"},
	} {
		_, err := svc.Login(ctx, c.username, c.password)
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("Login(%s) error = %v, want unauthorized", c.username, err)
		}
	}
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}

	next, err := svc.Refresh(ctx, "u-1", pair.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// The token that was just consumed must no longer pass.
	if _, err := svc.Refresh(ctx, "u-1", pair.RefreshToken); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("stale refresh error = %v, want forbidden", err)
	}

	// The new one still works.
	if _, err := svc.Refresh(ctx, "u-1", next.RefreshToken); err != nil {
		t.Fatalf("fresh refresh: %v", err)
	}
}

func TestLogoutThenRefreshDenied(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(ctx, "u-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// The token itself is still cryptographically valid; the cleared anchor
	// alone must deny it.
	if _, err := svc.Refresh(ctx, "u-1", pair.RefreshToken); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("refresh after logout error = %v, want forbidden", err)
	}
}

func TestRefreshWrongKindDenied(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}

	// An access token presented as a refresh token fails signature check.
	if _, err := svc.Refresh(ctx, "u-1", pair.AccessToken); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("error = %v, want forbidden", err)
	}
}

func TestRequestPasswordReset(t *testing.T) {
	svc, _, mailer := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.Kind != mail.KindPasswordReset || msg.To != "alice@example.com" {
		t.Fatalf("unexpected mail %+v", msg)
	}
	if _, err := security.ParseToken(msg.Data["token"], "reset-secret"); err != nil {
		t.Fatalf("mailed token does not verify as reset token: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "ghost@example.com"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("unknown email error = %v, want not found", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc, store, mailer := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "alice", "correct-horse"); err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetPassword(ctx, "u-1", "new-password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	user := store.users["u-1"]
	if user.RefreshTokenHash != nil {
		t.Error("refresh anchor survived password reset")
	}
	if ok, _ := security.VerifyPassword("new-password", user.PasswordHash); !ok {
		t.Error("new password does not verify")
	}

	last := mailer.sent[len(mailer.sent)-1]
	if last.Kind != mail.KindPasswordResetSuccess {
		t.Errorf("last mail kind = %s", last.Kind)
	}
}
