package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imezy/imezy-api/internal/core/domain"
)

type authFixture struct {
	auth    *AuthService
	tokens  *TokenService
	users   *memUserRepo
	rtokens *memRefreshRepo
	credits *memCreditRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	credits := newMemCreditRepo()
	users := newMemUserRepo(credits)
	rtokens := newMemRefreshRepo()
	tokens := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := users.CreateWithCredit(context.Background(), &domain.User{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
		IsActive:     true,
	}, &domain.Credit{Email: "alice@example.com", Balance: 500, IncrementStep: 500}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return &authFixture{
		auth:    NewAuthService(users, tokens, rtokens, zerolog.Nop()),
		tokens:  tokens,
		users:   users,
		rtokens: rtokens,
		credits: credits,
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("expected bearer, got %s", pair.TokenType)
	}

	if _, err := f.tokens.VerifyAccess(pair.AccessToken); err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}

	stored, err := f.rtokens.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("stored refresh token: %v", err)
	}
	if stored != pair.RefreshToken {
		t.Fatalf("stored token differs from issued token")
	}

	user, _ := f.users.FindByEmail(ctx, "alice@example.com")
	if user.LastLogin.IsZero() {
		t.Fatalf("last_login not stamped")
	}
}

func TestAuthService_Login_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.auth.Login(context.Background(), "  Alice@Example.COM ", "password123"); err != nil {
		t.Fatalf("login with unnormalized email: %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	// Unknown accounts and bad passwords are indistinguishable to the caller.
	_, err := f.auth.Login(context.Background(), "ghost@example.com", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if _, err := f.users.CreateWithCredit(ctx, &domain.User{
		Email:        "bob@example.com",
		Username:     "bob",
		PasswordHash: string(hash),
		IsActive:     false,
	}, &domain.Credit{Email: "bob@example.com", Balance: 500, IncrementStep: 500}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err := f.auth.Login(ctx, "bob@example.com", "password123")
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := f.auth.Logout(ctx, "alice@example.com"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// A second logout has nothing to delete.
	if err := f.auth.Logout(ctx, "alice@example.com"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	// The refresh token no longer reissues anything.
	if _, err := f.auth.Reissue(ctx, pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after logout, got %v", err)
	}
}

func TestAuthService_Reissue(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := f.auth.Reissue(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	claims, err := f.tokens.VerifyAccess(access)
	if err != nil {
		t.Fatalf("reissued token does not verify: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Reissue_Superseded(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// A later login elsewhere rotated the stored token.
	if err := f.rtokens.Put(ctx, "alice@example.com", "rotated-by-newer-login"); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	if _, err := f.auth.Reissue(ctx, pair.RefreshToken); !errors.Is(err, domain.ErrTokenSuperseded) {
		t.Fatalf("expected ErrTokenSuperseded, got %v", err)
	}
}

func TestAuthService_Reissue_AccessTokenRejected(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := f.auth.Reissue(ctx, pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_RotateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Login(ctx, "alice@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	pair, err := f.auth.RotateEmail(ctx, "alice@example.com", "alice2@example.com", "user-1")
	if err != nil {
		t.Fatalf("rotate email: %v", err)
	}

	if _, err := f.rtokens.Get(ctx, "alice@example.com"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("old refresh key still present, err=%v", err)
	}
	stored, err := f.rtokens.Get(ctx, "alice2@example.com")
	if err != nil {
		t.Fatalf("new refresh key missing: %v", err)
	}
	if stored != pair.RefreshToken {
		t.Fatalf("stored token differs from issued token")
	}
}
