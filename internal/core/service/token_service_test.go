package service

import (
	"errors"
	"testing"
	"time"

	"github.com/imezy/imezy-api/internal/core/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	tok, err := svc.IssueAccess("alice@example.com", "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "alice@example.com" || claims.UserID != "user-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Type != domain.TokenTypeAccess {
		t.Fatalf("expected access type, got %s", claims.Type)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Fatalf("expiry in the past: %v", claims.ExpiresAt)
	}
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	tok, err := svc.IssueRefresh("alice@example.com", "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.ParseRefresh(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Type != domain.TokenTypeRefresh {
		t.Fatalf("expected refresh type, got %s", claims.Type)
	}
}

func TestTokenService_RefreshRejectedAsAccess(t *testing.T) {
	svc := newTestTokenService()

	refresh, _ := svc.IssueRefresh("alice@example.com", "user-1")
	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_AccessRejectedAsRefresh(t *testing.T) {
	svc := newTestTokenService()

	access, _ := svc.IssueAccess("alice@example.com", "user-1")
	if _, err := svc.ParseRefresh(access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := &TokenService{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     -time.Minute,
		refreshTTL:    time.Hour,
	}

	tok, err := svc.IssueAccess("alice@example.com", "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.VerifyAccess(tok); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("different", "secrets", time.Minute, time.Hour)

	tok, _ := svc.IssueAccess("alice@example.com", "user-1")
	if _, err := other.VerifyAccess(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Superseded(t *testing.T) {
	svc := newTestTokenService()

	tok, _ := svc.IssueRefresh("alice@example.com", "user-1")

	if _, err := svc.VerifyRefresh(tok, tok); err != nil {
		t.Fatalf("matching token rejected: %v", err)
	}
	if _, err := svc.VerifyRefresh(tok, "a-newer-stored-token"); !errors.Is(err, domain.ErrTokenSuperseded) {
		t.Fatalf("expected ErrTokenSuperseded, got %v", err)
	}
}

func TestTokenService_GarbageToken(t *testing.T) {
	svc := newTestTokenService()

	if _, err := svc.VerifyAccess("not.a.token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
