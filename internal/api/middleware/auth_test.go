package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/core/domain"
)

type stubTokenService struct {
	claims *domain.TokenClaims
	err    error
}

func (s *stubTokenService) IssueAccess(email, userID string) (string, error)  { return "", nil }
func (s *stubTokenService) IssueRefresh(email, userID string) (string, error) { return "", nil }
func (s *stubTokenService) VerifyAccess(token string) (*domain.TokenClaims, error) {
	return s.claims, s.err
}
func (s *stubTokenService) ParseRefresh(token string) (*domain.TokenClaims, error) {
	return s.claims, s.err
}
func (s *stubTokenService) VerifyRefresh(token, stored string) (*domain.TokenClaims, error) {
	return s.claims, s.err
}

type stubUserDirectory struct {
	user *domain.User
	err  error
}

func (s *stubUserDirectory) CreateWithCredit(ctx context.Context, user *domain.User, credit *domain.Credit) (*domain.User, error) {
	return nil, nil
}
func (s *stubUserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.user, s.err
}
func (s *stubUserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.user, s.err
}
func (s *stubUserDirectory) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.user, s.err
}
func (s *stubUserDirectory) List(ctx context.Context) ([]domain.User, error)          { return nil, nil }
func (s *stubUserDirectory) UpdateEmail(ctx context.Context, id, email string) error  { return nil }
func (s *stubUserDirectory) UpdateUsername(ctx context.Context, id, u string) error   { return nil }
func (s *stubUserDirectory) UpdatePasswordHash(ctx context.Context, id, h string) error {
	return nil
}
func (s *stubUserDirectory) SetAdmin(ctx context.Context, id string) error { return nil }
func (s *stubUserDirectory) SetLastLogin(ctx context.Context, email string, at time.Time) error {
	return nil
}
func (s *stubUserDirectory) Delete(ctx context.Context, id string) error { return nil }

func runAuth(t *testing.T, tokens *stubTokenService, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(tokens)(next)(c)
	return c, err
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := &stubTokenService{claims: &domain.TokenClaims{Email: "alice@example.com", UserID: "user-1"}}

	c, err := runAuth(t, tokens, "Bearer some-token")
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if c.Get("email") != "alice@example.com" || c.Get("user_id") != "user-1" {
		t.Fatalf("claims not injected: %v %v", c.Get("email"), c.Get("user_id"))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, &stubTokenService{}, "")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_BadScheme(t *testing.T) {
	_, err := runAuth(t, &stubTokenService{}, "Basic dXNlcjpwYXNz")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_InvalidToken(t *testing.T) {
	_, err := runAuth(t, &stubTokenService{err: domain.ErrTokenInvalid}, "Bearer bad")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_ExpiredToken(t *testing.T) {
	_, err := runAuth(t, &stubTokenService{err: domain.ErrTokenExpired}, "Bearer old")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func runAdminOnly(t *testing.T, users *stubUserDirectory, email string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if email != "" {
		c.Set("email", email)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return AdminOnly(users)(next)(c)
}

func TestAdminOnly_Admin(t *testing.T) {
	users := &stubUserDirectory{user: &domain.User{Email: "root@example.com", IsAdmin: true}}
	if err := runAdminOnly(t, users, "root@example.com"); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
}

func TestAdminOnly_NotAdmin(t *testing.T) {
	// The flag comes from storage, not from claims.
	users := &stubUserDirectory{user: &domain.User{Email: "alice@example.com", IsAdmin: false}}
	err := runAdminOnly(t, users, "alice@example.com")
	assertHTTPError(t, err, http.StatusForbidden)
}

func TestAdminOnly_UnknownPrincipal(t *testing.T) {
	users := &stubUserDirectory{err: domain.ErrUserNotFound}
	err := runAdminOnly(t, users, "ghost@example.com")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAdminOnly_NoClaims(t *testing.T) {
	err := runAdminOnly(t, &stubUserDirectory{}, "")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}
