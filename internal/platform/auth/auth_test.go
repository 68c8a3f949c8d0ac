package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runAdminOnly(t *testing.T, cfg Config, setup func(req *http.Request)) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	return AdminOnly(cfg)(handler)(c)
}

func TestAdminOnly_DevModeAdmitsAll(t *testing.T) {
	err := runAdminOnly(t, Config{DevMode: true}, nil)
	if err != nil {
		t.Errorf("unexpected error in dev mode: %v", err)
	}
}

func TestAdminOnly_StaticKey(t *testing.T) {
	cfg := Config{AdminAPIKey: "secret"}

	if err := runAdminOnly(t, cfg, func(req *http.Request) {
		req.Header.Set(AdminKeyHeader, "secret")
	}); err != nil {
		t.Errorf("unexpected error for valid key: %v", err)
	}

	err := runAdminOnly(t, cfg, func(req *http.Request) {
		req.Header.Set(AdminKeyHeader, "wrong")
	})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for wrong key, got %v", err)
	}
}

func TestAdminOnly_MissingCredential(t *testing.T) {
	err := runAdminOnly(t, Config{AdminAPIKey: "secret"}, nil)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing credential, got %v", err)
	}
}

func TestAdminOnly_JWT(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret"}

	token, err := SignAdminToken("test-secret", "ops")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if err := runAdminOnly(t, cfg, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}); err != nil {
		t.Errorf("unexpected error for valid token: %v", err)
	}

	err = runAdminOnly(t, cfg, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %v", err)
	}
}
