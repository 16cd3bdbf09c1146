package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/utils"
)

const testSecret = "unit-test-secret"

func doAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := JWTAuth(testSecret)(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "ORGANIZER", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, c := doAuth(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if role, _ := c.Get("role").(string); role != "ORGANIZER" {
		t.Errorf("role claim = %q, want ORGANIZER", role)
	}
	if c.Get("user_id") == nil {
		t.Errorf("user_id claim not stored")
	}
}

func TestJWTAuthMissingHeader(t *testing.T) {
	if rec, _ := doAuth(t, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("someone-elses-secret", 7, "ATTENDEE", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec, _ := doAuth(t, "Bearer "+tok.Token); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthGarbageToken(t *testing.T) {
	if rec, _ := doAuth(t, "Bearer not.a.jwt"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
