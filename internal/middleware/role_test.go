package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	mw := RequireRole("ORGANIZER", "ADMIN")
	for _, role := range []string{"ORGANIZER", "ADMIN"} {
		if rec := runWithRole(t, mw, role); rec.Code != http.StatusOK {
			t.Errorf("role %s: status = %d, want 200", role, rec.Code)
		}
	}
}

func TestRequireRoleRejects(t *testing.T) {
	mw := RequireRole("ORGANIZER")
	cases := []struct {
		name string
		role interface{}
	}{
		{"wrong role", "ATTENDEE"},
		{"missing role", nil},
		{"non-string role", 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := runWithRole(t, mw, tc.role); rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}
