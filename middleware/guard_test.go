package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/models"
	"restaurant-dashboard/session"
)

func newGuardedRouter(t *testing.T) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := session.New(filepath.Join(t.TempDir(), "session.db"))
	r := gin.New()

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	admin := r.Group("/admin", RequireAuth(store), RequireRole(store, models.RoleAdmin))
	admin.GET("/stock", ok)
	customer := r.Group("/customer", RequireAuth(store), RequireRole(store, models.RoleCustomer))
	customer.GET("", ok)
	return r, store
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	r, _ := newGuardedRouter(t)
	w := get(r, "/admin/stock")
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect = %q, want /login", loc)
	}
}

func TestRoleMismatchRedirectsToOwnDashboard(t *testing.T) {
	r, store := newGuardedRouter(t)
	store.SetAccessToken("tok", "customer")

	w := get(r, "/admin/stock")
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302 (never a forbidden page)", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/customer" {
		t.Fatalf("redirect = %q, want customer's own dashboard", loc)
	}
}

func TestAdminMismatchRedirectsToAdminRoot(t *testing.T) {
	r, store := newGuardedRouter(t)
	store.SetAccessToken("tok", "Admin") // role casing from the backend varies

	w := get(r, "/customer")
	if loc := w.Header().Get("Location"); loc != "/admin/stock" {
		t.Fatalf("redirect = %q, want /admin/stock", loc)
	}
}

func TestUnrecognisedRoleLandsOnCustomerDashboard(t *testing.T) {
	r, store := newGuardedRouter(t)
	// backends may report roles outside the two the dashboard knows; every
	// non-admin role belongs on the customer dashboard
	store.SetAccessToken("tok", "manager")

	if w := get(r, "/customer"); w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 (a redirect here would loop forever)", w.Code)
	}
	w := get(r, "/admin/stock")
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/customer" {
		t.Fatalf("redirect = %q, want /customer", loc)
	}
}

func TestMatchingRolePasses(t *testing.T) {
	r, store := newGuardedRouter(t)
	store.SetAccessToken("tok", "admin")

	if w := get(r, "/admin/stock"); w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
}

func TestPeekTokenHandlesGarbage(t *testing.T) {
	if _, ok := PeekToken("not-a-jwt"); ok {
		t.Fatal("garbage token should not parse")
	}
	if _, ok := PeekToken(""); ok {
		t.Fatal("empty token should not parse")
	}
}
