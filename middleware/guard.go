package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"restaurant-dashboard/models"
	"restaurant-dashboard/session"
)

const LoginPath = "/login"

// DashboardRoot is where a role's landing page lives. Guards always send a
// mismatched caller here instead of rendering a forbidden page.
func DashboardRoot(role string) string {
	if models.IsAdmin(role) {
		return "/admin/stock"
	}
	return "/customer"
}

// RequireAuth redirects to the login page when no token is cached.
func RequireAuth(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store.GetAccessToken() == "" {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole redirects a caller whose cached role does not match to that
// caller's own dashboard root. Assumes RequireAuth already ran. The customer
// check accepts any non-admin role: DashboardRoot sends every such role to
// the customer dashboard, so rejecting one here would redirect forever.
func RequireRole(store *session.Store, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual := store.GetUserRole()
		matches := (role == models.RoleAdmin && models.IsAdmin(actual)) ||
			(role == models.RoleCustomer && !models.IsAdmin(actual))
		if !matches {
			c.Redirect(http.StatusFound, DashboardRoot(actual))
			c.Abort()
			return
		}
		c.Next()
	}
}

// TokenClaims is the subset of JWT claims the session-info endpoint shows.
type TokenClaims struct {
	Subject   string     `json:"subject,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PeekToken decodes the cached bearer token without verifying it; the
// dashboard holds no signing key and only wants expiry and identity for
// display. Any parse failure returns ok=false and is not an error.
func PeekToken(token string) (TokenClaims, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return TokenClaims{}, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, false
	}
	out := TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, true
}
