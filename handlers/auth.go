package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/backend"
	"restaurant-dashboard/middleware"
	"restaurant-dashboard/models"
	"restaurant-dashboard/session"
)

// Auth serves login, registration, logout and session inspection.
type Auth struct {
	Client *backend.Client
	Store  *session.Store
}

func NewAuth(client *backend.Client, store *session.Store) *Auth {
	return &Auth{Client: client, Store: store}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Login authenticates against the role-appropriate backend endpoint and
// answers with the dashboard the caller should land on.
func (h *Auth) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	result, err := h.Client.Login(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		backendFailed(c, err)
		return
	}

	// customers get their username attached to order payloads later
	if !models.IsAdmin(result.Role) {
		h.Store.SetCustomerUsername(req.Username)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"role":     result.Role,
		"token":    maskToken(result.Token),
		"redirect": middleware.DashboardRoot(result.Role),
	})
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Age      any    `json:"age"`
	Contact  string `json:"contact" binding:"required"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required"`
}

// Register creates a customer account. The optional age arrives as either
// a number or a string and is coerced before the backend sees it.
func (h *Auth) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	payload := backend.RegisterRequest{
		Username: req.Username,
		Name:     req.Name,
		Contact:  req.Contact,
		Address:  req.Address,
		Password: req.Password,
	}
	if age, ok := coerceAge(req.Age); ok {
		payload.Age = &age
	}

	res, err := h.Client.RegisterCustomer(c.Request.Context(), payload)
	if err != nil {
		backendFailed(c, err)
		return
	}

	// remember the username so the first order after sign-in is attributed
	h.Store.SetCustomerUsername(req.Username)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful, please sign in",
		"id":       res.ID,
		"redirect": middleware.LoginPath,
	})
}

// Logout notifies the backend best-effort and clears the cached session.
// Requests already in flight with the old token are left alone.
func (h *Auth) Logout(c *gin.Context) {
	h.Client.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": middleware.LoginPath})
}

// SessionInfo reports the cached auth state with the token masked, plus an
// unverified peek at the token's claims for expiry display.
func (h *Auth) SessionInfo(c *gin.Context) {
	token := h.Store.GetAccessToken()
	info := gin.H{
		"authenticated":     token != "",
		"token":             maskToken(token),
		"role":              h.Store.GetUserRole(),
		"customer_username": h.Store.GetCustomerUsername(),
	}
	if claims, ok := middleware.PeekToken(token); ok {
		info["claims"] = claims
	}
	c.JSON(http.StatusOK, info)
}

// maskToken shows at most a fixed 20-char prefix. A token short enough to
// fit inside that prefix is hidden entirely.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 20 {
		return "..."
	}
	return token[:20] + "..."
}

func coerceAge(v any) (int, bool) {
	switch a := v.(type) {
	case float64:
		return int(a), true
	case string:
		n, err := strconv.Atoi(a)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
