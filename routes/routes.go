package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/handlers"
	"restaurant-dashboard/middleware"
	"restaurant-dashboard/models"
	"restaurant-dashboard/session"
	"restaurant-dashboard/statemachine"
)

// Deps is everything the route table needs.
type Deps struct {
	Store    *session.Store
	Auth     *handlers.Auth
	Customer *handlers.Customer
	Admin    *handlers.Admin
	Public   *handlers.Public
}

func SetupRoutes(r *gin.Engine, d Deps) {
	// ── Public routes ──────────────────────────────────────────────
	r.GET("/login", func(c *gin.Context) {
		// already signed in: straight to the role's dashboard
		if d.Store.GetAccessToken() != "" {
			c.Redirect(http.StatusFound, middleware.DashboardRoot(d.Store.GetUserRole()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": "login", "register": "/register"})
	})
	r.POST("/login", d.Auth.Login)
	r.POST("/register", d.Auth.Register)

	pages := r.Group("/api/pages")
	{
		pages.GET("/menu", d.Public.Menu)
		pages.GET("/gallery", d.Public.Gallery)
		pages.GET("/reviews", d.Public.Reviews)
	}
	r.POST("/api/contact", d.Public.Contact)

	r.GET("/api/state-machine", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"lifecycle":      statemachine.Lifecycle(),
			"status_options": statemachine.StatusOptions,
		})
	})

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/")
	auth.Use(middleware.RequireAuth(d.Store))
	{
		auth.POST("/logout", d.Auth.Logout)
		auth.GET("/api/session", d.Auth.SessionInfo)
	}

	// ── Customer dashboard ─────────────────────────────────────────
	customer := r.Group("/customer")
	customer.Use(middleware.RequireAuth(d.Store), middleware.RequireRole(d.Store, models.RoleCustomer))
	{
		customer.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "customer", "tabs": []string{"menu", "orders", "cart"}})
		})
		customer.GET("/menu", d.Customer.Menu)
		customer.GET("/orders", d.Customer.Orders)
		customer.POST("/orders", d.Customer.PlaceOrders)
		customer.GET("/cart", d.Customer.Cart)
		customer.POST("/cart", d.Customer.AddToCart)
		customer.DELETE("/cart/:id", d.Customer.RemoveFromCart)
	}

	// ── Admin dashboard ────────────────────────────────────────────
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(d.Store), middleware.RequireRole(d.Store, models.RoleAdmin))
	{
		admin.GET("/stock", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "admin", "tabs": []string{"stock", "waste", "orders"}})
		})
		admin.GET("/inventory", d.Admin.Inventory)
		admin.POST("/inventory/:id/adjust", d.Admin.AdjustStock)
		admin.GET("/waste", d.Admin.Waste)
		admin.POST("/waste", d.Admin.RecordWaste)
		admin.GET("/orders", d.Admin.Orders)
		admin.POST("/orders/:id/status", d.Admin.UpdateStatus)
	}
}
