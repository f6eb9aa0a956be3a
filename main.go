package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/backend"
	"restaurant-dashboard/config"
	"restaurant-dashboard/handlers"
	"restaurant-dashboard/middleware"
	"restaurant-dashboard/routes"
	"restaurant-dashboard/session"
)

func main() {
	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()

	store := session.New(cfg.SessionDB)
	client := backend.New(cfg.BackendOrigin, store)

	auth := handlers.NewAuth(client, store)
	customer := handlers.NewCustomer(client, store)
	admin := handlers.NewAdmin(client)
	public := handlers.NewPublic()

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for local tooling
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Restaurant Dashboard",
			"backend": cfg.BackendOrigin,
		})
	})

	// Landing: send the operator wherever the session says they belong
	r.GET("/", func(c *gin.Context) {
		if store.GetAccessToken() == "" {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.Redirect(http.StatusFound, middleware.DashboardRoot(store.GetUserRole()))
	})

	routes.SetupRoutes(r, routes.Deps{
		Store:    store,
		Auth:     auth,
		Customer: customer,
		Admin:    admin,
		Public:   public,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// background order refresh lives as long as the server
	customer.StartPolling(ctx)
	defer customer.StopPolling()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Printf("Dashboard running on http://localhost:%s (backend %s)", cfg.Port, cfg.BackendOrigin)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}
}
