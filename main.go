package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load a local .env if present; the deployed environment sets real vars
	_ = godotenv.Load()

	// Build the immutable process configuration. Missing upstream secrets
	// are fatal: the proxy cannot do anything without them.
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := newApp(cfg)

	// Create new Echo object
	e := echo.New()

	// Add basic middleware to log all requests
	e.Use(middleware.Logger())

	// Configure elastic apm logging
	initAPM(e)

	// Sets CORS headers to allow all origins, but restrict HTTP method type
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	// Middleware to provide more control over response status for APM transactions
	// This must go after the Elastic APM middleware
	e.Use(filterError)

	// Adds a heartbeat handler
	e.GET("/heartbeat", heartbeat)

	// Kiosk API routes
	api := e.Group("/api")
	api.POST("/app_opened", app.appOpened)
	api.POST("/ha-track", app.haTrack)
	api.POST("/auth", app.auth)
	api.POST("/scheduled", app.scheduled)
	api.POST("/search", app.search)
	api.POST("/condition_codes", app.conditionCodes)
	api.POST("/checkin", app.checkIn)
	api.POST("/upload_signature", app.uploadSignature)

	// Everything else falls through to the SPA responder
	e.GET("/*", app.serveStatic)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
