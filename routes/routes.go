package routes

import (
	"bakery/handlers"
	"bakery/metrics"
	"bakery/middleware"

	"github.com/gofiber/fiber/v2"
)

// Options toggles the optional parts of the route table.
type Options struct {
	// JWTSecret protects /predict and /api/v1 when non-empty.
	JWTSecret string
	// WithDB registers the database ping route.
	WithDB bool
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler, opts Options) {
	// --- Service Routes ---
	app.Get("/healthz", h.HandleHealthz)
	app.Get("/version", h.HandleVersion)
	app.Get("/metrics", metrics.MetricsHandler())
	if opts.WithDB {
		app.Get("/db", h.HandleDBPing)
	}

	var guard []fiber.Handler
	if opts.JWTSecret != "" {
		guard = append(guard, middleware.JWTMiddleware([]byte(opts.JWTSecret)))
	}

	// Unversioned path kept for existing clients.
	app.Post("/predict", append(guard, h.HandlePredict)...)

	api := app.Group("/api/v1", guard...)

	// --- Forecast Routes ---
	api.Post("/predict", h.HandlePredict)
	api.Get("/forecast/:product", h.HandleGetModelForecast)
	api.Get("/seasonality/:product", h.HandleGetSeasonality)

	// --- Data Routes ---
	api.Get("/data/health", h.HandleGetDataHealth)
}
