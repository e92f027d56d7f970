package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// /v1/pastures is the pre-rename zone listing kept for old mobile
	// builds; it sunsets end of 2026.
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/pastures",
			SunsetDate:  time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/zones",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")

	// Zones (static paths before :id)
	v1.Get("/zones", timeout.NewWithContext(ListZonesHandler(deps), 15*time.Second))
	v1.Get("/zones/at", timeout.NewWithContext(ZoneAtHandler(deps), 15*time.Second))
	v1.Get("/zones/in-bounds", timeout.NewWithContext(ZonesInBoundsHandler(deps), 15*time.Second))
	v1.Post("/zones", timeout.NewWithContext(CreateZoneHandler(deps), 15*time.Second))
	v1.Get("/zones/:id", timeout.NewWithContext(GetZoneHandler(deps), 15*time.Second))
	v1.Put("/zones/:id", timeout.NewWithContext(UpdateZoneHandler(deps), 15*time.Second))
	v1.Delete("/zones/:id", timeout.NewWithContext(DeleteZoneHandler(deps), 15*time.Second))
	v1.Get("/zones/:id/boundary", timeout.NewWithContext(ZoneBoundaryHandler(deps), 15*time.Second))
	v1.Get("/zones/:id/herds", timeout.NewWithContext(ZoneHerdsHandler(deps), 15*time.Second))
	v1.Get("/pastures", timeout.NewWithContext(ListZonesHandler(deps), 15*time.Second))

	// Herds
	v1.Get("/herds", timeout.NewWithContext(ListHerdsHandler(deps), 15*time.Second))
	v1.Post("/herds", timeout.NewWithContext(CreateHerdHandler(deps), 15*time.Second))
	v1.Get("/herds/:id", timeout.NewWithContext(GetHerdHandler(deps), 15*time.Second))
	v1.Put("/herds/:id", timeout.NewWithContext(UpdateHerdHandler(deps), 15*time.Second))
	v1.Delete("/herds/:id", timeout.NewWithContext(DeleteHerdHandler(deps), 15*time.Second))
	v1.Get("/herds/:id/animals", timeout.NewWithContext(HerdAnimalsHandler(deps), 15*time.Second))
	v1.Post("/herds/:id/move", timeout.NewWithContext(MoveHerdHandler(deps), 15*time.Second))

	// Animals
	v1.Get("/animals", timeout.NewWithContext(ListAnimalsHandler(deps), 15*time.Second))
	v1.Post("/animals", timeout.NewWithContext(CreateAnimalHandler(deps), 15*time.Second))
	v1.Post("/animals/import", timeout.NewWithContext(ImportAnimalsHandler(deps), 60*time.Second))
	v1.Get("/animals/tag/:tag", timeout.NewWithContext(AnimalByTagHandler(deps), 15*time.Second))
	v1.Get("/animals/:id", timeout.NewWithContext(GetAnimalHandler(deps), 15*time.Second))
	v1.Put("/animals/:id", timeout.NewWithContext(UpdateAnimalHandler(deps), 15*time.Second))
	v1.Delete("/animals/:id", timeout.NewWithContext(DeleteAnimalHandler(deps), 15*time.Second))

	// Supplies
	v1.Get("/supplies", timeout.NewWithContext(ListSuppliesHandler(deps), 15*time.Second))
	v1.Post("/supplies", timeout.NewWithContext(CreateSupplyHandler(deps), 15*time.Second))
	v1.Get("/supplies/:id", timeout.NewWithContext(GetSupplyHandler(deps), 15*time.Second))
	v1.Put("/supplies/:id", timeout.NewWithContext(UpdateSupplyHandler(deps), 15*time.Second))
	v1.Delete("/supplies/:id", timeout.NewWithContext(DeleteSupplyHandler(deps), 15*time.Second))
	v1.Post("/supplies/:id/adjust", timeout.NewWithContext(AdjustSupplyHandler(deps), 15*time.Second))

	// Service records
	v1.Get("/service-records", timeout.NewWithContext(ListServiceRecordsHandler(deps), 15*time.Second))
	v1.Post("/service-records", timeout.NewWithContext(CreateServiceRecordHandler(deps), 15*time.Second))
	v1.Get("/service-records/:id", timeout.NewWithContext(GetServiceRecordHandler(deps), 15*time.Second))
	v1.Delete("/service-records/:id", timeout.NewWithContext(DeleteServiceRecordHandler(deps), 15*time.Second))

	// Tasks
	v1.Get("/tasks", timeout.NewWithContext(ListTasksHandler(deps), 15*time.Second))
	v1.Post("/tasks", timeout.NewWithContext(CreateTaskHandler(deps), 15*time.Second))
	v1.Get("/tasks/:id", timeout.NewWithContext(GetTaskHandler(deps), 15*time.Second))
	v1.Put("/tasks/:id", timeout.NewWithContext(UpdateTaskHandler(deps), 15*time.Second))
	v1.Delete("/tasks/:id", timeout.NewWithContext(DeleteTaskHandler(deps), 15*time.Second))
	v1.Post("/tasks/:id/complete", timeout.NewWithContext(CompleteTaskHandler(deps), 15*time.Second))
	v1.Post("/tasks/:id/cancel", timeout.NewWithContext(CancelTaskHandler(deps), 15*time.Second))

	// Dashboard
	v1.Get("/stats", timeout.NewWithContext(RanchStatsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// Boundary editor sessions (one per connection)
	app.Use("/v1/editor/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/v1/editor/ws", websocket.New(EditorSocketHandler(deps)))

	// Event relay
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
