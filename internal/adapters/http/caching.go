package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.Contains(path, "/boundary"):
			ttl = "public, max-age=60" // Boundaries change while someone edits

		case path == "/v1/zones" || path == "/v1/zones/at" || path == "/v1/zones/in-bounds":
			ttl = "public, max-age=60" // Map queries refresh often

		case strings.HasPrefix(path, "/v1/stats"):
			ttl = "public, max-age=30" // Dashboard snapshot

		case strings.HasPrefix(path, "/v1/tasks") || strings.HasPrefix(path, "/v1/supplies"):
			ttl = "public, max-age=60" // Chore and stock lists move during the day

		case strings.HasPrefix(path, "/v1/service-records"):
			ttl = "public, max-age=600" // History only grows

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300" // 5 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
