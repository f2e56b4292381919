package api

import (
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// GetHealth reports service liveness and the running version.
func (s *APIServer) GetHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}
