package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/atnz/at-engine/src/common/engine"
	"github.com/atnz/at-engine/src/common/types"
)

// GetStops serves the cached stop directory, optionally filtered by
// transport mode (?mode=train|bus|ferry).
func (s *APIServer) GetStops(c *fiber.Ctx) error {
	body, err := s.Redis.Get(c.Context(), engine.StopsDirectoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return c.JSON([]types.Stop{})
	}
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Redis error",
			Message: "Failed to retrieve stop directory",
			Stack:   &errStr,
		})
	}

	var stops []types.Stop
	if err := json.Unmarshal(body, &stops); err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Data error",
			Message: "Failed to decode stop directory",
			Stack:   &errStr,
		})
	}

	if mode := c.Query("mode"); mode != "" {
		stops = types.FilterByMode(stops, types.TransportMode(mode))
	}

	return c.JSON(stops)
}

// GetBoard serves the last board view a monitor published for a stop.
func (s *APIServer) GetBoard(c *fiber.Ctx) error {
	stopID := c.Params("id")

	body, err := s.Redis.Get(c.Context(), engine.BoardKey(stopID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "No board published for this stop",
		})
	}
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Redis error",
			Message: "Failed to retrieve board",
			Stack:   &errStr,
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
