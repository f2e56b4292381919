package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atnz/at-engine/src/common/utils"
)

type APIServer struct {
	Redis  *redis.Client
	Logger *zap.SugaredLogger
}

func NewServer() *APIServer {
	return &APIServer{
		Redis:  utils.NewRedisClient(),
		Logger: utils.GetLogger(),
	}
}

func RegisterRoutes(app *fiber.App, s *APIServer) {
	app.Get("/health", s.GetHealth)
	app.Get("/stops", s.GetStops)
	app.Get("/stops/:id/board", s.GetBoard)
}
