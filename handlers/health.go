package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/utils/response"
)

func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(c.UserContext()); err != nil {
		return response.ServiceUnavailable(c, "Database is unreachable")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}
