package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "todo-api",
			ErrorHandler: ErrorHandler,
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Infof("Starting API Server, listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *APIServer) Shutdown(timeout time.Duration) error {
	log.Info("Shutting down API Server")
	return s.app.ShutdownWithTimeout(timeout)
}

// ErrorHandler logs unexpected errors and then renders every error with Fiber's default handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) || fiberErr.Code >= fiber.StatusInternalServerError {
		log.Errorf("%s %s [%v]: %v", c.Method(), c.Path(), c.Locals(requestid.ConfigDefault.ContextKey), err)
	}
	return fiber.DefaultErrorHandler(c, err)
}
