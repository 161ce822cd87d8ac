package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/todo-api/api"
	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/router"
	"github.com/sahilchouksey/todo-api/utils/cache"
	"github.com/sahilchouksey/todo-api/utils/middleware"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.IsProduction() {
		log.SetLevel(log.LevelWarn)
	}

	store, err := OpenStore(getEnv)
	if err != nil {
		log.Error("Check whether the Postgres is running and the DB_* variables are set")
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize the todos table")
		return err
	}

	// Redis is optional; without it the limiter keeps its counters in memory
	var limiterStorage fiber.Storage
	if getEnv.REDIS_URL != "" && getEnv.RATE_LIMIT_REQUESTS > 0 {
		redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL, "todo-api:limiter:")
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Rate limiting falls back to in-memory counters.", err)
		} else {
			defer redisCache.Close()
			limiterStorage = redisCache
		}
	}

	server := NewServer(getEnv, store, limiterStorage)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received %s", sig)
	}

	if err := server.Shutdown(getEnv.SHUTDOWN_TIMEOUT); err != nil {
		return err
	}
	return <-errCh
}

// OpenStore connects the backend selected by STORE_BACKEND.
func OpenStore(env *config.EnvironmentVariable) (database.Storage, error) {
	switch env.STORE_BACKEND {
	case config.StoreBackendGORM:
		store, err := database.StartGORM(env)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreBackendSQL:
		store, err := database.Start(env.DSN(), env.DB_AUTO_MIGRATE)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", env.STORE_BACKEND)
	}
}

// NewServer builds the API server with middleware and routes attached.
func NewServer(env *config.EnvironmentVariable, store database.Storage, limiterStorage fiber.Storage) *api.APIServer {
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   env.RATE_LIMIT_WINDOW,
		LimiterStorage:    limiterStorage,
	})

	router.SetupRoutes(app, store)

	return server
}
