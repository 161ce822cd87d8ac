package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db          *gorm.DB
	autoMigrate bool
}

var _ Storage = (*GORMStore)(nil)

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	store, err := NewGORMStore(postgres.Open(env.DSN()), env.GO_ENV)
	if err != nil {
		log.Errorf("Unable to connect to PostgreSQL with GORM: %v", err)
		return nil, err
	}
	store.autoMigrate = env.DB_AUTO_MIGRATE

	log.Info("Successfully connected to PostgreSQL Database with GORM.")
	return store, nil
}

// NewGORMStore opens a store on any GORM dialector. Migrations run on Init.
func NewGORMStore(dialector gorm.Dialector, goEnv string) (*GORMStore, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	switch goEnv {
	case "production":
		gormLogger = logger.Default.LogMode(logger.Error)
	case "test":
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &GORMStore{db: db, autoMigrate: true}, nil
}

// Init runs the AutoMigrate to create/update the todos table
func (s *GORMStore) Init() error {
	if !s.autoMigrate {
		log.Info("DB_AUTO_MIGRATE=false, skipping AutoMigrate")
		return nil
	}

	log.Info("Running GORM AutoMigrate...")
	if err := s.db.AutoMigrate(&model.Todo{}); err != nil {
		log.Errorf("Error running AutoMigrate: %v", err)
		return err
	}

	log.Info("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Info("Closing GORM connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GORMStore) ListTodos(ctx context.Context) ([]model.Todo, error) {
	todos := []model.Todo{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *GORMStore) GetTodo(ctx context.Context, id int64) (model.Todo, bool, error) {
	return firstTodo(s.db.WithContext(ctx), id)
}

func (s *GORMStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	todo.ID = 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&todo).Error
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *GORMStore) DeleteTodo(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, found, err := firstTodo(tx, id)
		if err != nil || !found {
			return err
		}
		return tx.Delete(&todo).Error
	})
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

func firstTodo(db *gorm.DB, id int64) (model.Todo, bool, error) {
	var todo model.Todo
	err := db.First(&todo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Todo{}, false, nil
	}
	if err != nil {
		return model.Todo{}, false, fmt.Errorf("get todo %d: %w", id, err)
	}
	return todo, true, nil
}
