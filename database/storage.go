package database

import (
	"context"

	"github.com/sahilchouksey/todo-api/model"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck(ctx context.Context) error

	// ListTodos returns every stored todo ordered by id.
	ListTodos(ctx context.Context) ([]model.Todo, error)
	// GetTodo reports found=false with a nil error when no todo has the id.
	GetTodo(ctx context.Context, id int64) (todo model.Todo, found bool, err error)
	// CreateTodo ignores todo.ID and returns the stored row with its assigned id.
	CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	// DeleteTodo is a no-op when no todo has the id.
	DeleteTodo(ctx context.Context, id int64) error
}
