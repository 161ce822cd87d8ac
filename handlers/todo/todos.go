package todo

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/model"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	store database.Storage
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(store database.Storage) *TodoHandler {
	return &TodoHandler{store: store}
}

// ListTodos handles GET /api/todos
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	todos, err := h.store.ListTodos(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(todos)
}

// GetTodo handles GET /api/todos/:id
// A missing todo is answered with 200 and a JSON null body.
func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	todo, found, err := h.store.GetTodo(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !found {
		return c.JSON(nil)
	}

	return c.JSON(todo)
}

// CreateTodo handles POST /api/todos
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	var todo model.Todo
	if err := c.BodyParser(&todo); err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	created, err := h.store.CreateTodo(c.UserContext(), todo)
	if err != nil {
		return err
	}

	return c.JSON(created)
}

// DeleteTodo handles DELETE /api/todos/:id
// Deleting a missing todo succeeds the same way as deleting an existing one.
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	if err := h.store.DeleteTodo(c.UserContext(), id); err != nil {
		return err
	}

	c.Status(fiber.StatusOK)
	return nil
}

func todoID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}
