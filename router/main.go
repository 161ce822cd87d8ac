package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/handlers"
	todo_handlers "github.com/sahilchouksey/todo-api/handlers/todo"
	"github.com/sahilchouksey/todo-api/utils"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	todoHandler := todo_handlers.NewTodoHandler(store)

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	api := app.Group("/api")

	// Non-integer ids fall through to Fiber's 404
	todos := api.Group("/todos")
	todos.Get("/", todoHandler.ListTodos)
	todos.Get("/:id<int>", todoHandler.GetTodo)
	todos.Post("/", todoHandler.CreateTodo)
	todos.Delete("/:id<int>", todoHandler.DeleteTodo)
}
