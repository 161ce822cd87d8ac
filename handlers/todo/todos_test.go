package todo_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/api"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/model"
	"github.com/sahilchouksey/todo-api/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestApp(t *testing.T, store database.Storage) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: api.ErrorHandler})
	router.SetupRoutes(app, store)
	return app
}

func newSQLiteStore(t *testing.T) database.Storage {
	t.Helper()

	store, err := database.NewGORMStore(sqlite.Open(filepath.Join(t.TempDir(), "todos.db")), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init())
	return store
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(b)
}

func TestTodoLifecycle(t *testing.T) {
	app := newTestApp(t, newSQLiteStore(t))

	status, body := do(t, app, http.MethodPost, "/api/todos", `{"title":"Buy milk"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk"}`, body)

	status, body = do(t, app, http.MethodGet, "/api/todos/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk"}`, body)

	status, body = do(t, app, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)

	status, body = do(t, app, http.MethodGet, "/api/todos/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", body)
}

func TestListTodos(t *testing.T) {
	app := newTestApp(t, newSQLiteStore(t))

	status, body := do(t, app, http.MethodGet, "/api/todos", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	do(t, app, http.MethodPost, "/api/todos", `{"title":"one"}`)
	do(t, app, http.MethodPost, "/api/todos", `{"title":"two","completed":true}`)
	do(t, app, http.MethodPost, "/api/todos", `{"title":"three"}`)
	do(t, app, http.MethodDelete, "/api/todos/2", "")

	status, body = do(t, app, http.MethodGet, "/api/todos", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"title":"one"},{"id":3,"title":"three"}]`, body)
}

func TestCreateTodo(t *testing.T) {
	app := newTestApp(t, newSQLiteStore(t))

	t.Run("ignores client id", func(t *testing.T) {
		status, body := do(t, app, http.MethodPost, "/api/todos", `{"id":77,"title":"a","completed":true}`)
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"id":1,"title":"a","completed":true}`, body)
	})

	t.Run("ids increase", func(t *testing.T) {
		_, body := do(t, app, http.MethodPost, "/api/todos", `{"title":"b"}`)
		assert.JSONEq(t, `{"id":2,"title":"b"}`, body)
	})

	t.Run("malformed json", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/todos", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"c"}`))
		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	})
}

func TestDeleteMissingTodo(t *testing.T) {
	app := newTestApp(t, newSQLiteStore(t))

	status, body := do(t, app, http.MethodDelete, "/api/todos/404", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestNonIntegerID(t *testing.T) {
	app := newTestApp(t, newSQLiteStore(t))

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		status, _ := do(t, app, method, "/api/todos/abc", "")
		assert.Equal(t, http.StatusNotFound, status, method)
	}
}

type brokenStore struct {
	database.Storage
	err error
}

func (s brokenStore) ListTodos(context.Context) ([]model.Todo, error) { return nil, s.err }
func (s brokenStore) GetTodo(context.Context, int64) (model.Todo, bool, error) {
	return model.Todo{}, false, s.err
}
func (s brokenStore) CreateTodo(context.Context, model.Todo) (model.Todo, error) {
	return model.Todo{}, s.err
}
func (s brokenStore) DeleteTodo(context.Context, int64) error { return s.err }

func TestStoreFaultsBecomeServerErrors(t *testing.T) {
	app := newTestApp(t, brokenStore{err: errors.New("connection refused")})

	tests := map[string]struct {
		method string
		path   string
		body   string
	}{
		"list":   {method: http.MethodGet, path: "/api/todos"},
		"get":    {method: http.MethodGet, path: "/api/todos/1"},
		"create": {method: http.MethodPost, path: "/api/todos", body: `{"title":"x"}`},
		"delete": {method: http.MethodDelete, path: "/api/todos/1"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.Equal(t, "connection refused", body)
		})
	}
}
