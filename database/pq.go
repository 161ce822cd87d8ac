package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	_ "github.com/lib/pq"
	"github.com/sahilchouksey/todo-api/model"
)

// PostgreSQLStore talks to PostgreSQL through database/sql and lib/pq with hand-written queries.
type PostgreSQLStore struct {
	db          *sql.DB
	autoMigrate bool
}

var _ Storage = (*PostgreSQLStore)(nil)

func Start(dsn string, autoMigrate bool) (*PostgreSQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Errorf("Unable to Start PostgreSQL Database: %v", err)
		return nil, err
	}

	log.Info("Successfully connected to PostgreSQL Database.")
	return &PostgreSQLStore{
		db:          db,
		autoMigrate: autoMigrate,
	}, nil
}

const createTodoTable = `
	CREATE TABLE IF NOT EXISTS todos (
		id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
		title TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	);
`

func (s *PostgreSQLStore) Init() error {
	if !s.autoMigrate {
		log.Info("DB_AUTO_MIGRATE=false, skipping table bootstrap")
		return nil
	}

	log.Info("Initializing PostgreSQL Database.")
	_, err := s.db.Exec(createTodoTable)
	return err
}

func (s *PostgreSQLStore) Close() error {
	log.Info("Closing PostgreSQL Database.")
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgreSQLStore) ListTodos(ctx context.Context) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, COALESCE(title, ''), completed FROM todos ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanIntoTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("list todos: %w", err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (s *PostgreSQLStore) GetTodo(ctx context.Context, id int64) (model.Todo, bool, error) {
	return selectTodo(ctx, s.db, id, "")
}

func (s *PostgreSQLStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`INSERT INTO todos(title, completed) VALUES($1, $2) RETURNING id;`,
			todo.Title, todo.Completed,
		).Scan(&todo.ID)
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *PostgreSQLStore) DeleteTodo(ctx context.Context, todoId int64) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		_, found, err := selectTodo(ctx, tx, todoId, " FOR UPDATE")
		if err != nil || !found {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM todos WHERE id=$1;`, todoId)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", todoId, err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func selectTodo(ctx context.Context, q queryer, id int64, lock string) (model.Todo, bool, error) {
	row := q.QueryRowContext(ctx, `SELECT id, COALESCE(title, ''), completed FROM todos WHERE id=$1`+lock+`;`, id)

	todo, err := scanIntoTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, false, nil
	}
	if err != nil {
		return model.Todo{}, false, fmt.Errorf("get todo %d: %w", id, err)
	}
	return *todo, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIntoTodo(row scanner) (*model.Todo, error) {
	todo := new(model.Todo)
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Completed,
	)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// withTx runs fn in a transaction, committing on success and rolling back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
