package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (name TEXT NOT NULL);`)
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items;`).Scan(&n))
	return n
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	insert := func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items(name) VALUES ('a');`)
		return err
	}

	t.Run("commits on success", func(t *testing.T) {
		db := newTxTestDB(t)

		require.NoError(t, withTx(ctx, db, insert))
		assert.Equal(t, 1, countItems(t, db))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := newTxTestDB(t)
		boom := errors.New("boom")

		err := withTx(ctx, db, func(tx *sql.Tx) error {
			require.NoError(t, insert(tx))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, countItems(t, db))
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db := newTxTestDB(t)

		assert.PanicsWithValue(t, "boom", func() {
			_ = withTx(ctx, db, func(tx *sql.Tx) error {
				require.NoError(t, insert(tx))
				panic("boom")
			})
		})
		assert.Equal(t, 0, countItems(t, db))
	})
}
