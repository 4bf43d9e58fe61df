package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
)

func setupDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	raw, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	raw.SetMaxOpenConns(1)

	_, err = raw.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	return dbmetrics.Wrap(raw, nil, "test")
}

func countItems(t *testing.T, db *dbmetrics.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestTransactionManager_CommitAndRollback(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db, WithoutIsolationLevels())
	ctx := context.Background()

	err := tm.DoSerializable(ctx, func(txCtx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(txCtx))
		_, err := dbmetrics.GetExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('gel')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))

	errBoom := errors.New("boom")
	err = tm.Do(ctx, func(txCtx context.Context) error {
		_, err := dbmetrics.GetExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('acrylic')`)
		require.NoError(t, err)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, countItems(t, db))
}

func TestTransactionManager_NestedCallReusesTx(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db, WithoutIsolationLevels())

	err := tm.Do(context.Background(), func(outer context.Context) error {
		outerTx, _ := dbmetrics.TxFromContext(outer)
		return tm.Do(outer, func(inner context.Context) error {
			innerTx, _ := dbmetrics.TxFromContext(inner)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)
}

func TestTransactionManager_PanicRollsBack(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db, WithoutIsolationLevels())

	assert.Panics(t, func() {
		_ = tm.Do(context.Background(), func(txCtx context.Context) error {
			_, _ = dbmetrics.GetExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('x')`)
			panic("unexpected")
		})
	})
	assert.Equal(t, 0, countItems(t, db))
}

func TestTransactionManager_ConcurrentWritersOnSeparateHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.db")
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_txlock=immediate"

	open := func() *dbmetrics.DB {
		raw, err := sql.Open("sqlite", dsn)
		require.NoError(t, err)
		raw.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = raw.Close() })
		return dbmetrics.Wrap(raw, nil, "test")
	}
	first, second := open(), open()

	ctx := context.Background()
	_, err := first.ExecContext(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	// Каждая транзакция сначала читает, затем пишет, как при создании записи
	start := make(chan struct{})
	var g errgroup.Group
	for _, db := range []*dbmetrics.DB{first, second} {
		tm := NewTransactionManager(db, WithoutIsolationLevels())
		g.Go(func() error {
			<-start
			return tm.DoSerializable(ctx, func(txCtx context.Context) error {
				var n int
				if err := dbmetrics.GetExecutor(txCtx, db).QueryRowContext(txCtx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
					return err
				}
				time.Sleep(20 * time.Millisecond)
				_, err := dbmetrics.GetExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('gel')`)
				return err
			})
		})
	}
	close(start)

	require.NoError(t, g.Wait())
	assert.Equal(t, 2, countItems(t, first))
}
