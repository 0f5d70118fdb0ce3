package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db := Open(filepath.Join(t.TempDir(), "ttscore.db"), zerolog.Nop())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectIsLazy(t *testing.T) {
	db := newTestDB(t)
	assert.False(t, db.IsConnected())

	_, err := db.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.True(t, db.IsConnected())
}

func TestConcurrentConnectSharesHandle(t *testing.T) {
	db := newTestDB(t)

	const callers = 20
	handles := make([]*sql.DB, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = db.Connect(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, handles[0], handles[i])
	}
}

func TestExecuteAndQueryArePositional(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.Execute(ctx, `CREATE TABLE things (id INTEGER, name TEXT, active BOOLEAN, note TEXT)`)
	require.NoError(t, err)

	n, err := db.Execute(ctx, `INSERT INTO things VALUES (?,?,?,?)`, 7, "seven", true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := db.Query(ctx, `SELECT name, id, active, note FROM things WHERE id = ?`, 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "seven", rows[0].String(0))
	assert.Equal(t, 7, rows[0].Int(1))
	assert.True(t, rows[0].Bool(2))
	assert.True(t, rows[0].IsNull(3))
}

func TestQueryReturnsEmptySlice(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.Execute(ctx, `CREATE TABLE things (id INTEGER)`)
	require.NoError(t, err)

	rows, err := db.Query(ctx, `SELECT id FROM things`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMalformedStatementIsStorageError(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Execute(context.Background(), `INSERT INTO missing VALUES (1)`)
	require.Error(t, err)
	assert.True(t, IsStorageError(err))

	_, err = db.Query(context.Background(), `SELEC nothing`)
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
}

func TestUserVersionRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	v, err := db.UserVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, db.SetUserVersion(ctx, 5))

	v, err = db.UserVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestRowCoercion(t *testing.T) {
	row := Row{int64(1), "2", []byte("3"), 4.0, false, nil}

	assert.Equal(t, 1, row.Int(0))
	assert.Equal(t, 2, row.Int(1))
	assert.Equal(t, 3, row.Int(2))
	assert.Equal(t, 4, row.Int(3))
	assert.False(t, row.Bool(4))
	assert.Equal(t, "", row.String(5))
	assert.Equal(t, "1", row.String(0))
	assert.Equal(t, 0, row.Int(42))
}
