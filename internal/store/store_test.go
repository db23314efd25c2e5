package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"policyexplorer/internal/reform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "reforms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub := reform.NewSubmission(
		reform.Edit{ID: "basic_rate", Value: 0.21},
		reform.Edit{ID: "baseline_personal_allowance", Value: 12000},
	)
	id, err := s.Save(ctx, "  Raise basic rate ", "uk", sub)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Raise basic rate", got.Name)
	assert.Equal(t, "uk", got.Country)
	assert.True(t, got.EditsBaseline)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, []reform.Edit{
		{ID: "basic_rate", Value: 0.21},
		{ID: "baseline_personal_allowance", Value: float64(12000)},
	}, got.Submission.Edits())
}

func TestSaveRequiresName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Save(context.Background(), " ", "uk", reform.NewSubmission())
	assert.Error(t, err)
}

func TestSaveNilSubmission(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.Save(ctx, "empty", "uk", nil)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, got.Submission.Len())
	assert.False(t, got.EditsBaseline)
}

func TestListFiltersAndOrders(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "first", "uk", reform.NewSubmission())
	require.NoError(t, err)
	second, err := s.Save(ctx, "second", "uk", reform.NewSubmission())
	require.NoError(t, err)
	_, err = s.Save(ctx, "other", "us", reform.NewSubmission())
	require.NoError(t, err)

	uk, err := s.List(ctx, "uk")
	require.NoError(t, err)
	require.Len(t, uk, 2)
	assert.Equal(t, second, uk[0].ID)
	assert.Equal(t, first, uk[1].ID)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.List(ctx, "fr")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "gone soon", "uk", reform.NewSubmission())
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestReopenKeepsReforms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reforms.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.Save(ctx, "kept", "uk", reform.NewSubmission(reform.Edit{ID: "x", Value: true}))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	v, ok := got.Submission.Get("x")
	assert.True(t, ok)
	assert.Equal(t, true, v)
	assert.Equal(t, path, s.Path())
}

func TestMigrationAddsColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE reforms (id TEXT PRIMARY KEY, name TEXT NOT NULL, country TEXT NOT NULL, submission TEXT NOT NULL, created_at INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO reforms VALUES ('old', 'legacy', 'uk', '{"a":1}', 0)`)
	require.NoError(t, err)
	require.False(t, columnExists(db, "reforms", "edits_baseline"))
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, columnExists(s.db, "reforms", "edits_baseline"))
	got, err := s.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.Name)
	assert.False(t, got.EditsBaseline)
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	assert.True(t, tableExists(s.db, "reforms"))
	assert.False(t, tableExists(s.db, "missing"))
}
