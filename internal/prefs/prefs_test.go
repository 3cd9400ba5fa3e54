package prefs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory(zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func exerciseStore(t *testing.T, s store) {
	t.Helper()
	_, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("theme", "dark"))
	require.NoError(t, s.Set("theme", "light"))
	v, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	require.NoError(t, s.Delete("theme"))
	require.NoError(t, s.Delete("theme"))
	_, ok, err = s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, &Memory{})

	seeded := NewMemory(map[string]string{"theme": "dark"})
	v, ok, _ := seeded.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestVisitorStore(t *testing.T) {
	exerciseStore(t, testDB(t).Visitor("v1"))
}

func TestVisitorStoresArePartitioned(t *testing.T) {
	db := testDB(t)
	a, b := db.Visitor("a"), db.Visitor("b")
	require.NoError(t, a.Set("theme", "dark"))

	_, ok, err := b.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set("theme", "light"))
	require.NoError(t, db.Visitor("c").Set("theme", "dark"))

	counts, err := db.CountValues(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{{Value: "dark", Visitors: 2}, {Value: "light", Visitors: 1}}, counts)

	n, err := db.ForgetVisitor(context.Background(), "a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, ok, _ = a.Get("theme")
	assert.False(t, ok)
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "folio.db")
	db, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.Visitor("v").Set("theme", "dark"))
	require.NoError(t, db.Close())

	db, err = Open(path, nil)
	require.NoError(t, err)
	defer db.Close()
	v, ok, err := db.Visitor("v").Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
	assert.Equal(t, path, db.Path())
}

func TestStatsAndCleanup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	visits := []struct {
		ip string
		at time.Time
	}{
		{"aaaa", now.Add(-time.Hour)},
		{"aaaa", now.Add(-2 * time.Hour)},
		{"bbbb", now.Add(-3 * 24 * time.Hour)},
		{"cccc", now.Add(-400 * 24 * time.Hour)},
	}
	for _, v := range visits {
		require.NoError(t, db.RecordVisit(ctx, v.ip, "test-agent", "/", v.at))
	}
	require.NoError(t, db.Visitor("x").Set("theme", "dark"))

	stats, err := db.Stats(ctx, now, "theme")
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalVisitors)
	assert.EqualValues(t, 3, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	assert.Equal(t, []ValueCount{{Value: "dark", Visitors: 1}}, stats.Themes)
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "aaaa", stats.RecentVisitors[0].HashedIP)

	removed, err := db.Cleanup(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestHasherIsStableAndSalted(t *testing.T) {
	h1, err := NewHasher()
	require.NoError(t, err)
	h2, err := NewHasher()
	require.NoError(t, err)

	assert.Len(t, h1.Hash("203.0.113.7"), 16)
	assert.Equal(t, h1.Hash("203.0.113.7"), h1.Hash("203.0.113.7"))
	assert.NotEqual(t, h1.Hash("203.0.113.7"), h2.Hash("203.0.113.7"))
}
