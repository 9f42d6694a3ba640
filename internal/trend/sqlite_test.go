package trend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/df"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), path, RetryPolicy{MaxRetries: 2, BaseDelay: 10 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "", RetryPolicy{}, zerolog.Nop())
	require.Error(t, err)
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "trend.db"))
	ctx := context.Background()
	view := s.ForHost("web-01")

	_, found, err := view.Load(ctx, "/")
	require.NoError(t, err)
	assert.False(t, found)

	want := df.TrendState{Timestamp: 1700000000.5, UsedMB: 1234.5, RateAcc: -3.25}
	require.NoError(t, view.Save(ctx, "/", want))

	got, found, err := view.Load(ctx, "/")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	// upsert
	want.UsedMB = 2000
	require.NoError(t, view.Save(ctx, "/", want))
	got, _, err = view.Load(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.UsedMB)
}

func TestSQLiteStore_HostsAreIsolated(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "trend.db"))
	ctx := context.Background()

	require.NoError(t, s.ForHost("a").Save(ctx, "/", df.TrendState{UsedMB: 1}))

	_, found, err := s.ForHost("b").Load(ctx, "/")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trend.db")
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	first, err := OpenSQLite(ctx, path, RetryPolicy{}, zerolog.Nop())
	require.NoError(t, err)
	_, err = df.RecordAndGetRate(ctx, first.ForHost("web-01"), "/var", t0, 1000, 24)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	rate, err := df.RecordAndGetRate(ctx, second.ForHost("web-01"), "/var", t0.Add(24*time.Hour), 1240, 24)
	require.NoError(t, err)
	require.True(t, rate.Available)
	assert.InDelta(t, 10.0, rate.MBPerHour, 1e-9)
}

func TestSQLiteStore_Prune(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "trend.db"))
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)

	s.now = func() time.Time { return base }
	require.NoError(t, s.ForHost("h").Save(ctx, "/old", df.TrendState{}))
	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, s.ForHost("h").Save(ctx, "/new", df.TrendState{}))

	removed, err := s.Prune(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, found, _ := s.ForHost("h").Load(ctx, "/old")
	assert.False(t, found)
	_, found, _ = s.ForHost("h").Load(ctx, "/new")
	assert.True(t, found)
}

func TestSQLiteStore_ConcurrentItems(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "trend.db"))
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			view := s.ForHost(fmt.Sprintf("host-%d", i%4))
			for step := 0; step < 3; step++ {
				_, err := df.RecordAndGetRate(ctx, view, fmt.Sprintf("/mnt/%d", i), t0.Add(time.Duration(step)*time.Hour), float64(step*100), 24)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	st, found, err := s.ForHost("host-1").Load(ctx, "/mnt/5")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 200.0, st.UsedMB)
	assert.Equal(t, float64(t0.Add(2*time.Hour).Unix()), st.Timestamp)
}
