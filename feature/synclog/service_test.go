package synclog_test

import (
	"context"
	"testing"
	"time"

	"antenna-scraper/core/database"
	"antenna-scraper/core/txn"
	"antenna-scraper/feature/synclog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) *synclog.Service {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return synclog.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())
}

func TestLatestWithoutAnySync(t *testing.T) {
	svc := setupService(t)

	entry, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRecordAndLatest(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	first := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Record(ctx, first, first.Add(10*time.Minute), true))
	require.NoError(t, svc.Record(ctx, second, second.Add(12*time.Minute), false))

	entry, err := svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.False(t, entry.IsSuccessful)
	assert.True(t, entry.SyncStartedAt.Equal(second))
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		start := base.AddDate(0, 0, i)
		require.NoError(t, svc.Record(ctx, start, start.Add(time.Minute), true))
	}

	entries, err := svc.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].SyncStartedAt.After(entries[1].SyncStartedAt))
	assert.True(t, entries[1].SyncStartedAt.After(entries[2].SyncStartedAt))
}
