package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	progressout "focusflow/internal/modules/progress/adapter/out"
	"focusflow/internal/modules/progress/domain"
)

func TestSQLiteHistoryIndexDailyTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	index, err := progressout.NewSQLiteHistoryIndex(filepath.Join(t.TempDir(), "db", "focusflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	records := []struct {
		record domain.SessionRecord
		day    string
	}{
		{domain.SessionRecord{ID: "a", Date: at, Duration: 25, Mode: domain.ModeZen, SessionType: "quick-focus"}, "2024-01-01"},
		{domain.SessionRecord{ID: "b", Date: at.Add(time.Hour), Duration: 90, Mode: domain.ModeZen, SessionType: "deep-work"}, "2024-01-01"},
		{domain.SessionRecord{ID: "c", Date: at.AddDate(0, 0, 2), Duration: 180, Mode: domain.ModeHybrid, SessionType: "marathon"}, "2024-01-03"},
		{domain.SessionRecord{ID: "d", Date: at.AddDate(0, 0, 9), Duration: 5, Mode: domain.ModeZen, SessionType: "custom"}, "2024-01-10"},
	}
	for _, r := range records {
		require.NoError(t, index.Record(ctx, r.record, r.day))
	}
	// Recording the same id again must not double count.
	require.NoError(t, index.Record(ctx, records[0].record, records[0].day))

	totals, err := index.Daily(ctx, "2024-01-01", "2024-01-05")
	require.NoError(t, err)
	require.Equal(t, []domain.DayTotal{
		{Day: "2024-01-01", Sessions: 2, Minutes: 115},
		{Day: "2024-01-03", Sessions: 1, Minutes: 180},
	}, totals)

	require.NoError(t, index.Reset(ctx))
	totals, err = index.Daily(ctx, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	require.Empty(t, totals)
}

func TestSQLiteHistoryIndexReopenKeepsRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "focusflow.db")

	first, err := progressout.NewSQLiteHistoryIndex(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, domain.SessionRecord{ID: "x", Date: time.Now(), Duration: 1, Mode: domain.ModeZen, SessionType: "custom"}, "2024-02-02"))
	require.NoError(t, first.Close())

	second, err := progressout.NewSQLiteHistoryIndex(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	totals, err := second.Daily(ctx, "2024-02-02", "2024-02-02")
	require.NoError(t, err)
	require.Len(t, totals, 1)
	require.Equal(t, 1, totals[0].Minutes)
}
