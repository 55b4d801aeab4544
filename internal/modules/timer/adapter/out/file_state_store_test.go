package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	timerout "focusflow/internal/modules/timer/adapter/out"
	"focusflow/internal/modules/timer/domain"
	apperrors "focusflow/internal/platform/errors"
)

func TestFileStateStoreRoundTripAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "timer-state.json")
	store := timerout.NewFileStateStore(path)

	_, err := store.LoadState(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoTimerState)

	want := domain.PersistedState{IsRunning: true, CurrentTime: 900, OriginalTime: 1500, StartTime: 1_700_000_000_000, SessionType: "quick-focus", Mode: "zen"}
	require.NoError(t, store.SaveState(ctx, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"isRunning":true,"currentTime":900,"originalTime":1500,"startTime":1700000000000,"sessionType":"quick-focus","mode":"zen"}`, string(raw))

	got, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, store.ClearState(ctx))
	require.NoError(t, store.ClearState(ctx), "clearing twice is fine")
	_, err = store.LoadState(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoTimerState)
}

func TestFileStateStoreRejectsCorruptState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{"), 0o644))
	_, err := timerout.NewFileStateStore(garbage).LoadState(ctx)
	require.ErrorIs(t, err, apperrors.ErrPersistenceRead)

	outOfRange := filepath.Join(dir, "range.json")
	require.NoError(t, os.WriteFile(outOfRange, []byte(`{"isRunning":true,"currentTime":5,"originalTime":99999,"startTime":1}`), 0o644))
	_, err = timerout.NewFileStateStore(outOfRange).LoadState(ctx)
	require.ErrorIs(t, err, apperrors.ErrPersistenceRead)
}
