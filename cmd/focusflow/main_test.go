package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "focusflow/internal/platform/errors"
)

type cli struct {
	t       *testing.T
	config  string
	dataDir string
}

func newCLI(t *testing.T) cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("mode: achievement\nsession_length: quick-focus\n"), 0o644))
	return cli{t: t, config: cfg, dataDir: filepath.Join(dir, "data")}
}

func (c cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.config, "--data-dir", c.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "focusflow %s", strings.Join(args, " "))
	return out
}

func TestDetachedTimerLifecycle(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	require.Equal(t, "idle\n", c.mustRun("timer", "status"))
	require.Contains(t, c.mustRun("timer", "start", "--seconds", "600", "--detach"), "timer started: custom 10:00")
	require.Contains(t, c.mustRun("timer", "status"), "running: custom")

	_, err := c.run("timer", "start", "--preset", "deep-work", "--detach")
	require.ErrorIs(t, err, apperrors.ErrTimerRunning)

	require.Contains(t, c.mustRun("timer", "pause"), "timer paused")
	require.Contains(t, c.mustRun("timer", "status"), "paused: custom")

	c.mustRun("timer", "stop")
	require.Equal(t, "idle\n", c.mustRun("timer", "status"))
	require.Contains(t, c.mustRun("timer", "resume", "--detach"), "no timer to resume")
}

func TestStartRejectsOutOfRangeCustomDurations(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	for _, args := range [][]string{
		{"--seconds", "-5"},
		{"--seconds", "0"},
		{"--seconds", "43201"},
		{"--duration", "-1m"},
		{"--duration", "500ms"},
	} {
		out, err := c.run(append([]string{"timer", "start", "--detach"}, args...)...)
		require.ErrorIs(t, err, apperrors.ErrInvalidDuration, "timer start %v", args)
		require.NotContains(t, out, "timer started")
	}
	_, err := c.run("timer", "start", "--detach", "--seconds", "60", "--duration", "1m")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	require.Equal(t, "idle\n", c.mustRun("timer", "status"))
}

func TestStatusNeverRecordsExpiredSession(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	c.mustRun("timer", "start", "--seconds", "1", "--detach")
	time.Sleep(1500 * time.Millisecond)

	for i := 0; i < 2; i++ {
		require.Contains(t, c.mustRun("timer", "status"), "finished while away: custom")
	}
	require.Contains(t, c.mustRun("progress", "show"), "sessions: 0")

	require.Contains(t, c.mustRun("timer", "resume", "--detach"), "session finished while away")
	require.Contains(t, c.mustRun("progress", "show"), "sessions: 1")
	require.Equal(t, "idle\n", c.mustRun("timer", "status"))
}

func TestForegroundTimerFailsWhenSessionCannotBeRecorded(t *testing.T) {
	t.Parallel()
	c := newCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Join(c.dataDir, "progress.json"), 0o755))

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := c.run("timer", "start", "--seconds", "1")
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		require.Error(t, r.err)
		require.Contains(t, r.err.Error(), "not recorded")
		require.NotContains(t, r.out, "session complete")
	case <-time.After(10 * time.Second):
		t.Fatal("foreground timer kept running after its session failed to record")
	}
	require.Contains(t, c.mustRun("timer", "status"), "finished while away")
}

func TestProgressCommandsOnFreshDataDir(t *testing.T) {
	t.Parallel()
	c := newCLI(t)

	show := c.mustRun("progress", "show")
	require.Contains(t, show, "sessions: 0")
	require.Contains(t, show, "last session: never")

	history := strings.TrimSpace(c.mustRun("progress", "history", "--days", "3"))
	require.Len(t, strings.Split(history, "\n"), 3)

	require.Contains(t, c.mustRun("progress", "reindex"), "reindexed 0 sessions")

	_, err := c.run("progress", "pull")
	require.ErrorIs(t, err, apperrors.ErrSyncDisabled)
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()
	require.Equal(t, "25:00", formatClock(1500))
	require.Equal(t, "3:00:00", formatClock(10800))
	require.Equal(t, "00:00", formatClock(-3))
	require.Equal(t, "1h 35m", formatMinutes(95))
}
