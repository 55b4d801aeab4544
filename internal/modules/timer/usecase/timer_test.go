package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	progressoutadapter "focusflow/internal/modules/progress/adapter/out"
	progressservice "focusflow/internal/modules/progress/service"
	progressusecase "focusflow/internal/modules/progress/usecase"
	timeroutadapter "focusflow/internal/modules/timer/adapter/out"
	timerdto "focusflow/internal/modules/timer/dto"
	timerservice "focusflow/internal/modules/timer/service"
	"focusflow/internal/modules/timer/usecase"
	apperrors "focusflow/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type fakeID struct{}

func (fakeID) New() string { return "sess-1" }

func TestSixtySecondSessionRecordsOneMinute(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clk := fixedClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := progressoutadapter.NewFileProgressStore(filepath.Join(dir, "progress.json"), nil)
	progress := progressusecase.NewInteractor(progressservice.NewProgressService(progressservice.Deps{
		Clock:    clk,
		IDs:      fakeID{},
		Location: time.UTC,
		Store:    store,
	}))
	ticks := timeroutadapter.NewManualTicker()
	uc := usecase.NewInteractor(timerservice.NewTimerService(
		clk,
		ticks,
		timeroutadapter.NewFileStateStore(filepath.Join(dir, "timer-state.json")),
		timeroutadapter.NewProgressCompletionAdapter(progress),
		"hybrid",
		nil,
	))
	ctx := context.Background()

	before, err := progress.GetProgress(ctx)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}

	set, err := uc.SetDuration(ctx, timerdto.SetDurationInput{Seconds: 60})
	if err != nil {
		t.Fatalf("set duration: %v", err)
	}
	if set.RemainingSeconds != 60 || set.OriginalSeconds != 60 || set.SessionType != "custom" {
		t.Fatalf("unexpected armed timer: %+v", set)
	}
	started, err := uc.Start(ctx)
	if err != nil || started.Phase != "running" || started.StartedAt.IsZero() {
		t.Fatalf("start: %+v %v", started, err)
	}

	completed := 0
	for i := 0; i < 60; i++ {
		out, err := uc.Tick(ctx)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if out.Completed {
			completed++
		}
	}
	if completed != 1 {
		t.Fatalf("expected exactly one completion, got %d", completed)
	}

	after, err := progress.GetProgress(ctx)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if after.TotalSessions-before.TotalSessions != 1 {
		t.Fatalf("expected one more session, got %d -> %d", before.TotalSessions, after.TotalSessions)
	}
	if after.TotalFocusTime-before.TotalFocusTime != 1 {
		t.Fatalf("expected one more focus minute, got %d -> %d", before.TotalFocusTime, after.TotalFocusTime)
	}
	if len(after.RecentSessions) != 1 || after.RecentSessions[0].Duration != 1 || after.RecentSessions[0].Mode != "hybrid" {
		t.Fatalf("expected one 1-minute hybrid session record, got %+v", after.RecentSessions)
	}

	resumed, err := uc.LoadAndResume(ctx)
	if err != nil || resumed.Action != "none" {
		t.Fatalf("nothing should be left to resume: %+v %v", resumed, err)
	}
}

func TestSetPresetAndValidation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	uc := usecase.NewInteractor(timerservice.NewTimerService(
		fixedClock{now: time.Now()},
		timeroutadapter.NewManualTicker(),
		timeroutadapter.NewFileStateStore(filepath.Join(dir, "timer-state.json")),
		nil,
		"zen",
		nil,
	))
	ctx := context.Background()

	out, err := uc.SetPreset(ctx, "90_min")
	if err != nil {
		t.Fatalf("set preset: %v", err)
	}
	if out.OriginalSeconds != 5400 || out.SessionType != "deep-work" || out.Phase != "idle" {
		t.Fatalf("unexpected preset timer: %+v", out)
	}
	if _, err := uc.SetDuration(ctx, timerdto.SetDurationInput{Seconds: 43201}); !errors.Is(err, apperrors.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for 43201s, got %v", err)
	}
	if _, err := uc.SetDuration(ctx, timerdto.SetDurationInput{Seconds: 0}); !errors.Is(err, apperrors.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for 0s, got %v", err)
	}
	if _, err := uc.SetPreset(ctx, "forever"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown preset, got %v", err)
	}

	moded, _ := uc.SetMode(ctx, "achievement")
	if moded.Mode != "achievement" {
		t.Fatalf("expected mode achievement, got %q", moded.Mode)
	}
}
