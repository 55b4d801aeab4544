package domain

import (
	"fmt"
	"time"

	apperrors "focusflow/internal/platform/errors"
)

const (
	MinDurationSeconds = 1
	MaxDurationSeconds = 12 * 60 * 60
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseStopped Phase = "stopped"
)

// Timer is the countdown state machine. It has no clock and no side effects;
// callers feed it the start instant and one Tick per elapsed second.
type Timer struct {
	Phase            Phase
	RemainingSeconds int
	OriginalSeconds  int
	// StartEpochMillis is the instant the current run started. Set only
	// while Running.
	StartEpochMillis *int64
	SessionType      string
	Mode             string

	remainingAtStart int
}

func ValidateDuration(seconds int) error {
	if seconds < MinDurationSeconds || seconds > MaxDurationSeconds {
		return fmt.Errorf("%w: %d seconds is outside [%d, %d]", apperrors.ErrInvalidDuration, seconds, MinDurationSeconds, MaxDurationSeconds)
	}
	return nil
}

// SetDuration arms the timer. A paused countdown is replaced.
func (t *Timer) SetDuration(seconds int, sessionType string) error {
	if err := ValidateDuration(seconds); err != nil {
		return err
	}
	if t.Phase == PhaseRunning {
		return apperrors.ErrTimerRunning
	}
	t.Phase = PhaseIdle
	t.OriginalSeconds = seconds
	t.RemainingSeconds = seconds
	t.StartEpochMillis = nil
	t.SessionType = sessionType
	t.remainingAtStart = 0
	return nil
}

// Start reports whether the timer transitioned to Running. Starting a running
// timer or one with nothing left to count is a no-op.
func (t *Timer) Start(now time.Time) bool {
	if t.Phase == PhaseRunning || t.RemainingSeconds <= 0 {
		return false
	}
	started := now.UnixMilli()
	t.Phase = PhaseRunning
	t.StartEpochMillis = &started
	t.remainingAtStart = t.RemainingSeconds
	return true
}

// Tick advances a running countdown by one second and reports whether this
// tick completed it. Ticks outside Running are ignored, so a tick delivered
// after Pause or Stop has no effect.
func (t *Timer) Tick() bool {
	if t.Phase != PhaseRunning {
		return false
	}
	t.RemainingSeconds--
	if t.RemainingSeconds > 0 {
		return false
	}
	t.RemainingSeconds = 0
	t.Phase = PhaseStopped
	t.StartEpochMillis = nil
	return true
}

func (t *Timer) Pause() bool {
	if t.Phase != PhaseRunning {
		return false
	}
	t.Phase = PhasePaused
	t.StartEpochMillis = nil
	return true
}

// Stop abandons the countdown. Nothing is recorded.
func (t *Timer) Stop() {
	t.Phase = PhaseIdle
	t.RemainingSeconds = 0
	t.OriginalSeconds = 0
	t.StartEpochMillis = nil
	t.remainingAtStart = 0
}

// Reset returns a completed timer to Idle.
func (t *Timer) Reset() {
	if t.Phase == PhaseStopped {
		t.Stop()
	}
}

// EffectiveStartMillis is the instant a single uninterrupted run of
// OriginalSeconds would have started to end where this run ends. It folds
// earlier runs (before a pause) into the wall-clock resume formula.
func (t Timer) EffectiveStartMillis() int64 {
	if t.StartEpochMillis == nil {
		return 0
	}
	consumed := int64(t.OriginalSeconds - t.remainingAtStart)
	return *t.StartEpochMillis - consumed*1000
}

// Restore rebuilds a running timer from an effective start.
func Restore(original, remaining int, effectiveStartMillis int64, sessionType, mode string) Timer {
	start := effectiveStartMillis
	return Timer{
		Phase:            PhaseRunning,
		RemainingSeconds: remaining,
		OriginalSeconds:  original,
		StartEpochMillis: &start,
		SessionType:      sessionType,
		Mode:             mode,
		remainingAtStart: original,
	}
}

// Completion describes a finished countdown handed to the progress side.
type Completion struct {
	OriginalSeconds int
	SessionType     string
	Mode            string
	Late            bool
}

type CompletionReceipt struct {
	DurationMinutes int
	Streak          int
}
