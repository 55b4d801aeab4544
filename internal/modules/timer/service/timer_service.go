package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"focusflow/internal/modules/timer/domain"
	timerout "focusflow/internal/modules/timer/port/out"
	"focusflow/internal/platform/clock"
	apperrors "focusflow/internal/platform/errors"
)

// TimerService owns the single countdown of the process. Every method is
// safe to call from the tick goroutine and from the UI concurrently.
//
// Several processes may tick the same persisted countdown (a detached
// `timer start` and a TUI, say). The one that finds the state file still
// holding its countdown records the completion; the others notice the file
// was cleared or replaced and stand down.
type TimerService struct {
	mu     sync.Mutex
	clock  clock.Clock
	ticks  timerout.TickSource
	states timerout.StateStore
	sink   timerout.CompletionSink
	log    hclog.Logger
	mode   string
	timer  domain.Timer

	// owned is the running state this process last wrote; nil when it has
	// none on disk.
	owned *domain.PersistedState
	// gen invalidates tick callbacks handed to earlier runs.
	gen uint64
	// failure is the error of the last completion the sink refused.
	failure error
}

func NewTimerService(clk clock.Clock, ticks timerout.TickSource, states timerout.StateStore, sink timerout.CompletionSink, mode string, logger hclog.Logger) *TimerService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TimerService{
		clock:  clk,
		ticks:  ticks,
		states: states,
		sink:   sink,
		log:    logger,
		mode:   mode,
		timer:  domain.Timer{Phase: domain.PhaseIdle},
	}
}

// ResumeResult reports what LoadAndResume did, or what it would do when
// returned by Inspect.
type ResumeResult struct {
	Action  domain.ResumeAction
	Timer   domain.Timer
	Receipt domain.CompletionReceipt
}

func (s *TimerService) Snapshot() domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyTimer()
}

// Failure returns why the last finished countdown could not be recorded, or
// nil. Its state stays on disk for the next LoadAndResume.
func (s *TimerService) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

func (s *TimerService) SetMode(mode string) domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.timer.Mode = mode
	return s.copyTimer()
}

func (s *TimerService) SetDuration(ctx context.Context, seconds int, sessionType string) (domain.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.timer.SetDuration(seconds, sessionType); err != nil {
		return s.copyTimer(), err
	}
	s.timer.Mode = s.mode
	s.failure = nil
	s.persist(ctx)
	return s.copyTimer(), nil
}

// Start begins or continues the countdown. It reports false when the timer
// was already running or had nothing to count.
func (s *TimerService) Start(ctx context.Context) (domain.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timer.Start(s.clock.Now()) {
		return s.copyTimer(), false
	}
	s.failure = nil
	s.persist(ctx)
	s.startTicks()
	s.log.Debug("timer started", "remaining", s.timer.RemainingSeconds, "session_type", s.timer.SessionType)
	return s.copyTimer(), true
}

func (s *TimerService) Pause(ctx context.Context) (domain.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timer.Pause() {
		return s.copyTimer(), false
	}
	s.stopTicks()
	s.persist(ctx)
	s.log.Debug("timer paused", "remaining", s.timer.RemainingSeconds)
	return s.copyTimer(), true
}

// Stop abandons the countdown and forgets the persisted state, so a later
// LoadAndResume finds nothing.
func (s *TimerService) Stop(ctx context.Context) (domain.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTicks()
	s.timer.Stop()
	s.owned = nil
	s.failure = nil
	if err := s.states.ClearState(ctx); err != nil {
		return s.copyTimer(), err
	}
	s.log.Debug("timer stopped")
	return s.copyTimer(), nil
}

// Tick advances the countdown by one second. The returned receipt is set
// only when this tick completed and recorded the session; a non-nil error
// means the countdown finished but the sink refused it.
func (s *TimerService) Tick(ctx context.Context) (domain.Timer, *domain.CompletionReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick(ctx)
}

func (s *TimerService) tick(ctx context.Context) (domain.Timer, *domain.CompletionReceipt, error) {
	if s.timer.Phase != domain.PhaseRunning {
		return s.copyTimer(), nil, nil
	}
	if s.lostCountdown(ctx) {
		s.stopTicks()
		s.timer.Stop()
		s.owned = nil
		s.log.Info("countdown was finished or changed by another process")
		return s.copyTimer(), nil, nil
	}
	if !s.timer.Tick() {
		s.persist(ctx)
		return s.copyTimer(), nil, nil
	}
	s.stopTicks()
	receipt, err := s.complete(ctx, false)
	return s.copyTimer(), receipt, err
}

// Inspect reports what LoadAndResume would do right now without starting
// ticks, touching the state file or recording anything.
func (s *TimerService) Inspect(ctx context.Context) (ResumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer.Phase == domain.PhaseRunning {
		return ResumeResult{Action: domain.ResumeRunning, Timer: s.copyTimer()}, nil
	}

	state, err := s.states.LoadState(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoTimerState), errors.Is(err, apperrors.ErrPersistenceRead):
		return ResumeResult{Action: domain.ResumeNone, Timer: s.copyTimer()}, nil
	case err != nil:
		return ResumeResult{}, err
	}
	plan := domain.PlanResume(state, s.clock.Now())
	if plan.Action == domain.ResumeNone {
		return ResumeResult{Action: domain.ResumeNone, Timer: s.copyTimer()}, nil
	}
	return ResumeResult{Action: plan.Action, Timer: s.restored(state, plan)}, nil
}

// LoadAndResume reconstructs the countdown from persisted state using the
// wall clock. A countdown that expired while nobody was watching completes
// immediately with its full configured length; if the sink refuses it the
// error is returned and the state is kept for the next attempt.
func (s *TimerService) LoadAndResume(ctx context.Context) (ResumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer.Phase == domain.PhaseRunning {
		return ResumeResult{Action: domain.ResumeRunning, Timer: s.copyTimer()}, nil
	}

	state, err := s.states.LoadState(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoTimerState):
		return ResumeResult{Action: domain.ResumeNone, Timer: s.copyTimer()}, nil
	case errors.Is(err, apperrors.ErrPersistenceRead):
		s.log.Warn("discarding unreadable timer state", "error", err)
		s.clearState(ctx)
		return ResumeResult{Action: domain.ResumeNone, Timer: s.copyTimer()}, nil
	case err != nil:
		return ResumeResult{}, err
	}

	plan := domain.PlanResume(state, s.clock.Now())
	switch plan.Action {
	case domain.ResumeRunning:
		s.timer = s.restored(state, plan)
		s.persist(ctx)
		s.startTicks()
		s.log.Info("timer resumed", "remaining", plan.Remaining, "elapsed", plan.ElapsedSeconds)
		return ResumeResult{Action: domain.ResumeRunning, Timer: s.copyTimer()}, nil
	case domain.ResumePaused:
		s.timer = s.restored(state, plan)
		return ResumeResult{Action: domain.ResumePaused, Timer: s.copyTimer()}, nil
	case domain.ResumeComplete:
		s.timer = s.restored(state, plan)
		s.log.Info("timer expired while away", "original", state.OriginalTime, "elapsed", plan.ElapsedSeconds)
		receipt, err := s.complete(ctx, true)
		if err != nil {
			return ResumeResult{Action: domain.ResumeComplete, Timer: s.copyTimer()}, err
		}
		return ResumeResult{Action: domain.ResumeComplete, Timer: s.copyTimer(), Receipt: *receipt}, nil
	default:
		s.log.Warn("discarding invalid timer state", "state", state)
		s.clearState(ctx)
		return ResumeResult{Action: domain.ResumeNone, Timer: s.copyTimer()}, nil
	}
}

// restored builds the timer a plan describes. The persisted mode wins over
// the current preference: it is the mode the session was started in.
func (s *TimerService) restored(state domain.PersistedState, plan domain.ResumePlan) domain.Timer {
	mode := state.Mode
	if mode == "" {
		mode = s.mode
	}
	switch plan.Action {
	case domain.ResumeRunning:
		return domain.Restore(state.OriginalTime, plan.Remaining, state.StartTime, state.SessionType, mode)
	case domain.ResumePaused:
		return domain.Timer{
			Phase:            domain.PhasePaused,
			RemainingSeconds: plan.Remaining,
			OriginalSeconds:  state.OriginalTime,
			SessionType:      state.SessionType,
			Mode:             mode,
		}
	default:
		return domain.Timer{
			Phase:           domain.PhaseStopped,
			OriginalSeconds: state.OriginalTime,
			SessionType:     state.SessionType,
			Mode:            mode,
		}
	}
}

// lostCountdown reports whether the state file no longer holds the running
// countdown this process wrote. Unreadable files are not evidence either
// way and leave ownership alone.
func (s *TimerService) lostCountdown(ctx context.Context) bool {
	if s.owned == nil {
		return false
	}
	state, err := s.states.LoadState(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoTimerState):
		return true
	case err != nil:
		s.log.Warn("recheck timer state failed", "error", err)
		return false
	}
	return !s.owned.SameCountdown(state)
}

func (s *TimerService) startTicks() {
	s.gen++
	gen := s.gen
	s.ticks.Start(func() { s.onTick(gen) })
}

func (s *TimerService) stopTicks() {
	s.gen++
	s.ticks.Stop()
}

// onTick drops callbacks from a run that has since been stopped; a wall
// ticker may deliver one after Stop returned.
func (s *TimerService) onTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.tick(context.Background())
}

// complete hands the finished countdown to the sink once. Persisted state is
// kept when the sink fails so the session can be recorded on the next
// resume instead of being lost.
func (s *TimerService) complete(ctx context.Context, late bool) (*domain.CompletionReceipt, error) {
	mode := s.timer.Mode
	if mode == "" {
		mode = s.mode
	}
	completion := domain.Completion{
		OriginalSeconds: s.timer.OriginalSeconds,
		SessionType:     s.timer.SessionType,
		Mode:            mode,
		Late:            late,
	}
	s.timer.Reset()
	s.owned = nil

	receipt, err := s.sink.SessionCompleted(ctx, completion)
	if err != nil {
		s.log.Error("record completed session failed", "session_type", completion.SessionType, "error", err)
		s.failure = fmt.Errorf("record completed session: %w", err)
		return nil, s.failure
	}
	s.failure = nil
	s.clearState(ctx)
	return &receipt, nil
}

func (s *TimerService) persist(ctx context.Context) {
	state, ok := domain.Snapshot(s.timer)
	if !ok {
		s.clearState(ctx)
		return
	}
	if !state.IsRunning {
		s.owned = nil
	}
	if err := s.states.SaveState(ctx, state); err != nil {
		s.log.Warn("persist timer state failed", "error", err)
		return
	}
	if state.IsRunning {
		s.owned = &state
	}
}

func (s *TimerService) clearState(ctx context.Context) {
	s.owned = nil
	if err := s.states.ClearState(ctx); err != nil {
		s.log.Warn("clear timer state failed", "error", err)
	}
}

func (s *TimerService) copyTimer() domain.Timer {
	t := s.timer
	if t.StartEpochMillis != nil {
		v := *t.StartEpochMillis
		t.StartEpochMillis = &v
	}
	return t
}
