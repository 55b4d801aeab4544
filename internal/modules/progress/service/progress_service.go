package service

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"focusflow/internal/modules/progress/domain"
	progressout "focusflow/internal/modules/progress/port/out"
	"focusflow/internal/platform/clock"
	apperrors "focusflow/internal/platform/errors"
	"focusflow/internal/platform/id"
	"focusflow/internal/platform/tx"
)

// Deps groups the driven ports of ProgressService. Notes, Index, Remote and
// Events are optional.
type Deps struct {
	Clock    clock.Clock
	IDs      id.Generator
	Location *time.Location
	Store    progressout.ProgressStore
	Notes    progressout.SessionNoteStore
	Index    progressout.HistoryIndex
	Remote   progressout.RemoteSync
	Events   progressout.EventPublisher
	Tx       tx.Manager
	Logger   hclog.Logger
}

type ProgressService struct {
	clock  clock.Clock
	ids    id.Generator
	loc    *time.Location
	store  progressout.ProgressStore
	notes  progressout.SessionNoteStore
	index  progressout.HistoryIndex
	remote progressout.RemoteSync
	events progressout.EventPublisher
	tx     tx.Manager
	log    hclog.Logger
}

func NewProgressService(deps Deps) *ProgressService {
	s := &ProgressService{
		clock:  deps.Clock,
		ids:    deps.IDs,
		loc:    deps.Location,
		store:  deps.Store,
		notes:  deps.Notes,
		index:  deps.Index,
		remote: deps.Remote,
		events: deps.Events,
		tx:     deps.Tx,
		log:    deps.Logger,
	}
	if s.clock == nil {
		s.clock = clock.SystemClock{}
	}
	if s.ids == nil {
		s.ids = id.UUID{}
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.tx == nil {
		s.tx = tx.NewSerial()
	}
	if s.log == nil {
		s.log = hclog.NewNullLogger()
	}
	return s
}

// Completed is the result of recording one finished countdown.
type Completed struct {
	Record   domain.SessionRecord
	Progress domain.Progress
	NotePath string
}

// Complete folds one finished session into the stored progress. The local
// write must succeed; the journal note, the history index and the event are
// best-effort and only logged on failure.
func (s *ProgressService) Complete(ctx context.Context, originalSeconds int, sessionType string, mode domain.Mode) (Completed, error) {
	if originalSeconds <= 0 {
		return Completed{}, fmt.Errorf("%w: original seconds must be positive, got %d", apperrors.ErrInvalidDuration, originalSeconds)
	}
	now := s.clock.Now()
	today := clock.Day(now, s.loc)
	record := domain.SessionRecord{
		ID:          s.ids.New(),
		Date:        now,
		Duration:    domain.SessionMinutes(originalSeconds),
		Mode:        mode,
		SessionType: sessionType,
	}

	var updated domain.Progress
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		updated = current.ApplyCompletion(record, today)
		if err := s.store.Save(ctx, updated); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return Completed{}, err
	}

	out := Completed{Record: record, Progress: updated}
	if s.notes != nil {
		path, err := s.notes.Save(ctx, record)
		if err != nil {
			s.log.Warn("write session note failed", "session_id", record.ID, "error", err)
		}
		out.NotePath = path
	}
	if s.index != nil {
		if err := s.index.Record(ctx, record, today); err != nil {
			s.log.Warn("index completed session failed", "session_id", record.ID, "error", err)
		}
	}
	if s.events != nil {
		s.events.Publish(domain.CompletionEvent{
			SessionType:     record.SessionType,
			DurationMinutes: record.Duration,
			Mode:            record.Mode,
			CompletedAt:     record.Date,
		})
	}
	s.log.Info("session completed",
		"session_type", record.SessionType,
		"minutes", record.Duration,
		"streak", updated.Streak,
		"total_sessions", updated.TotalSessions)
	return out, nil
}

// Current returns the stored progress as seen today.
func (s *ProgressService) Current(ctx context.Context) (domain.Progress, error) {
	p, err := s.store.Load(ctx)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	return p.ViewAt(clock.Day(s.clock.Now(), s.loc)), nil
}

// History returns per-day totals for the last days calendar days including
// today. Days without sessions are filled with zeros.
func (s *ProgressService) History(ctx context.Context, days int) ([]domain.DayTotal, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", apperrors.ErrInvalidInput)
	}
	if s.index == nil {
		return nil, fmt.Errorf("history index is not configured")
	}
	now := s.clock.Now().In(s.loc)
	from := clock.Day(now.AddDate(0, 0, -(days-1)), s.loc)
	to := clock.Day(now, s.loc)
	totals, err := s.index.Daily(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]domain.DayTotal, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t
	}
	out := make([]domain.DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := clock.Day(now.AddDate(0, 0, -i), s.loc)
		t, ok := byDay[day]
		if !ok {
			t = domain.DayTotal{Day: day}
		}
		out = append(out, t)
	}
	return out, nil
}

// Pull restores progress from the remote tier when it knows about more
// completed sessions than the local copy. It reports whether local state
// was replaced.
func (s *ProgressService) Pull(ctx context.Context) (domain.Progress, bool, error) {
	if s.remote == nil {
		return domain.Progress{}, false, apperrors.ErrSyncDisabled
	}
	remote, err := s.remote.Pull(ctx)
	if err != nil {
		return domain.Progress{}, false, err
	}
	var (
		result   domain.Progress
		replaced bool
	)
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		local, err := s.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		result = local
		if remote.TotalSessions <= local.TotalSessions {
			return nil
		}
		if err := remote.Validate(); err != nil {
			return fmt.Errorf("%w: remote progress: %v", apperrors.ErrSyncFailure, err)
		}
		if err := s.store.Save(ctx, remote); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		result = remote
		replaced = true
		return nil
	})
	if err != nil {
		return domain.Progress{}, false, err
	}
	if replaced {
		s.log.Info("progress restored from remote", "total_sessions", result.TotalSessions)
		if _, err := s.Reindex(ctx); err != nil {
			s.log.Warn("reindex after pull failed", "error", err)
		}
	}
	return result.ViewAt(clock.Day(s.clock.Now(), s.loc)), replaced, nil
}

// Reindex rebuilds the history index from the stored session history.
func (s *ProgressService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("history index is not configured")
	}
	p, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load progress: %w", err)
	}
	if err := s.index.Reset(ctx); err != nil {
		return 0, err
	}
	for i, record := range p.CompletedSessions {
		if record.ID == "" {
			record.ID = fmt.Sprintf("legacy-%d", i)
		}
		if err := s.index.Record(ctx, record, clock.Day(record.Date, s.loc)); err != nil {
			return 0, err
		}
	}
	return len(p.CompletedSessions), nil
}
