package out

import (
	"context"

	"focusflow/internal/modules/progress/domain"
)

// ProgressStore is durable before Save returns for the local tier.
type ProgressStore interface {
	Load(ctx context.Context) (domain.Progress, error)
	Save(ctx context.Context, progress domain.Progress) error
}

type RemoteSync interface {
	Push(ctx context.Context, progress domain.Progress) error
	Pull(ctx context.Context) (domain.Progress, error)
}

type SessionNoteStore interface {
	Save(ctx context.Context, record domain.SessionRecord) (string, error)
}

type HistoryIndex interface {
	Reset(ctx context.Context) error
	Record(ctx context.Context, record domain.SessionRecord, day string) error
	// Daily returns totals for days in [fromDay, toDay], oldest first.
	Daily(ctx context.Context, fromDay, toDay string) ([]domain.DayTotal, error)
}

type EventPublisher interface {
	Publish(event domain.CompletionEvent)
}
