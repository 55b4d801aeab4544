package out

import (
	"context"

	"focusflow/internal/modules/timer/domain"
)

type StateStore interface {
	SaveState(ctx context.Context, state domain.PersistedState) error
	LoadState(ctx context.Context) (domain.PersistedState, error)
	ClearState(ctx context.Context) error
}

// TickSource calls fn about once per second between Start and Stop. Start
// on an active source does nothing.
type TickSource interface {
	Start(fn func())
	Stop()
}

type CompletionSink interface {
	SessionCompleted(ctx context.Context, completion domain.Completion) (domain.CompletionReceipt, error)
}
