package out

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/sourcegraph/conc"

	"focusflow/internal/modules/progress/domain"
	progressout "focusflow/internal/modules/progress/port/out"
)

// TieredProgressStore writes locally first and pushes to the remote tier in
// the background. Remote failures are logged and never reach the caller.
type TieredProgressStore struct {
	local   progressout.ProgressStore
	remote  progressout.RemoteSync
	log     hclog.Logger
	pending conc.WaitGroup
}

func NewTieredProgressStore(local progressout.ProgressStore, remote progressout.RemoteSync, logger hclog.Logger) *TieredProgressStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TieredProgressStore{local: local, remote: remote, log: logger}
}

func (s *TieredProgressStore) Load(ctx context.Context) (domain.Progress, error) {
	return s.local.Load(ctx)
}

func (s *TieredProgressStore) Save(ctx context.Context, progress domain.Progress) error {
	if err := s.local.Save(ctx, progress); err != nil {
		return err
	}
	if s.remote == nil {
		return nil
	}
	snapshot := progress
	snapshot.CompletedSessions = append([]domain.SessionRecord(nil), progress.CompletedSessions...)
	pushCtx := context.WithoutCancel(ctx)
	s.pending.Go(func() {
		if err := s.remote.Push(pushCtx, snapshot); err != nil {
			s.log.Warn("remote progress sync failed", "total_sessions", snapshot.TotalSessions, "error", err)
			return
		}
		s.log.Debug("remote progress synced", "total_sessions", snapshot.TotalSessions)
	})
	return nil
}

// Wait blocks until every background push has finished.
func (s *TieredProgressStore) Wait() {
	s.pending.Wait()
}
