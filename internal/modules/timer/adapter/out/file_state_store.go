package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"focusflow/internal/modules/timer/domain"
	timerout "focusflow/internal/modules/timer/port/out"
	apperrors "focusflow/internal/platform/errors"
)

type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) timerout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) SaveState(_ context.Context, state domain.PersistedState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create timer state dir: %w", err)
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write timer state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace timer state: %w", err)
	}
	return nil
}

func (s *FileStateStore) LoadState(_ context.Context) (domain.PersistedState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.PersistedState{}, apperrors.ErrNoTimerState
		}
		return domain.PersistedState{}, fmt.Errorf("read timer state: %w", err)
	}
	state := domain.PersistedState{}
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.PersistedState{}, fmt.Errorf("%w: decode timer state: %v", apperrors.ErrPersistenceRead, err)
	}
	if !state.Valid() {
		return domain.PersistedState{}, fmt.Errorf("%w: timer state out of range", apperrors.ErrPersistenceRead)
	}
	return state, nil
}

func (s *FileStateStore) ClearState(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear timer state: %w", err)
	}
	return nil
}
