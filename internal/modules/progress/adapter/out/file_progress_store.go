package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"focusflow/internal/modules/progress/domain"
	progressout "focusflow/internal/modules/progress/port/out"
	apperrors "focusflow/internal/platform/errors"
)

type FileProgressStore struct {
	path string
	log  hclog.Logger
}

func NewFileProgressStore(path string, logger hclog.Logger) progressout.ProgressStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileProgressStore{path: path, log: logger}
}

// Load returns defaults when nothing was saved yet. A corrupt file is moved
// aside and treated as absent.
func (s *FileProgressStore) Load(_ context.Context) (domain.Progress, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Default(), nil
		}
		return domain.Progress{}, fmt.Errorf("read progress: %w", err)
	}
	progress := domain.Default()
	if err := json.Unmarshal(payload, &progress); err != nil {
		s.quarantine(err)
		return domain.Default(), nil
	}
	if err := progress.Validate(); err != nil {
		s.quarantine(err)
		return domain.Default(), nil
	}
	if progress.CompletedSessions == nil {
		progress.CompletedSessions = []domain.SessionRecord{}
	}
	return progress, nil
}

func (s *FileProgressStore) quarantine(cause error) {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		s.log.Error("progress file unreadable", "path", s.path, "error", fmt.Errorf("%w: %v", apperrors.ErrPersistenceRead, cause), "rename_error", err)
		return
	}
	s.log.Error("progress file unreadable, moved aside", "path", s.path, "moved_to", aside, "error", fmt.Errorf("%w: %v", apperrors.ErrPersistenceRead, cause))
}

// Save writes to a temp file and renames it over the target so a crash never
// leaves a truncated progress file behind.
func (s *FileProgressStore) Save(_ context.Context, progress domain.Progress) error {
	return writeJSONAtomic(s.path, progress)
}

func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
