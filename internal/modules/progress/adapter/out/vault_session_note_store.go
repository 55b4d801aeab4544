package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focusflow/internal/modules/progress/domain"
	progressout "focusflow/internal/modules/progress/port/out"
	"focusflow/internal/platform/markdown"
	"focusflow/internal/platform/slug"
)

// SessionNoteMeta is the frontmatter of a session journal note.
type SessionNoteMeta struct {
	SchemaVersion   int       `yaml:"schema_version"`
	ID              string    `yaml:"id"`
	CompletedAt     time.Time `yaml:"completed_at"`
	DurationMinutes int       `yaml:"duration_minutes"`
	Mode            string    `yaml:"mode"`
	SessionType     string    `yaml:"session_type"`
}

type VaultSessionNoteStore struct {
	root string
}

func NewVaultSessionNoteStore(sessionsDir string) progressout.SessionNoteStore {
	return &VaultSessionNoteStore{root: sessionsDir}
}

func (s *VaultSessionNoteStore) Save(_ context.Context, record domain.SessionRecord) (string, error) {
	date := record.Date
	dir := filepath.Join(s.root, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(record.SessionType))
	path := filepath.Join(dir, name)

	meta := SessionNoteMeta{
		SchemaVersion:   domain.SchemaVersion,
		ID:              record.ID,
		CompletedAt:     date,
		DurationMinutes: record.Duration,
		Mode:            string(record.Mode),
		SessionType:     record.SessionType,
	}
	body := fmt.Sprintf("# Focus session %s\n\n- Type: %s\n- Mode: %s\n- Duration: %d minutes\n", date.Format("2006-01-02 15:04"), record.SessionType, record.Mode, record.Duration)
	rendered, err := markdown.Render(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}
