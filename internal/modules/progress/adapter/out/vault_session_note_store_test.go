package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	progressout "focusflow/internal/modules/progress/adapter/out"
	"focusflow/internal/modules/progress/domain"
	"focusflow/internal/platform/markdown"
)

func TestVaultSessionNoteStoreWritesFrontmatter(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := progressout.NewVaultSessionNoteStore(root)
	at := time.Date(2024, 7, 8, 14, 5, 6, 0, time.UTC)

	path, err := store.Save(context.Background(), domain.SessionRecord{
		ID: "rec-1", Date: at, Duration: 90, Mode: domain.ModeAchievement, SessionType: "deep-work",
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "2024", "07", "08", "140506-deep-work.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var meta progressout.SessionNoteMeta
	body, err := markdown.Parse(raw, &meta)
	require.NoError(t, err)
	require.Equal(t, domain.SchemaVersion, meta.SchemaVersion)
	require.Equal(t, "rec-1", meta.ID)
	require.True(t, meta.CompletedAt.Equal(at))
	require.Equal(t, 90, meta.DurationMinutes)
	require.Equal(t, "achievement", meta.Mode)
	require.Equal(t, "deep-work", meta.SessionType)
	require.Contains(t, body, "Duration: 90 minutes")
}
