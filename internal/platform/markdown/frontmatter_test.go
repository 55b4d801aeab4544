package markdown_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"focusflow/internal/platform/markdown"
)

type meta struct {
	ID      string `yaml:"id"`
	Minutes int    `yaml:"minutes"`
}

func TestRenderThenParse(t *testing.T) {
	t.Parallel()
	note, err := markdown.Render(meta{ID: "s1", Minutes: 25}, "# Focus\n")
	require.NoError(t, err)
	require.Equal(t, "---\nid: s1\nminutes: 25\n---\n\n# Focus\n", string(note))

	var got meta
	body, err := markdown.Parse(note, &got)
	require.NoError(t, err)
	require.Equal(t, meta{ID: "s1", Minutes: 25}, got)
	require.Equal(t, "\n# Focus\n", body)
}

func TestParseWithoutFrontmatter(t *testing.T) {
	t.Parallel()
	var got meta
	body, err := markdown.Parse([]byte("plain"), &got)
	require.True(t, errors.Is(err, markdown.ErrNoFrontmatter))
	require.Equal(t, "plain", body)

	_, err = markdown.Parse([]byte("---\nid: s1\n"), &got)
	require.Error(t, err)
}
