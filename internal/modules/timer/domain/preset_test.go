package domain_test

import (
	"errors"
	"testing"

	"focusflow/internal/modules/timer/domain"
	apperrors "focusflow/internal/platform/errors"
)

func TestPresetSeconds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in      string
		seconds int
		name    string
	}{
		{"quick-focus", 1500, domain.PresetQuickFocus},
		{"25_min", 1500, domain.PresetQuickFocus},
		{"Deep-Work", 5400, domain.PresetDeepWork},
		{"90_min", 5400, domain.PresetDeepWork},
		{"marathon", 10800, domain.PresetMarathon},
		{"3_plus_hour", 10800, domain.PresetMarathon},
	}
	for _, tc := range cases {
		seconds, name, err := domain.PresetSeconds(tc.in)
		if err != nil {
			t.Fatalf("PresetSeconds(%q): %v", tc.in, err)
		}
		if seconds != tc.seconds || name != tc.name {
			t.Fatalf("PresetSeconds(%q) = %d %q, want %d %q", tc.in, seconds, name, tc.seconds, tc.name)
		}
	}
	if _, _, err := domain.PresetSeconds("custom"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("custom has no fixed length, expected ErrInvalidInput, got %v", err)
	}
}
