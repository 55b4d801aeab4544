package domain

import (
	"fmt"
	"strings"

	apperrors "focusflow/internal/platform/errors"
)

const (
	PresetQuickFocus = "quick-focus"
	PresetDeepWork   = "deep-work"
	PresetMarathon   = "marathon"
	PresetCustom     = "custom"
)

var presetSeconds = map[string]int{
	PresetQuickFocus: 25 * 60,
	PresetDeepWork:   90 * 60,
	PresetMarathon:   3 * 60 * 60,
}

// PresetSeconds maps a named session length to its duration. The onboarding
// answers 25_min, 90_min and 3_plus_hour are accepted as aliases.
func PresetSeconds(name string) (int, string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "25_min":
		key = PresetQuickFocus
	case "90_min":
		key = PresetDeepWork
	case "3_plus_hour":
		key = PresetMarathon
	}
	seconds, ok := presetSeconds[key]
	if !ok {
		return 0, "", fmt.Errorf("%w: unknown preset %q", apperrors.ErrInvalidInput, name)
	}
	return seconds, key, nil
}
