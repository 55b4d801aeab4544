package timer

import (
	"strings"
	"testing"

	progressdto "focusflow/internal/modules/progress/dto"
	timerdto "focusflow/internal/modules/timer/dto"
)

func TestFormatClock(t *testing.T) {
	t.Parallel()
	cases := map[int]string{
		0:     "00:00",
		-5:    "00:00",
		59:    "00:59",
		1500:  "25:00",
		5400:  "1:30:00",
		10801: "3:00:01",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFractionIsClamped(t *testing.T) {
	t.Parallel()
	if got := Fraction(timerdto.TimerOutput{}); got != 0 {
		t.Fatalf("unarmed timer fraction = %v", got)
	}
	if got := Fraction(timerdto.TimerOutput{OriginalSeconds: 100, RemainingSeconds: 25}); got != 0.75 {
		t.Fatalf("fraction = %v, want 0.75", got)
	}
	if got := Fraction(timerdto.TimerOutput{OriginalSeconds: 100, RemainingSeconds: 150}); got != 0 {
		t.Fatalf("fraction = %v, want 0", got)
	}
}

func TestZenModeHidesStats(t *testing.T) {
	t.Parallel()
	m := New("zen")
	m.SetSummary(progressdto.ProgressOutput{Streak: 4, TodayMinutes: 50, TotalSessions: 9})
	if line := m.statsLine(); line != "" {
		t.Fatalf("zen mode must not show stats, got %q", line)
	}
	m.SetMode("achievement")
	if line := m.statsLine(); !strings.Contains(line, "4") {
		t.Fatalf("achievement mode should show the streak, got %q", line)
	}
}
