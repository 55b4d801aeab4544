package domain

import (
	"time"

	"focusflow/internal/platform/clock"
)

// CalculateStreak returns the streak after a session completed on today.
// A second session on the same day keeps the streak, a session on the day
// after lastSessionDate extends it, anything else starts over at 1.
func CalculateStreak(lastSessionDate, today string, previousStreak int) int {
	if lastSessionDate == "" {
		return 1
	}
	if lastSessionDate == today {
		return previousStreak
	}
	last, err := time.Parse(clock.DayLayout, lastSessionDate)
	if err != nil {
		return 1
	}
	current, err := time.Parse(clock.DayLayout, today)
	if err != nil {
		return 1
	}
	if last.AddDate(0, 0, 1).Equal(current) {
		return previousStreak + 1
	}
	return 1
}
