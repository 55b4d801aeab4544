package dto

import "time"

type SetDurationInput struct {
	Seconds     int
	SessionType string
}

type TimerOutput struct {
	Phase            string
	RemainingSeconds int
	OriginalSeconds  int
	StartedAt        time.Time
	SessionType      string
	Mode             string
	// Failure is set when the last countdown finished but could not be
	// recorded. The session stays on disk until a resume records it.
	Failure error
}

type ResumeOutput struct {
	// Action is one of none, running, paused, completed. Status reports
	// expired instead of completed: nothing has been recorded yet.
	Action          string
	Timer           TimerOutput
	DurationMinutes int
}

type TickOutput struct {
	Timer     TimerOutput
	Completed bool
}
