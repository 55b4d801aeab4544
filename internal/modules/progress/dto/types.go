package dto

import "time"

type CompleteInput struct {
	OriginalSeconds int
	SessionType     string
	Mode            string
}

type CompleteOutput struct {
	RecordID        string
	SessionType     string
	DurationMinutes int
	Streak          int
	TotalSessions   int
	NotePath        string
	CompletedAt     time.Time
}

type SessionOutput struct {
	ID          string
	Date        time.Time
	Duration    int
	Mode        string
	SessionType string
}

type ProgressOutput struct {
	TodayMinutes    int
	TotalSessions   int
	Streak          int
	LastSessionDate string
	TotalFocusTime  int
	RecentSessions  []SessionOutput
}

type HistoryInput struct {
	Days int
}

type DayTotalOutput struct {
	Day      string
	Sessions int
	Minutes  int
}

// CompletionEvent is the payload published to the UI layer when a countdown
// reaches zero.
type CompletionEvent struct {
	SessionType     string
	DurationMinutes int
	Mode            string
	CompletedAt     time.Time
}
