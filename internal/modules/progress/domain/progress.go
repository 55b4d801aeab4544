package domain

import (
	"fmt"
	"strings"
	"time"

	"focusflow/internal/platform/clock"
	apperrors "focusflow/internal/platform/errors"
)

const SchemaVersion = 1

type Mode string

const (
	ModeZen         Mode = "zen"
	ModeAchievement Mode = "achievement"
	ModeHybrid      Mode = "hybrid"
)

func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return ModeZen, nil
	case ModeZen, ModeAchievement, ModeHybrid:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unsupported mode %q", apperrors.ErrInvalidInput, raw)
	}
}

// SessionRecord is one entry of the append-only completed-session history.
type SessionRecord struct {
	ID          string    `json:"id,omitempty"`
	Date        time.Time `json:"date"`
	Duration    int       `json:"duration"`
	Mode        Mode      `json:"mode"`
	SessionType string    `json:"sessionType"`
}

// Progress is the cumulative focus record of one user. LastSessionDate is a
// calendar day (YYYY-MM-DD); empty means no session was ever completed.
type Progress struct {
	TodayMinutes      int             `json:"todayMinutes"`
	TotalSessions     int             `json:"totalSessions"`
	Streak            int             `json:"streak"`
	LastSessionDate   string          `json:"lastSessionDate"`
	TotalFocusTime    int             `json:"totalFocusTime"`
	CompletedSessions []SessionRecord `json:"completedSessions"`
}

func Default() Progress {
	return Progress{CompletedSessions: []SessionRecord{}}
}

func (p Progress) Validate() error {
	if p.TodayMinutes < 0 || p.TotalSessions < 0 || p.Streak < 0 || p.TotalFocusTime < 0 {
		return fmt.Errorf("negative counter in progress")
	}
	if p.LastSessionDate != "" {
		if _, err := time.Parse(clock.DayLayout, p.LastSessionDate); err != nil {
			return fmt.Errorf("last session date %q: %w", p.LastSessionDate, err)
		}
	}
	for i, s := range p.CompletedSessions {
		if s.Duration < 0 {
			return fmt.Errorf("completed session %d has negative duration", i)
		}
	}
	return nil
}

// SessionMinutes converts the configured countdown length to whole minutes.
func SessionMinutes(originalSeconds int) int {
	if originalSeconds <= 0 {
		return 0
	}
	return originalSeconds / 60
}

// ApplyCompletion returns p with one completed session folded in. The
// receiver is not modified.
func (p Progress) ApplyCompletion(record SessionRecord, today string) Progress {
	next := p
	next.CompletedSessions = make([]SessionRecord, len(p.CompletedSessions), len(p.CompletedSessions)+1)
	copy(next.CompletedSessions, p.CompletedSessions)

	if p.LastSessionDate != today {
		next.TodayMinutes = 0
	}
	next.TodayMinutes += record.Duration
	next.TotalSessions++
	next.TotalFocusTime += record.Duration
	next.Streak = CalculateStreak(p.LastSessionDate, today, p.Streak)
	next.LastSessionDate = today
	next.CompletedSessions = append(next.CompletedSessions, record)
	return next
}

// ViewAt is the progress as it should be displayed on day today.
func (p Progress) ViewAt(today string) Progress {
	if p.LastSessionDate != today {
		p.TodayMinutes = 0
	}
	return p
}

// CompletionEvent is emitted once per finished countdown.
type CompletionEvent struct {
	SessionType     string
	DurationMinutes int
	Mode            Mode
	CompletedAt     time.Time
}

// DayTotal aggregates completed sessions for one calendar day.
type DayTotal struct {
	Day      string
	Sessions int
	Minutes  int
}
