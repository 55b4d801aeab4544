package domain

import "time"

// PersistedState is the on-disk shape of a running or paused timer.
type PersistedState struct {
	IsRunning    bool   `json:"isRunning"`
	CurrentTime  int    `json:"currentTime"`
	OriginalTime int    `json:"originalTime"`
	StartTime    int64  `json:"startTime"`
	SessionType  string `json:"sessionType"`
	Mode         string `json:"mode,omitempty"`
}

func (s PersistedState) Valid() bool {
	if s.OriginalTime < MinDurationSeconds || s.OriginalTime > MaxDurationSeconds {
		return false
	}
	if s.CurrentTime < 0 || s.CurrentTime > s.OriginalTime {
		return false
	}
	if s.IsRunning && s.StartTime <= 0 {
		return false
	}
	return true
}

// Snapshot returns what should be persisted for t, and false when there is
// nothing worth persisting.
func Snapshot(t Timer) (PersistedState, bool) {
	switch t.Phase {
	case PhaseRunning:
		return PersistedState{
			IsRunning:    true,
			CurrentTime:  t.RemainingSeconds,
			OriginalTime: t.OriginalSeconds,
			StartTime:    t.EffectiveStartMillis(),
			SessionType:  t.SessionType,
			Mode:         t.Mode,
		}, true
	case PhasePaused:
		return PersistedState{
			CurrentTime:  t.RemainingSeconds,
			OriginalTime: t.OriginalSeconds,
			SessionType:  t.SessionType,
			Mode:         t.Mode,
		}, true
	default:
		return PersistedState{}, false
	}
}

type ResumeAction int

const (
	ResumeNone ResumeAction = iota
	ResumeRunning
	ResumePaused
	ResumeComplete
)

type ResumePlan struct {
	Action         ResumeAction
	Remaining      int
	ElapsedSeconds int
}

// PlanResume decides what a persisted state means at instant now. A running
// state counts wall-clock time since its start; a paused one is restored
// as-is.
func PlanResume(state PersistedState, now time.Time) ResumePlan {
	if !state.Valid() {
		return ResumePlan{Action: ResumeNone}
	}
	if !state.IsRunning {
		if state.CurrentTime <= 0 {
			return ResumePlan{Action: ResumeNone}
		}
		return ResumePlan{Action: ResumePaused, Remaining: state.CurrentTime}
	}
	elapsedMillis := now.UnixMilli() - state.StartTime
	if elapsedMillis < 0 {
		elapsedMillis = 0
	}
	elapsed := int(elapsedMillis / 1000)
	remaining := state.OriginalTime - elapsed
	if remaining <= 0 {
		return ResumePlan{Action: ResumeComplete, ElapsedSeconds: elapsed}
	}
	return ResumePlan{Action: ResumeRunning, Remaining: remaining, ElapsedSeconds: elapsed}
}

// SameCountdown reports whether s and o describe one running countdown. A
// process uses it to notice that another process finished, paused or
// replaced the countdown it was ticking.
func (s PersistedState) SameCountdown(o PersistedState) bool {
	return s.IsRunning && o.IsRunning && s.StartTime == o.StartTime && s.OriginalTime == o.OriginalTime
}
