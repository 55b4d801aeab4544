package usecase

import (
	"context"
	"fmt"
	"strings"

	"focusflow/internal/modules/progress/domain"
	progressdto "focusflow/internal/modules/progress/dto"
	progressin "focusflow/internal/modules/progress/port/in"
	"focusflow/internal/modules/progress/service"
	apperrors "focusflow/internal/platform/errors"
)

const recentSessions = 5

type Interactor struct {
	svc *service.ProgressService
}

func NewInteractor(svc *service.ProgressService) progressin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Complete(ctx context.Context, input progressdto.CompleteInput) (progressdto.CompleteOutput, error) {
	if input.OriginalSeconds <= 0 {
		return progressdto.CompleteOutput{}, fmt.Errorf("%w: original seconds must be positive", apperrors.ErrInvalidDuration)
	}
	mode, err := domain.ParseMode(input.Mode)
	if err != nil {
		return progressdto.CompleteOutput{}, err
	}
	sessionType := strings.TrimSpace(input.SessionType)
	if sessionType == "" {
		sessionType = "custom"
	}

	done, err := i.svc.Complete(ctx, input.OriginalSeconds, sessionType, mode)
	if err != nil {
		return progressdto.CompleteOutput{}, err
	}
	return progressdto.CompleteOutput{
		RecordID:        done.Record.ID,
		SessionType:     done.Record.SessionType,
		DurationMinutes: done.Record.Duration,
		Streak:          done.Progress.Streak,
		TotalSessions:   done.Progress.TotalSessions,
		NotePath:        done.NotePath,
		CompletedAt:     done.Record.Date,
	}, nil
}

func (i *Interactor) GetProgress(ctx context.Context) (progressdto.ProgressOutput, error) {
	p, err := i.svc.Current(ctx)
	if err != nil {
		return progressdto.ProgressOutput{}, err
	}
	return toProgressOutput(p), nil
}

func (i *Interactor) History(ctx context.Context, input progressdto.HistoryInput) ([]progressdto.DayTotalOutput, error) {
	days := input.Days
	if days == 0 {
		days = 7
	}
	totals, err := i.svc.History(ctx, days)
	if err != nil {
		return nil, err
	}
	out := make([]progressdto.DayTotalOutput, 0, len(totals))
	for _, t := range totals {
		out = append(out, progressdto.DayTotalOutput{Day: t.Day, Sessions: t.Sessions, Minutes: t.Minutes})
	}
	return out, nil
}

func (i *Interactor) Pull(ctx context.Context) (progressdto.ProgressOutput, error) {
	p, _, err := i.svc.Pull(ctx)
	if err != nil {
		return progressdto.ProgressOutput{}, err
	}
	return toProgressOutput(p), nil
}

func (i *Interactor) Reindex(ctx context.Context) (int, error) {
	return i.svc.Reindex(ctx)
}

func toProgressOutput(p domain.Progress) progressdto.ProgressOutput {
	out := progressdto.ProgressOutput{
		TodayMinutes:    p.TodayMinutes,
		TotalSessions:   p.TotalSessions,
		Streak:          p.Streak,
		LastSessionDate: p.LastSessionDate,
		TotalFocusTime:  p.TotalFocusTime,
	}
	start := len(p.CompletedSessions) - recentSessions
	if start < 0 {
		start = 0
	}
	for idx := len(p.CompletedSessions) - 1; idx >= start; idx-- {
		s := p.CompletedSessions[idx]
		out.RecentSessions = append(out.RecentSessions, progressdto.SessionOutput{
			ID:          s.ID,
			Date:        s.Date,
			Duration:    s.Duration,
			Mode:        string(s.Mode),
			SessionType: s.SessionType,
		})
	}
	return out
}
