package usecase

import (
	"context"
	"strings"
	"time"

	"focusflow/internal/modules/timer/domain"
	timerdto "focusflow/internal/modules/timer/dto"
	timerin "focusflow/internal/modules/timer/port/in"
	"focusflow/internal/modules/timer/service"
)

type Interactor struct {
	svc *service.TimerService
}

func NewInteractor(svc *service.TimerService) timerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SetDuration(ctx context.Context, input timerdto.SetDurationInput) (timerdto.TimerOutput, error) {
	if err := domain.ValidateDuration(input.Seconds); err != nil {
		return timerdto.TimerOutput{}, err
	}
	sessionType := strings.TrimSpace(input.SessionType)
	if sessionType == "" {
		sessionType = domain.PresetCustom
	}
	t, err := i.svc.SetDuration(ctx, input.Seconds, sessionType)
	if err != nil {
		return timerdto.TimerOutput{}, err
	}
	return toOutput(t), nil
}

func (i *Interactor) SetPreset(ctx context.Context, preset string) (timerdto.TimerOutput, error) {
	seconds, name, err := domain.PresetSeconds(preset)
	if err != nil {
		return timerdto.TimerOutput{}, err
	}
	return i.SetDuration(ctx, timerdto.SetDurationInput{Seconds: seconds, SessionType: name})
}

func (i *Interactor) SetMode(_ context.Context, mode string) (timerdto.TimerOutput, error) {
	return toOutput(i.svc.SetMode(mode)), nil
}

func (i *Interactor) Start(ctx context.Context) (timerdto.TimerOutput, error) {
	t, _ := i.svc.Start(ctx)
	return toOutput(t), nil
}

func (i *Interactor) Pause(ctx context.Context) (timerdto.TimerOutput, error) {
	t, _ := i.svc.Pause(ctx)
	return toOutput(t), nil
}

func (i *Interactor) Stop(ctx context.Context) (timerdto.TimerOutput, error) {
	t, err := i.svc.Stop(ctx)
	if err != nil {
		return timerdto.TimerOutput{}, err
	}
	return toOutput(t), nil
}

func (i *Interactor) Tick(ctx context.Context) (timerdto.TickOutput, error) {
	t, receipt, err := i.svc.Tick(ctx)
	out := timerdto.TickOutput{Timer: toOutput(t), Completed: receipt != nil}
	out.Timer.Failure = err
	return out, err
}

func (i *Interactor) Snapshot(_ context.Context) (timerdto.TimerOutput, error) {
	out := toOutput(i.svc.Snapshot())
	out.Failure = i.svc.Failure()
	return out, nil
}

// Status is the read-only counterpart of LoadAndResume.
func (i *Interactor) Status(ctx context.Context) (timerdto.ResumeOutput, error) {
	res, err := i.svc.Inspect(ctx)
	if err != nil {
		return timerdto.ResumeOutput{}, err
	}
	action := actionName(res.Action)
	if res.Action == domain.ResumeComplete {
		action = "expired"
	}
	return timerdto.ResumeOutput{Action: action, Timer: toOutput(res.Timer)}, nil
}

func (i *Interactor) LoadAndResume(ctx context.Context) (timerdto.ResumeOutput, error) {
	res, err := i.svc.LoadAndResume(ctx)
	if err != nil {
		return timerdto.ResumeOutput{}, err
	}
	return timerdto.ResumeOutput{
		Action:          actionName(res.Action),
		Timer:           toOutput(res.Timer),
		DurationMinutes: res.Receipt.DurationMinutes,
	}, nil
}

func actionName(a domain.ResumeAction) string {
	switch a {
	case domain.ResumeRunning:
		return "running"
	case domain.ResumePaused:
		return "paused"
	case domain.ResumeComplete:
		return "completed"
	default:
		return "none"
	}
}

func toOutput(t domain.Timer) timerdto.TimerOutput {
	out := timerdto.TimerOutput{
		Phase:            string(t.Phase),
		RemainingSeconds: t.RemainingSeconds,
		OriginalSeconds:  t.OriginalSeconds,
		SessionType:      t.SessionType,
		Mode:             t.Mode,
	}
	if t.StartEpochMillis != nil {
		out.StartedAt = time.UnixMilli(*t.StartEpochMillis).UTC()
	}
	return out
}
