package in

import (
	"context"

	timerdto "focusflow/internal/modules/timer/dto"
	timerin "focusflow/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SetDuration(ctx context.Context, seconds int, sessionType string) (timerdto.TimerOutput, error) {
	return h.usecase.SetDuration(ctx, timerdto.SetDurationInput{Seconds: seconds, SessionType: sessionType})
}

func (h CLIHandler) SetPreset(ctx context.Context, preset string) (timerdto.TimerOutput, error) {
	return h.usecase.SetPreset(ctx, preset)
}

func (h CLIHandler) SetMode(ctx context.Context, mode string) (timerdto.TimerOutput, error) {
	return h.usecase.SetMode(ctx, mode)
}

func (h CLIHandler) Start(ctx context.Context) (timerdto.TimerOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Pause(ctx context.Context) (timerdto.TimerOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (timerdto.TimerOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Tick(ctx context.Context) (timerdto.TickOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Snapshot(ctx context.Context) (timerdto.TimerOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) LoadAndResume(ctx context.Context) (timerdto.ResumeOutput, error) {
	return h.usecase.LoadAndResume(ctx)
}

// Status reports the persisted countdown without resuming or recording it.
func (h CLIHandler) Status(ctx context.Context) (timerdto.ResumeOutput, error) {
	return h.usecase.Status(ctx)
}
