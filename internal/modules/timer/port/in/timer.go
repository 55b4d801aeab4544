package in

import (
	"context"

	"focusflow/internal/modules/timer/dto"
)

type Usecase interface {
	SetDuration(ctx context.Context, input dto.SetDurationInput) (dto.TimerOutput, error)
	SetPreset(ctx context.Context, preset string) (dto.TimerOutput, error)
	SetMode(ctx context.Context, mode string) (dto.TimerOutput, error)
	Start(ctx context.Context) (dto.TimerOutput, error)
	Pause(ctx context.Context) (dto.TimerOutput, error)
	Stop(ctx context.Context) (dto.TimerOutput, error)
	Tick(ctx context.Context) (dto.TickOutput, error)
	Snapshot(ctx context.Context) (dto.TimerOutput, error)
	LoadAndResume(ctx context.Context) (dto.ResumeOutput, error)
	Status(ctx context.Context) (dto.ResumeOutput, error)
}
