package in

import (
	"context"

	"focusflow/internal/modules/progress/dto"
)

type Usecase interface {
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	GetProgress(ctx context.Context) (dto.ProgressOutput, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.DayTotalOutput, error)
	Pull(ctx context.Context) (dto.ProgressOutput, error)
	Reindex(ctx context.Context) (int, error)
}
