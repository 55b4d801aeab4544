package in

import (
	"context"

	progressdto "focusflow/internal/modules/progress/dto"
	progressin "focusflow/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) GetProgress(ctx context.Context) (progressdto.ProgressOutput, error) {
	return h.usecase.GetProgress(ctx)
}

func (h CLIHandler) History(ctx context.Context, days int) ([]progressdto.DayTotalOutput, error) {
	return h.usecase.History(ctx, progressdto.HistoryInput{Days: days})
}

func (h CLIHandler) Pull(ctx context.Context) (progressdto.ProgressOutput, error) {
	return h.usecase.Pull(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (int, error) {
	return h.usecase.Reindex(ctx)
}
