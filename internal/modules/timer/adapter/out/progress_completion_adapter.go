package out

import (
	"context"

	progressdto "focusflow/internal/modules/progress/dto"
	progressin "focusflow/internal/modules/progress/port/in"
	"focusflow/internal/modules/timer/domain"
	timerout "focusflow/internal/modules/timer/port/out"
)

type ProgressCompletionAdapter struct {
	progress progressin.Usecase
}

func NewProgressCompletionAdapter(progress progressin.Usecase) timerout.CompletionSink {
	return &ProgressCompletionAdapter{progress: progress}
}

func (a *ProgressCompletionAdapter) SessionCompleted(ctx context.Context, completion domain.Completion) (domain.CompletionReceipt, error) {
	out, err := a.progress.Complete(ctx, progressdto.CompleteInput{
		OriginalSeconds: completion.OriginalSeconds,
		SessionType:     completion.SessionType,
		Mode:            completion.Mode,
	})
	if err != nil {
		return domain.CompletionReceipt{}, err
	}
	return domain.CompletionReceipt{DurationMinutes: out.DurationMinutes, Streak: out.Streak}, nil
}
