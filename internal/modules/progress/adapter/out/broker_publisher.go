package out

import (
	"focusflow/internal/modules/progress/domain"
	progressdto "focusflow/internal/modules/progress/dto"
	progressout "focusflow/internal/modules/progress/port/out"
	"focusflow/internal/platform/pubsub"
)

type BrokerPublisher struct {
	broker pubsub.Publisher[progressdto.CompletionEvent]
}

func NewBrokerPublisher(broker pubsub.Publisher[progressdto.CompletionEvent]) progressout.EventPublisher {
	return &BrokerPublisher{broker: broker}
}

func (p *BrokerPublisher) Publish(event domain.CompletionEvent) {
	p.broker.Publish(pubsub.CompletedEvent, progressdto.CompletionEvent{
		SessionType:     event.SessionType,
		DurationMinutes: event.DurationMinutes,
		Mode:            string(event.Mode),
		CompletedAt:     event.CompletedAt,
	})
}
