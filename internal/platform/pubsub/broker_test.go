package pubsub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"focusflow/internal/platform/pubsub"
)

func TestBrokerFansOutToEverySubscriber(t *testing.T) {
	t.Parallel()
	broker := pubsub.NewBroker[int]()
	defer broker.Close()
	ctx := context.Background()

	first := broker.Subscribe(ctx)
	second := broker.Subscribe(ctx)
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(pubsub.CompletedEvent, 25)
	for _, ch := range []<-chan pubsub.Event[int]{first, second} {
		select {
		case ev := <-ch:
			require.Equal(t, pubsub.CompletedEvent, ev.Type)
			require.Equal(t, 25, ev.Payload)
			require.False(t, ev.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBrokerDropsSubscriberOnCancel(t *testing.T) {
	t.Parallel()
	broker := pubsub.NewBroker[string]()
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	cancel()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel must be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestBrokerPublishNeverBlocks(t *testing.T) {
	t.Parallel()
	broker := pubsub.NewBroker[int]()
	defer broker.Close()
	_ = broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			broker.Publish(pubsub.UpdatedEvent, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestClosedBrokerReturnsClosedSubscriptions(t *testing.T) {
	t.Parallel()
	broker := pubsub.NewBroker[int]()
	live := broker.Subscribe(context.Background())
	broker.Close()
	broker.Close()

	_, ok := <-live
	require.False(t, ok)
	_, ok = <-broker.Subscribe(context.Background())
	require.False(t, ok)
	broker.Publish(pubsub.CompletedEvent, 1)
}

func TestListenCmdDeliversEventsAsMessages(t *testing.T) {
	t.Parallel()
	broker := pubsub.NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := broker.Subscribe(ctx)

	broker.Publish(pubsub.CompletedEvent, "deep-work")
	msg := pubsub.ListenCmd(ctx, ch)()
	ev, ok := msg.(pubsub.Event[string])
	require.True(t, ok)
	require.Equal(t, "deep-work", ev.Payload)

	broker.Close()
	require.Nil(t, pubsub.ListenCmd(ctx, ch)())
}
