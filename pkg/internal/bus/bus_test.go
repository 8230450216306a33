package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicFiltering(t *testing.T) {
	eventBus := New()
	_, messages := eventBus.Subscribe(TopicMessageNew)
	_, everything := eventBus.Subscribe()

	eventBus.Publish(TopicMessageNew, "m-1")
	eventBus.Publish(TopicChannelUpdate, "c-1")

	event := <-messages
	assert.Equal(t, TopicMessageNew, event.Topic)
	select {
	case event = <-messages:
		t.Fatalf("filtered subscriber received %q", event.Topic)
	default:
	}

	// A bare Subscribe sees every topic.
	assert.Equal(t, TopicMessageNew, (<-everything).Topic)
	assert.Equal(t, TopicChannelUpdate, (<-everything).Topic)
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	eventBus := New()
	_, stalled := eventBus.Subscribe(TopicMessageNew)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Well past the subscriber buffer; overflow is dropped, not queued.
		for idx := 0; idx < 200; idx++ {
			eventBus.Publish(TopicMessageNew, idx)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher stalled on an undrained subscriber")
	}

	received := 0
	for {
		select {
		case <-stalled:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 64, received)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	eventBus := New()
	id, events := eventBus.Subscribe(TopicMessageNew)

	eventBus.Unsubscribe(id)
	_, open := <-events
	assert.False(t, open)

	// Publishing after unsubscribe reaches nobody and panics nowhere.
	eventBus.Publish(TopicMessageNew, "m-1")

	// Unsubscribing twice is harmless.
	eventBus.Unsubscribe(id)
}

func TestSubscribersAreIndependent(t *testing.T) {
	eventBus := New()
	_, first := eventBus.Subscribe(TopicMessageNew)
	_, second := eventBus.Subscribe(TopicMessageNew)

	eventBus.Publish(TopicMessageNew, "m-1")

	require.Equal(t, "m-1", (<-first).Payload)
	require.Equal(t, "m-1", (<-second).Payload)
}
