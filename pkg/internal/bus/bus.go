package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Topic = string

const (
	TopicMessageNew        = "messages.new"
	TopicMessageEdit       = "messages.edit"
	TopicMessageDelete     = "messages.delete"
	TopicMessagePin        = "messages.pin"
	TopicChannelUpdate     = "channels.update"
	TopicRecordingState    = "recording.state"
	TopicPreviewReady      = "previews.ready"
	TopicTypingStatus      = "status.typing"
	TopicAutoResponseSent  = "automation.response"
	TopicWorkflowTriggered = "automation.workflow"
	TopicPersistenceFailed = "persistence.failed"
)

type Event struct {
	Topic   Topic `json:"topic"`
	Payload any   `json:"payload"`
}

type subscriber struct {
	topics map[Topic]bool
	ch     chan Event
}

// Bus fans state transitions out to the rendering layer. Delivery is
// non-blocking: a subscriber that stops draining loses events instead of
// stalling the publisher.
type Bus struct {
	mtx  sync.Mutex
	subs map[string]*subscriber
}

func New() *Bus {
	return &Bus{subs: make(map[string]*subscriber)}
}

// Subscribe registers a listener for the given topics; no topics means
// every topic. It returns the subscription id used to unsubscribe.
func (b *Bus) Subscribe(topics ...Topic) (string, <-chan Event) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	sub := &subscriber{ch: make(chan Event, 64)}
	if len(topics) > 0 {
		sub.topics = make(map[Topic]bool, len(topics))
		for _, topic := range topics {
			sub.topics[topic] = true
		}
	}

	id := uuid.NewString()
	b.subs[id] = sub
	return id, sub.ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if sub, ok := b.subs[id]; ok {
		close(sub.ch)
		delete(b.subs, id)
	}
}

func (b *Bus) Publish(topic Topic, payload any) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	for id, sub := range b.subs {
		if sub.topics != nil && !sub.topics[topic] {
			continue
		}
		select {
		case sub.ch <- Event{Topic: topic, Payload: payload}:
		default:
			log.Warn().Str("subscriber", id).Str("topic", topic).
				Msg("Subscriber buffer is full, dropping event...")
		}
	}
}
