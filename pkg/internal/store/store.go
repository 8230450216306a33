package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/centrohq/centro/pkg/internal/automation"
	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/directory"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrNotSender        = errors.New("only the original sender may edit a message")
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrPersistenceWrite wraps a failed write behind the persistence
	// port. The local append is never rolled back on it.
	ErrPersistenceWrite = errors.New("persistence write failed")
)

const replyExcerptLimit = 100

// Persistence is the write-behind collaborator of the store. Its failure
// is surfaced, not fatal: the store reflects messages locally regardless.
type Persistence interface {
	InsertMessage(message models.ChatMessage) error
	UpdateMessage(message models.ChatMessage) error
	DeleteMessage(id string) error
	InsertVoiceMessage(message models.VoiceMessage) error
	InsertFileMessage(message models.FileMessage) error
	ListMessages(channelId string) ([]models.ChatMessage, error)
	ListChannels() ([]models.Channel, error)
}

// Draft is the not-yet-sent content handed over by the composition layer.
type Draft struct {
	ChannelID     string
	SenderID      string
	SenderDisplay string
	Content       string
	Kind          models.MessageKind
	Mentions      []string
}

// Store keeps the per-channel ordered message sequences. Appends are
// send-ordered; every mutation is atomic relative to the others.
type Store struct {
	mtx      sync.Mutex
	messages map[string][]*models.ChatMessage
	index    map[string]*models.ChatMessage
	voices   map[string][]models.VoiceMessage
	files    map[string][]models.FileMessage
	hydrated map[string]bool

	directory *directory.Directory
	engine    *automation.Engine
	persist   Persistence
	bus       *bus.Bus
}

func New(dir *directory.Directory, engine *automation.Engine, persist Persistence, eventBus *bus.Bus) *Store {
	return &Store{
		messages:  make(map[string][]*models.ChatMessage),
		index:     make(map[string]*models.ChatMessage),
		voices:    make(map[string][]models.VoiceMessage),
		files:     make(map[string][]models.FileMessage),
		hydrated:  make(map[string]bool),
		directory: dir,
		engine:    engine,
		persist:   persist,
		bus:       eventBus,
	}
}

func (s *Store) Bus() *bus.Bus {
	return s.bus
}

// Hydrate loads a channel's history through the persistence port once.
// Read failures leave the channel empty; sending still works.
func (s *Store) Hydrate(channelId string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.hydrated[channelId] {
		return
	}
	s.hydrated[channelId] = true

	records, err := s.persist.ListMessages(channelId)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelId).
			Msg("Unable to load message history, starting empty...")
		return
	}
	for idx := range records {
		message := records[idx]
		s.messages[channelId] = append(s.messages[channelId], &message)
		s.index[message.ID] = &message
	}
}

// Send assigns the message its identity and timestamp, appends it, runs
// the automation evaluators synchronously, then writes through the
// persistence port. A failed write is reported via ErrPersistenceWrite
// and the persistence.failed topic while the local append stands.
func (s *Store) Send(draft Draft) (models.ChatMessage, error) {
	if len(strings.TrimSpace(draft.Content)) == 0 {
		return models.ChatMessage{}, fmt.Errorf("%w: cannot send an empty draft", ErrInvalidOperation)
	}
	return s.append(draft, nil)
}

// Reply sends a new message carrying a snapshot excerpt of the parent.
// The excerpt is captured now and never follows later edits.
func (s *Store) Reply(parentId string, draft Draft) (models.ChatMessage, error) {
	if len(strings.TrimSpace(draft.Content)) == 0 {
		return models.ChatMessage{}, fmt.Errorf("%w: cannot send an empty draft", ErrInvalidOperation)
	}

	s.mtx.Lock()
	parent, ok := s.index[parentId]
	if !ok {
		s.mtx.Unlock()
		return models.ChatMessage{}, ErrMessageNotFound
	}
	if parent.ChannelID != draft.ChannelID {
		s.mtx.Unlock()
		return models.ChatMessage{}, fmt.Errorf("%w: reply target lives in another channel", ErrInvalidOperation)
	}
	ref := &models.ReplyRef{
		MessageID:      parent.ID,
		SenderDisplay:  parent.SenderDisplay,
		ContentExcerpt: excerpt(parent.Content, replyExcerptLimit),
	}
	s.mtx.Unlock()

	return s.append(draft, ref)
}

func (s *Store) append(draft Draft, replyTo *models.ReplyRef) (models.ChatMessage, error) {
	kind := draft.Kind
	if len(kind) == 0 {
		kind = models.MessageKindText
	}

	message := &models.ChatMessage{
		ID:            uuid.NewString(),
		ChannelID:     draft.ChannelID,
		SenderID:      draft.SenderID,
		SenderDisplay: draft.SenderDisplay,
		Content:       draft.Content,
		Kind:          kind,
		Timestamp:     time.Now(),
		ReplyTo:       replyTo,
		Mentions:      draft.Mentions,
	}

	s.mtx.Lock()
	s.messages[message.ChannelID] = append(s.messages[message.ChannelID], message)
	s.index[message.ID] = message
	s.mtx.Unlock()

	// Evaluators run on every accepted message before Send returns; the
	// auto-response itself lands later on its own timer.
	if s.engine != nil && message.SenderID != models.SenderSystem {
		outcome := s.engine.Evaluate(*message, func(response models.AutoResponse) {
			s.emitSystem(message.ChannelID, response)
		})
		s.mtx.Lock()
		message.Category = outcome.Category
		s.mtx.Unlock()
	}

	snapshot := *message
	s.directory.TouchPreview(message.ChannelID, excerpt(message.Content, 60), message.SenderID == models.SenderSystem)
	s.bus.Publish(bus.TopicMessageNew, snapshot)

	if err := s.persist.InsertMessage(snapshot); err != nil {
		log.Warn().Err(err).Str("message", snapshot.ID).
			Msg("Unable to persist message, keeping it locally...")
		s.bus.Publish(bus.TopicPersistenceFailed, snapshot.ID)
		return snapshot, fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	return snapshot, nil
}

func (s *Store) emitSystem(channelId string, response models.AutoResponse) {
	message, err := s.append(Draft{
		ChannelID:     channelId,
		SenderID:      models.SenderSystem,
		SenderDisplay: "Sistem",
		Content:       response.Response,
		Kind:          models.MessageKindSystem,
	}, nil)
	if err != nil && !errors.Is(err, ErrPersistenceWrite) {
		log.Error().Err(err).Str("response", response.ID).
			Msg("Unable to emit auto-response message...")
		return
	}
	s.bus.Publish(bus.TopicAutoResponseSent, message)
}

// Edit replaces the content in place. Only the original sender may edit;
// prior content is not retained.
func (s *Store) Edit(id, senderId, newContent string) (models.ChatMessage, error) {
	if len(strings.TrimSpace(newContent)) == 0 {
		return models.ChatMessage{}, fmt.Errorf("%w: cannot edit to empty content", ErrInvalidOperation)
	}

	s.mtx.Lock()
	message, ok := s.index[id]
	if !ok {
		s.mtx.Unlock()
		return models.ChatMessage{}, ErrMessageNotFound
	}
	if message.SenderID != senderId {
		s.mtx.Unlock()
		return models.ChatMessage{}, ErrNotSender
	}
	now := time.Now()
	message.Content = newContent
	message.IsEdited = true
	message.EditedAt = &now
	snapshot := *message
	s.mtx.Unlock()

	s.bus.Publish(bus.TopicMessageEdit, snapshot)
	if err := s.persist.UpdateMessage(snapshot); err != nil {
		log.Warn().Err(err).Str("message", id).Msg("Unable to persist message edit...")
		s.bus.Publish(bus.TopicPersistenceFailed, id)
	}
	return snapshot, nil
}

// Delete removes the message outright. Messages replying to it keep
// their snapshot excerpt; dangling refs are tolerated, not repaired.
func (s *Store) Delete(id string) error {
	s.mtx.Lock()
	message, ok := s.index[id]
	if !ok {
		s.mtx.Unlock()
		return ErrMessageNotFound
	}
	delete(s.index, id)
	sequence := s.messages[message.ChannelID]
	for idx, item := range sequence {
		if item.ID == id {
			s.messages[message.ChannelID] = append(sequence[:idx], sequence[idx+1:]...)
			break
		}
	}
	s.mtx.Unlock()

	s.bus.Publish(bus.TopicMessageDelete, id)
	if err := s.persist.DeleteMessage(id); err != nil {
		log.Warn().Err(err).Str("message", id).Msg("Unable to persist message deletion...")
		s.bus.Publish(bus.TopicPersistenceFailed, id)
	}
	return nil
}

// TogglePin flips the pin flag. There is no cap on pinned messages.
func (s *Store) TogglePin(id string) (models.ChatMessage, error) {
	s.mtx.Lock()
	message, ok := s.index[id]
	if !ok {
		s.mtx.Unlock()
		return models.ChatMessage{}, ErrMessageNotFound
	}
	message.IsPinned = !message.IsPinned
	snapshot := *message
	s.mtx.Unlock()

	s.bus.Publish(bus.TopicMessagePin, snapshot)
	if err := s.persist.UpdateMessage(snapshot); err != nil {
		log.Warn().Err(err).Str("message", id).Msg("Unable to persist pin change...")
		s.bus.Publish(bus.TopicPersistenceFailed, id)
	}
	return snapshot, nil
}

func (s *Store) Get(id string) (models.ChatMessage, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if message, ok := s.index[id]; ok {
		return *message, nil
	}
	return models.ChatMessage{}, ErrMessageNotFound
}

// List returns the channel's messages in send order.
func (s *Store) List(channelId string) []models.ChatMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sequence := s.messages[channelId]
	out := make([]models.ChatMessage, 0, len(sequence))
	for _, message := range sequence {
		out = append(out, *message)
	}
	return out
}

func (s *Store) Pinned(channelId string) []models.ChatMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var out []models.ChatMessage
	for _, message := range s.messages[channelId] {
		if message.IsPinned {
			out = append(out, *message)
		}
	}
	return out
}

func excerpt(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
