package store

import (
	"fmt"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// AppendVoice lands a finished recording in the channel stream.
func (s *Store) AppendVoice(message models.VoiceMessage) (models.VoiceMessage, error) {
	s.mtx.Lock()
	s.voices[message.ChannelID] = append(s.voices[message.ChannelID], message)
	s.mtx.Unlock()

	s.directory.TouchPreview(message.ChannelID, fmt.Sprintf("Sesli mesaj (%.0fs)", message.DurationSeconds), false)
	s.bus.Publish(bus.TopicMessageNew, message)

	if err := s.persist.InsertVoiceMessage(message); err != nil {
		log.Warn().Err(err).Str("message", message.ID).Msg("Unable to persist voice message...")
		s.bus.Publish(bus.TopicPersistenceFailed, message.ID)
		return message, fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	return message, nil
}

// AppendFile lands a confirmed upload in the channel stream.
func (s *Store) AppendFile(message models.FileMessage) (models.FileMessage, error) {
	s.mtx.Lock()
	s.files[message.ChannelID] = append(s.files[message.ChannelID], message)
	s.mtx.Unlock()

	s.directory.TouchPreview(message.ChannelID, message.FileName, false)
	s.bus.Publish(bus.TopicMessageNew, message)

	if err := s.persist.InsertFileMessage(message); err != nil {
		log.Warn().Err(err).Str("message", message.ID).Msg("Unable to persist file message...")
		s.bus.Publish(bus.TopicPersistenceFailed, message.ID)
		return message, fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	return message, nil
}

func (s *Store) ListVoices(channelId string) []models.VoiceMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	out := make([]models.VoiceMessage, len(s.voices[channelId]))
	copy(out, s.voices[channelId])
	return out
}

func (s *Store) ListFiles(channelId string) []models.FileMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	out := make([]models.FileMessage, len(s.files[channelId]))
	copy(out, s.files[channelId])
	return out
}

// Snapshots across all channels, used by the retrieval layer.

func (s *Store) AllMessages() []models.ChatMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var out []models.ChatMessage
	for _, sequence := range s.messages {
		for _, message := range sequence {
			out = append(out, *message)
		}
	}
	return out
}

func (s *Store) AllVoices() []models.VoiceMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var out []models.VoiceMessage
	for _, sequence := range s.voices {
		out = append(out, sequence...)
	}
	return out
}

func (s *Store) AllFiles() []models.FileMessage {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var out []models.FileMessage
	for _, sequence := range s.files {
		out = append(out, sequence...)
	}
	return out
}
