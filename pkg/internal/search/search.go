package search

import (
	"strings"
	"sync"
	"time"

	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/centrohq/centro/pkg/internal/store"
)

// matchThreshold is the fraction of query tokens that must overlap a
// candidate's tokens for it to count as a hit.
const matchThreshold = 0.3

const defaultHistoryLimit = 10

// Service scores existing messages, transcripts and file names against a
// query. Matching is token-overlap based, not embedding based.
type Service struct {
	store *store.Store

	mtx          sync.Mutex
	history      []string
	historyLimit int
}

func New(messageStore *store.Store, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Service{store: messageStore, historyLimit: historyLimit}
}

// Search returns the ranked result bundle for the query. An empty result
// is a valid outcome, not an error. The raw query lands in the bounded
// recent-search history either way.
func (s *Service) Search(query string) models.SearchResultBundle {
	started := time.Now()
	s.remember(query)

	bundle := models.SearchResultBundle{
		Messages:      []models.ChatMessage{},
		VoiceMessages: []models.VoiceMessage{},
		Files:         []models.FileMessage{},
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		bundle.ScoringTimeMs = time.Since(started).Milliseconds()
		return bundle
	}

	var scoreSum float64

	for _, message := range s.store.AllMessages() {
		if score, ok := overlapScore(queryTokens, message.Content); ok {
			bundle.Messages = append(bundle.Messages, message)
			scoreSum += score
		}
	}
	// Voice messages match on transcript only; a missing transcript
	// never matches.
	for _, voice := range s.store.AllVoices() {
		if len(voice.Transcript) == 0 {
			continue
		}
		if score, ok := overlapScore(queryTokens, voice.Transcript); ok {
			bundle.VoiceMessages = append(bundle.VoiceMessages, voice)
			scoreSum += score
		}
	}
	for _, file := range s.store.AllFiles() {
		if score, ok := overlapScore(queryTokens, file.FileName); ok {
			bundle.Files = append(bundle.Files, file)
			scoreSum += score
		}
	}

	bundle.TotalResults = len(bundle.Messages) + len(bundle.VoiceMessages) + len(bundle.Files)
	if bundle.TotalResults > 0 {
		bundle.RelevanceScore = scoreSum / float64(bundle.TotalResults)
	}
	bundle.ScoringTimeMs = time.Since(started).Milliseconds()
	return bundle
}

// History returns recent queries, most recent first.
func (s *Service) History() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Service) remember(query string) {
	query = strings.TrimSpace(query)
	if len(query) == 0 {
		return
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.history = append([]string{query}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// overlapScore accepts the candidate when the fraction of query tokens
// sharing a substring relationship (either direction) with some content
// token exceeds the threshold.
func overlapScore(queryTokens []string, content string) (float64, bool) {
	contentTokens := tokenize(content)
	if len(contentTokens) == 0 {
		return 0, false
	}

	hits := 0
	for _, queryToken := range queryTokens {
		for _, contentToken := range contentTokens {
			if strings.Contains(contentToken, queryToken) || strings.Contains(queryToken, contentToken) {
				hits++
				break
			}
		}
	}

	score := float64(hits) / float64(len(queryTokens))
	return score, score > matchThreshold
}
