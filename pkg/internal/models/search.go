package models

// SearchResultBundle is a transient projection, never persisted.
type SearchResultBundle struct {
	Messages      []ChatMessage  `json:"messages"`
	VoiceMessages []VoiceMessage `json:"voice_messages"`
	Files         []FileMessage  `json:"files"`

	TotalResults   int     `json:"total_results"`
	ScoringTimeMs  int64   `json:"scoring_time_ms"`
	RelevanceScore float64 `json:"relevance_score"`
}
