package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type VoiceMessage struct {
	ID              string  `json:"id" gorm:"primaryKey"`
	ChannelID       string  `json:"channel_id" gorm:"index"`
	SenderID        string  `json:"sender_id"`
	AudioRef        string  `json:"audio_ref"`
	DurationSeconds float64 `json:"duration_seconds"`
	// Transcript may stay empty when speech recognition was unavailable
	// or failed mid-recording. That is a valid terminal state.
	Transcript string `json:"transcript,omitempty"`

	Timestamp time.Time      `json:"timestamp"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type FileClassification = string

const (
	FileClassImage    = "image"
	FileClassVideo    = "video"
	FileClassAudio    = "audio"
	FileClassDocument = "document"
	FileClassOther    = "other"
)

type FileMessage struct {
	ID             string             `json:"id" gorm:"primaryKey"`
	ChannelID      string             `json:"channel_id" gorm:"index"`
	SenderID       string             `json:"sender_id"`
	FileName       string             `json:"file_name"`
	FileRef        string             `json:"file_ref"`
	SizeBytes      int64              `json:"size_bytes"`
	MimeType       string             `json:"mime_type"`
	Classification FileClassification `json:"classification"`

	Timestamp time.Time      `json:"timestamp"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ClassifyMime derives the file classification from a MIME type once, at
// creation time. It is never recomputed afterwards.
func ClassifyMime(mimeType string) FileClassification {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FileClassImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileClassVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return FileClassAudio
	case mimeType == "application/pdf",
		mimeType == "application/msword",
		strings.Contains(mimeType, "officedocument"),
		strings.Contains(mimeType, "vnd.oasis.opendocument"),
		strings.HasPrefix(mimeType, "text/"):
		return FileClassDocument
	default:
		return FileClassOther
	}
}
