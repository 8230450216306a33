package attach

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied is terminal for the recording attempt that hit
	// it; the next attempt starts from scratch.
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrInvalidState     = errors.New("operation not allowed in the current recorder state")
)

// AudioCapturePort opens the platform microphone. The returned stream
// yields raw audio chunks until closed.
type AudioCapturePort interface {
	Open(ctx context.Context) (AudioStream, error)
}

type AudioStream interface {
	Chunks() <-chan []byte
	Close() error
}

// SpeechRecognitionPort starts a continuous, incremental recognition
// stream. The stream may terminate early on an internal error, which is
// "no transcript", never a pipeline failure.
type SpeechRecognitionPort interface {
	Start(ctx context.Context) (RecognitionStream, error)
}

type RecognitionResult struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}

type RecognitionStream interface {
	Results() <-chan RecognitionResult
	Stop()
}

// ObjectURLPort materializes preview URLs for selected files; every
// created URL must be revoked exactly once.
type ObjectURLPort interface {
	Create(data []byte, mimeType string) string
	Revoke(url string)
}
