package attach

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Bridge adapts the browser client into the capture ports: the client
// owns the actual microphone and speech recognizer and feeds chunks and
// recognition results over the API. It implements AudioCapturePort and
// SpeechRecognitionPort for exactly one console session.
type Bridge struct {
	mtx    sync.Mutex
	denied bool
	audio  *bridgeAudioStream
	recog  *bridgeRecognitionStream
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// SetDenied marks the client's microphone permission state; while set,
// opening the capture port fails with ErrPermissionDenied.
func (b *Bridge) SetDenied(denied bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.denied = denied
}

func (b *Bridge) Open(_ context.Context) (AudioStream, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.denied {
		return nil, ErrPermissionDenied
	}
	b.audio = &bridgeAudioStream{ch: make(chan []byte, 32)}
	return b.audio, nil
}

func (b *Bridge) Start(_ context.Context) (RecognitionStream, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.recog = &bridgeRecognitionStream{ch: make(chan RecognitionResult, 32)}
	return b.recog, nil
}

// PushChunk forwards one client audio chunk into the open stream.
func (b *Bridge) PushChunk(data []byte) {
	b.mtx.Lock()
	stream := b.audio
	b.mtx.Unlock()
	if stream != nil {
		stream.push(data)
	}
}

// PushResult forwards one client recognition event.
func (b *Bridge) PushResult(text string, isFinal bool) {
	b.mtx.Lock()
	stream := b.recog
	b.mtx.Unlock()
	if stream != nil {
		stream.push(RecognitionResult{Text: text, IsFinal: isFinal})
	}
}

type bridgeAudioStream struct {
	mtx    sync.Mutex
	ch     chan []byte
	closed bool
}

func (s *bridgeAudioStream) Chunks() <-chan []byte { return s.ch }

func (s *bridgeAudioStream) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

func (s *bridgeAudioStream) push(data []byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- data:
	default:
		log.Warn().Msg("Audio chunk buffer is full, dropping chunk...")
	}
}

type bridgeRecognitionStream struct {
	mtx    sync.Mutex
	ch     chan RecognitionResult
	closed bool
}

func (s *bridgeRecognitionStream) Results() <-chan RecognitionResult { return s.ch }

func (s *bridgeRecognitionStream) Stop() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *bridgeRecognitionStream) push(result RecognitionResult) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- result:
	default:
	}
}

// DataURLs is the ObjectURLPort used server-side: previews become data
// URLs, so revocation only has to forget them.
type DataURLs struct{}

func (DataURLs) Create(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func (DataURLs) Revoke(string) {}
