package attach

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type RecorderState = string

const (
	StateIdle      = "idle"
	StateRecording = "recording"
	StateReady     = "ready"
)

// Recorder drives the voice capture state machine:
// Idle -> Recording -> {Stopped -> Ready | Cancelled}. One session runs
// at a time. Recording owns two independent consumers over the same
// session: the audio encoder and the recognition stream; the failure of
// one never stops the other.
type Recorder struct {
	mtx    sync.Mutex
	state  RecorderState
	audio  AudioCapturePort
	speech SpeechRecognitionPort
	bus    *bus.Bus

	sessionId string
	stream    AudioStream
	recog     RecognitionStream
	buffer    []byte
	finals    []string
	interim   string
	startedAt time.Time
	duration  time.Duration
	released  bool

	artifacts map[string][]byte
}

func NewRecorder(audio AudioCapturePort, speech SpeechRecognitionPort, eventBus *bus.Bus) *Recorder {
	return &Recorder{
		state:     StateIdle,
		audio:     audio,
		speech:    speech,
		bus:       eventBus,
		artifacts: make(map[string][]byte),
	}
}

func (r *Recorder) State() RecorderState {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.state
}

// Start opens the microphone and the recognition stream. A denied
// microphone permission fails this attempt only. A recognition failure
// degrades the session to transcript-less instead of failing it.
func (r *Recorder) Start(ctx context.Context) error {
	r.mtx.Lock()
	if r.state != StateIdle {
		r.mtx.Unlock()
		return ErrInvalidState
	}
	// Reserve the session before touching hardware so a concurrent Start
	// cannot open a second stream.
	r.state = StateRecording
	r.mtx.Unlock()

	stream, err := r.audio.Open(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to open microphone for recording...")
		r.mtx.Lock()
		if r.state == StateRecording {
			r.state = StateIdle
		}
		r.mtx.Unlock()
		return err
	}

	var recog RecognitionStream
	if r.speech != nil {
		if recog, err = r.speech.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("Speech recognition unavailable, recording without transcript...")
			recog = nil
		}
	}

	r.mtx.Lock()
	if r.state != StateRecording {
		// Cancelled while the hardware was opening.
		r.mtx.Unlock()
		_ = stream.Close()
		if recog != nil {
			recog.Stop()
		}
		return ErrInvalidState
	}
	r.sessionId = uuid.NewString()
	r.stream = stream
	r.recog = recog
	r.buffer = nil
	r.finals = nil
	r.interim = ""
	r.startedAt = time.Now()
	r.released = false
	session := r.sessionId
	r.mtx.Unlock()

	go r.consumeAudio(session, stream)
	if recog != nil {
		go r.consumeSpeech(session, recog)
	}

	r.bus.Publish(bus.TopicRecordingState, StateRecording)
	return nil
}

func (r *Recorder) consumeAudio(session string, stream AudioStream) {
	for chunk := range stream.Chunks() {
		r.mtx.Lock()
		if r.sessionId == session && r.state == StateRecording {
			r.buffer = append(r.buffer, chunk...)
		}
		r.mtx.Unlock()
	}
}

func (r *Recorder) consumeSpeech(session string, stream RecognitionStream) {
	for result := range stream.Results() {
		r.mtx.Lock()
		if r.sessionId == session {
			if result.IsFinal {
				r.finals = append(r.finals, result.Text)
				r.interim = ""
			} else {
				r.interim = result.Text
			}
		}
		r.mtx.Unlock()
	}
}

// Stop finalizes the audio buffer into a playable artifact and stops the
// recognition stream; the transcript accumulated so far travels with the
// eventual voice message.
func (r *Recorder) Stop() error {
	r.mtx.Lock()
	if r.state != StateRecording {
		r.mtx.Unlock()
		return ErrInvalidState
	}
	r.state = StateReady
	r.duration = time.Since(r.startedAt)
	if r.duration <= 0 {
		r.duration = time.Millisecond
	}
	r.releaseLocked()
	r.mtx.Unlock()

	r.bus.Publish(bus.TopicRecordingState, StateReady)
	return nil
}

// Cancel discards audio and transcript and releases the microphone. It
// is reachable at any point of an active session, Ready included.
func (r *Recorder) Cancel() {
	r.mtx.Lock()
	if r.state == StateIdle {
		r.mtx.Unlock()
		return
	}
	r.releaseLocked()
	r.state = StateIdle
	r.sessionId = ""
	r.buffer = nil
	r.finals = nil
	r.interim = ""
	r.mtx.Unlock()

	r.bus.Publish(bus.TopicRecordingState, StateIdle)
}

// releaseLocked closes the hardware streams exactly once per session.
func (r *Recorder) releaseLocked() {
	if r.released {
		return
	}
	r.released = true
	if r.stream != nil {
		_ = r.stream.Close()
	}
	if r.recog != nil {
		r.recog.Stop()
	}
}

// Send materializes the finished recording into a voice message and
// clears the pipeline for the next session.
func (r *Recorder) Send(channelId, senderId string) (models.VoiceMessage, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.state != StateReady {
		return models.VoiceMessage{}, ErrInvalidState
	}

	transcript := strings.Join(r.finals, " ")
	if len(r.interim) > 0 {
		transcript = strings.TrimSpace(transcript + " " + r.interim)
	}

	r.artifacts[r.sessionId] = r.buffer
	message := models.VoiceMessage{
		ID:              uuid.NewString(),
		ChannelID:       channelId,
		SenderID:        senderId,
		AudioRef:        "voice/" + r.sessionId,
		DurationSeconds: r.duration.Seconds(),
		Transcript:      transcript,
		Timestamp:       time.Now(),
	}

	r.state = StateIdle
	r.sessionId = ""
	r.buffer = nil
	r.finals = nil
	r.interim = ""

	return message, nil
}

// Artifact returns the playable audio for a sent voice message.
func (r *Recorder) Artifact(audioRef string) ([]byte, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	data, ok := r.artifacts[strings.TrimPrefix(audioRef, "voice/")]
	return data, ok
}
