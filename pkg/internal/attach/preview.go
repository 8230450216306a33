package attach

import (
	"sync"
	"time"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/google/uuid"
)

// Preview is the pending file selection shown before upload.
type Preview struct {
	FileName       string                    `json:"file_name"`
	MimeType       string                    `json:"mime_type"`
	SizeBytes      int64                     `json:"size_bytes"`
	Classification models.FileClassification `json:"classification"`
	// PreviewURL stays empty for non-image files ("type not
	// previewable") and while the image preview is still generating.
	PreviewURL  string `json:"preview_url,omitempty"`
	Previewable bool   `json:"previewable"`
}

// FilePicker manages file selection and preview. Image previews are
// generated asynchronously; a preview arriving after the user cleared
// the selection is discarded. Object URLs are released exactly once on
// every exit path.
type FilePicker struct {
	mtx  sync.Mutex
	urls ObjectURLPort
	bus  *bus.Bus

	generation int
	current    *Preview
	data       []byte
	objectURL  string
}

func NewFilePicker(urls ObjectURLPort, eventBus *bus.Bus) *FilePicker {
	return &FilePicker{urls: urls, bus: eventBus}
}

// Select captures the file's MIME type and size and, for images, kicks
// off preview generation in the background.
func (p *FilePicker) Select(fileName, mimeType string, data []byte) {
	p.mtx.Lock()
	p.releaseLocked()
	p.generation++
	generation := p.generation

	classification := models.ClassifyMime(mimeType)
	p.current = &Preview{
		FileName:       fileName,
		MimeType:       mimeType,
		SizeBytes:      int64(len(data)),
		Classification: classification,
		Previewable:    classification == models.FileClassImage,
	}
	p.data = data
	p.mtx.Unlock()

	if classification != models.FileClassImage {
		return
	}

	go func() {
		url := p.urls.Create(data, mimeType)

		p.mtx.Lock()
		if p.generation != generation || p.current == nil {
			p.mtx.Unlock()
			// The user already moved on; never render a stale preview.
			p.urls.Revoke(url)
			return
		}
		p.current.PreviewURL = url
		p.objectURL = url
		snapshot := *p.current
		p.mtx.Unlock()

		p.bus.Publish(bus.TopicPreviewReady, snapshot)
	}()
}

func (p *FilePicker) Preview() (Preview, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.current == nil {
		return Preview{}, false
	}
	return *p.current, true
}

// Clear drops the selection and releases its object URL.
func (p *FilePicker) Clear() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.releaseLocked()
}

func (p *FilePicker) releaseLocked() {
	if p.objectURL != "" {
		p.urls.Revoke(p.objectURL)
		p.objectURL = ""
	}
	p.current = nil
	p.data = nil
	p.generation++
}

// Confirm materializes the selection into a file message and clears the
// preview.
func (p *FilePicker) Confirm(channelId, senderId string) (models.FileMessage, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.current == nil {
		return models.FileMessage{}, ErrInvalidState
	}

	message := models.FileMessage{
		ID:             uuid.NewString(),
		ChannelID:      channelId,
		SenderID:       senderId,
		FileName:       p.current.FileName,
		FileRef:        "file/" + uuid.NewString(),
		SizeBytes:      p.current.SizeBytes,
		MimeType:       p.current.MimeType,
		Classification: p.current.Classification,
		Timestamp:      time.Now(),
	}
	p.releaseLocked()

	return message, nil
}
