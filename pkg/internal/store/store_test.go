package store

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/centrohq/centro/pkg/internal/automation"
	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/directory"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersistence struct {
	mtx        sync.Mutex
	inserted   []models.ChatMessage
	voices     []models.VoiceMessage
	files      []models.FileMessage
	deleted    []string
	failWrites bool
}

func (f *fakePersistence) InsertMessage(message models.ChatMessage) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.failWrites {
		return errors.New("connection refused")
	}
	f.inserted = append(f.inserted, message)
	return nil
}

func (f *fakePersistence) UpdateMessage(message models.ChatMessage) error {
	return f.InsertMessage(message)
}

func (f *fakePersistence) DeleteMessage(id string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.failWrites {
		return errors.New("connection refused")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePersistence) InsertVoiceMessage(message models.VoiceMessage) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.voices = append(f.voices, message)
	return nil
}

func (f *fakePersistence) InsertFileMessage(message models.FileMessage) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.files = append(f.files, message)
	return nil
}

func (f *fakePersistence) ListMessages(string) ([]models.ChatMessage, error) {
	return nil, nil
}

func (f *fakePersistence) ListChannels() ([]models.Channel, error) {
	return nil, nil
}

func newTestStore(t *testing.T) (*Store, *fakePersistence, *automation.Engine) {
	t.Helper()

	eventBus := bus.New()
	dir := directory.New(eventBus)
	dir.AddUser(models.User{ID: "me", Name: "Ayşe Yıldız", Role: "Yönetici"})
	dir.AddChannel(models.Channel{ID: "general", Name: "Genel", Kind: models.ChannelKindPublic})

	engine := automation.NewEngine(eventBus, 10*time.Millisecond)
	engine.SetCategorization(models.CategorizationConfig{
		Enabled:    true,
		Categories: []string{"destek"},
		Keywords:   map[string][]string{"destek": {"yardım"}},
	})

	persist := &fakePersistence{}
	return New(dir, engine, persist, eventBus), persist, engine
}

func draft(content string) Draft {
	return Draft{
		ChannelID:     "general",
		SenderID:      "me",
		SenderDisplay: "Ayşe Yıldız",
		Content:       content,
	}
}

func TestSendAppendsInOrder(t *testing.T) {
	store, persist, _ := newTestStore(t)

	first, err := store.Send(draft("merhaba"))
	require.NoError(t, err)
	second, err := store.Send(draft("nasılsın"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	messages := store.List("general")
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, second.ID, messages[1].ID)

	persist.mtx.Lock()
	defer persist.mtx.Unlock()
	assert.Len(t, persist.inserted, 2)
}

func TestSendRejectsEmptyDraft(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Send(draft("   "))
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Empty(t, store.List("general"))
}

func TestSendKeepsLocalAppendOnWriteFailure(t *testing.T) {
	store, persist, _ := newTestStore(t)
	persist.failWrites = true

	message, err := store.Send(draft("merhaba"))
	assert.ErrorIs(t, err, ErrPersistenceWrite)

	// The optimistic append stands despite the failed write.
	messages := store.List("general")
	require.Len(t, messages, 1)
	assert.Equal(t, message.ID, messages[0].ID)
}

func TestEditOnlyByOriginalSender(t *testing.T) {
	store, _, _ := newTestStore(t)

	message, err := store.Send(draft("ilk hali"))
	require.NoError(t, err)

	_, err = store.Edit(message.ID, "u-baris", "başkası")
	assert.ErrorIs(t, err, ErrNotSender)

	edited, err := store.Edit(message.ID, "me", "yeni hali")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	assert.NotNil(t, edited.EditedAt)
	assert.Equal(t, "yeni hali", edited.Content)
}

func TestDeleteDoesNotCascadeToReplies(t *testing.T) {
	store, _, _ := newTestStore(t)

	parent, err := store.Send(draft("silinecek mesaj"))
	require.NoError(t, err)

	reply, err := store.Reply(parent.ID, draft("cevap"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(parent.ID))

	_, err = store.Get(parent.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	// The reply survives, its snapshot ref dangling but intact.
	kept, err := store.Get(reply.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.ReplyTo)
	assert.Equal(t, parent.ID, kept.ReplyTo.MessageID)
}

func TestReplyExcerptIsASnapshot(t *testing.T) {
	store, _, _ := newTestStore(t)

	long := strings.Repeat("uzun içerik ", 20)
	parent, err := store.Send(draft(long))
	require.NoError(t, err)

	reply, err := store.Reply(parent.ID, draft("cevap"))
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyTo)
	assert.LessOrEqual(t, len([]rune(reply.ReplyTo.ContentExcerpt)), 103)
	assert.True(t, strings.HasSuffix(reply.ReplyTo.ContentExcerpt, "..."))

	// Editing the parent must not rewrite the captured excerpt.
	_, err = store.Edit(parent.ID, "me", "kısaldı")
	require.NoError(t, err)
	kept, err := store.Get(reply.ID)
	require.NoError(t, err)
	assert.Equal(t, reply.ReplyTo.ContentExcerpt, kept.ReplyTo.ContentExcerpt)
}

func TestTogglePinHasNoLimit(t *testing.T) {
	store, _, _ := newTestStore(t)

	var pinned []models.ChatMessage
	for _, content := range []string{"bir", "iki", "üç"} {
		message, err := store.Send(draft(content))
		require.NoError(t, err)
		message, err = store.TogglePin(message.ID)
		require.NoError(t, err)
		assert.True(t, message.IsPinned)
		pinned = append(pinned, message)
	}

	assert.Len(t, store.Pinned("general"), len(pinned))

	unpinned, err := store.TogglePin(pinned[0].ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
}

func TestSendRunsAutomationEndToEnd(t *testing.T) {
	store, _, engine := newTestStore(t)
	engine.AddResponse(models.AutoResponse{
		ID:       "resp-support",
		Trigger:  "yardım",
		Response: "Destek ekibine yönlendirildiniz",
		Enabled:  true,
	})

	message, err := store.Send(draft("yardım lütfen"))
	require.NoError(t, err)
	assert.Equal(t, "destek", message.Category)

	// The sender's message is visible immediately.
	require.Len(t, store.List("general"), 1)

	// The synthetic reply lands after the fixed delay.
	require.Eventually(t, func() bool {
		return len(store.List("general")) == 2
	}, time.Second, 5*time.Millisecond)

	messages := store.List("general")
	system := messages[1]
	assert.Equal(t, models.SenderSystem, system.SenderID)
	assert.Equal(t, models.MessageKindSystem, system.Kind)
	assert.Equal(t, "Destek ekibine yönlendirildiniz", system.Content)
}
