package compose

import (
	"testing"

	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUsers = []models.User{
	{ID: "u-ayse", Name: "Ayşe Yıldız", Role: "Yönetici"},
	{ID: "u-aylin", Name: "Aylin Koç", Role: "Destek"},
	{ID: "u-baris", Name: "Barış Demir", Role: "Destek"},
}

var testPhrases = []string{
	"Toplantı notlarını paylaşır mısınız?",
	"Proje durumu nedir?",
}

func newTestComposer(selection SelectionPort) *Composer {
	return New(testUsers, testPhrases, selection)
}

func TestMentionDetection(t *testing.T) {
	c := newTestComposer(nil)

	// A bare '@' closes the list.
	c.SetText("Merhaba @", 9)
	assert.False(t, c.MentionOpen())

	c.SetText("Merhaba @Ay", 11)
	require.True(t, c.MentionOpen())
	suggestions := c.MentionSuggestions()
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Ayşe Yıldız", suggestions[0].Name)
	assert.Equal(t, "Aylin Koç", suggestions[1].Name)

	// Whitespace after the '@' closes the context.
	c.SetText("Merhaba @Ay nasılsın", 20)
	assert.False(t, c.MentionOpen())
}

func TestMentionMatchesRoleToo(t *testing.T) {
	c := newTestComposer(nil)

	c.SetText("@destek", 7)
	require.True(t, c.MentionOpen())
	suggestions := c.MentionSuggestions()
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Aylin Koç", suggestions[0].Name)
	assert.Equal(t, "Barış Demir", suggestions[1].Name)
}

func TestMentionCommitSplicesAtMentionStart(t *testing.T) {
	c := newTestComposer(nil)

	c.SetText("Merhaba @Ay, hoş geldin", 11)
	require.True(t, c.MentionOpen())

	require.True(t, c.Commit())
	assert.Equal(t, "Merhaba @Ayşe Yıldız , hoş geldin", c.Text())

	// Cursor sits right after the inserted mention.
	inserted := len([]rune("Merhaba @Ayşe Yıldız "))
	assert.Equal(t, inserted, c.Cursor())
	assert.False(t, c.MentionOpen())
}

func TestMentionSelectionWrapsAndCommitsIndexed(t *testing.T) {
	c := newTestComposer(nil)

	c.SetText("@Ay", 3)
	require.True(t, c.MentionOpen())
	require.Len(t, c.MentionSuggestions(), 2)

	c.MoveDown()
	assert.Equal(t, 1, c.SelectedIndex())
	c.MoveDown()
	assert.Equal(t, 0, c.SelectedIndex())
	c.MoveUp()
	assert.Equal(t, 1, c.SelectedIndex())

	require.True(t, c.Commit())
	assert.Equal(t, "@Aylin Koç ", c.Text())
}

func TestDismissKeepsText(t *testing.T) {
	c := newTestComposer(nil)

	c.SetText("@Ay", 3)
	require.True(t, c.MentionOpen())

	c.Dismiss()
	assert.False(t, c.MentionOpen())
	assert.Equal(t, "@Ay", c.Text())
	assert.False(t, c.Commit())
}

func TestPhraseAutocompleteDisplacesMentions(t *testing.T) {
	c := newTestComposer(nil)

	c.SetText("@Ay", 3)
	require.True(t, c.MentionOpen())

	c.TriggerAutocomplete()
	assert.False(t, c.MentionOpen())
	// Nothing in the draft narrows the phrase list down to zero.
	assert.Empty(t, c.PhraseSuggestions())

	c.SetText("proje", 5)
	c.TriggerAutocomplete()
	require.Len(t, c.PhraseSuggestions(), 1)

	require.True(t, c.Commit())
	assert.Equal(t, "Proje durumu nedir?", c.Text())
}

func TestApplyStyleRequiresSelection(t *testing.T) {
	selection := &SelectionState{}
	c := newTestComposer(selection)
	c.SetText("kalın yazı", 10)

	// No selection: silent no-op.
	c.ApplyStyle(StyleBold)
	assert.Equal(t, "kalın yazı", c.Text())

	selection.Set(0, 5)
	c.ApplyStyle(StyleBold)
	assert.Equal(t, "**kalın** yazı", c.Text())
}

func TestApplyStyleWrapsOnlySelection(t *testing.T) {
	selection := &SelectionState{}
	c := newTestComposer(selection)
	c.SetText("önce kod sonra", 14)

	selection.Set(5, 8)
	c.ApplyStyle(StyleCode)
	assert.Equal(t, "önce `kod` sonra", c.Text())
}

func TestCanSubmit(t *testing.T) {
	c := newTestComposer(nil)

	assert.False(t, c.CanSubmit())

	c.SetText("   ", 3)
	assert.False(t, c.CanSubmit())

	c.SetText("<p><br></p>", 11)
	assert.False(t, c.CanSubmit())

	c.SetText("merhaba", 7)
	assert.True(t, c.CanSubmit())
}

func TestMentionsRequireNameBoundary(t *testing.T) {
	users := []models.User{
		{ID: "u-ay", Name: "Ay", Role: "Destek"},
		{ID: "u-ayse", Name: "Ayşe Yıldız", Role: "Yönetici"},
	}
	c := New(users, nil, nil)

	// "Ay" sits inside "@Ayşe Yıldız"; only the full mention resolves.
	c.SetText("Merhaba @Ayşe Yıldız nasılsın", 28)
	assert.Equal(t, []string{"u-ayse"}, c.Mentions())

	c.SetText("Merhaba @Ay nasılsın", 20)
	assert.Equal(t, []string{"u-ay"}, c.Mentions())

	// A mention ending the draft still counts.
	c.SetText("Merhaba @Ay", 11)
	assert.Equal(t, []string{"u-ay"}, c.Mentions())

	// Punctuation is a boundary too.
	c.SetText("@Ay, merhaba", 12)
	assert.Equal(t, []string{"u-ay"}, c.Mentions())
}

func TestConsumeDraftCollectsMentions(t *testing.T) {
	c := newTestComposer(nil)

	c.SetText("Merhaba @Ay", 11)
	require.True(t, c.Commit())

	text, mentions := c.ConsumeDraft()
	assert.Equal(t, "Merhaba @Ayşe Yıldız ", text)
	assert.Equal(t, []string{"u-ayse"}, mentions)

	assert.Empty(t, c.Text())
	assert.False(t, c.CanSubmit())
}
