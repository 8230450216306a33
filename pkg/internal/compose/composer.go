package compose

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/samber/lo"
)

// SelectionPort exposes the current text selection range of the editor
// surface. An absent selection is a valid state, not an error.
type SelectionPort interface {
	Selection() (start, end int, ok bool)
}

type suggestMode int

const (
	modeNone suggestMode = iota
	modeMention
	modePhrase
)

// sentinelEmpty is what rich editors report for a cleared buffer; a draft
// equal to it is as unsendable as an empty one.
const sentinelEmpty = "<p><br></p>"

// Composer owns the in-progress draft: the text buffer, the cursor, the
// mention suggestion context and the phrase autocomplete context. Only
// one of the two suggestion lists is shown at a time; the most recently
// triggered wins.
type Composer struct {
	mtx       sync.Mutex
	users     []models.User
	phrases   []string
	selection SelectionPort

	text   []rune
	cursor int

	mode          suggestMode
	mentionStart  int
	mentionQuery  string
	userChoices   []models.User
	phraseChoices []string
	index         int
}

func New(users []models.User, phrases []string, selection SelectionPort) *Composer {
	return &Composer{users: users, phrases: phrases, selection: selection}
}

func (c *Composer) Text() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return string(c.text)
}

func (c *Composer) Cursor() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.cursor
}

// SetText replaces the buffer after an input change and re-runs mention
// detection from the new cursor position. Offsets are rune-based.
func (c *Composer) SetText(text string, cursor int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.text = []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(c.text) {
		cursor = len(c.text)
	}
	c.cursor = cursor
	c.refreshSuggestions()
}

// Insert types a fragment at the cursor.
func (c *Composer) Insert(fragment string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	runes := []rune(fragment)
	c.text = append(c.text[:c.cursor], append(runes, c.text[c.cursor:]...)...)
	c.cursor += len(runes)
	c.refreshSuggestions()
}

// refreshSuggestions scans backward from the cursor for the nearest `@`
// not closed by whitespace. A non-empty query with matches opens the
// mention list; a bare `@` closes it. When no mention context exists, a
// live phrase context is re-filtered instead of dropped.
func (c *Composer) refreshSuggestions() {
	wasPhrase := c.mode == modePhrase
	c.closeSuggestionsLocked()

	for offset := c.cursor - 1; offset >= 0; offset-- {
		r := c.text[offset]
		if unicode.IsSpace(r) {
			break
		}
		if r != '@' {
			continue
		}

		query := string(c.text[offset+1 : c.cursor])
		if len(query) == 0 {
			return
		}
		choices := filterUsers(c.users, query)
		if len(choices) == 0 {
			return
		}
		c.mode = modeMention
		c.mentionStart = offset
		c.mentionQuery = query
		c.userChoices = choices
		return
	}

	if wasPhrase {
		c.openPhrasesLocked()
	}
}

func filterUsers(users []models.User, query string) []models.User {
	query = strings.ToLower(query)
	return lo.Filter(users, func(user models.User, _ int) bool {
		return strings.Contains(strings.ToLower(user.Name), query) ||
			strings.Contains(strings.ToLower(user.Role), query)
	})
}

func (c *Composer) closeSuggestionsLocked() {
	c.mode = modeNone
	c.userChoices = nil
	c.phraseChoices = nil
	c.mentionQuery = ""
	c.index = 0
}

// MentionOpen reports whether the mention list is currently shown.
func (c *Composer) MentionOpen() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.mode == modeMention
}

func (c *Composer) MentionSuggestions() []models.User {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	out := make([]models.User, len(c.userChoices))
	copy(out, c.userChoices)
	return out
}

func (c *Composer) SelectedIndex() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.index
}

// MoveUp and MoveDown move the bounded, wrapping selection index over
// whichever suggestion list is active.

func (c *Composer) MoveUp() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if size := c.choicesLenLocked(); size > 0 {
		c.index = (c.index - 1 + size) % size
	}
}

func (c *Composer) MoveDown() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if size := c.choicesLenLocked(); size > 0 {
		c.index = (c.index + 1) % size
	}
}

func (c *Composer) choicesLenLocked() int {
	switch c.mode {
	case modeMention:
		return len(c.userChoices)
	case modePhrase:
		return len(c.phraseChoices)
	default:
		return 0
	}
}

// Commit applies the currently indexed suggestion (Enter/Tab). A mention
// commit splices `@Full Name ` over the partial query, starting at the
// recorded `@`, and leaves the cursor right after the inserted text.
func (c *Composer) Commit() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	switch c.mode {
	case modeMention:
		user := c.userChoices[c.index]
		inserted := []rune("@" + user.Name + " ")
		c.text = append(c.text[:c.mentionStart], append(inserted, c.text[c.cursor:]...)...)
		c.cursor = c.mentionStart + len(inserted)
		c.closeSuggestionsLocked()
		return true
	case modePhrase:
		phrase := []rune(c.phraseChoices[c.index])
		c.text = phrase
		c.cursor = len(phrase)
		c.closeSuggestionsLocked()
		return true
	default:
		return false
	}
}

// Dismiss closes the active suggestion list without committing (Escape).
func (c *Composer) Dismiss() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.closeSuggestionsLocked()
}

// TriggerAutocomplete opens the phrase list against the whole draft,
// displacing any mention list.
func (c *Composer) TriggerAutocomplete() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.closeSuggestionsLocked()
	c.openPhrasesLocked()
}

func (c *Composer) openPhrasesLocked() {
	needle := strings.ToLower(strings.TrimSpace(string(c.text)))
	choices := lo.Filter(c.phrases, func(phrase string, _ int) bool {
		return len(needle) == 0 || strings.Contains(strings.ToLower(phrase), needle)
	})
	if len(choices) == 0 {
		return
	}
	c.mode = modePhrase
	c.phraseChoices = choices
	if c.index >= len(choices) {
		c.index = 0
	}
}

func (c *Composer) PhraseSuggestions() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	out := make([]string, len(c.phraseChoices))
	copy(out, c.phraseChoices)
	return out
}

// CanSubmit reports whether the draft is sendable: non-empty and not the
// editor's empty sentinel.
func (c *Composer) CanSubmit() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	trimmed := strings.TrimSpace(string(c.text))
	return len(trimmed) > 0 && trimmed != sentinelEmpty
}

// Mentions resolves the user ids currently referenced by `@Name` tokens
// in the draft. Scanning at submit time keeps the set honest after
// manual deletions inside committed mentions.
func (c *Composer) Mentions() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	text := string(c.text)
	var out []string
	for _, user := range c.users {
		if mentioned(text, user.Name) {
			out = append(out, user.ID)
		}
	}
	return out
}

// mentioned reports whether `@Name` occurs followed by a word boundary,
// so a user whose name prefixes another's never fires inside the longer
// mention.
func mentioned(text, name string) bool {
	token := "@" + name
	for offset := 0; ; {
		hit := strings.Index(text[offset:], token)
		if hit < 0 {
			return false
		}
		rest := text[offset+hit+len(token):]
		if len(rest) == 0 {
			return true
		}
		if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
		offset += hit + len(token)
	}
}

// ConsumeDraft hands the buffer over for sending and resets the engine.
func (c *Composer) ConsumeDraft() (text string, mentions []string) {
	text = c.Text()
	mentions = c.Mentions()
	c.mtx.Lock()
	c.text = nil
	c.cursor = 0
	c.closeSuggestionsLocked()
	c.mtx.Unlock()
	return text, mentions
}
