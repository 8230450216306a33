package compose

type Style = string

const (
	StyleBold   = "bold"
	StyleItalic = "italic"
	StyleCode   = "code"
	StyleQuote  = "quote"
	StyleList   = "list"
)

var styleMarkers = map[Style][2]string{
	StyleBold:   {"**", "**"},
	StyleItalic: {"*", "*"},
	StyleCode:   {"`", "`"},
	StyleQuote:  {"> ", ""},
	StyleList:   {"- ", ""},
}

// ApplyStyle wraps exactly the current selection in the style's inline
// markers, leaving the rest of the draft untouched. Without a selection
// (or with an unknown style) it is a silent no-op.
func (c *Composer) ApplyStyle(style Style) {
	markers, ok := styleMarkers[style]
	if !ok {
		return
	}
	if c.selection == nil {
		return
	}
	start, end, ok := c.selection.Selection()
	if !ok || start >= end {
		return
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if start < 0 {
		start = 0
	}
	if end > len(c.text) {
		end = len(c.text)
	}
	if start >= end {
		return
	}

	prefix := []rune(markers[0])
	suffix := []rune(markers[1])

	wrapped := make([]rune, 0, len(c.text)+len(prefix)+len(suffix))
	wrapped = append(wrapped, c.text[:start]...)
	wrapped = append(wrapped, prefix...)
	wrapped = append(wrapped, c.text[start:end]...)
	wrapped = append(wrapped, suffix...)
	wrapped = append(wrapped, c.text[end:]...)

	c.text = wrapped
	c.cursor = end + len(prefix) + len(suffix)
}
