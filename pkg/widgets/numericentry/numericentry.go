package numericentry

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// Widget is an Entry that only accepts numbers, used for the glucose
// threshold fields.
type Widget struct {
	widget.Entry
}

func New() *Widget {
	entry := &Widget{}
	entry.ExtendBaseWidget(entry)
	return entry
}

func (e *Widget) TypedRune(r rune) {
	if (r >= '0' && r <= '9') || r == '.' || r == ',' {
		e.Entry.TypedRune(r)
	}
}

func (e *Widget) TypedShortcut(shortcut fyne.Shortcut) {
	paste, ok := shortcut.(*fyne.ShortcutPaste)
	if !ok {
		e.Entry.TypedShortcut(shortcut)
		return
	}

	content := paste.Clipboard.Content()
	if _, err := strconv.ParseFloat(content, 64); err == nil {
		e.Entry.TypedShortcut(shortcut)
	}
}

// Value parses the entry, falling back when empty or unparsable.
func (e *Widget) Value(fallback float64) float64 {
	v, err := strconv.ParseFloat(e.Text, 64)
	if err != nil {
		return fallback
	}
	return v
}

// SetValue renders v without trailing decimals for whole numbers.
func (e *Widget) SetValue(v float64) {
	e.SetText(strconv.FormatFloat(v, 'f', -1, 64))
}
