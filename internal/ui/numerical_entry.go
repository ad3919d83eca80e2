package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts the digits 0-9, typed or
// pasted. Range checks belong to its Validator.
type NumericalEntry struct {
	widget.Entry
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops anything that is not a digit.
func (e *NumericalEntry) TypedRune(r rune) {
	if isDigit(r) {
		e.Entry.TypedRune(r)
	}
}

// TypedShortcut inserts only the digits of pasted text. Other shortcuts
// keep their default behavior.
func (e *NumericalEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok || paste.Clipboard == nil {
		e.Entry.TypedShortcut(s)
		return
	}
	for _, r := range paste.Clipboard.Content() {
		if isDigit(r) {
			e.Entry.TypedRune(r)
		}
	}
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
