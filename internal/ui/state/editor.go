package state

import "unicode"

// LineEditor is a single-line text buffer with a rune cursor, used by the
// search prompt and dialogs.
type LineEditor struct {
	Text   string
	Cursor int
}

// Set replaces the text and clamps the cursor.
func (e *LineEditor) Set(text string, cursor int) {
	e.Text = text
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	e.Cursor = cursor
}

// SetEnd replaces the text and moves the cursor to its end.
func (e *LineEditor) SetEnd(text string) {
	e.Set(text, len([]rune(text)))
}

// Clear empties the buffer.
func (e *LineEditor) Clear() {
	e.Text = ""
	e.Cursor = 0
}

// Pos returns the rune offset of the cursor.
func (e *LineEditor) Pos() int {
	runes := []rune(e.Text)
	if e.Cursor < 0 {
		return 0
	}
	if e.Cursor > len(runes) {
		return len(runes)
	}
	return e.Cursor
}

// Insert inserts text at the cursor.
func (e *LineEditor) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(e.Text)
	pos := e.Pos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	e.Set(string(updated), pos+len(insert))
	return true
}

// DeleteBackward deletes the rune before the cursor.
func (e *LineEditor) DeleteBackward() bool {
	runes := []rune(e.Text)
	pos := e.Pos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1], runes[pos:]...)
	e.Set(string(updated), pos-1)
	return true
}

// DeleteWordBackward deletes the word preceding the cursor.
func (e *LineEditor) DeleteWordBackward() bool {
	runes := []rune(e.Text)
	pos := e.Pos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	updated := append(runes[:i], runes[pos:]...)
	e.Set(string(updated), i)
	return true
}

// DeleteToStart deletes everything before the cursor.
func (e *LineEditor) DeleteToStart() bool {
	pos := e.Pos()
	if pos == 0 {
		return false
	}
	e.Set(string([]rune(e.Text)[pos:]), 0)
	return true
}

// MoveStart moves the cursor to the start.
func (e *LineEditor) MoveStart() bool {
	if e.Pos() == 0 {
		return false
	}
	e.Cursor = 0
	return true
}

// MoveEnd moves the cursor to the end.
func (e *LineEditor) MoveEnd() bool {
	end := len([]rune(e.Text))
	if e.Pos() == end {
		return false
	}
	e.Cursor = end
	return true
}

// MoveWordBackward moves the cursor one word backward.
func (e *LineEditor) MoveWordBackward() bool {
	runes := []rune(e.Text)
	pos := e.Pos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	if i == pos {
		return false
	}
	e.Cursor = i
	return true
}

// MoveWordForward moves the cursor one word forward.
func (e *LineEditor) MoveWordForward() bool {
	runes := []rune(e.Text)
	pos := e.Pos()
	if pos >= len(runes) {
		return false
	}
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i == pos {
		return false
	}
	e.Cursor = i
	return true
}

// MoveBackward moves the cursor one rune backward.
func (e *LineEditor) MoveBackward() bool {
	if e.Pos() == 0 {
		return false
	}
	e.Cursor = e.Pos() - 1
	return true
}

// MoveForward moves the cursor one rune forward.
func (e *LineEditor) MoveForward() bool {
	if e.Pos() >= len([]rune(e.Text)) {
		return false
	}
	e.Cursor = e.Pos() + 1
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}
