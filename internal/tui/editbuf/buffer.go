// Package editbuf implements the single-line text buffer behind the sidebar's
// add and edit modes. Offsets are rune indexes; every operation keeps
// 0 <= cursor <= Len().
package editbuf

import (
	"strings"
	"unicode"
)

// Buffer is an editable run of text with a cursor. The zero value is empty.
type Buffer struct {
	text   []rune
	cursor int
}

// New returns a buffer holding s with the cursor at the end.
func New(s string) *Buffer {
	b := &Buffer{}
	b.Set(s)
	return b
}

// Set replaces the content and moves the cursor to the end.
func (b *Buffer) Set(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.text = nil
	b.cursor = 0
}

// String returns the content.
func (b *Buffer) String() string { return string(b.text) }

// Runes returns the content as runes. The slice must not be modified.
func (b *Buffer) Runes() []rune { return b.text }

// Len returns the content length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the cursor offset.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor moves the cursor, clamped to the content.
func (b *Buffer) SetCursor(pos int) {
	b.cursor = max(0, min(pos, len(b.text)))
}

// AtEnd reports whether the cursor sits after the last rune.
func (b *Buffer) AtEnd() bool { return b.cursor == len(b.text) }

// Insert places s at the cursor and advances past it. Tabs and newlines
// become spaces; other control characters are discarded.
func (b *Buffer) Insert(s string) {
	ins := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' {
			r = ' '
		}
		if unicode.IsControl(r) {
			continue
		}
		ins = append(ins, r)
	}
	if len(ins) == 0 {
		return
	}

	text := make([]rune, 0, len(b.text)+len(ins))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, ins...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(ins)
}

// Backspace removes the rune before the cursor.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// Delete removes the rune under the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// Left moves one rune left.
func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// Right moves one rune right.
func (b *Buffer) Right() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.cursor++
	return true
}

// Home moves to the start.
func (b *Buffer) Home() bool {
	moved := b.cursor != 0
	b.cursor = 0
	return moved
}

// End moves to the end.
func (b *Buffer) End() bool {
	moved := b.cursor != len(b.text)
	b.cursor = len(b.text)
	return moved
}

// WordLeft moves to the start of the previous word.
func (b *Buffer) WordLeft() bool {
	pos := b.wordStartBefore(b.cursor)
	moved := pos != b.cursor
	b.cursor = pos
	return moved
}

// WordRight moves past the end of the next word.
func (b *Buffer) WordRight() bool {
	pos := b.cursor
	for pos < len(b.text) && isSpace(b.text[pos]) {
		pos++
	}
	for pos < len(b.text) && !isSpace(b.text[pos]) {
		pos++
	}
	moved := pos != b.cursor
	b.cursor = pos
	return moved
}

// KillToStart deletes everything before the cursor.
func (b *Buffer) KillToStart() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append([]rune(nil), b.text[b.cursor:]...)
	b.cursor = 0
	return true
}

// KillToEnd deletes everything from the cursor on.
func (b *Buffer) KillToEnd() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = b.text[:b.cursor]
	return true
}

// KillWord deletes the word before the cursor, including trailing spaces
// between it and the cursor.
func (b *Buffer) KillWord() bool {
	start := b.wordStartBefore(b.cursor)
	if start == b.cursor {
		return false
	}
	b.text = append(b.text[:start], b.text[b.cursor:]...)
	b.cursor = start
	return true
}

func (b *Buffer) wordStartBefore(pos int) int {
	for pos > 0 && isSpace(b.text[pos-1]) {
		pos--
	}
	for pos > 0 && !isSpace(b.text[pos-1]) {
		pos--
	}
	return pos
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// Trimmed returns the content with surrounding whitespace removed.
func (b *Buffer) Trimmed() string {
	return strings.TrimSpace(string(b.text))
}
