package suggest

import (
	"fmt"
	"strings"
)

// OffsetMap maps a sentence ordinal to the rune offset of the sentence's
// first character in the unmarked text.
type OffsetMap map[int]int

// Offset returns the offset of sentence n and whether it exists.
func (m OffsetMap) Offset(n int) (int, bool) {
	off, ok := m[n]
	return off, ok
}

// Marker returns the marker placed before sentence n.
func Marker(n int) string {
	return fmt.Sprintf("【%d】 ", n)
}

// IsBlank reports whether text has nothing worth checking.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// MarkSentences inserts a marker before the first character of every
// sentence. A sentence starts at the beginning of the text, at the beginning
// of any line, or after a period, an optional closing quote and a space.
// Blank text yields an empty result.
func MarkSentences(text string) (string, OffsetMap) {
	offsets := OffsetMap{}
	if IsBlank(text) {
		return "", offsets
	}

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 64)

	n := 0
	for i, r := range runes {
		if !isLineTerminator(r) && sentenceStart(runes, i) {
			offsets[n] = i
			b.WriteString(Marker(n))
			n++
		}
		b.WriteRune(r)
	}
	return b.String(), offsets
}

// sentenceStart reports whether position i follows a sentence boundary.
func sentenceStart(runes []rune, i int) bool {
	if i == 0 || isLineTerminator(runes[i-1]) {
		return true
	}
	if runes[i-1] != ' ' || i < 2 {
		return false
	}
	prev := runes[i-2]
	if prev == '.' {
		return true
	}
	return (prev == '"' || prev == '”') && i >= 3 && runes[i-3] == '.'
}

func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	}
	return false
}
