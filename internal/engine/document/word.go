package document

import "strings"

// WordRange returns the word-boundary range enclosing offset.
// A word is a run of alphanumeric or underscore characters. If offset
// is not inside a word, the nearest word on the same line is used:
// first looking backward, then forward. Returns ok == false when the
// line contains no word at all.
func (d *Document) WordRange(offset int) (start, end int, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	text := d.text
	offset = clampOffset(offset, len(text))

	lineStart := 0
	if i := strings.LastIndexByte(text[:offset], '\n'); i >= 0 {
		lineStart = i + 1
	}
	lineEnd := len(text)
	for i := offset; i < len(text); i++ {
		if text[i] == '\n' {
			lineEnd = i
			break
		}
	}

	// Inside or immediately after a word.
	at := offset
	if at > lineStart && (at >= lineEnd || !isWordChar(rune(text[at]))) && isWordChar(rune(text[at-1])) {
		at--
	}
	if at < lineEnd && isWordChar(rune(text[at])) {
		return expandWord(text, at, lineStart, lineEnd)
	}

	// Nearest word backward on the line.
	for i := at - 1; i >= lineStart; i-- {
		if isWordChar(rune(text[i])) {
			return expandWord(text, i, lineStart, lineEnd)
		}
	}

	// Nearest word forward on the line.
	for i := at; i < lineEnd; i++ {
		if isWordChar(rune(text[i])) {
			return expandWord(text, i, lineStart, lineEnd)
		}
	}

	return 0, 0, false
}

// expandWord grows from a position known to be inside a word to the
// full word extent within the line.
func expandWord(text string, at, lineStart, lineEnd int) (int, int, bool) {
	start := at
	for start > lineStart && isWordChar(rune(text[start-1])) {
		start--
	}
	end := at
	for end < lineEnd && isWordChar(rune(text[end])) {
		end++
	}
	return start, end, true
}

// isWordChar returns true if r is a word character (alphanumeric or underscore).
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_'
}
