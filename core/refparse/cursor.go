package refparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// cursor is a backtrackable position over the source text. Grammar
// rules consume input through it; a failed rule restores the position
// it saved on entry.
type cursor struct {
	src string
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

// skipSpaces advances past Unicode whitespace.
func (c *cursor) skipSpaces() {
	for c.pos < len(c.src) {
		r, size := utf8.DecodeRuneInString(c.src[c.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		c.pos += size
	}
}

// matchInt consumes a decimal integer, skipping leading whitespace.
// Runs longer than eight digits are rejected rather than overflowed.
func (c *cursor) matchInt() (int, bool) {
	save := c.pos
	c.skipSpaces()
	start := c.pos
	for c.pos < len(c.src) && c.src[c.pos] >= '0' && c.src[c.pos] <= '9' {
		c.pos++
	}
	if c.pos == start || c.pos-start > 8 {
		c.pos = save
		return 0, false
	}
	n := 0
	for _, b := range []byte(c.src[start:c.pos]) {
		n = n*10 + int(b-'0')
	}
	return n, true
}

// matchSubverse consumes a subverse suffix: one or two lowercase ASCII
// letters not followed by another lowercase letter. It does not skip
// leading whitespace; a subverse must immediately follow its verse.
func (c *cursor) matchSubverse() (string, bool) {
	start := c.pos
	end := start
	for end < len(c.src) && c.src[end] >= 'a' && c.src[end] <= 'z' {
		end++
	}
	n := end - start
	if n < 1 || n > 2 {
		return "", false
	}
	c.pos = end
	return c.src[start:end], true
}

// matchLiteral consumes the given token, skipping leading whitespace.
// The token is matched with its surrounding whitespace trimmed, so a
// separator like "; " matches "...9;2..." and "...9 ; 2..." alike.
func (c *cursor) matchLiteral(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	save := c.pos
	c.skipSpaces()
	if !strings.HasPrefix(c.src[c.pos:], tok) {
		c.pos = save
		return false
	}
	c.pos += len(tok)
	return true
}

// matchAnyLiteral consumes the first of the given tokens that matches.
func (c *cursor) matchAnyLiteral(toks []string) bool {
	for _, tok := range toks {
		if c.matchLiteral(tok) {
			return true
		}
	}
	return false
}
