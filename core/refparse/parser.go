// Package refparse parses Bible references written in a particular
// style. A Parser is compiled from a style and a versification; it can
// check whole strings with ParseSimple or pick references out of
// running text with ScanString.
package refparse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/versiref/core/style"
	"github.com/FocuswithJustin/versiref/core/versification"
)

// ParseError reports text that does not form a complete reference.
// Parsing is all or nothing, so the error carries the whole input.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("text does not match a Bible reference: %q", e.Text)
}

// bookName pairs a recognized name with the book it identifies.
type bookName struct {
	name string
	id   string
}

// Parser recognizes references in one style. It is safe for concurrent
// use once built.
type Parser struct {
	style *style.Style
	vers  *versification.Versification

	strict bool

	// Recognized names sorted longest first, so that "1 John" is
	// tried before "John" and "Judges" before "Jude".
	books   []bookName
	scBooks []bookName

	rangeSeps []string

	// First bytes of recognized names, used by ScanString to skip
	// positions that cannot start a reference.
	nameStart [256]bool
}

// Option configures a Parser.
type Option func(*Parser)

// Strict restricts range separators to the one the style defines.
// Without it the parser also accepts "-" and "–", which covers
// most text found in the wild.
func Strict() Option {
	return func(p *Parser) { p.strict = true }
}

// New compiles a parser for the given style. The versification decides
// which books are treated as single-chapter, so that "Jude 4" reads as
// verse 4 rather than chapter 4.
func New(st *style.Style, v *versification.Versification, opts ...Option) *Parser {
	p := &Parser{style: st, vers: v}
	for _, opt := range opts {
		opt(p)
	}

	for name, id := range st.RecognizedNames {
		if name == "" {
			continue
		}
		p.books = append(p.books, bookName{name: name, id: id})
		if v.IsSingleChapter(id) {
			p.scBooks = append(p.scBooks, bookName{name: name, id: id})
		}
		p.nameStart[name[0]] = true
	}
	sortBooks(p.books)
	sortBooks(p.scBooks)

	p.rangeSeps = []string{st.RangeSeparator}
	if !p.strict {
		for _, sep := range []string{"-", "–"} {
			if sep != st.RangeSeparator {
				p.rangeSeps = append(p.rangeSeps, sep)
			}
		}
	}
	sort.SliceStable(p.rangeSeps, func(i, j int) bool {
		return len(p.rangeSeps[i]) > len(p.rangeSeps[j])
	})

	return p
}

func sortBooks(books []bookName) {
	sort.Slice(books, func(i, j int) bool {
		if len(books[i].name) != len(books[j].name) {
			return len(books[i].name) > len(books[j].name)
		}
		if books[i].name != books[j].name {
			return books[i].name < books[j].name
		}
		return books[i].id < books[j].id
	})
}

// matchBook matches the longest recognized name at the cursor.
func (p *Parser) matchBook(c *cursor, books []bookName) (string, bool) {
	save := c.pos
	c.skipSpaces()
	rest := c.src[c.pos:]
	for _, b := range books {
		if strings.HasPrefix(rest, b.name) {
			c.pos += len(b.name)
			return b.id, true
		}
	}
	c.pos = save
	return "", false
}
