// Package versification models the division of Bible books into
// chapters and verses. A Versification answers, per book and chapter,
// the number of the last verse, and whether a book has exactly one
// chapter. Instances are immutable after construction and safe to
// share across goroutines.
package versification

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

//go:embed data/*.json
var standardFS embed.FS

// ErrUnknownStandard is returned when a standard versification
// identifier is not recognized.
var ErrUnknownStandard = errors.New("unknown standard versification")

// emptyLastVerse is the sentinel answered by a degenerate (empty)
// Versification, which accepts any verse rather than failing.
const emptyLastVerse = 99

// Versification represents a way of dividing the text of the Bible
// into chapters and verses.
//
// Book IDs use Paratext three-letter codes (e.g., "GEN", "JHN").
type Versification struct {
	maxVerses  map[string][]int
	identifier string
}

// sourceData is the JSON shape consumed by FromData.
type sourceData struct {
	MaxVerses map[string][]int `json:"maxVerses"`
}

// New returns a degenerate Versification with no verse table.
// Its LastVerse answers 99 for every book and chapter, supporting
// loose validation contexts where no real table is available.
func New() *Versification {
	return &Versification{}
}

// FromData creates a Versification from JSON data containing a
// maxVerses object mapping book IDs to per-chapter maximum verse
// numbers, chapter 1 first.
func FromData(data []byte, identifier string) (*Versification, error) {
	var src sourceData
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("invalid versification data: %w", err)
	}
	if src.MaxVerses == nil {
		return nil, fmt.Errorf("invalid versification data: missing maxVerses")
	}
	for book, chapters := range src.MaxVerses {
		if len(chapters) == 0 {
			return nil, fmt.Errorf("invalid versification data: book %s has no chapters", book)
		}
	}
	return &Versification{maxVerses: src.MaxVerses, identifier: identifier}, nil
}

// FromStandard creates a Versification from an embedded standard
// table (e.g., "eng"). The identifier is matched case-insensitively.
// Returns ErrUnknownStandard (wrapped) if no such table exists.
func FromStandard(identifier string) (*Versification, error) {
	filename := "data/" + strings.ToLower(identifier) + ".json"
	data, err := standardFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStandard, identifier)
	}
	return FromData(data, identifier)
}

// Identifier returns the identifier given at construction, or "" for
// an anonymous or degenerate Versification.
func (v *Versification) Identifier() string {
	return v.identifier
}

// LastVerse returns the number of the last verse of the given chapter
// of the given book, or -1 if the book or chapter is unknown.
// A degenerate Versification returns 99 for any book and chapter.
func (v *Versification) LastVerse(book string, chapter int) int {
	if len(v.maxVerses) == 0 {
		return emptyLastVerse
	}
	chapters, ok := v.maxVerses[book]
	if !ok {
		return -1
	}
	if chapter < 1 || chapter > len(chapters) {
		return -1
	}
	return chapters[chapter-1]
}

// IsSingleChapter reports whether the book has exactly one chapter.
// Unknown books (and all books of a degenerate Versification) report
// false.
func (v *Versification) IsSingleChapter(book string) bool {
	return len(v.maxVerses[book]) == 1
}

// Includes reports whether the book ID has an entry in this
// versification.
func (v *Versification) Includes(book string) bool {
	_, ok := v.maxVerses[book]
	return ok
}
