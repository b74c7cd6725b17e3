// Package style defines notation conventions for Bible references: the
// display name per book, the inverse table of recognized input
// spellings, and the punctuation tokens used for chapters, ranges, and
// "following verse(s)" notation.
//
// A Style holds data only. Formatting and parsing are done by core/ref
// and core/refparse, which consume a Style as a specification. Styles
// are immutable after construction and safe to share across
// goroutines.
package style

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

//go:embed data/book_names/*.json
var standardFS embed.FS

// ErrUnknownStandard is returned when a standard book-name-set
// identifier is not recognized.
var ErrUnknownStandard = errors.New("unknown standard book name set")

// Default separator tokens, shared by most English-language styles.
const (
	DefaultChapterVerseSeparator = ":"
	DefaultRangeSeparator        = "–" // en dash
	DefaultFollowingVerse        = "f"
	DefaultFollowingVerses       = "ff"
	DefaultVerseRangeSeparator   = ", "
	DefaultChapterSeparator      = "; "
)

// Style defines how a SimpleBibleRef is converted to and from strings.
//
// Names maps Paratext book IDs to display names or abbreviations.
// RecognizedNames is the inverse table used for parsing; it is built
// once at construction and may hold more spellings than Names (see
// AlsoRecognize). Do not mutate a Style after construction.
type Style struct {
	Names map[string]string

	// ChapterVerseSeparator separates a chapter number from its verses.
	ChapterVerseSeparator string
	// RangeSeparator separates the two ends of a range.
	RangeSeparator string
	// FollowingVerse marks a range ending at the verse after the start.
	FollowingVerse string
	// FollowingVerses marks an open-ended continuation from the start.
	FollowingVerses string
	// VerseRangeSeparator separates verse ranges within one chapter.
	VerseRangeSeparator string
	// ChapterSeparator separates verse ranges in different chapters.
	ChapterSeparator string

	RecognizedNames map[string]string
}

// Option configures a Style under construction.
type Option func(*Style)

// WithChapterVerseSeparator overrides the chapter/verse separator.
func WithChapterVerseSeparator(s string) Option {
	return func(st *Style) { st.ChapterVerseSeparator = s }
}

// WithRangeSeparator overrides the range separator.
func WithRangeSeparator(s string) Option {
	return func(st *Style) { st.RangeSeparator = s }
}

// WithFollowingVerse overrides the following-verse token.
func WithFollowingVerse(s string) Option {
	return func(st *Style) { st.FollowingVerse = s }
}

// WithFollowingVerses overrides the following-verses token.
func WithFollowingVerses(s string) Option {
	return func(st *Style) { st.FollowingVerses = s }
}

// WithVerseRangeSeparator overrides the verse-range separator.
func WithVerseRangeSeparator(s string) Option {
	return func(st *Style) { st.VerseRangeSeparator = s }
}

// WithChapterSeparator overrides the chapter separator.
func WithChapterSeparator(s string) Option {
	return func(st *Style) { st.ChapterSeparator = s }
}

// New creates a Style from a book-ID-to-name table. RecognizedNames is
// built by inverting the table; on collision the two known ambiguities
// (Psalms/Psalm-151 and Esther/Greek-Esther) are resolved by preferring
// the canonical ID, and any other collision is a configuration error.
func New(names map[string]string, opts ...Option) (*Style, error) {
	recognized, err := invert(names)
	if err != nil {
		return nil, err
	}
	s := &Style{
		Names:                 names,
		ChapterVerseSeparator: DefaultChapterVerseSeparator,
		RangeSeparator:        DefaultRangeSeparator,
		FollowingVerse:        DefaultFollowingVerse,
		FollowingVerses:       DefaultFollowingVerses,
		VerseRangeSeparator:   DefaultVerseRangeSeparator,
		ChapterSeparator:      DefaultChapterSeparator,
		RecognizedNames:       recognized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromStandard creates a Style from an embedded standard book-name set
// (e.g., "en-sbl_abbreviations").
func FromStandard(identifier string, opts ...Option) (*Style, error) {
	names, err := StandardNames(identifier)
	if err != nil {
		return nil, err
	}
	return New(names, opts...)
}

// StandardNames loads a standard set of book names from embedded data.
// The returned map is a fresh copy: callers may modify it to customize
// abbreviations before passing it to New without affecting other
// callers. Returns ErrUnknownStandard (wrapped) for unknown
// identifiers.
func StandardNames(identifier string) (map[string]string, error) {
	data, err := standardFS.ReadFile("data/book_names/" + identifier + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStandard, identifier)
	}
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("standard book name set %q: %w", identifier, err)
	}
	return names, nil
}

// AlsoRecognize merges additional name-to-ID entries into
// RecognizedNames as a left-biased merge: a name already recognized
// keeps its first-registered ID. The given table maps book IDs to
// names, like Names. Intended for use during construction only; a
// Style must not be mutated once shared.
func (s *Style) AlsoRecognize(names map[string]string) {
	for id, name := range names {
		if _, ok := s.RecognizedNames[name]; !ok {
			s.RecognizedNames[name] = id
		}
	}
}

// knownCollisions resolves the two book pairs that legitimately share
// an abbreviation. This is a domain policy, not a general mechanism:
// Psalms absorbs Psalm 151, Esther absorbs Greek Esther.
var knownCollisions = map[[2]string]string{
	{"PSA", "PSAS"}: "PSA",
	{"PSAS", "PSA"}: "PSA",
	{"EST", "ESG"}:  "EST",
	{"ESG", "EST"}:  "EST",
}

// invert builds the name-to-ID table from an ID-to-name table.
// Iteration is in sorted key order so collision errors are
// deterministic.
func invert(names map[string]string) (map[string]string, error) {
	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	inverted := make(map[string]string, len(names))
	for _, id := range ids {
		name := names[id]
		prev, ok := inverted[name]
		if !ok {
			inverted[name] = id
			continue
		}
		winner, ok := knownCollisions[[2]string{prev, id}]
		if !ok {
			return nil, fmt.Errorf("both %s and %s are abbreviated as %q", prev, id, name)
		}
		inverted[name] = winner
	}
	return inverted, nil
}
