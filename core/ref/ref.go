// Package ref provides the structured representation of Bible
// references: a VerseRange with its structural validity rules, and a
// SimpleBibleRef holding a book plus an ordered sequence of ranges.
// Formatting against a style lives in format.go; the machine-readable
// dotted ID form lives in osis.go.
package ref

import (
	"github.com/FocuswithJustin/versiref/core/versification"
)

// VerseRange represents a range of verses within a single book.
//
// A verse range has a start and end point, each defined by chapter,
// verse, and subverse. A verse number less than 0 means "unspecified";
// its subverse is then ignored and should be "". If both verses are
// unspecified, the range covers whole chapters. If only the end verse
// is unspecified, the range is open-ended ("ff" notation), which is
// only allowed within one chapter. Where a definite end is needed,
// applications can interpret the open end as "until the end of the
// chapter" using a Versification.
//
// The result of SimpleBibleRef.Format is undefined for a VerseRange
// with disallowed values; use IsValid to check first.
type VerseRange struct {
	StartChapter  int    `json:"start_chapter"`
	StartVerse    int    `json:"start_verse"`
	StartSubverse string `json:"start_subverse,omitempty"`
	EndChapter    int    `json:"end_chapter"`
	EndVerse      int    `json:"end_verse"`
	EndSubverse   string `json:"end_subverse,omitempty"`

	// OriginalText is the exact substring this range was parsed from,
	// if any.
	OriginalText string `json:"original_text,omitempty"`
}

// IsWholeChapters reports whether this range does not specify verse
// limits.
func (r *VerseRange) IsWholeChapters() bool {
	return r.StartVerse < 0 && r.EndVerse < 0
}

// IsValid reports whether this verse range has structurally valid
// values. It is false if any of these hold:
//   - open-ended ("ff") notation crossing a chapter boundary
//   - an unspecified start verse with a specified end verse
//   - a start verse after the end verse in the same chapter
//   - a start chapter after the end chapter
//
// The check is purely structural; it consults no versification.
func (r *VerseRange) IsValid() bool {
	if r.StartVerse >= 0 && r.EndVerse < 0 && r.StartChapter != r.EndChapter {
		return false
	}
	if r.StartVerse < 0 && r.EndVerse >= 0 {
		return false
	}
	if r.StartChapter == r.EndChapter && r.EndVerse >= 0 && r.StartVerse > r.EndVerse {
		return false
	}
	if r.StartChapter > r.EndChapter {
		return false
	}
	return true
}

// SimpleBibleRef represents a sequence of verse ranges within a single
// book of the Bible.
//
// The book ID uses Paratext three-letter codes. The ranges are kept in
// the order they were given, which is not necessarily numeric order.
// An empty range list refers to the entire book.
//
// A SimpleBibleRef is "naive": it does not specify which versification
// system its chapter and verse numbers belong to.
type SimpleBibleRef struct {
	BookID       string       `json:"book_id"`
	Ranges       []VerseRange `json:"ranges,omitempty"`
	OriginalText string       `json:"original_text,omitempty"`
}

// ForRange creates a SimpleBibleRef with a single VerseRange covering
// chapter:startVerse through endChapter:endVerse. Pass -1 for
// endChapter or endVerse to default them to the start values. Note the
// -1 default differs from an "unspecified" end verse; build a
// VerseRange directly for ff-style ranges.
func ForRange(bookID string, chapter, startVerse, endChapter, endVerse int) *SimpleBibleRef {
	if endChapter < 0 {
		endChapter = chapter
	}
	if endVerse < 0 {
		endVerse = startVerse
	}
	return &SimpleBibleRef{
		BookID: bookID,
		Ranges: []VerseRange{{
			StartChapter: chapter,
			StartVerse:   startVerse,
			EndChapter:   endChapter,
			EndVerse:     endVerse,
		}},
	}
}

// IsWholeBook reports whether this reference refers to the entire
// book. This regards the form of the reference rather than its
// content: it is true for "John" but false for "John 1-21".
func (r *SimpleBibleRef) IsWholeBook() bool {
	return len(r.Ranges) == 0
}

// IsWholeChapters reports whether this reference does not specify
// verse limits. As with IsWholeBook, this regards form, not content:
// true for "John" and "John 6", false for "John 1:1-51".
func (r *SimpleBibleRef) IsWholeChapters() bool {
	for i := range r.Ranges {
		if !r.Ranges[i].IsWholeChapters() {
			return false
		}
	}
	return true
}

// IsValid reports whether this reference is valid under the given
// versification: the book must be known, every range structurally
// valid, and every chapter and verse within the book's bounds. Unknown
// books report false; IsValid never fails.
func (r *SimpleBibleRef) IsValid(v *versification.Versification) bool {
	if !v.Includes(r.BookID) {
		return false
	}
	for i := range r.Ranges {
		vr := &r.Ranges[i]
		if !vr.IsValid() {
			return false
		}
		if v.LastVerse(r.BookID, vr.EndChapter) < 0 {
			return false
		}
		// The start only needs its own check when it lies in a
		// different chapter or the end is indefinite.
		if (vr.StartChapter != vr.EndChapter || vr.EndVerse < 0) &&
			vr.StartVerse > v.LastVerse(r.BookID, vr.StartChapter) {
			return false
		}
		// An indefinite end (EndVerse < 0) needs no bound check.
		if vr.EndVerse > v.LastVerse(r.BookID, vr.EndChapter) {
			return false
		}
	}
	return true
}

// SplitRanges returns one SimpleBibleRef per verse range, preserving
// the book ID. Each returned reference takes its original text from
// its verse range.
func (r *SimpleBibleRef) SplitRanges() []*SimpleBibleRef {
	out := make([]*SimpleBibleRef, 0, len(r.Ranges))
	for _, vr := range r.Ranges {
		out = append(out, &SimpleBibleRef{
			BookID:       r.BookID,
			Ranges:       []VerseRange{vr},
			OriginalText: vr.OriginalText,
		})
	}
	return out
}
