package ref

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/versiref/core/style"
	"github.com/FocuswithJustin/versiref/core/versification"
)

// ErrUnknownBook is returned by Format when the book ID has no display
// name in the target style.
var ErrUnknownBook = errors.New("unknown book ID")

// Format renders this reference as a string under the given style.
//
// If v is non-nil, it is used to identify single-chapter books, whose
// chapter number is then omitted ("Phlm 6" instead of "Phlm 1:6"). The
// style need not be the one the reference was parsed with, which makes
// Format the notation-translation half of a parse/format pair.
//
// A whole-book reference formats as the display name alone. The result
// is undefined if any VerseRange violates its validity rules; Format
// performs no validity check of its own.
func (r *SimpleBibleRef) Format(st *style.Style, v *versification.Versification) (string, error) {
	name, ok := st.Names[r.BookID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBook, r.BookID)
	}

	// Start with the book name, then add ranges incrementally,
	// tracking the previously written range.
	var sb strings.Builder
	sb.WriteString(name)
	var last *VerseRange
	for i := range r.Ranges {
		vr := &r.Ranges[i]
		statesChapter := false
		switch {
		case last == nil:
			sb.WriteString(" ")
			if v == nil || !v.IsSingleChapter(r.BookID) {
				sb.WriteString(strconv.Itoa(vr.StartChapter))
				statesChapter = true
			}
		case last.EndChapter != vr.StartChapter:
			sb.WriteString(st.ChapterSeparator)
			sb.WriteString(strconv.Itoa(vr.StartChapter))
			statesChapter = true
		default:
			sb.WriteString(st.VerseRangeSeparator)
		}
		if vr.StartVerse >= 0 {
			if statesChapter {
				sb.WriteString(st.ChapterVerseSeparator)
			}
			sb.WriteString(strconv.Itoa(vr.StartVerse))
			sb.WriteString(vr.StartSubverse)
		}
		// Range end, if it differs from the start.
		if vr.EndVerse < 0 && vr.StartVerse >= 0 {
			sb.WriteString(st.FollowingVerses)
		} else if vr.EndChapter != vr.StartChapter ||
			vr.EndVerse != vr.StartVerse ||
			vr.EndSubverse != vr.StartSubverse {
			sb.WriteString(st.RangeSeparator)
			if vr.EndChapter != vr.StartChapter {
				sb.WriteString(strconv.Itoa(vr.EndChapter))
				if vr.EndVerse >= 0 {
					sb.WriteString(st.ChapterVerseSeparator)
					sb.WriteString(strconv.Itoa(vr.EndVerse))
				}
			} else if vr.EndVerse != vr.StartVerse {
				sb.WriteString(strconv.Itoa(vr.EndVerse))
			}
			if vr.EndVerse >= 0 {
				sb.WriteString(vr.EndSubverse)
			}
		}
		last = vr
	}
	return sb.String(), nil
}
