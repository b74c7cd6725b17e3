package ref

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The dotted ID form is a style-independent machine notation for
// references built from the Paratext book code:
//
//	"JHN"           whole book
//	"JHN.3"         whole chapter
//	"JHN.3.16"      single verse
//	"JHN.3.16a"     with subverse
//	"JHN.3.16-18"   verse range within a chapter
//
// It deliberately covers only what a single same-chapter range can
// express; Format with a style handles everything else.

// ErrNoID is returned by IDString for references the dotted form
// cannot express.
var ErrNoID = errors.New("reference has no dotted ID form")

// idGrammar is the participle grammar for dotted reference IDs.
//
//nolint:govet // participle grammar tags are not standard struct tags
type idGrammar struct {
	Book       string     `parser:"@Book"`
	ChapterRef *idChapter `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type idChapter struct {
	Chapter  int      `parser:"@Int"`
	VerseRef *idVerse `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type idVerse struct {
	Verse    int     `parser:"@Int"`
	SubVerse *string `parser:"@SubVerse?"`
	End      *idEnd  `parser:"( \"-\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type idEnd struct {
	Verse    int     `parser:"@Int"`
	SubVerse *string `parser:"@SubVerse?"`
}

// idLexer tokenizes dotted reference IDs. Book codes are uppercase
// with an optional leading digit ("JHN", "1CO", "2JN").
var idLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[0-9]?[A-Z]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "SubVerse", Pattern: `[a-z]{1,2}`},
	{Name: "Punct", Pattern: `[.\-]`},
})

var idParser = participle.MustBuild[idGrammar](
	participle.Lexer(idLexer),
)

// ParseID parses a dotted reference ID into a SimpleBibleRef. The
// book code is accepted as written; validate against a versification
// with IsValid if needed.
func ParseID(s string) (*SimpleBibleRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty reference ID")
	}

	parsed, err := idParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid reference ID %q: %w", s, err)
	}

	r := &SimpleBibleRef{BookID: parsed.Book, OriginalText: s}
	if parsed.ChapterRef == nil {
		return r, nil
	}

	vr := VerseRange{
		StartChapter: parsed.ChapterRef.Chapter,
		StartVerse:   -1,
		EndChapter:   parsed.ChapterRef.Chapter,
		EndVerse:     -1,
		OriginalText: s,
	}
	if v := parsed.ChapterRef.VerseRef; v != nil {
		vr.StartVerse = v.Verse
		vr.EndVerse = v.Verse
		if v.SubVerse != nil {
			vr.StartSubverse = *v.SubVerse
			vr.EndSubverse = *v.SubVerse
		}
		if v.End != nil {
			vr.EndVerse = v.End.Verse
			vr.EndSubverse = ""
			if v.End.SubVerse != nil {
				vr.EndSubverse = *v.End.SubVerse
			}
		}
	}
	r.Ranges = []VerseRange{vr}
	return r, nil
}

// IDString renders this reference in the dotted ID form. It returns
// ErrNoID (wrapped) for references the form cannot express: multiple
// ranges, cross-chapter ranges, and open-ended ("ff") ranges.
func (r *SimpleBibleRef) IDString() (string, error) {
	if len(r.Ranges) == 0 {
		return r.BookID, nil
	}
	if len(r.Ranges) > 1 {
		return "", fmt.Errorf("%w: %d ranges", ErrNoID, len(r.Ranges))
	}

	vr := &r.Ranges[0]
	if vr.StartChapter != vr.EndChapter {
		return "", fmt.Errorf("%w: range crosses chapters", ErrNoID)
	}
	if vr.StartVerse >= 0 && vr.EndVerse < 0 {
		return "", fmt.Errorf("%w: open-ended range", ErrNoID)
	}

	var sb strings.Builder
	sb.WriteString(r.BookID)
	sb.WriteString(".")
	sb.WriteString(strconv.Itoa(vr.StartChapter))
	if vr.StartVerse < 0 {
		return sb.String(), nil
	}
	sb.WriteString(".")
	sb.WriteString(strconv.Itoa(vr.StartVerse))
	sb.WriteString(vr.StartSubverse)
	if vr.EndVerse != vr.StartVerse || vr.EndSubverse != vr.StartSubverse {
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(vr.EndVerse))
		sb.WriteString(vr.EndSubverse)
	}
	return sb.String(), nil
}
