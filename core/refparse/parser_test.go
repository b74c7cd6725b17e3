package refparse

import (
	"errors"
	"testing"

	"github.com/FocuswithJustin/versiref/core/ref"
	"github.com/FocuswithJustin/versiref/core/style"
	"github.com/FocuswithJustin/versiref/core/versification"
)

func sblStyle(t *testing.T) *style.Style {
	t.Helper()
	st, err := style.FromStandard("en-sbl_abbreviations")
	if err != nil {
		t.Fatalf("FromStandard(en-sbl_abbreviations) failed: %v", err)
	}
	return st
}

func ceiStyle(t *testing.T) *style.Style {
	t.Helper()
	st, err := style.FromStandard("it-cei_abbreviazioni",
		style.WithChapterVerseSeparator(","),
		style.WithRangeSeparator("-"),
		style.WithFollowingVerse("s"),
		style.WithFollowingVerses("ss"),
		style.WithVerseRangeSeparator("."),
	)
	if err != nil {
		t.Fatalf("FromStandard(it-cei_abbreviazioni) failed: %v", err)
	}
	return st
}

func engVersification(t *testing.T) *versification.Versification {
	t.Helper()
	v, err := versification.FromStandard("eng")
	if err != nil {
		t.Fatalf("FromStandard(eng) failed: %v", err)
	}
	return v
}

func sblParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	return New(sblStyle(t), engVersification(t), opts...)
}

func TestParseSimpleVerse(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Gen 1:1")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	if r.BookID != "GEN" {
		t.Errorf("BookID = %q, want GEN", r.BookID)
	}
	if len(r.Ranges) != 1 {
		t.Fatalf("len(Ranges) = %d, want 1", len(r.Ranges))
	}
	want := ref.VerseRange{
		StartChapter: 1, StartVerse: 1,
		EndChapter: 1, EndVerse: 1,
		OriginalText: "Gen 1:1",
	}
	if r.Ranges[0] != want {
		t.Errorf("Ranges[0] = %+v, want %+v", r.Ranges[0], want)
	}
	if r.OriginalText != "Gen 1:1" {
		t.Errorf("OriginalText = %q, want %q", r.OriginalText, "Gen 1:1")
	}
}

func TestParseVerseWithSubverse(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("John 3:16b")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	if r.BookID != "JHN" {
		t.Errorf("BookID = %q, want JHN", r.BookID)
	}
	vr := r.Ranges[0]
	if vr.StartChapter != 3 || vr.StartVerse != 16 || vr.StartSubverse != "b" {
		t.Errorf("start = %d:%d%q, want 3:16b", vr.StartChapter, vr.StartVerse, vr.StartSubverse)
	}
	if vr.EndChapter != 3 || vr.EndVerse != 16 || vr.EndSubverse != "b" {
		t.Errorf("end = %d:%d%q, want 3:16b", vr.EndChapter, vr.EndVerse, vr.EndSubverse)
	}
}

func TestParseSingleChapterBook(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Jude 5")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	if r.BookID != "JUD" {
		t.Errorf("BookID = %q, want JUD", r.BookID)
	}
	vr := r.Ranges[0]
	if vr.StartChapter != 1 || vr.EndChapter != 1 {
		t.Errorf("chapters = %d..%d, want 1..1", vr.StartChapter, vr.EndChapter)
	}
	if vr.StartVerse != 5 || vr.EndVerse != 5 {
		t.Errorf("verses = %d..%d, want 5..5", vr.StartVerse, vr.EndVerse)
	}
	if r.OriginalText != "Jude 5" {
		t.Errorf("OriginalText = %q, want %q", r.OriginalText, "Jude 5")
	}
}

func TestParseCrossChapterRange(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Luke 23:50-24:12")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	vr := r.Ranges[0]
	if vr.StartChapter != 23 || vr.StartVerse != 50 {
		t.Errorf("start = %d:%d, want 23:50", vr.StartChapter, vr.StartVerse)
	}
	if vr.EndChapter != 24 || vr.EndVerse != 12 {
		t.Errorf("end = %d:%d, want 24:12", vr.EndChapter, vr.EndVerse)
	}
}

func TestParseChapterPropagation(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Luke 23:50-24:12, 15")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	if len(r.Ranges) != 2 {
		t.Fatalf("len(Ranges) = %d, want 2", len(r.Ranges))
	}
	// The second range continues in the chapter the first one ended in.
	vr := r.Ranges[1]
	if vr.StartChapter != 24 || vr.EndChapter != 24 {
		t.Errorf("second range chapters = %d..%d, want 24..24", vr.StartChapter, vr.EndChapter)
	}
	if vr.StartVerse != 15 || vr.EndVerse != 15 {
		t.Errorf("second range verses = %d..%d, want 15..15", vr.StartVerse, vr.EndVerse)
	}
}

func TestParseFollowingVerses(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Rom 1:16ff")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	vr := r.Ranges[0]
	if vr.StartVerse != 16 || vr.StartSubverse != "" {
		t.Errorf("start = %d%q, want 16 with no subverse", vr.StartVerse, vr.StartSubverse)
	}
	if vr.EndVerse != -1 {
		t.Errorf("EndVerse = %d, want -1", vr.EndVerse)
	}
}

func TestParseFollowingVerse(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Matt 5:4f")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	vr := r.Ranges[0]
	if vr.EndChapter != 5 || vr.EndVerse != 5 {
		t.Errorf("end = %d:%d, want 5:5", vr.EndChapter, vr.EndVerse)
	}
}

func TestParseRangeOriginalText(t *testing.T) {
	p := sblParser(t)
	r, err := p.ParseSimple("Mark 4:3-9,13-20")
	if err != nil {
		t.Fatalf("ParseSimple failed: %v", err)
	}
	if len(r.Ranges) != 2 {
		t.Fatalf("len(Ranges) = %d, want 2", len(r.Ranges))
	}
	// The first range's text takes in the chapter number and book name.
	if got := r.Ranges[0].OriginalText; got != "Mark 4:3-9" {
		t.Errorf("Ranges[0].OriginalText = %q, want %q", got, "Mark 4:3-9")
	}
	if got := r.Ranges[1].OriginalText; got != "13-20" {
		t.Errorf("Ranges[1].OriginalText = %q, want %q", got, "13-20")
	}
}

func TestParseRejectsNonReferences(t *testing.T) {
	p := sblParser(t)
	for _, text := range []string{
		"This is not a Bible reference",
		"John",           // whole-book references are not parsed
		"John 3:16 more", // trailing text
		"3:16",
		"",
	} {
		r, err := p.ParseSimple(text)
		if err == nil {
			t.Errorf("ParseSimple(%q) = %v, want error", text, r)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("ParseSimple(%q) error = %v, want *ParseError", text, err)
		}
	}
}

func TestParseStrictSeparators(t *testing.T) {
	strict := sblParser(t, Strict())
	if _, err := strict.ParseSimple("Matt 5:3-12"); err == nil {
		t.Error("strict parser accepted a hyphen range separator")
	}
	if _, err := strict.ParseSimple("Matt 5:3–12"); err != nil {
		t.Errorf("strict parser rejected the style's own separator: %v", err)
	}
}

func TestParseFormatReparse(t *testing.T) {
	parser := sblParser(t)
	sbl := sblStyle(t)

	// Formatting a parsed reference and parsing the result must give
	// back the same structure, even when the text changes shape
	// ("5:3-12" renders with an en dash, "Jude 5" as "Jude 1:5").
	inputs := []string{
		"Gen 1:1",
		"John 3:16b",
		"Jude 5",
		"Matt 5:3-12",
		"Mark 4:3-9,13-20",
		"Acts 1:8-11; 2:1-4",
		"Luke 23:50-24:12",
		"Rom 1:16ff",
		"Matt 5:4f",
		"Gen 1:1a-c",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first, err := parser.ParseSimple(in)
			if err != nil {
				t.Fatalf("ParseSimple(%q) failed: %v", in, err)
			}
			rendered, err := first.Format(sbl, nil)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			second, err := parser.ParseSimple(rendered)
			if err != nil {
				t.Fatalf("ParseSimple(%q) failed: %v", rendered, err)
			}
			if second.BookID != first.BookID {
				t.Errorf("BookID = %q, want %q", second.BookID, first.BookID)
			}
			if len(second.Ranges) != len(first.Ranges) {
				t.Fatalf("len(Ranges) = %d, want %d", len(second.Ranges), len(first.Ranges))
			}
			for i := range first.Ranges {
				a, b := first.Ranges[i], second.Ranges[i]
				a.OriginalText, b.OriginalText = "", ""
				if a != b {
					t.Errorf("Ranges[%d] = %+v, want %+v", i, b, a)
				}
			}
		})
	}
}

func TestParseSBLFormatCEI(t *testing.T) {
	parser := sblParser(t)
	cei := ceiStyle(t)

	tests := []struct {
		in   string
		want string
	}{
		{"John 3:16", "Gv 3,16"},
		{"Phlm 8", "Fm 1,8"},
		{"Matt 5:3-12", "Mt 5,3-12"},
		{"Heb 11:1–6", "Eb 11,1-6"},
		{"2 John 4-6", "2Gv 1,4-6"},
		{"Jude 8–9", "Gd 1,8-9"},
		{"Mark 4:3-9,13-20", "Mc 4,3-9.13-20"},
		{"1 Cor 13:4-7,13", "1Cor 13,4-7.13"},
		{"Jude 1, 4, 17, 21, 25", "Gd 1,1.4.17.21.25"},
		{"2 John 1, 3, 5-6", "2Gv 1,1.3.5-6"},
		{"Luke 23:50-24:12", "Lc 23,50-24,12"},
		{"Phil 3:10-4:1", "Fil 3,10-4,1"},
		{"Acts 1:8-11; 2:1-4", "At 1,8-11; 2,1-4"},
		{"Rev 21:1-8; 22:1-5", "Ap 21,1-8; 22,1-5"},
		{"1 John 1:5-10", "1Gv 1,5-10"},
		{"2 Tim 2:15", "2Tm 2,15"},
		{"1 Pet 5:7", "1Pt 5,7"},
		{"John 1:1a", "Gv 1,1a"},
		{"Isa 11:1–2a", "Is 11,1-2a"},
		{"Gen 1:1a-c", "Gen 1,1a-c"},
		{"Matt 5:4f", "Mt 5,4-5"},
		{"Jude 3–4", "Gd 1,3-4"},
		{"Rom 1:16ff", "Rm 1,16ss"},
		{"Eph 2:8ff", "Ef 2,8ss"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := parser.ParseSimple(tt.in)
			if err != nil {
				t.Fatalf("ParseSimple(%q) failed: %v", tt.in, err)
			}
			got, err := r.Format(cei, nil)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSimple(%q).Format = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
