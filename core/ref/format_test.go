package ref

import (
	"errors"
	"testing"

	"github.com/FocuswithJustin/versiref/core/style"
	"github.com/FocuswithJustin/versiref/core/versification"
)

func sblStyle(t *testing.T) *style.Style {
	t.Helper()
	s, err := style.FromStandard("en-sbl_abbreviations",
		style.WithVerseRangeSeparator(","),
	)
	if err != nil {
		t.Fatalf("FromStandard failed: %v", err)
	}
	return s
}

func TestFormat(t *testing.T) {
	s := sblStyle(t)

	tests := []struct {
		name string
		ref  *SimpleBibleRef
		want string
	}{
		{
			name: "single verse",
			ref:  ForRange("JHN", 3, 16, -1, -1),
			want: "John 3:16",
		},
		{
			name: "verse range",
			ref:  ForRange("MAT", 5, 3, -1, 12),
			want: "Matt 5:3–12",
		},
		{
			name: "cross-chapter range",
			ref:  ForRange("LUK", 23, 50, 24, 12),
			want: "Luke 23:50–24:12",
		},
		{
			name: "whole chapter",
			ref: &SimpleBibleRef{BookID: "JHN", Ranges: []VerseRange{
				{StartChapter: 3, StartVerse: -1, EndChapter: 3, EndVerse: -1},
			}},
			want: "John 3",
		},
		{
			name: "whole chapter span",
			ref: &SimpleBibleRef{BookID: "JHN", Ranges: []VerseRange{
				{StartChapter: 3, StartVerse: -1, EndChapter: 5, EndVerse: -1},
			}},
			want: "John 3–5",
		},
		{
			name: "open-ended range",
			ref: &SimpleBibleRef{BookID: "ROM", Ranges: []VerseRange{
				{StartChapter: 1, StartVerse: 16, EndChapter: 1, EndVerse: -1},
			}},
			want: "Rom 1:16ff",
		},
		{
			name: "subverse",
			ref: &SimpleBibleRef{BookID: "JHN", Ranges: []VerseRange{
				{StartChapter: 1, StartVerse: 1, StartSubverse: "a",
					EndChapter: 1, EndVerse: 1, EndSubverse: "a"},
			}},
			want: "John 1:1a",
		},
		{
			name: "subverse-only range",
			ref: &SimpleBibleRef{BookID: "GEN", Ranges: []VerseRange{
				{StartChapter: 1, StartVerse: 1, StartSubverse: "a",
					EndChapter: 1, EndVerse: 1, EndSubverse: "c"},
			}},
			want: "Gen 1:1a–c",
		},
		{
			name: "ranges within one chapter",
			ref: &SimpleBibleRef{BookID: "MRK", Ranges: []VerseRange{
				{StartChapter: 4, StartVerse: 3, EndChapter: 4, EndVerse: 9},
				{StartChapter: 4, StartVerse: 13, EndChapter: 4, EndVerse: 20},
			}},
			want: "Mark 4:3–9,13–20",
		},
		{
			name: "ranges across chapters",
			ref: &SimpleBibleRef{BookID: "ACT", Ranges: []VerseRange{
				{StartChapter: 1, StartVerse: 8, EndChapter: 1, EndVerse: 11},
				{StartChapter: 2, StartVerse: 1, EndChapter: 2, EndVerse: 4},
			}},
			want: "Acts 1:8–11; 2:1–4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ref.Format(s, nil)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWholeBook(t *testing.T) {
	s := sblStyle(t)
	got, err := (&SimpleBibleRef{BookID: "JHN"}).Format(s, nil)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if got != "John" {
		t.Errorf("Format() = %q, want %q with no trailing punctuation", got, "John")
	}
}

func TestFormatSingleChapterSuppression(t *testing.T) {
	s := sblStyle(t)
	eng, err := versification.FromStandard("eng")
	if err != nil {
		t.Fatalf("FromStandard(eng) failed: %v", err)
	}

	r := ForRange("PHM", 1, 6, -1, -1)

	// With a versification the chapter number is omitted.
	got, err := r.Format(s, eng)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if got != "Phlm 6" {
		t.Errorf("Format(with versification) = %q, want %q", got, "Phlm 6")
	}

	// Without one it is included.
	got, err = r.Format(s, nil)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if got != "Phlm 1:6" {
		t.Errorf("Format(nil versification) = %q, want %q", got, "Phlm 1:6")
	}
}

func TestFormatUnknownBook(t *testing.T) {
	s := sblStyle(t)
	_, err := ForRange("XYZ", 1, 1, -1, -1).Format(s, nil)
	if err == nil {
		t.Fatal("Format with unknown book succeeded, want error")
	}
	if !errors.Is(err, ErrUnknownBook) {
		t.Errorf("error = %v, want ErrUnknownBook", err)
	}
}
