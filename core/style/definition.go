package style

import (
	"encoding/json"
	"fmt"
)

// definition is the JSON shape consumed by FromDefinition. Names is
// either an inline book-ID-to-name object or the string identifier of
// a standard set. Separator fields are pointers so absence can be told
// apart from an explicit empty override.
type definition struct {
	Names                 json.RawMessage `json:"names"`
	ChapterVerseSeparator *string         `json:"chapterVerseSeparator"`
	RangeSeparator        *string         `json:"rangeSeparator"`
	FollowingVerse        *string         `json:"followingVerse"`
	FollowingVerses       *string         `json:"followingVerses"`
	VerseRangeSeparator   *string         `json:"verseRangeSeparator"`
	ChapterSeparator      *string         `json:"chapterSeparator"`
	AlsoRecognize         []string        `json:"alsoRecognize"`
}

// FromDefinition creates a Style from a JSON definition: a required
// "names" field (inline table or standard set identifier), optional
// separator overrides, and an optional ordered "alsoRecognize" list of
// standard set identifiers whose names are merged into the recognized
// table (first registered wins).
func FromDefinition(data []byte) (*Style, error) {
	var def definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid style definition: %w", err)
	}
	if len(def.Names) == 0 {
		return nil, fmt.Errorf("invalid style definition: missing names")
	}

	var names map[string]string
	var standardID string
	if err := json.Unmarshal(def.Names, &standardID); err == nil {
		names, err = StandardNames(standardID)
		if err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(def.Names, &names); err != nil {
		return nil, fmt.Errorf("invalid style definition: names must be an object or a standard set identifier")
	}

	var opts []Option
	if def.ChapterVerseSeparator != nil {
		opts = append(opts, WithChapterVerseSeparator(*def.ChapterVerseSeparator))
	}
	if def.RangeSeparator != nil {
		opts = append(opts, WithRangeSeparator(*def.RangeSeparator))
	}
	if def.FollowingVerse != nil {
		opts = append(opts, WithFollowingVerse(*def.FollowingVerse))
	}
	if def.FollowingVerses != nil {
		opts = append(opts, WithFollowingVerses(*def.FollowingVerses))
	}
	if def.VerseRangeSeparator != nil {
		opts = append(opts, WithVerseRangeSeparator(*def.VerseRangeSeparator))
	}
	if def.ChapterSeparator != nil {
		opts = append(opts, WithChapterSeparator(*def.ChapterSeparator))
	}

	s, err := New(names, opts...)
	if err != nil {
		return nil, err
	}
	for _, id := range def.AlsoRecognize {
		extra, err := StandardNames(id)
		if err != nil {
			return nil, err
		}
		s.AlsoRecognize(extra)
	}
	return s, nil
}
