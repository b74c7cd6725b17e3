package refparse

import (
	"github.com/FocuswithJustin/versiref/core/ref"
)

// parsedRange is a verse range together with the byte span it was
// matched from. Spans start out covering just the verse numbers; the
// first range of a reference is later widened to take in the chapter
// number and the book name, so that a match for "John 3:16, 18" splits
// into "John 3:16" and "18".
type parsedRange struct {
	vr    ref.VerseRange
	start int
	end   int
}

// verseRangeNode collects the raw pieces of one verse range before the
// chapter numbers are threaded through.
type verseRangeNode struct {
	startVerse    int
	startSubverse string

	followingVerse  bool
	followingVerses bool

	endChapter     int // -1 when the endpoint names no chapter
	endVerse       int
	endVerseSet    bool
	endSubverse    string
	endSubverseSet bool
}

// parseVerseRange matches a verse or verse range: "16", "16a", "16ff",
// "16-18", "50-24:12", "1a-c". In single-chapter mode the endpoint
// never names a chapter.
func (p *Parser) parseVerseRange(c *cursor, singleChapter bool) (parsedRange, bool) {
	save := c.pos
	c.skipSpaces()
	start := c.pos

	v, ok := c.matchInt()
	if !ok {
		c.pos = save
		return parsedRange{}, false
	}
	node := verseRangeNode{startVerse: v, endChapter: -1}
	node.startSubverse, _ = c.matchSubverse()

	p.parseRangeTail(c, &node, singleChapter)

	return p.makeVerseRange(node, singleChapter, start, c.pos), true
}

// parseRangeTail matches whatever follows the start verse: a
// following-verse marker, or a range separator and an endpoint.
func (p *Parser) parseRangeTail(c *cursor, node *verseRangeNode, singleChapter bool) {
	if p.style.FollowingVerses != "" && c.matchLiteral(p.style.FollowingVerses) {
		node.followingVerses = true
		return
	}
	if p.style.FollowingVerse != "" && c.matchLiteral(p.style.FollowingVerse) {
		node.followingVerse = true
		return
	}

	save := c.pos
	if !c.matchAnyLiteral(p.rangeSeps) {
		return
	}

	if n, ok := c.matchInt(); ok {
		node.endVerse, node.endVerseSet = n, true
		if !singleChapter {
			beforeSep := c.pos
			if c.matchLiteral(p.style.ChapterVerseSeparator) {
				if v, ok := c.matchInt(); ok {
					node.endChapter = n
					node.endVerse = v
				} else {
					c.pos = beforeSep
				}
			}
		}
		node.endSubverse, _ = c.matchSubverse()
		node.endSubverseSet = true
		return
	}

	// A bare subverse names a later part of the same verse, "1a-c".
	// Subverses hug the separator, so no space skipping here.
	if sub, ok := c.matchSubverse(); ok {
		node.endSubverse, node.endSubverseSet = sub, true
		return
	}

	// Separator with nothing usable after it: not a range after all.
	c.pos = save
}

// makeVerseRange turns a matched node into a VerseRange. A subverse
// that spells the style's following-verse marker and has no explicit
// endpoint is reinterpreted as that marker: "16ff" matches as verse 16
// with subverse "ff" first, and becomes an open-ended range here.
func (p *Parser) makeVerseRange(node verseRangeNode, singleChapter bool, start, end int) parsedRange {
	sub := node.startSubverse
	hasF := node.followingVerse
	hasFF := node.followingVerses
	if sub != "" && !node.endVerseSet {
		switch sub {
		case p.style.FollowingVerse:
			sub, hasF = "", true
		case p.style.FollowingVerses:
			sub, hasFF = "", true
		}
	}

	startChapter := -1
	if singleChapter {
		startChapter = 1
	}

	var vr ref.VerseRange
	switch {
	case hasFF:
		vr = ref.VerseRange{
			StartChapter: startChapter, StartVerse: node.startVerse, StartSubverse: sub,
			EndChapter: startChapter, EndVerse: -1,
		}
	case hasF:
		vr = ref.VerseRange{
			StartChapter: startChapter, StartVerse: node.startVerse, StartSubverse: sub,
			EndChapter: startChapter, EndVerse: node.startVerse + 1,
		}
	default:
		endChapter := node.endChapter
		if endChapter < 0 {
			endChapter = startChapter
		}
		endVerse := node.startVerse
		if node.endVerseSet {
			endVerse = node.endVerse
		}
		endSub := sub
		if node.endSubverseSet {
			endSub = node.endSubverse
		}
		vr = ref.VerseRange{
			StartChapter: startChapter, StartVerse: node.startVerse, StartSubverse: sub,
			EndChapter: endChapter, EndVerse: endVerse, EndSubverse: endSub,
		}
	}
	return parsedRange{vr: vr, start: start, end: end}
}

// parseChapterRange matches a chapter number, the chapter-verse
// separator and a list of verse ranges: "3:16, 18, 36". The chapter
// number is threaded through the ranges, so "23:50-24:12, 15" leaves
// the last range in chapter 24.
func (p *Parser) parseChapterRange(c *cursor) ([]parsedRange, bool) {
	save := c.pos
	c.skipSpaces()
	start := c.pos

	ch, ok := c.matchInt()
	if !ok {
		c.pos = save
		return nil, false
	}
	if !c.matchLiteral(p.style.ChapterVerseSeparator) {
		c.pos = save
		return nil, false
	}

	pr, ok := p.parseVerseRange(c, false)
	if !ok {
		c.pos = save
		return nil, false
	}
	ranges := []parsedRange{pr}
	for {
		before := c.pos
		if !c.matchLiteral(p.style.VerseRangeSeparator) {
			break
		}
		pr, ok := p.parseVerseRange(c, false)
		if !ok {
			c.pos = before
			break
		}
		ranges = append(ranges, pr)
	}

	cur := ch
	for i := range ranges {
		ranges[i].vr.StartChapter = cur
		if ranges[i].vr.EndChapter < 0 {
			ranges[i].vr.EndChapter = cur
		} else {
			cur = ranges[i].vr.EndChapter
		}
	}
	ranges[0].start = start
	return ranges, true
}

// parseChapterRanges matches chapter ranges separated by the style's
// chapter separator: "1:8-11; 2:1-4".
func (p *Parser) parseChapterRanges(c *cursor) ([]parsedRange, bool) {
	ranges, ok := p.parseChapterRange(c)
	if !ok {
		return nil, false
	}
	for {
		before := c.pos
		if !c.matchLiteral(p.style.ChapterSeparator) {
			break
		}
		more, ok := p.parseChapterRange(c)
		if !ok {
			c.pos = before
			break
		}
		ranges = append(ranges, more...)
	}
	return ranges, true
}

// parseStandardRef matches a book name followed by chapter ranges.
func (p *Parser) parseStandardRef(c *cursor) (*ref.SimpleBibleRef, []parsedRange, bool) {
	save := c.pos
	c.skipSpaces()
	start := c.pos

	id, ok := p.matchBook(c, p.books)
	if !ok {
		c.pos = save
		return nil, nil, false
	}
	ranges, ok := p.parseChapterRanges(c)
	if !ok {
		c.pos = save
		return nil, nil, false
	}
	return p.assemble(c.src, id, ranges, start, c.pos), ranges, true
}

// parseSingleChapterRef matches a single-chapter book followed by verse
// ranges with no chapter number: "Jude 4" or "Phlm 6, 8-10".
func (p *Parser) parseSingleChapterRef(c *cursor) (*ref.SimpleBibleRef, []parsedRange, bool) {
	save := c.pos
	c.skipSpaces()
	start := c.pos

	id, ok := p.matchBook(c, p.scBooks)
	if !ok {
		c.pos = save
		return nil, nil, false
	}
	pr, ok := p.parseVerseRange(c, true)
	if !ok {
		c.pos = save
		return nil, nil, false
	}
	ranges := []parsedRange{pr}
	for {
		before := c.pos
		if !c.matchLiteral(p.style.VerseRangeSeparator) {
			break
		}
		pr, ok := p.parseVerseRange(c, true)
		if !ok {
			c.pos = before
			break
		}
		ranges = append(ranges, pr)
	}
	return p.assemble(c.src, id, ranges, start, c.pos), ranges, true
}

// assemble widens the first range's span to the book name and fills in
// the per-range and whole-reference original text.
func (p *Parser) assemble(src, id string, ranges []parsedRange, start, end int) *ref.SimpleBibleRef {
	ranges[0].start = start
	vrs := make([]ref.VerseRange, len(ranges))
	for i := range ranges {
		ranges[i].vr.OriginalText = src[ranges[i].start:ranges[i].end]
		vrs[i] = ranges[i].vr
	}
	return &ref.SimpleBibleRef{
		BookID:       id,
		Ranges:       vrs,
		OriginalText: src[start:end],
	}
}

// ParseSimple parses text that should be exactly one reference,
// possibly surrounded by whitespace. It never returns a partial
// result: either the whole text reads as a reference or the error is a
// *ParseError.
func (p *Parser) ParseSimple(text string) (*ref.SimpleBibleRef, error) {
	c := &cursor{src: text}
	if r, _, ok := p.parseStandardRef(c); ok {
		c.skipSpaces()
		if c.eof() {
			return r, nil
		}
	}
	c = &cursor{src: text}
	if r, _, ok := p.parseSingleChapterRef(c); ok {
		c.skipSpaces()
		if c.eof() {
			return r, nil
		}
	}
	return nil, &ParseError{Text: text}
}
