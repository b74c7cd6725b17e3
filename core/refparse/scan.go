package refparse

import (
	"github.com/FocuswithJustin/versiref/core/ref"
)

// Match is a reference found in running text. Text[Start:End] is
// exactly Ref.OriginalText. Matches from one scan never overlap and
// come back in reading order.
type Match struct {
	Ref   *ref.SimpleBibleRef
	Start int
	End   int
}

// matchAt tries both reference forms at one position.
func (p *Parser) matchAt(text string, i int) (*ref.SimpleBibleRef, []parsedRange, int, bool) {
	c := &cursor{src: text, pos: i}
	if r, prs, ok := p.parseStandardRef(c); ok {
		return r, prs, c.pos, true
	}
	c = &cursor{src: text, pos: i}
	if r, prs, ok := p.parseSingleChapterRef(c); ok {
		return r, prs, c.pos, true
	}
	return nil, nil, 0, false
}

// ScanString finds every reference in text. Scanning is greedy and
// left to right: once a reference matches, the scan resumes after it.
func (p *Parser) ScanString(text string) []Match {
	var out []Match
	i := 0
	for i < len(text) {
		if !p.nameStart[text[i]] {
			i++
			continue
		}
		r, _, end, ok := p.matchAt(text, i)
		if !ok {
			i++
			continue
		}
		out = append(out, Match{Ref: r, Start: i, End: end})
		i = end
	}
	return out
}

// ScanStringRanges finds every reference in text and splits each one
// into single-range references. A match for "Acts 1:8-11; 2:1-4"
// yields one match spanning "Acts 1:8-11" and one spanning "2:1-4".
func (p *Parser) ScanStringRanges(text string) []Match {
	var out []Match
	i := 0
	for i < len(text) {
		if !p.nameStart[text[i]] {
			i++
			continue
		}
		r, prs, end, ok := p.matchAt(text, i)
		if !ok {
			i++
			continue
		}
		for j, split := range r.SplitRanges() {
			out = append(out, Match{Ref: split, Start: prs[j].start, End: prs[j].end})
		}
		i = end
	}
	return out
}
