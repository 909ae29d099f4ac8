package xregex

import (
	"bytes"
	"sort"

	"github.com/coregx/ahocorasick"
)

// minPrefilterLiterals is the smallest alternation worth an automaton; for
// fewer branches the brute-force scan is as fast.
const minPrefilterLiterals = 2

// prefilter finds candidate start positions for a pattern that begins with
// an alternation of literals, such as "(cat|dog|bird)s?".
type prefilter struct {
	auto     *ahocorasick.Automaton
	literals [][]byte
	maxLen   int
	patterns int
}

// newPrefilter returns nil unless op is a choice whose every branch starts
// with a literal. Case-insensitive patterns are not supported because the
// automaton compares bytes.
func newPrefilter(op operation, flags Flag) *prefilter {
	if flags&FlagIgnoreCase != 0 {
		return nil
	}
	choice, ok := op.(*opChoice)
	if !ok {
		if c, ok := op.(*opCapture); ok {
			return newPrefilter(c.child, flags)
		}
		return nil
	}
	if len(choice.branches) < minPrefilterLiterals {
		return nil
	}
	pf := &prefilter{patterns: len(choice.branches)}
	builder := ahocorasick.NewBuilder()
	for _, b := range choice.branches {
		lit, ok := leadingLiteral(b)
		if !ok {
			return nil
		}
		raw := []byte(lit.String())
		pf.literals = append(pf.literals, raw)
		pf.maxLen = max(pf.maxLen, len(raw))
		builder.AddPattern(raw)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	pf.auto = auto
	return pf
}

// find returns the first codepoint index at or after from where one of the
// literals starts, or -1.
func (pf *prefilter) find(m *matcher, from int) int {
	haystack, offsets := m.utf8()
	if from >= len(offsets)-1 {
		return -1
	}
	match := pf.auto.Find(haystack, offsets[from])
	if match == nil {
		return -1
	}
	return sort.SearchInts(offsets, pf.earliestStart(haystack, offsets[from], match))
}

// earliestStart returns the smallest byte offset at or after from where a
// literal occurs. The automaton reports the occurrence that ends first, so a
// longer literal may start before it and end later; such a literal must
// start within maxLen bytes of the reported end.
func (pf *prefilter) earliestStart(haystack []byte, from int, match *ahocorasick.Match) int {
	for start := max(from, match.End-pf.maxLen); start < match.Start; start++ {
		for _, lit := range pf.literals {
			if bytes.HasPrefix(haystack[start:], lit) {
				return start
			}
		}
	}
	return match.Start
}
