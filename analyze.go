package xregex

import (
	"github.com/auvred/xregex/internal/ustr"
)

// Segment is one piece of an analyzed string: either a match or the text
// between two matches.
type Segment struct {
	// Text is the segment's content.
	Text string

	// Matching reports whether the segment is a match.
	Matching bool

	// Start and End are the codepoint offsets of the segment in the input.
	Start int
	End   int

	// spans holds [start, end) codepoint offsets per group, -1 if the group
	// did not participate. Only set for matching segments.
	spans  []int
	search ustr.String
}

// NumGroups returns the number of groups recorded for the segment,
// including group 0. It is 0 for non-matching segments.
func (s Segment) NumGroups() int {
	return len(s.spans) / 2
}

// Group returns the text captured by group n and whether the group
// participated in the match.
func (s Segment) Group(n int) (string, bool) {
	start, end := s.GroupSpan(n)
	if start < 0 {
		return "", false
	}
	return s.search.Slice(start, end).String(), true
}

// GroupSpan returns the codepoint offsets of group n in the input, or
// (-1, -1) if the group did not participate.
func (s Segment) GroupSpan(n int) (start, end int) {
	if n < 0 || 2*n+1 >= len(s.spans) {
		return -1, -1
	}
	start, end = s.spans[2*n], s.spans[2*n+1]
	if start < 0 || end < 0 {
		return -1, -1
	}
	return start, end
}

// analyze yields matching and non-matching segments in input order.
// Empty non-matching segments are omitted.
func (m *matcher) analyze(yield func(Segment, error) bool) {
	n := m.search.Len()
	last := 0
	for from := 0; from <= n && m.match(from); {
		s, e := m.getParenStart(0), m.getParenEnd(0)
		if s > last {
			if !yield(m.segment(last, s, nil), nil) {
				return
			}
		}
		if !yield(m.segment(s, e, m.groupSpans()), nil) {
			return
		}
		last = e
		from = nextSearch(s, e)
	}
	if m.err != nil {
		yield(Segment{}, m.err)
		return
	}
	if last < n {
		yield(m.segment(last, n, nil), nil)
	}
}

func (m *matcher) segment(start, end int, spans []int) Segment {
	return Segment{
		Text:     m.search.Slice(start, end).String(),
		Matching: spans != nil,
		Start:    start,
		End:      end,
		spans:    spans,
		search:   m.search,
	}
}
