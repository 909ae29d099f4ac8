package xregex

import (
	"strconv"
	"strings"

	"github.com/auvred/xregex/internal/ustr"
)

// emptyMatch describes where an operation can match a zero-length string.
type emptyMatch int

const (
	emptyAtStart  emptyMatch = 1
	emptyAtEnd    emptyMatch = 2
	emptyAnywhere emptyMatch = 7
	emptyNever    emptyMatch = 1024
)

// operation is a node of a compiled pattern.
//
// iterateMatches returns the end positions of every way the node can match
// the subject starting at pos, in order of preference. Backtracking is
// expressed by pulling further positions from the returned iterator.
type operation interface {
	iterateMatches(m *matcher, pos int) positions

	// matchLength returns the number of codepoints every match consumes,
	// or -1 if matches of different lengths are possible.
	matchLength() int
	minimumMatchLength() int
	matchesEmptyString() emptyMatch
	containsCapturingExpressions() bool

	// optimize returns a node equivalent to the receiver. It may record
	// facts about the pattern in p.
	optimize(p *program, flags Flag) operation

	String() string
}

// positions is a lazy sequence of match end positions.
type positions interface {
	// next returns the next candidate end position, or -1 when there are
	// no more.
	next() int
}

type noPositions struct{}

func (noPositions) next() int { return -1 }

// singlePosition yields one position once.
type singlePosition struct {
	pos int
}

func (s *singlePosition) next() int {
	p := s.pos
	s.pos = -1
	return p
}

func one(pos int) positions {
	return &singlePosition{pos: pos}
}

// opAtom matches a literal string.
type opAtom struct {
	atom ustr.String
}

func (op *opAtom) iterateMatches(m *matcher, pos int) positions {
	if m.matchesLiteral(op.atom, pos) {
		return one(pos + op.atom.Len())
	}
	return noPositions{}
}

func (op *opAtom) matchLength() int        { return op.atom.Len() }
func (op *opAtom) minimumMatchLength() int { return op.atom.Len() }
func (op *opAtom) matchesEmptyString() emptyMatch {
	if op.atom.IsEmpty() {
		return emptyAnywhere
	}
	return emptyNever
}
func (op *opAtom) containsCapturingExpressions() bool { return false }

func (op *opAtom) optimize(p *program, flags Flag) operation {
	if op.atom.IsEmpty() {
		return opEmpty{}
	}
	return op
}

func (op *opAtom) String() string {
	return strconv.Quote(op.atom.String())
}

// opCharClass matches one codepoint belonging to a set.
type opCharClass struct {
	set *charSet

	// When set, a codepoint also matches if one of its case variants is in
	// the set.
	caseBlind bool
}

func (op *opCharClass) matchesChar(c rune) bool {
	if op.set.containsRune(c) {
		return true
	}
	if op.caseBlind {
		for _, v := range caseVariants(c) {
			if op.set.containsRune(v) {
				return true
			}
		}
	}
	return false
}

func (op *opCharClass) iterateMatches(m *matcher, pos int) positions {
	if pos < m.search.Len() && op.matchesChar(m.search.At(pos)) {
		return one(pos + 1)
	}
	return noPositions{}
}

func (op *opCharClass) matchLength() int                   { return 1 }
func (op *opCharClass) minimumMatchLength() int            { return 1 }
func (op *opCharClass) matchesEmptyString() emptyMatch     { return emptyNever }
func (op *opCharClass) containsCapturingExpressions() bool { return false }

func (op *opCharClass) optimize(p *program, flags Flag) operation {
	if flags&FlagIgnoreCase != 0 {
		return &opCharClass{set: op.set, caseBlind: true}
	}
	if r, ok := op.set.single(); ok {
		return &opAtom{atom: ustr.FromRunes([]rune{r}).Tidy()}
	}
	return op
}

func (op *opCharClass) String() string {
	return op.set.String()
}

// opBOL matches at the start of the subject, or after a newline in
// multi-line mode.
type opBOL struct{}

func (opBOL) iterateMatches(m *matcher, pos int) positions {
	if pos == 0 {
		return one(pos)
	}
	if m.prog.flags&FlagMultiline != 0 && pos < m.search.Len() && m.search.At(pos-1) == '\n' {
		return one(pos)
	}
	return noPositions{}
}

func (opBOL) matchLength() int                             { return 0 }
func (opBOL) minimumMatchLength() int                      { return 0 }
func (opBOL) matchesEmptyString() emptyMatch               { return emptyAtStart }
func (opBOL) containsCapturingExpressions() bool           { return false }
func (op opBOL) optimize(p *program, flags Flag) operation { return op }
func (opBOL) String() string                               { return "^" }

// opEOL matches at the end of the subject, or before a newline in
// multi-line mode.
type opEOL struct{}

func (opEOL) iterateMatches(m *matcher, pos int) positions {
	n := m.search.Len()
	if pos == n {
		return one(pos)
	}
	if m.prog.flags&FlagMultiline != 0 && pos < n && m.search.At(pos) == '\n' {
		return one(pos)
	}
	return noPositions{}
}

func (opEOL) matchLength() int                             { return 0 }
func (opEOL) minimumMatchLength() int                      { return 0 }
func (opEOL) matchesEmptyString() emptyMatch               { return emptyAtEnd }
func (opEOL) containsCapturingExpressions() bool           { return false }
func (op opEOL) optimize(p *program, flags Flag) operation { return op }
func (opEOL) String() string                               { return "$" }

// opEmpty always matches the empty string.
type opEmpty struct{}

func (opEmpty) iterateMatches(m *matcher, pos int) positions { return one(pos) }
func (opEmpty) matchLength() int                             { return 0 }
func (opEmpty) minimumMatchLength() int                      { return 0 }
func (opEmpty) matchesEmptyString() emptyMatch               { return emptyAnywhere }
func (opEmpty) containsCapturingExpressions() bool           { return false }
func (op opEmpty) optimize(p *program, flags Flag) operation { return op }
func (opEmpty) String() string                               { return "()" }

// opEndProgram terminates the root sequence. In an anchored match it only
// succeeds at the end of the subject.
type opEndProgram struct{}

func (opEndProgram) iterateMatches(m *matcher, pos int) positions {
	if m.anchoredMatch && pos != m.search.Len() {
		return noPositions{}
	}
	return one(pos)
}

func (opEndProgram) matchLength() int                             { return 0 }
func (opEndProgram) minimumMatchLength() int                      { return 0 }
func (opEndProgram) matchesEmptyString() emptyMatch               { return emptyAnywhere }
func (opEndProgram) containsCapturingExpressions() bool           { return false }
func (op opEndProgram) optimize(p *program, flags Flag) operation { return op }
func (opEndProgram) String() string                               { return "\\End" }

// opBackReference matches the text captured by an earlier group. A group
// that has not participated matches the empty string.
type opBackReference struct {
	group int
}

func (op *opBackReference) iterateMatches(m *matcher, pos int) positions {
	if op.group >= len(m.startBackref) {
		return one(pos)
	}
	s, e := m.startBackref[op.group], m.endBackref[op.group]
	if s < 0 || e < 0 {
		return one(pos)
	}
	if s == e {
		return one(pos)
	}
	if m.matchesLiteral(m.search.Slice(s, e), pos) {
		return one(pos + e - s)
	}
	return noPositions{}
}

func (op *opBackReference) matchLength() int                   { return -1 }
func (op *opBackReference) minimumMatchLength() int            { return 0 }
func (op *opBackReference) matchesEmptyString() emptyMatch     { return 0 }
func (op *opBackReference) containsCapturingExpressions() bool { return false }

func (op *opBackReference) optimize(p *program, flags Flag) operation {
	p.optimizationFlags |= optHasBackrefs
	return op
}

func (op *opBackReference) String() string {
	return "\\" + strconv.Itoa(op.group)
}

// matchesLiteral reports whether lit occurs in the subject at pos, ignoring
// case if the program is case-insensitive.
func (m *matcher) matchesLiteral(lit ustr.String, pos int) bool {
	n := lit.Len()
	if pos+n > m.search.Len() {
		return false
	}
	if m.prog.flags&FlagIgnoreCase == 0 {
		return m.search.HasPrefixAt(lit, pos)
	}
	for i := 0; i < n; i++ {
		if !equalCaseBlind(m.search.At(pos+i), lit.At(i)) {
			return false
		}
	}
	return true
}

func joinOps(ops []operation, sep string) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = o.String()
	}
	return strings.Join(parts, sep)
}
