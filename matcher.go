package xregex

import (
	"github.com/auvred/xregex/internal/ustr"
)

// groupState is the set of group boundaries recorded so far.
// Index 0 is the whole match.
type groupState struct {
	startn     []int
	endn       []int
	parenCount int
}

func (s groupState) clone() groupState {
	return groupState{
		startn:     append([]int(nil), s.startn...),
		endn:       append([]int(nil), s.endn...),
		parenCount: s.parenCount,
	}
}

// matcher runs a program against one subject. It is not safe for
// concurrent use; Regexp keeps a pool of them.
type matcher struct {
	prog   *program
	search ustr.String

	groupState

	// Allocated only for programs with back-references.
	startBackref []int
	endBackref   []int

	anchoredMatch bool

	steps int
	err   error

	// UTF-8 form of search, built on demand for the literal prefilter.
	utf8Bytes   []byte
	utf8Offsets []int
}

func newMatcher(prog *program) *matcher {
	return &matcher{prog: prog}
}

// reset prepares the matcher for a new subject.
func (m *matcher) reset(search ustr.String) {
	m.search = search.Tidy()
	m.parenCount = 0
	m.anchoredMatch = false
	m.steps = 0
	m.err = nil
	m.utf8Bytes = nil
	m.utf8Offsets = nil
}

func (m *matcher) utf8() ([]byte, []int) {
	if m.utf8Offsets == nil {
		m.utf8Bytes, m.utf8Offsets = m.search.UTF8()
	}
	return m.utf8Bytes, m.utf8Offsets
}

// step counts one backtracking step. It returns false once the program's
// backtracking limit has been exceeded; the matcher then stays failed
// until the next reset.
func (m *matcher) step() bool {
	if m.err != nil {
		return false
	}
	limit := m.prog.backtrackingLimit
	if limit <= 0 {
		return true
	}
	m.steps++
	if m.steps > limit {
		m.err = ErrBacktrackLimit
		m.prog.trace.log("gave up after %d backtracking steps", limit)
		return false
	}
	return true
}

// captureState snapshots the group boundaries.
func (m *matcher) captureState() groupState {
	return m.groupState.clone()
}

// resetState restores a snapshot taken by captureState.
func (m *matcher) resetState(s groupState) {
	m.startn = append(m.startn[:0], s.startn...)
	m.endn = append(m.endn[:0], s.endn...)
	m.parenCount = s.parenCount
}

// clearCapturedGroupsBeyond collapses every group that starts at or after
// pos to an empty span at its start. Group 0 is left alone.
func (m *matcher) clearCapturedGroupsBeyond(pos int) {
	for i := 1; i < len(m.startn); i++ {
		if m.startn[i] >= pos {
			m.endn[i] = m.startn[i]
		}
	}
	for i := 1; i < len(m.startBackref); i++ {
		if m.startBackref[i] >= pos {
			m.endBackref[i] = m.startBackref[i]
		}
	}
}

func growFilled(a []int, i int) []int {
	if i < len(a) {
		return a
	}
	n := max(2*len(a), i+1, 4)
	g := make([]int, n)
	copy(g, a)
	for j := len(a); j < n; j++ {
		g[j] = -1
	}
	return g
}

func (m *matcher) setParenStart(i, pos int) {
	m.startn = growFilled(m.startn, i)
	m.endn = growFilled(m.endn, i)
	m.startn[i] = pos
}

func (m *matcher) setParenEnd(i, pos int) {
	m.startn = growFilled(m.startn, i)
	m.endn = growFilled(m.endn, i)
	m.endn[i] = pos
}

// parenStart returns the raw start of group i, or -1.
func (m *matcher) parenStart(i int) int {
	if i < len(m.startn) {
		return m.startn[i]
	}
	return -1
}

// parenEnd returns the raw end of group i, or -1.
func (m *matcher) parenEnd(i int) int {
	if i < len(m.endn) {
		return m.endn[i]
	}
	return -1
}

// getParenStart returns the start of group i in the last successful match,
// or -1 if the group did not participate.
func (m *matcher) getParenStart(i int) int {
	if i < 0 {
		panic("xregex: negative group index")
	}
	if i >= m.parenCount {
		return -1
	}
	return m.parenStart(i)
}

// getParenEnd is the end counterpart of getParenStart.
func (m *matcher) getParenEnd(i int) int {
	if i < 0 {
		panic("xregex: negative group index")
	}
	if i >= m.parenCount {
		return -1
	}
	return m.parenEnd(i)
}

// getParen returns the text of group i and whether it participated.
func (m *matcher) getParen(i int) (ustr.String, bool) {
	s, e := m.getParenStart(i), m.getParenEnd(i)
	if s < 0 || e < 0 {
		return ustr.String{}, false
	}
	return m.search.Slice(s, e), true
}

// groupSpans returns [start0, end0, start1, end1, ...] for the last
// successful match, with -1 for groups that did not participate.
func (m *matcher) groupSpans() []int {
	n := max(m.prog.maxParens, 1)
	spans := make([]int, 2*n)
	for i := 0; i < n; i++ {
		spans[2*i] = m.getParenStart(i)
		spans[2*i+1] = m.getParenEnd(i)
	}
	return spans
}

// match searches for the leftmost match starting at or after from.
func (m *matcher) match(from int) bool {
	p := m.prog
	n := m.search.Len()

	if p.optimizationFlags&optHasBOL != 0 {
		if p.flags&FlagMultiline == 0 {
			return from == 0 && m.checkPreconditions(from) && m.matchAt(0, false)
		}
		for i := from; i <= n; {
			if m.matchAt(i, false) {
				return true
			}
			if m.err != nil {
				return false
			}
			nl := m.search.IndexOf('\n', i)
			if nl < 0 {
				return false
			}
			i = nl + 1
		}
		return false
	}

	if n-from < p.minimumLength {
		return false
	}
	last := n - p.minimumLength

	switch {
	case p.initialCharClass != nil && p.prefix.IsEmpty():
		for i := from; i <= last && i < n; i++ {
			if p.initialCharClass.matchesChar(m.search.At(i)) && m.matchAt(i, false) {
				return true
			}
			if m.err != nil {
				return false
			}
		}
		return false

	case !p.prefix.IsEmpty():
		for i := from; i <= last; i++ {
			if m.matchesLiteral(p.prefix, i) && m.matchAt(i, false) {
				return true
			}
			if m.err != nil {
				return false
			}
		}
		return false

	case p.literalPrefilter != nil:
		for i := from; i <= last; i++ {
			i = p.literalPrefilter.find(m, i)
			if i < 0 || i > last {
				return false
			}
			if m.matchAt(i, false) {
				return true
			}
			if m.err != nil {
				return false
			}
		}
		return false
	}

	if !m.checkPreconditions(from) {
		return false
	}
	for i := from; i <= last; i++ {
		if m.matchAt(i, false) {
			return true
		}
		if m.err != nil {
			return false
		}
	}
	return false
}

// matchAt tries to match the program starting exactly at i. With anchored
// set, the match must extend to the end of the subject.
func (m *matcher) matchAt(i int, anchored bool) bool {
	for j := range m.startn {
		m.startn[j] = -1
		m.endn[j] = -1
	}
	m.parenCount = 1
	m.anchoredMatch = anchored
	m.setParenStart(0, i)

	if m.prog.optimizationFlags&optHasBackrefs != 0 {
		if len(m.startBackref) < m.prog.maxParens {
			m.startBackref = make([]int, m.prog.maxParens)
			m.endBackref = make([]int, m.prog.maxParens)
		}
		for j := range m.startBackref {
			m.startBackref[j] = -1
			m.endBackref[j] = -1
		}
	}

	end := m.prog.root.iterateMatches(m, i).next()
	if end >= 0 {
		m.setParenEnd(0, end)
		return true
	}
	m.parenCount = 0
	return false
}

// isAnchoredMatch reports whether the whole subject matches.
func (m *matcher) isAnchoredMatch() bool {
	p := m.prog
	n := m.search.Len()
	if n < p.minimumLength || (p.fixedLength >= 0 && n != p.fixedLength) {
		return false
	}
	return m.matchAt(0, true)
}

// checkPreconditions reports whether every precondition can hold for a
// match starting at or after start.
func (m *matcher) checkPreconditions(start int) bool {
	n := m.search.Len()
	for _, c := range m.prog.preconditions {
		if c.fixedPosition != -1 {
			if c.op.iterateMatches(m, c.fixedPosition).next() < 0 {
				return false
			}
			continue
		}
		found := false
		for i := max(start, c.minPosition); i < n; i++ {
			if c.op.iterateMatches(m, i).next() >= 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
