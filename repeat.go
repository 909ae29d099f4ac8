package xregex

import (
	"strconv"
)

// opRepeat matches its child between min and max times (max < 0 means
// unbounded).
type opRepeat struct {
	child  operation
	min    int
	max    int
	greedy bool
}

func newRepeat(child operation, min, max int, greedy bool) *opRepeat {
	return &opRepeat{child: child, min: min, max: max, greedy: greedy}
}

type repeatFrame struct {
	pos    int
	it     positions
	opened bool
}

func (op *opRepeat) iterateMatches(m *matcher, pos int) positions {
	it := &repeatPositions{m: m, op: op}
	it.stack = append(it.stack, repeatFrame{pos: pos})
	return it
}

// repeatPositions walks the tree of iteration counts depth first. Frame k
// of the stack holds the position reached after k iterations and the
// iterator over the child's matches from there.
type repeatPositions struct {
	m     *matcher
	op    *opRepeat
	stack []repeatFrame
}

func (it *repeatPositions) canIterate(k int) bool {
	return it.op.max < 0 || k < it.op.max
}

func (it *repeatPositions) next() int {
	if it.op.greedy {
		return it.nextGreedy()
	}
	return it.nextReluctant()
}

// nextGreedy yields deeper positions before shallower ones.
func (it *repeatPositions) nextGreedy() int {
	for len(it.stack) > 0 {
		if it.m.err != nil {
			return -1
		}
		k := len(it.stack) - 1
		top := &it.stack[k]
		if !top.opened {
			top.opened = true
			if it.canIterate(k) {
				top.it = it.op.child.iterateMatches(it.m, top.pos)
			}
		}
		if top.it != nil {
			if p := top.it.next(); p >= 0 {
				if p == top.pos && k >= it.op.min {
					continue
				}
				it.stack = append(it.stack, repeatFrame{pos: p})
				continue
			}
			top.it = nil
		}
		pos := top.pos
		it.stack = it.stack[:k]
		if !it.m.step() {
			return -1
		}
		if k >= it.op.min {
			return pos
		}
	}
	return -1
}

// nextReluctant yields shallower positions before deeper ones.
func (it *repeatPositions) nextReluctant() int {
	for len(it.stack) > 0 {
		if it.m.err != nil {
			return -1
		}
		k := len(it.stack) - 1
		top := &it.stack[k]
		if !top.opened {
			top.opened = true
			if k >= it.op.min {
				return top.pos
			}
		}
		if top.it == nil && it.canIterate(k) {
			top.it = it.op.child.iterateMatches(it.m, top.pos)
		}
		if top.it != nil {
			if p := top.it.next(); p >= 0 {
				if p == top.pos && k >= it.op.min {
					continue
				}
				it.stack = append(it.stack, repeatFrame{pos: p})
				continue
			}
		}
		it.stack = it.stack[:k]
		if !it.m.step() {
			return -1
		}
	}
	return -1
}

func (op *opRepeat) matchLength() int {
	if op.min == op.max {
		if n := op.child.matchLength(); n >= 0 {
			return multiplyLength(n, op.min)
		}
	}
	if op.max == 0 {
		return 0
	}
	return -1
}

func (op *opRepeat) minimumMatchLength() int {
	return multiplyLength(op.child.minimumMatchLength(), op.min)
}

func (op *opRepeat) matchesEmptyString() emptyMatch {
	if op.min == 0 {
		return emptyAnywhere
	}
	return op.child.matchesEmptyString()
}

func (op *opRepeat) containsCapturingExpressions() bool {
	return op.child.containsCapturingExpressions()
}

// optimize replaces repetitions of fixed-length, capture-free operations by
// counting repeats that need no per-iteration state.
func (op *opRepeat) optimize(p *program, flags Flag) operation {
	child := op.child.optimize(p, flags)
	if op.max == 0 {
		return opEmpty{}
	}
	if op.min == 1 && op.max == 1 {
		return child
	}
	if n := child.matchLength(); n > 0 && !child.containsCapturingExpressions() {
		if op.greedy {
			return &opGreedyFixed{child: child, min: op.min, max: op.max, len: n}
		}
		return &opReluctantFixed{child: child, min: op.min, max: op.max, len: n}
	}
	return &opRepeat{child: child, min: op.min, max: op.max, greedy: op.greedy}
}

func (op *opRepeat) String() string {
	s := op.child.String() + quantifierString(op.min, op.max)
	if !op.greedy {
		s += "?"
	}
	return s
}

// opGreedyFixed is a greedy repeat of an operation whose matches all have
// the same non-zero length and set no captures.
type opGreedyFixed struct {
	child operation
	min   int
	max   int
	len   int
}

func (op *opGreedyFixed) iterateMatches(m *matcher, pos int) positions {
	count := 0
	p := pos
	for op.max < 0 || count < op.max {
		if op.child.iterateMatches(m, p).next() < 0 {
			break
		}
		count++
		p += op.len
	}
	if count < op.min {
		return noPositions{}
	}
	return &countdownPositions{m: m, pos: p, step: op.len, stop: pos + op.min*op.len}
}

// countdownPositions yields pos, pos-step, ... down to stop.
type countdownPositions struct {
	m    *matcher
	pos  int
	step int
	stop int
}

func (it *countdownPositions) next() int {
	if it.pos < it.stop || it.m.err != nil {
		return -1
	}
	p := it.pos
	it.pos -= it.step
	if p != it.stop && !it.m.step() {
		return -1
	}
	return p
}

func (op *opGreedyFixed) matchLength() int {
	if op.min == op.max {
		return multiplyLength(op.len, op.min)
	}
	return -1
}

func (op *opGreedyFixed) minimumMatchLength() int {
	return multiplyLength(op.len, op.min)
}

func (op *opGreedyFixed) matchesEmptyString() emptyMatch {
	if op.min == 0 {
		return emptyAnywhere
	}
	return emptyNever
}

func (op *opGreedyFixed) containsCapturingExpressions() bool        { return false }
func (op *opGreedyFixed) optimize(p *program, flags Flag) operation { return op }

func (op *opGreedyFixed) String() string {
	return op.child.String() + quantifierString(op.min, op.max)
}

// opReluctantFixed is the reluctant counterpart of opGreedyFixed.
type opReluctantFixed struct {
	child operation
	min   int
	max   int
	len   int
}

func (op *opReluctantFixed) iterateMatches(m *matcher, pos int) positions {
	p := pos
	for i := 0; i < op.min; i++ {
		if op.child.iterateMatches(m, p).next() < 0 {
			return noPositions{}
		}
		p += op.len
	}
	return &countupPositions{m: m, op: op, pos: p, count: op.min}
}

// countupPositions yields the position after min iterations, then extends
// the match by one iteration each time it is asked again.
type countupPositions struct {
	m       *matcher
	op      *opReluctantFixed
	pos     int
	count   int
	started bool
}

func (it *countupPositions) next() int {
	if it.m.err != nil {
		return -1
	}
	if !it.started {
		it.started = true
		return it.pos
	}
	if it.op.max >= 0 && it.count >= it.op.max {
		return -1
	}
	if !it.m.step() {
		return -1
	}
	if it.op.child.iterateMatches(it.m, it.pos).next() < 0 {
		return -1
	}
	it.count++
	it.pos += it.op.len
	return it.pos
}

func (op *opReluctantFixed) matchLength() int {
	if op.min == op.max {
		return multiplyLength(op.len, op.min)
	}
	return -1
}

func (op *opReluctantFixed) minimumMatchLength() int {
	return multiplyLength(op.len, op.min)
}

func (op *opReluctantFixed) matchesEmptyString() emptyMatch {
	if op.min == 0 {
		return emptyAnywhere
	}
	return emptyNever
}

func (op *opReluctantFixed) containsCapturingExpressions() bool        { return false }
func (op *opReluctantFixed) optimize(p *program, flags Flag) operation { return op }

func (op *opReluctantFixed) String() string {
	return op.child.String() + quantifierString(op.min, op.max) + "?"
}

func quantifierString(min, max int) string {
	switch {
	case min == 0 && max < 0:
		return "*"
	case min == 1 && max < 0:
		return "+"
	case min == 0 && max == 1:
		return "?"
	case max < 0:
		return "{" + strconv.Itoa(min) + ",}"
	case min == max:
		return "{" + strconv.Itoa(min) + "}"
	}
	return "{" + strconv.Itoa(min) + "," + strconv.Itoa(max) + "}"
}

// multiplyLength multiplies a length by a repeat count, saturating instead
// of overflowing.
func multiplyLength(n, count int) int {
	const limit = 1 << 30
	if n == 0 || count == 0 {
		return 0
	}
	if n > limit/count {
		return limit
	}
	return n * count
}
