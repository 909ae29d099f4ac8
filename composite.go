package xregex

import (
	"strconv"

	"github.com/auvred/xregex/internal/ustr"
)

// opSequence matches its operations one after another.
type opSequence struct {
	ops []operation
}

func newSequence(ops ...operation) *opSequence {
	return &opSequence{ops: ops}
}

func (op *opSequence) iterateMatches(m *matcher, pos int) positions {
	if len(op.ops) == 0 {
		return one(pos)
	}
	it := &sequencePositions{m: m, ops: op.ops, start: pos}
	if op.containsCapturingExpressions() {
		saved := m.captureState()
		it.saved = &saved
	}
	return it
}

// sequencePositions keeps one iterator per matched element. The element
// on top of the stack is retried first; when it runs out, the stack is
// popped and the previous element is asked for its next alternative.
type sequencePositions struct {
	m      *matcher
	ops    []operation
	start  int
	primed bool
	stack  []positions
	saved  *groupState
}

func (it *sequencePositions) next() int {
	if !it.primed {
		it.primed = true
		it.stack = append(it.stack, it.ops[0].iterateMatches(it.m, it.start))
	}
	for len(it.stack) > 0 {
		if it.m.err != nil {
			return -1
		}
		top := it.stack[len(it.stack)-1]
		for p := top.next(); p >= 0; p = top.next() {
			it.m.clearCapturedGroupsBeyond(p)
			i := len(it.stack)
			if i >= len(it.ops) {
				return p
			}
			top = it.ops[i].iterateMatches(it.m, p)
			it.stack = append(it.stack, top)
		}
		it.stack = it.stack[:len(it.stack)-1]
		if !it.m.step() {
			return -1
		}
	}
	if it.saved != nil {
		it.m.resetState(*it.saved)
		it.saved = nil
	}
	return -1
}

func (op *opSequence) matchLength() int {
	total := 0
	for _, o := range op.ops {
		n := o.matchLength()
		if n < 0 {
			return -1
		}
		total += n
	}
	return total
}

func (op *opSequence) minimumMatchLength() int {
	total := 0
	for _, o := range op.ops {
		total = addLengths(total, o.minimumMatchLength())
	}
	return total
}

func (op *opSequence) matchesEmptyString() emptyMatch {
	anywhere := true
	for _, o := range op.ops {
		e := o.matchesEmptyString()
		if e == emptyNever {
			return emptyNever
		}
		if e != emptyAnywhere {
			anywhere = false
		}
	}
	if anywhere {
		return emptyAnywhere
	}
	atStart, atEnd := true, true
	for _, o := range op.ops {
		e := o.matchesEmptyString()
		if e&emptyAtStart == 0 {
			atStart = false
		}
		if e&emptyAtEnd == 0 {
			atEnd = false
		}
	}
	var result emptyMatch
	if atStart {
		result |= emptyAtStart
	}
	if atEnd {
		result |= emptyAtEnd
	}
	return result
}

func (op *opSequence) containsCapturingExpressions() bool {
	for _, o := range op.ops {
		if o.containsCapturingExpressions() {
			return true
		}
	}
	return false
}

// optimize flattens nested sequences, drops empty operations and merges
// adjacent literals.
func (op *opSequence) optimize(p *program, flags Flag) operation {
	var ops []operation
	var add func(o operation)
	add = func(o operation) {
		switch o := o.(type) {
		case *opSequence:
			for _, c := range o.ops {
				add(c)
			}
			return
		case opEmpty:
			return
		case *opAtom:
			if len(ops) > 0 {
				if prev, ok := ops[len(ops)-1].(*opAtom); ok {
					ops[len(ops)-1] = &opAtom{atom: prev.atom.Concat(o.atom)}
					return
				}
			}
		}
		ops = append(ops, o)
	}
	for _, o := range op.ops {
		add(o.optimize(p, flags))
	}
	switch len(ops) {
	case 0:
		return opEmpty{}
	case 1:
		return ops[0]
	}
	return &opSequence{ops: ops}
}

func (op *opSequence) String() string {
	return joinOps(op.ops, "")
}

// opChoice tries each branch in turn.
type opChoice struct {
	branches []operation
}

func (op *opChoice) iterateMatches(m *matcher, pos int) positions {
	return &choicePositions{m: m, branches: op.branches, pos: pos}
}

type choicePositions struct {
	m        *matcher
	branches []operation
	pos      int
	i        int
	current  positions
}

func (it *choicePositions) next() int {
	for it.i < len(it.branches) {
		if it.m.err != nil {
			return -1
		}
		if it.current == nil {
			it.current = it.branches[it.i].iterateMatches(it.m, it.pos)
		}
		if p := it.current.next(); p >= 0 {
			return p
		}
		it.current = nil
		it.i++
		if !it.m.step() {
			return -1
		}
	}
	return -1
}

func (op *opChoice) matchLength() int {
	n := op.branches[0].matchLength()
	for _, b := range op.branches[1:] {
		if b.matchLength() != n {
			return -1
		}
	}
	return n
}

func (op *opChoice) minimumMatchLength() int {
	n := op.branches[0].minimumMatchLength()
	for _, b := range op.branches[1:] {
		n = min(n, b.minimumMatchLength())
	}
	return n
}

func (op *opChoice) matchesEmptyString() emptyMatch {
	var result emptyMatch
	never := true
	for _, b := range op.branches {
		e := b.matchesEmptyString()
		if e != emptyNever {
			never = false
			result |= e
		}
	}
	if never {
		return emptyNever
	}
	return result
}

func (op *opChoice) containsCapturingExpressions() bool {
	for _, b := range op.branches {
		if b.containsCapturingExpressions() {
			return true
		}
	}
	return false
}

func (op *opChoice) optimize(p *program, flags Flag) operation {
	if len(op.branches) == 1 {
		return op.branches[0].optimize(p, flags)
	}
	branches := make([]operation, len(op.branches))
	for i, b := range op.branches {
		branches[i] = b.optimize(p, flags)
	}
	return &opChoice{branches: branches}
}

func (op *opChoice) String() string {
	return "(?:" + joinOps(op.branches, "|") + ")"
}

// leadingLiteral returns the literal every match of the branch starts with.
func leadingLiteral(op operation) (ustr.String, bool) {
	switch op := op.(type) {
	case *opAtom:
		return op.atom, true
	case *opSequence:
		return leadingLiteral(op.ops[0])
	case *opCapture:
		return leadingLiteral(op.child)
	case *opRepeat:
		if op.min >= 1 {
			return leadingLiteral(op.child)
		}
	case *opGreedyFixed:
		if op.min >= 1 {
			return leadingLiteral(op.child)
		}
	case *opReluctantFixed:
		if op.min >= 1 {
			return leadingLiteral(op.child)
		}
	}
	return ustr.String{}, false
}

// opCapture records the span matched by its child as a numbered group.
type opCapture struct {
	group int
	child operation
}

func (op *opCapture) iterateMatches(m *matcher, pos int) positions {
	it := &capturePositions{
		m:          m,
		group:      op.group,
		start:      pos,
		child:      op.child.iterateMatches(m, pos),
		savedStart: m.parenStart(op.group),
		savedEnd:   m.parenEnd(op.group),
		savedCount: m.parenCount,
	}
	if m.startBackref != nil {
		it.savedBackrefStart = m.startBackref[op.group]
		it.savedBackrefEnd = m.endBackref[op.group]
	}
	return it
}

// capturePositions sets the group to each span the child yields and puts
// back the previous values once the child is exhausted.
type capturePositions struct {
	m     *matcher
	group int
	start int
	child positions

	savedStart, savedEnd               int
	savedBackrefStart, savedBackrefEnd int
	savedCount                         int
}

func (it *capturePositions) next() int {
	p := it.child.next()
	m := it.m
	if p < 0 {
		m.setParenStart(it.group, it.savedStart)
		m.setParenEnd(it.group, it.savedEnd)
		m.parenCount = it.savedCount
		if m.startBackref != nil {
			m.startBackref[it.group] = it.savedBackrefStart
			m.endBackref[it.group] = it.savedBackrefEnd
		}
		return -1
	}
	m.setParenStart(it.group, it.start)
	m.setParenEnd(it.group, p)
	if m.parenCount <= it.group {
		m.parenCount = it.group + 1
	}
	if m.startBackref != nil {
		m.startBackref[it.group] = it.start
		m.endBackref[it.group] = p
	}
	return p
}

func (op *opCapture) matchLength() int                   { return op.child.matchLength() }
func (op *opCapture) minimumMatchLength() int            { return op.child.minimumMatchLength() }
func (op *opCapture) matchesEmptyString() emptyMatch     { return op.child.matchesEmptyString() }
func (op *opCapture) containsCapturingExpressions() bool { return true }

func (op *opCapture) optimize(p *program, flags Flag) operation {
	return &opCapture{group: op.group, child: op.child.optimize(p, flags)}
}

func (op *opCapture) String() string {
	return "(" + strconv.Itoa(op.group) + ":" + op.child.String() + ")"
}

// addLengths adds two minimum lengths, saturating instead of overflowing.
func addLengths(a, b int) int {
	const limit = 1 << 30
	if a+b > limit {
		return limit
	}
	return a + b
}
