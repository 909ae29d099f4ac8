package xregex

import (
	"github.com/auvred/xregex/internal/ustr"
)

type optFlag uint8

const (
	optHasBackrefs optFlag = 1 << iota
	optHasBOL
)

// nullability is the answer to "can this pattern match a zero-length
// string?".
type nullability uint8

const (
	nullableNo nullability = iota
	nullableYes
	nullableUnknown
)

func (n nullability) String() string {
	switch n {
	case nullableYes:
		return "yes"
	case nullableNo:
		return "no"
	}
	return "unknown"
}

// precondition is a necessary condition for a match: op must match at
// fixedPosition, or somewhere at or after minPosition when fixedPosition
// is -1.
type precondition struct {
	op            operation
	fixedPosition int
	minPosition   int
}

// program is a compiled pattern together with facts derived from it that
// let the matcher skip hopeless start positions. It is immutable once
// built and may be shared between goroutines.
type program struct {
	root              operation
	flags             Flag
	optimizationFlags optFlag

	prefix           ustr.String
	initialCharClass *opCharClass
	literalPrefilter *prefilter
	preconditions    []precondition

	minimumLength int
	fixedLength   int

	maxParens         int
	backtrackingLimit int

	trace *tracer
}

func newProgram(root operation, maxParens int, flags Flag, cfg Config) *program {
	p := &program{
		flags:             flags,
		maxParens:         maxParens,
		backtrackingLimit: cfg.BacktrackLimit,
		trace:             newTracer(cfg.Trace),
	}
	p.trace.section("optimize")

	p.root = newSequence(root, opEndProgram{}).optimize(p, flags)
	p.trace.log("program: %s", p.root)

	first := p.root
	if seq, ok := p.root.(*opSequence); ok {
		first = seq.ops[0]
	}
	switch first.(type) {
	case opBOL:
		p.optimizationFlags |= optHasBOL
		p.trace.log("anchored at beginning of line")
	default:
		if lit, ok := leadingLiteral(first); ok {
			p.prefix = lit
			p.trace.log("prefix: %q (%d-bit)", lit.String(), lit.Width())
		} else if cc := leadingCharClass(first); cc != nil {
			p.initialCharClass = cc
			p.trace.log("initial character class: %s", cc)
		} else if pf := newPrefilter(first, flags); pf != nil {
			p.literalPrefilter = pf
			p.trace.log("literal prefilter over %d alternatives", pf.patterns)
		}
	}

	p.addPrecondition(p.root, -1, 0)
	p.minimumLength = p.root.minimumMatchLength()
	p.fixedLength = p.root.matchLength()

	if p.trace.enabled() {
		for _, c := range p.preconditions {
			p.trace.log("precondition: %s fixed=%d min=%d", c.op, c.fixedPosition, c.minPosition)
		}
		p.trace.log("minimum length %d, fixed length %d, nullable %s", p.minimumLength, p.fixedLength, p.isNullable())
	}
	return p
}

// leadingCharClass returns the class every match must start with, looking
// through captures and repeats that iterate at least once.
func leadingCharClass(op operation) *opCharClass {
	switch op := op.(type) {
	case *opCharClass:
		return op
	case *opSequence:
		return leadingCharClass(op.ops[0])
	case *opCapture:
		return leadingCharClass(op.child)
	case *opRepeat:
		if op.min >= 1 {
			return leadingCharClass(op.child)
		}
	case *opGreedyFixed:
		if op.min >= 1 {
			return leadingCharClass(op.child)
		}
	case *opReluctantFixed:
		if op.min >= 1 {
			return leadingCharClass(op.child)
		}
	}
	return nil
}

// addPrecondition records the atoms and character classes that any match
// must contain, with the earliest offset they can occur at.
func (p *program) addPrecondition(op operation, fixedPosition, minPosition int) {
	switch op := op.(type) {
	case *opAtom, *opCharClass:
		p.preconditions = append(p.preconditions, precondition{op: op, fixedPosition: fixedPosition, minPosition: minPosition})
	case *opRepeat:
		if op.min >= 1 {
			p.addRepeatPrecondition(op.child, op.min, fixedPosition, minPosition)
		}
	case *opGreedyFixed:
		if op.min >= 1 {
			p.addRepeatPrecondition(op.child, op.min, fixedPosition, minPosition)
		}
	case *opReluctantFixed:
		if op.min >= 1 {
			p.addRepeatPrecondition(op.child, op.min, fixedPosition, minPosition)
		}
	case *opCapture:
		p.addPrecondition(op.child, fixedPosition, minPosition)
	case *opSequence:
		fp, mp := fixedPosition, minPosition
		for _, o := range op.ops {
			if _, ok := o.(opBOL); ok && p.flags&FlagMultiline == 0 {
				fp = 0
			}
			p.addPrecondition(o, fp, mp)
			if n := o.matchLength(); fp != -1 && n != -1 {
				fp += n
			} else {
				fp = -1
			}
			mp = addLengths(mp, o.minimumMatchLength())
		}
	}
}

func (p *program) addRepeatPrecondition(child operation, min, fixedPosition, minPosition int) {
	switch child.(type) {
	case *opAtom, *opCharClass:
		op := child
		if min > 1 {
			op = &opGreedyFixed{child: child, min: min, max: min, len: child.matchLength()}
		}
		p.preconditions = append(p.preconditions, precondition{op: op, fixedPosition: fixedPosition, minPosition: minPosition})
	default:
		p.addPrecondition(child, fixedPosition, minPosition)
	}
}

// isNullable reports whether the pattern can match a zero-length string.
// Back-references make the question undecidable here.
func (p *program) isNullable() nullability {
	if p.optimizationFlags&optHasBackrefs != 0 {
		return nullableUnknown
	}
	if p.root.matchesEmptyString() != emptyNever {
		return nullableYes
	}
	return nullableNo
}
