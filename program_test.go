package xregex

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func compileProgram(t *testing.T, pattern string, flags Flag) *program {
	t.Helper()
	re, err := Compile(pattern, flags)
	assert.NilError(t, err)
	return re.prog
}

func TestProgramStartStrategy(t *testing.T) {
	t.Run("prefix", func(t *testing.T) {
		p := compileProgram(t, "abc[0-9]", 0)
		assert.Equal(t, p.prefix.String(), "abc")
		assert.Assert(t, p.initialCharClass == nil)
		assert.Assert(t, p.literalPrefilter == nil)

		p = compileProgram(t, "(ab)+c", 0)
		assert.Equal(t, p.prefix.String(), "ab")

		p = compileProgram(t, "a*c", 0)
		assert.Assert(t, p.prefix.IsEmpty())
	})

	t.Run("bol", func(t *testing.T) {
		p := compileProgram(t, "^abc", 0)
		assert.Assert(t, p.optimizationFlags&optHasBOL != 0)
		assert.Assert(t, p.prefix.IsEmpty())

		p = compileProgram(t, "^abc|x", 0)
		assert.Assert(t, p.optimizationFlags&optHasBOL == 0)
	})

	t.Run("initial class", func(t *testing.T) {
		p := compileProgram(t, "[a-c]x", 0)
		assert.Assert(t, p.initialCharClass != nil)
		assert.Assert(t, p.initialCharClass.matchesChar('b'))
		assert.Assert(t, !p.initialCharClass.matchesChar('x'))

		p = compileProgram(t, "\\d+", 0)
		assert.Assert(t, p.initialCharClass != nil)

		p = compileProgram(t, "[a-c]", i)
		assert.Assert(t, p.initialCharClass.matchesChar('B'))
	})

	t.Run("prefilter", func(t *testing.T) {
		p := compileProgram(t, "(cat|dog|bird)s?", 0)
		assert.Assert(t, p.literalPrefilter != nil)
		assert.Equal(t, p.literalPrefilter.patterns, 3)

		p = compileProgram(t, "cat|dog", 0)
		assert.Assert(t, p.literalPrefilter != nil)

		p = compileProgram(t, "(cat|dog)s", i)
		assert.Assert(t, p.literalPrefilter == nil)

		p = compileProgram(t, "cat|[dD]og", 0)
		assert.Assert(t, p.literalPrefilter == nil)
	})

	t.Run("prefilter find", func(t *testing.T) {
		re := MustCompile("(cat|dog)", 0)
		mt := re.get("été: hotdog, cat")
		defer re.put(mt)
		pf := re.prog.literalPrefilter
		assert.Equal(t, pf.find(mt, 0), 8)
		assert.Equal(t, pf.find(mt, 9), 13)
		assert.Equal(t, pf.find(mt, 14), -1)
		assert.Equal(t, pf.find(mt, 16), -1)
	})

	t.Run("prefilter find overlapping literals", func(t *testing.T) {
		re := MustCompile("(abcd|bc)", 0)
		mt := re.get("abcd zbc")
		defer re.put(mt)
		pf := re.prog.literalPrefilter
		assert.Assert(t, pf != nil)
		assert.Equal(t, pf.find(mt, 0), 0)
		assert.Equal(t, pf.find(mt, 1), 1)
		assert.Equal(t, pf.find(mt, 2), 6)
	})
}

func TestProgramPreconditions(t *testing.T) {
	type pc struct {
		Op    string
		Fixed int
		Min   int
	}
	collect := func(p *program) []pc {
		var out []pc
		for _, c := range p.preconditions {
			out = append(out, pc{c.op.String(), c.fixedPosition, c.minPosition})
		}
		return out
	}

	assert.DeepEqual(t, collect(compileProgram(t, "^ab", 0)), []pc{{`"ab"`, 0, 0}})
	assert.DeepEqual(t, collect(compileProgram(t, "a+b", 0)), []pc{{`"a"`, -1, 0}, {`"b"`, -1, 1}})
	assert.DeepEqual(t, collect(compileProgram(t, "x{3}y", 0)), []pc{{`"x"{3}`, -1, 0}, {`"y"`, -1, 3}})
	assert.DeepEqual(t, collect(compileProgram(t, "^a.c", 0)), []pc{{`"a"`, 0, 0}, {`[\x{0}-\x{9}\x{b}-\x{c}\x{e}-\x{10ffff}]`, 1, 1}, {`"c"`, 2, 2}})
	assert.DeepEqual(t, collect(compileProgram(t, "(a|b)c", 0)), []pc{{`"c"`, -1, 1}})
	assert.Assert(t, is.Len(collect(compileProgram(t, "a*", 0)), 0))

	// In multi-line mode "^" may match after any newline, so positions are
	// only minimums.
	assert.DeepEqual(t, collect(compileProgram(t, "^ab", m)), []pc{{`"ab"`, -1, 0}})

	re := MustCompile("a.*z", 0)
	mt := re.get("abc")
	assert.Assert(t, !mt.checkPreconditions(0))
	re.put(mt)
	mt = re.get("abcz")
	assert.Assert(t, mt.checkPreconditions(0))
	re.put(mt)
}

func TestProgramLengths(t *testing.T) {
	cases := []struct {
		pattern string
		min     int
		fixed   int
	}{
		{"abc", 3, 3},
		{"ab?c", 2, -1},
		{"(ab|cd)", 2, 2},
		{"(ab|c)", 1, -1},
		{"a{3,5}", 3, -1},
		{"a{4}", 4, 4},
		{"(a{2}){3}", 6, 6},
		{"a*", 0, -1},
		{"^$", 0, 0},
		{"(a)\\1", 1, -1},
		{"", 0, 0},
	}
	for _, c := range cases {
		p := compileProgram(t, c.pattern, 0)
		assert.Equal(t, p.minimumLength, c.min, c.pattern)
		assert.Equal(t, p.fixedLength, c.fixed, c.pattern)
	}
}

func TestProgramNullability(t *testing.T) {
	cases := []struct {
		pattern  string
		expected nullability
	}{
		{"a*", nullableYes},
		{"a?b?", nullableYes},
		{"()", nullableYes},
		{"a|", nullableYes},
		{"a", nullableNo},
		{"a+", nullableNo},
		{"a*b", nullableNo},
		{"(a)\\1", nullableUnknown},
		{"(a*)\\1", nullableUnknown},
		{"^$", nullableYes},
		{"^a?$", nullableYes},
		{"(?:^)(?:$)", nullableYes},
		{"$^", nullableYes},
		{"^a$", nullableNo},
	}
	for _, c := range cases {
		assert.Equal(t, compileProgram(t, c.pattern, 0).isNullable(), c.expected, c.pattern)
	}
	assert.Equal(t, nullableUnknown.String(), "unknown")
}

func TestProgramOptimize(t *testing.T) {
	cases := []struct {
		pattern  string
		expected string
	}{
		{"ab", `"ab"\End`},
		{"a(?:bc)d", `"abcd"\End`},
		{"ab{0}c", `"ac"\End`},
		{"(?:a|b)", `(?:"a"|"b")\End`},
		{"a{1}b", `"ab"\End`},
		{"x+", `"x"+\End`},
		{"x+?", `"x"+?\End`},
		{"(x)+", `(1:"x")+\End`},
		{"(xy){2,}", `(1:"xy"){2,}\End`},
		{"[a]b[c]", `"abc"\End`},
	}
	for _, c := range cases {
		assert.Equal(t, compileProgram(t, c.pattern, 0).root.String(), c.expected, c.pattern)
	}

	_, ok := compileProgram(t, "x{2,5}", 0).root.(*opSequence).ops[0].(*opGreedyFixed)
	assert.Assert(t, ok)
	_, ok = compileProgram(t, "x{2,5}?", 0).root.(*opSequence).ops[0].(*opReluctantFixed)
	assert.Assert(t, ok)
	_, ok = compileProgram(t, "(x){2,5}", 0).root.(*opSequence).ops[0].(*opRepeat)
	assert.Assert(t, ok)
}

func TestProgramTrace(t *testing.T) {
	var buf bytes.Buffer
	_, err := CompileWithConfig("abc+", 0, Config{Trace: &buf})
	assert.NilError(t, err)
	out := buf.String()
	assert.Assert(t, is.Contains(out, "[xregex] === optimize ==="))
	assert.Assert(t, is.Contains(out, `[xregex] prefix: "ab" (8-bit)`))
	assert.Assert(t, is.Contains(out, "[xregex] minimum length 3, fixed length -1, nullable no"))

	buf.Reset()
	re, err := CompileWithConfig("(a|aa)+$", 0, Config{Trace: &buf, BacktrackLimit: 10})
	assert.NilError(t, err)
	_, err = re.Matches("aaaaaaaaaaaaaaaaaaab")
	assert.Assert(t, err != nil)
	assert.Assert(t, is.Contains(buf.String(), "[xregex] gave up after 10 backtracking steps"))

	var nilTracer *tracer
	assert.Assert(t, !nilTracer.enabled())
	assert.Assert(t, newTracer(&buf).enabled())
	nilTracer.log("ignored %d", 1)
	nilTracer.section("ignored")
}
