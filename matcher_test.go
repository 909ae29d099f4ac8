package xregex

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestGrowFilled(t *testing.T) {
	assert.DeepEqual(t, growFilled(nil, 0), []int{-1, -1, -1, -1})
	assert.DeepEqual(t, growFilled([]int{1, 2}, 5), []int{1, 2, -1, -1, -1, -1})
	assert.DeepEqual(t, growFilled([]int{1, 2, 3, 4}, 4), []int{1, 2, 3, 4, -1, -1, -1, -1})

	a := []int{7, 8}
	assert.Equal(t, &growFilled(a, 1)[0], &a[0])
}

func TestMatcherGroups(t *testing.T) {
	re := MustCompile("(a)(x)?(b)", 0)
	m := re.get("zab")
	defer re.put(m)

	assert.Assert(t, m.match(0))
	assert.DeepEqual(t, m.groupSpans(), []int{1, 3, 1, 2, -1, -1, 2, 3})
	s, ok := m.getParen(3)
	assert.Assert(t, ok)
	assert.Equal(t, s.String(), "b")
	_, ok = m.getParen(2)
	assert.Assert(t, !ok)
	assert.Equal(t, m.getParenStart(9), -1)
	assert.Equal(t, m.getParenEnd(9), -1)

	assert.Assert(t, is.Panics(func() { m.getParenStart(-1) }))
	assert.Assert(t, is.Panics(func() { m.getParenEnd(-1) }))
}

func TestMatcherState(t *testing.T) {
	m := newMatcher(&program{})
	m.startn = []int{0, 2, 5}
	m.endn = []int{8, 4, 7}
	m.parenCount = 3

	saved := m.captureState()
	m.clearCapturedGroupsBeyond(3)
	assert.DeepEqual(t, m.endn, []int{8, 4, 5})
	m.clearCapturedGroupsBeyond(0)
	assert.DeepEqual(t, m.endn, []int{8, 2, 5})

	m.parenCount = 1
	m.resetState(saved)
	assert.DeepEqual(t, m.startn, []int{0, 2, 5})
	assert.DeepEqual(t, m.endn, []int{8, 4, 7})
	assert.Equal(t, m.parenCount, 3)

	m.startBackref = []int{-1, 1}
	m.endBackref = []int{-1, 3}
	m.clearCapturedGroupsBeyond(1)
	assert.DeepEqual(t, m.endBackref, []int{-1, 1})
}

func TestMatcherStep(t *testing.T) {
	m := newMatcher(&program{backtrackingLimit: 2})
	assert.Assert(t, m.step())
	assert.Assert(t, m.step())
	assert.Assert(t, !m.step())
	assert.Equal(t, m.err, ErrBacktrackLimit)
	assert.Assert(t, !m.step())

	m.reset(m.search)
	assert.NilError(t, m.err)
	assert.Assert(t, m.step())

	unlimited := newMatcher(&program{})
	for k := 0; k < 1000; k++ {
		assert.Assert(t, unlimited.step())
	}
}

func TestMatcherMatch(t *testing.T) {
	start := func(t *testing.T, pattern string, flags Flag, input string, from int) int {
		t.Helper()
		re := MustCompile(pattern, flags)
		m := re.get(input)
		defer re.put(m)
		if !m.match(from) {
			return -1
		}
		return m.getParenStart(0)
	}

	t.Run("from", func(t *testing.T) {
		assert.Equal(t, start(t, "b", 0, "abab", 0), 1)
		assert.Equal(t, start(t, "b", 0, "abab", 2), 3)
		assert.Equal(t, start(t, "b", 0, "abab", 4), -1)
		assert.Equal(t, start(t, "x*", 0, "ab", 2), 2)
	})

	t.Run("strategies", func(t *testing.T) {
		// prefix
		assert.Equal(t, start(t, "ab+", 0, "aaabbb", 0), 2)
		// initial character class
		assert.Equal(t, start(t, "[0-9]+x", 0, "a12b34x", 0), 4)
		// literal prefilter
		assert.Equal(t, start(t, "(cat|dog)s", 0, "dog cats", 0), 4)
		assert.Equal(t, start(t, "(cat|dog)s", 0, "dog cat", 0), -1)
		// preconditions
		assert.Equal(t, start(t, "(a|b)c", 0, "abababac", 0), 6)
		assert.Equal(t, start(t, "(a|b)c", 0, "abababa", 0), -1)
	})

	t.Run("bol", func(t *testing.T) {
		assert.Equal(t, start(t, "^a", 0, "aa", 0), 0)
		assert.Equal(t, start(t, "^a", 0, "aa", 1), -1)
		assert.Equal(t, start(t, "^b", m, "a\nb\nb", 0), 2)
		assert.Equal(t, start(t, "^b", m, "a\nb\nb", 3), 4)
		assert.Equal(t, start(t, "^b", m, "a\nb\nb", 5), -1)
		assert.Equal(t, start(t, "^$", m, "a\n\nb", 0), 2)
	})

	t.Run("anchored", func(t *testing.T) {
		anchored := func(pattern, input string) bool {
			re := MustCompile(pattern, 0)
			mt := re.get(input)
			defer re.put(mt)
			return mt.isAnchoredMatch()
		}
		assert.Assert(t, anchored("a+", "aaa"))
		assert.Assert(t, !anchored("a+", "aab"))
		assert.Assert(t, !anchored("abc", "abcd"))
		assert.Assert(t, !anchored("abc", "ab"))
		assert.Assert(t, anchored("a|ab", "ab"))
		assert.Assert(t, anchored("(a*)*", ""))
	})
}
