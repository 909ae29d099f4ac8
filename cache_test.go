package xregex

import (
	"errors"
	"sync"
	"testing"

	"gotest.tools/v3/assert"
)

func TestCache(t *testing.T) {
	t.Run("reuse", func(t *testing.T) {
		c := NewCache(10, DefaultConfig())
		a, err := c.Get("a+b", 0)
		assert.NilError(t, err)
		b, err := c.Get("a+b", 0)
		assert.NilError(t, err)
		assert.Assert(t, a == b)

		i, err := c.Get("a+b", FlagIgnoreCase)
		assert.NilError(t, err)
		assert.Assert(t, a != i)
		assert.Equal(t, c.Len(), 2)
	})

	t.Run("eviction", func(t *testing.T) {
		c := NewCache(2, DefaultConfig())
		first, _ := c.Get("1", 0)
		c.Get("2", 0)
		c.Get("3", 0)
		assert.Equal(t, c.Len(), 2)

		again, err := c.Get("1", 0)
		assert.NilError(t, err)
		assert.Assert(t, first != again, "oldest entry should have been evicted")
		assert.Equal(t, c.Len(), 2)
	})

	t.Run("errors", func(t *testing.T) {
		c := NewCache(0, DefaultConfig())
		_, err := c.Get("a(", 0)
		var syntaxErr SyntaxError
		assert.Assert(t, errors.As(err, &syntaxErr))
		assert.Equal(t, c.Len(), 0)

		_, err = c.GetFlags("a", "ig")
		assert.ErrorContains(t, err, "invalid flag 'g'")

		re, err := c.GetFlags("A", "i")
		assert.NilError(t, err)
		ok, err := re.Matches("a")
		assert.NilError(t, err)
		assert.Assert(t, ok)
	})

	t.Run("config", func(t *testing.T) {
		c := NewCache(4, Config{Dialect: DialectXSD})
		re, err := c.Get("^a$", 0)
		assert.NilError(t, err)
		ok, err := re.Matches("^a$")
		assert.NilError(t, err)
		assert.Assert(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		c := NewCache(4, DefaultConfig())
		a, _ := c.Get("x", 0)
		c.Get("y", 0)
		c.Clear()
		assert.Equal(t, c.Len(), 0)
		b, _ := c.Get("x", 0)
		assert.Assert(t, a != b)
	})

	t.Run("concurrent", func(t *testing.T) {
		c := NewCache(8, DefaultConfig())
		patterns := []string{"a", "b+", "c*d", "(e|f)", "[g-h]", "i{2}", "j?", "k.", "l$", "^m"}
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 100; k++ {
					if _, err := c.Get(patterns[(g+k)%len(patterns)], 0); err != nil {
						t.Error(err)
						return
					}
				}
			}()
		}
		wg.Wait()
		assert.Assert(t, c.Len() <= 8)
	})
}

func TestParseFlags(t *testing.T) {
	cases := []struct {
		in       string
		expected Flag
	}{
		{"", 0},
		{"s", FlagDotAll},
		{"mi", FlagMultiline | FlagIgnoreCase},
		{"iim", FlagMultiline | FlagIgnoreCase},
		{"qxims", FlagDotAll | FlagMultiline | FlagIgnoreCase | FlagIgnoreWhitespace | FlagLiteral},
	}
	for _, c := range cases {
		f, err := ParseFlags(c.in)
		assert.NilError(t, err, c.in)
		assert.Equal(t, f, c.expected, c.in)
	}

	assert.Equal(t, Flag(0).String(), "")
	assert.Equal(t, (FlagLiteral | FlagDotAll | FlagIgnoreCase).String(), "siq")

	f, _ := ParseFlags("qxims")
	assert.Equal(t, f.String(), "smixq")

	for _, bad := range []string{"g", "mg", "I", " "} {
		_, err := ParseFlags(bad)
		var syntaxErr SyntaxError
		assert.Assert(t, errors.As(err, &syntaxErr), bad)
	}
}
