package ustr

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_Basics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		len   int
		width int
	}{
		{"empty", "", 0, 8},
		{"ascii", "hello", 5, 8},
		{"latin1", "café", 4, 8},
		{"bmp", "Ωmega", 5, 16},
		{"astral", "a\U0001F431b", 3, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromString(tt.input)
			assert.Equal(t, tt.len, s.Len())
			tidy := s.Tidy()
			assert.Equal(t, tt.width, tidy.Width())
			assert.Equal(t, tt.input, tidy.String())
			assert.True(t, tidy.Equal(s))
		})
	}
}

func TestString_TidyIdempotent(t *testing.T) {
	for _, input := range []string{"", "abc", "ÿþ", "Āx", "\U0010FFFF", "a\r\nb"} {
		once := FromString(input).Tidy()
		twice := once.Tidy()
		assert.Equal(t, once.Width(), twice.Width(), input)
		assert.True(t, once.Equal(twice), input)
		assert.Equal(t, input, twice.String())
	}
}

func TestString_AtCodepoints(t *testing.T) {
	s := FromString("a\U0001F431b").Tidy()
	require.Equal(t, 3, s.Len())
	assert.Equal(t, 'a', s.At(0))
	assert.Equal(t, '\U0001F431', s.At(1))
	assert.Equal(t, 'b', s.At(2))
	assert.Equal(t, []rune{'a', '\U0001F431', 'b'}, slices.Collect(s.CodePoints()))
}

func TestString_OutOfRange(t *testing.T) {
	s := FromString("abc").Tidy()
	assert.Panics(t, func() { s.At(3) })
	assert.Panics(t, func() { s.At(-1) })
	assert.Panics(t, func() { s.Slice(2, 4) })
	assert.Panics(t, func() { s.Slice(2, 1) })
	assert.NotPanics(t, func() { s.Slice(3, 3) })
}

func TestString_SliceAndIndexOf(t *testing.T) {
	s := FromString("xaāb\na").Tidy()
	assert.Equal(t, "aāb", s.Slice(1, 4).String())
	assert.Equal(t, 4, s.IndexOf('\n', 0))
	assert.Equal(t, 5, s.IndexOf('a', 2))
	assert.Equal(t, -1, s.IndexOf('z', 0))
	assert.Equal(t, -1, FromString("abc").Tidy().IndexOf('ā', 0))
	assert.True(t, s.HasPrefixAt(FromString("āb"), 2))
	assert.False(t, s.HasPrefixAt(FromString("a\n"), 5))
}

func TestString_Concat(t *testing.T) {
	a := FromString("ab").Tidy()
	b := FromString("Ω").Tidy()
	c := FromString("\U0001F431").Tidy()
	got := a.Concat(b, c)
	assert.Equal(t, "abΩ\U0001F431", got.String())
	assert.Equal(t, 32, got.Width())
	assert.Equal(t, "ab", a.Concat().String())
}

func TestString_UTF8(t *testing.T) {
	b, offsets := FromString("aé\U0001F431").Tidy().UTF8()
	assert.Equal(t, []byte("aé\U0001F431"), b)
	assert.Equal(t, []int{0, 1, 3, 7}, offsets)
}

func TestBuilder(t *testing.T) {
	var b Builder
	b.WriteString(FromString("foo"))
	b.WriteRune('-')
	b.WriteString(FromString("Ω").Tidy())
	assert.Equal(t, 5, b.Len())
	s := b.String()
	assert.Equal(t, "foo-Ω", s.String())
	assert.Equal(t, 16, s.Width())
	b.WriteRune('!')
	assert.Equal(t, "foo-Ω", s.String())
}
