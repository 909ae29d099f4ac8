package xregex

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

type charRange struct {
	lo rune
	hi rune
}

// charSet is a set of codepoints.
type charSet struct {
	// Non-overlapping, non-adjacent ranges sorted in ascending order
	chars []charRange
}

func newCharSet(ranges ...charRange) *charSet {
	s := &charSet{}
	for _, r := range ranges {
		s.unionRange(r.lo, r.hi)
	}
	return s
}

// charSetFromTable converts a unicode.RangeTable. Strided entries are
// expanded into single codepoints.
func charSetFromTable(t *unicode.RangeTable) *charSet {
	s := &charSet{}
	add := func(lo, hi, stride rune) {
		if stride == 1 {
			s.chars = append(s.chars, charRange{lo: lo, hi: hi})
			return
		}
		for r := lo; r <= hi; r += stride {
			s.chars = append(s.chars, charRange{lo: r, hi: r})
		}
	}
	for _, r := range t.R16 {
		add(rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range t.R32 {
		add(rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	s.normalize()
	return s
}

func (s *charSet) clone() *charSet {
	return &charSet{chars: slices.Clone(s.chars)}
}

// normalize sorts the ranges and merges overlapping or adjacent ones.
func (s *charSet) normalize() {
	if len(s.chars) < 2 {
		return
	}
	slices.SortFunc(s.chars, func(a, b charRange) int {
		return int(a.lo) - int(b.lo)
	})
	out := s.chars[:1]
	for _, next := range s.chars[1:] {
		r := &out[len(out)-1]
		if next.lo <= r.hi+1 {
			r.hi = max(r.hi, next.hi)
			continue
		}
		out = append(out, next)
	}
	s.chars = out
}

func (s *charSet) union(other *charSet) {
	if len(s.chars) == 0 {
		s.chars = slices.Clone(other.chars)
		return
	}
	if len(other.chars) == 0 {
		return
	}
	chars := make([]charRange, 0, len(s.chars)+len(other.chars))

	i := 0
	j := 0

	for {
		var next charRange
		if i < len(s.chars) && (j >= len(other.chars) || s.chars[i].lo < other.chars[j].lo) {
			next = s.chars[i]
			i++
		} else if j < len(other.chars) {
			next = other.chars[j]
			j++
		} else {
			break
		}
		if len(chars) == 0 {
			chars = append(chars, next)
			continue
		}
		r := &chars[len(chars)-1]
		if next.hi <= r.hi {
			continue
		}
		if next.lo <= r.hi+1 {
			r.hi = next.hi
			continue
		}
		chars = append(chars, next)
	}
	s.chars = chars
}

func (s *charSet) unionRange(lo, hi rune) {
	s.union(&charSet{chars: []charRange{{lo: lo, hi: hi}}})
}

func (s *charSet) unionChar(r rune) {
	s.unionRange(r, r)
}

func (s *charSet) subtraction(other *charSet) {
	if len(s.chars) == 0 || len(other.chars) == 0 {
		return
	}
	chars := []charRange{}

	j := 0
	for _, sRange := range s.chars {
		for j < len(other.chars) && other.chars[j].hi < sRange.lo {
			j++
		}

		for k := j; k < len(other.chars); k++ {
			oRange := other.chars[k]
			if oRange.lo > sRange.hi {
				break
			}
			if oRange.lo > sRange.lo {
				chars = append(chars, charRange{lo: sRange.lo, hi: oRange.lo - 1})
			}
			if oRange.hi < sRange.hi {
				sRange.lo = oRange.hi + 1
			} else {
				sRange.lo = sRange.hi + 1
				break
			}
		}

		if sRange.lo <= sRange.hi {
			chars = append(chars, sRange)
		}
	}
	s.chars = chars
}

func (s *charSet) complement() {
	if len(s.chars) == 0 {
		s.chars = []charRange{{lo: 0, hi: unicode.MaxRune}}
		return
	}
	chars := make([]charRange, 0, len(s.chars)+1)
	var next rune
	for _, r := range s.chars {
		if r.lo > next {
			chars = append(chars, charRange{lo: next, hi: r.lo - 1})
		}
		next = r.hi + 1
	}
	if next <= unicode.MaxRune {
		chars = append(chars, charRange{lo: next, hi: unicode.MaxRune})
	}
	s.chars = chars
}

func (s *charSet) containsRune(r rune) bool {
	lo := 0
	hi := len(s.chars)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		range_ := s.chars[m]
		if range_.lo <= r && r <= range_.hi {
			return true
		}
		if r < range_.lo {
			hi = m
		} else {
			lo = m + 1
		}
	}
	return false
}

// single returns the only member of a one-codepoint set.
func (s *charSet) single() (rune, bool) {
	if len(s.chars) == 1 && s.chars[0].lo == s.chars[0].hi {
		return s.chars[0].lo, true
	}
	return 0, false
}

func (s *charSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range s.chars {
		if i == 8 {
			b.WriteString("...")
			break
		}
		b.WriteString(quoteRune(r.lo))
		if r.hi != r.lo {
			b.WriteByte('-')
			b.WriteString(quoteRune(r.hi))
		}
	}
	b.WriteByte(']')
	return b.String()
}

func quoteRune(r rune) string {
	if r > ' ' && r < 0x7F && !strings.ContainsRune(`\[]-^`, r) {
		return string(r)
	}
	return `\x{` + strconv.FormatInt(int64(r), 16) + `}`
}
