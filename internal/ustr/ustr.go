// Package ustr implements a codepoint-indexed string.
//
// Go strings are indexed by byte. The matcher needs random access by
// codepoint, so a String keeps its codepoints in the narrowest fixed-width
// array that can hold all of them: bytes for Latin-1 text, uint16 for text
// inside the Basic Multilingual Plane and runes otherwise.
package ustr

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

type width uint8

const (
	width8 width = iota
	width16
	width32
)

// String is an immutable sequence of Unicode codepoints.
// The zero value is the empty string.
type String struct {
	latin1 []byte
	bmp    []uint16
	runes  []rune
	w      width
}

// FromString decodes s. Invalid UTF-8 sequences become U+FFFD.
func FromString(s string) String {
	return String{runes: []rune(s), w: width32}
}

// FromRunes wraps a copy of r.
func FromRunes(r []rune) String {
	c := make([]rune, len(r))
	copy(c, r)
	return String{runes: c, w: width32}
}

// Len returns the number of codepoints.
func (s String) Len() int {
	switch s.w {
	case width8:
		return len(s.latin1)
	case width16:
		return len(s.bmp)
	default:
		return len(s.runes)
	}
}

// IsEmpty reports whether s has no codepoints.
func (s String) IsEmpty() bool {
	return s.Len() == 0
}

// At returns the codepoint at index i. It panics if i is outside [0, Len).
func (s String) At(i int) rune {
	switch s.w {
	case width8:
		if uint(i) >= uint(len(s.latin1)) {
			panic(outOfRange(i, len(s.latin1)))
		}
		return rune(s.latin1[i])
	case width16:
		if uint(i) >= uint(len(s.bmp)) {
			panic(outOfRange(i, len(s.bmp)))
		}
		return rune(s.bmp[i])
	default:
		if uint(i) >= uint(len(s.runes)) {
			panic(outOfRange(i, len(s.runes)))
		}
		return s.runes[i]
	}
}

// Slice returns the codepoints in [start, end). The result shares storage
// with s. It panics unless 0 <= start <= end <= Len.
func (s String) Slice(start, end int) String {
	n := s.Len()
	if start < 0 || end > n || start > end {
		panic(fmt.Sprintf("ustr: slice bounds [%d:%d] out of range [0:%d]", start, end, n))
	}
	switch s.w {
	case width8:
		return String{latin1: s.latin1[start:end], w: width8}
	case width16:
		return String{bmp: s.bmp[start:end], w: width16}
	default:
		return String{runes: s.runes[start:end], w: width32}
	}
}

// IndexOf returns the index of the first occurrence of c at or after from,
// or -1.
func (s String) IndexOf(c rune, from int) int {
	if from < 0 {
		from = 0
	}
	switch s.w {
	case width8:
		if c > 0xFF {
			return -1
		}
		for i := from; i < len(s.latin1); i++ {
			if rune(s.latin1[i]) == c {
				return i
			}
		}
	case width16:
		if c > 0xFFFF {
			return -1
		}
		for i := from; i < len(s.bmp); i++ {
			if rune(s.bmp[i]) == c {
				return i
			}
		}
	default:
		for i := from; i < len(s.runes); i++ {
			if s.runes[i] == c {
				return i
			}
		}
	}
	return -1
}

// Concat returns s followed by others.
func (s String) Concat(others ...String) String {
	var b Builder
	b.Grow(s.Len())
	b.WriteString(s)
	for _, o := range others {
		b.WriteString(o)
	}
	return b.String()
}

// CodePoints iterates over the codepoints of s from first to last.
func (s String) CodePoints() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		n := s.Len()
		for i := 0; i < n; i++ {
			if !yield(s.At(i)) {
				return
			}
		}
	}
}

// Tidy returns s stored in the narrowest width able to hold every codepoint.
// Content and indexing are unchanged, and Tidy(Tidy(s)) == Tidy(s).
func (s String) Tidy() String {
	var hi rune
	for r := range s.CodePoints() {
		if r > hi {
			hi = r
		}
	}
	var want width
	switch {
	case hi <= 0xFF:
		want = width8
	case hi <= 0xFFFF:
		want = width16
	default:
		want = width32
	}
	if want == s.w {
		return s
	}
	n := s.Len()
	switch want {
	case width8:
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(s.At(i))
		}
		return String{latin1: b, w: width8}
	case width16:
		u := make([]uint16, n)
		for i := range u {
			u[i] = uint16(s.At(i))
		}
		return String{bmp: u, w: width16}
	default:
		r := make([]rune, n)
		for i := range r {
			r[i] = s.At(i)
		}
		return String{runes: r, w: width32}
	}
}

// Width returns the number of bits used per stored codepoint.
func (s String) Width() int {
	switch s.w {
	case width8:
		return 8
	case width16:
		return 16
	default:
		return 32
	}
}

// Equal reports whether s and o hold the same codepoints.
func (s String) Equal(o String) bool {
	n := s.Len()
	if n != o.Len() {
		return false
	}
	for i := 0; i < n; i++ {
		if s.At(i) != o.At(i) {
			return false
		}
	}
	return true
}

// HasPrefixAt reports whether p occurs in s starting at index i.
func (s String) HasPrefixAt(p String, i int) bool {
	if i < 0 || i+p.Len() > s.Len() {
		return false
	}
	for j := 0; j < p.Len(); j++ {
		if s.At(i+j) != p.At(j) {
			return false
		}
	}
	return true
}

// String returns s encoded as UTF-8.
func (s String) String() string {
	if s.w == width32 {
		return string(s.runes)
	}
	buf := make([]byte, 0, s.Len())
	for r := range s.CodePoints() {
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}

// UTF8 returns s encoded as UTF-8 together with the byte offset of every
// codepoint. offsets has Len()+1 entries; the last one is len(b).
func (s String) UTF8() (b []byte, offsets []int) {
	n := s.Len()
	b = make([]byte, 0, n)
	offsets = make([]int, 0, n+1)
	for r := range s.CodePoints() {
		offsets = append(offsets, len(b))
		b = utf8.AppendRune(b, r)
	}
	offsets = append(offsets, len(b))
	return b, offsets
}

func outOfRange(i, n int) string {
	return fmt.Sprintf("ustr: index %d out of range [0:%d)", i, n)
}
