package xregex

import (
	"sync"
	"unicode"
)

//go:generate go run ./internal/gen/blocks -in internal/gen/blocks/blocks.txt -out blocks_table.go

type unicodeBlock struct {
	name string
	lo   rune
	hi   rune
}

// \s
var spaceCharSet = newCharSet(
	charRange{lo: '\t', hi: '\n'},
	charRange{lo: '\r', hi: '\r'},
	charRange{lo: ' ', hi: ' '},
)

// XML 1.0 (fifth edition) NameStartChar, used by \i
var nameStartCharSet = newCharSet(
	charRange{lo: ':', hi: ':'},
	charRange{lo: 'A', hi: 'Z'},
	charRange{lo: '_', hi: '_'},
	charRange{lo: 'a', hi: 'z'},
	charRange{lo: 0xC0, hi: 0xD6},
	charRange{lo: 0xD8, hi: 0xF6},
	charRange{lo: 0xF8, hi: 0x2FF},
	charRange{lo: 0x370, hi: 0x37D},
	charRange{lo: 0x37F, hi: 0x1FFF},
	charRange{lo: 0x200C, hi: 0x200D},
	charRange{lo: 0x2070, hi: 0x218F},
	charRange{lo: 0x2C00, hi: 0x2FEF},
	charRange{lo: 0x3001, hi: 0xD7FF},
	charRange{lo: 0xF900, hi: 0xFDCF},
	charRange{lo: 0xFDF0, hi: 0xFFFD},
	charRange{lo: 0x10000, hi: 0xEFFFF},
)

// NameChar, used by \c
var nameCharSet = func() *charSet {
	s := nameStartCharSet.clone()
	s.union(newCharSet(
		charRange{lo: '-', hi: '.'},
		charRange{lo: '0', hi: '9'},
		charRange{lo: 0xB7, hi: 0xB7},
		charRange{lo: 0x300, hi: 0x36F},
		charRange{lo: 0x203F, hi: 0x2040},
	))
	return s
}()

var categoryCache sync.Map // map[string]*charSet

// categoryCharSet returns the codepoints of a general category ("L", "Nd",
// "Cn", ...). Callers must not modify the result.
func categoryCharSet(name string) (*charSet, bool) {
	if s, ok := categoryCache.Load(name); ok {
		return s.(*charSet), true
	}
	var s *charSet
	switch name {
	case "Cn":
		s = unassignedCharSet()
	case "C":
		s = charSetFromTable(unicode.C)
		s.union(unassignedCharSet())
	default:
		table, ok := unicode.Categories[name]
		if !ok {
			return nil, false
		}
		s = charSetFromTable(table)
	}
	actual, _ := categoryCache.LoadOrStore(name, s)
	return actual.(*charSet), true
}

func unassignedCharSet() *charSet {
	s := &charSet{}
	// unicode.C includes the unassigned codepoints, so only its assigned
	// subcategories are subtracted.
	assigned := []*unicode.RangeTable{
		unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z,
		unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs,
	}
	for _, major := range assigned {
		s.union(charSetFromTable(major))
	}
	s.complement()
	return s
}

// \d is \p{Nd}
func digitCharSet() *charSet {
	s, _ := categoryCharSet("Nd")
	return s
}

// \w is [#x0000-#x10FFFF]-[\p{P}\p{Z}\p{C}]
var wordCharSet = sync.OnceValue(func() *charSet {
	s := &charSet{}
	for _, name := range []string{"P", "Z", "C"} {
		c, _ := categoryCharSet(name)
		s.union(c)
	}
	s.complement()
	return s
})

// classEscape returns the set for \s, \i, \c, \d or \w.
func classEscape(r rune) *charSet {
	switch r {
	case 's':
		return spaceCharSet
	case 'i':
		return nameStartCharSet
	case 'c':
		return nameCharSet
	case 'd':
		return digitCharSet()
	}
	return wordCharSet()
}

// blockCharSet returns the codepoints of a named Unicode block as used by
// \p{IsName}. Names are compared with spaces removed.
func blockCharSet(name string) (*charSet, bool) {
	var s *charSet
	for _, b := range unicodeBlocks {
		if b.name != name {
			continue
		}
		if s == nil {
			s = &charSet{}
		}
		s.unionRange(b.lo, b.hi)
	}
	return s, s != nil
}
