package xregex

import (
	"fmt"
	"strings"
)

// Flag is a bitmask of regex options.
// The zero value corresponds to a pattern with no flags.
// Combine flags with bitwise OR, e.g. FlagIgnoreCase|FlagMultiline.
type Flag uint16

const (
	// "." matches line terminators ("s" flag).
	FlagDotAll Flag = 1 << iota

	// "^" and "$" match line boundaries ("m" flag).
	FlagMultiline

	// Case-insensitive matching ("i" flag).
	FlagIgnoreCase

	// Whitespace outside character class expressions is removed from the
	// pattern before it is compiled ("x" flag).
	FlagIgnoreWhitespace

	// The pattern is a literal string, and replacement templates are copied
	// verbatim ("q" flag).
	FlagLiteral
)

var flagLetters = [...]struct {
	letter byte
	flag   Flag
}{
	{'s', FlagDotAll},
	{'m', FlagMultiline},
	{'i', FlagIgnoreCase},
	{'x', FlagIgnoreWhitespace},
	{'q', FlagLiteral},
}

// ParseFlags converts an XPath flags string such as "mi" to a Flag.
// Letters may appear in any order and may repeat.
func ParseFlags(s string) (Flag, error) {
	var flags Flag
Letters:
	for _, r := range s {
		for _, l := range flagLetters {
			if r == rune(l.letter) {
				flags |= l.flag
				continue Letters
			}
		}
		return 0, newSyntaxError(fmt.Sprintf("invalid flag %q in %q", r, s))
	}
	return flags, nil
}

// String returns the canonical flags string, e.g. "smi".
func (f Flag) String() string {
	var b strings.Builder
	for _, l := range flagLetters {
		if f&l.flag != 0 {
			b.WriteByte(l.letter)
		}
	}
	return b.String()
}
