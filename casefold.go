package xregex

import "unicode"

// caseVariants returns the codepoints other than c that match c when case
// is ignored. The result is empty for caseless codepoints.
func caseVariants(c rune) []rune {
	var variants []rune
	for f := unicode.SimpleFold(c); f != c; f = unicode.SimpleFold(f) {
		variants = append(variants, f)
	}
	return variants
}

// equalCaseBlind reports whether c1 equals c2 or one of its case variants.
func equalCaseBlind(c1, c2 rune) bool {
	if c1 == c2 {
		return true
	}
	for f := unicode.SimpleFold(c2); f != c2; f = unicode.SimpleFold(f) {
		if f == c1 {
			return true
		}
	}
	return false
}
