package xregex

import (
	"github.com/auvred/xregex/internal/ustr"
)

// Replacement is a parsed replacement template, bound to the number of
// groups of the Regexp that prepared it.
type Replacement struct {
	re       *Regexp
	template string
	segments []replacementSegment
}

type replacementSegment struct {
	// group is -1 for literal text.
	group int
	text  ustr.String
}

// parseReplacement parses an XPath replacement template:
//
//   - \\ is a backslash and \$ is a dollar sign
//   - $N is the text of group N, where N is the longest run of digits not
//     exceeding captures (at least one digit); groups that do not exist or
//     did not participate are replaced by nothing
//   - with literal set, the template is used as is
func parseReplacement(tmpl string, captures int, literal bool) (*Replacement, error) {
	r := &Replacement{template: tmpl}
	if literal {
		if tmpl != "" {
			r.segments = []replacementSegment{{group: -1, text: ustr.FromString(tmpl).Tidy()}}
		}
		return r, nil
	}

	runes := []rune(tmpl)
	var lit ustr.Builder
	flush := func() {
		if lit.Len() > 0 {
			r.segments = append(r.segments, replacementSegment{group: -1, text: lit.String()})
			lit = ustr.Builder{}
		}
	}
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '\\':
			if i+1 >= len(runes) || (runes[i+1] != '\\' && runes[i+1] != '$') {
				return nil, &ReplacementError{Template: tmpl, Offset: i, Message: `\ must be followed by \ or $`}
			}
			i++
			lit.WriteRune(runes[i])
		case '$':
			j := i + 1
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			if j == i+1 {
				return nil, &ReplacementError{Template: tmpl, Offset: i, Message: "$ must be followed by a digit"}
			}
			group := 0
			k := i + 1
			for ; k < j; k++ {
				next := group*10 + int(runes[k]-'0')
				if k > i+1 && next > captures {
					break
				}
				group = next
			}
			flush()
			if group <= captures {
				r.segments = append(r.segments, replacementSegment{group: group})
			}
			i = k - 1
		default:
			lit.WriteRune(c)
		}
	}
	flush()
	return r, nil
}

// expand appends the replacement for the matcher's current match.
func (r *Replacement) expand(m *matcher, b *ustr.Builder) {
	for _, s := range r.segments {
		if s.group < 0 {
			b.WriteString(s.text)
			continue
		}
		if text, ok := m.getParen(s.group); ok {
			b.WriteString(text)
		}
	}
}

// String returns the template the replacement was parsed from.
func (r *Replacement) String() string {
	return r.template
}

// nextSearch returns where to look for the match after [start, end). An
// empty match moves the search on by one codepoint.
func nextSearch(start, end int) int {
	if end == start {
		return end + 1
	}
	return end
}

// split returns the substrings between successive matches. The result
// always has one more element than there were matches.
func (m *matcher) split() []ustr.String {
	var out []ustr.String
	n := m.search.Len()
	last := 0
	for from := 0; from <= n && m.match(from); {
		s, e := m.getParenStart(0), m.getParenEnd(0)
		out = append(out, m.search.Slice(last, s))
		last = e
		from = nextSearch(s, e)
	}
	return append(out, m.search.Slice(last, n))
}

// replace substitutes every match with the text produced by fn. It reports
// false, and builds nothing, if there was no match.
func (m *matcher) replace(fn func(b *ustr.Builder)) (ustr.String, bool) {
	n := m.search.Len()
	var b ustr.Builder
	last := 0
	matched := false
	for from := 0; from <= n && m.match(from); {
		if !matched {
			matched = true
			b.Grow(n)
		}
		s, e := m.getParenStart(0), m.getParenEnd(0)
		b.WriteString(m.search.Slice(last, s))
		fn(&b)
		last = e
		from = nextSearch(s, e)
	}
	if !matched {
		return m.search, false
	}
	b.WriteString(m.search.Slice(last, n))
	return b.String(), true
}

// replaceTemplate is replace with a parsed template.
func (m *matcher) replaceTemplate(r *Replacement) (ustr.String, bool) {
	return m.replace(func(b *ustr.Builder) {
		r.expand(m, b)
	})
}

// replaceWith is replace with the replacement computed from the matched
// text. No escape processing is applied to fn's result.
func (m *matcher) replaceWith(fn func(ustr.String) ustr.String) (ustr.String, bool) {
	return m.replace(func(b *ustr.Builder) {
		matched, _ := m.getParen(0)
		b.WriteString(fn(matched))
	})
}
