// Package xregex implements regular expressions with the syntax and
// semantics of XPath 3.1 functions (fn:matches, fn:replace, fn:tokenize,
// fn:analyze-string) and of XML Schema pattern facets.
//
// Matching is done by a backtracking engine working on Unicode codepoints.
// All offsets reported by this package are codepoint offsets, not byte
// offsets.
package xregex

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/auvred/xregex/internal/ustr"
)

// Regexp is a compiled regular expression.
// It is safe for concurrent use by multiple goroutines.
type Regexp struct {
	pattern string
	flags   Flag
	config  Config
	prog    *program

	matchers sync.Pool

	// The most recently used replacement template.
	lastReplacement atomic.Pointer[Replacement]
}

// Compile parses a regular expression using the XPath dialect and no
// backtracking limit.
func Compile(pattern string, flags Flag) (*Regexp, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig is like [Compile] with explicit configuration.
func CompileWithConfig(pattern string, flags Flag, cfg Config) (*Regexp, error) {
	cfg.applyDefaults()
	root, groups, err := parse(pattern, flags, cfg.Dialect)
	if err != nil {
		return nil, err
	}
	re := &Regexp{
		pattern: pattern,
		flags:   flags,
		config:  cfg,
		prog:    newProgram(root, groups, flags, cfg),
	}
	re.matchers.New = func() any {
		return newMatcher(re.prog)
	}
	return re, nil
}

// MustCompile is like [Compile] but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables containing regular
// expressions.
func MustCompile(pattern string, flags Flag) *Regexp {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic("xregex: MustCompile: " + err.Error())
	}
	return re
}

func (re *Regexp) get(input string) *matcher {
	m := re.matchers.Get().(*matcher)
	m.reset(ustr.FromString(input))
	return m
}

func (re *Regexp) put(m *matcher) {
	m.search = ustr.String{}
	re.matchers.Put(m)
}

func (re *Regexp) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("xregex: matching %q: %w", re.pattern, err)
}

// Matches reports whether the whole input matches the expression.
func (re *Regexp) Matches(input string) (bool, error) {
	m := re.get(input)
	defer re.put(m)
	ok := m.isAnchoredMatch()
	return ok && m.err == nil, re.wrapErr(m.err)
}

// ContainsMatch reports whether some substring of input matches the
// expression.
func (re *Regexp) ContainsMatch(input string) (bool, error) {
	m := re.get(input)
	defer re.put(m)
	ok := m.match(0)
	return ok && m.err == nil, re.wrapErr(m.err)
}

// Split returns the substrings of input separated by matches, including
// the (possibly empty) text before the first and after the last match.
// After an empty match the search resumes one codepoint further on.
func (re *Regexp) Split(input string) ([]string, error) {
	m := re.get(input)
	defer re.put(m)
	parts := m.split()
	if m.err != nil {
		return nil, re.wrapErr(m.err)
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.String()
	}
	return out, nil
}

// Tokenize is like [Regexp.Split] except that an empty input has no
// tokens.
func (re *Regexp) Tokenize(input string) ([]string, error) {
	if input == "" {
		return nil, nil
	}
	return re.Split(input)
}

// Analyze iterates over the matching and non-matching segments of input.
// If matching gives up at the backtracking limit, the last pair carries
// the error.
func (re *Regexp) Analyze(input string) iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		m := re.get(input)
		defer re.put(m)
		m.analyze(func(s Segment, err error) bool {
			return yield(s, re.wrapErr(err))
		})
	}
}

// PrepareReplacement parses a replacement template for use with this
// expression. Errors are reported as *ReplacementError.
func (re *Regexp) PrepareReplacement(template string) (*Replacement, error) {
	r, err := parseReplacement(template, re.prog.maxParens-1, re.flags&FlagLiteral != 0)
	if err != nil {
		return nil, err
	}
	r.re = re
	return r, nil
}

func (re *Regexp) replacement(template string) (*Replacement, error) {
	if r := re.lastReplacement.Load(); r != nil && r.template == template {
		return r, nil
	}
	r, err := re.PrepareReplacement(template)
	if err != nil {
		return nil, err
	}
	re.lastReplacement.Store(r)
	return r, nil
}

// Replace replaces every match in input with the expansion of template.
// In the template, $N stands for the text of group N, \$ for a dollar
// sign and \\ for a backslash. If nothing matches, input is returned
// unchanged. Otherwise the result is rebuilt from decoded codepoints, so
// invalid UTF-8 in input or template comes out as U+FFFD.
func (re *Regexp) Replace(input, template string) (string, error) {
	r, err := re.replacement(template)
	if err != nil {
		return "", err
	}
	return r.Apply(input)
}

// Apply replaces every match of the expression that prepared r in input
// with the expansion of r.
func (r *Replacement) Apply(input string) (string, error) {
	re := r.re
	m := re.get(input)
	defer re.put(m)
	out, changed := m.replaceTemplate(r)
	if m.err != nil {
		return "", re.wrapErr(m.err)
	}
	if !changed {
		return input, nil
	}
	return out.String(), nil
}

// ReplaceWith replaces every match in input with fn applied to the matched
// text. The result of fn is used as is, apart from invalid UTF-8, which
// becomes U+FFFD as in Replace.
func (re *Regexp) ReplaceWith(input string, fn func(string) string) (string, error) {
	m := re.get(input)
	defer re.put(m)
	out, changed := m.replaceWith(func(s ustr.String) ustr.String {
		return ustr.FromString(fn(s.String()))
	})
	if m.err != nil {
		return "", re.wrapErr(m.err)
	}
	if !changed {
		return input, nil
	}
	return out.String(), nil
}

// MatchesEmpty reports whether the expression can match a zero-length
// string. known is false when the expression has back-references, which
// make the answer undecidable without matching.
func (re *Regexp) MatchesEmpty() (matches, known bool) {
	switch re.prog.isNullable() {
	case nullableYes:
		return true, true
	case nullableNo:
		return false, true
	}
	return false, false
}

// NumGroups returns the number of capturing groups, not counting the
// whole match.
func (re *Regexp) NumGroups() int {
	return re.prog.maxParens - 1
}

// Flags returns the flags string the expression was compiled with.
func (re *Regexp) Flags() string {
	return re.flags.String()
}

// Dialect returns the grammar the expression was compiled with.
func (re *Regexp) Dialect() Dialect {
	return re.config.Dialect
}

// String returns the source text used to compile the expression.
func (re *Regexp) String() string {
	return re.pattern
}
