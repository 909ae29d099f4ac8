package xregex

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/auvred/xregex/internal/ustr"
)

type patternSource struct {
	runes []rune
	pos   int
}

func (s *patternSource) atEnd() bool {
	return s.pos >= len(s.runes)
}

func (s *patternSource) peek() rune {
	if s.atEnd() {
		return -1
	}
	return s.runes[s.pos]
}

func (s *patternSource) peekAt(offset int) rune {
	if s.pos+offset >= len(s.runes) {
		return -1
	}
	return s.runes[s.pos+offset]
}

func (s *patternSource) consume(r rune) bool {
	if s.peek() == r {
		s.pos++
		return true
	}
	return false
}

// parser turns pattern text into an operation tree.
type parser struct {
	pattern patternSource
	flags   Flag
	dialect Dialect

	// Number of capturing groups opened so far, plus one for group 0.
	groups int
	closed map[int]bool
}

// parse compiles pattern into an operation tree. It returns the tree and
// the number of groups including group 0.
func parse(pattern string, flags Flag, dialect Dialect) (operation, int, error) {
	if flags&FlagLiteral != 0 {
		return &opAtom{atom: ustr.FromString(pattern).Tidy()}, 1, nil
	}
	if flags&FlagIgnoreWhitespace != 0 {
		pattern = stripWhitespace(pattern)
	}
	p := &parser{
		pattern: patternSource{runes: []rune(pattern)},
		flags:   flags,
		dialect: dialect,
		groups:  1,
		closed:  map[int]bool{},
	}
	op, err := p.parseRegExp()
	if err != nil {
		return nil, 0, err
	}
	if !p.pattern.atEnd() {
		if p.pattern.peek() == ')' {
			return nil, 0, p.errorf("unmatched )")
		}
		return nil, 0, p.errorf("extraneous characters at the end")
	}
	return op, p.groups, nil
}

// stripWhitespace removes whitespace outside character class expressions.
func stripWhitespace(pattern string) string {
	var b strings.Builder
	depth := 0
	escaped := false
	for _, r := range pattern {
		if depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r') {
			continue
		}
		b.WriteRune(r)
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		}
	}
	return b.String()
}

func (p *parser) errorf(format string, args ...any) error {
	return newSyntaxError(fmt.Sprintf(format, args...) + fmt.Sprintf(" at offset %d", p.pattern.pos))
}

// regExp ::= branch ( '|' branch )*
func (p *parser) parseRegExp() (operation, error) {
	var branches []operation
	for {
		b, err := p.parseBranch()
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
		if !p.pattern.consume('|') {
			break
		}
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return &opChoice{branches: branches}, nil
}

// branch ::= piece*
func (p *parser) parseBranch() (operation, error) {
	var pieces []operation
	for !p.pattern.atEnd() {
		r := p.pattern.peek()
		if r == '|' || r == ')' {
			break
		}
		piece, err := p.parsePiece()
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	switch len(pieces) {
	case 0:
		return opEmpty{}, nil
	case 1:
		return pieces[0], nil
	}
	return newSequence(pieces...), nil
}

// piece ::= atom quantifier?
func (p *parser) parsePiece() (operation, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	min, max, ok, err := p.parseQuantifier()
	if err != nil || !ok {
		return atom, err
	}
	greedy := true
	if p.pattern.peek() == '?' {
		if p.dialect == DialectXSD {
			return nil, p.errorf("reluctant quantifiers are not allowed in XSD patterns")
		}
		p.pattern.pos++
		greedy = false
	}
	if r := p.pattern.peek(); r == '?' || r == '*' || r == '+' || r == '{' {
		return nil, p.errorf("nothing to repeat")
	}
	return newRepeat(atom, min, max, greedy), nil
}

// quantifier ::= [?*+] | '{' quantity '}'
func (p *parser) parseQuantifier() (min, max int, ok bool, err error) {
	switch p.pattern.peek() {
	case '?':
		p.pattern.pos++
		return 0, 1, true, nil
	case '*':
		p.pattern.pos++
		return 0, -1, true, nil
	case '+':
		p.pattern.pos++
		return 1, -1, true, nil
	case '{':
		p.pattern.pos++
	default:
		return 0, 0, false, nil
	}

	min, ok = p.parseQuantity()
	if !ok {
		return 0, 0, false, p.errorf("invalid quantifier")
	}
	max = min
	if p.pattern.consume(',') {
		if p.pattern.peek() == '}' {
			max = -1
		} else if max, ok = p.parseQuantity(); !ok {
			return 0, 0, false, p.errorf("invalid quantifier")
		}
	}
	if !p.pattern.consume('}') {
		return 0, 0, false, p.errorf("unterminated quantifier")
	}
	if max >= 0 && min > max {
		return 0, 0, false, p.errorf("numbers out of order in {} quantifier")
	}
	return min, max, true, nil
}

const maxQuantity = 1 << 24

func (p *parser) parseQuantity() (int, bool) {
	start := p.pattern.pos
	n := 0
	for r := p.pattern.peek(); r >= '0' && r <= '9'; r = p.pattern.peek() {
		n = n*10 + int(r-'0')
		if n > maxQuantity {
			return 0, false
		}
		p.pattern.pos++
	}
	return n, p.pattern.pos > start
}

// atom ::= NormalChar | charClass | '(' regExp ')'
func (p *parser) parseAtom() (operation, error) {
	r := p.pattern.peek()
	switch r {
	case '(':
		return p.parseGroup()
	case '[':
		p.pattern.pos++
		set, err := p.parseCharClassExpr()
		if err != nil {
			return nil, err
		}
		return &opCharClass{set: set}, nil
	case '.':
		p.pattern.pos++
		if p.flags&FlagDotAll != 0 {
			return &opCharClass{set: newCharSet(charRange{lo: 0, hi: unicode.MaxRune})}, nil
		}
		set := newCharSet(charRange{lo: '\n', hi: '\n'}, charRange{lo: '\r', hi: '\r'})
		set.complement()
		return &opCharClass{set: set}, nil
	case '\\':
		p.pattern.pos++
		if d := p.pattern.peek(); d >= '0' && d <= '9' {
			return p.parseBackReference()
		}
		set, single, err := p.parseEscape()
		if err != nil {
			return nil, err
		}
		if set != nil {
			return &opCharClass{set: set}, nil
		}
		return &opAtom{atom: ustr.FromRunes([]rune{single}).Tidy()}, nil
	case '^', '$':
		p.pattern.pos++
		if p.dialect == DialectXSD {
			return &opAtom{atom: ustr.FromRunes([]rune{r}).Tidy()}, nil
		}
		if r == '^' {
			return opBOL{}, nil
		}
		return opEOL{}, nil
	case '?', '*', '+', '{':
		return nil, p.errorf("nothing to repeat")
	case '}', ']':
		return nil, p.errorf("unmatched %c", r)
	}
	p.pattern.pos++
	return &opAtom{atom: ustr.FromRunes([]rune{r}).Tidy()}, nil
}

func (p *parser) parseGroup() (operation, error) {
	p.pattern.pos++
	capturing := true
	if p.pattern.peek() == '?' {
		if p.dialect == DialectXSD || p.pattern.peekAt(1) != ':' {
			return nil, p.errorf("invalid group")
		}
		p.pattern.pos += 2
		capturing = false
	}
	group := 0
	if capturing {
		group = p.groups
		p.groups++
	}
	child, err := p.parseRegExp()
	if err != nil {
		return nil, err
	}
	if !p.pattern.consume(')') {
		return nil, p.errorf("unterminated group")
	}
	if !capturing {
		return child, nil
	}
	p.closed[group] = true
	return &opCapture{group: group, child: child}, nil
}

// parseBackReference reads \N, taking the longest run of digits that names
// a group closed before this point.
func (p *parser) parseBackReference() (operation, error) {
	if p.dialect == DialectXSD {
		return nil, p.errorf("back-references are not allowed in XSD patterns")
	}
	d := p.pattern.peek()
	if d == '0' {
		return nil, p.errorf(`invalid back-reference \0`)
	}
	p.pattern.pos++
	n := int(d - '0')
	for {
		next := p.pattern.peek()
		if next < '0' || next > '9' {
			break
		}
		candidate := n*10 + int(next-'0')
		if !p.closed[candidate] {
			break
		}
		n = candidate
		p.pattern.pos++
	}
	if !p.closed[n] {
		return nil, p.errorf(`back-reference \%d to a group that is not closed`, n)
	}
	return &opBackReference{group: n}, nil
}

// parseEscape reads the escape after a backslash. It returns either a set
// (multi-character and category escapes) or a single codepoint.
func (p *parser) parseEscape() (*charSet, rune, error) {
	if p.pattern.atEnd() {
		return nil, 0, p.errorf(`\ at end of pattern`)
	}
	r := p.pattern.peek()
	p.pattern.pos++
	switch r {
	case 'n':
		return nil, '\n', nil
	case 'r':
		return nil, '\r', nil
	case 't':
		return nil, '\t', nil
	case '\\', '|', '.', '?', '*', '+', '(', ')', '{', '}', '-', '[', ']', '^':
		return nil, r, nil
	case '$':
		if p.dialect == DialectXSD {
			return nil, 0, p.errorf(`invalid escape \$`)
		}
		return nil, r, nil
	case 's', 'i', 'c', 'd', 'w':
		return classEscape(r), 0, nil
	case 'S', 'I', 'C', 'D', 'W':
		set := classEscape(unicode.ToLower(r)).clone()
		set.complement()
		return set, 0, nil
	case 'p', 'P':
		set, err := p.parseCategoryEscape()
		if err != nil {
			return nil, 0, err
		}
		if r == 'P' {
			set = set.clone()
			set.complement()
		}
		return set, 0, nil
	}
	p.pattern.pos--
	return nil, 0, p.errorf(`invalid escape \%c`, r)
}

// parseCategoryEscape reads {Name} after \p or \P. The returned set must not
// be modified.
func (p *parser) parseCategoryEscape() (*charSet, error) {
	if !p.pattern.consume('{') {
		return nil, p.errorf(`expected { after \p`)
	}
	start := p.pattern.pos
	for !p.pattern.atEnd() && p.pattern.peek() != '}' {
		p.pattern.pos++
	}
	if p.pattern.atEnd() {
		return nil, p.errorf(`unterminated \p{}`)
	}
	name := string(p.pattern.runes[start:p.pattern.pos])
	p.pattern.pos++

	if block, ok := strings.CutPrefix(name, "Is"); ok {
		if set, ok := blockCharSet(block); ok {
			return set, nil
		}
		return nil, p.errorf("unknown Unicode block %q", block)
	}
	if !isCategoryName(name) {
		return nil, p.errorf("unknown Unicode category %q", name)
	}
	set, _ := categoryCharSet(name)
	return set, nil
}

func isCategoryName(name string) bool {
	switch name {
	case "L", "Lu", "Ll", "Lt", "Lm", "Lo",
		"M", "Mn", "Mc", "Me",
		"N", "Nd", "Nl", "No",
		"P", "Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
		"Z", "Zs", "Zl", "Zp",
		"S", "Sm", "Sc", "Sk", "So",
		"C", "Cc", "Cf", "Co", "Cn":
		return true
	}
	return false
}

// parseCharClassExpr parses the rest of a character class expression after
// its opening bracket:
//
//	charGroup ::= ( posCharGroup | '^' posCharGroup ) ( '-' charClassExpr )?
func (p *parser) parseCharClassExpr() (*charSet, error) {
	negated := p.pattern.consume('^')
	set := &charSet{}
	first := true
	for {
		if p.pattern.atEnd() {
			return nil, p.errorf("character class: unexpected end of pattern")
		}
		r := p.pattern.peek()
		if r == ']' {
			if first {
				return nil, p.errorf("empty character class")
			}
			p.pattern.pos++
			break
		}
		if r == '-' && p.pattern.peekAt(1) == '[' {
			if first {
				return nil, p.errorf("character class: invalid subtraction")
			}
			p.pattern.pos += 2
			sub, err := p.parseCharClassExpr()
			if err != nil {
				return nil, err
			}
			if !p.pattern.consume(']') {
				return nil, p.errorf("character class: subtraction must be last")
			}
			if negated {
				set.complement()
			}
			set.subtraction(sub)
			return set, nil
		}
		if r == '[' {
			return nil, p.errorf("character class: unescaped [")
		}
		if r == '-' && !first && p.pattern.peekAt(1) != ']' {
			return nil, p.errorf("character class: unescaped - must be first or last")
		}

		lo, loSet, err := p.parseClassChar()
		if err != nil {
			return nil, err
		}
		first = false
		if loSet != nil {
			set.union(loSet)
			continue
		}
		if p.pattern.peek() != '-' || p.pattern.peekAt(1) == ']' || p.pattern.peekAt(1) == '[' {
			set.unionChar(lo)
			continue
		}
		p.pattern.pos++
		hi, hiSet, err := p.parseClassChar()
		if err != nil {
			return nil, err
		}
		if hiSet != nil {
			return nil, p.errorf("character class: using character class in range is not allowed")
		}
		if lo > hi {
			return nil, p.errorf("range out of order in character class")
		}
		set.unionRange(lo, hi)
	}
	if negated {
		set.complement()
	}
	return set, nil
}

// parseClassChar reads one member of a character class: a codepoint, a
// single-character escape or a class escape.
func (p *parser) parseClassChar() (rune, *charSet, error) {
	r := p.pattern.peek()
	p.pattern.pos++
	if r != '\\' {
		return r, nil, nil
	}
	set, single, err := p.parseEscape()
	if err != nil {
		return 0, nil, err
	}
	if set != nil {
		return 0, set, nil
	}
	return single, nil, nil
}
