package ustr

// Builder accumulates codepoints. The zero value is ready to use.
type Builder struct {
	buf []rune
}

// Grow reserves room for n more codepoints.
func (b *Builder) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		c := make([]rune, len(b.buf), 2*cap(b.buf)+n)
		copy(c, b.buf)
		b.buf = c
	}
}

// WriteString appends the codepoints of s.
func (b *Builder) WriteString(s String) {
	switch s.w {
	case width8:
		for _, c := range s.latin1 {
			b.buf = append(b.buf, rune(c))
		}
	case width16:
		for _, c := range s.bmp {
			b.buf = append(b.buf, rune(c))
		}
	default:
		b.buf = append(b.buf, s.runes...)
	}
}

// WriteRune appends a single codepoint.
func (b *Builder) WriteRune(r rune) {
	b.buf = append(b.buf, r)
}

// Len returns the number of codepoints written so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// String returns the accumulated codepoints in their tidy form.
func (b *Builder) String() String {
	return String{runes: b.buf, w: width32}.Tidy()
}
