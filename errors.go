package xregex

import (
	"errors"
	"fmt"
)

// SyntaxError reports an invalid pattern or flag string.
type SyntaxError struct {
	err string
}

func (e SyntaxError) Error() string {
	return e.err
}

var _ error = (*SyntaxError)(nil)

func newSyntaxError(err string) SyntaxError {
	return SyntaxError{err: err}
}

// ReplacementError reports an invalid replacement template: a "$" that is
// not followed by a digit, or a "\" that is not followed by "\" or "$".
type ReplacementError struct {
	Template string // the offending template
	Offset   int    // codepoint offset of the bad character
	Message  string
}

func (e *ReplacementError) Error() string {
	return fmt.Sprintf("invalid replacement string %q at offset %d: %s", e.Template, e.Offset, e.Message)
}

// ErrBacktrackLimit is returned when a match gives up after exceeding
// Config.BacktrackLimit. It means "unknown", not "no match".
var ErrBacktrackLimit = errors.New("xregex: backtracking limit exceeded")
