package xregex

import "io"

// Dialect selects the regex grammar accepted by the compiler.
type Dialect uint8

const (
	// DialectXPath is the XPath 3.1 functions dialect: anchors, reluctant
	// quantifiers, back-references and non-capturing groups are available.
	DialectXPath Dialect = iota

	// DialectXSD is the XML Schema pattern facet dialect. "^" and "$" are
	// ordinary characters; back-references, reluctant quantifiers and "(?:"
	// are rejected.
	DialectXSD
)

func (d Dialect) String() string {
	if d == DialectXSD {
		return "xsd"
	}
	return "xpath"
}

// Config holds compile-time options that are not expressed as flags.
type Config struct {
	// BacktrackLimit caps the number of backtracking steps a single call
	// (Matches, Replace, ...) may take. When the cap is exceeded the call
	// returns ErrBacktrackLimit.
	// Zero or negative means no limit (default).
	BacktrackLimit int

	// Dialect selects the grammar (default: DialectXPath).
	Dialect Dialect

	// Trace receives a log of optimisation decisions made while compiling
	// and of matches abandoned at the backtracking limit.
	// If nil, nothing is logged.
	Trace io.Writer
}

// DefaultConfig returns the configuration used by Compile.
func DefaultConfig() Config {
	return Config{
		BacktrackLimit: 0,
		Dialect:        DialectXPath,
	}
}

// applyDefaults normalises unset or out-of-range fields.
func (c *Config) applyDefaults() {
	if c.BacktrackLimit < 0 {
		c.BacktrackLimit = 0
	}
	if c.Dialect != DialectXSD {
		c.Dialect = DialectXPath
	}
}
