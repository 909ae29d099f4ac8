package xregex

import (
	"fmt"
	"io"
)

// tracer writes optimisation decisions to Config.Trace.
// A nil *tracer is valid and discards everything.
type tracer struct {
	out io.Writer
}

func newTracer(w io.Writer) *tracer {
	if w == nil {
		return nil
	}
	return &tracer{out: w}
}

func (t *tracer) enabled() bool {
	return t != nil
}

// log prints a formatted message if tracing is enabled.
func (t *tracer) log(format string, args ...any) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.out, "[xregex] "+format+"\n", args...)
}

// section prints a section header if tracing is enabled.
func (t *tracer) section(name string) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.out, "\n[xregex] === %s ===\n", name)
}
