// xregex - XPath/XSD regular expressions from the command line
//
// Reads inputs from the arguments following the pattern, or one per line
// from standard input, and applies the pattern to each of them.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/auvred/xregex"
)

const usage = `usage: xregex [options] pattern [input ...]

With no inputs, each line of standard input is an input. By default the
inputs containing a match are printed and the exit status is 1 if there
were none.

Options:
`

type options struct {
	flags    string
	xsd      bool
	whole    bool
	replace  string
	doRepl   bool
	tokenize bool
	analyze  bool
	limit    int
	trace    bool
}

type segmentOutput struct {
	Match  bool          `yaml:"match"`
	Text   string        `yaml:"text"`
	Start  int           `yaml:"start"`
	End    int           `yaml:"end"`
	Groups []groupOutput `yaml:"groups,omitempty"`
}

type groupOutput struct {
	Group int    `yaml:"group"`
	Text  string `yaml:"text"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
}

type analyzeOutput struct {
	Input    string          `yaml:"input"`
	Segments []segmentOutput `yaml:"segments"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("xregex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.flags, "flags", "", "XPath flags: any of s, m, i, x, q")
	fs.BoolVar(&opts.xsd, "xsd", false, "use the XML Schema pattern dialect")
	fs.BoolVar(&opts.whole, "whole", false, "require the whole input to match")
	fs.StringVar(&opts.replace, "replace", "", "print inputs with matches replaced by `template`")
	fs.BoolVar(&opts.tokenize, "tokenize", false, "print the tokens between matches, one per line")
	fs.BoolVar(&opts.analyze, "analyze", false, "print matching and non-matching segments as YAML")
	fs.IntVar(&opts.limit, "limit", 0, "backtracking step limit per input (0 = none)")
	fs.BoolVar(&opts.trace, "trace", false, "log optimisation decisions to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "replace" {
			opts.doRepl = true
		}
	})
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	flags, err := xregex.ParseFlags(opts.flags)
	if err != nil {
		fmt.Fprintf(stderr, "xregex: %v\n", err)
		return 2
	}
	cfg := xregex.DefaultConfig()
	cfg.BacktrackLimit = opts.limit
	if opts.xsd {
		cfg.Dialect = xregex.DialectXSD
	}
	if opts.trace {
		cfg.Trace = stderr
	}
	re, err := xregex.CompileWithConfig(fs.Arg(0), flags, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "xregex: %v\n", err)
		return 2
	}

	inputs := fs.Args()[1:]
	if len(inputs) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			inputs = append(inputs, sc.Text())
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintf(stderr, "xregex: reading input: %v\n", err)
			return 2
		}
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	status, err := apply(re, opts, inputs, out)
	if err != nil {
		out.Flush()
		fmt.Fprintf(stderr, "xregex: %v\n", err)
		return 2
	}
	return status
}

func apply(re *xregex.Regexp, opts options, inputs []string, out io.Writer) (int, error) {
	switch {
	case opts.analyze:
		var docs []analyzeOutput
		for _, input := range inputs {
			doc, err := analyze(re, input)
			if err != nil {
				return 0, err
			}
			docs = append(docs, doc)
		}
		b, err := yaml.Marshal(docs)
		if err != nil {
			return 0, err
		}
		_, err = out.Write(b)
		return 0, err

	case opts.doRepl:
		r, err := re.PrepareReplacement(opts.replace)
		if err != nil {
			return 0, err
		}
		for _, input := range inputs {
			s, err := r.Apply(input)
			if err != nil {
				return 0, err
			}
			fmt.Fprintln(out, s)
		}
		return 0, nil

	case opts.tokenize:
		for _, input := range inputs {
			tokens, err := re.Tokenize(input)
			if err != nil {
				return 0, err
			}
			for _, t := range tokens {
				fmt.Fprintln(out, t)
			}
		}
		return 0, nil
	}

	status := 1
	for _, input := range inputs {
		match := re.ContainsMatch
		if opts.whole {
			match = re.Matches
		}
		ok, err := match(input)
		if err != nil {
			return 0, err
		}
		if ok {
			status = 0
			fmt.Fprintln(out, input)
		}
	}
	return status, nil
}

func analyze(re *xregex.Regexp, input string) (analyzeOutput, error) {
	doc := analyzeOutput{Input: input, Segments: []segmentOutput{}}
	for seg, err := range re.Analyze(input) {
		if err != nil {
			return analyzeOutput{}, err
		}
		s := segmentOutput{Match: seg.Matching, Text: seg.Text, Start: seg.Start, End: seg.End}
		for g := 1; g < seg.NumGroups(); g++ {
			text, ok := seg.Group(g)
			if !ok {
				continue
			}
			start, end := seg.GroupSpan(g)
			s.Groups = append(s.Groups, groupOutput{Group: g, Text: text, Start: start, End: end})
		}
		doc.Segments = append(doc.Segments, s)
	}
	return doc, nil
}
