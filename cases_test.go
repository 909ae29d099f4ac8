package xregex

import (
	"os"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

// regexCase is one entry of testdata/cases.yaml. A nil group in Groups is
// a group that did not participate in the match.
type regexCase struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Flags   string `yaml:"flags"`
	XSD     bool   `yaml:"xsd"`
	Error   string `yaml:"error"`

	Find []struct {
		Input  string    `yaml:"input"`
		Groups []*string `yaml:"groups"`
	} `yaml:"find"`
	NoMatch  []string `yaml:"nomatch"`
	Whole    []string `yaml:"whole"`
	NotWhole []string `yaml:"notwhole"`
	Replace  []struct {
		Input    string `yaml:"input"`
		Template string `yaml:"template"`
		Output   string `yaml:"output"`
	} `yaml:"replace"`
	Split []struct {
		Input  string   `yaml:"input"`
		Output []string `yaml:"output"`
	} `yaml:"split"`
}

func loadCases(t *testing.T, path string) []regexCase {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	var cases []regexCase
	assert.NilError(t, yaml.UnmarshalStrict(data, &cases))
	return cases
}

func TestCasesFile(t *testing.T) {
	for _, c := range loadCases(t, "testdata/cases.yaml") {
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()
			flags, err := ParseFlags(c.Flags)
			assert.NilError(t, err)
			cfg := DefaultConfig()
			if c.XSD {
				cfg.Dialect = DialectXSD
			}
			re, err := CompileWithConfig(c.Pattern, flags, cfg)
			if c.Error != "" {
				assert.ErrorContains(t, err, c.Error)
				return
			}
			assert.NilError(t, err)

			for _, f := range c.Find {
				var groups []*string
				for seg, err := range re.Analyze(f.Input) {
					assert.NilError(t, err)
					if !seg.Matching {
						continue
					}
					for g := 0; g < seg.NumGroups(); g++ {
						if text, ok := seg.Group(g); ok {
							groups = append(groups, &text)
						} else {
							groups = append(groups, nil)
						}
					}
					break
				}
				assert.Assert(t, groups != nil, "no match in %q", f.Input)
				assert.DeepEqual(t, f.Groups, groups)
			}
			for _, input := range c.NoMatch {
				ok, err := re.ContainsMatch(input)
				assert.NilError(t, err)
				assert.Assert(t, !ok, "unexpected match in %q", input)
			}
			for _, input := range c.Whole {
				ok, err := re.Matches(input)
				assert.NilError(t, err)
				assert.Assert(t, ok, "%q should match as a whole", input)
			}
			for _, input := range c.NotWhole {
				ok, err := re.Matches(input)
				assert.NilError(t, err)
				assert.Assert(t, !ok, "%q should not match as a whole", input)
			}
			for _, r := range c.Replace {
				out, err := re.Replace(r.Input, r.Template)
				assert.NilError(t, err)
				assert.Equal(t, out, r.Output, "replace %q in %q", r.Template, r.Input)
			}
			for _, s := range c.Split {
				out, err := re.Split(s.Input)
				assert.NilError(t, err)
				assert.DeepEqual(t, out, s.Output)
			}
		})
	}
}
