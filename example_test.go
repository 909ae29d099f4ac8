package xregex_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/auvred/xregex"
)

func ExampleRegexp_Matches() {
	re := xregex.MustCompile("[0-9]{4}-[0-9]{2}", 0)

	whole, _ := re.Matches("2024-05")
	partial, _ := re.Matches("on 2024-05-01")
	contains, _ := re.ContainsMatch("on 2024-05-01")
	fmt.Println(whole, partial, contains)
	// Output: true false true
}

func ExampleRegexp_Replace() {
	re := xregex.MustCompile("([a-z]+)=([0-9]+)", 0)
	out, err := re.Replace("a=1, bb=22", "$2=$1")
	if err != nil {
		panic(err)
	}
	fmt.Println(out)

	lit := xregex.MustCompile("a.c", xregex.FlagLiteral)
	out, _ = lit.Replace("abc a.c", "$1")
	fmt.Println(out)
	// Output:
	// 1=a, 22=bb
	// abc $1
}

func ExampleRegexp_ReplaceWith() {
	re := xregex.MustCompile("[a-z]+", 0)
	out, _ := re.ReplaceWith("one two", strings.ToUpper)
	fmt.Println(out)
	// Output: ONE TWO
}

func ExampleRegexp_Split() {
	re := xregex.MustCompile(`\s*,\s*`, 0)
	parts, _ := re.Split("a , b,c")
	fmt.Printf("%q\n", parts)

	tokens, _ := re.Tokenize("")
	fmt.Println(len(tokens))
	// Output:
	// ["a" "b" "c"]
	// 0
}

func ExampleRegexp_Analyze() {
	re := xregex.MustCompile("([0-9])+", 0)
	for seg, err := range re.Analyze("ab12cd3") {
		if err != nil {
			panic(err)
		}
		if g, ok := seg.Group(1); ok {
			fmt.Printf("match %q at %d, last digit %q\n", seg.Text, seg.Start, g)
			continue
		}
		fmt.Printf("text  %q at %d\n", seg.Text, seg.Start)
	}
	// Output:
	// text  "ab" at 0
	// match "12" at 2, last digit "2"
	// text  "cd" at 4
	// match "3" at 6, last digit "3"
}

func ExampleParseFlags() {
	flags, err := xregex.ParseFlags("im")
	if err != nil {
		panic(err)
	}
	re := xregex.MustCompile("^b", flags)
	ok, _ := re.ContainsMatch("a\nB")
	fmt.Println(re.Flags(), ok)

	_, err = xregex.ParseFlags("g")
	fmt.Println(err)
	// Output:
	// mi true
	// invalid flag 'g' in "g"
}

func ExampleCompileWithConfig() {
	cfg := xregex.DefaultConfig()
	cfg.Dialect = xregex.DialectXSD
	re, err := xregex.CompileWithConfig(`[A-Z]{2}\d{3}`, 0, cfg)
	if err != nil {
		panic(err)
	}
	ok, _ := re.Matches("AB123")
	fmt.Println(ok)

	_, err = xregex.CompileWithConfig(`(a)\1`, 0, cfg)
	fmt.Println(err != nil)
	// Output:
	// true
	// true
}

func ExampleConfig_backtrackLimit() {
	cfg := xregex.DefaultConfig()
	cfg.BacktrackLimit = 10000
	re := xregex.MustCompile("(a|aa)+$", 0)
	limited, _ := xregex.CompileWithConfig(re.String(), 0, cfg)

	_, err := limited.Matches(strings.Repeat("a", 60) + "b")
	fmt.Println(errors.Is(err, xregex.ErrBacktrackLimit))
	// Output: true
}

func ExampleCache() {
	cache := xregex.NewCache(16, xregex.DefaultConfig())
	for _, input := range []string{"cat", "Dog", "bird"} {
		re, err := cache.GetFlags("cat|dog", "i")
		if err != nil {
			panic(err)
		}
		ok, _ := re.Matches(input)
		fmt.Println(input, ok)
	}
	fmt.Println(cache.Len())
	// Output:
	// cat true
	// Dog true
	// bird false
	// 1
}
