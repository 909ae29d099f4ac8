// Command blocks generates the Unicode block table used by \p{IsName}
// escapes from a Blocks.txt style listing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
)

type block struct {
	name   string
	lo, hi rune
}

func main() {
	in := flag.String("in", "blocks.txt", "block listing")
	out := flag.String("out", "blocks_table.go", "output file")
	pkg := flag.String("pkg", "xregex", "package name")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	blocks, err := parseBlocks(f)
	if err != nil {
		log.Fatalf("%s: %v", *in, err)
	}
	if err := render(*pkg, blocks).Save(*out); err != nil {
		log.Fatal(err)
	}
}

func parseBlocks(r io.Reader) ([]block, error) {
	var blocks []block
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		span, name, ok := strings.Cut(text, ";")
		if !ok {
			return nil, fmt.Errorf("line %d: missing ';'", line)
		}
		loText, hiText, ok := strings.Cut(strings.TrimSpace(span), "..")
		if !ok {
			return nil, fmt.Errorf("line %d: missing '..'", line)
		}
		lo, err := strconv.ParseUint(loText, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		hi, err := strconv.ParseUint(hiText, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if lo > hi {
			return nil, fmt.Errorf("line %d: empty range %s", line, span)
		}
		blocks = append(blocks, block{
			name: strings.ReplaceAll(strings.TrimSpace(name), " ", ""),
			lo:   rune(lo),
			hi:   rune(hi),
		})
	}
	return blocks, sc.Err()
}

func render(pkg string, blocks []block) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by internal/gen/blocks; DO NOT EDIT.")
	multi := jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}
	f.Var().Id("unicodeBlocks").Op("=").Index().Id("unicodeBlock").CustomFunc(multi, func(g *jen.Group) {
		for _, b := range blocks {
			g.Values(
				jen.Lit(b.name),
				jen.Id(fmt.Sprintf("0x%04X", b.lo)),
				jen.Id(fmt.Sprintf("0x%04X", b.hi)),
			)
		}
	})
	return f
}
