package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/uniyakcom/tjson/json"
)

// dumpCommand parses each file and prints its tree.
type dumpCommand struct {
	files    *[]string
	bench    int
	strict   bool
	maxDepth int
}

func (cmd *dumpCommand) run(*kingpin.ParseContext) error {
	cfg := json.DefaultConfig()
	cfg.StrictNumbers = cmd.strict
	cfg.MaxDepth = cmd.maxDepth
	p := json.NewParser(cfg)

	for _, f := range *cmd.files {
		cmd.dumpFile(p, f)
	}
	return nil
}

func (cmd *dumpCommand) dumpFile(p *json.Parser, name string) {
	src := readFile(name)
	color.New(color.Bold).Printf("%s (%s)\n", name, humanize.Bytes(uint64(len(src))))

	if cmd.bench > 0 {
		d, err := benchParse(p, src, cmd.bench)
		if err != nil {
			printError(os.Stdout, src, err)
			return
		}
		per := d / time.Duration(cmd.bench)
		rate := float64(len(src)) * float64(cmd.bench) / d.Seconds()
		fmt.Printf("time: %v for %d runs, %v/op, %s/s\n", d.Round(time.Microsecond), cmd.bench, per, humanize.Bytes(uint64(rate)))
	}

	root, err := p.ParseBytes(src)
	if err != nil {
		printError(os.Stdout, src, err)
		return
	}
	defer root.Release()
	printTree(os.Stdout, root, "", false)
	fmt.Println()
	color.New(color.FgGreen).Println("parse ok")
}

// benchParse parses src n times and returns the total time.
func benchParse(p *json.Parser, src []byte, n int) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < n; i++ {
		var root json.Value
		err := p.Parse(src, &root)
		root.Release()
		if err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}

// printError prints the error and, for syntax errors, the source window with a caret.
func printError(w io.Writer, src []byte, err error) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintf(w, "error: %v\n", err)
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return
	}
	snippet, caret := json.ErrorWindow(src, se.Offset)
	fmt.Fprintln(w, snippet)
	_, _ = red.Fprintln(w, strings.Repeat(" ", caret)+"^")
}

// printTree writes v with two-space indentation. Array elements carry the
// indent, object values follow their key on the same line.
func printTree(w io.Writer, v *json.Value, indent string, lead bool) {
	pre := ""
	if lead {
		pre = indent
	}
	switch v.Type() {
	case json.TypeString:
		fmt.Fprintf(w, "%s%q", pre, v.Str())
	case json.TypeInteger:
		fmt.Fprintf(w, "%s%d", pre, v.Int64())
	case json.TypeFloat:
		fmt.Fprintf(w, "%s%f", pre, v.Float64())
	case json.TypeBool:
		fmt.Fprintf(w, "%s%t", pre, v.Bool())
	case json.TypeNull:
		fmt.Fprintf(w, "%snull", pre)
	case json.TypeArray:
		fmt.Fprintf(w, "%s[\n", pre)
		n := v.Len()
		v.ArrayEach(func(i int, el *json.Value) bool {
			printTree(w, el, indent+"  ", true)
			if i != n-1 {
				fmt.Fprintln(w, ",")
			}
			return true
		})
		fmt.Fprintf(w, "\n%s]", indent)
	case json.TypeObject:
		fmt.Fprintf(w, "%s{\n", pre)
		keys := v.Keys()
		for i, k := range keys {
			fmt.Fprintf(w, "%s  %q:", indent, k)
			printTree(w, v.Key(k), indent+"  ", false)
			if i != len(keys)-1 {
				fmt.Fprintln(w, ",")
			}
		}
		fmt.Fprintf(w, "\n%s}", indent)
	}
}
