package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/uniyakcom/tjson/batch"
	"github.com/uniyakcom/tjson/json"
	"github.com/uniyakcom/tjson/middleware/logging"
	"github.com/uniyakcom/tjson/optimize"
)

// statsCommand parses files concurrently and prints a summary for each.
type statsCommand struct {
	files   *[]string
	workers int
	profile string
}

// docStats is the shape summary of one parsed document.
type docStats struct {
	values  int
	objects int
	arrays  int
	depth   int
}

func (cmd *statsCommand) run(*kingpin.ParseContext) error {
	p := optimize.Preset(cmd.profile)
	if cmd.workers > 0 {
		p.Workers = cmd.workers
	} else if p.Workers == 0 {
		p.Workers = p.Cores
	}
	b, err := optimize.BuildBatch(optimize.NewAdvisor().Advise(p), slog.Default(), logging.New(slog.Default()))
	if err != nil {
		exitWithErr(err)
	}
	defer b.Close()

	docs := make([][]byte, len(*cmd.files))
	for i, f := range *cmd.files {
		docs[i] = readFile(f)
	}

	shapes := make([]docStats, len(docs))
	start := time.Now()
	res, _ := b.Do(context.Background(), docs, func(d *batch.Doc) error {
		walk(d.Root, 1, &shapes[d.Index])
		return nil
	})
	elapsed := time.Since(start)

	bold := color.New(color.Bold)
	for i, r := range res {
		bold.Printf("%s:\n", (*cmd.files)[i])
		if r.Err != nil {
			var se *json.SyntaxError
			if errors.As(r.Err, &se) {
				snippet, caret := json.ErrorWindow(docs[i], se.Offset)
				color.Red("\terror: %v\n\t%s\n\t%*s", se, snippet, caret+1, "^")
			} else {
				color.Red("\terror: %v", r.Err)
			}
			continue
		}
		s := shapes[i]
		fmt.Printf("\tsize: %v, values: %d, objects: %d, arrays: %d, depth: %d, took %v\n",
			humanize.Bytes(uint64(r.Bytes)), s.values, s.objects, s.arrays, s.depth, r.Duration)
	}

	st := b.Stats()
	bold.Println("Total:")
	fmt.Printf("\tdocs: %d, failed: %d, input: %v, workers: %d, elapsed: %v (%s/s)\n",
		st.Docs, st.Failed, humanize.Bytes(uint64(st.Bytes)), b.Workers(), elapsed,
		humanize.Bytes(uint64(float64(st.Bytes)/elapsed.Seconds())))
	var pooled int
	for _, a := range b.ArenaStats() {
		pooled += a.Bytes.Pooled + a.Values.Pooled + a.Entries.Pooled + a.Headers.Pooled
	}
	fmt.Printf("\tpooled arena blocks: %s\n", humanize.Comma(int64(pooled)))
	return nil
}

func walk(v *json.Value, depth int, s *docStats) {
	s.values++
	if depth > s.depth {
		s.depth = depth
	}
	switch v.Type() {
	case json.TypeArray:
		s.arrays++
		v.ArrayEach(func(_ int, el *json.Value) bool {
			walk(el, depth+1, s)
			return true
		})
	case json.TypeObject:
		s.objects++
		v.ObjectEach(func(_ string, el *json.Value) bool {
			walk(el, depth+1, s)
			return true
		})
	}
}
