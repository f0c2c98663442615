package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
)

func main() {
	app := kingpin.New("tjson", "Parse JSON files and inspect the resulting tree.")
	app.HelpFlag.Short('h')

	logLevel := app.Flag("log.level", "Log level: debug, info, warn, error.").Default("warn").Enum("debug", "info", "warn", "error")
	app.PreAction(func(*kingpin.ParseContext) error {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
		return nil
	})

	dump := &dumpCommand{}
	dumpCmd := app.Command("dump", "Parse each file and print its tree, or the error location.")
	dumpCmd.Flag("bench", "Parse each file N times and report the timing.").Default("0").IntVar(&dump.bench)
	dumpCmd.Flag("strict", "Reject malformed numbers instead of reading them as words.").BoolVar(&dump.strict)
	dumpCmd.Flag("max-depth", "Maximum nesting depth.").Default("500").IntVar(&dump.maxDepth)
	dump.files = dumpCmd.Arg("file", "JSON files to parse.").Required().ExistingFiles()
	dumpCmd.Action(dump.run)

	stats := &statsCommand{}
	statsCmd := app.Command("stats", "Parse files concurrently and print a summary.")
	statsCmd.Flag("workers", "Concurrent workers (0 = one per core).").Default("0").IntVar(&stats.workers)
	statsCmd.Flag("profile", "Parser profile: default, strict, batch, min.").Default("batch").EnumVar(&stats.profile, "default", "strict", "batch", "min")
	stats.files = statsCmd.Arg("file", "JSON files to parse.").Required().ExistingFiles()
	statsCmd.Action(stats.run)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func exitWithErr(err error) {
	_, _ = color.New(color.FgRed).Fprintln(os.Stderr, err)
	os.Exit(1)
}

func readFile(name string) []byte {
	b, err := os.ReadFile(name)
	if err != nil {
		exitWithErr(fmt.Errorf("failed to read file: %w", err))
	}
	return b
}
