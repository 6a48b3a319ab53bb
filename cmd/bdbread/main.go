package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuannm99/bdbread/internal"
	"github.com/tuannm99/bdbread/internal/btree"
)

const usage = `usage: bdbread [-config file] <command> <db-file> [args]

commands:
  stat                 metadata summary and page counts
  pages [-v]           one line per page (-v: full dump)
  page <n>             dump one page
  get [-hex] <key>     print the value stored under key
  scan [-limit n]      print every pair in key order
  check [-workers n]   decode every page and entry, report failures
  shell                interactive prompt
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// app is what every command gets: the open database plus config.
type app struct {
	ctx context.Context
	cfg *internal.BdbReadConfig
	db  *btree.Database
	out io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bdbread", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return 2
	}
	cmd, path, rest := fs.Arg(0), fs.Arg(1), fs.Args()[2:]

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	log, err := cfg.NewLogger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	slog.SetDefault(log)

	handler, ok := lookupCommand(cmd)
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	db, err := btree.OpenWithOptions(path, cfg.ReaderOptions(log))
	if err != nil {
		fmt.Fprintf(stderr, "open: %v\n", err)
		return 1
	}
	defer func() { _ = db.Close() }()

	a := &app{ctx: ctx, cfg: cfg, db: db, out: stdout}
	if err := handler(a, rest); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return 1
	}
	return 0
}
