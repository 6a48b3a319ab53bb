package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

const shellHelp = `commands:
  get <key>              print the value stored under key
  gethex <hex>           same, key given as hex
  scan [n]               print pairs in key order (first n)
  page <n>               dump one page
  pages                  one line per page
  stat                   metadata summary
  check                  decode every page
meta commands:
  \history               print history
  \help                  show help
  \q | quit | exit       quit`

func cmdShell(a *app, _ []string) error {
	histPath := a.cfg.Shell.History
	if histPath == "" {
		histPath = defaultHistoryPath()
	}
	h := NewHistory(histPath)
	_ = h.Load(a.cfg.Shell.HistoryMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bdbread> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          a.out,
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	for _, line := range h.lines {
		_ = rl.SaveHistory(line)
	}

	fmt.Fprintf(a.out, "opened %s (%d pages)\n", a.db.Name(), a.db.PageCount())
	fmt.Fprintln(a.out, `type \help for help`)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// EOF
			fmt.Fprintln(a.out)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		_ = h.Append(line)

		quit, err := execLine(a, h, line)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		if a.ctx.Err() != nil {
			return nil
		}
	}
}

// execLine runs one shell line. quit is true for the exit commands.
func execLine(a *app, h *History, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case `\q`, "quit", "exit":
		return true, nil
	case `\help`:
		fmt.Fprintln(a.out, shellHelp)
		return false, nil
	case `\history`:
		h.Print(a.out, 50)
		return false, nil
	case "get", "gethex":
		// keys may contain spaces: take everything after the command
		raw := strings.TrimSpace(strings.TrimPrefix(line, cmd))
		if raw == "" {
			return false, errors.New("want a key")
		}
		key, err := parseKey(raw, cmd == "gethex")
		if err != nil {
			return false, err
		}
		v, err := a.db.Get(key)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(a.out, string(v))
		return false, nil
	case "scan":
		limit := 0
		if len(args) > 0 {
			if limit, err = strconv.Atoi(args[0]); err != nil {
				return false, fmt.Errorf("scan limit: %w", err)
			}
		}
		return false, scanTo(a.out, a.db, limit)
	case "page", "pages", "stat", "check":
		hd, _ := lookupCommand(cmd)
		return false, hd(a, args)
	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
}
