// Package main is the statepath inspection tool.
//
// It loads a state document (JSON or TOML), applies get/set/merge
// operations from the command line, and prints resolved values or a JSON
// snapshot of the resulting tree. With -watch it keeps running and merges
// the document again whenever the file changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/statepath"
	"github.com/dshills/statepath/document"
	"github.com/dshills/statepath/event"
	"github.com/dshills/statepath/object"
	"github.com/dshills/statepath/watcher"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		statePath   string
		watch       bool
		trace       bool
		showVersion bool
	)

	flag.StringVar(&statePath, "state", "", "Path to the state document (.json or .toml)")
	flag.StringVar(&statePath, "s", "", "Path to the state document (shorthand)")
	flag.BoolVar(&watch, "watch", false, "Keep running and merge the document on change")
	flag.BoolVar(&trace, "trace", false, "Print set/change events as they fire")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "statepath - path-addressable state inspection\n\n")
		fmt.Fprintf(os.Stderr, "Usage: statepath [options] [command args...]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  get <path>            Print the value at path\n")
		fmt.Fprintf(os.Stderr, "  set <path> <value>    Set a string value at path\n")
		fmt.Fprintf(os.Stderr, "  merge <file>          Merge another document\n")
		fmt.Fprintf(os.Stderr, "  snapshot              Print the tree as JSON (default)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("statepath %s\n", version)
		return 0
	}

	m, err := statepath.New(map[string]any{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if statePath != "" {
		loader, err := watcher.DefaultLoaderFactory(statePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", statePath, err)
			return 1
		}
		if err := document.Apply(m, loader); err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading %s: %v\n", statePath, err)
			return 1
		}
	}

	if trace {
		if err := traceWrites(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := runCommand(m, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if watch {
		if statePath == "" {
			fmt.Fprintln(os.Stderr, "Error: -watch requires -state")
			return 1
		}
		return runWatch(m, statePath)
	}
	return 0
}

// traceWrites subscribes a change printer on every leaf path currently in
// the tree. Dispatch is per-path with no wildcard, so paths created after
// this point are not traced.
func traceWrites(m *statepath.Manager) error {
	printer := func(ev event.Event) {
		fmt.Fprintf(os.Stderr, "%s %s: %v -> %v\n", ev.Type, ev.Path.ID(), ev.Previous, ev.Value)
	}
	for leaf := range object.Flatten(m.Root()) {
		if err := m.AddEventListener(leaf, event.TypeChange, printer); err != nil {
			return err
		}
	}
	return nil
}

// runCommand executes one command against the manager.
func runCommand(m *statepath.Manager, args []string) error {
	if len(args) == 0 {
		return printSnapshot(m)
	}

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <path>")
		}
		val, err := m.GetDefault(args[1], "<unset>")
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: set <path> <value>")
		}
		ok, err := m.Set(args[1], args[2])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no container at %q", args[1])
		}
		return printSnapshot(m)

	case "merge":
		if len(args) != 2 {
			return fmt.Errorf("usage: merge <file>")
		}
		loader, err := watcher.DefaultLoaderFactory(args[1])
		if err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}
		if err := document.Apply(m, loader); err != nil {
			return err
		}
		return printSnapshot(m)

	case "snapshot":
		return printSnapshot(m)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// printSnapshot writes the tree as JSON to stdout.
func printSnapshot(m *statepath.Manager) error {
	data, err := document.Snapshot(m.Root())
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// runWatch merges the document on every change until interrupted.
func runWatch(m *statepath.Manager, statePath string) int {
	w, err := watcher.New(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	if err := w.Watch(statePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "reload error: %v\n", err)
		case <-signals:
			if err := printSnapshot(m); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			return 0
		}
	}
}
