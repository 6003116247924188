package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/term"

	"w65816/conformance"
	"w65816/emu/log"
)

// runMain runs the conformance suite and returns the process exit code.
func runMain(args Run, cfg Config) int {
	suite := conformance.Suite{
		Dir:     cmp.Or(args.Dir, cfg.Conformance.Dir),
		Opcodes: args.Opcodes,
		Skip:    cfg.Conformance.Skip,
		Options: conformance.Options{
			Strict: args.Strict || cfg.Conformance.Strict,
		},
		Jobs:    cmp.Or(args.Jobs, cfg.Conformance.Jobs),
		MaxFail: cmp.Or(args.MaxFail, cfg.Conformance.MaxFail),
	}
	switch args.Mode {
	case "e":
		suite.Modes = []bool{true}
	case "n":
		suite.Modes = []bool{false}
	}

	progress := term.IsTerminal(int(os.Stdout.Fd()))
	if progress {
		suite.Progress = func(done, total int) {
			fmt.Printf("\r%d/%d files", done, total)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.ModConformance.InfoZ("running suite").
		String("dir", suite.Dir).
		Bool("strict", suite.Options.Strict).
		End()

	rep, err := suite.Run(ctx)
	if progress {
		fmt.Print("\r\033[K")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "conformance suite: %v\n", err)
		return 1
	}

	checkf(rep.WriteText(os.Stdout, args.Verbose), "failed to write report")
	if args.JSON != "" {
		checkf(rep.WriteJSON(args.JSON), "failed to write JSON report")
	}

	if rep.Failed() {
		return 1
	}
	return 0
}

func fetchMain(args Fetch, cfg Config) {
	dir := cmp.Or(args.Dir, cfg.Conformance.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := conformance.Fetch(ctx, dir, conformance.FetchOptions{
		Gzip: args.Gzip,
		Jobs: args.Jobs,
	})
	checkf(err, "failed to download fixture files")
	fmt.Println("fixture files downloaded to", dir)
}

// traceMain replays a single test with the tracer enabled and returns the
// process exit code.
func traceMain(args Trace, cfg Config) int {
	tests, err := conformance.ReadFile(args.File)
	checkf(err, "failed to read fixture file")
	if len(tests) == 0 {
		fatalf("no test in %s", args.File)
	}

	t := &tests[0]
	if args.Test != "" {
		t = nil
		for i := range tests {
			if tests[i].Name == args.Test {
				t = &tests[i]
				break
			}
		}
		if t == nil {
			fatalf("no test named %q in %s", args.Test, filepath.Base(args.File))
		}
	}

	fmt.Printf("test %q, %d cycles\n", t.Name, len(t.Cycles))
	for i, c := range t.Cycles {
		addr, data := "------", "--"
		if c.HasAddr {
			addr = fmt.Sprintf("%06X", c.Addr)
		}
		if c.HasData {
			data = fmt.Sprintf("%02X", c.Data)
		}
		fmt.Printf("  %3d  %s  %s  %s\n", i, addr, data, c.Signals)
	}
	fmt.Println()

	res := conformance.Run(t, conformance.Options{
		Strict: args.Strict || cfg.Conformance.Strict,
		Trace:  os.Stdout,
	})

	if args.Dump {
		spew.Fdump(os.Stdout, t.Initial, t.Final, res)
	}

	if !res.Failed() {
		fmt.Println("\nPASS")
		return 0
	}

	fmt.Println("\nFAIL")
	if res.Panic != nil {
		fmt.Println("  panic:", res.Panic)
	}
	for _, m := range res.Mismatches {
		fmt.Println(" ", m)
	}
	return 1
}
