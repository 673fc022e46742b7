// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && amd64

// Program perfjit generates a few functions at run time, describes them in a
// perf map, and keeps calling them together with ahead-of-time compiled
// functions.  Point a profiler at the printed pid.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"
	"golang.org/x/xerrors"

	"github.com/tsavola/perfjit"
	"github.com/tsavola/perfjit/dump"
	"github.com/tsavola/perfjit/emit"
	"github.com/tsavola/perfjit/layout"
	"github.com/tsavola/perfjit/perfmap"
	"github.com/tsavola/perfjit/runner"
)

var (
	verbose = env.Bool("PERFJIT_VERBOSE")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [runtime_ms]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Runs forever if runtime is not specified.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	policy := emit.DefaultPolicy()

	var (
		regionSize = perfjit.DefaultRegionSize
		layoutFile = env.Str("PERFJIT_LAYOUT")
		mapPath    = env.Str("PERFJIT_MAP")
		threads    = env.Int("PERFJIT_THREADS", 0)
		dumpText   = false
		checkMap   = false
		progress   = false
	)

	flag.BoolVar(&verbose, "v", verbose, "verbose logging")
	flag.BoolVar(&policy.FramePointers, "fp", policy.FramePointers, "maintain frame pointers in generated code")
	flag.IntVar(&policy.StackItems, "stackitems", policy.StackItems, "filler values pushed by each generated function")
	flag.IntVar(&regionSize, "regionsize", regionSize, "code region size")
	flag.StringVar(&layoutFile, "layout", layoutFile, "YAML file describing the generated functions")
	flag.StringVar(&mapPath, "map", mapPath, "symbol map path (default /tmp/perf-<pid>.map)")
	flag.IntVar(&threads, "threads", threads, "extra threads running ahead-of-time compiled code")
	flag.BoolVar(&dumpText, "dumptext", dumpText, "disassemble the generated code to stdout")
	flag.BoolVar(&checkMap, "check", checkMap, "verify the exported symbol map")
	flag.BoolVar(&progress, "progress", progress, "show progress bar if stderr is a terminal")
	flag.Parse()

	var runtime time.Duration

	switch flag.NArg() {
	case 0:

	case 1:
		ms, err := strconv.Atoi(flag.Arg(0))
		if err != nil || ms < 0 {
			log.Fatalf("invalid runtime: %q", flag.Arg(0))
		}
		runtime = time.Duration(ms) * time.Millisecond

	default:
		flag.Usage()
		os.Exit(2)
	}

	if threads < 0 {
		log.Fatalf("invalid thread count: %d", threads)
	}

	config := &perfjit.Config{
		RegionSize: regionSize,
		Policy:     &policy,
		MapPath:    mapPath,
	}

	if layoutFile != "" {
		l, err := layout.Load(layoutFile)
		if err != nil {
			log.Fatal(err)
		}
		config.Layout = l
	}

	prog, err := perfjit.Build(config)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Running with pid", os.Getpid())

	if verbose {
		log.Printf("code region at 0x%x (%d bytes)", prog.Text.Addr(), prog.Text.Len())
		log.Printf("symbol map at %s", prog.MapPath)
		for _, f := range prog.Funcs {
			log.Printf("function %s at 0x%x (%d bytes)", f.Name, f.Addr, f.Size())
		}
	}

	if checkMap {
		if err := check(prog); err != nil {
			log.Fatal(err)
		}
	}

	if dumpText {
		last := prog.Funcs[len(prog.Funcs)-1]
		text := prog.Text.Copy(0, int(last.End-prog.Text.Addr()))
		if err := dump.Text(os.Stdout, text, prog.Text.Addr(), prog.Funcs); err != nil {
			log.Fatal(err)
		}
	}

	r, err := runner.New(prog)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if runtime > 0 {
		ctx, cancel = context.WithTimeout(ctx, runtime)
		defer cancel()

		if progress && term.IsTerminal(int(os.Stderr.Fd())) {
			go showProgress(ctx, runtime)
		}
	}

	stats := r.Run(ctx, threads)

	if verbose {
		log.Printf("%d rounds", stats.Rounds)
		for i, n := range stats.SpinRounds {
			log.Printf("thread %d: %d rounds", i, n)
		}
	}

	fmt.Println("Exiting")
}

func check(prog *perfjit.Program) error {
	entries, err := perfmap.ParseFile(prog.MapPath)
	if err != nil {
		return err
	}

	if err := perfmap.Check(entries); err != nil {
		return xerrors.Errorf("%s: %w", prog.MapPath, err)
	}

	expect := perfjit.MapEntries(prog.Funcs)
	if len(entries) != len(expect) {
		return xerrors.Errorf("%s: %d entries instead of %d", prog.MapPath, len(entries), len(expect))
	}
	for i := range entries {
		if entries[i] != expect[i] {
			return xerrors.Errorf("%s: entry %d is %v instead of %v", prog.MapPath, i, entries[i], expect[i])
		}
	}

	if verbose {
		log.Printf("symbol map %s has %d valid entries", prog.MapPath, len(entries))
	}
	return nil
}

func showProgress(ctx context.Context, runtime time.Duration) {
	bar := progressbar.Default(runtime.Milliseconds(), "running")
	defer bar.Close()

	start := time.Now()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			bar.Finish()
			return

		case <-ticker.C:
			bar.Set64(time.Since(start).Milliseconds())
		}
	}
}
