// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && amd64

// Package runner executes generated programs together with ahead-of-time
// compiled call chains.
package runner

import (
	"context"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/xerrors"

	"github.com/tsavola/perfjit"
	"github.com/tsavola/perfjit/aot"
)

// Runner invokes the functions of a program.  Generated functions take no
// arguments; their rax value is returned.
type Runner struct {
	prog  *perfjit.Program
	funcs map[string]func() uint64
	entry func() uint64
}

func New(prog *perfjit.Program) (*Runner, error) {
	r := &Runner{
		prog:  prog,
		funcs: make(map[string]func() uint64, len(prog.Funcs)),
	}

	for _, f := range prog.Funcs {
		if !prog.Text.Contains(f.Addr) {
			return nil, xerrors.Errorf("function %s at 0x%x is outside of code region", f.Name, f.Addr)
		}

		var call func() uint64
		purego.RegisterFunc(&call, f.Addr)
		r.funcs[f.Name] = call
	}

	r.entry = r.funcs[prog.Entry.Name]
	if r.entry == nil {
		return nil, xerrors.New("program has no entry function")
	}

	return r, nil
}

func (r *Runner) Program() *perfjit.Program { return r.prog }

// Call a generated function by name.
func (r *Runner) Call(name string) (result uint64, err error) {
	call := r.funcs[name]
	if call == nil {
		err = xerrors.Errorf("function not found: %s", name)
		return
	}

	result = call()
	return
}

// CallEntry invokes the entry function once.
func (r *Runner) CallEntry() uint64 {
	return r.entry()
}

// Stats of a Run.
type Stats struct {
	Rounds     uint64   // Entry function and AOT chain invocations.
	SpinRounds []uint64 // Per threaded chain.
}

// Run the entry function followed by the AOT chain repeatedly until the
// context is done.  Each of the given number of extra threads runs a threaded
// AOT chain meanwhile.  All goroutines are locked to their OS threads.
func (r *Runner) Run(ctx context.Context, threads int) (stats Stats) {
	stats.SpinRounds = make([]uint64, threads)

	var wg sync.WaitGroup
	defer wg.Wait()

	for i := 0; i < threads; i++ {
		spin := aot.Spinners[i%len(aot.Spinners)]

		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			stats.SpinRounds[i] = spin(ctx)
		}(i)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	done := ctx.Done()

	for {
		select {
		case <-done:
			return

		default:
			r.entry()
			aot.Chain()
			stats.Rounds++
		}
	}
}
