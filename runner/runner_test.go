// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && amd64

package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/tsavola/perfjit"
	"github.com/tsavola/perfjit/emit"
	"github.com/tsavola/perfjit/layout"
)

var policies = []emit.Policy{
	{FramePointers: true, StackItems: emit.DefaultStackItems},
	{FramePointers: false, StackItems: emit.DefaultStackItems},
}

func intPtr(n int) *int { return &n }

func newRunner(t *testing.T, l *layout.Layout, p emit.Policy) *Runner {
	t.Helper()

	prog, err := perfjit.Build(&perfjit.Config{
		RegionSize: 1 << 16,
		Policy:     &p,
		Layout:     l,
		MapPath:    filepath.Join(t.TempDir(), "perf-test.map"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { prog.Close() })

	r, err := New(prog)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// The default program returns normally.  jit_top doesn't touch
// rax, so the entry function returns the call target.
func TestDefaultProgram(t *testing.T) {
	for _, p := range policies {
		r := newRunner(t, nil, p)

		top, _ := r.Program().Func("jit_top")

		for i := 0; i < 3; i++ {
			if result := r.CallEntry(); result != uint64(top.Addr) {
				t.Errorf("frame pointers %v: result %#x, jit_top at %#x", p.FramePointers, result, top.Addr)
			}
		}
	}
}

func TestLoopCount(t *testing.T) {
	for _, p := range policies {
		for _, n := range []int{0, 1, 2, 1000, 100000} {
			l := &layout.Layout{
				Functions: []layout.Func{
					{Name: "middle", Call: "top"},
					{Name: "top", Loop: intPtr(n), ReturnCount: true},
				},
			}

			r := newRunner(t, l, p)

			result, err := r.Call("middle")
			if err != nil {
				t.Fatal(err)
			}
			if result != uint64(n) {
				t.Errorf("frame pointers %v: loop %d: counter %d", p.FramePointers, n, result)
			}
		}
	}
}

func TestStackBalance(t *testing.T) {
	for _, p := range policies {
		for _, items := range []int{0, 1, 30, 100} {
			l := &layout.Layout{
				Functions: []layout.Func{
					{Name: "check", StackItems: intPtr(items), Loop: intPtr(10), CheckStack: true},
				},
			}

			r := newRunner(t, l, p)

			delta, err := r.Call("check")
			if err != nil {
				t.Fatal(err)
			}
			if delta != 0 {
				t.Errorf("frame pointers %v: %d items: stack delta %d", p.FramePointers, items, int64(delta))
			}
		}
	}
}

func TestCallChain(t *testing.T) {
	const depth = 10

	l := new(layout.Layout)
	for i := 0; i < depth; i++ {
		f := layout.Func{Name: fmt.Sprintf("f%d", i)}
		if i < depth-1 {
			f.Call = fmt.Sprintf("f%d", i+1)
		} else {
			f.Loop = intPtr(depth)
			f.ReturnCount = true
		}
		l.Functions = append(l.Functions, f)
	}

	for _, p := range policies {
		r := newRunner(t, l, p)

		for i := 0; i < depth; i++ {
			result, err := r.Call(fmt.Sprintf("f%d", i))
			if err != nil {
				t.Fatal(err)
			}
			if result != depth {
				t.Errorf("f%d: %d", i, result)
			}
		}
	}
}

func TestCallUnknown(t *testing.T) {
	r := newRunner(t, nil, policies[0])

	if _, err := r.Call("aot_top"); err == nil {
		t.Error("no error")
	}
}

func TestSymbolize(t *testing.T) {
	r := newRunner(t, nil, policies[0])
	funcs := r.Program().Funcs

	for _, f := range funcs {
		for _, addr := range []uintptr{f.Addr, f.End - 1} {
			name, offset, ok := r.Symbolize(addr)
			if !ok || name != f.Name || offset != addr-f.Addr {
				t.Errorf("%#x: %s+%#x %v", addr, name, offset, ok)
			}
		}
	}

	last := funcs[len(funcs)-1]
	for _, addr := range []uintptr{funcs[0].Addr - 1, last.End} {
		if name, _, ok := r.Symbolize(addr); ok {
			t.Errorf("%#x: %s", addr, name)
		}
	}
}

func TestRun(t *testing.T) {
	r := newRunner(t, nil, policies[1])

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	stats := r.Run(ctx, 2)

	if stats.Rounds == 0 {
		t.Error("no rounds")
	}
	if len(stats.SpinRounds) != 2 {
		t.Error(stats.SpinRounds)
	}
}
