// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package perfjit

import (
	"os"

	"github.com/tsavola/perfjit/emit"
	"github.com/tsavola/perfjit/internal/pan"
	"github.com/tsavola/perfjit/layout"
	"github.com/tsavola/perfjit/link"
	"github.com/tsavola/perfjit/perfmap"
	"github.com/tsavola/perfjit/region"
)

// DefaultRegionSize is the requested code region size.  The actual size is
// rounded up to the page size.
const DefaultRegionSize = 5000

// Config for Build.  Zero values are replaced with effective defaults.
type Config struct {
	RegionSize int            // Defaults to DefaultRegionSize.
	Policy     *emit.Policy   // Defaults to emit.DefaultPolicy().
	Layout     *layout.Layout // Defaults to layout.Default().
	MapPath    string         // Defaults to perfmap.Path(os.Getpid()).
}

// Program is sealed, exported machine code.
type Program struct {
	Text    *region.Sealed
	Policy  emit.Policy
	Funcs   []emit.Func // In emission order.
	Entry   emit.Func
	MapPath string
}

// Build a program: acquire a code region, emit the layout's functions into it,
// resolve calls, export the symbol map and seal the region.  The map is
// written before sealing, so the program is never executable without it.  On
// error the region is released.
func Build(config *Config) (prog *Program, err error) {
	if config == nil {
		config = new(Config)
	}

	size := config.RegionSize
	if size == 0 {
		size = DefaultRegionSize
	}

	policy := emit.DefaultPolicy()
	if config.Policy != nil {
		policy = *config.Policy
	}

	l := config.Layout
	if l == nil {
		l = layout.Default()
	} else if err = l.Validate(); err != nil {
		return
	}

	mapPath := config.MapPath
	if mapPath == "" {
		mapPath = perfmap.Path(os.Getpid())
	}

	r, err := region.Acquire(size)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			r.Close()
		}
	}()

	e := emit.New(r, policy)

	var table link.Table

	if err = emitLayout(e, &table, l); err != nil {
		return
	}

	if err = table.Resolve(e.Text()); err != nil {
		return
	}

	funcs := e.Funcs()

	if err = perfmap.Export(mapPath, MapEntries(funcs)); err != nil {
		return
	}

	text, err := r.Seal()
	if err != nil {
		return
	}

	prog = &Program{
		Text:    text,
		Policy:  policy,
		Funcs:   funcs,
		MapPath: mapPath,
	}
	prog.Entry, _ = prog.Func(l.EntryName())
	return
}

func emitLayout(e *emit.Emitter, table *link.Table, l *layout.Layout) (err error) {
	defer func() { err = pan.Error(recover()) }()

	defaultItems := e.Policy().StackItems

	for i := range l.Functions {
		f := &l.Functions[i]
		items := f.Items(defaultItems)

		e.BeginFunc(f.Name)
		e.Prologue()
		if f.CheckStack {
			e.MarkStackPointer()
		}
		e.StackFiller(items)

		if f.Call != "" {
			_, patch := e.AbsCall()
			table.Label(f.Call).AddSite(patch)
		}

		if f.Loop != nil {
			e.BoundedLoop(*f.Loop)
			if f.ReturnCount {
				e.CounterResult()
			}
		}

		e.StackUnfiller(items)
		if f.CheckStack {
			e.StackPointerDelta()
		}
		e.Epilogue()
		e.Return()

		fn := e.EndFunc()
		table.Label(f.Name).SetAddr(uint64(fn.Addr))
	}

	return
}

// MapEntries describes functions in symbol map format.
func MapEntries(funcs []emit.Func) []perfmap.Entry {
	entries := make([]perfmap.Entry, 0, len(funcs))
	for _, f := range funcs {
		entries = append(entries, perfmap.Entry{
			Addr: uint64(f.Addr),
			Size: uint64(f.Size()),
			Name: f.Name,
		})
	}
	return entries
}

// Func by name.
func (p *Program) Func(name string) (f emit.Func, found bool) {
	for _, f = range p.Funcs {
		if f.Name == name {
			found = true
			return
		}
	}
	f = emit.Func{}
	return
}

// Close unmaps the code.  The symbol map file is left in place.
func (p *Program) Close() error {
	return p.Text.Close()
}
