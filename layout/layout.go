// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout describes the functions of a generated program.
//
// A layout is usually written in YAML:
//
//	entry: jit_middle
//	functions:
//	  - name: jit_middle
//	    call: jit_top
//	  - name: jit_top
//	    loop: 1000
//
// Functions are emitted in the listed order.  Calls may refer to functions
// which appear later.
package layout

import (
	"bytes"
	"io"
	"os"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/tsavola/perfjit/emit"
	"github.com/tsavola/perfjit/errors"
)

// MaxLoop is the largest supported loop count.
const MaxLoop = emit.MaxLoopIterations

// MaxStackItems is the largest supported filler count of a function.
const MaxStackItems = 1 << 16

// Layout of a program.
type Layout struct {
	Entry     string `yaml:"entry"` // Defaults to the first function.
	Functions []Func `yaml:"functions"`
}

// Func describes one generated function.  It pushes filler values, optionally
// calls another generated function and runs a loop, pops the filler values
// and returns.
type Func struct {
	Name       string `yaml:"name"`
	StackItems *int   `yaml:"stack_items,omitempty"` // Overrides the policy default.
	Call       string `yaml:"call,omitempty"`
	Loop       *int   `yaml:"loop,omitempty"`

	// ReturnCount makes the function return the final loop counter value.
	ReturnCount bool `yaml:"return_count,omitempty"`

	// CheckStack makes the function return the difference between the stack
	// pointer values at entry and before return.  It is zero if fillers and
	// unfillers are balanced.
	CheckStack bool `yaml:"check_stack,omitempty"`
}

// Items is the filler count given the policy default.
func (f *Func) Items(defaultItems int) int {
	if f.StackItems != nil {
		return *f.StackItems
	}
	return defaultItems
}

// Default layout: jit_middle calls jit_top, which loops 1000 times.
func Default() *Layout {
	loop := 1000

	return &Layout{
		Entry: "jit_middle",
		Functions: []Func{
			{Name: "jit_middle", Call: "jit_top"},
			{Name: "jit_top", Loop: &loop},
		},
	}
}

// Parse and validate a YAML layout.  Unknown fields are errors.
func Parse(r io.Reader) (*Layout, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	l := new(Layout)
	if err := d.Decode(l); err != nil {
		if err == io.EOF {
			return nil, xerrors.New("layout is empty")
		}
		return nil, xerrors.Errorf("parsing layout: %w", err)
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Load a layout file.
func Load(filename string) (*Layout, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	l, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", filename, err)
	}
	return l, nil
}

// Marshal to YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

// EntryName is the explicit entry function name, or the first function's.
func (l *Layout) EntryName() string {
	if l.Entry != "" {
		return l.Entry
	}
	if len(l.Functions) > 0 {
		return l.Functions[0].Name
	}
	return ""
}

// Lookup function by name.
func (l *Layout) Lookup(name string) (f *Func, found bool) {
	for i := range l.Functions {
		if l.Functions[i].Name == name {
			f = &l.Functions[i]
			found = true
			return
		}
	}
	return
}

// Validate the layout.  Problems are reported as *errors.EncodingError.
func (l *Layout) Validate() error {
	if len(l.Functions) == 0 {
		return errors.Encoding("layout has no functions")
	}

	names := make(map[string]struct{}, len(l.Functions))

	for _, f := range l.Functions {
		if f.Name == "" {
			return errors.Encoding("function has no name")
		}
		if strings.ContainsAny(f.Name, "\r\n") {
			return errors.Encodingf("function name %q contains a line break", f.Name)
		}
		if _, dup := names[f.Name]; dup {
			return errors.Encodingf("function %q is defined twice", f.Name)
		}
		names[f.Name] = struct{}{}
	}

	if _, found := names[l.EntryName()]; !found {
		return errors.Encodingf("entry function %q is not defined", l.Entry)
	}

	for _, f := range l.Functions {
		if err := f.validate(names); err != nil {
			return err
		}
	}

	for _, f := range l.Functions {
		if err := l.checkCallChain(f.Name); err != nil {
			return err
		}
	}

	return nil
}

// checkCallChain follows calls starting from the named function.  Generated
// functions have no base case, so a cycle would recurse until the stack
// overflows.
func (l *Layout) checkCallChain(name string) error {
	visited := make(map[string]struct{})

	for name != "" {
		if _, seen := visited[name]; seen {
			return errors.Encodingf("call chain of function %q is recursive", name)
		}
		visited[name] = struct{}{}

		f, found := l.Lookup(name)
		if !found {
			return errors.Encodingf("function %q is not defined", name)
		}
		name = f.Call
	}

	return nil
}

func (f *Func) validate(names map[string]struct{}) error {
	if f.StackItems != nil {
		if n := *f.StackItems; n < 0 || n > MaxStackItems {
			return errors.Encodingf("function %q: stack item count out of range: %d", f.Name, n)
		}
	}

	if f.Call != "" {
		if _, found := names[f.Call]; !found {
			return errors.Encodingf("function %q calls undefined function %q", f.Name, f.Call)
		}
	}

	if f.Loop != nil {
		if n := *f.Loop; n < 0 || n > MaxLoop {
			return errors.Encodingf("function %q: loop count out of range: %d", f.Name, n)
		}
	}

	if f.ReturnCount && f.Loop == nil {
		return errors.Encodingf("function %q returns loop count but has no loop", f.Name)
	}

	if f.CheckStack {
		switch {
		case f.Call != "":
			return errors.Encodingf("function %q: stack check can't be combined with a call", f.Name)

		case f.ReturnCount:
			return errors.Encodingf("function %q: stack check can't be combined with loop count", f.Name)
		}
	}

	return nil
}
