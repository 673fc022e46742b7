// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package link resolves forward references in generated code.
//
// An absolute call is emitted with a zeroed 8-byte address placeholder.  The
// placeholder is described by a Patch, which must be resolved while the code
// region is still writable, and before the call is executed.
package link

import (
	"sort"

	"github.com/tsavola/perfjit/errors"
	"github.com/tsavola/perfjit/internal/isa/x86"
)

// Width of an address placeholder.
const Width = 8

// Patch is the location of an address placeholder.
type Patch struct {
	Offset int32 // Offset of the first placeholder byte from the region start.
}

// Resolve stores the target address in little-endian byte order.
func (p Patch) Resolve(text []byte, addr uint64) {
	x86.Linker{}.UpdateAbsAddr(text, p.Offset+Width, addr)
}

// L is a link target which may be referenced before its address is known.
type L struct {
	Sites []Patch
	Addr  uint64
}

func (l *L) AddSite(p Patch) {
	l.Sites = append(l.Sites, p)
}

func (l *L) SetAddr(addr uint64) {
	if l.Addr != 0 {
		panic("link address defined twice")
	}
	l.Addr = addr
}

func (l *L) FinalAddr() uint64 {
	if l.Addr == 0 {
		panic("link address undefined while updating call instruction")
	}
	return l.Addr
}

// Resolve all sites.  The address must be defined.
func (l *L) Resolve(text []byte) {
	addr := l.FinalAddr()
	for _, p := range l.Sites {
		p.Resolve(text, addr)
	}
}

// Table of named link targets.
type Table struct {
	labels map[string]*L
}

// Label by name.  It is created on first use.
func (t *Table) Label(name string) *L {
	if t.labels == nil {
		t.labels = make(map[string]*L)
	}

	l := t.labels[name]
	if l == nil {
		l = new(L)
		t.labels[name] = l
	}
	return l
}

// Unresolved labels which have sites but no address, sorted by name.
func (t *Table) Unresolved() (names []string) {
	for name, l := range t.labels {
		if l.Addr == 0 && len(l.Sites) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return
}

// Resolve every site of every label.  An *errors.EncodingError is returned
// (and nothing is written) if some label hasn't been defined.
func (t *Table) Resolve(text []byte) error {
	if names := t.Unresolved(); len(names) > 0 {
		return errors.Encodingf("call to undefined function %q", names[0])
	}

	for _, l := range t.labels {
		if len(l.Sites) > 0 {
			l.Resolve(text)
		}
	}
	return nil
}
