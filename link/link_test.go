// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"

	"github.com/tsavola/perfjit/errors"
)

func TestPatchResolveLittleEndian(t *testing.T) {
	text := make([]byte, 12)
	Patch{Offset: 2}.Resolve(text, 0x0102030405060708)

	expect := []byte{0, 0, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0, 0}
	if diff := cmp.Diff(expect, text); diff != "" {
		t.Error(diff)
	}
}

func TestTableResolve(t *testing.T) {
	text := make([]byte, 32)

	var table Table
	table.Label("leaf").AddSite(Patch{Offset: 0})
	table.Label("leaf").AddSite(Patch{Offset: 16})
	table.Label("entry").SetAddr(0x1000)

	if diff := cmp.Diff([]string{"leaf"}, table.Unresolved()); diff != "" {
		t.Error(diff)
	}

	table.Label("leaf").SetAddr(0x7f00aabbccdd)

	if names := table.Unresolved(); len(names) != 0 {
		t.Error(names)
	}
	if err := table.Resolve(text); err != nil {
		t.Fatal(err)
	}

	expect := make([]byte, 32)
	copy(expect[0:], []byte{0xdd, 0xcc, 0xbb, 0xaa, 0x00, 0x7f, 0, 0})
	copy(expect[16:], []byte{0xdd, 0xcc, 0xbb, 0xaa, 0x00, 0x7f, 0, 0})
	if diff := cmp.Diff(expect, text); diff != "" {
		t.Error(diff)
	}
}

func TestTableResolveUndefined(t *testing.T) {
	text := make([]byte, 8)

	var table Table
	table.Label("missing").AddSite(Patch{})

	var encErr *errors.EncodingError
	if err := table.Resolve(text); !xerrors.As(err, &encErr) {
		t.Fatal(err)
	}
}

func TestSetAddrTwice(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()

	var l L
	l.SetAddr(1)
	l.SetAddr(2)
}
