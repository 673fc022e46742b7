// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package region

import (
	"os"
	"testing"

	"golang.org/x/xerrors"

	"github.com/tsavola/perfjit/errors"
)

func TestAcquireInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		r, err := Acquire(size)
		if r != nil {
			t.Errorf("Acquire(%d) returned a region", size)
		}

		var allocErr *errors.AllocationError
		if !xerrors.As(err, &allocErr) {
			t.Errorf("Acquire(%d) error: %v", size, err)
		} else if allocErr.Size != size {
			t.Errorf("Acquire(%d) error size: %d", size, allocErr.Size)
		}
	}
}

func TestAcquireRoundsToPageSize(t *testing.T) {
	r, err := Acquire(5000)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	pageSize := os.Getpagesize()
	if r.Len() < 5000 || r.Len()%pageSize != 0 {
		t.Errorf("length %d", r.Len())
	}
	if r.Addr()%uintptr(pageSize) != 0 {
		t.Errorf("address %#x", r.Addr())
	}

	for i, b := range r.Text() {
		if b != 0 {
			t.Fatalf("byte %d is 0x%02x", i, b)
		}
	}
}

func TestSeal(t *testing.T) {
	r, err := Acquire(1)
	if err != nil {
		t.Fatal(err)
	}

	base := r.Addr()
	r.Text()[0] = 0xc3

	s, err := r.Seal()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if !r.Sealed() || r.Text() != nil {
		t.Error("writable handle is still alive")
	}
	if s.Addr() != base {
		t.Errorf("sealed address %#x, expected %#x", s.Addr(), base)
	}
	if !s.Contains(base) || !s.Contains(base+uintptr(s.Len()-1)) || s.Contains(base+uintptr(s.Len())) || s.Contains(base-1) {
		t.Error("Contains")
	}
	if b := s.Copy(0, 1); b[0] != 0xc3 {
		t.Errorf("copy: % x", b)
	}
}

func TestSealTwice(t *testing.T) {
	r, err := Acquire(1)
	if err != nil {
		t.Fatal(err)
	}

	s, err := r.Seal()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	defer func() {
		if x := recover(); x != ErrSealed {
			t.Errorf("recovered %v", x)
		}
	}()

	r.Seal()
}
