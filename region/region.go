// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

// Package region manages the memory which generated code is written into.
//
// A Region is readable, writable and executable.  Sealing it returns a Sealed
// handle which is only readable and executable; the Region handle is dead
// after that.  The transition happens once and is never reversed.
package region

import (
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"

	"github.com/tsavola/perfjit/errors"
)

var errSizeNotPositive = xerrors.New("size is not positive")

// ErrSealed is the panic value of writes attempted after sealing.
var ErrSealed = xerrors.New("code region has been sealed")

// Region is the writable state of a code region.
type Region struct {
	mem []byte
}

// Acquire maps a zero-initialized region of at least size bytes with read,
// write and execute permissions.  The size is rounded up to page size.
// Failure is an *errors.AllocationError.
func Acquire(size int) (*Region, error) {
	if size <= 0 {
		return nil, &errors.AllocationError{Size: size, Cause: errSizeNotPositive}
	}

	pageSize := unix.Getpagesize()
	allocSize := alignSize(size, pageSize)
	if allocSize < size {
		return nil, &errors.AllocationError{Size: size, Cause: unix.ENOMEM}
	}

	mem, err := unix.Mmap(-1, 0, allocSize, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, &errors.AllocationError{Size: size, Cause: err}
	}

	return &Region{mem}, nil
}

func alignSize(size, alignment int) int {
	return (size + (alignment - 1)) &^ (alignment - 1)
}

// Text is the whole writable memory.  It is nil after sealing.
func (r *Region) Text() []byte { return r.mem }

// Addr of the first byte.
func (r *Region) Addr() uintptr { return addr(r.mem) }

// Len is the mapped size.
func (r *Region) Len() int { return len(r.mem) }

// Sealed reports whether Seal has been called successfully.
func (r *Region) Sealed() bool { return r.mem == nil }

// Seal removes write permission.  All pending patches must have been resolved
// before this is called.  Sealing twice panics.
func (r *Region) Seal() (*Sealed, error) {
	if r.mem == nil {
		panic(ErrSealed)
	}

	if err := unix.Mprotect(r.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return nil, xerrors.Errorf("sealing code region: %w", err)
	}

	s := &Sealed{r.mem}
	r.mem = nil
	return s, nil
}

// Close unmaps a region which is never going to be sealed.
func (r *Region) Close() (err error) {
	if r.mem != nil {
		err = unix.Munmap(r.mem)
		r.mem = nil
	}
	return
}

// Sealed is the executable, read-only state of a code region.  It may be
// shared by any number of threads.
type Sealed struct {
	mem []byte
}

func (s *Sealed) Addr() uintptr { return addr(s.mem) }
func (s *Sealed) Len() int      { return len(s.mem) }

// Contains reports whether the address is inside the region.
func (s *Sealed) Contains(a uintptr) bool {
	base := addr(s.mem)
	return a >= base && a-base < uintptr(len(s.mem))
}

// Copy of n bytes starting at the given offset.
func (s *Sealed) Copy(offset, n int) []byte {
	return append([]byte(nil), s.mem[offset:offset+n]...)
}

// Close unmaps the region.  Generated code must not be running, and external
// tools can't symbolize its addresses anymore.
func (s *Sealed) Close() (err error) {
	if s.mem != nil {
		err = unix.Munmap(s.mem)
		s.mem = nil
	}
	return
}

func addr(mem []byte) uintptr {
	if len(mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&mem[0]))
}
