// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perfmap reads and writes perf-style symbol maps.
//
// Each line of a map describes one function: start address and size in
// hexadecimal, and a name which extends to the end of the line.  Sampling
// profilers look for the map of process <pid> at /tmp/perf-<pid>.map.
package perfmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/tsavola/perfjit/errors"
)

// Entry of a symbol map.
type Entry struct {
	Addr uint64
	Size uint64
	Name string
}

func (e Entry) End() uint64 { return e.Addr + e.Size }

// Path of the map which belongs to a process.
func Path(pid int) string {
	return fmt.Sprintf("/tmp/perf-%d.map", pid)
}

// Write one line per entry, in the given order.
func Write(w io.Writer, entries []Entry) error {
	b := bufio.NewWriter(w)

	for _, e := range entries {
		if _, err := fmt.Fprintf(b, "%x %x %s\n", e.Addr, e.Size, e.Name); err != nil {
			return err
		}
	}

	return b.Flush()
}

// Export truncates or creates the file and writes the entries to it.  Failure
// is an *errors.ExportError.
func Export(path string, entries []Entry) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &errors.ExportError{Path: path, Cause: err}
	}

	err = Write(f, entries)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &errors.ExportError{Path: path, Cause: err}
	}

	return nil
}

// Parse a map.  Blank lines are skipped.
func Parse(r io.Reader) (entries []Entry, err error) {
	s := bufio.NewScanner(r)

	for lineNum := 1; s.Scan(); lineNum++ {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, " ", 3)
		if len(fields) != 3 || fields[2] == "" {
			err = xerrors.Errorf("symbol map line %d: malformed entry: %q", lineNum, line)
			return
		}

		var e Entry

		e.Addr, err = strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			err = xerrors.Errorf("symbol map line %d: address: %w", lineNum, err)
			return
		}

		e.Size, err = strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			err = xerrors.Errorf("symbol map line %d: size: %w", lineNum, err)
			return
		}

		e.Name = fields[2]
		entries = append(entries, e)
	}

	err = s.Err()
	return
}

// ParseFile is Parse for a file.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Check that every entry has a non-zero size, doesn't wrap around, and
// doesn't overlap with other entries.
func Check(entries []Entry) error {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Addr < sorted[j].Addr
	})

	for i, e := range sorted {
		if e.Size == 0 {
			return xerrors.Errorf("symbol %s at 0x%x has zero size", e.Name, e.Addr)
		}
		if e.End() < e.Addr {
			return xerrors.Errorf("symbol %s at 0x%x wraps around", e.Name, e.Addr)
		}
		if i > 0 {
			if prev := sorted[i-1]; prev.End() > e.Addr {
				return xerrors.Errorf("symbols %s and %s overlap", prev.Name, e.Name)
			}
		}
	}

	return nil
}
