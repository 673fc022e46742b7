// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && amd64

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsavola/perfjit"
	"github.com/tsavola/perfjit/perfmap"
)

func TestCheck(t *testing.T) {
	prog, err := perfjit.Build(&perfjit.Config{
		MapPath: filepath.Join(t.TempDir(), "perf-test.map"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer prog.Close()

	if err := check(prog); err != nil {
		t.Fatal(err)
	}

	entries := perfjit.MapEntries(prog.Funcs)

	for name, tampered := range map[string][]perfmap.Entry{
		"Missing": entries[:1],
		"Renamed": {entries[0], {Addr: entries[1].Addr, Size: entries[1].Size, Name: "other"}},
		"Overlap": {entries[0], {Addr: entries[1].Addr - 1, Size: entries[1].Size, Name: entries[1].Name}},
	} {
		if err := perfmap.Export(prog.MapPath, tampered); err != nil {
			t.Fatal(err)
		}
		if err := check(prog); err == nil {
			t.Errorf("%s: no error", name)
		}
	}

	if err := os.Remove(prog.MapPath); err != nil {
		t.Fatal(err)
	}
	if err := check(prog); !os.IsNotExist(err) {
		t.Error(err)
	}
}
