// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && amd64

package runner

import (
	"sort"
)

// Symbolize a code address the way a profiler would, using the program's
// function ranges.
func (r *Runner) Symbolize(addr uintptr) (name string, offset uintptr, ok bool) {
	funcs := r.prog.Funcs

	i := sort.Search(len(funcs), func(i int) bool {
		return funcs[i].End > addr
	})
	if i == len(funcs) || addr < funcs[i].Addr {
		return
	}

	name = funcs[i].Name
	offset = addr - funcs[i].Addr
	ok = true
	return
}
