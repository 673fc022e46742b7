// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"github.com/tsavola/perfjit/internal/isa/x86/in"
)

// DefaultStackItems is the number of filler values pushed by each function.
// Without them stack unwinding with frame pointers might work by accident.
const DefaultStackItems = 30

// Policy is consulted by Emitter for every operation.
type Policy struct {
	// FramePointers makes Prologue and Epilogue establish and tear down
	// conventional frame linkage.  When disabled they emit nothing.
	FramePointers bool

	// StackItems is the default filler count.
	StackItems int
}

// DefaultPolicy enables frame pointers unless the module is built with the
// perfjit_nofp tag.
func DefaultPolicy() Policy {
	return Policy{
		FramePointers: defaultFramePointers,
		StackItems:    DefaultStackItems,
	}
}

// counterBase is the register which the loop counter is addressed through.
// Without frame pointers rbp belongs to somebody else, so the counter lives
// in the red zone below the stack pointer.
func (p Policy) counterBase() in.Reg {
	if p.FramePointers {
		return in.RegBP
	}
	return in.RegSP
}
