// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build perfjit_nofp

package emit

import (
	"testing"

	"github.com/tsavola/perfjit/internal/isa/x86/in"
)

func TestDefaultPolicyNoFramePointers(t *testing.T) {
	p := DefaultPolicy()
	if p.FramePointers || p.StackItems != DefaultStackItems {
		t.Error(p)
	}
	if p.counterBase() != in.RegSP {
		t.Error(p.counterBase())
	}
}
