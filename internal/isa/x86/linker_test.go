// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x86

import (
	"bytes"
	"testing"
)

func TestUpdateNearBranch(t *testing.T) {
	text := []byte{0xeb, 0xfe, 0x83, 0x45, 0xfc, 0x01}
	Linker{}.UpdateNearBranch(text, 2)

	if text[1] != 0x04 {
		t.Errorf("displacement: 0x%02x", text[1])
	}
}

func TestUpdateNearBranchRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out-of-range displacement did not panic")
		}
	}()

	Linker{}.UpdateNearBranch(make([]byte, 0x200), 2)
}

func TestUpdateAbsAddr(t *testing.T) {
	text := []byte{0x48, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xd0}
	Linker{}.UpdateAbsAddr(text, 10, 0x00007f0012345678)

	expect := []byte{0x48, 0xb8, 0x78, 0x56, 0x34, 0x12, 0x00, 0x7f, 0x00, 0x00, 0xff, 0xd0}
	if !bytes.Equal(text, expect) {
		t.Errorf("% x", text)
	}
}
