// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x86

import (
	"encoding/binary"
)

type Linker struct{}

// UpdateNearBranch modifies the 8-bit relocation of a JMP or Jcc instruction.
// The label is at the current end of text.
func (Linker) UpdateNearBranch(text []byte, originAddr int32) {
	labelAddr := int32(len(text))
	updateAddr8(text, originAddr, labelAddr-originAddr)
}

// UpdateAbsAddr modifies the 64-bit immediate operand which ends at addr.
func (Linker) UpdateAbsAddr(text []byte, addr int32, value uint64) {
	binary.LittleEndian.PutUint64(text[addr-8:addr], value)
}

func updateAddr8(text []byte, addr, value int32) {
	if value < -0x80 || value >= 0x80 {
		panic(value)
	}
	text[addr-1] = uint8(value)
}
