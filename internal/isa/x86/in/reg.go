// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"fmt"
)

// Reg is a general-purpose register number.
type Reg byte

const (
	RegAX = Reg(0)
	RegCX = Reg(1)
	RegDX = Reg(2)
	RegBX = Reg(3)
	RegSP = Reg(4)
	RegBP = Reg(5)
	RegSI = Reg(6)
	RegDI = Reg(7)
)

var regNames = [8]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi"}

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return fmt.Sprintf("r%d", r)
}

// Size of an operand.
type Size byte

const (
	OneSize = Size(0) // for instructions which don't use RexW
	Size32  = Size(0)
	Size64  = Size(8)
)
