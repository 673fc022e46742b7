// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

const (
	// Opcode bits of some instructions are located at this offset in the ModRM
	// byte (ModRO part) or a standalone opcode byte.
	opcodeBase = 3
)

const (
	SUB    = RM(0x2b)
	PUSHo  = O(0x50)
	POPo   = O(0x58)
	PUSHi  = Ipush(0x6a)
	JLEcb  = Db(0x7e)
	ADDi   = MI(0x81<<16 | 0x83<<8 | 0<<opcodeBase)
	CMPi   = MI(0x81<<16 | 0x83<<8 | 7<<opcodeBase)
	MOVmr  = RM(0x89)
	MOV    = RM(0x8b)
	MOV64i = OI(0xb8)
	RET    = NP(0xc3)
	MOVi   = MI(0xc7<<16 | 0<<opcodeBase)
	JMPcb  = Db(0xeb)
	CALL   = M(0xff<<8 | 2<<opcodeBase)
)
