// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

type Mod byte
type ModRO byte
type ModRM byte

const (
	ModMem       = Mod(0)
	ModMemDisp8  = Mod(64)
	ModMemDisp32 = Mod(128)
	ModReg       = Mod(192)
)

const (
	ModRMSIB    = ModRM(4)
	ModRMDisp32 = ModRM(5)
)

type Scale byte
type Index byte
type Base byte

const (
	Scale0 = Scale(0 << 6)
)

const (
	noIndex   = Index(4 << 3)
	baseStack = Base(RegSP)
)

func dispModSize(disp int32) (mod Mod, size uint8) {
	var (
		bit32 = bit(uint32(disp+128) > 255)
		bit8  = bit(disp != 0) &^ bit32

		size4 = bit32 << 2
		size1 = bit8

		mod32 = bit32 << 7
		mod8  = bit8 << 6
	)

	mod = Mod(mod32 | mod8)
	size = size4 | size1
	return
}

// memDispModSize is like dispModSize, but rbp and r13 can't be encoded
// without displacement.
func memDispModSize(base Reg, disp int32) (mod Mod, size uint8) {
	mod, size = dispModSize(disp)
	if mod == ModMem && base&7 == RegBP {
		mod, size = ModMemDisp8, 1
	}
	return
}

func regRO(r Reg) ModRO { return ModRO((r & 7) << 3) }
func regRM(r Reg) ModRM { return ModRM(r & 7) }
