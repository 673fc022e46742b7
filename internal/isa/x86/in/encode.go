// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"encoding/binary"

	"github.com/tsavola/perfjit/internal/code"
)

func addrDisp(currentAddr, insnSize, targetAddr int32) int32 {
	siteAddr := currentAddr + insnSize
	return targetAddr - siteAddr
}

type output struct {
	buf    [16]byte
	offset uint8
}

func (o *output) len() int           { return int(o.offset) }
func (o *output) copy(target []byte) { copy(target, o.buf[:o.offset]) }

func (o *output) byte(b byte) {
	o.buf[o.offset] = b
	o.offset++
}

func (o *output) rexIf(wrxb rexWRXB) {
	o.buf[o.offset] = Rex | byte(wrxb)
	o.offset += bit(wrxb != 0)
}

func (o *output) mod(mod Mod, ro ModRO, rm ModRM) {
	o.buf[o.offset] = byte(mod) | byte(ro) | byte(rm)
	o.offset++
}

func (o *output) sib(s Scale, i Index, b Base) {
	o.buf[o.offset] = byte(s) | byte(i) | byte(b)
	o.offset++
}

// memDisp appends ModRM byte, optional SIB byte and displacement of a
// base+disp memory operand.
func (o *output) memDisp(ro ModRO, base Reg, disp int32) {
	var mod, dispSize = memDispModSize(base, disp)
	if base&7 == RegSP {
		o.mod(mod, ro, ModRMSIB)
		o.sib(Scale0, noIndex, baseStack)
	} else {
		o.mod(mod, ro, regRM(base))
	}
	o.int(disp, dispSize)
}

func (o *output) int8(val int8) {
	o.buf[o.offset] = uint8(val)
	o.offset++
}

func (o *output) int32(val int32) {
	binary.LittleEndian.PutUint32(o.buf[o.offset:], uint32(val))
	o.offset += 4
}

func (o *output) int64(val int64) {
	binary.LittleEndian.PutUint64(o.buf[o.offset:], uint64(val))
	o.offset += 8
}

func (o *output) int(val int32, size uint8) {
	// Little-endian byte order works for any size
	binary.LittleEndian.PutUint32(o.buf[o.offset:], uint32(val))
	o.offset += size
}

// NP

type NP byte

func (op NP) Simple(text *code.Buf) {
	text.PutByte(byte(op))
}

// O

type O byte

func (op O) Reg(text *code.Buf, r Reg) {
	var o output
	o.rexIf(regRexB(r))
	o.byte(byte(op) + byte(r)&7)
	o.copy(text.Extend(o.len()))
}

// M

type M uint16 // opcode byte and ModRO byte

func (op M) Reg(text *code.Buf, s Size, r Reg) {
	var o output
	o.rexIf(sizeRexW(s) | regRexB(r))
	o.byte(byte(op >> 8))
	o.mod(ModReg, ModRO(op), regRM(r))
	o.copy(text.Extend(o.len()))
}

// RM (MR)

type RM byte // opcode byte

func (op RM) RegReg(text *code.Buf, s Size, r, r2 Reg) {
	var o output
	o.rexIf(sizeRexW(s) | regRexR(r) | regRexB(r2))
	o.byte(byte(op))
	o.mod(ModReg, regRO(r), regRM(r2))
	o.copy(text.Extend(o.len()))
}

func (op RM) RegMemDisp(text *code.Buf, s Size, r, base Reg, disp int32) {
	var o output
	o.rexIf(sizeRexW(s) | regRexR(r) | regRexB(base))
	o.byte(byte(op))
	o.memDisp(regRO(r), base, disp)
	o.copy(text.Extend(o.len()))
}

// I

type Ipush byte // opcode of instruction variant with 8-bit immediate

func (op Ipush) Imm(text *code.Buf, val int32) {
	var valSize = immSize(val)
	var o output
	o.byte(byte(op) &^ (valSize >> 1)) // 0x6a => 0x68 if 32-bit
	o.int(val, valSize)
	o.copy(text.Extend(o.len()))
}

// OI

type OI byte

func (op OI) RegImm64(text *code.Buf, r Reg, val int64) {
	var o output
	o.rexIf(RexW | regRexB(r))
	o.byte(byte(op) + byte(r)&7)
	o.int64(val)
	o.copy(text.Extend(o.len()))
}

// MI instructions with varying operand and immediate sizes

type MI uint32 // opcode bytes for 32-bit value and 8-bit value; and common ModRO byte

func (ops MI) RegImm(text *code.Buf, s Size, r Reg, val int32) {
	var op, valSize = immOpcodeSize(uint16(ops>>8), val)
	var o output
	o.rexIf(sizeRexW(s) | regRexB(r))
	o.byte(op)
	o.mod(ModReg, ModRO(ops), regRM(r))
	o.int(val, valSize)
	o.copy(text.Extend(o.len()))
}

func (op MI) MemDispImm8(text *code.Buf, s Size, base Reg, disp int32, val int8) {
	var o output
	o.rexIf(sizeRexW(s) | regRexB(base))
	o.byte(byte(op >> 8))
	o.memDisp(ModRO(op), base, disp)
	o.int8(val)
	o.copy(text.Extend(o.len()))
}

func (op MI) MemDispImm32(text *code.Buf, s Size, base Reg, disp, val int32) {
	var o output
	o.rexIf(sizeRexW(s) | regRexB(base))
	o.byte(byte(op >> 16))
	o.memDisp(ModRO(op), base, disp)
	o.int32(val)
	o.copy(text.Extend(o.len()))
}

// D

type Db byte // opcode byte

func (op Db) Addr8(text *code.Buf, addr int32) {
	const insnSize = 2

	disp := addrDisp(text.Addr, insnSize, addr)
	if disp < -0x80 || disp >= 0x80 {
		panic(disp)
	}

	var o output
	o.byte(byte(op))
	o.int8(int8(disp))
	o.copy(text.Extend(o.len()))
}

func (op Db) Stub8(text *code.Buf) {
	const insnSize = 2

	var o output
	o.byte(byte(op))
	o.int8(-insnSize) // infinite loop as placeholder
	o.copy(text.Extend(o.len()))
}
