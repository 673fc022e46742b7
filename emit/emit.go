// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit appends fixed x86-64 instruction sequences to a code region.
//
// Every operation writes a predetermined byte sequence, advances the cursor by
// exactly its length, and returns the address where the sequence begins.  An
// operation either fits in the region as a whole or panics with
// buffer.ErrSizeLimit without writing anything; writing to a sealed region
// panics with region.ErrSealed.  The panics are carried by import.name/pan, so
// callers can recover them as errors.
//
// Stack filler and unfiller counts must match.  The emitter doesn't check
// it: an unbalanced function corrupts control flow when it returns.
package emit

import (
	"github.com/tsavola/perfjit/buffer"
	"github.com/tsavola/perfjit/errors"
	"github.com/tsavola/perfjit/internal/code"
	"github.com/tsavola/perfjit/internal/isa/x86"
	"github.com/tsavola/perfjit/internal/isa/x86/in"
	"github.com/tsavola/perfjit/internal/pan"
	"github.com/tsavola/perfjit/link"
	"github.com/tsavola/perfjit/region"
)

// FillerValue is pushed by StackFiller.
const FillerValue = 0xfafafa

// MaxLoopIterations is the largest count supported by BoundedLoop.  The
// counter is a signed 32-bit integer which must not overflow.
const MaxLoopIterations = 1<<31 - 1

const counterDisp = -4

// Instruction sequence sizes.
const (
	prologueSize    = 4 // push rbp; mov rsp, rbp
	epilogueSize    = 1 // pop rbp
	fillerSize      = 5 // push imm32
	unfillerSize    = 4 // add rsp, imm8
	absCallSize     = 12
	returnSize      = 1
	loopSizeFP      = 22
	loopSizeSP      = 25 // SIB byte in three instructions
	counterSizeFP   = 3
	counterSizeSP   = 4
	stackMarkSize   = 3
	stackDeltaSize  = 3
	maxRepeatedSize = 1 << 24
)

// Func is an emitted function.  Addr < End.
type Func struct {
	Name string
	Addr uintptr
	End  uintptr // Exclusive.
}

func (f Func) Size() uintptr { return f.End - f.Addr }

// Emitter is the only cursor of a region.  It must not be used concurrently.
type Emitter struct {
	text   code.Buf
	buf    *buffer.Static
	base   uintptr
	region *region.Region
	policy Policy

	funcs    []Func
	funcOpen bool
}

// New emitter which writes from the start of the region.
func New(r *region.Region, p Policy) *Emitter {
	buf := buffer.NewStatic(r.Text())

	return &Emitter{
		text:   code.Buf{Buffer: buf},
		buf:    buf,
		base:   r.Addr(),
		region: r,
		policy: p,
	}
}

func (e *Emitter) Policy() Policy { return e.policy }

// Addr of the cursor.
func (e *Emitter) Addr() uintptr { return e.base + uintptr(e.text.Addr) }

// Len of emitted code.
func (e *Emitter) Len() int { return int(e.text.Addr) }

// Text is the code emitted so far.  It can be modified by link resolution
// until the region is sealed.
func (e *Emitter) Text() []byte {
	e.check(0)
	return e.text.Bytes()
}

// Funcs which have been ended, in emission order.
func (e *Emitter) Funcs() []Func { return e.funcs }

// check that n more bytes can be written, and return the cursor address.
func (e *Emitter) check(n int) uintptr {
	if e.region.Sealed() {
		pan.Panic(region.ErrSealed)
	}
	if n > e.buf.Cap()-e.buf.Len() {
		pan.Panic(buffer.ErrSizeLimit)
	}
	return e.Addr()
}

func repeatedSize(count, size int) int {
	if count < 0 || count > maxRepeatedSize {
		pan.Panic(errors.Encodingf("repeat count out of range: %d", count))
	}
	return count * size
}

// BeginFunc starts a function at the cursor.
func (e *Emitter) BeginFunc(name string) uintptr {
	if e.funcOpen {
		panic("function is already open")
	}
	addr := e.check(0)
	e.funcs = append(e.funcs, Func{Name: name, Addr: addr})
	e.funcOpen = true
	return addr
}

// EndFunc ends the current function at the cursor.
func (e *Emitter) EndFunc() Func {
	if !e.funcOpen {
		panic("no open function")
	}
	f := &e.funcs[len(e.funcs)-1]
	f.End = e.Addr()
	if f.End == f.Addr {
		pan.Panic(errors.Encodingf("function %q is empty", f.Name))
	}
	e.funcOpen = false
	return *f
}

// Prologue saves the caller's frame pointer and establishes a new one.  It
// emits nothing if frame pointers are disabled.
func (e *Emitter) Prologue() uintptr {
	if !e.policy.FramePointers {
		return e.check(0)
	}
	addr := e.check(prologueSize)
	in.PUSHo.Reg(&e.text, in.RegBP)
	in.MOVmr.RegReg(&e.text, in.Size64, in.RegSP, in.RegBP)
	return addr
}

// Epilogue restores the caller's frame pointer.  It emits nothing if frame
// pointers are disabled.
func (e *Emitter) Epilogue() uintptr {
	if !e.policy.FramePointers {
		return e.check(0)
	}
	addr := e.check(epilogueSize)
	in.POPo.Reg(&e.text, in.RegBP)
	return addr
}

// StackFiller pushes count constant values.
func (e *Emitter) StackFiller(count int) uintptr {
	addr := e.check(repeatedSize(count, fillerSize))
	for i := 0; i < count; i++ {
		in.PUSHi.Imm(&e.text, FillerValue)
	}
	return addr
}

// StackUnfiller discards count values.  It must match the count of the
// corresponding StackFiller.
func (e *Emitter) StackUnfiller(count int) uintptr {
	addr := e.check(repeatedSize(count, unfillerSize))
	for i := 0; i < count; i++ {
		in.ADDi.RegImm(&e.text, in.Size64, in.RegSP, 8)
	}
	return addr
}

// AbsCall loads a zero placeholder address into rax and calls it.  The
// returned patch must be resolved before the region is sealed.
func (e *Emitter) AbsCall() (uintptr, link.Patch) {
	addr := e.check(absCallSize)
	in.MOV64i.RegImm64(&e.text, in.RegAX, 0)
	p := link.Patch{Offset: e.text.Addr - link.Width}
	in.CALL.Reg(&e.text, in.OneSize, in.RegAX)
	return addr, p
}

func (e *Emitter) Return() uintptr {
	addr := e.check(returnSize)
	in.RET.Simple(&e.text)
	return addr
}

// BoundedLoop emits a loop which increments a stack-local counter the given
// number of times:
//
//	    movl   $0, counter
//	    jmp    cond
//	body:
//	    addl   $1, counter
//	cond:
//	    cmpl   $iterations-1, counter
//	    jle    body
//
// The counter is at -4(%rbp), or at -4(%rsp) without frame pointers.
func (e *Emitter) BoundedLoop(iterations int) uintptr {
	if iterations < 0 || iterations > MaxLoopIterations {
		pan.Panic(errors.Encodingf("loop iteration count out of range: %d", iterations))
	}

	size := loopSizeFP
	if !e.policy.FramePointers {
		size = loopSizeSP
	}
	addr := e.check(size)
	base := e.policy.counterBase()

	in.MOVi.MemDispImm32(&e.text, in.Size32, base, counterDisp, 0)
	in.JMPcb.Stub8(&e.text)
	condJump := e.text.Addr

	body := e.text.Addr
	in.ADDi.MemDispImm8(&e.text, in.Size32, base, counterDisp, 1)
	x86.Linker{}.UpdateNearBranch(e.text.Bytes(), condJump)

	in.CMPi.MemDispImm32(&e.text, in.Size32, base, counterDisp, int32(iterations-1))
	in.JLEcb.Addr8(&e.text, body)
	return addr
}

// CounterResult loads the counter of the preceding BoundedLoop into eax.
func (e *Emitter) CounterResult() uintptr {
	size := counterSizeFP
	if !e.policy.FramePointers {
		size = counterSizeSP
	}
	addr := e.check(size)
	in.MOV.RegMemDisp(&e.text, in.Size32, in.RegAX, e.policy.counterBase(), counterDisp)
	return addr
}

// MarkStackPointer copies rsp to rax.
func (e *Emitter) MarkStackPointer() uintptr {
	addr := e.check(stackMarkSize)
	in.MOVmr.RegReg(&e.text, in.Size64, in.RegSP, in.RegAX)
	return addr
}

// StackPointerDelta subtracts rsp from rax.  The result is zero if the stack
// is balanced since the preceding MarkStackPointer.
func (e *Emitter) StackPointerDelta() uintptr {
	addr := e.check(stackDeltaSize)
	in.SUB.RegReg(&e.text, in.Size64, in.RegAX, in.RegSP)
	return addr
}
