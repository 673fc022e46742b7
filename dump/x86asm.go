// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !gapstone || !cgo

package dump

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

func disasm(text []byte, textAddr uint) (insns []insn, err error) {
	for offset := 0; offset < len(text); {
		var inst x86asm.Inst

		inst, err = x86asm.Decode(text[offset:], 64)
		if err != nil {
			return
		}

		addr := textAddr + uint(offset)
		next := addr + uint(inst.Len)

		syntax := x86asm.GNUSyntax(inst, uint64(addr), nil)
		mnemonic, opStr, _ := strings.Cut(syntax, " ")

		x := insn{
			Address:  addr,
			Size:     inst.Len,
			Mnemonic: mnemonic,
			OpStr:    strings.TrimSpace(opStr),
		}

		if rel, ok := inst.Args[0].(x86asm.Rel); ok {
			x.Target = uint(int64(next) + int64(rel))
			x.IsBranch = true
		}

		insns = append(insns, x)
		offset += inst.Len
	}

	return
}
