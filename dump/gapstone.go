// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build gapstone && cgo

package dump

import (
	"strconv"
	"strings"

	"github.com/bnagy/gapstone"
)

func disasm(text []byte, textAddr uint) (insns []insn, err error) {
	engine, err := gapstone.New(gapstone.CS_ARCH_X86, gapstone.CS_MODE_64)
	if err != nil {
		return
	}
	defer engine.Close()

	if err = engine.SetOption(gapstone.CS_OPT_SYNTAX, gapstone.CS_OPT_SYNTAX_ATT); err != nil {
		return
	}

	list, err := engine.Disasm(text, uint64(textAddr), 0)
	if err != nil {
		return
	}

	for _, x := range list {
		i := insn{
			Address:  x.Address,
			Size:     int(x.Size),
			Mnemonic: x.Mnemonic,
			OpStr:    x.OpStr,
		}

		if strings.HasPrefix(x.Mnemonic, "j") && strings.HasPrefix(x.OpStr, "0x") {
			if addr, e := strconv.ParseUint(x.OpStr, 0, 64); e == nil {
				i.Target = uint(addr)
				i.IsBranch = true
			}
		}

		insns = append(insns, i)
	}

	return
}
