// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump prints disassembly listings of generated code.
//
// The default disassembler is golang.org/x/arch.  Building with the gapstone
// tag (and cgo) uses Capstone instead.
package dump

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tsavola/perfjit/emit"
)

type insn struct {
	Address  uint // Absolute.
	Size     int
	Mnemonic string
	OpStr    string

	Target   uint // Branch destination, if IsBranch.
	IsBranch bool
}

var immediate = regexp.MustCompile(`\$0x[0-9a-f]+`)

// Text writes an AT&T syntax listing of text, which is located at textAddr.
// Functions are labeled by name, branch targets by sequence number, and
// absolute addresses of functions are replaced by their names.
func Text(w io.Writer, text []byte, textAddr uintptr, funcs []emit.Func) (err error) {
	insns, err := disasm(text, uint(textAddr))
	if err != nil {
		return
	}
	if len(insns) == 0 {
		return
	}

	targets := make(map[uint]string, len(funcs))
	for _, f := range funcs {
		targets[uint(f.Addr)] = f.Name
	}

	rewriteText(insns, targets)

	lastAddr := insns[len(insns)-1].Address
	addrWidth := (len(fmt.Sprintf("%x", lastAddr)) + 7) &^ 7
	addrFmt := fmt.Sprintf("%%0%dx", addrWidth)

	for _, insn := range insns {
		name, found := targets[insn.Address]
		if found {
			if strings.HasPrefix(name, ".") {
				fmt.Fprintf(w, addrFmt+" %s:", insn.Address, strings.TrimSpace(strings.Split(name, ";")[0]))
			} else {
				fmt.Fprintf(w, "\n%s:\n"+addrFmt, name, insn.Address)
			}
		} else {
			fmt.Fprintf(w, addrFmt, insn.Address)
		}

		fmt.Fprint(w, "\t", strings.TrimSpace(fmt.Sprintf("%s\t%s", insn.Mnemonic, insn.OpStr)), "\n")
	}

	_, err = fmt.Fprintln(w)
	return
}

func rewriteText(insns []insn, targets map[uint]string) {
	funcNames := make(map[uint]string, len(targets))
	for addr, name := range targets {
		funcNames[addr] = name
	}

	sequence := 0

	for i := range insns {
		insn := &insns[i]

		if insn.IsBranch {
			name, found := targets[insn.Target]
			if !found {
				name = fmt.Sprintf(".%x", sequence%0x10000)
				sequence++

				if insn.Target < insn.Address {
					name += "\t\t\t; back"
				}

				targets[insn.Target] = name
			}

			insn.OpStr = name
			continue
		}

		insn.OpStr = immediate.ReplaceAllStringFunc(insn.OpStr, func(s string) string {
			addr, err := strconv.ParseUint(s[1:], 0, 64)
			if err == nil {
				if name, found := funcNames[uint(addr)]; found {
					return "$" + name
				}
			}
			return s
		})
	}
}
