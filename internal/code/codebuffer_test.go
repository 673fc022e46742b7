// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package code_test

import (
	"bytes"
	"testing"

	"github.com/tsavola/perfjit/buffer"
	"github.com/tsavola/perfjit/internal/code"
)

func TestBufAddr(t *testing.T) {
	text := code.Buf{Buffer: buffer.NewStatic(make([]byte, 32))}

	text.PutByte(0xc3)
	copy(text.Extend(2), []byte{0xff, 0xd0})
	text.PutUint64(0x0102030405060708)

	if text.Addr != 11 {
		t.Errorf("address is %d", text.Addr)
	}

	expect := []byte{0xc3, 0xff, 0xd0, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(text.Bytes(), expect) {
		t.Errorf("bytes: % x", text.Bytes())
	}
}
