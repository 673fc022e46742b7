// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"testing"
)

func TestSizeRexW(t *testing.T) {
	if bit := sizeRexW(Size32); bit != 0 {
		t.Errorf("sizeRexW(Size32) = 0x%x", bit)
	}
	if bit := sizeRexW(Size64); bit != RexW {
		t.Errorf("sizeRexW(Size64) = 0x%x", bit)
	}
}

func TestRegRex(t *testing.T) {
	for r := Reg(0); r <= Reg(7); r++ {
		if bit := regRexR(r) | regRexX(r) | regRexB(r); bit != 0 {
			t.Errorf("rex bits of %s = 0x%x", r, bit)
		}
	}
	for r := Reg(8); r <= Reg(15); r++ {
		if bit := regRexR(r); bit != RexR {
			t.Errorf("regRexR(%s) = 0x%x", r, bit)
		}
		if bit := regRexX(r); bit != RexX {
			t.Errorf("regRexX(%s) = 0x%x", r, bit)
		}
		if bit := regRexB(r); bit != RexB {
			t.Errorf("regRexB(%s) = 0x%x", r, bit)
		}
	}
}
