// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pan carries errors through emission code as panics.  Only errors
// raised with Panic are recovered by Error; anything else keeps panicking.
package pan

import (
	"import.name/pan"
)

var Panic = pan.Panic

// Error converts a recovered value to an error.  Nil is passed through.
func Error(x any) error {
	return pan.Error(x)
}
