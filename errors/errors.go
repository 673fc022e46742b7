// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors contains the error types returned when a program can't be
// generated.  All of them are fatal at startup: nothing is retried.
package errors

import (
	"fmt"
)

// AllocationError means that the code region couldn't be mapped with the
// required permissions.
type AllocationError struct {
	Size  int
	Cause error
}

func (e *AllocationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("code region allocation of %d bytes failed", e.Size)
	}
	return fmt.Sprintf("code region allocation of %d bytes failed: %v", e.Size, e.Cause)
}

func (e *AllocationError) Unwrap() error { return e.Cause }

// ExportError means that the symbol map couldn't be written.
type ExportError struct {
	Path  string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("symbol map export to %s failed: %v", e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// EncodingError is an invariant violation which was detected before the code
// region was sealed, such as a call to an unknown function.
type EncodingError struct {
	text string
}

func Encoding(text string) error {
	return &EncodingError{text}
}

func Encodingf(format string, args ...interface{}) error {
	return &EncodingError{fmt.Sprintf(format, args...)}
}

func (e *EncodingError) Error() string { return e.text }
