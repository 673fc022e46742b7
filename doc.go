// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perfjit generates small x86-64 programs at run time, for exercising
// profilers and stack unwinders against code which has no debug information.
//
// Build emits the functions of a layout into an executable memory region,
// writes a perf-style symbol map describing them, and seals the region.  The
// runner subpackage executes the result.
//
// Errors
//
// Typed errors are accessible via the errors subpackage.  AllocationError
// means that the code region couldn't be mapped, ExportError that the symbol
// map couldn't be written, and EncodingError that the layout or the generated
// code is inconsistent.  The buffer.ErrSizeLimit error means that the
// generated code doesn't fit in the region.  None of them are retryable.
//
// Frame pointers
//
// Generated functions maintain the frame pointer chain by default.  Building
// with the perfjit_nofp tag changes the default; Config.Policy overrides it.
package perfjit
