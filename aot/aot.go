// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aot contains ahead-of-time compiled call chains which run alongside
// generated code, so that profiles mix symbolized and map-described frames.
//
// Every function is kept out of line so that each of them appears as its own
// stack frame.
package aot

import (
	"context"
	"sync/atomic"
)

// Iterations of the loop at the top of each finite chain.
const Iterations = 1000

var sink atomic.Uint64

//go:noinline
func top() int {
	n := 0
	for i := 0; i < Iterations; i++ {
		n++
	}
	sink.Add(uint64(n))
	return n
}

//go:noinline
func chain2() int { return top() }

//go:noinline
func chain1() int { return chain2() }

// Chain calls chain1, which calls chain2, which calls a function looping
// Iterations times.  The loop count is returned.
//
//go:noinline
func Chain() int { return chain1() }

//go:noinline
func topOne() int { return top() }

//go:noinline
func cOne() int { return topOne() }

//go:noinline
func bOne() int { return cOne() }

// ChainOne is the finite chain run by each round of SpinOne.
//
//go:noinline
func ChainOne() int { return bOne() }

//go:noinline
func topTwo() int { return top() }

//go:noinline
func cTwo() int { return topTwo() }

//go:noinline
func bTwo() int { return cTwo() }

// ChainTwo is the finite chain run by each round of SpinTwo.
//
//go:noinline
func ChainTwo() int { return bTwo() }

// spin at the top of a threaded chain until the context is done.  Each round
// calls the given finite chain.  The number of rounds is returned.
//
//go:noinline
func spin(ctx context.Context, chain func() int) (rounds uint64) {
	done := ctx.Done()

	for {
		select {
		case <-done:
			return

		default:
			chain()
			rounds++
		}
	}
}

//go:noinline
func spinOneTop(ctx context.Context) uint64 { return spin(ctx, ChainOne) }

//go:noinline
func spinOneC(ctx context.Context) uint64 { return spinOneTop(ctx) }

//go:noinline
func spinOneB(ctx context.Context) uint64 { return spinOneC(ctx) }

// SpinOne is a threaded chain which runs until the context is done.
//
//go:noinline
func SpinOne(ctx context.Context) uint64 { return spinOneB(ctx) }

//go:noinline
func spinTwoTop(ctx context.Context) uint64 { return spin(ctx, ChainTwo) }

//go:noinline
func spinTwoC(ctx context.Context) uint64 { return spinTwoTop(ctx) }

//go:noinline
func spinTwoB(ctx context.Context) uint64 { return spinTwoC(ctx) }

// SpinTwo is another threaded chain which runs until the context is done.
//
//go:noinline
func SpinTwo(ctx context.Context) uint64 { return spinTwoB(ctx) }

// Spinners are the threaded chains.
var Spinners = []func(context.Context) uint64{
	SpinOne,
	SpinTwo,
}
