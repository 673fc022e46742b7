// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aot

import (
	"context"
	"testing"
	"time"
)

func TestChains(t *testing.T) {
	for name, f := range map[string]func() int{
		"Chain":    Chain,
		"ChainOne": ChainOne,
		"ChainTwo": ChainTwo,
	} {
		if n := f(); n != Iterations {
			t.Errorf("%s: %d", name, n)
		}
	}
}

func TestSpinnersStop(t *testing.T) {
	for i, spin := range Spinners {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		spin(ctx)
		cancel()

		if ctx.Err() == nil {
			t.Errorf("spinner %d returned early", i)
		}
	}
}

func TestSpinCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if rounds := SpinOne(ctx); rounds != 0 {
		t.Error(rounds)
	}
}

func TestSpinnerRunsChain(t *testing.T) {
	for i, spin := range Spinners {
		before := sink.Load()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		rounds := spin(ctx)
		cancel()

		if rounds == 0 {
			t.Errorf("spinner %d: no rounds", i)
		}
		if delta := sink.Load() - before; delta != rounds*Iterations {
			t.Errorf("spinner %d: %d rounds, %d iterations", i, rounds, delta)
		}
	}
}
