// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package inputs implements the hardware input adapters: rotary encoder and
// button polling via periph.io/x/conn/v3/gpio, and a raw-terminal keyboard
// adapter via golang.org/x/term. Every adapter publishes onto the shared
// event bus and never panics the scheduler: I/O errors log and enter
// reconnect-with-backoff rather than propagating.
package inputs

import (
	"context"
	"time"
)

// backoff is the reconnect delay schedule an adapter walks through after
// consecutive I/O errors, resetting to the first step on success.
type backoff struct {
	steps []time.Duration
	i     int
}

func newBackoff() *backoff {
	return &backoff{steps: []time.Duration{100 * time.Millisecond, 250 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second, 2 * time.Second}}
}

func (b *backoff) next() time.Duration {
	d := b.steps[b.i]
	if b.i < len(b.steps)-1 {
		b.i++
	}
	return d
}

func (b *backoff) reset() { b.i = 0 }

// sleepOrDone waits d or returns early (true) if ctx is cancelled.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-t.C:
		return false
	}
}
