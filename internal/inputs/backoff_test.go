// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package inputs

import (
	"context"
	"testing"
	"time"
)

func TestBackoff_EscalatesThenHoldsAtCeiling(t *testing.T) {
	b := newBackoff()
	var got []time.Duration
	for i := 0; i < len(b.steps)+2; i++ {
		got = append(got, b.next())
	}
	for i, want := range b.steps {
		if got[i] != want {
			t.Fatalf("step %d: got %v, want %v", i, got[i], want)
		}
	}
	ceiling := b.steps[len(b.steps)-1]
	if got[len(got)-1] != ceiling || got[len(got)-2] != ceiling {
		t.Fatalf("expected backoff to hold at the ceiling, got %v", got)
	}
}

func TestBackoff_ResetReturnsToFirstStep(t *testing.T) {
	b := newBackoff()
	b.next()
	b.next()
	b.reset()
	if got := b.next(); got != b.steps[0] {
		t.Fatalf("got %v, want first step %v after reset", got, b.steps[0])
	}
}

func TestSleepOrDone_ReturnsFalseOnTimerFire(t *testing.T) {
	if sleepOrDone(context.Background(), time.Millisecond) {
		t.Fatal("expected sleepOrDone to return false when the timer fires first")
	}
}

func TestSleepOrDone_ReturnsTrueOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if !sleepOrDone(ctx, time.Hour) {
		t.Fatal("expected sleepOrDone to return true when ctx is already cancelled")
	}
}
