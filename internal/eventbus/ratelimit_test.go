// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eventbus

import (
	"testing"
	"time"
)

func TestRateLimitMiddleware_SuppressesWithinInterval(t *testing.T) {
	mw := RateLimitMiddleware(map[Type]time.Duration{EncoderRotate: time.Hour})
	if !mw(Event{Type: EncoderRotate}) {
		t.Fatal("expected first event to pass")
	}
	if mw(Event{Type: EncoderRotate}) {
		t.Fatal("expected second immediate event to be suppressed")
	}
}

func TestRateLimitMiddleware_UnlimitedTypePasses(t *testing.T) {
	mw := RateLimitMiddleware(map[Type]time.Duration{EncoderRotate: time.Hour})
	if !mw(Event{Type: ButtonPress}) {
		t.Fatal("expected unlimited type to always pass")
	}
	if !mw(Event{Type: ButtonPress}) {
		t.Fatal("expected unlimited type to always pass")
	}
}

func TestRateLimitMiddleware_AllowsAfterIntervalElapses(t *testing.T) {
	mw := RateLimitMiddleware(map[Type]time.Duration{EncoderRotate: time.Millisecond})
	if !mw(Event{Type: EncoderRotate}) {
		t.Fatal("expected first event to pass")
	}
	time.Sleep(5 * time.Millisecond)
	if !mw(Event{Type: EncoderRotate}) {
		t.Fatal("expected event after interval elapsed to pass")
	}
}
