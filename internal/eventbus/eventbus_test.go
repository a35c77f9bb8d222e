// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eventbus

import (
	"errors"
	"testing"
)

func TestPublish_DispatchesInPriorityOrder(t *testing.T) {
	b := New(0, nil)
	var order []int
	b.Subscribe(ZoneStateChanged, func(Event) error { order = append(order, 1); return nil }, 1, nil)
	b.Subscribe(ZoneStateChanged, func(Event) error { order = append(order, 3); return nil }, 3, nil)
	b.Subscribe(ZoneStateChanged, func(Event) error { order = append(order, 2); return nil }, 2, nil)

	b.Publish(Event{Type: ZoneStateChanged})

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestPublish_OnlyMatchingTypeDispatched(t *testing.T) {
	b := New(0, nil)
	called := false
	b.Subscribe(ButtonPress, func(Event) error { called = true; return nil }, 0, nil)
	b.Publish(Event{Type: EncoderRotate})
	if called {
		t.Fatal("expected handler for a different type to not run")
	}
}

func TestPublish_HandlerPanicIsolated(t *testing.T) {
	b := New(0, nil)
	secondRan := false
	b.Subscribe(ButtonPress, func(Event) error { panic("boom") }, 1, nil)
	b.Subscribe(ButtonPress, func(Event) error { secondRan = true; return nil }, 0, nil)
	b.Publish(Event{Type: ButtonPress}) // must not panic out of Publish
	if !secondRan {
		t.Fatal("expected second handler to still run after the first panicked")
	}
}

func TestPublish_HandlerErrorDoesNotStopOthers(t *testing.T) {
	b := New(0, nil)
	secondRan := false
	b.Subscribe(ButtonPress, func(Event) error { return errors.New("boom") }, 1, nil)
	b.Subscribe(ButtonPress, func(Event) error { secondRan = true; return nil }, 0, nil)
	b.Publish(Event{Type: ButtonPress})
	if !secondRan {
		t.Fatal("expected second handler to still run after the first errored")
	}
}

func TestPublish_FilterSuppressesHandler(t *testing.T) {
	b := New(0, nil)
	called := false
	filter := func(ev Event) bool { return ev.Payload == "match" }
	b.Subscribe(ButtonPress, func(Event) error { called = true; return nil }, 0, filter)

	b.Publish(Event{Type: ButtonPress, Payload: "other"})
	if called {
		t.Fatal("expected filtered-out event to not dispatch")
	}
	b.Publish(Event{Type: ButtonPress, Payload: "match"})
	if !called {
		t.Fatal("expected matching event to dispatch")
	}
}

func TestPublish_MiddlewareCanSuppress(t *testing.T) {
	b := New(0, nil)
	called := false
	b.Use(func(Event) bool { return false })
	b.Subscribe(ButtonPress, func(Event) error { called = true; return nil }, 0, nil)
	b.Publish(Event{Type: ButtonPress})
	if called {
		t.Fatal("expected middleware returning false to suppress all delivery")
	}
}

func TestRecent_BoundedRingBuffer(t *testing.T) {
	b := New(2, nil)
	b.Publish(Event{Type: ButtonPress, Payload: 1})
	b.Publish(Event{Type: ButtonPress, Payload: 2})
	b.Publish(Event{Type: ButtonPress, Payload: 3})

	recent := b.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected ring capped at 2, got %d", len(recent))
	}
	if recent[0].Payload != 2 || recent[1].Payload != 3 {
		t.Fatalf("expected oldest dropped, got %v", recent)
	}
}

func TestRecent_DisabledWhenRingSizeZero(t *testing.T) {
	b := New(0, nil)
	b.Publish(Event{Type: ButtonPress})
	if got := b.Recent(); len(got) != 0 {
		t.Fatalf("expected no history retained, got %v", got)
	}
}
