// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package inputs

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ledgrid/ledctl/internal/eventbus"
	"periph.io/x/conn/v3/gpio"
)

// fakePin is a minimal gpio.PinIO double: Read() returns whatever level()
// currently reports, so a test goroutine can drive transitions.
type fakePin struct {
	name string

	mu      sync.Mutex
	lvl     gpio.Level
	inCalls int32
	inErr   error
}

func (p *fakePin) String() string  { return p.name }
func (p *fakePin) Halt() error     { return nil }
func (p *fakePin) Name() string    { return p.name }
func (p *fakePin) Number() int     { return 0 }
func (p *fakePin) Function() string { return "" }

func (p *fakePin) In(gpio.Pull, gpio.Edge) error {
	atomic.AddInt32(&p.inCalls, 1)
	return p.inErr
}

func (p *fakePin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lvl
}

func (p *fakePin) WaitForEdge(time.Duration) bool { return false }
func (p *fakePin) Pull() gpio.Pull                { return gpio.PullNoChange }
func (p *fakePin) Out(gpio.Level) error           { return nil }
func (p *fakePin) PWM(duty int) error             { return nil }

func (p *fakePin) setLevel(l gpio.Level) {
	p.mu.Lock()
	p.lvl = l
	p.mu.Unlock()
}

func waitForEvent(t *testing.T, ch <-chan eventbus.Event) eventbus.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return eventbus.Event{}
	}
}

func TestButtonAdapter_PublishesOnPressEdge(t *testing.T) {
	bus := eventbus.New(0, nil)
	received := make(chan eventbus.Event, 1)
	bus.Subscribe(eventbus.ButtonPress, func(ev eventbus.Event) error {
		received <- ev
		return nil
	}, 0, nil)

	pin := &fakePin{name: "GPIO17", lvl: gpio.High}
	a := NewButtonAdapter("doorbell", pin, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	time.Sleep(10 * time.Millisecond)
	pin.setLevel(gpio.Low)
	time.Sleep(buttonDebounce + 20*time.Millisecond)
	pin.setLevel(gpio.Low) // hold; no duplicate event expected from a steady level

	ev := waitForEvent(t, received)
	if ev.Payload.(string) != "doorbell" {
		t.Fatalf("unexpected payload: %+v", ev.Payload)
	}
}

func TestButtonAdapter_NoEventWithoutBus(t *testing.T) {
	pin := &fakePin{name: "GPIO17", lvl: gpio.High}
	a := NewButtonAdapter("doorbell", pin, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	time.Sleep(10 * time.Millisecond)
	pin.setLevel(gpio.Low)
	time.Sleep(buttonDebounce + 20*time.Millisecond)
	cancel()
	// No assertion beyond "does not panic with a nil bus".
}
