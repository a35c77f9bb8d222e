// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpioreg

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// fakePin is a minimal gpio.PinIO double for exercising the registry
// without any real hardware dependency.
type fakePin struct {
	name string
	out  []gpio.Level
}

func (p *fakePin) String() string                         { return p.name }
func (p *fakePin) Halt() error                             { return nil }
func (p *fakePin) Name() string                            { return p.name }
func (p *fakePin) Number() int                             { return 0 }
func (p *fakePin) Function() string                        { return "" }
func (p *fakePin) In(gpio.Pull, gpio.Edge) error            { return nil }
func (p *fakePin) Read() gpio.Level                         { return gpio.Low }
func (p *fakePin) WaitForEdge(time.Duration) bool           { return false }
func (p *fakePin) Pull() gpio.Pull                          { return gpio.PullNoChange }
func (p *fakePin) Out(l gpio.Level) error                   { p.out = append(p.out, l); return nil }
func (p *fakePin) PWM(duty int) error                       { return nil }

func TestRegisterAndOwner(t *testing.T) {
	r := New()
	pin := &fakePin{name: "GPIO17"}
	if err := r.Register(pin, "encoder:a:clk", ModeIn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	owner, mode, ok := r.Owner("GPIO17")
	if !ok || owner != "encoder:a:clk" || mode != ModeIn {
		t.Fatalf("Owner() = %q, %v, %v", owner, mode, ok)
	}
	if r.Registered() != 1 {
		t.Fatalf("Registered() = %d", r.Registered())
	}
}

func TestRegister_DuplicateFails(t *testing.T) {
	r := New()
	pin := &fakePin{name: "GPIO17"}
	if err := r.Register(pin, "first", ModeIn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(pin, "second", ModeOut); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	owner, _, _ := r.Owner("GPIO17")
	if owner != "first" {
		t.Fatalf("expected original owner to remain, got %q", owner)
	}
}

func TestReleaseAll_ReverseOrderAndDrivesLow(t *testing.T) {
	r := New()
	a := &fakePin{name: "A"}
	b := &fakePin{name: "B"}
	if err := r.Register(a, "a", ModeOut); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := r.Register(b, "b", ModeOut); err != nil {
		t.Fatalf("register b: %v", err)
	}
	if err := r.ReleaseAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.out) != 1 || a.out[0] != gpio.Low {
		t.Fatalf("expected pin a driven low once, got %v", a.out)
	}
	if len(b.out) != 1 || b.out[0] != gpio.Low {
		t.Fatalf("expected pin b driven low once, got %v", b.out)
	}
	if r.Registered() != 0 {
		t.Fatalf("expected registry empty after release, got %d", r.Registered())
	}
	if _, _, ok := r.Owner("A"); ok {
		t.Fatal("expected pin A to be unregistered after ReleaseAll")
	}
}

func TestModeString(t *testing.T) {
	cases := map[Mode]string{ModeOut: "out", ModeIn: "in", ModePWM: "pwm", Mode(99): "unknown"}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", m, got, want)
		}
	}
}
