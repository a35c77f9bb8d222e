// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package inputs

import (
	"context"
	"time"

	"github.com/ledgrid/ledctl/internal/eventbus"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

const encoderPollInterval = 2 * time.Millisecond

// EncoderAdapter polls a two-phase (CLK/DT) rotary encoder, publishing
// EncoderRotate events tagged with source. An optional SW pin is polled as
// a push-button, publishing ButtonPress.
type EncoderAdapter struct {
	source string
	clk    gpio.PinIn
	dt     gpio.PinIn
	sw     gpio.PinIn
	bus    *eventbus.Bus
	log    *zap.SugaredLogger
}

// NewEncoderAdapter builds an adapter for one encoder. sw may be nil if the
// encoder has no integrated push button.
func NewEncoderAdapter(source string, clk, dt, sw gpio.PinIn, bus *eventbus.Bus, log *zap.SugaredLogger) *EncoderAdapter {
	return &EncoderAdapter{source: source, clk: clk, dt: dt, sw: sw, bus: bus, log: log}
}

// Run polls until ctx is cancelled. I/O errors from In() are logged and
// retried with backoff rather than returned; this never exits early on a
// transient hardware glitch.
func (a *EncoderAdapter) Run(ctx context.Context) {
	bo := newBackoff()
	for {
		if ctx.Err() != nil {
			return
		}
		if err := a.clk.In(gpio.Up, gpio.None); err != nil {
			a.logErr("clk.In", err)
			if sleepOrDone(ctx, bo.next()) {
				return
			}
			continue
		}
		if err := a.dt.In(gpio.Up, gpio.None); err != nil {
			a.logErr("dt.In", err)
			if sleepOrDone(ctx, bo.next()) {
				return
			}
			continue
		}
		if a.sw != nil {
			if err := a.sw.In(gpio.Up, gpio.None); err != nil {
				a.logErr("sw.In", err)
			}
		}
		bo.reset()
		a.poll(ctx)
		return
	}
}

// poll runs the steady-state quadrature decode loop once pins are
// initialized, until ctx is cancelled. Pin reads report no errors, so the
// loop has no reconnect path of its own.
func (a *EncoderAdapter) poll(ctx context.Context) {
	lastClk := a.clk.Read()
	lastSW := gpio.High
	if a.sw != nil {
		lastSW = a.sw.Read()
	}
	for {
		if sleepOrDone(ctx, encoderPollInterval) {
			return
		}
		clk := a.clk.Read()
		if clk != lastClk {
			if clk == gpio.Low {
				delta := 1
				if a.dt.Read() == gpio.Low {
					delta = -1
				}
				a.publishRotate(delta)
			}
			lastClk = clk
		}
		if a.sw != nil {
			sw := a.sw.Read()
			if sw != lastSW && sw == gpio.Low {
				a.publishPress()
			}
			lastSW = sw
		}
	}
}

func (a *EncoderAdapter) publishRotate(delta int) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(eventbus.Event{Type: eventbus.EncoderRotate, Payload: struct {
		Source string
		Delta  int
	}{a.source, delta}})
}

func (a *EncoderAdapter) publishPress() {
	if a.bus == nil {
		return
	}
	a.bus.Publish(eventbus.Event{Type: eventbus.ButtonPress, Payload: a.source + "_sw"})
}

func (a *EncoderAdapter) logErr(op string, err error) {
	if a.log != nil {
		a.log.Warnw("encoder adapter I/O error, reconnecting", "source", a.source, "op", op, "err", err)
	}
}
