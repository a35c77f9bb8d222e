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

const buttonPollInterval = 5 * time.Millisecond
const buttonDebounce = 30 * time.Millisecond

// ButtonAdapter polls a single momentary push-button pin, publishing
// ButtonPress on the falling (pressed) edge with simple time-based debounce.
type ButtonAdapter struct {
	id  string
	pin gpio.PinIn
	bus *eventbus.Bus
	log *zap.SugaredLogger
}

// NewButtonAdapter builds an adapter for one button.
func NewButtonAdapter(id string, pin gpio.PinIn, bus *eventbus.Bus, log *zap.SugaredLogger) *ButtonAdapter {
	return &ButtonAdapter{id: id, pin: pin, bus: bus, log: log}
}

// Run polls until ctx is cancelled, reconnecting with backoff on I/O error.
func (a *ButtonAdapter) Run(ctx context.Context) {
	bo := newBackoff()
	for {
		if ctx.Err() != nil {
			return
		}
		if err := a.pin.In(gpio.Up, gpio.None); err != nil {
			if a.log != nil {
				a.log.Warnw("button adapter I/O error, reconnecting", "button", a.id, "err", err)
			}
			if sleepOrDone(ctx, bo.next()) {
				return
			}
			continue
		}
		bo.reset()
		a.poll(ctx)
		return
	}
}

func (a *ButtonAdapter) poll(ctx context.Context) {
	last := a.pin.Read()
	var lastChange time.Time
	for {
		if sleepOrDone(ctx, buttonPollInterval) {
			return
		}
		now := time.Now()
		level := a.pin.Read()
		if level != last && now.Sub(lastChange) >= buttonDebounce {
			lastChange = now
			if level == gpio.Low {
				if a.bus != nil {
					a.bus.Publish(eventbus.Event{Type: eventbus.ButtonPress, Payload: a.id})
				}
			}
			last = level
		}
	}
}
