// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eventbus implements a synchronous publish/subscribe dispatcher:
// descending-priority handler order, per-handler failure isolation, a
// middleware pipeline that can suppress events, and a bounded ring buffer
// of recent events for the debugging/log endpoints.
//
// The priority-ordered handler list and the panic-isolated dispatch loop
// are grounded on the reference event dispatcher's registration/notify
// pattern, generalized from a flat listener list to priority buckets.
package eventbus

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Type names one kind of event in the catalog.
type Type string

const (
	EncoderRotate          Type = "encoder_rotate"
	ButtonPress             Type = "button_press"
	KeyboardKeypress        Type = "keyboard_keypress"
	ZoneStateChanged         Type = "zone_state_changed"
	ZoneRenderModeChanged    Type = "zone_render_mode_changed"
	ZoneAnimationChanged     Type = "zone_animation_changed"
	AnimationStarted         Type = "animation_started"
	AnimationStopped         Type = "animation_stopped"
	AnimationParamChanged    Type = "animation_parameter_changed"
	ZoneSnapshotUpdated      Type = "zone_snapshot_updated"
)

// Event is one published occurrence.
type Event struct {
	Type    Type
	Payload interface{}
}

// Handler reacts to one event. Returning an error is logged and isolated;
// it never stops other handlers from running.
type Handler func(Event) error

// Filter optionally suppresses delivery to a specific handler.
type Filter func(Event) bool

// Middleware wraps the whole publish pipeline; returning false suppresses
// delivery to every handler for this event.
type Middleware func(Event) bool

type subscription struct {
	handler  Handler
	priority int
	filter   Filter
}

// Bus is the process-wide event dispatcher. A single instance is created
// at startup and passed by reference to every publisher/subscriber.
type Bus struct {
	mu       sync.Mutex
	subs     map[Type][]subscription
	mw       []Middleware
	log      *zap.SugaredLogger
	ring     []Event
	ringSize int
}

// New builds a Bus with a ring buffer holding the last ringSize events (0
// disables history retention).
func New(ringSize int, log *zap.SugaredLogger) *Bus {
	return &Bus{subs: map[Type][]subscription{}, log: log, ringSize: ringSize}
}

// Use registers a middleware, appended to the end of the pipeline.
func (b *Bus) Use(mw Middleware) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mw = append(b.mw, mw)
}

// Subscribe registers handler for typ at priority (higher dispatched
// first). filter may be nil to always deliver.
func (b *Bus) Subscribe(typ Type, handler Handler, priority int, filter Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := append(b.subs[typ], subscription{handler: handler, priority: priority, filter: filter})
	sort.SliceStable(list, func(i, j int) bool { return list[i].priority > list[j].priority })
	b.subs[typ] = list
}

// Publish runs the middleware pipeline, then dispatches to every matching
// handler in descending priority order. A handler that returns an error or
// panics is logged and skipped; it never stops later handlers.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	mw := append([]Middleware(nil), b.mw...)
	subs := append([]subscription(nil), b.subs[ev.Type]...)
	if b.ringSize > 0 {
		b.ring = append(b.ring, ev)
		if len(b.ring) > b.ringSize {
			b.ring = b.ring[len(b.ring)-b.ringSize:]
		}
	}
	b.mu.Unlock()

	for _, m := range mw {
		if !m(ev) {
			return
		}
	}

	for _, s := range subs {
		if s.filter != nil && !s.filter(ev) {
			continue
		}
		b.dispatch(s, ev)
	}
}

func (b *Bus) dispatch(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Errorw("event handler panicked", "event", ev.Type, "panic", r)
		}
	}()
	if err := s.handler(ev); err != nil && b.log != nil {
		b.log.Warnw("event handler returned error", "event", ev.Type, "err", err)
	}
}

// Recent returns a copy of the last N events currently retained.
func (b *Bus) Recent() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.ring))
	copy(out, b.ring)
	return out
}

// LoggingMiddleware logs every event at debug level before delivery.
func LoggingMiddleware(log *zap.SugaredLogger) Middleware {
	return func(ev Event) bool {
		if log != nil {
			log.Debugw("event published", "type", ev.Type)
		}
		return true
	}
}
