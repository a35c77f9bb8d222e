// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package inputs

import (
	"bufio"
	"context"
	"os"

	"github.com/ledgrid/ledctl/internal/eventbus"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// KeyboardAdapter is the development/headless-fallback input surface:
// raw-mode stdin, one rune per KeyboardKeypress event. Modifier keys are not
// distinguishable from a raw terminal, so Modifiers is always empty; Ctrl
// combinations arrive as their corresponding control rune (e.g. Ctrl-C is
// 0x03) and are reported as such rather than decoded into names.
type KeyboardAdapter struct {
	bus *eventbus.Bus
	log *zap.SugaredLogger

	fd       int
	oldState *term.State
}

// NewKeyboardAdapter builds an adapter reading from stdin.
func NewKeyboardAdapter(bus *eventbus.Bus, log *zap.SugaredLogger) *KeyboardAdapter {
	return &KeyboardAdapter{bus: bus, log: log, fd: int(os.Stdin.Fd())}
}

// Run puts the terminal into raw mode and publishes one KeyboardKeypress per
// rune read until ctx is cancelled or stdin closes. Raw mode is restored on
// return. If stdin is not a terminal (e.g. running under a service
// supervisor), it logs and returns immediately rather than failing startup.
func (a *KeyboardAdapter) Run(ctx context.Context) {
	if !term.IsTerminal(a.fd) {
		if a.log != nil {
			a.log.Infow("stdin is not a terminal, keyboard adapter disabled")
		}
		return
	}
	old, err := term.MakeRaw(a.fd)
	if err != nil {
		if a.log != nil {
			a.log.Warnw("keyboard adapter: failed to enter raw mode", "err", err)
		}
		return
	}
	a.oldState = old
	defer term.Restore(a.fd, a.oldState)

	type readResult struct {
		r   rune
		err error
	}
	runes := make(chan readResult, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			r, _, err := reader.ReadRune()
			runes <- readResult{r, err}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case res := <-runes:
			if res.err != nil {
				if a.log != nil {
					a.log.Warnw("keyboard adapter: read error, stopping", "err", res.err)
				}
				return
			}
			a.publish(res.r)
		}
	}
}

func (a *KeyboardAdapter) publish(r rune) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(eventbus.Event{Type: eventbus.KeyboardKeypress, Payload: struct {
		Key       string
		Modifiers []string
	}{string(r), nil}})
}
