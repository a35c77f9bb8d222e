// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package strip implements the hardware strip driver: one instance owns a
// single DMA-driven pixel chain and exposes an ApplyFrame that does not
// wait for the DMA transfer.
//
// The Dev shape (immutable config fields, a mutable back buffer, String()/
// Halt()-equivalent Clear()) follows periph.io's own
// experimental/devices/nrzled.Dev and devices/apa102.Dev. The DMA transfer
// itself is delegated to github.com/rpi-ws281x/rpi-ws281x-go, whose
// MakeWS2811/Init/Render/Wait/Fini/Leds shape is mirrored by the
// supcik/web_ws281x_go emulator (ws2811.go) used to cross-check the call
// sequence below.
package strip

import (
	"fmt"
	"sync"
	"time"

	ws281x "github.com/rpi-ws281x/rpi-ws281x-go"
	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/errs"
	"github.com/ledgrid/ledctl/internal/gpioreg"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

// bitsPerPixel and resetMicros follow the minimum inter-frame spacing
// formula: transfer_time + reset_time, e.g. 24 bits/pixel * 1.25us + 50us.
const (
	bitsPerPixel = 24
	bitTime      = 1250 * time.Nanosecond
	resetTime    = 50 * time.Microsecond
)

// Opts configures a single DMA-driven chain.
type Opts struct {
	ID          string
	GPIO        string // logical pin name, registered with gpioreg
	PixelCount  int
	ColorOrder  ColorOrder
	FreqHz      int
	DMAChannel  int
}

// dmaDevice is the subset of rpi-ws281x-go's *WS2811 this package drives;
// named so a fake can stand in during tests without real hardware.
type dmaDevice interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

// Strip is a handle to one DMA-driven pixel chain. Calls serialize per
// instance via mu; the DMA transfer itself runs on a dedicated worker
// goroutine so ApplyFrame never waits on the transfer; it only waits out the
// minimum inter-frame spacing.
type Strip struct {
	id         string
	order      ColorOrder
	pixelCount int
	minFrame   time.Duration
	log        *zap.SugaredLogger

	mu      sync.Mutex
	dev     dmaDevice
	channel int

	work     chan []colorx.Rgb
	result   chan error // buffered 1; worker posts, ApplyFrame polls without blocking
	lastSend time.Time
}

// New constructs a Strip, registers its GPIO pin with reg, and initializes
// the underlying DMA device. channel is the rpi-ws281x-go channel index
// (0 or 1) for this chain's DMA/PWM pairing.
func New(opts Opts, reg *gpioreg.Registry, pin gpio.PinIO, channel int, log *zap.SugaredLogger) (*Strip, error) {
	if reg != nil && pin != nil {
		if err := reg.Register(pin, "strip:"+opts.ID, gpioreg.ModeOut); err != nil {
			return nil, errs.Config(fmt.Sprintf("strip %s: gpio registration", opts.ID), err)
		}
	}

	ws2811Opt := ws281x.DefaultOptions
	ws2811Opt.Frequency = opts.FreqHz
	ws2811Opt.Channels[channel].GpioPin = gpioNumber(opts.GPIO)
	ws2811Opt.Channels[channel].LedCount = opts.PixelCount
	ws2811Opt.Channels[channel].Brightness = 255

	dev, err := ws281x.MakeWS2811(&ws2811Opt)
	if err != nil {
		return nil, errs.Hardware(fmt.Sprintf("strip %s: create DMA device", opts.ID), err)
	}
	if err := dev.Init(); err != nil {
		return nil, errs.Hardware(fmt.Sprintf("strip %s: init DMA device", opts.ID), err)
	}

	minFrame := time.Duration(bitsPerPixel)*bitTime*time.Duration(opts.PixelCount) + resetTime

	s := &Strip{
		id:         opts.ID,
		order:      opts.ColorOrder,
		pixelCount: opts.PixelCount,
		minFrame:   minFrame,
		log:        log,
		dev:        dev,
		channel:    channel,
		work:       make(chan []colorx.Rgb, 1),
		result:     make(chan error, 1),
	}
	go s.worker()
	return s, nil
}

// ID returns the chain identifier from hardware.yaml.
func (s *Strip) ID() string { return s.id }

// PixelCount returns the number of physical pixels on this chain.
func (s *Strip) PixelCount() int { return s.pixelCount }

// MinFrameTime returns the minimum spacing between successive ApplyFrame
// calls this chain can sustain.
func (s *Strip) MinFrameTime() time.Duration { return s.minFrame }

// ApplyFrame hands the buffer to the worker goroutine and returns once it is
// accepted; it does not wait for the DMA transfer (Render+Wait) to finish.
// If the previous call was less than MinFrameTime ago, it first sleeps for
// the remainder of that spacing. Any error from the *previous* transfer is surfaced as this call's return
// value, one tick late, since that is the first opportunity after the
// worker finishes it. Calls serialize per instance.
//
// Returns an *errs.Error of KindHardware if the previous transfer failed, or
// if the worker is still busy and this frame is dropped.
func (s *Strip) ApplyFrame(pixels []colorx.Rgb) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prevErr error
	select {
	case prevErr = <-s.result:
	default:
	}

	if wait := s.minFrame - time.Since(s.lastSend); wait > 0 && !s.lastSend.IsZero() {
		time.Sleep(wait)
	}
	s.lastSend = time.Now()

	select {
	case s.work <- pixels:
	default:
		// Worker still busy with a previous frame; this one is dropped rather
		// than queued, keeping latency bounded.
		return errs.Hardware(fmt.Sprintf("strip %s: transfer busy", s.id), nil)
	}

	if prevErr != nil {
		if s.log != nil {
			s.log.Warnw("chain transfer refused", "chain", s.id, "err", prevErr)
		}
		return errs.Hardware(fmt.Sprintf("strip %s: apply frame", s.id), prevErr)
	}
	return nil
}

// Clear equals ApplyFrame(all zeros).
func (s *Strip) Clear() error {
	zero := make([]colorx.Rgb, s.pixelCount)
	return s.ApplyFrame(zero)
}

// worker runs on a dedicated goroutine and performs the actual blocking DMA
// transfer, so ApplyFrame's caller (the frame manager's scheduler thread)
// never blocks on hardware I/O.
func (s *Strip) worker() {
	leds := s.dev.Leds(s.channel)
	for pixels := range s.work {
		n := len(pixels)
		if n > len(leds) {
			n = len(leds)
		}
		for i := 0; i < n; i++ {
			b := s.order.remap(pixels[i])
			leds[i] = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		}
		for i := n; i < len(leds); i++ {
			leds[i] = 0
		}
		err := s.dev.Render()
		if err == nil {
			err = s.dev.Wait()
		}
		// Keep only the latest result: a result nobody polled yet is stale
		// the moment a newer transfer has completed.
		select {
		case <-s.result:
		default:
		}
		s.result <- err
	}
}

// Close releases the underlying DMA device.
func (s *Strip) Close() {
	s.dev.Fini()
}

// gpioNumber extracts the numeric BCM GPIO number from a logical pin name
// such as "GPIO18"; it is intentionally lenient since hardware.yaml pin
// names are validated at config-load time.
func gpioNumber(name string) int {
	n := 0
	started := false
	for _, r := range name {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			started = true
		} else if started {
			break
		}
	}
	return n
}
