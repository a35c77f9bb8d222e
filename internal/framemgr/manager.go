// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framemgr implements the frame manager: a single-threaded
// cooperative scheduler at a fixed cadence that merges asynchronous frame
// producers onto shared hardware with strict per-chain timing.
//
// The priority-queue-over-shared-buffer design is grounded in the reference
// thread-safe LED controller's mutex+generation preemption pattern and in
// the layered PipelineManager render loop from the ws2812b "vibe light"
// corpus entry, both structured as "merge producers, composite, emit".
package framemgr

import (
	"context"
	"sync"
	"time"

	"github.com/ledgrid/ledctl/internal/colorx"
	"github.com/ledgrid/ledctl/internal/errs"
	"github.com/ledgrid/ledctl/internal/frame"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"go.uber.org/zap"
)

// ChainSink is the subset of internal/strip.Strip the manager needs,
// abstracted so tests can substitute a fake without real hardware.
type ChainSink interface {
	ID() string
	ApplyFrame(pixels []colorx.Rgb) error
	Clear() error
	MinFrameTime() time.Duration
	PixelCount() int
}

// ZoneStateProvider lets the compositor re-merge static zones without
// framemgr depending on the zonestate package directly (a small
// consumer-defined interface in place of an import cycle).
type ZoneStateProvider interface {
	// StaticColor returns the current rendered color for zone if it is in
	// STATIC mode, and true; otherwise false.
	StaticColor(id zonemap.ZoneID) (colorx.Rgb, bool)
}

// Chain bundles one hardware sink with the zone mapper that addresses it.
type Chain struct {
	Sink   ChainSink
	Mapper *zonemap.Mapper
}

// Metrics are the rendering counters and gauges tracked by the manager.
type Metrics struct {
	mu             sync.Mutex
	FramesRendered uint64
	DroppedFrames  uint64
	DMASkipped     uint64
	tickTimes      []time.Time
}

func (m *Metrics) recordTick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickTimes = append(m.tickTimes, now)
	cut := now.Add(-1 * time.Second)
	i := 0
	for i < len(m.tickTimes) && m.tickTimes[i].Before(cut) {
		i++
	}
	m.tickTimes = m.tickTimes[i:]
}

// ActualFPS returns the rolling-window observed frame rate.
func (m *Metrics) ActualFPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(len(m.tickTimes))
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{FramesRendered: m.FramesRendered, DroppedFrames: m.DroppedFrames, DMASkipped: m.DMASkipped}
}

// Manager is the single-threaded frame manager.
type Manager struct {
	fps    int
	chains map[string]*Chain
	log    *zap.SugaredLogger
	states ZoneStateProvider

	mainQ    *priorityQueues
	previewQ *priorityQueues
	submitCh chan submission

	mu        sync.Mutex
	paused    bool
	stepCh    chan struct{}
	lastMain  map[string][]colorx.Rgb // chainID -> last composited pixels (hold-last)
	lastPixel map[string][]colorx.Rgb // chainID -> last buffer actually sent to hardware, for dma_skipped dedup

	metrics Metrics
	preview previewState

	cancel context.CancelFunc
	done   chan struct{}
}

type submission struct {
	f frame.Frame
}

// New builds a Manager. fps defaults to 60 when <= 0.
func New(fps int, chains map[string]*Chain, states ZoneStateProvider, log *zap.SugaredLogger) *Manager {
	if fps <= 0 {
		fps = 60
	}
	m := &Manager{
		fps:       fps,
		chains:    chains,
		log:       log,
		states:    states,
		mainQ:     newPriorityQueues(),
		previewQ:  newPriorityQueues(),
		submitCh:  make(chan submission, 256),
		stepCh:    make(chan struct{}, 1),
		lastMain:  map[string][]colorx.Rgb{},
		lastPixel: map[string][]colorx.Rgb{},
		done:      make(chan struct{}),
	}
	for id, c := range chains {
		m.lastMain[id] = make([]colorx.Rgb, c.Sink.PixelCount())
	}
	return m
}

// Submit enqueues a frame for rendering on the next applicable tick. It
// never blocks the caller beyond the submission channel's buffer.
func (m *Manager) Submit(f frame.Frame) {
	select {
	case m.submitCh <- submission{f: f}:
	default:
		m.metrics.mu.Lock()
		m.metrics.DroppedFrames++
		m.metrics.mu.Unlock()
	}
}

// Pause stops rendering new ticks; submissions still enqueue.
func (m *Manager) Pause() {
	m.mu.Lock()
	m.paused = true
	m.mu.Unlock()
}

// Resume resumes normal ticking.
func (m *Manager) Resume() {
	m.mu.Lock()
	m.paused = false
	m.mu.Unlock()
}

// Step requests exactly one selection+composite+emit cycle while paused.
func (m *Manager) Step() {
	select {
	case m.stepCh <- struct{}{}:
	default:
	}
}

// Metrics returns a snapshot of the manager's counters.
func (m *Manager) Metrics() Metrics {
	return m.metrics.Snapshot()
}

// Run starts the tick loop; it blocks until ctx is cancelled. Callers
// typically run it in its own goroutine from cmd/ledctl.
func (m *Manager) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	defer close(m.done)

	period := time.Second / time.Duration(m.fps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.drainSubmissions()
			m.mu.Lock()
			paused := m.paused
			m.mu.Unlock()
			if paused {
				select {
				case <-m.stepCh:
					m.tick()
				default:
				}
				continue
			}
			m.tick()
		}
	}
}

// Stop cancels the tick loop and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	<-m.done
}

// drainSubmissions empties the submission channel into the priority queues.
func (m *Manager) drainSubmissions() {
	for {
		select {
		case s := <-m.submitCh:
			if s.f.Domain() == frame.DomainPreview {
				m.previewQ.push(s.f)
			} else {
				m.mainQ.push(s.f)
			}
		default:
			return
		}
	}
}

// tick evicts expired frames, composites the preview domain independently
// of the main domain, selects the highest-priority main frame, and emits
// to each chain via a single ApplyFrame.
func (m *Manager) tick() {
	now := time.Now()
	m.mainQ.evictExpired(now)
	m.previewQ.evictExpired(now)
	m.tickPreview(now)

	selected, ok := m.mainQ.selectHighest(now)

	for id, chain := range m.chains {
		pixels := m.composite(id, chain, selected, ok, now)
		if samePixels(pixels, m.lastPixel[id]) {
			m.metrics.mu.Lock()
			m.metrics.DMASkipped++
			m.metrics.mu.Unlock()
			continue
		}
		if err := chain.Sink.ApplyFrame(pixels); err != nil {
			if m.log != nil {
				m.log.Warnw("chain apply_frame failed, dropping tick", "chain", id, "err", err)
			}
			continue
		}
		m.lastMain[id] = pixels
		cp := make([]colorx.Rgb, len(pixels))
		copy(cp, pixels)
		m.lastPixel[id] = cp
		m.metrics.mu.Lock()
		m.metrics.FramesRendered++
		m.metrics.mu.Unlock()
	}
	m.metrics.recordTick(now)
}

// composite builds the per-chain RGB vector for this tick.
func (m *Manager) composite(chainID string, chain *Chain, selected frame.Frame, haveSelected bool, now time.Time) []colorx.Rgb {
	out := make([]colorx.Rgb, chain.Sink.PixelCount())
	copy(out, m.lastMain[chainID]) // (a) seed with last rendered state

	if !haveSelected {
		return out
	}

	switch {
	case selected.Full != nil:
		for i := range out {
			out[i] = selected.Full.Color
		}
	case selected.Zone != nil:
		for zid, rgb := range selected.Zone.ZoneColors {
			for _, idx := range chain.Mapper.Indices(zid) {
				if idx >= 0 && idx < len(out) {
					out[idx] = rgb
				}
			}
		}
	case selected.Pixel != nil:
		if selected.Pixel.ClearOtherZones {
			present := make(map[zonemap.ZoneID]bool, len(selected.Pixel.ZonePixels))
			for zid := range selected.Pixel.ZonePixels {
				present[zid] = true
			}
			for _, zid := range chain.Mapper.AllZoneIDs() {
				if present[zid] {
					continue
				}
				for _, idx := range chain.Mapper.Indices(zid) {
					if idx >= 0 && idx < len(out) {
						out[idx] = colorx.Rgb{}
					}
				}
			}
		}
		for zid, spans := range selected.Pixel.ZonePixels {
			indices := chain.Mapper.Indices(zid)
			for i, rgb := range spans {
				if i >= len(indices) {
					break
				}
				idx := indices[i]
				if idx >= 0 && idx < len(out) {
					out[idx] = rgb
				}
			}
		}
	}

	// Static zones under ANIMATION frames (or any selected frame) are merged
	// in from live ZoneState so animating a subset never blanks the rest:
	// static zones are re-merged even when clear_other_zones blanked them
	// above.
	if m.states != nil {
		for _, zid := range chain.Mapper.AllZoneIDs() {
			if rgb, ok := m.states.StaticColor(zid); ok {
				for _, idx := range chain.Mapper.Indices(zid) {
					if idx >= 0 && idx < len(out) {
						out[idx] = rgb
					}
				}
			}
		}
	}

	return out
}

func samePixels(a, b []colorx.Rgb) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HardwareClear drives every chain to black; used during shutdown and as a
// last-resort after a forced task cancel.
func (m *Manager) HardwareClear() error {
	var firstErr error
	for _, c := range m.chains {
		if err := c.Sink.Clear(); err != nil && firstErr == nil {
			firstErr = errs.Hardware("clear on shutdown", err)
		}
	}
	return firstErr
}
