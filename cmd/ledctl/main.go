// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ledctl drives an RGB LED installation: it loads its declarative config,
// starts the frame manager, animation runtime, controllers, and input
// adapters, and serves the HTTP/WebSocket API until asked to stop.
//
// Following periph.io's cmd/led shape: flag.Parse(), a host-init chain,
// then a mainImpl() error split from main() so os.Exit only happens at the
// outermost layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ledgrid/ledctl/internal/animation"
	"github.com/ledgrid/ledctl/internal/config"
	"github.com/ledgrid/ledctl/internal/controllers"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/framemgr"
	"github.com/ledgrid/ledctl/internal/gpioreg"
	"github.com/ledgrid/ledctl/internal/httpapi"
	"github.com/ledgrid/ledctl/internal/inputs"
	"github.com/ledgrid/ledctl/internal/logging"
	"github.com/ledgrid/ledctl/internal/statestore"
	"github.com/ledgrid/ledctl/internal/strip"
	"github.com/ledgrid/ledctl/internal/transition"
	"github.com/ledgrid/ledctl/internal/zonemap"
	"github.com/ledgrid/ledctl/internal/zonestate"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	periphgpioreg "periph.io/x/conn/v3/gpio/gpioreg"
	periphhost "periph.io/x/host/v3"
)

const (
	defaultFPS     = 60
	eventRingSize  = 256
	httpListenAddr = ":8080"
)

// system bundles every long-lived component so shutdown can unwind them in
// reverse startup order.
type system struct {
	log       *zap.SugaredLogger
	gpioReg   *gpioreg.Registry
	strips    []*strip.Strip
	fm        *framemgr.Manager
	trans     *transition.Service
	runtime   *animation.Runtime
	store     *zonestate.Store
	static    *controllers.StaticController
	light     *controllers.LightingController
	api       *http.Server
	inputsCtx context.CancelFunc
}

func mainImpl() error {
	dev := flag.Bool("dev", false, "use human-readable development logging instead of JSON")
	flag.Parse()

	log, err := logging.Init(*dev)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()

	if _, err := periphhost.Init(); err != nil {
		log.Warnw("periph host init failed, hardware GPIO/DMA unavailable", "err", err)
	}

	sys, err := start(log)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Infow("shutdown signal received, stopping")
	sys.stop()
	return nil
}

// start wires every component in startup order: GPIO registry -> config
// load -> repository/state load -> zone & animation services -> frame
// manager (start loop) -> transition service -> animation runtime ->
// controllers -> input adapters -> API.
func start(log *zap.SugaredLogger) (*system, error) {
	reg := gpioreg.New()

	cfgDir := config.Dir()
	cfg, err := config.Load(cfgDir)
	if err != nil {
		return nil, err
	}

	resolver := cfg.Colors.BuildPresetTable()

	chains := map[string]*framemgr.Chain{}
	var strips []*strip.Strip
	var mappers []*zonemap.Mapper
	zoneConfigsByChain := cfg.BuildZoneConfigs()

	for _, ch := range cfg.Hardware.Chains {
		if !ch.Enabled {
			continue
		}
		opts, err := ch.ToStripOpts()
		if err != nil {
			return nil, err
		}
		pin := periphgpioreg.ByName(ch.GPIO)
		s, err := strip.New(opts, reg, pin, ch.DMAChannel, log.Named("strip."+ch.ID))
		if err != nil {
			return nil, err
		}
		strips = append(strips, s)

		zoneConfigs := zoneConfigsByChain[ch.ID]
		mapper, err := zonemap.NewMapper(zoneConfigs, ch.Count)
		if err != nil {
			return nil, err
		}
		mappers = append(mappers, mapper)
		chains[ch.ID] = &framemgr.Chain{Sink: s, Mapper: mapper}
	}
	multiMapper := zonemap.NewMultiMapper(mappers)

	statePath := filepath.Join(cfgDir, "state.json")
	repo := statestore.New(statePath)
	bus := eventbus.New(eventRingSize, log.Named("eventbus"))
	bus.Use(eventbus.LoggingMiddleware(log.Named("events")))
	bus.Use(eventbus.RateLimitMiddleware(map[eventbus.Type]time.Duration{
		eventbus.EncoderRotate: 10 * time.Millisecond,
	}))

	var allZoneConfigs []zonemap.ZoneConfig
	for _, zcs := range zoneConfigsByChain {
		allZoneConfigs = append(allZoneConfigs, zcs...)
	}
	store := zonestate.NewStore(allZoneConfigs, repo, bus, resolver, log.Named("zonestate"))

	fm := framemgr.New(defaultFPS, chains, store, log.Named("framemgr"))

	minFrame := time.Duration(0)
	for _, s := range strips {
		if s.MinFrameTime() > minFrame {
			minFrame = s.MinFrameTime()
		}
	}
	trans := transition.New(fm, minFrame, log.Named("transition"))
	runtime := animation.NewRuntime(fm, trans, log.Named("animation"))

	catalog, err := cfg.BuildCatalog(animation.Builtins())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	// The frame loop has its own context: stop() ends it with fm.Stop after
	// the fade to black, not together with the inputs.
	go fm.Run(context.Background())

	staticCtl := controllers.NewStaticController(ctx, store, fm, bus, resolver, log.Named("controllers.static"))
	animCtl := controllers.NewAnimationController(store, runtime, catalog, multiMapper, resolver, bus, log.Named("controllers.animation"))
	lightCtl := controllers.NewLightingController(store, trans, runtime, multiMapper, resolver, bus, log.Named("controllers.lighting"))

	startInputs(ctx, cfg, reg, bus, log)

	srv := httpapi.New(store, catalog, runtime, animCtl, lightCtl, bus, log.Named("httpapi"))
	httpSrv := &http.Server{Addr: httpListenAddr, Handler: srv.Handler()}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("http server stopped unexpectedly", "err", err)
		}
	}()

	return &system{
		log: log, gpioReg: reg, strips: strips, fm: fm, trans: trans, runtime: runtime,
		store: store, static: staticCtl, light: lightCtl, api: httpSrv, inputsCtx: cancel,
	}, nil
}

// startInputs builds and runs the encoder/button/keyboard adapters declared
// in hardware.yaml. Each runs on its own goroutine and stops when ctx is
// cancelled.
func startInputs(ctx context.Context, cfg *config.Config, reg *gpioreg.Registry, bus *eventbus.Bus, log *zap.SugaredLogger) {
	for _, e := range cfg.Hardware.Encoders {
		clk, dt := periphgpioreg.ByName(e.CLK), periphgpioreg.ByName(e.DT)
		if clk == nil || dt == nil {
			log.Warnw("encoder declares unknown gpio pin, skipping", "encoder", e.ID)
			continue
		}
		var sw gpio.PinIO
		if e.SW != "" {
			sw = periphgpioreg.ByName(e.SW)
		}
		registerPin(reg, clk, "encoder:"+e.ID+":clk")
		registerPin(reg, dt, "encoder:"+e.ID+":dt")
		if sw != nil {
			registerPin(reg, sw, "encoder:"+e.ID+":sw")
		}
		a := inputs.NewEncoderAdapter(e.ID, clk, dt, sw, bus, log.Named("inputs.encoder."+e.ID))
		go a.Run(ctx)
	}
	for _, b := range cfg.Hardware.Buttons {
		pin := periphgpioreg.ByName(b.GPIO)
		if pin == nil {
			log.Warnw("button declares unknown gpio pin, skipping", "button", b.ID)
			continue
		}
		registerPin(reg, pin, "button:"+b.ID)
		a := inputs.NewButtonAdapter(b.ID, pin, bus, log.Named("inputs.button."+b.ID))
		go a.Run(ctx)
	}
	kb := inputs.NewKeyboardAdapter(bus, log.Named("inputs.keyboard"))
	go kb.Run(ctx)
}

func registerPin(reg *gpioreg.Registry, pin gpio.PinIO, owner string) {
	if err := reg.Register(pin, owner, gpioreg.ModeIn); err != nil {
		// Already owned (e.g. shared CLK/DT lines across encoders); not fatal,
		// the offending adapter simply will not get exclusive ownership
		// tracking.
	}
}

// stop unwinds startup in reverse order: stop accepting inputs, cancel
// animations, flush debounced saves, transition to black, stop the frame
// manager, release GPIO.
func (s *system) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.inputsCtx()

	if err := s.api.Shutdown(ctx); err != nil {
		s.log.Warnw("http server shutdown error", "err", err)
	}

	for _, t := range s.runtime.Tasks() {
		for _, z := range t.Zones {
			if inst, ok := s.runtime.RunningOn(z); ok {
				s.runtime.Stop(inst)
			}
		}
	}

	if err := s.store.Flush(); err != nil {
		s.log.Warnw("final state flush failed", "err", err)
	}

	blackCtx, blackCancel := context.WithTimeout(context.Background(), 1*time.Second)
	if err := s.light.PowerOff(blackCtx); err != nil {
		s.log.Warnw("transition to black on shutdown failed", "err", err)
	}
	blackCancel()

	s.fm.Stop()
	if err := s.fm.HardwareClear(); err != nil {
		s.log.Warnw("hardware clear on shutdown failed", "err", err)
	}
	for _, st := range s.strips {
		st.Close()
	}
	if err := s.gpioReg.ReleaseAll(); err != nil {
		s.log.Warnw("gpio release on shutdown failed", "err", err)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ledctl: %s\n", err)
		os.Exit(1)
	}
}
