// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package logging wires the process-wide zap logger and hands out named
// per-subsystem loggers, mirroring how the corpus's edge-control daemons
// (e.g. EdgxCloud-EdgeFlow) standardize on go.uber.org/zap rather than the
// standard library log package.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.Mutex
	base *zap.SugaredLogger
)

// Init builds the process-wide base logger. dev selects zap's
// human-readable development encoder; production uses JSON.
func Init(dev bool) (*zap.SugaredLogger, error) {
	mu.Lock()
	defer mu.Unlock()
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	base = l.Sugar()
	return base, nil
}

// Named returns a child logger tagged with subsystem name. If Init was never
// called, a no-op logger is returned so unit tests don't need to call Init.
func Named(name string) *zap.SugaredLogger {
	mu.Lock()
	b := base
	mu.Unlock()
	if b == nil {
		return zap.NewNop().Sugar()
	}
	return b.Named(name)
}

// Sync flushes any buffered log entries. Call during shutdown.
func Sync() {
	mu.Lock()
	b := base
	mu.Unlock()
	if b != nil {
		_ = b.Sync()
	}
}
