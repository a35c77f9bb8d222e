// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package errs defines the error taxonomy shared by every ledctl subsystem.
//
// Each kind maps to a fixed disposition: ConfigError is fatal at startup,
// ValidationError/NotFoundError/ConflictError map to HTTP 400/404/409,
// HardwareError/PersistenceError degrade locally and retry, CancelledSignal
// is an expected cooperative stop rather than a failure.
package errs

import (
	"errors"
	"fmt"
)

// Kind enumerates the abstract error kinds of the failure taxonomy.
type Kind int

const (
	// KindInternal is an unexpected condition; logged with context, never
	// crashes the scheduler.
	KindInternal Kind = iota
	KindConfig
	KindPersistence
	KindHardware
	KindValidation
	KindNotFound
	KindConflict
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindPersistence:
		return "PersistenceError"
	case KindHardware:
		return "HardwareError"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindCancelled:
		return "CancelledSignal"
	default:
		return "InternalError"
	}
}

// Error is a typed, wrapped error carrying one of the Kind values above.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Message: msg, Cause: cause}
}

// Config wraps a fatal configuration-load error.
func Config(msg string, cause error) error { return newErr(KindConfig, msg, cause) }

// Persistence wraps a state.json read/write failure.
func Persistence(msg string, cause error) error { return newErr(KindPersistence, msg, cause) }

// Hardware wraps a chain transfer refusal; callers treat it as a dropped
// frame and retry next tick.
func Hardware(msg string, cause error) error { return newErr(KindHardware, msg, cause) }

// Validation wraps an out-of-range or malformed input from the API or a
// controller.
func Validation(msg string) error { return newErr(KindValidation, msg, nil) }

// NotFound wraps an unknown zone/animation id lookup.
func NotFound(msg string) error { return newErr(KindNotFound, msg, nil) }

// Conflict wraps an operation invalid in the current state.
func Conflict(msg string) error { return newErr(KindConflict, msg, nil) }

// Cancelled wraps an expected cooperative-cancellation signal. It is never
// logged as a failure.
func Cancelled(msg string) error { return newErr(KindCancelled, msg, nil) }

// Internal wraps an unexpected condition.
func Internal(msg string, cause error) error { return newErr(KindInternal, msg, cause) }

// KindOf extracts the Kind from err, defaulting to KindInternal when err does
// not wrap an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsCancelled reports whether err represents a cooperative cancellation
// signal rather than a true failure.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}
