//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"errors"
	"math/rand"
	"net/url"
	"time"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
)

// RetryHandler is used by the request handling system when a retryable error
// is returned. It controls the number of retries as well as the frequency of
// retries using a delaying algorithm.
//
// A default RetryHandler is always configured on a Client instance and can
// be overridden using Config.RetryHandler.
//
// Applications should not rely on a RetryHandler for regulating provisioned
// throughput. It is best to rate-limit the application based on a table's
// capacity and access patterns to avoid throttling errors in the first
// place.
//
// Implementations of this interface must be immutable so they can be shared.
type RetryHandler interface {
	// MaxNumRetries returns the maximum number of retries this handler
	// allows before the error is reported to the application.
	MaxNumRetries() uint

	// ShouldRetry indicates whether the request should continue to retry
	// upon receiving the specified error and having attempted the specified
	// number of retries.
	ShouldRetry(req Request, numRetries uint, err error) bool

	// Delay is called when a retryable error is reported and ShouldRetry
	// has decided the request will be retried. It provides a delay between
	// retries and should not return until the desired delay period has
	// passed.
	//
	// Implementations should not busy-wait in a tight loop.
	Delay(req Request, numRetries uint, err error)
}

const securityErrorRetryInterval = 100 * time.Millisecond

// DefaultRetryHandler is the default implementation of the RetryHandler
// interface.
//
// Most retryable errors are delayed with an exponential backoff of
//
//	baseDelay * 2^(numRetries-1) + jitter
//
// with a base delay of 1 second, unless a fixed retry interval is
// configured. SecurityInfoUnavailable errors are retried on a constant
// 100ms cadence for the first 10 attempts, then fall back to backoff.
// Throttled control operations (OperationLimitExceeded) are retried with a
// much larger base delay, typically 30 seconds, since the underlying limit
// is per-minute.
type DefaultRetryHandler struct {
	maxNumRetries      uint
	retryInterval      time.Duration
	controlOpBaseDelay time.Duration
}

// NewDefaultRetryHandler creates a DefaultRetryHandler with the specified
// maximum number of retries and retry interval.
//
// A zero retry interval selects exponential backoff. A non-zero interval
// must be greater than or equal to 1 millisecond. Throttled control
// operations are retried with the default 30 second base delay; use
// NewDefaultRetryHandlerWithControlOpDelay to change that.
func NewDefaultRetryHandler(maxNumRetries uint, retryInterval time.Duration) (*DefaultRetryHandler, error) {
	return NewDefaultRetryHandlerWithControlOpDelay(maxNumRetries, retryInterval, defaultControlOpBaseDelay)
}

// NewDefaultRetryHandlerWithControlOpDelay creates a DefaultRetryHandler
// that retries throttled control operations with an exponential backoff
// starting from controlOpBaseDelay. A controlOpBaseDelay of zero disables
// retries of throttled control operations.
func NewDefaultRetryHandlerWithControlOpDelay(maxNumRetries uint, retryInterval,
	controlOpBaseDelay time.Duration) (*DefaultRetryHandler, error) {

	if retryInterval != 0 && retryInterval < time.Millisecond {
		return nil, errors.New("retry interval must be greater than or equal to 1 millisecond")
	}
	if controlOpBaseDelay < 0 {
		controlOpBaseDelay = 0
	}

	return &DefaultRetryHandler{
		maxNumRetries:      maxNumRetries,
		retryInterval:      retryInterval,
		controlOpBaseDelay: controlOpBaseDelay,
	}, nil
}

// MaxNumRetries returns the maximum number of retries this handler allows
// before the error is reported to the application.
func (r DefaultRetryHandler) MaxNumRetries() uint {
	return r.maxNumRetries
}

// ShouldRetry reports whether the request should continue to retry upon
// receiving the specified error and having attempted the specified number of
// retries.
//
// OperationLimitExceeded is retried only for control operations such as
// TableRequest, and only when a control operation base delay is configured,
// since the underlying limit is enforced per-minute and short retries cannot
// succeed. Data requests that carry it fail immediately.
//
// SecurityInfoUnavailable is always retried until the request timeout is
// exceeded, regardless of the maximum retries configured for this handler.
// Temporary network errors on retryable requests are likewise bounded by
// the request timeout only.
func (r DefaultRetryHandler) ShouldRetry(req Request, numRetries uint, err error) bool {
	if err, ok := err.(*nimbuserr.Error); ok {
		if err.Code == nimbuserr.OperationLimitExceeded {
			if r.controlOpBaseDelay <= 0 || !isControlOp(req) {
				return false
			}
			return numRetries < r.maxNumRetries
		}
		if err.Code == nimbuserr.SecurityInfoUnavailable {
			// always retry while security info is not ready
			return true
		}
	}

	if !req.shouldRetry() {
		return false
	}

	if err, ok := err.(*url.Error); ok && err.Temporary() {
		// transient network faults retry until the request timeout
		return true
	}

	return numRetries < r.maxNumRetries
}

// Delay pauses the current goroutine between retries. It is called after
// ShouldRetry has decided the request will be retried.
//
// If a non-zero retryInterval is configured it is used as the delay, except
// for SecurityInfoUnavailable and throttled control operations, which use
// their own cadence.
func (r DefaultRetryHandler) Delay(req Request, numRetries uint, err error) {
	d := r.retryInterval
	switch {
	case nimbuserr.IsSecurityInfoUnavailable(err):
		d = securityInfoNotReadyDelay(numRetries)
	case nimbuserr.Is(err, nimbuserr.OperationLimitExceeded):
		d = computeBackoffDelay(numRetries, r.controlOpBaseDelay)
	case d <= 0:
		d = computeBackoffDelay(numRetries, time.Second)
	}

	time.Sleep(d)
}

// isControlOp reports whether the request is a control operation, one that
// manipulates tables or system state rather than data.
func isControlOp(req Request) bool {
	switch req.(type) {
	case *TableRequest, *SystemRequest:
		return true
	default:
		return false
	}
}

// computeBackoffDelay computes an exponential backoff delay.
//
// Assumption: numRetries starts with 1.
// delay = baseDelay * 2^(numRetries-1) + random jitter of 0-1000ms
func computeBackoffDelay(numRetries uint, baseDelay time.Duration) time.Duration {
	if numRetries < 1 {
		return baseDelay
	}
	d := (1 << (numRetries - 1)) * baseDelay
	d += time.Duration(rand.Intn(1000)) * time.Millisecond
	return d
}

// securityInfoNotReadyDelay handles retries while security information is
// not ready. The first 10 retries use a constant short delay, later retries
// back off exponentially.
func securityInfoNotReadyDelay(numRetries uint) time.Duration {
	if numRetries <= 10 {
		return securityErrorRetryInterval
	}
	return computeBackoffDelay(numRetries-10, securityErrorRetryInterval)
}
