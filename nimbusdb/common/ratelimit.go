//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package common

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter throttles operations so that, over time, they do not exceed a
// configured number of units per second.
//
// Thread safety
//
// Implementations must be safe for concurrent use. Many goroutines typically
// share a single limiter instance so that their combined throughput stays
// within the limit.
//
// Typical usage
//
// The simplest use is to consume a number of units, blocking until they are
// available:
//	delay := limiter.ConsumeUnits(units)
//
// When the cost of an operation is not known until after it completes, wait
// first until the limiter is under its limit, then report the units actually
// used:
//	_, err := limiter.ConsumeUnitsWithTimeout(0, timeout, false)
//	if err != nil {
//	  // could not get under the limit within the timeout
//	}
//	units := (...perform the operation, observe its cost...)
//	limiter.ConsumeUnitsUnconditionally(units)
//
// Duration
//
// Limiters support a configurable duration, sometimes called a burst window.
// Units that went unused within the duration may be consumed immediately. For
// example a limiter allowing 100 units per second that sat idle for 5
// seconds, with a duration of at least 5 seconds, will allow an immediate
// consume of 500 units with no delay.
type RateLimiter interface {

	// ConsumeUnits consumes a number of units, blocking until the units are
	// available. It returns the amount of time blocked, or 0 if the consume
	// succeeded immediately.
	ConsumeUnits(units int64) time.Duration

	// TryConsumeUnits consumes the specified number of units only if they are
	// available without waiting, and reports whether they were consumed.
	// Pass zero units to poll whether the limiter is currently under its
	// limit. Pass negative units to give units back.
	TryConsumeUnits(units int64) bool

	// ConsumeUnitsWithTimeout attempts to consume a number of units, blocking
	// until the units are available or the timeout expires. It returns the
	// amount of time blocked, or 0 if the consume succeeded immediately.
	//
	// A timeout of 0 blocks indefinitely. If alwaysConsume is true the units
	// are consumed even when the call times out.
	ConsumeUnitsWithTimeout(units int64, timeout time.Duration, alwaysConsume bool) (time.Duration, error)

	// ConsumeUnitsUnconditionally consumes units without checking or waiting.
	// The units are recorded regardless of the limiter's current state. Pass
	// negative units to give units back.
	ConsumeUnitsUnconditionally(units int64)

	// GetLimitPerSecond returns the maximum number of units per second this
	// limiter allows.
	GetLimitPerSecond() float64

	// SetLimitPerSecond sets a new limit in units per second.
	//
	// Implementations must handle non-integer values so that very low limits
	// behave sensibly. Changing the limit may cause temporarily spiky
	// behavior for goroutines already operating on the limiter.
	SetLimitPerSecond(limitPerSecond float64)

	// GetDuration returns the duration in seconds configured for this
	// limiter.
	GetDuration() float64

	// SetDuration sets the duration in seconds, which controls how far back
	// in time the limiter will reach for previously unused units.
	SetDuration(durationSecs float64)

	// GetCurrentRate returns the current rate as a percentage of the limit.
	GetCurrentRate() float64

	// SetCurrentRate sets the current rate as a percentage of the limit.
	// This adjusts the limiter's internal state, not the limit itself. Values
	// above 100.0 put the limiter over its limit.
	SetCurrentRate(percent float64)

	// Reset restores the limiter to its freshly created state.
	Reset()
}

// RateLimiterPair carries the read and write limiters associated with a
// request. Either or both may be nil.
type RateLimiterPair struct {
	ReadLimiter  RateLimiter
	WriteLimiter RateLimiter
}

// GetReadRateLimiter returns the read limiter, which may be nil.
func (p *RateLimiterPair) GetReadRateLimiter() RateLimiter {
	return p.ReadLimiter
}

// GetWriteRateLimiter returns the write limiter, which may be nil.
func (p *RateLimiterPair) GetWriteRateLimiter() RateLimiter {
	return p.WriteLimiter
}

// SetReadRateLimiter sets the read limiter to use during request execution.
func (p *RateLimiterPair) SetReadRateLimiter(rl RateLimiter) {
	p.ReadLimiter = rl
}

// SetWriteRateLimiter sets the write limiter to use during request execution.
func (p *RateLimiterPair) SetWriteRateLimiter(rl RateLimiter) {
	p.WriteLimiter = rl
}

const nanosPerSecFloat = 1000000000.0

// SimpleRateLimiter is a time-based RateLimiter implementation. It keeps a
// single notion of the last nanosecond at which capacity was used, which
// makes consumes cheap and keeps memory constant regardless of rate.
type SimpleRateLimiter struct {
	// nanoseconds that one unit represents
	nanosPerUnit int64

	// how far back in time unused units may be taken from
	durationNanos int64

	// the nanosecond up to which capacity has been used
	lastNano int64

	mux sync.Mutex
}

// NewSimpleRateLimiter creates a time-based rate limiter with a duration of
// one second, allowing unused units from within the last second to be
// consumed immediately.
func NewSimpleRateLimiter(limitPerSecond float64) *SimpleRateLimiter {
	return NewSimpleRateLimiterWithDuration(limitPerSecond, 1.0)
}

// NewSimpleRateLimiterWithDuration creates a time-based rate limiter with the
// specified duration in seconds.
func NewSimpleRateLimiterWithDuration(limitPerSecond, durationSecs float64) *SimpleRateLimiter {
	srl := &SimpleRateLimiter{}
	srl.SetLimitPerSecond(limitPerSecond)
	srl.SetDuration(durationSecs)
	srl.Reset()
	return srl
}

// SetLimitPerSecond sets a new limit in units per second. A limit of zero or
// less disables the limiter.
func (srl *SimpleRateLimiter) SetLimitPerSecond(limitPerSecond float64) {
	if limitPerSecond <= 0.0 {
		srl.nanosPerUnit = 0
	} else {
		srl.nanosPerUnit = int64(nanosPerSecFloat / limitPerSecond)
	}
	srl.enforceMinimumDuration()
}

// The duration must cover at least one unit so that TryConsumeUnits(1) has a
// chance of succeeding.
func (srl *SimpleRateLimiter) enforceMinimumDuration() {
	if srl.durationNanos < srl.nanosPerUnit {
		srl.durationNanos = srl.nanosPerUnit
	}
}

// GetLimitPerSecond returns the maximum number of units per second this
// limiter allows.
func (srl *SimpleRateLimiter) GetLimitPerSecond() float64 {
	return nanosPerSecFloat / float64(srl.nanosPerUnit)
}

// GetDuration returns the duration in seconds configured for this limiter.
func (srl *SimpleRateLimiter) GetDuration() float64 {
	return float64(srl.durationNanos) / nanosPerSecFloat
}

// SetDuration sets the duration in seconds, which controls how far back in
// time the limiter will reach for previously unused units.
func (srl *SimpleRateLimiter) SetDuration(durationSecs float64) {
	srl.durationNanos = int64(durationSecs * nanosPerSecFloat)
	srl.enforceMinimumDuration()
}

// Reset restores the limiter to its freshly created state.
func (srl *SimpleRateLimiter) Reset() {
	srl.lastNano = time.Now().UnixNano()
}

// SetCurrentRate sets the current rate as a percentage of the limit.
func (srl *SimpleRateLimiter) SetCurrentRate(percent float64) {
	// "rate" has no inherent time period in this limiter, so rate
	// operations assume one second.
	nowNanos := time.Now().UnixNano()
	if percent == 100.0 {
		srl.lastNano = nowNanos
		return
	}
	percent -= 100.0
	srl.lastNano = nowNanos + int64((percent/100.0)*nanosPerSecFloat)
}

// ConsumeUnits consumes a number of units, blocking until the units are
// available. It returns the amount of time blocked, or 0 if the consume
// succeeded immediately.
func (srl *SimpleRateLimiter) ConsumeUnits(units int64) time.Duration {
	// the units are consumed immediately, the returned value is how long
	// the caller must wait for the limiter to go under its limit
	sleepTime := srl.consumeInternal(units, 0, false, time.Now().UnixNano())
	if sleepTime > 0 {
		time.Sleep(sleepTime)
	}
	return sleepTime
}

// ConsumeUnitsWithTimeout attempts to consume a number of units, blocking
// until the units are available or the timeout expires. It returns the
// amount of time blocked, or 0 if the consume succeeded immediately.
//
// A timeout of 0 blocks indefinitely. If alwaysConsume is true the units are
// consumed even when the call times out.
func (srl *SimpleRateLimiter) ConsumeUnitsWithTimeout(units int64, timeout time.Duration, alwaysConsume bool) (time.Duration, error) {
	sleepTime := srl.consumeInternal(units, timeout, alwaysConsume, time.Now().UnixNano())
	if sleepTime == 0 {
		return 0, nil
	}

	// If the required wait exceeds the timeout, sleep up to the timeout and
	// report failure. The units may already be consumed if alwaysConsume
	// was set.
	if timeout > 0 && sleepTime >= timeout {
		time.Sleep(timeout)
		return timeout, fmt.Errorf("timed out waiting %v for %d units in rate limiter", timeout, units)
	}

	time.Sleep(sleepTime)
	return sleepTime, nil
}

// TryConsumeUnits consumes the specified number of units only if they are
// available without waiting, and reports whether they were consumed.
func (srl *SimpleRateLimiter) TryConsumeUnits(units int64) bool {
	return srl.consumeInternal(units, 1, false, time.Now().UnixNano()) == 0
}

// ConsumeUnitsUnconditionally consumes units without checking or waiting.
func (srl *SimpleRateLimiter) ConsumeUnitsUnconditionally(units int64) {
	srl.consumeInternal(units, 0, true, time.Now().UnixNano())
}

// consumeInternal returns the time the caller must sleep for the consume to
// complete. It never blocks.
//
// This is the only place that updates lastNano, that is, actually consumes
// units.
func (srl *SimpleRateLimiter) consumeInternal(units int64, timeout time.Duration,
	alwaysConsume bool, nowNanos int64) time.Duration {

	// a disabled limiter always succeeds
	if srl.nanosPerUnit <= 0 {
		return 0
	}

	srl.mux.Lock()
	defer srl.mux.Unlock()

	nanosNeeded := units * srl.nanosPerUnit

	// never reach further into the past than the duration allows
	maxPast := nowNanos - srl.durationNanos
	if srl.lastNano < maxPast {
		srl.lastNano = maxPast
	}

	newLast := srl.lastNano + nanosNeeded

	// negative units give capacity back
	if units < 0 {
		srl.lastNano = newLast
		return 0
	}

	// under the limit, consume with no wait
	if srl.lastNano <= nowNanos {
		srl.lastNano = newLast
		return 0
	}

	// The caller needs to sleep this long for the limiter to go under its
	// limit. Other consumes arriving meanwhile may push that point further
	// out.
	sleepTime := time.Duration(srl.lastNano-nowNanos) * time.Nanosecond

	if alwaysConsume || timeout == 0 || sleepTime < timeout {
		srl.lastNano = newLast
	}

	return sleepTime
}

// GetCurrentRate returns the current rate as a percentage of the limit.
func (srl *SimpleRateLimiter) GetCurrentRate() float64 {
	capacity := srl.getCapacity()
	limit := srl.GetLimitPerSecond()
	rate := 100.0 - ((capacity * 100.0) / limit)
	if rate < 0.0 {
		return 0.0
	}
	return rate
}

// getCapacity returns how many units can currently be consumed without
// waiting.
func (srl *SimpleRateLimiter) getCapacity() float64 {
	nowNanos := time.Now().UnixNano()
	maxPast := nowNanos - srl.durationNanos
	if srl.lastNano > maxPast {
		maxPast = srl.lastNano
	}
	return float64(nowNanos-maxPast) / float64(srl.nanosPerUnit)
}

func (srl *SimpleRateLimiter) String() string {
	return fmt.Sprintf("lastNano=%v, nanosPerUnit=%v, durationNanos=%v, limit=%v, capacity=%v, rate=%.2f",
		srl.lastNano, srl.nanosPerUnit, srl.durationNanos, srl.GetLimitPerSecond(), srl.getCapacity(), srl.GetCurrentRate())
}
