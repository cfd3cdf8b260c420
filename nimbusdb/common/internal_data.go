//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package common

import (
	"time"
)

// InternalRequestData carries per-request bookkeeping shared by all request
// types: the rate limiters used during execution and the time spent in
// client-side delays.
type InternalRequestData struct {
	RateLimiterPair

	// accumulated delay from retries during this request
	retryTime time.Duration

	// accumulated delay from rate limiting during this request
	rateLimitTime time.Duration
}

// GetRetryTime returns the time spent in client-side retry delays.
func (ird *InternalRequestData) GetRetryTime() time.Duration {
	return ird.retryTime
}

// SetRetryTime sets the time spent in client-side retry delays.
func (ird *InternalRequestData) SetRetryTime(d time.Duration) {
	ird.retryTime = d
}

// GetRateLimitTime returns the time spent waiting on rate limiters.
func (ird *InternalRequestData) GetRateLimitTime() time.Duration {
	return ird.rateLimitTime
}

// SetRateLimitTime sets the time spent waiting on rate limiters.
func (ird *InternalRequestData) SetRateLimitTime(d time.Duration) {
	ird.rateLimitTime = d
}
