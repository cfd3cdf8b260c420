//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import "time"

// RequestObserver receives notifications about the lifecycle of requests
// executed by a Client. Observers are registered on a Client instance with
// AddRequestObserver and see only the requests of that instance.
//
// Observer methods are called synchronously on the goroutine executing the
// request and must return quickly. Implementations must be safe for
// concurrent use by multiple goroutines.
type RequestObserver interface {
	// OnConsumedCapacity is called after a request completes successfully
	// with the throughput the operation consumed. It is not called for
	// operations that do not consume table throughput.
	OnConsumedCapacity(req Request, used Capacity)

	// OnRetry is called before a request is retried, with the retry ordinal
	// starting at 1, the error that caused the retry and the delay slept
	// before the new attempt.
	OnRetry(req Request, numRetries uint, err error, delay time.Duration)
}

// AddRequestObserver registers an observer for requests executed by this
// client. Observers cannot be removed; register them before issuing
// requests.
func (c *Client) AddRequestObserver(o RequestObserver) {
	if o == nil {
		return
	}

	c.observerMux.Lock()
	c.observers = append(c.observers, o)
	c.observerMux.Unlock()
}

func (c *Client) notifyConsumedCapacity(req Request, used Capacity) {
	c.observerMux.RLock()
	defer c.observerMux.RUnlock()

	for _, o := range c.observers {
		o.OnConsumedCapacity(req, used)
	}
}

func (c *Client) notifyRetry(req Request, numRetries uint, err error, delay time.Duration) {
	c.observerMux.RLock()
	defer c.observerMux.RUnlock()

	for _, o := range c.observers {
		o.OnRetry(req, numRetries, err, delay)
	}
}
