//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/common"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

func TestUpdateRateLimiters(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")
	client.EnableRateLimiting(true, 0)

	limits := *ProvisionedTableLimits(100, 200, 1)
	require.True(t, client.updateRateLimiters("Users", limits),
		"expect limiters to be created")

	// map keys are case-insensitive table names
	rp, ok := client.rateLimiterMap["users"]
	require.True(t, ok, "expect a limiter pair for table users")
	assert.Equal(t, 100.0, rp.ReadLimiter.GetLimitPerSecond())
	assert.Equal(t, 200.0, rp.WriteLimiter.GetLimitPerSecond())

	// an update adjusts the existing limiters in place
	limits = *ProvisionedTableLimits(50, 60, 1)
	require.True(t, client.updateRateLimiters("users", limits))
	assert.Equal(t, 50.0, rp.ReadLimiter.GetLimitPerSecond())
	assert.Equal(t, 60.0, rp.WriteLimiter.GetLimitPerSecond())

	// on demand tables carry no unit limits, the limiters are removed
	require.False(t, client.updateRateLimiters("users", *OnDemandTableLimits(1)))
	_, ok = client.rateLimiterMap["users"]
	assert.False(t, ok, "expect the limiter pair to be removed")
}

func TestUpdateRateLimitersWithPercentage(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")
	client.EnableRateLimiting(true, 25.0)

	limits := *ProvisionedTableLimits(100, 200, 1)
	require.True(t, client.updateRateLimiters("users", limits))

	rp := client.rateLimiterMap["users"]
	assert.Equal(t, 25.0, rp.ReadLimiter.GetLimitPerSecond())
	assert.Equal(t, 50.0, rp.WriteLimiter.GetLimitPerSecond())
}

func TestDoExecuteAppliesRateLimiters(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")
	client.EnableRateLimiting(true, 0)

	// install limiters for the table up front so no background refresh is
	// needed
	limits := *ProvisionedTableLimits(1000, 1000, 1)
	require.True(t, client.updateRateLimiters("users", limits))

	client.executor = &scriptedExecutor{
		responses: []scriptedResponse{
			okResponse(t, &GetResult{
				Capacity: Capacity{ReadKB: 4, ReadUnits: 8},
				Value:    types.NewMapValue(map[string]interface{}{"id": 1}),
				Version:  types.Version("v1"),
			}),
		},
	}

	req := &GetRequest{
		TableName: "Users",
		Key:       types.NewMapValue(map[string]interface{}{"id": 1}),
		Timeout:   5 * time.Second,
	}
	_, err = client.Get(req)
	require.NoError(t, err, "Get() got error")

	// the limiters for the table must be attached to the request and the
	// consumed units applied
	readLimiter := req.GetReadRateLimiter()
	require.NotNil(t, readLimiter, "expect a read limiter on the request")
	assert.Greater(t, readLimiter.(*common.SimpleRateLimiter).GetCurrentRate(), 0.0,
		"expect the read limiter to have consumed units")

	writeLimiter := req.GetWriteRateLimiter()
	require.NotNil(t, writeLimiter, "expect a write limiter on the request")
	assert.Equal(t, 0.0, writeLimiter.(*common.SimpleRateLimiter).GetCurrentRate(),
		"a get must not consume write units")
}

func TestThrottlingErrorFillsLimiter(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")

	retryHandler, err := NewDefaultRetryHandler(2, 10*time.Millisecond)
	require.NoError(t, err, "failed to create a retry handler")
	client.RetryHandler = retryHandler

	readLimiter := common.NewSimpleRateLimiter(10000)
	req := &GetRequest{
		TableName: "users",
		Key:       types.NewMapValue(map[string]interface{}{"id": 1}),
		Timeout:   5 * time.Second,
	}
	req.SetReadRateLimiter(readLimiter)

	client.executor = &scriptedExecutor{
		responses: []scriptedResponse{
			errResponse(nimbuserr.ReadLimitExceeded, "read throughput exceeded"),
			okResponse(t, &GetResult{Version: types.Version("v1")}),
		},
	}

	res, err := client.Get(req)
	require.NoError(t, err, "Get() should succeed after the throttling retry")

	// A ReadLimitExceeded response drives the limiter to its limit, so the
	// retried operation has to wait for it to drain. The time spent waiting
	// is reported on the result.
	assert.Greater(t, int64(res.Delayed().RateLimitTime), int64(0),
		"expect the result to report a positive rate limit delay")
	assert.Greater(t, int64(res.Delayed().RetryTime), int64(0),
		"expect the result to report a positive retry delay")
}

func TestResetRateLimiters(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")
	client.EnableRateLimiting(true, 0)

	require.True(t, client.updateRateLimiters("users", *ProvisionedTableLimits(10, 10, 1)))
	rp := client.rateLimiterMap["users"]
	rp.ReadLimiter.ConsumeUnitsUnconditionally(100)
	assert.Greater(t, rp.ReadLimiter.GetCurrentRate(), 0.0)

	client.ResetRateLimiters("Users")
	assert.Equal(t, 0.0, rp.ReadLimiter.GetCurrentRate())

	// unknown tables and disabled rate limiting are no-ops
	client.ResetRateLimiters("nosuchtable")
	client.EnableRateLimiting(false, 0)
	client.ResetRateLimiters("users")
}
