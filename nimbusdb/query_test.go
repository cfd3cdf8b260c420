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

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

func TestQueryContinuation(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")

	client.executor = &scriptedExecutor{
		responses: []scriptedResponse{
			okResponse(t, &QueryResult{
				Capacity: Capacity{ReadKB: 5, ReadUnits: 10},
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"id": 1}),
				},
				ContinuationKey: types.ContinuationKey("batch-2"),
			}),
			okResponse(t, &QueryResult{
				Capacity: Capacity{ReadKB: 3, ReadUnits: 6},
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"id": 2}),
				},
			}),
		},
	}

	req := &QueryRequest{
		Statement: "SELECT * FROM users",
		TableName: "users",
		Timeout:   5 * time.Second,
	}

	var rows []*types.MapValue
	for {
		res, err := client.Query(req)
		require.NoError(t, err, "Query() should succeed")
		rows = append(rows, res.GetResults()...)
		if res.IsDone() {
			break
		}
		req.ContinuationKey = res.ContinuationKey
	}

	require.Equal(t, 2, len(rows), "expect two rows across two batches")
	id, _ := rows[0].Get("id")
	assert.Equal(t, float64(1), id)
	id, _ = rows[1].Get("id")
	assert.Equal(t, float64(2), id)
}

func TestQueryIterator(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")

	exec := &scriptedExecutor{
		responses: []scriptedResponse{
			okResponse(t, &QueryResult{
				Capacity: Capacity{ReadKB: 5, ReadUnits: 10},
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"id": 1}),
					types.NewMapValue(map[string]interface{}{"id": 2}),
				},
				ContinuationKey: types.ContinuationKey("batch-2"),
			}),
			// An empty batch with a continuation key. The iterator must keep
			// fetching rather than report completion.
			okResponse(t, &QueryResult{
				Capacity:        Capacity{ReadKB: 2, ReadUnits: 4},
				ContinuationKey: types.ContinuationKey("batch-3"),
			}),
			okResponse(t, &QueryResult{
				Capacity: Capacity{ReadKB: 3, ReadUnits: 6},
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"id": 3}),
				},
			}),
		},
	}
	client.executor = exec

	req := &QueryRequest{
		Statement: "SELECT * FROM users",
		TableName: "users",
		Timeout:   5 * time.Second,
	}
	it, err := client.QueryIterator(req)
	require.NoError(t, err, "QueryIterator() should succeed")

	var ids []interface{}
	for {
		row, err := it.Next()
		if err == ErrIteratorDone {
			break
		}
		require.NoError(t, err, "Next() should succeed")
		id, ok := row.Get("id")
		require.True(t, ok, "expect the row to contain an id field")
		ids = append(ids, id)
	}

	assert.Equal(t, []interface{}{float64(1), float64(2), float64(3)}, ids)
	assert.Equal(t, 3, exec.calls, "expect three fetches")

	used := it.ConsumedCapacity()
	assert.Equal(t, Capacity{ReadKB: 10, ReadUnits: 20}, used)

	// Subsequent calls keep returning ErrIteratorDone.
	_, err = it.Next()
	assert.Equal(t, ErrIteratorDone, err)
}

func TestQueryIteratorClose(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")

	client.executor = &scriptedExecutor{
		responses: []scriptedResponse{
			okResponse(t, &QueryResult{
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"id": 1}),
				},
				ContinuationKey: types.ContinuationKey("more"),
			}),
		},
	}

	req := &QueryRequest{
		Statement: "SELECT * FROM users",
		TableName: "users",
		Timeout:   5 * time.Second,
	}
	it, err := client.QueryIterator(req)
	require.NoError(t, err, "QueryIterator() should succeed")

	_, err = it.Next()
	require.NoError(t, err, "Next() should succeed")

	require.NoError(t, it.Close())
	_, err = it.Next()
	assert.Equal(t, ErrIteratorDone, err, "expect ErrIteratorDone after Close()")
}

func TestQueryIteratorMemoryLimit(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")

	client.executor = &scriptedExecutor{
		responses: []scriptedResponse{
			okResponse(t, &QueryResult{
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"name": "a value too large for the limit"}),
				},
			}),
		},
	}

	req := &QueryRequest{
		Statement:            "SELECT * FROM users",
		TableName:            "users",
		Timeout:              5 * time.Second,
		MaxMemoryConsumption: 8,
	}
	it, err := client.QueryIterator(req)
	require.NoError(t, err, "QueryIterator() should succeed")

	_, err = it.Next()
	assert.Truef(t, nimbuserr.Is(err, nimbuserr.MemoryLimitExceeded),
		"expect MemoryLimitExceeded, got %v", err)
}

func TestQueryReusesReturnedPreparedStatement(t *testing.T) {
	client, err := newMockClient()
	require.NoError(t, err, "failed to create client")

	stmt, err := newPreparedStatement("SELECT * FROM users", "", "users",
		[]byte("prepared-statement-bytes"))
	require.NoError(t, err, "failed to create a prepared statement")

	client.executor = &scriptedExecutor{
		responses: []scriptedResponse{
			okResponse(t, &QueryResult{
				Results: []*types.MapValue{
					types.NewMapValue(map[string]interface{}{"id": 1}),
				},
				ContinuationKey:   types.ContinuationKey("more"),
				PreparedStatement: stmt,
			}),
		},
	}

	req := &QueryRequest{
		Statement: "SELECT * FROM users",
		TableName: "users",
		Timeout:   5 * time.Second,
	}
	_, err = client.Query(req)
	require.NoError(t, err, "Query() should succeed")

	// The server-prepared form must be retained on the request so that
	// continuation calls skip the preparation step.
	require.True(t, req.isPrepared(), "expect the request to hold the returned prepared statement")
	assert.Equal(t, "users", req.PreparedStatement.tableName)
}
