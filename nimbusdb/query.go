//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"errors"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

// ErrIteratorDone is returned from QueryIterator.Next() when there are no
// more results for the query.
var ErrIteratorDone = errors.New("no more query results")

// QueryIterator drives the continuation loop of a query on behalf of the
// application, returning one result row at a time.
//
// A query that reads the maximum amount of data allowed in a single server
// interaction returns a continuation key and must be resumed, possibly many
// times, before all results have been produced. The iterator performs those
// continuations transparently: Next() fetches result batches from the
// server as needed and returns ErrIteratorDone after the last row of the
// last batch.
//
// A QueryIterator is not safe for concurrent use by multiple goroutines.
type QueryIterator struct {
	client *Client
	req    *QueryRequest

	// res holds the current result batch, nil before the first fetch.
	res *QueryResult

	// nextIdx is the index into res.Results of the next row to return.
	nextIdx int

	// used accumulates the capacity consumed by all fetches so far.
	used Capacity

	closed bool
	err    error
}

// QueryIterator creates an iterator over all results of the query specified
// in the QueryRequest. The request must not be modified while the iterator
// is in use.
//
// The iterator fetches lazily. No server interaction happens until the
// first call to Next().
func (c *Client) QueryIterator(req *QueryRequest) (*QueryIterator, error) {
	if req == nil {
		return nil, errNilRequest
	}

	return &QueryIterator{
		client: c,
		req:    req,
	}, nil
}

// Next returns the next result row of the query. It fetches a new result
// batch from the server whenever the current batch is exhausted and the
// query is not complete.
//
// When all results have been returned, Next returns a nil row and
// ErrIteratorDone. Any other non-nil error terminates the iteration and is
// returned again from subsequent calls.
func (it *QueryIterator) Next() (*types.MapValue, error) {
	if it.err != nil {
		return nil, it.err
	}

	if it.closed {
		it.err = ErrIteratorDone
		return nil, it.err
	}

	for {
		if it.res != nil && it.nextIdx < len(it.res.Results) {
			row := it.res.Results[it.nextIdx]
			it.nextIdx++
			return row, nil
		}

		// The current batch is exhausted. A batch may be empty while the
		// query is not complete, so keep fetching until a batch yields a
		// row or the continuation key is nil.
		if it.res != nil && it.res.IsDone() {
			it.err = ErrIteratorDone
			return nil, it.err
		}

		if err := it.fetch(); err != nil {
			it.err = err
			return nil, it.err
		}
	}
}

// fetch retrieves the next result batch from the server.
func (it *QueryIterator) fetch() error {
	if it.res != nil {
		it.req.ContinuationKey = it.res.ContinuationKey
	}

	res, err := it.client.Query(it.req)
	if err != nil {
		return err
	}

	if int64(res.rawSize) > it.req.GetMaxMemoryConsumption() {
		return nimbuserr.NewMemoryLimitExceeded(
			"the query cannot be executed because it needs to hold %d bytes "+
				"of results at the client, exceeding the maximum of %d bytes, "+
				"which can be modified via QueryRequest.MaxMemoryConsumption",
			res.rawSize, it.req.GetMaxMemoryConsumption())
	}

	it.used.ReadKB += res.ReadKB
	it.used.ReadUnits += res.ReadUnits
	it.used.WriteKB += res.WriteKB

	it.res = res
	it.nextIdx = 0
	return nil
}

// ConsumedCapacity returns the total capacity consumed by all server
// interactions the iterator has performed so far.
func (it *QueryIterator) ConsumedCapacity() Capacity {
	return it.used
}

// Close terminates the iteration. Subsequent calls to Next() return
// ErrIteratorDone. Close releases the current result batch; it does not
// affect the underlying Client.
func (it *QueryIterator) Close() error {
	it.closed = true
	it.res = nil
	return nil
}
