//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"encoding/json"
	"time"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/common"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
)

// Operation names used in the request envelope.
const (
	opGet           = "Get"
	opPut           = "Put"
	opDelete        = "Delete"
	opMultiDelete   = "MultiDelete"
	opWriteMultiple = "WriteMultiple"
	opPrepare       = "Prepare"
	opQuery         = "Query"
	opTable         = "TableRequest"
	opGetTable      = "GetTable"
	opGetIndexes    = "GetIndexes"
	opListTables    = "ListTables"
	opTableUsage    = "GetTableUsage"
	opSystem        = "SystemRequest"
	opSystemStatus  = "SystemStatus"
)

// Request is an interface that defines common functions for operation
// requests.
//
// All operation requests defined in this package satisfy this interface.
// Applications should use the concrete request types such as GetRequest and
// PutRequest, rather than this interface.
type Request interface {
	// validate checks if the request is valid.
	validate() error

	// setDefaults sets default values for the request if not set, using the
	// values from the specified RequestConfig.
	setDefaults(cfg *RequestConfig)

	// shouldRetry reports whether the request can be retried on errors that
	// are retryable.
	shouldRetry() bool

	// timeout returns the timeout value set for the request.
	timeout() time.Duration

	// getTableName returns the name of the table the request operates on,
	// or an empty string for requests that are not table specific.
	getTableName() string

	// getNamespace returns the namespace set for the request, or an empty
	// string if not set.
	getNamespace() string

	// doesReads and doesWrites report whether the request consumes read or
	// write capacity. They determine which rate limiters apply to the
	// request.
	doesReads() bool
	doesWrites() bool

	// Internal request data maintained by the client across retries.
	// These are provided by embedding common.InternalRequestData.
	GetRetryTime() time.Duration
	SetRetryTime(d time.Duration)
	GetRateLimitTime() time.Duration
	SetRateLimitTime(d time.Duration)
	GetReadRateLimiter() common.RateLimiter
	SetReadRateLimiter(rl common.RateLimiter)
	GetWriteRateLimiter() common.RateLimiter
	SetWriteRateLimiter(rl common.RateLimiter)
}

// requestEnvelope is the top level object sent to the server for all
// operations. The payload holds the operation specific request.
type requestEnvelope struct {
	Operation string  `json:"operation"`
	Payload   Request `json:"payload"`
}

// errorEnvelope is the shape of an error response returned from the server.
type errorEnvelope struct {
	Error *wireError `json:"error,omitempty"`
}

type wireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// requestOp returns the operation name for the specified request.
func requestOp(req Request) (string, error) {
	switch req.(type) {
	case *GetRequest:
		return opGet, nil
	case *PutRequest:
		return opPut, nil
	case *DeleteRequest:
		return opDelete, nil
	case *MultiDeleteRequest:
		return opMultiDelete, nil
	case *WriteMultipleRequest:
		return opWriteMultiple, nil
	case *PrepareRequest:
		return opPrepare, nil
	case *QueryRequest:
		return opQuery, nil
	case *TableRequest:
		return opTable, nil
	case *GetTableRequest:
		return opGetTable, nil
	case *GetIndexesRequest:
		return opGetIndexes, nil
	case *ListTablesRequest:
		return opListTables, nil
	case *TableUsageRequest:
		return opTableUsage, nil
	case *SystemRequest:
		return opSystem, nil
	case *SystemStatusRequest:
		return opSystemStatus, nil
	default:
		return "", nimbuserr.NewIllegalArgument("unsupported request type %T", req)
	}
}

// serializeRequest encodes the specified request into the envelope sent to
// the server, checking the resulting payload against request size limits.
func serializeRequest(req Request) ([]byte, error) {
	op, err := requestOp(req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(&requestEnvelope{
		Operation: op,
		Payload:   req,
	})
	if err != nil {
		return nil, nimbuserr.NewWithCause(nimbuserr.BadProtocolMessage, err,
			"failed to serialize the %s request", op)
	}

	if err = checkRequestSizeLimit(req, len(data)); err != nil {
		return nil, err
	}

	return data, nil
}

// checkRequestSizeLimit checks if the size of the specified request exceeds
// the limit. Batch operation requests have a higher limit than other
// requests.
func checkRequestSizeLimit(req Request, size int) error {
	limit := requestSizeLimit
	if _, ok := req.(*WriteMultipleRequest); ok {
		limit = batchRequestSizeLimit
	}

	if size > limit {
		return nimbuserr.New(nimbuserr.RequestSizeLimitExceeded,
			"the request size of %d exceeds the limit of %d", size, limit)
	}

	return nil
}

// checkResponseError reports the error carried in a server response body, if
// any. A nil return means the body holds an operation result.
func checkResponseError(data []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nimbuserr.NewWithCause(nimbuserr.BadProtocolMessage, err,
			"failed to parse the server response")
	}

	if env.Error == nil {
		return nil
	}

	code := nimbuserr.ErrorCode(env.Error.Code)
	return nimbuserr.New(code, "%s", env.Error.Message)
}

// preparedStatementWire is the wire representation of a prepared statement.
// The statement bytes are created at the server and are opaque to the
// driver.
type preparedStatementWire struct {
	Statement []byte                 `json:"statement"`
	QueryPlan string                 `json:"queryPlan,omitempty"`
	TableName string                 `json:"tableName,omitempty"`
	SQLText   string                 `json:"sqlText,omitempty"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for PreparedStatement.
func (p *PreparedStatement) MarshalJSON() ([]byte, error) {
	return json.Marshal(&preparedStatementWire{
		Statement: p.statement,
		SQLText:   p.sqlText,
		Variables: p.bindVariables,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface for
// PreparedStatement.
func (p *PreparedStatement) UnmarshalJSON(data []byte) error {
	var w preparedStatementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	stmt, err := newPreparedStatement(w.SQLText, w.QueryPlan, w.TableName, w.Statement)
	if err != nil {
		return err
	}

	*p = *stmt
	return nil
}

// deserializeResponse decodes a successful server response body into the
// result type matching the specified request.
func deserializeResponse(req Request, data []byte) (Result, error) {
	var res Result

	switch req.(type) {
	case *GetRequest:
		res = &GetResult{}
	case *PutRequest:
		res = &PutResult{}
	case *DeleteRequest:
		res = &DeleteResult{}
	case *MultiDeleteRequest:
		res = &MultiDeleteResult{}
	case *WriteMultipleRequest:
		res = &WriteMultipleResult{FailedOperationIndex: -1}
	case *PrepareRequest:
		res = &PrepareResult{}
	case *QueryRequest:
		res = &QueryResult{}
	case *TableRequest, *GetTableRequest:
		res = &TableResult{}
	case *GetIndexesRequest:
		res = &GetIndexesResult{}
	case *ListTablesRequest:
		res = &ListTablesResult{}
	case *TableUsageRequest:
		res = &TableUsageResult{}
	case *SystemRequest, *SystemStatusRequest:
		res = &SystemResult{}
	default:
		return nil, nimbuserr.NewIllegalArgument("unsupported request type %T", req)
	}

	if err := json.Unmarshal(data, res); err != nil {
		return nil, nimbuserr.NewWithCause(nimbuserr.BadProtocolMessage, err,
			"failed to deserialize the response for request %T", req)
	}

	if qreq, ok := req.(*QueryRequest); ok {
		qres := res.(*QueryResult)
		// A non-prepared query may return its prepared form. Keep it on the
		// request so that continuations reuse it.
		if qres.PreparedStatement != nil && !qreq.isPrepared() {
			qreq.PreparedStatement = qres.PreparedStatement
		}
		qres.rawSize = len(data)
	}

	return res, nil
}
