//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/jsonutil"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

func TestSerializeRequestEnvelope(t *testing.T) {
	tests := []struct {
		req    Request
		wantOp string
	}{
		{&GetRequest{TableName: "T", Key: types.NewMapValue(map[string]interface{}{"id": 1})}, "Get"},
		{&PutRequest{TableName: "T", Value: types.NewMapValue(map[string]interface{}{"id": 1})}, "Put"},
		{&DeleteRequest{TableName: "T", Key: types.NewMapValue(map[string]interface{}{"id": 1})}, "Delete"},
		{&MultiDeleteRequest{TableName: "T", Key: types.NewMapValue(map[string]interface{}{"sk": 1})}, "MultiDelete"},
		{&PrepareRequest{Statement: "select * from T"}, "Prepare"},
		{&QueryRequest{Statement: "select * from T"}, "Query"},
		{&TableRequest{Statement: "drop table T"}, "TableRequest"},
		{&GetTableRequest{TableName: "T"}, "GetTable"},
		{&GetIndexesRequest{TableName: "T"}, "GetIndexes"},
		{&ListTablesRequest{}, "ListTables"},
		{&TableUsageRequest{TableName: "T"}, "GetTableUsage"},
		{&SystemRequest{Statement: "show namespaces"}, "SystemRequest"},
		{&SystemStatusRequest{OperationID: "op1"}, "SystemStatus"},
	}

	for _, r := range tests {
		r.req.setDefaults(&RequestConfig{})
		data, err := serializeRequest(r.req)
		if !assert.NoErrorf(t, err, "serializeRequest(%T) got error %v", r.req, err) {
			continue
		}

		obj, err := jsonutil.ToObject(string(data))
		require.NoErrorf(t, err, "the serialized %T is not a JSON object", r.req)

		op, ok := jsonutil.GetStringFromObject(obj, "operation")
		assert.Truef(t, ok, "the envelope for %T does not carry an operation", r.req)
		assert.Equalf(t, r.wantOp, op, "got unexpected operation for %T", r.req)
		assert.Containsf(t, obj, "payload", "the envelope for %T does not carry a payload", r.req)
	}
}

func TestRequestSizeLimits(t *testing.T) {
	// A single put just above the 2MB limit is rejected.
	big := strings.Repeat("x", requestSizeLimit)
	put := &PutRequest{
		TableName: "T",
		Value:     types.NewMapValue(map[string]interface{}{"id": 1, "payload": big}),
	}
	put.setDefaults(&RequestConfig{})
	_, err := serializeRequest(put)
	assert.Truef(t, nimbuserr.Is(err, nimbuserr.RequestSizeLimitExceeded),
		"expect RequestSizeLimitExceeded, got %v", err)

	// The same value inside a batch is accepted since batch requests get
	// the 25MB limit.
	wm := &WriteMultipleRequest{TableName: "T"}
	require.NoError(t, wm.AddPutRequest(put, false))
	wm.setDefaults(&RequestConfig{})
	_, err = serializeRequest(wm)
	assert.NoErrorf(t, err, "a batch under the batch size limit should serialize, got %v", err)

	// A batch above 25MB is rejected.
	wm = &WriteMultipleRequest{TableName: "T"}
	huge := strings.Repeat("x", batchRequestSizeLimit/10)
	for i := 0; i < 11; i++ {
		p := &PutRequest{
			TableName: "T",
			Value:     types.NewMapValue(map[string]interface{}{"id": i, "payload": huge}),
		}
		require.NoError(t, wm.AddPutRequest(p, false))
	}
	wm.setDefaults(&RequestConfig{})
	_, err = serializeRequest(wm)
	assert.Truef(t, nimbuserr.Is(err, nimbuserr.RequestSizeLimitExceeded),
		"expect RequestSizeLimitExceeded for an oversized batch, got %v", err)
}

func TestCheckResponseError(t *testing.T) {
	// A result body carries no error.
	assert.NoError(t, checkResponseError([]byte(`{"readKB":1,"value":{"id":1}}`)))

	// An error envelope is mapped onto the matching error code.
	err := checkResponseError([]byte(`{"error":{"code":2,"message":"table T not found"}}`))
	assert.Truef(t, nimbuserr.IsTableNotFound(err), "expect TableNotFound, got %v", err)
	assert.Containsf(t, err.Error(), "table T not found", "expect the server message to be retained")

	err = checkResponseError([]byte(`{"error":{"code":50,"message":"read throughput exceeded"}}`))
	assert.Truef(t, nimbuserr.Is(err, nimbuserr.ReadLimitExceeded),
		"expect ReadLimitExceeded, got %v", err)

	// A body that is not JSON at all is a protocol error.
	err = checkResponseError([]byte("<html>bad gateway</html>"))
	assert.Truef(t, nimbuserr.Is(err, nimbuserr.BadProtocolMessage),
		"expect BadProtocolMessage, got %v", err)
}

func TestDeserializeWriteMultipleResult(t *testing.T) {
	req := &WriteMultipleRequest{TableName: "T"}

	// An aborted batch reports the index of the operation that failed.
	res, err := deserializeResponse(req, []byte(
		`{"writeKB":2,"resultSet":[{"success":true},{"success":false}],"failedOperationIndex":1}`))
	require.NoError(t, err, "deserializeResponse() got error")
	wmRes := res.(*WriteMultipleResult)
	assert.False(t, wmRes.IsSuccess())
	require.NotNil(t, wmRes.GetFailedOperationResult())
	assert.False(t, wmRes.GetFailedOperationResult().Success)

	// A body without a failedOperationIndex means the batch succeeded. The
	// zero value of the field must not be mistaken for index 0.
	res, err = deserializeResponse(req, []byte(
		`{"writeKB":2,"resultSet":[{"success":true},{"success":true}]}`))
	require.NoError(t, err, "deserializeResponse() got error")
	wmRes = res.(*WriteMultipleResult)
	assert.True(t, wmRes.IsSuccess())
	assert.Nil(t, wmRes.GetFailedOperationResult())
}

func TestPreparedStatementRoundTrip(t *testing.T) {
	stmt, err := newPreparedStatement("declare $id integer; select * from T where id = $id",
		"plan", "T", []byte("prepared-statement-bytes"))
	require.NoError(t, err, "newPreparedStatement() got error")
	require.NoError(t, stmt.SetVariable("$id", 42))

	data, err := json.Marshal(stmt)
	require.NoError(t, err, "failed to marshal the prepared statement")

	var got PreparedStatement
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, stmt.sqlText, got.sqlText)
	assert.Equal(t, stmt.tableName, got.tableName)
	assert.Equal(t, stmt.statement, got.statement)

	// Statements too short to be valid are rejected.
	_, err = newPreparedStatement("select 1", "", "", []byte("x"))
	assert.Truef(t, nimbuserr.Is(err, nimbuserr.IllegalArgument),
		"expect IllegalArgument for a truncated statement, got %v", err)

	err = json.Unmarshal([]byte(`{"statement":"eA=="}`), &got)
	assert.Error(t, err, "unmarshal of a truncated statement should fail")
}

func TestDeserializeSystemResult(t *testing.T) {
	req := &SystemRequest{Statement: "show namespaces"}
	res, err := deserializeResponse(req, []byte(
		`{"state":2,"operationID":"op-7","statement":"show namespaces"}`))
	require.NoError(t, err, "deserializeResponse() got error")

	sysRes := res.(*SystemResult)
	assert.Equal(t, types.Working, sysRes.State)
	assert.Equal(t, "op-7", sysRes.OperationID)
}

func TestDeserializeQueryAttachesDelays(t *testing.T) {
	// Delay information never travels on the wire, it is accounted on the
	// client. Make sure a result parse leaves it zeroed.
	req := &QueryRequest{Statement: "select * from T", Timeout: time.Second}
	res, err := deserializeResponse(req, []byte(`{"results":[],"readKB":1}`))
	require.NoError(t, err, "deserializeResponse() got error")
	assert.Equal(t, DelayInfo{}, res.Delayed())
}
