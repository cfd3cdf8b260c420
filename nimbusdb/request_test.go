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

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
	"github.com/stretchr/testify/suite"
)

var (
	testErrInvalidTimeout     = nimbuserr.NewIllegalArgument("Timeout must be greater than or equal to 1 millisecond")
	testErrInvalidConsistency = nimbuserr.NewIllegalArgument("Consistency must be either Absolute or Eventual")
	testErrInvalidTableName   = nimbuserr.NewIllegalArgument("TableName must be non-empty")
	testErrNilKey             = nimbuserr.NewIllegalArgument("Key must be non-nil")
	testErrEmptyKey           = nimbuserr.NewIllegalArgument("Key must be non-empty")
)

// RequestTestSuite contains tests for the operation requests.
type RequestTestSuite struct {
	suite.Suite
}

func TestOpRequests(t *testing.T) {
	suite.Run(t, new(RequestTestSuite))
}

func (suite *RequestTestSuite) TestValidateTimeout() {
	tests := []struct {
		timeout time.Duration
		want    error
	}{
		{0, testErrInvalidTimeout},
		{time.Duration(-1), testErrInvalidTimeout},
		{time.Millisecond - 1, testErrInvalidTimeout},
		{time.Millisecond, nil},
		{time.Second, nil},
		{time.Minute, nil},
	}

	for i, r := range tests {
		err := validateTimeout(r.timeout)
		suite.Equalf(r.want, err, "Testcase %d: validateTimeout(%v) got unexpected error", i+1, r.timeout)
	}
}

func (suite *RequestTestSuite) TestValidateConsistency() {
	tests := []struct {
		c    types.Consistency
		want error
	}{
		{0, testErrInvalidConsistency},
		{3, testErrInvalidConsistency},
		{types.Eventual, nil},
		{types.Absolute, nil},
	}

	for i, r := range tests {
		err := validateConsistency(r.c)
		suite.Equalf(r.want, err, "Testcase %d: validateConsistency(%v) got unexpected error", i+1, r.c)
	}
}

func (suite *RequestTestSuite) TestValidateTableName() {
	tests := []struct {
		table string
		want  error
	}{
		{"", testErrInvalidTableName},
		{" ", nil},
		{"T", nil},
	}

	for i, r := range tests {
		err := validateTableName(r.table)
		suite.Equalf(r.want, err, "Testcase %d: validateTableName(%q) got unexpected error", i+1, r.table)
	}
}

func (suite *RequestTestSuite) TestValidateKey() {
	tests := []struct {
		key  *types.MapValue
		want error
	}{
		{nil, testErrNilKey},
		{&types.MapValue{}, testErrEmptyKey},
		{types.NewMapValue(map[string]interface{}{"id": 1}), nil},
		{types.NewMapValue(map[string]interface{}{"id": 1, "desc": "testing"}), nil},
	}

	for i, r := range tests {
		err := validateKey(r.key)
		suite.Equalf(r.want, err, "Testcase %d: validateKey(%v) got unexpected error", i+1, r.key)
	}
}

func (suite *RequestTestSuite) TestValidateFieldRange() {
	tests := []struct {
		fr *types.FieldRange
		ok bool
	}{
		{nil, false},
		{&types.FieldRange{}, false},
		{&types.FieldRange{FieldPath: "ts"}, false},
		{&types.FieldRange{FieldPath: "ts", Start: 1}, true},
		{&types.FieldRange{FieldPath: "ts", End: 100}, true},
		{&types.FieldRange{FieldPath: "ts", Start: 1, End: 100}, true},
		{&types.FieldRange{FieldPath: "ts", Start: 1, End: "abc"}, false},
	}

	for i, r := range tests {
		err := validateFieldRange(r.fr)
		if r.ok {
			suite.NoErrorf(err, "Testcase %d: validateFieldRange(%v) got unexpected error", i+1, r.fr)
		} else {
			suite.Truef(nimbuserr.IsIllegalArgument(err), "Testcase %d: validateFieldRange(%v) should have failed with IllegalArgument", i+1, r.fr)
		}
	}
}

func (suite *RequestTestSuite) TestTableLimits() {
	tests := []struct {
		limits *TableLimits
		ok     bool
	}{
		{&TableLimits{}, false},
		{&TableLimits{ReadUnits: 1, WriteUnits: 1, StorageGB: 1}, false},
		{ProvisionedTableLimits(0, 0, 0), false},
		{ProvisionedTableLimits(0, 1, 1), false},
		{ProvisionedTableLimits(1, 0, 1), false},
		{ProvisionedTableLimits(1, 1, 0), false},
		{ProvisionedTableLimits(1, 1, 1), true},
		{ProvisionedTableLimits(100, 50, 10), true},
		{OnDemandTableLimits(0), false},
		{OnDemandTableLimits(10), true},
		{&TableLimits{ReadUnits: 1, StorageGB: 1, CapacityMode: types.OnDemand}, false},
	}

	for i, r := range tests {
		err := r.limits.validate()
		if r.ok {
			suite.NoErrorf(err, "Testcase %d: TableLimits(%v).validate() got unexpected error", i+1, r.limits)
		} else {
			suite.Truef(nimbuserr.IsIllegalArgument(err), "Testcase %d: TableLimits(%v).validate() should have failed with IllegalArgument", i+1, r.limits)
		}
	}
}

func (suite *RequestTestSuite) TestGetRequest() {
	goodPK := types.NewMapValue(map[string]interface{}{"id": 1})

	tests := []struct {
		req  *GetRequest
		want error
		cfg  *RequestConfig
		set  bool // whether to call setDefaults
	}{
		{
			req:  &GetRequest{},
			want: testErrInvalidTableName,
		},
		{
			req:  &GetRequest{TableName: "T"},
			want: testErrNilKey,
		},
		{
			req:  &GetRequest{TableName: "T", Key: &types.MapValue{}},
			want: testErrEmptyKey,
		},
		{
			req:  &GetRequest{TableName: "T", Key: goodPK},
			want: testErrInvalidTimeout,
		},
		{
			req:  &GetRequest{TableName: "T", Key: goodPK, Timeout: time.Millisecond - 1},
			want: testErrInvalidTimeout,
		},
		{
			req:  &GetRequest{TableName: "T", Key: goodPK, Timeout: time.Millisecond},
			want: testErrInvalidConsistency,
		},
		{
			req:  &GetRequest{TableName: "T", Key: goodPK, Timeout: time.Millisecond, Consistency: 3},
			want: testErrInvalidConsistency,
		},
		// setDefaults fills in timeout and consistency
		{
			req: &GetRequest{TableName: "T", Key: goodPK},
			cfg: nil,
			set: true,
		},
		{
			req: &GetRequest{TableName: "T", Key: goodPK},
			cfg: &RequestConfig{},
			set: true,
		},
		{
			req: &GetRequest{TableName: "T", Key: goodPK},
			cfg: &RequestConfig{RequestTimeout: time.Second, Consistency: types.Absolute},
			set: true,
		},
		// explicit values win over config defaults
		{
			req: &GetRequest{TableName: "T", Key: goodPK, Timeout: 2 * time.Second, Consistency: types.Eventual},
			cfg: &RequestConfig{RequestTimeout: time.Second, Consistency: types.Absolute},
			set: true,
		},
		{
			req: &GetRequest{TableName: "T", Key: goodPK, Timeout: time.Millisecond, Consistency: types.Absolute},
		},
	}

	for i, r := range tests {
		origTO := r.req.Timeout
		origC := r.req.Consistency
		if r.set {
			r.req.setDefaults(r.cfg)
		}
		err := r.req.validate()
		suite.Equalf(r.want, err, "Testcase %d: validate(GetRequest=%#v) got unexpected error", i+1, r.req)

		if r.set && r.want == nil && err == nil {
			wantTO := origTO
			if wantTO == 0 {
				wantTO = r.cfg.DefaultRequestTimeout()
			}
			suite.Equalf(wantTO, r.req.Timeout, "Testcase %d: unexpected Timeout value for GetRequest", i+1)

			wantC := origC
			if wantC == 0 {
				wantC = r.cfg.DefaultConsistency()
			}
			suite.Equalf(wantC, r.req.Consistency, "Testcase %d: unexpected Consistency value for GetRequest", i+1)
		}
	}
}

func (suite *RequestTestSuite) TestPutRequest() {
	value := types.NewMapValue(map[string]interface{}{"id": 1, "name": "meg"})
	version := types.Version{1, 2, 3, 4}
	ttl := &types.TimeToLive{Value: 3, Unit: types.Days}

	tests := []struct {
		req *PutRequest
		ok  bool
	}{
		{&PutRequest{}, false},
		{&PutRequest{TableName: "T"}, false},
		{&PutRequest{TableName: "T", Value: value}, false},
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second}, true},
		// PutIfVersion requires a MatchVersion
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			PutOption: types.PutIfVersion}, false},
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			PutOption: types.PutIfVersion, MatchVersion: version}, true},
		// MatchVersion only valid with PutIfVersion
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			PutOption: types.PutIfAbsent, MatchVersion: version}, false},
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			MatchVersion: version}, false},
		// TTL and UseTableTTL are mutually exclusive
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			TTL: ttl}, true},
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			UseTableTTL: true}, true},
		{&PutRequest{TableName: "T", Value: value, Timeout: time.Second,
			TTL: ttl, UseTableTTL: true}, false},
	}

	for i, r := range tests {
		err := r.req.validate()
		if r.ok {
			suite.NoErrorf(err, "Testcase %d: validate(PutRequest=%#v) got unexpected error", i+1, r.req)
		} else {
			suite.Truef(nimbuserr.IsIllegalArgument(err), "Testcase %d: validate(PutRequest=%#v) should have failed with IllegalArgument", i+1, r.req)
		}
	}
}

func (suite *RequestTestSuite) TestTableRequest() {
	tests := []struct {
		req *TableRequest
		ok  bool
	}{
		{&TableRequest{}, false},
		{&TableRequest{Statement: "CREATE TABLE T (id INTEGER, PRIMARY KEY(id))", TableName: "T", Timeout: time.Second}, false},
		{&TableRequest{Statement: "DROP TABLE T", Timeout: time.Second}, true},
		{
			&TableRequest{
				Statement:   "CREATE TABLE T (id INTEGER, PRIMARY KEY(id))",
				TableLimits: ProvisionedTableLimits(10, 10, 1),
				Timeout:     time.Second,
			},
			true,
		},
		{
			&TableRequest{
				Statement:   "CREATE TABLE T (id INTEGER, PRIMARY KEY(id))",
				TableLimits: &TableLimits{},
				Timeout:     time.Second,
			},
			false,
		},
		{&TableRequest{TableName: "T", TableLimits: OnDemandTableLimits(5), Timeout: time.Second}, true},
	}

	for i, r := range tests {
		err := r.req.validate()
		if r.ok {
			suite.NoErrorf(err, "Testcase %d: validate(TableRequest=%#v) got unexpected error", i+1, r.req)
		} else {
			suite.Truef(nimbuserr.IsIllegalArgument(err), "Testcase %d: validate(TableRequest=%#v) should have failed with IllegalArgument", i+1, r.req)
		}
	}

	// TableRequest uses the table request timeout default
	req := &TableRequest{Statement: "DROP TABLE T"}
	req.setDefaults(nil)
	suite.Equal(defaultTableRequestTimeout, req.Timeout, "unexpected default timeout for TableRequest")
	suite.False(req.shouldRetry(), "TableRequest should not be retryable")
}

func (suite *RequestTestSuite) TestQueryRequest() {
	tests := []struct {
		req *QueryRequest
		ok  bool
	}{
		{&QueryRequest{}, false},
		{&QueryRequest{Timeout: time.Second, Consistency: types.Eventual}, false},
		{&QueryRequest{Statement: "SELECT * FROM T", Timeout: time.Second, Consistency: types.Eventual}, true},
		{&QueryRequest{Statement: "SELECT * FROM T", Timeout: time.Second, Consistency: 3}, false},
	}

	for i, r := range tests {
		err := r.req.validate()
		if r.ok {
			suite.NoErrorf(err, "Testcase %d: validate(QueryRequest=%#v) got unexpected error", i+1, r.req)
		} else {
			suite.Truef(nimbuserr.IsIllegalArgument(err), "Testcase %d: validate(QueryRequest=%#v) should have failed with IllegalArgument", i+1, r.req)
		}
	}

	req := &QueryRequest{Statement: "SELECT * FROM T"}
	suite.Equal(defaultMaxMem, req.GetMaxMemoryConsumption(), "unexpected default max memory consumption")

	req.MaxMemoryConsumption = 1024 * 1024
	suite.Equal(int64(1024*1024), req.GetMaxMemoryConsumption(), "unexpected max memory consumption")
}

func (suite *RequestTestSuite) TestWriteMultipleRequest() {
	newPut := func(table string, id int) *PutRequest {
		return &PutRequest{
			TableName: table,
			Value:     types.NewMapValue(map[string]interface{}{"id": id}),
		}
	}

	req := &WriteMultipleRequest{Timeout: time.Second}
	suite.Truef(nimbuserr.IsIllegalArgument(req.validate()), "validate() should fail for empty WriteMultipleRequest")

	err := req.AddPutRequest(newPut("T", 1), true)
	suite.NoErrorf(err, "AddPutRequest() got unexpected error")
	err = req.AddDeleteRequest(&DeleteRequest{
		TableName: "T",
		Key:       types.NewMapValue(map[string]interface{}{"id": 2}),
	}, false)
	suite.NoErrorf(err, "AddDeleteRequest() got unexpected error")
	suite.NoErrorf(req.validate(), "validate() got unexpected error")
	suite.Equalf(2, len(req.Operations), "unexpected number of operations")

	// operations on descendant tables of the same top table are allowed
	err = req.AddPutRequest(newPut("T.child", 3), false)
	suite.NoErrorf(err, "AddPutRequest(child table) got unexpected error")

	// operations spanning top level tables are rejected
	err = req.AddPutRequest(newPut("T2", 4), false)
	suite.Truef(nimbuserr.IsIllegalArgument(err), "AddPutRequest(different table) should have failed with IllegalArgument")

	// the per-batch operation count limit is enforced
	req.Clear()
	suite.Equalf(0, len(req.Operations), "Clear() should remove all operations")
	for i := 0; i < maxBatchOpNumber; i++ {
		err = req.AddPutRequest(newPut("T", i), false)
		suite.NoErrorf(err, "AddPutRequest(op %d) got unexpected error", i)
	}
	err = req.AddPutRequest(newPut("T", maxBatchOpNumber), false)
	suite.Truef(nimbuserr.Is(err, nimbuserr.BatchOpNumberLimitExceeded),
		"adding more than %d operations should have failed with BatchOpNumberLimitExceeded", maxBatchOpNumber)
}

func (suite *RequestTestSuite) TestMultiDeleteRequest() {
	goodPK := types.NewMapValue(map[string]interface{}{"id": 1})

	tests := []struct {
		req *MultiDeleteRequest
		ok  bool
	}{
		{&MultiDeleteRequest{}, false},
		{&MultiDeleteRequest{TableName: "T", Timeout: time.Second}, false},
		{&MultiDeleteRequest{TableName: "T", Key: goodPK, Timeout: time.Second}, true},
		{
			&MultiDeleteRequest{TableName: "T", Key: goodPK, Timeout: time.Second,
				FieldRange: &types.FieldRange{FieldPath: "ts", Start: 0, End: 100}},
			true,
		},
		{
			&MultiDeleteRequest{TableName: "T", Key: goodPK, Timeout: time.Second,
				FieldRange: &types.FieldRange{FieldPath: "ts"}},
			false,
		},
	}

	for i, r := range tests {
		err := r.req.validate()
		if r.ok {
			suite.NoErrorf(err, "Testcase %d: validate(MultiDeleteRequest=%#v) got unexpected error", i+1, r.req)
		} else {
			suite.Truef(nimbuserr.IsIllegalArgument(err), "Testcase %d: validate(MultiDeleteRequest=%#v) should have failed with IllegalArgument", i+1, r.req)
		}
	}
}

func (suite *RequestTestSuite) TestNamespaceDefaults() {
	cfg := &RequestConfig{Namespace: "ns01"}

	get := &GetRequest{TableName: "T", Key: types.NewMapValue(map[string]interface{}{"id": 1})}
	get.setDefaults(cfg)
	suite.Equal("ns01", get.Namespace, "unexpected namespace for GetRequest")

	put := &PutRequest{TableName: "T", Namespace: "other"}
	put.setDefaults(cfg)
	suite.Equal("other", put.Namespace, "explicit namespace should not be overwritten")
}

func (suite *RequestTestSuite) TestOrdinal() {
	tests := []struct {
		i    int
		want string
	}{
		{-1, ""},
		{0, "1st"},
		{1, "2nd"},
		{2, "3rd"},
		{3, "4th"},
		{10, "11th"},
		{11, "12th"},
		{12, "13th"},
		{20, "21st"},
		{21, "22nd"},
		{22, "23rd"},
		{23, "24th"},
	}

	for _, r := range tests {
		suite.Equalf(r.want, ordinal(r.i), "ordinal(%d) got unexpected value", r.i)
	}
}
