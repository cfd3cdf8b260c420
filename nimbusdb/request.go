//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/common"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

const (
	// The maximum number of operations allowed in a WriteMultipleRequest.
	maxBatchOpNumber = 50

	// The maximum number of bytes allowed for the content of a request.
	// Payloads that exceed this value result in a RequestSizeLimitExceeded
	// error.
	requestSizeLimit = 2 * 1024 * 1024

	// The maximum number of bytes allowed for the content of a
	// WriteMultipleRequest.
	batchRequestSizeLimit = 25 * 1024 * 1024
)

// GetRequest represents a request for retrieving a row from a table.
//
// It is used as the input to a Client.Get() operation which returns a single
// row based on the specified key.
type GetRequest struct {

	// TableName specifies the name of the table from which to get the row.
	// It is required and must be non-empty.
	TableName string `json:"tableName"`

	// Key specifies the primary key used for the get operation.
	// It is required and must be non-nil.
	Key *types.MapValue `json:"key"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Consistency specifies the desired consistency policy for the request.
	// It is optional.
	// If set, it must be either types.Absolute or types.Eventual, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default consistency value configured for Client is
	// used, which is determined by RequestConfig.DefaultConsistency().
	Consistency types.Consistency `json:"consistency"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	// If not set, the default namespace configured for Client is used, which
	// is determined by RequestConfig.DefaultNamespace().
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *GetRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	if err = validateKey(r.Key); err != nil {
		return
	}

	if err = validateTimeout(r.Timeout); err != nil {
		return
	}

	if err = validateConsistency(r.Consistency); err != nil {
		return
	}

	return
}

// setDefaults sets default timeout and consistency values specified in
// RequestConfig if they are not specified for the request.
func (r *GetRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Consistency == 0 {
		r.Consistency = cfg.DefaultConsistency()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *GetRequest) shouldRetry() bool {
	return true
}

func (r *GetRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *GetRequest) getTableName() string {
	return r.TableName
}

func (r *GetRequest) getNamespace() string {
	return r.Namespace
}

func (r *GetRequest) doesReads() bool {
	return true
}

func (r *GetRequest) doesWrites() bool {
	return false
}

// PutRequest represents a request used to put a row into a table.
//
// This request can be used to perform unconditional and conditional puts:
//
// 1. Overwrite any existing row. This is the default.
//
// 2. Succeed only if the row does not exist. Specify types.PutIfAbsent for
// the PutOption parameter for this case.
//
// 3. Succeed only if the row exists. Specify types.PutIfPresent for the
// PutOption parameter for this case.
//
// 4. Succeed only if the row exists and its version matches a specific
// version. Specify types.PutIfVersion for the PutOption parameter and a
// desired version for the MatchVersion parameter for this case.
//
// Information about the existing row can be returned on failure of a put
// operation using types.PutIfAbsent or types.PutIfVersion by using the
// ReturnRow option. Use of the ReturnRow option incurs additional cost and
// may affect operation latency.
//
// This request is used as the input to a Client.Put() operation, which
// returns a PutResult. On a successful operation the returned
// PutResult.Version is non-nil. Additional information, such as previous row
// information, may be available in PutResult.
type PutRequest struct {
	// TableName specifies the name of the table to put the row into.
	// It is required and must be non-empty.
	TableName string `json:"tableName"`

	// Value specifies the value of the row to put.
	// It is required and must be non-nil.
	Value *types.MapValue `json:"value"`

	// PutOption specifies the put option for the operation.
	//
	// It is optional and performs an unconditional put by default.
	// If set, it must be types.PutIfAbsent, types.PutIfPresent or
	// types.PutIfVersion.
	PutOption types.PutOption `json:"putOption"`

	// ReturnRow specifies whether information about the existing row should
	// be returned on failure because of a version mismatch or failure of a
	// PutIfAbsent operation.
	ReturnRow bool `json:"returnRow"`

	// TTL specifies the time to live (TTL) value, causing the time to live
	// on the row to be set to the specified value on put.
	// It is optional.
	TTL *types.TimeToLive `json:"ttl"`

	// UseTableTTL specifies whether to use the table's default TTL for the
	// row. If true, and there is an existing row, the operation updates the
	// row's TTL based on the table's default TTL if set. If the table has no
	// default TTL this setting has no effect. By default updating an
	// existing row has no effect on its TTL.
	UseTableTTL bool `json:"useTableTTL"`

	// MatchVersion specifies the desired version to use for a conditional
	// put operation that uses the PutIfVersion option.
	// The Version is usually obtained from GetResult.Version or another
	// method that returns a Version. When set, the put operation will
	// succeed only if the row exists and its Version matches the one
	// specified. This allows an application to ensure that it is updating a
	// row in an atomic read-modify-write cycle.
	//
	// Using this mechanism incurs additional cost.
	MatchVersion types.Version `json:"matchVersion,omitempty"`

	// ExactMatch specifies whether the provided Value must be an exact
	// match for the table schema, with no required fields missing and no
	// extra, unknown fields. The default behavior is to not require an
	// exact match.
	ExactMatch bool `json:"exactMatch"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// isSubRequest specifies whether this is a sub request of a
	// WriteMultiple operation.
	// It is for internal use only.
	isSubRequest bool

	// abortOnFail specifies whether a failure of this operation during a
	// WriteMultiple operation should cause the whole operation to fail.
	// It is copied from the parent WriteOperation, and is for internal use
	// only.
	abortOnFail bool

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *PutRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	if r.Value == nil {
		return nimbuserr.NewIllegalArgument("PutRequest: Value must be non-nil")
	}

	if !r.isSubRequest {
		if err = validateTimeout(r.Timeout); err != nil {
			return
		}
	}

	if r.PutOption == types.PutIfVersion && r.MatchVersion == nil {
		return nimbuserr.NewIllegalArgument("PutRequest: must specify a MatchVersion for the PutIfVersion operation")
	}

	if r.PutOption != types.PutIfVersion && r.MatchVersion != nil {
		return nimbuserr.NewIllegalArgument("PutRequest: MatchVersion cannot be specified for put options other than PutIfVersion")
	}

	if r.UseTableTTL && r.TTL != nil {
		return nimbuserr.NewIllegalArgument("PutRequest: UseTableTTL and TTL are mutually exclusive, cannot specify both of them")
	}

	return nil
}

func (r *PutRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *PutRequest) shouldRetry() bool {
	return true
}

func (r *PutRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *PutRequest) getTableName() string {
	return r.TableName
}

func (r *PutRequest) getNamespace() string {
	return r.Namespace
}

func (r *PutRequest) doesReads() bool {
	return r.PutOption != 0
}

func (r *PutRequest) doesWrites() bool {
	return true
}

// updateTTL indicates whether the put operation should update the TTL of the
// specified row. It returns true if the operation specifies the UseTableTTL
// option or sets a TTL value.
func (r *PutRequest) updateTTL() bool {
	return r.UseTableTTL || r.TTL != nil
}

// DeleteRequest represents a request for deleting a row from a table.
//
// This request can be used to perform unconditional and conditional deletes:
//
// 1. Delete any existing row. This is the default.
//
// 2. Delete only if the row exists and its version matches a specific
// version. A MatchVersion for the request must be specified for this case.
// Using this option in conjunction with ReturnRow allows information about
// the existing row to be returned if the operation fails because of a
// version mismatch. On success no information is returned.
//
// Specifying ReturnRow may incur additional cost and affect operation
// latency.
//
// This request is used as the input to a Client.Delete() operation, which
// returns a DeleteResult. If the operation succeeds, DeleteResult.Success
// returns true.
type DeleteRequest struct {
	// TableName specifies the name of the table from which to delete the
	// row. It is required and must be non-empty.
	TableName string `json:"tableName"`

	// Key specifies the primary key used for the delete operation.
	// It is required and must be non-nil.
	Key *types.MapValue `json:"key"`

	// ReturnRow specifies whether information about the existing row should
	// be returned on failure because of a version mismatch. If a match
	// version has not been specified via MatchVersion, this parameter is
	// ignored.
	//
	// It is optional and defaults to false.
	//
	// Using this option may incur additional cost.
	ReturnRow bool `json:"returnRow"`

	// MatchVersion specifies the version to use for a conditional delete
	// operation. The version is usually obtained from GetResult.Version or
	// another method that returns a version.
	//
	// It is optional.
	// If set, the delete operation will succeed only if the row exists and
	// its version matches the one specified.
	//
	// Using this option will incur additional cost.
	MatchVersion types.Version `json:"matchVersion,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// isSubRequest specifies whether this is a sub request of a
	// WriteMultiple operation.
	// It is for internal use only.
	isSubRequest bool

	// abortOnFail specifies whether a failure of this operation during a
	// WriteMultiple operation should cause the whole operation to fail.
	// It is copied from the parent WriteOperation, and is for internal use
	// only.
	abortOnFail bool

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *DeleteRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	if err = validateKey(r.Key); err != nil {
		return
	}

	if !r.isSubRequest {
		if err = validateTimeout(r.Timeout); err != nil {
			return
		}
	}

	return
}

func (r *DeleteRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *DeleteRequest) shouldRetry() bool {
	return true
}

func (r *DeleteRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *DeleteRequest) getTableName() string {
	return r.TableName
}

func (r *DeleteRequest) getNamespace() string {
	return r.Namespace
}

func (r *DeleteRequest) doesReads() bool {
	return true
}

func (r *DeleteRequest) doesWrites() bool {
	return true
}

// MultiDeleteRequest represents the input to a Client.MultiDelete operation
// which can be used to delete a range of values that match the primary key
// and range provided.
//
// A range is specified using a partial key plus a range based on the portion
// of the key that is not provided. For example if a table's primary key is
// <id, timestamp> and its shard key is the "id", it is possible to delete a
// range of timestamp values for a specific id by providing an id but no
// timestamp in the value used for Key and providing a range of timestamp
// values in the FieldRange.
//
// Because this operation can exceed the maximum amount of data modified in a
// single operation, a continuation key can be used to continue the
// operation. The continuation key is obtained from
// MultiDeleteResult.ContinuationKey and set in a new request using
// MultiDeleteRequest.ContinuationKey. Operations with a continuation key
// still require the primary key.
type MultiDeleteRequest struct {
	// TableName specifies the name of the table for the request.
	// It is required and must be non-empty.
	TableName string `json:"tableName"`

	// Key specifies the partial key used for the request.
	// It is required and must be non-nil.
	Key *types.MapValue `json:"key"`

	// ContinuationKey specifies the continuation key used to continue the
	// operation.
	ContinuationKey types.ContinuationKey `json:"continuationKey,omitempty"`

	// FieldRange specifies the FieldRange to be used for the operation.
	// It is optional, but required to delete a specific range of rows.
	FieldRange *types.FieldRange `json:"fieldRange,omitempty"`

	// MaxWriteKB specifies the limit on the total KB written during this
	// operation.
	//
	// It is optional. If not set, or set to 0, there is no
	// application-defined limit. This value can only reduce the system
	// defined limit. An attempt to increase the limit beyond the system
	// defined limit will cause an IllegalArgument error.
	MaxWriteKB uint `json:"maxWriteKB,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *MultiDeleteRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	if err = validateTimeout(r.Timeout); err != nil {
		return
	}

	if err = validateKey(r.Key); err != nil {
		return
	}

	if r.FieldRange == nil {
		return
	}

	return validateFieldRange(r.FieldRange)
}

func (r *MultiDeleteRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *MultiDeleteRequest) shouldRetry() bool {
	return true
}

func (r *MultiDeleteRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *MultiDeleteRequest) getTableName() string {
	return r.TableName
}

func (r *MultiDeleteRequest) getNamespace() string {
	return r.Namespace
}

func (r *MultiDeleteRequest) doesReads() bool {
	return true
}

func (r *MultiDeleteRequest) doesWrites() bool {
	return true
}

// WriteMultipleRequest represents the input to a Client.WriteMultiple()
// operation.
//
// This request can be used to perform a sequence of PutRequest or
// DeleteRequest operations associated with tables that share the same shard
// key portion of their primary keys. The WriteMultiple operation as a whole
// is atomic. It is an efficient way to atomically modify multiple related
// rows.
//
// On a successful operation WriteMultipleResult.Success returns true and the
// execution result of each operation can be retrieved using
// WriteMultipleResult.ResultSet.
//
// If the WriteMultiple operation is aborted because of the failure of an
// operation with AbortOnFail set to true, then WriteMultipleResult.Success
// returns false and the index of the failed operation can be accessed using
// WriteMultipleResult.FailedOperationIndex.
type WriteMultipleRequest struct {
	// TableName is ignored: table names are derived from the sub requests.
	TableName string `json:"tableName"`

	// Operations specifies a list of operations for the request.
	// Usually it should not be set explicitly, instead, use the
	// AddPutRequest() or AddDeleteRequest() methods to add the operations.
	Operations []*WriteOperation `json:"operations"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	// Unlike TableName, the Namespace in WriteMultipleRequest is used as the
	// namespace for all sub requests. Namespaces in sub requests are
	// ignored.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *WriteMultipleRequest) validate() (err error) {
	if err = validateTimeout(r.Timeout); err != nil {
		return
	}

	if len(r.Operations) == 0 {
		return nimbuserr.NewIllegalArgument("WriteMultipleRequest: must specify at least one operation")
	}

	if len(r.Operations) > maxBatchOpNumber {
		return nimbuserr.New(nimbuserr.BatchOpNumberLimitExceeded,
			"WriteMultipleRequest: the number of operations %d exceeds the limit of %d",
			len(r.Operations), maxBatchOpNumber)
	}

	if len(r.Operations) == 1 {
		return r.Operations[0].validate()
	}

	return r.validateTables()
}

func (r *WriteMultipleRequest) validateTables() (err error) {
	topTableName := ""
	for i, op := range r.Operations {
		if op == nil {
			return nimbuserr.NewIllegalArgument("WriteMultipleRequest: the %s operation is nil", ordinal(i))
		}
		if err = op.validate(); err != nil {
			return
		}
		if topTableName == "" {
			topTableName = topLevelTableName(op.tableName())
			continue
		}
		// sub requests may target the same table or descendant tables of
		// the same top level table
		opTopTable := topLevelTableName(op.tableName())
		if !strings.EqualFold(topTableName, opTopTable) {
			return nimbuserr.NewIllegalArgument("WriteMultipleRequest: "+
				"all sub requests should operate on the same table or "+
				"descendant tables belonging to the same top level table. "+
				"The table '%s' is different from the table of other requests: '%s'",
				opTopTable, topTableName)
		}
	}

	return nil
}

func (r *WriteMultipleRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	for _, op := range r.Operations {
		op.setDefaults(cfg)
	}
}

func (r *WriteMultipleRequest) shouldRetry() bool {
	return true
}

func (r *WriteMultipleRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *WriteMultipleRequest) getTableName() string {
	return r.TableName
}

func (r *WriteMultipleRequest) getNamespace() string {
	return r.Namespace
}

func (r *WriteMultipleRequest) doesReads() bool {
	return true
}

func (r *WriteMultipleRequest) doesWrites() bool {
	return true
}

// Clear removes all operations from the WriteMultiple request.
func (r *WriteMultipleRequest) Clear() {
	r.TableName = ""
	r.Operations = nil
}

// AddPutRequest adds a Put request as a sub request of the WriteMultiple
// request. If abortOnFail is true, the WriteMultiple request will fail if
// this sub request fails.
func (r *WriteMultipleRequest) AddPutRequest(p *PutRequest, abortOnFail bool) (err error) {
	if p == nil {
		return nimbuserr.NewIllegalArgument("PutRequest must be non-nil")
	}
	if len(r.Operations) >= maxBatchOpNumber {
		return nimbuserr.New(nimbuserr.BatchOpNumberLimitExceeded,
			"WriteMultipleRequest: cannot add more than %d operations", maxBatchOpNumber)
	}
	p.isSubRequest = true
	p.abortOnFail = abortOnFail
	if err = p.validate(); err != nil {
		return
	}
	r.Operations = append(r.Operations, &WriteOperation{
		PutRequest:  p,
		AbortOnFail: abortOnFail,
	})
	return r.validateTables()
}

// AddDeleteRequest adds a Delete request as a sub request of the
// WriteMultiple request. If abortOnFail is true, the WriteMultiple request
// will fail if this sub request fails.
func (r *WriteMultipleRequest) AddDeleteRequest(d *DeleteRequest, abortOnFail bool) (err error) {
	if d == nil {
		return nimbuserr.NewIllegalArgument("DeleteRequest must be non-nil")
	}
	if len(r.Operations) >= maxBatchOpNumber {
		return nimbuserr.New(nimbuserr.BatchOpNumberLimitExceeded,
			"WriteMultipleRequest: cannot add more than %d operations", maxBatchOpNumber)
	}
	d.isSubRequest = true
	d.abortOnFail = abortOnFail
	if err = d.validate(); err != nil {
		return
	}
	r.Operations = append(r.Operations, &WriteOperation{
		DeleteRequest: d,
		AbortOnFail:   abortOnFail,
	})
	return r.validateTables()
}

// WriteOperation represents a put or delete operation that can be added to a
// WriteMultipleRequest. Specify either a PutRequest or a DeleteRequest for
// the WriteOperation. Specifying both in a single WriteOperation causes an
// IllegalArgument error.
type WriteOperation struct {
	// AbortOnFail specifies whether to abort all operations included in the
	// same WriteMultipleRequest when this operation fails.
	AbortOnFail bool `json:"abortOnFail"`

	// DeleteRequest specifies a delete operation.
	DeleteRequest *DeleteRequest `json:"deleteRequest,omitempty"`

	// PutRequest specifies a put operation.
	PutRequest *PutRequest `json:"putRequest,omitempty"`
}

func (op *WriteOperation) validate() error {
	if op.DeleteRequest != nil && op.PutRequest != nil {
		return nimbuserr.NewIllegalArgument("only one of the PutRequest or DeleteRequest may be specified for WriteOperation")
	}

	if op.DeleteRequest == nil && op.PutRequest == nil {
		return nimbuserr.NewIllegalArgument("either PutRequest or DeleteRequest should be specified for WriteOperation")
	}

	if op.DeleteRequest != nil {
		return op.DeleteRequest.validate()
	}

	return op.PutRequest.validate()
}

func (op *WriteOperation) setDefaults(cfg *RequestConfig) {
	if op.DeleteRequest != nil {
		op.DeleteRequest.setDefaults(cfg)
		return
	}

	if op.PutRequest != nil {
		op.PutRequest.setDefaults(cfg)
	}
}

func (op *WriteOperation) tableName() string {
	if op.DeleteRequest != nil {
		return op.DeleteRequest.TableName
	}

	if op.PutRequest != nil {
		return op.PutRequest.TableName
	}

	return ""
}

// PrepareRequest encapsulates a query prepare call. Query preparation allows
// queries to be compiled (prepared) and reused, saving time and resources.
// Use of prepared queries vs direct execution of query strings is highly
// recommended.
//
// Prepared queries are implemented as PreparedStatement which supports bind
// variables in queries which can be used to more easily reuse a query by
// parameterization.
type PrepareRequest struct {
	// Statement specifies a query statement.
	// It is required and must be non-empty.
	Statement string `json:"statement"`

	// GetQueryPlan specifies whether a string representation of the query
	// execution plan should be included in the PrepareResult.
	GetQueryPlan bool `json:"getQueryPlan"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *PrepareRequest) validate() (err error) {
	if r.Statement == "" {
		return nimbuserr.NewIllegalArgument("PrepareRequest: Statement must be non-empty")
	}

	return validateTimeout(r.Timeout)
}

func (r *PrepareRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *PrepareRequest) shouldRetry() bool {
	return true
}

func (r *PrepareRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *PrepareRequest) getTableName() string {
	return ""
}

func (r *PrepareRequest) getNamespace() string {
	return r.Namespace
}

func (r *PrepareRequest) doesReads() bool {
	return true
}

func (r *PrepareRequest) doesWrites() bool {
	return false
}

// PreparedStatement encapsulates a prepared query statement. It includes
// state that can be sent to a server and executed without re-parsing the
// query. It includes bind variables which may be set for each successive use
// of the query.
//
// A single instance of PreparedStatement is goroutine-safe if bind variables
// are not used. If bind variables are to be used and the statement shared
// among goroutines, additional instances of PreparedStatement should be
// created.
type PreparedStatement struct {
	// sqlText is the application provided query text.
	sqlText string

	// queryPlan is the string representation of the query plan, if it was
	// requested in the PrepareRequest.
	queryPlan string

	// tableName is the table name returned from the prepare result, if any.
	tableName string

	// statement is the serialized prepared statement created at the backend
	// store. It is opaque for the driver and is sent back to the server
	// every time a new batch of results is needed.
	statement []byte

	// bindVariables associates names to values for external variables used
	// in the query. Populated by the application using SetVariable().
	bindVariables map[string]interface{}
}

// The minimum length of byte sequences that represent a serialized prepared
// statement. Used for a sanity check.
const minSerializedStmtLen = 10

func newPreparedStatement(sqlText, queryPlan, tableName string, statement []byte) (*PreparedStatement, error) {
	if len(statement) < minSerializedStmtLen {
		return nil, nimbuserr.NewIllegalArgument("invalid prepared query, cannot be nil")
	}

	return &PreparedStatement{
		sqlText:   sqlText,
		queryPlan: queryPlan,
		tableName: tableName,
		statement: statement,
	}, nil
}

// SetVariable sets a value for the specified variable used for the query.
// Existing variables with the same name are silently overwritten. The name
// and type of the value are validated when the query is executed.
func (p *PreparedStatement) SetVariable(name string, value interface{}) error {
	if name == "" {
		return nimbuserr.NewIllegalArgument("variable name must be non-empty")
	}

	if p.bindVariables == nil {
		p.bindVariables = make(map[string]interface{}, 5)
	}

	p.bindVariables[name] = value
	return nil
}

// ClearVariables removes all bind variables from the statement.
func (p *PreparedStatement) ClearVariables() {
	p.bindVariables = nil
}

// GetQueryPlan returns the string representation of the query execution
// plan, if it was requested in the PrepareRequest; empty otherwise.
func (p *PreparedStatement) GetQueryPlan() string {
	return p.queryPlan
}

// QueryRequest encapsulates a query.
//
// A query may be either a string query statement or a prepared query, which
// may include bind variables.
//
// For performance reasons prepared queries are preferred for queries that
// may be reused.
//
// A single request may return a portion of the matching rows along with a
// continuation key in QueryResult.ContinuationKey. Set that key on the next
// request's ContinuationKey field to resume the query. A nil continuation
// key in the result means the query is complete. Alternately
// Client.QueryIterator drives the continuation loop internally.
type QueryRequest struct {
	// Statement specifies a query statement.
	Statement string `json:"statement,omitempty"`

	// PreparedStatement specifies the prepared query statement.
	PreparedStatement *PreparedStatement `json:"preparedStatement,omitempty"`

	// Limit specifies the limit on the number of items returned by the
	// operation. This allows an operation to return less than the default
	// amount of data.
	Limit uint `json:"limit,omitempty"`

	// MaxReadKB specifies the limit on the total data read during this
	// operation, in KB. This value can only reduce the system defined
	// limit; an attempt to increase it causes an IllegalArgument error.
	// This limit is independent of read units consumed by the operation.
	//
	// For tables with relatively low provisioned read throughput it is
	// recommended to reduce this limit to at most half of the provisioned
	// throughput to avoid or reduce throttling errors.
	MaxReadKB uint `json:"maxReadKB,omitempty"`

	// MaxWriteKB specifies the limit on the total data written during this
	// operation, in KB. This limit is independent of write units consumed
	// by the operation.
	MaxWriteKB uint `json:"maxWriteKB,omitempty"`

	// MaxMemoryConsumption specifies the maximum amount of memory in bytes
	// that may be consumed by the query at the client for operations such
	// as duplicate elimination and sorting. Such operations may need to
	// cache a large subset of the result set in client memory.
	//
	// The default value is 1GB.
	MaxMemoryConsumption int64 `json:"maxMemoryConsumption"`

	// Consistency specifies the desired consistency policy for the request.
	// It is optional.
	// If set, it must be either types.Absolute or types.Eventual, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default consistency value configured for Client is
	// used, which is determined by RequestConfig.DefaultConsistency().
	Consistency types.Consistency `json:"consistency,omitempty"`

	// ContinuationKey continues a query that returned this key in its
	// QueryResult. It must be either nil or a key returned by the server;
	// any other value results in an IllegalArgument error.
	ContinuationKey types.ContinuationKey `json:"continuationKey,omitempty"`

	// Timeout specifies the timeout value for the request.
	// This is the timeout of a single server interaction, not of the query
	// as a whole.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// TableName should be set to the table specified in the query. If not
	// set, rate limiting may not work properly for the query request.
	TableName string `json:"tableName,omitempty"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional. A namespace specified in the query
	// statement overrides this setting.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *QueryRequest) validate() (err error) {
	if err = validateTimeout(r.Timeout); err != nil {
		return
	}

	if err = validateConsistency(r.Consistency); err != nil {
		return
	}

	if r.Statement == "" && r.PreparedStatement == nil {
		return nimbuserr.NewIllegalArgument("QueryRequest: either Statement or PreparedStatement should be set")
	}

	return
}

func (r *QueryRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Consistency == 0 {
		r.Consistency = cfg.DefaultConsistency()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *QueryRequest) shouldRetry() bool {
	return true
}

func (r *QueryRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *QueryRequest) getTableName() string {
	if r.TableName != "" {
		return r.TableName
	}
	if r.PreparedStatement != nil {
		return r.PreparedStatement.tableName
	}
	return ""
}

func (r *QueryRequest) getNamespace() string {
	return r.Namespace
}

func (r *QueryRequest) doesReads() bool {
	return true
}

func (r *QueryRequest) doesWrites() bool {
	return true
}

// isPrepared reports whether the query request has been prepared.
func (r *QueryRequest) isPrepared() bool {
	return r.PreparedStatement != nil
}

// The default maximum amount of memory, in bytes, allowed to be consumed by
// a query at the client, that is 1GB.
const defaultMaxMem int64 = 1024 * 1024 * 1024

// GetMaxMemoryConsumption returns the maximum number of memory bytes that
// may be consumed by the query at the client for operations such as
// duplicate elimination and sorting.
func (r *QueryRequest) GetMaxMemoryConsumption() int64 {
	if r.MaxMemoryConsumption == 0 {
		r.MaxMemoryConsumption = defaultMaxMem
	}

	return r.MaxMemoryConsumption
}

// TableRequest represents a request used to manage table schema and limits.
//
// The following operations are supported by TableRequest:
//
//	create tables
//	drop tables
//	modify tables: add or remove columns
//	create indexes
//	drop indexes
//	change table limits of an existing table
//
// An operation that creates a table must specify a Statement to define the
// table schema and a TableLimits to define the throughput, storage and mode
// (provisioned or on demand) desired for the table.
//
// Operations that drop or modify a table, or create or drop an index, must
// specify a Statement. These operations do not need to specify the TableName
// explicitly as the table name is inferred from the Statement. An
// IllegalArgument error is returned if both Statement and TableName are
// specified.
//
// An operation that changes the limits of an existing table must specify the
// TableName and a TableLimits.
//
// Execution of operations specified by TableRequest is implicitly
// asynchronous. These are potentially long-running operations. This request
// is used as the input of a Client.DoTableRequest() operation, which returns
// a TableResult that can be used to poll until the table reaches the desired
// state.
type TableRequest struct {
	// Statement specifies the statement for table relevant operations.
	// It is required for operations that manage table schema.
	Statement string `json:"statement"`

	// TableName specifies the name of an existing table.
	//
	// It is required for operations that change the limits of an existing
	// table. It should not be specified for other operations.
	TableName string `json:"tableName,omitempty"`

	// TableLimits specifies desired read/write throughput, storage limits
	// and mode (provisioned or on demand) for the table.
	//
	// It is required for operations that create tables or change table
	// limits. It should not be specified for other operations.
	TableLimits *TableLimits `json:"tableLimits,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultTableRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *TableRequest) validate() (err error) {
	if r.Statement == "" && r.TableName == "" {
		return nimbuserr.NewIllegalArgument("TableRequest: either Statement or TableName should be specified")
	}

	if r.Statement != "" && r.TableName != "" {
		return nimbuserr.NewIllegalArgument("TableRequest: cannot specify both Statement and TableName")
	}

	if r.TableLimits != nil {
		if err = r.TableLimits.validate(); err != nil {
			return
		}
	}

	return validateTimeout(r.Timeout)
}

func (r *TableRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultTableRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *TableRequest) shouldRetry() bool {
	return false
}

func (r *TableRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *TableRequest) getTableName() string {
	return r.TableName
}

func (r *TableRequest) getNamespace() string {
	return r.Namespace
}

func (r *TableRequest) doesReads() bool {
	return false
}

func (r *TableRequest) doesWrites() bool {
	return false
}

// TableLimits is used during table creation to specify the throughput and
// capacity to be consumed by the table. It is also used in an operation to
// change the limits of an existing table. Client.DoTableRequest() and
// TableRequest are used to perform these operations. The specified
// throughput and capacity values are enforced by the system and used for
// billing purposes.
//
// Throughput limits are defined in terms of read units and write units.
//
// A read unit represents 1 eventually consistent read per second for data up
// to 1 KB in size. A read that is absolutely consistent is double that,
// consuming 2 read units for a read of up to 1 KB. This means that if an
// application is to use types.Absolute consistency, it may need to specify
// additional read units when creating a table.
//
// A write unit represents 1 write per second of data up to 1 KB in size.
//
// In addition to throughput, table capacity must be specified to indicate
// the maximum amount of storage, in gigabytes, allowed for the table.
//
// All 3 values must be used whenever using this struct. There are no
// defaults and no mechanism to indicate "no change".
type TableLimits struct {
	// ReadUnits specifies the desired throughput of read operations in
	// terms of read units.
	ReadUnits uint `json:"readUnits"`

	// WriteUnits specifies the desired throughput of write operations in
	// terms of write units.
	WriteUnits uint `json:"writeUnits"`

	// StorageGB specifies the maximum amount of storage to be consumed by
	// the table, in gigabytes.
	StorageGB uint `json:"storageGB"`

	// CapacityMode specifies if the table is provisioned (the default) or
	// on demand.
	CapacityMode types.CapacityMode `json:"capacityMode"`
}

// ProvisionedTableLimits returns a TableLimits struct set up for provisioned
// (fixed maximum read/write limits) tables. This is the default.
func ProvisionedTableLimits(RUs, WUs, GB uint) *TableLimits {
	return &TableLimits{
		ReadUnits:    RUs,
		WriteUnits:   WUs,
		StorageGB:    GB,
		CapacityMode: types.Provisioned,
	}
}

// OnDemandTableLimits returns a TableLimits struct set up for on demand
// (flexible read/write limits) tables.
func OnDemandTableLimits(GB uint) *TableLimits {
	return &TableLimits{
		ReadUnits:    0,
		WriteUnits:   0,
		StorageGB:    GB,
		CapacityMode: types.OnDemand,
	}
}

func (l *TableLimits) validate() (err error) {
	if l.CapacityMode != types.Provisioned && l.CapacityMode != types.OnDemand {
		return nimbuserr.NewIllegalArgument("TableLimits CapacityMode must be one of Provisioned or OnDemand")
	}
	if l.StorageGB == 0 {
		return nimbuserr.NewIllegalArgument("TableLimits StorageGB must be positive")
	}
	if l.CapacityMode == types.Provisioned {
		if l.ReadUnits == 0 || l.WriteUnits == 0 {
			return nimbuserr.NewIllegalArgument("TableLimits read/write units must be positive")
		}
	} else if l.ReadUnits != 0 || l.WriteUnits != 0 {
		return nimbuserr.NewIllegalArgument("TableLimits read/write units must be zero for an OnDemand table")
	}
	return nil
}

// GetTableRequest represents a request for retrieving table information.
//
// It is used as the input of a Client.GetTable() operation which returns
// static information associated with a table, as returned in TableResult.
// This information only changes in response to a change in table schema or a
// change in provisioned throughput or capacity for the table.
type GetTableRequest struct {
	// TableName specifies the name of the table for the request.
	// It is required and must be non-empty.
	TableName string `json:"tableName"`

	// OperationID specifies the operation id to use for the request.
	// It is optional.
	// The operation id can be obtained via TableResult.OperationID. It
	// represents an asynchronous operation that may be in progress. It is
	// used to examine the result of the operation and if the operation has
	// failed an error will be returned in response to a Client.GetTable()
	// operation. If the operation is in progress or has completed
	// successfully, the state of the table is returned.
	OperationID string `json:"operationID,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *GetTableRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	return validateTimeout(r.Timeout)
}

func (r *GetTableRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *GetTableRequest) shouldRetry() bool {
	return true
}

func (r *GetTableRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *GetTableRequest) getTableName() string {
	return r.TableName
}

func (r *GetTableRequest) getNamespace() string {
	return r.Namespace
}

func (r *GetTableRequest) doesReads() bool {
	return false
}

func (r *GetTableRequest) doesWrites() bool {
	return false
}

// GetIndexesRequest represents a request for retrieving index information.
//
// It is used as the input to a Client.GetIndexes() operation which returns
// the information of a specific index or all indexes of the specified table,
// as returned in GetIndexesResult.
type GetIndexesRequest struct {
	// TableName specifies the name of the table for the request.
	// It is required and must be non-empty.
	TableName string `json:"tableName"`

	// IndexName specifies the name of the index for the request.
	// It is optional.
	// If not set, all indexes of the specified table are returned.
	IndexName string `json:"indexName,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	// Namespace is used on-premises only. It defines a namespace to use for
	// the request. It is optional.
	Namespace string `json:"namespace,omitempty"`

	common.InternalRequestData
}

func (r *GetIndexesRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	return validateTimeout(r.Timeout)
}

func (r *GetIndexesRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}

	if r.Namespace == "" {
		r.Namespace = cfg.DefaultNamespace()
	}
}

func (r *GetIndexesRequest) shouldRetry() bool {
	return false
}

func (r *GetIndexesRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *GetIndexesRequest) getTableName() string {
	return r.TableName
}

func (r *GetIndexesRequest) getNamespace() string {
	return r.Namespace
}

func (r *GetIndexesRequest) doesReads() bool {
	return false
}

func (r *GetIndexesRequest) doesWrites() bool {
	return false
}

// ListTablesRequest represents a request to list all available tables.
//
// It is used as the input to a Client.ListTables() operation, which lists
// all available tables. If further information about a specific table is
// desired, use a GetTableRequest.
type ListTablesRequest struct {
	// StartIndex specifies the index to use to start returning table names.
	// This is related to the ListTablesResult.LastIndexReturned from a
	// previous request and can be used to page table names.
	// It is optional.
	// If not set, the list starts at index 0.
	StartIndex uint `json:"startIndex,omitempty"`

	// Limit specifies the maximum number of table names to return in the
	// operation.
	// It is optional.
	// If not set or set to 0, there is no application imposed limit.
	Limit uint `json:"limit,omitempty"`

	// Namespace is used on-premises only. If set, only tables belonging to
	// the specified namespace are listed.
	// It is optional.
	Namespace string `json:"namespace,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	common.InternalRequestData
}

func (r *ListTablesRequest) validate() error {
	return validateTimeout(r.Timeout)
}

func (r *ListTablesRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}
}

func (r *ListTablesRequest) shouldRetry() bool {
	return false
}

func (r *ListTablesRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *ListTablesRequest) getTableName() string {
	return ""
}

func (r *ListTablesRequest) getNamespace() string {
	return r.Namespace
}

func (r *ListTablesRequest) doesReads() bool {
	return false
}

func (r *ListTablesRequest) doesWrites() bool {
	return false
}

// TableUsageRequest represents the input of a Client.GetTableUsage()
// operation which returns dynamic information associated with a table, as
// returned in TableUsageResult. This information includes a time series of
// usage snapshots, each indicating data such as read and write throughput
// and throttling events, as found in TableUsageResult.UsageRecords.
//
// It is possible to return a range of usage records or, by default, only the
// most recent usage record. Usage records are created on a regular basis and
// maintained for a period of time. Only records for time periods that have
// completed are returned so that a user never sees changing data for a
// specific range.
type TableUsageRequest struct {
	// TableName specifies the name of the table for the request.
	// It is required and must be non-empty.
	TableName string `json:"tableName"`

	// StartTime specifies the start time to use for the request.
	// It is optional.
	// If no time range is set for this request the most recent complete
	// usage record is returned.
	StartTime time.Time `json:"startTime,omitempty"`

	// EndTime specifies the end time to use for the request.
	// It is optional.
	EndTime time.Time `json:"endTime,omitempty"`

	// Limit specifies the limit on the number of usage records desired.
	// It is optional.
	// If not set, or set to 0, there is no limit, but not all usage records
	// may be returned in a single request due to size limitations.
	Limit uint `json:"limit,omitempty"`

	// StartIndex sets the index to use to start returning usage records.
	// This is related to the TableUsageResult.LastReturnedIndex from a
	// previous request and can be used to page usage records.
	// If not set, the list starts at index 0.
	StartIndex int `json:"startIndex,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	common.InternalRequestData
}

func (r *TableUsageRequest) validate() (err error) {
	if err = validateTableName(r.TableName); err != nil {
		return
	}

	if err = validateTimeout(r.Timeout); err != nil {
		return
	}

	if !r.StartTime.IsZero() && !r.EndTime.IsZero() && r.StartTime.After(r.EndTime) {
		return nimbuserr.NewIllegalArgument("TableUsageRequest: EndTime must be after StartTime")
	}

	return
}

func (r *TableUsageRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}
}

func (r *TableUsageRequest) shouldRetry() bool {
	return false
}

func (r *TableUsageRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *TableUsageRequest) getTableName() string {
	return r.TableName
}

func (r *TableUsageRequest) getNamespace() string {
	return ""
}

func (r *TableUsageRequest) doesReads() bool {
	return false
}

func (r *TableUsageRequest) doesWrites() bool {
	return false
}

// SystemRequest represents a request used to perform any table-independent
// administrative operation such as create/drop of namespaces and security
// relevant operations involving users and roles. These operations are
// asynchronous and completion needs to be checked.
//
// Examples of statements used in this object include:
//
//	CREATE NAMESPACE mynamespace
//	CREATE USER some_user IDENTIFIED BY password
//	CREATE ROLE some_role
//	GRANT ROLE some_role TO USER some_user
//
// Execution of operations specified by this request is implicitly
// asynchronous. These are potentially long-running operations. This request
// is used as the input of a Client.DoSystemRequest() operation, which
// returns a SystemResult that can be used to poll until the operation
// succeeds or fails.
//
// This request is used for on-premise only.
type SystemRequest struct {
	// Statement specifies the statement used for the operation.
	// It is required and must be non-empty.
	Statement string `json:"statement"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultTableRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	common.InternalRequestData
}

func (r *SystemRequest) validate() (err error) {
	if r.Statement == "" {
		return nimbuserr.NewIllegalArgument("SystemRequest: Statement must be non-empty")
	}

	return validateTimeout(r.Timeout)
}

func (r *SystemRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultTableRequestTimeout()
	}
}

func (r *SystemRequest) shouldRetry() bool {
	return false
}

func (r *SystemRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *SystemRequest) getTableName() string {
	return ""
}

func (r *SystemRequest) getNamespace() string {
	return ""
}

func (r *SystemRequest) doesReads() bool {
	return false
}

func (r *SystemRequest) doesWrites() bool {
	return false
}

// SystemStatusRequest represents a request used to check the status of an
// operation started using a SystemRequest.
//
// It is used as the input of a Client.GetSystemStatus() operation, which
// returns the current status of the SystemRequest operation.
//
// This request is used for on-premise only.
type SystemStatusRequest struct {
	// OperationID specifies the operation id to use for the request.
	// It is required and must be non-empty.
	// The operation id can be obtained via SystemResult.OperationID.
	OperationID string `json:"operationID"`

	// Statement specifies the statement for the operation.
	// It is optional.
	Statement string `json:"statement,omitempty"`

	// Timeout specifies the timeout value for the request.
	// It is optional.
	// If set, it must be greater than or equal to 1 millisecond, otherwise
	// an IllegalArgument error will be returned.
	// If not set, the default timeout value configured for Client is used,
	// which is determined by RequestConfig.DefaultRequestTimeout().
	Timeout time.Duration `json:"timeout"`

	common.InternalRequestData
}

func (r *SystemStatusRequest) validate() (err error) {
	if r.OperationID == "" {
		return nimbuserr.NewIllegalArgument("SystemStatusRequest: OperationID must be non-empty")
	}

	return validateTimeout(r.Timeout)
}

func (r *SystemStatusRequest) setDefaults(cfg *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = cfg.DefaultRequestTimeout()
	}
}

func (r *SystemStatusRequest) shouldRetry() bool {
	return true
}

func (r *SystemStatusRequest) timeout() time.Duration {
	return r.Timeout
}

func (r *SystemStatusRequest) getTableName() string {
	return ""
}

func (r *SystemStatusRequest) getNamespace() string {
	return ""
}

func (r *SystemStatusRequest) doesReads() bool {
	return false
}

func (r *SystemStatusRequest) doesWrites() bool {
	return false
}

// topLevelTableName returns the top table name based on dot separators.
func topLevelTableName(tableName string) string {
	if tableName == "" {
		return tableName
	}
	return strings.Split(tableName, ".")[0]
}

// validateTimeout validates that the specified timeout is greater than or
// equal to 1 millisecond.
func validateTimeout(timeout time.Duration) error {
	if timeout < time.Millisecond {
		return nimbuserr.NewIllegalArgument("Timeout must be greater than or equal to 1 millisecond")
	}

	return nil
}

// validateConsistency validates that the specified consistency value is
// either types.Eventual or types.Absolute.
func validateConsistency(consistency types.Consistency) error {
	switch consistency {
	case types.Eventual, types.Absolute:
		return nil

	default:
		return nimbuserr.NewIllegalArgument("Consistency must be either Absolute or Eventual")
	}
}

// validateTableName validates that the specified table name is non-empty.
func validateTableName(tableName string) error {
	if tableName == "" {
		return nimbuserr.NewIllegalArgument("TableName must be non-empty")
	}

	return nil
}

// validateKey validates that the specified key is non-nil and contains at
// least one entry.
func validateKey(key *types.MapValue) error {
	if key == nil {
		return nimbuserr.NewIllegalArgument("Key must be non-nil")
	}

	if key.Len() == 0 {
		return nimbuserr.NewIllegalArgument("Key must be non-empty")
	}

	return nil
}

// validateFieldRange validates the specified field range values. The Start
// and End values specified must be of the same type, and at least one of
// them must be specified.
func validateFieldRange(r *types.FieldRange) error {
	if r == nil {
		return nimbuserr.NewIllegalArgument("FieldRange is nil")
	}

	if r.FieldPath == "" {
		return nimbuserr.NewIllegalArgument("FieldRange FieldPath must be non-empty")
	}

	if r.Start == nil && r.End == nil {
		return nimbuserr.NewIllegalArgument("must specify a Start or End value for FieldRange")
	}

	if r.Start != nil && r.End != nil {
		t1 := reflect.TypeOf(r.Start).Kind()
		t2 := reflect.TypeOf(r.End).Kind()
		if t1 != t2 {
			return nimbuserr.NewIllegalArgument("FieldRange Start type (%T) is different from End type (%T)",
				r.Start, r.End)
		}
	}

	return nil
}

func ordinal(i int) string {
	if i < 0 {
		return ""
	}

	var sfx string
	n := i + 1
	switch n {
	case 11, 12, 13:
		sfx = "th"
	default:
		switch n % 10 {
		case 1:
			sfx = "st"
		case 2:
			sfx = "nd"
		case 3:
			sfx = "rd"
		default:
			sfx = "th"
		}
	}

	return fmt.Sprintf("%d%s", n, sfx)
}
