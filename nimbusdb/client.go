//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/auth"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/common"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/httputil"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/internal/sdkutil"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/jsonutil"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/logger"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

// Client represents a Nimbus NoSQL database client used to access the
// Nimbus NoSQL cloud service or on-premise Nimbus NoSQL database servers.
type Client struct {
	// Config specifies the configuration parameters associated with the
	// Client. Most configuration parameters have default values that
	// should suffice for use.
	Config

	// HTTPClient represents an HTTP client associated with a Client
	// instance. It is used to send client requests to the server and
	// receive responses.
	HTTPClient *httputil.HTTPClient

	// logger specifies a Client logger used to log events.
	logger *logger.Logger

	// requestURL represents the server URL that is the target of all
	// client requests.
	requestURL string

	// clientID identifies this client instance in request headers.
	clientID string

	// requestID is a counter used, together with clientID, to give each
	// request a globally unique id.
	requestID int32

	// serverHost represents the host of the server.
	serverHost string

	// executor specifies a request executor.
	// This is used internally by tests for customizing request execution.
	executor httputil.RequestExecutor

	// handleResponse specifies a function that is used to handle the
	// response returned from the server.
	// This is used internally by tests for customizing response processing.
	handleResponse func(httpResp *http.Response, req Request) (Result, error)

	// isCloud represents whether the client connects to the cloud service.
	isCloud bool

	// Internal rate limiting: cloud only.
	rateLimiterMap map[string]common.RateLimiterPair

	// tableLimitUpdateMap keeps, per table, the next time the table limits
	// feeding the rate limiters should be refreshed, in Unix nanos.
	tableLimitUpdateMap map[string]int64
	limitMux            sync.Mutex

	// for managing one-time messages
	oneTimeMessages map[string]struct{}

	// sessionStr represents a session cookie to use, if non-empty.
	sessionStr string

	// observers registered via AddRequestObserver.
	observers   []RequestObserver
	observerMux sync.RWMutex

	// for generic locking
	lockMux sync.Mutex
}

var (
	errNilRequest       = nimbuserr.NewIllegalArgument("request must be non-nil")
	errNilContext       = nimbuserr.NewIllegalArgument("nil context")
	errUnexpectedResult = errors.New("got unexpected result for the request")
)

const (
	// sessionCookieField is used to check for persistent session cookies.
	sessionCookieField = "session="

	// requestIDHeader carries the client and request ids on every request.
	requestIDHeader = "x-nimbus-request-id"

	// namespaceHeader carries the default namespace for a request, if set.
	namespaceHeader = "x-nimbus-default-ns"
)

// NewClient creates a Client instance with the specified Config.
// If any errors occurred during the creation, it returns a non-nil error
// and a nil Client that should not be used. Applications should check the
// returned error before using the returned Client instance.
//
// Applications should call the Close() method on the Client when it
// terminates.
func NewClient(cfg Config) (*Client, error) {
	err := cfg.setDefaults()
	if err != nil {
		return nil, err
	}

	if cfg.httpClient == nil {
		cfg.httpClient, err = httputil.NewHTTPClient(cfg.HTTPConfig)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		Config:     cfg,
		HTTPClient: cfg.httpClient,
		requestURL: cfg.Endpoint + sdkutil.DataServiceURI,
		clientID:   uuid.NewString(),
		requestID:  0,
		serverHost: cfg.host,
		executor:   cfg.httpClient,
		logger:     cfg.Logger,
		isCloud:    cfg.IsCloudMode(),
	}
	c.handleResponse = c.processResponse

	if cfg.RateLimitingEnabled {
		if c.isCloud {
			c.tableLimitUpdateMap = make(map[string]int64)
			c.rateLimiterMap = make(map[string]common.RateLimiterPair)
		} else {
			c.oneTimeMessage("rate limiting is only supported for the cloud service")
		}
	}

	c.oneTimeMessages = make(map[string]struct{})

	return c, nil
}

// Close releases any resources used by Client.
func (c *Client) Close() error {
	if c.AuthorizationProvider != nil {
		return c.AuthorizationProvider.Close()
	}

	// do not close the logger; it may have been passed to us and
	// may still be in use by the application

	return nil
}

// Get retrieves the row associated with a primary key.
//
// The table name and primary key for the get operation must be specified in
// the GetRequest, otherwise an IllegalArgument error is returned.
//
// On success the returned GetResult is non-nil, the value of the row is
// available in GetResult.Value. If there are no matching rows
// GetResult.Value will be nil.
//
// The default Consistency used for the operation is types.Eventual unless
// an explicit value has been set using GetRequest.Consistency or
// RequestConfig.Consistency.
//
// Use of types.Absolute consistency may affect latency of the operation and
// may result in additional cost for the operation.
func (c *Client) Get(req *GetRequest) (*GetResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*GetResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// Put puts a row into a table.
//
// This method creates a new row or overwrites an existing row entirely. The
// value used for the put is specified in PutRequest.Value and must contain
// a complete primary key and all required fields.
//
// It is not possible to put part of a row. Any fields that are not provided
// will be defaulted, overwriting any existing value. Fields that are not
// nullable or defaulted must be provided or an error will be returned.
//
// By default a put operation is unconditional, but put operations can be
// conditional based on existence, or not, of a previous value as well as
// conditional on the version of the existing value. See
// PutRequest.PutOption.
//
// If the put operation succeeds, this method returns a non-nil
// PutResult.Version representing the current version of the row that was
// put. A conditional put whose condition was not matched is not an error;
// it returns a nil PutResult.Version and, if PutRequest.ReturnRow was set,
// information about the existing row.
func (c *Client) Put(req *PutRequest) (*PutResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*PutResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// Delete deletes a row from a table.
//
// The row is identified using a primary key specified in DeleteRequest.Key.
//
// By default a delete operation is unconditional and will succeed if the
// specified row exists. Delete operations can be made conditional based on
// whether the version of an existing row matches that specified in
// DeleteRequest.MatchVersion.
//
// A conditional delete whose condition was not matched is not an error; it
// reports failure through DeleteResult.Success and, if
// DeleteRequest.ReturnRow was set, returns information about the existing
// row.
func (c *Client) Delete(req *DeleteRequest) (*DeleteResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*DeleteResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// MultiDelete deletes multiple rows from a table in an atomic operation.
//
// The key used may be partial but must contain all of the fields that are
// in the shard key. A range may be specified to delete a range of keys.
//
// There is a limit on the amount of data removed in a single call. If the
// operation stopped at that limit the returned result carries a non-nil
// continuation key that must be set on a subsequent request to resume the
// deletion.
func (c *Client) MultiDelete(req *MultiDeleteRequest) (*MultiDeleteResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*MultiDeleteResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// WriteMultiple executes a sequence of put and delete operations associated
// with a table or tables that share the same shard key portion of their
// primary keys. All the specified operations are executed within the scope
// of a single transaction, making the operation atomic.
//
// There are some size-based limitations on this operation:
//
//  1. The max number of individual operations (put, delete) in a single
//     WriteMultiple request is 50.
//  2. The total request size is limited to 25MB.
func (c *Client) WriteMultiple(req *WriteMultipleRequest) (*WriteMultipleResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*WriteMultipleResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// Prepare prepares a query for execution and reuse. See the Query() method
// for general information and restrictions.
//
// It is recommended that prepared queries are used when the same query will
// run multiple times as execution is much more efficient than starting with
// a query string every time. The query language and Query() method support
// query variables to assist with reuse.
func (c *Client) Prepare(req *PrepareRequest) (*PrepareResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*PrepareResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// Query queries a table based on the query statement specified in the
// QueryRequest.
//
// Queries that include a full shard key will execute much more efficiently
// than more distributed queries that must go to multiple shards.
//
// DDL-style statements such as "CREATE TABLE ..." are not supported by this
// method. Those operations must be performed using DoTableRequest or
// DoSystemRequest as appropriate.
//
// The amount of data read by a single query request is limited by a system
// default and can be further limited using QueryRequest.MaxReadKB. This
// limits the amount of data read and not the amount of data returned, which
// means that a query can return zero results but still have more data to
// read. For this reason queries should always operate in a loop, resuming
// with QueryResult.ContinuationKey until it is nil. The QueryIterator
// method drives that loop for the application.
func (c *Client) Query(req *QueryRequest) (*QueryResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*QueryResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// GetTable retrieves static information about the specified table including
// its state, provisioned throughput, capacity and schema. Dynamic
// information such as usage is obtained using GetTableUsage.
//
// The table name must be specified in the GetTableRequest, otherwise an
// IllegalArgument error is returned.
func (c *Client) GetTable(req *GetTableRequest) (*TableResult, error) {
	return c.getTableWithContext(context.Background(), req)
}

func (c *Client) getTableWithContext(ctx context.Context, req *GetTableRequest) (*TableResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.executeWithContext(ctx, req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*TableResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// GetIndexes retrieves information about an index, or all indexes on a
// table. If no index name is specified in the GetIndexesRequest, then
// information on all indexes is returned.
func (c *Client) GetIndexes(req *GetIndexesRequest) (*GetIndexesResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*GetIndexesResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// GetTableUsage gets dynamic information about the specified table such as
// the current throughput usage. Usage information is collected in time
// slices and returned in individual usage records. It is possible to
// specify a time-based range of usage records using StartTime and EndTime
// of TableUsageRequest.
//
// This method is used for cloud service only.
func (c *Client) GetTableUsage(req *TableUsageRequest) (*TableUsageResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*TableUsageResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// ListTables lists all available table names. If further information about
// a specific table is desired the GetTable method may be used. If a given
// identity has access to a large number of tables the list may be paged by
// specifying the StartIndex and Limit fields of the request.
func (c *Client) ListTables(req *ListTablesRequest) (*ListTablesResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*ListTablesResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// DoTableRequest performs an operation that manages table schema or changes
// table limits.
//
// This method can be used to perform the following operations:
//
//	create tables
//	drop tables
//	modify tables: add or remove columns
//	create indexes
//	drop indexes
//	change table limits of an existing table
//
// These operations are implicitly asynchronous. DoTableRequest does not
// wait for completion of the operation, it returns a TableResult that
// contains an operation id representing the operation being performed. The
// caller should use the TableResult.WaitForCompletion() method to determine
// when it has completed.
func (c *Client) DoTableRequest(req *TableRequest) (*TableResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*TableResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// DoTableRequestAndWait performs an operation that manages table schema or
// changes table limits and waits for completion of the operation.
//
// These are potentially long-running operations. This method allows
// specifying a timeout that represents a time duration to wait for
// completion of the operation, and a pollInterval that represents a time
// duration to wait between two consecutive polling attempts. If the
// operation does not complete when the specified timeout elapses, a
// RequestTimeout error is returned.
func (c *Client) DoTableRequestAndWait(req *TableRequest, timeout, pollInterval time.Duration) (*TableResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*TableResult); ok {
		return res.WaitForCompletion(c, timeout, pollInterval)
	}

	return nil, errUnexpectedResult
}

// WaitForTableState polls the table until it reaches the desired state, or
// the specified timeout elapses.
//
// When waiting for types.Dropped, a TableNotFound error is treated as
// success since a dropped table may be removed from the system entirely.
func (c *Client) WaitForTableState(tableName string, state types.TableState,
	timeout, pollInterval time.Duration) (*TableResult, error) {

	if pollInterval == 0 {
		pollInterval = 500 * time.Millisecond
	}

	if err := validateWaitTimeout(timeout, pollInterval); err != nil {
		return nil, err
	}

	req := &GetTableRequest{TableName: tableName}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		res, err := c.getTableWithContext(ctx, req)
		if err != nil {
			if state == types.Dropped && nimbuserr.IsTableNotFound(err) {
				return &TableResult{TableName: tableName, State: types.Dropped}, nil
			}
			return nil, err
		}

		if res.State == state {
			return res, nil
		}

		if shouldRetryAfter(ctx, pollInterval) {
			continue
		}

		return nil, nimbuserr.NewRequestTimeout("table %q does not reach state %v "+
			"within specified time %v", tableName, state, timeout)
	}
}

// WaitForLocalReplicaInit waits for a replica table hosted in the local
// region to finish its initialization from the sender region. Data
// operations on a replica are rejected until initialization completes.
func (c *Client) WaitForLocalReplicaInit(tableName string, timeout, pollInterval time.Duration) (*TableResult, error) {
	if pollInterval == 0 {
		pollInterval = 500 * time.Millisecond
	}

	if err := validateWaitTimeout(timeout, pollInterval); err != nil {
		return nil, err
	}

	req := &GetTableRequest{TableName: tableName}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		res, err := c.getTableWithContext(ctx, req)
		if err != nil {
			return nil, err
		}

		if res.IsLocalReplicaInitialized {
			return res, nil
		}

		if shouldRetryAfter(ctx, pollInterval) {
			continue
		}

		return nil, nimbuserr.NewRequestTimeout("local replica of table %q is not initialized "+
			"within specified time %v", tableName, timeout)
	}
}

// DoSystemRequest performs a system operation such as administrative
// operations that do not affect a specific table. For table-specific
// operations use DoTableRequest() or DoTableRequestAndWait().
//
// Examples of statements in the SystemRequest passed to this method
// include:
//
//	CREATE NAMESPACE mynamespace
//	CREATE USER some_user IDENTIFIED BY password
//	CREATE ROLE some_role
//	GRANT ROLE some_role TO USER some_user
//
// These operations are implicitly asynchronous. DoSystemRequest does not
// wait for completion of the operation, it returns a SystemResult that
// contains an operation id representing the operation being performed. The
// caller must poll using the SystemResult.WaitForCompletion() method to
// determine when it has completed.
//
// This method is used for on-premise only.
func (c *Client) DoSystemRequest(req *SystemRequest) (*SystemResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*SystemResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// DoSystemRequestAndWait is a convenience method used to perform a system
// operation and wait for its completion.
//
// This method is used for on-premise only.
func (c *Client) DoSystemRequestAndWait(statement string, timeout, pollInterval time.Duration) (*SystemResult, error) {
	req := &SystemRequest{
		Statement: statement,
		Timeout:   timeout,
	}

	res, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*SystemResult); ok {
		return res.WaitForCompletion(c, timeout, pollInterval)
	}

	return nil, errUnexpectedResult
}

// GetSystemStatus checks the status of an operation previously performed
// using DoSystemRequest().
func (c *Client) GetSystemStatus(req *SystemStatusRequest) (*SystemResult, error) {
	return c.getSystemStatusWithContext(context.Background(), req)
}

func (c *Client) getSystemStatusWithContext(ctx context.Context, req *SystemStatusRequest) (*SystemResult, error) {
	if req == nil {
		return nil, errNilRequest
	}

	res, err := c.executeWithContext(ctx, req)
	if err != nil {
		return nil, err
	}

	if res, ok := res.(*SystemResult); ok {
		return res, nil
	}

	return nil, errUnexpectedResult
}

// ListNamespaces returns the namespaces in a store as a slice of string.
//
// This method is used for on-premise only.
func (c *Client) ListNamespaces() ([]string, error) {
	res, err := c.DoSystemRequestAndWait("show as json namespaces", 30*time.Second, time.Second)
	if err != nil {
		return nil, err
	}

	obj, err := jsonutil.ToObject(res.ResultString)
	if err != nil {
		return nil, err
	}

	array, ok := jsonutil.GetArrayFromObject(obj, "namespaces")
	if !ok {
		return nil, fmt.Errorf("cannot find JSON array field \"namespaces\" from JSON: %s", res.ResultString)
	}

	namespaces := make([]string, 0, len(array))
	for _, e := range array {
		ns, err := jsonutil.ExpectString(e)
		if err != nil {
			return nil, err
		}

		namespaces = append(namespaces, ns)
	}

	return namespaces, nil
}

// ListRoles returns the roles in a store as a slice of string.
//
// This method is used for on-premise only.
func (c *Client) ListRoles() ([]string, error) {
	res, err := c.DoSystemRequestAndWait("show as json roles", 30*time.Second, time.Second)
	if err != nil {
		return nil, err
	}

	obj, err := jsonutil.ToObject(res.ResultString)
	if err != nil {
		return nil, err
	}

	array, ok := jsonutil.GetArrayFromObject(obj, "roles")
	if !ok {
		return nil, fmt.Errorf("cannot find JSON array field \"roles\" from JSON: %s", res.ResultString)
	}

	roles := make([]string, 0, len(array))
	for _, e := range array {
		obj, err = jsonutil.ExpectObject(e)
		if err != nil {
			return nil, err
		}

		name, ok := jsonutil.GetStringFromObject(obj, "name")
		if !ok {
			return nil, fmt.Errorf("cannot find role name from JSON: %s", res.ResultString)
		}

		roles = append(roles, name)
	}

	return roles, nil
}

// UserInfo encapsulates the information associated with a user including
// the id and user name in the system.
//
// This is used for on-premise only.
type UserInfo struct {
	// ID represents the user id.
	ID string

	// Name represents the user name.
	Name string
}

// ListUsers returns the users in a store as a slice of UserInfo.
//
// This method is used for on-premise only.
func (c *Client) ListUsers() ([]UserInfo, error) {
	res, err := c.DoSystemRequestAndWait("show as json users", 30*time.Second, time.Second)
	if err != nil {
		return nil, err
	}

	obj, err := jsonutil.ToObject(res.ResultString)
	if err != nil {
		return nil, err
	}

	array, ok := jsonutil.GetArrayFromObject(obj, "users")
	if !ok {
		return nil, fmt.Errorf("cannot find JSON array field \"users\" from JSON: %s", res.ResultString)
	}

	users := make([]UserInfo, 0, len(array))
	for _, e := range array {
		obj, err = jsonutil.ExpectObject(e)
		if err != nil {
			return nil, err
		}

		id, ok := jsonutil.GetStringFromObject(obj, "id")
		if !ok {
			return nil, fmt.Errorf("cannot find user id from JSON: %s", res.ResultString)
		}

		name, ok := jsonutil.GetStringFromObject(obj, "name")
		if !ok {
			return nil, fmt.Errorf("cannot find user name from JSON: %s", res.ResultString)
		}

		users = append(users, UserInfo{ID: id, Name: name})
	}

	return users, nil
}

// nextRequestID returns the next client-scoped request id. It is used with
// the client id to obtain a globally unique scope.
func (c *Client) nextRequestID() int32 {
	return atomic.AddInt32(&c.requestID, 1)
}

// processRequest prepares the specified request before it is sent to the
// server. It applies default configurations such as timeout and consistency
// values for the request if they are not specified, validates the request
// and serializes it.
func (c *Client) processRequest(req Request) (data []byte, err error) {
	if req == nil {
		return nil, errNilRequest
	}

	// Set default values for the request with the global request
	// configurations associated with the Client. Request specific values
	// take precedence.
	req.setDefaults(&c.RequestConfig)

	if err = req.validate(); err != nil {
		return nil, err
	}

	return serializeRequest(req)
}

// execute sends the request to the server, retrying upon receiving errors
// that are retryable. On success, it parses the response as the desired
// operation result.
func (c *Client) execute(req Request) (Result, error) {
	return c.executeWithContext(context.Background(), req)
}

func (c *Client) executeWithContext(ctx context.Context, req Request) (Result, error) {
	data, err := c.processRequest(req)
	if err != nil {
		return nil, err
	}

	return c.doExecute(ctx, req, data)
}

func (c *Client) doExecute(ctx context.Context, req Request, data []byte) (result Result, err error) {
	if req == nil {
		return nil, errNilRequest
	}

	if ctx == nil {
		return nil, errNilContext
	}

	var timeout time.Duration
	var authStr string
	var httpReq *http.Request
	var httpResp *http.Response

	reqTimeout := req.timeout()
	secInfoTimeout := c.DefaultSecurityInfoTimeout()
	numRetries := 0
	numThrottleRetries := 0
	authRetried := false

	req.SetRetryTime(0)
	var rateDelayedTime time.Duration
	checkReadUnits := false
	checkWriteUnits := false

	// if the request itself carries rate limiters, use them
	readLimiter := req.GetReadRateLimiter()
	if readLimiter != nil {
		checkReadUnits = true
	}
	writeLimiter := req.GetWriteRateLimiter()
	if writeLimiter != nil {
		checkWriteUnits = true
	}

	// if not, see if there are limiters in the map for the given table
	if c.rateLimiterMap != nil && readLimiter == nil && writeLimiter == nil {
		tableName := req.getTableName()
		if tableName != "" {
			rp, ok := c.rateLimiterMap[strings.ToLower(tableName)]
			if !ok {
				if req.doesReads() || req.doesWrites() {
					c.backgroundUpdateLimiters(tableName)
				}
			} else {
				writeLimiter = rp.WriteLimiter
				readLimiter = rp.ReadLimiter
				req.SetReadRateLimiter(readLimiter)
				req.SetWriteRateLimiter(writeLimiter)
			}
		}
	}

	startTime := time.Now()

	for {

		if err != nil {
			isSecErr := nimbuserr.IsSecurityInfoUnavailable(err)
			if isSecErr {
				timeout = secInfoTimeout
			} else {
				timeout = reqTimeout
			}

			if time.Since(startTime) > timeout {
				return nil, nimbuserr.NewWithCause(nimbuserr.RequestTimeout, err,
					"request timed out after %d attempt(s). Timeout: %v", numRetries+1, timeout)
			}

			if readLimiter != nil && nimbuserr.Is(err, nimbuserr.ReadLimitExceeded) {
				// ensure we check read limits next loop
				checkReadUnits = true
				// set limiter to its limit, if not over already
				if readLimiter.GetCurrentRate() < 100.0 {
					readLimiter.SetCurrentRate(100.0)
				}
			}

			if writeLimiter != nil && nimbuserr.Is(err, nimbuserr.WriteLimitExceeded) {
				// ensure we check write limits next loop
				checkWriteUnits = true
				// set limiter to its limit, if not over already
				if writeLimiter.GetCurrentRate() < 100.0 {
					writeLimiter.SetCurrentRate(100.0)
				}
			}

			if nimbuserr.Is(err, nimbuserr.InvalidAuthorization) && !authRetried {
				// Retry once so that a concurrent credential refresh can
				// take effect. A second occurrence is surfaced to the
				// application.
				authRetried = true
				c.logger.Fine("retrying request once on InvalidAuthorization")
			} else if !c.handleError(err, req, numThrottleRetries) {
				return nil, err
			}

			if isSecErr {
				c.logger.Fine("Client.execute() got error %v, numRetries: %d, numThrottleRetries: %d",
					err, numRetries, numThrottleRetries)
			} else {
				c.logger.Info("Client.execute() got error %v, numRetries: %d, numThrottleRetries: %d",
					err, numRetries, numThrottleRetries)
				// Only errors other than SecurityInfoUnavailable count as
				// throttle retries.
				numThrottleRetries++
			}
			numRetries++
		}

		// Before executing the request: wait for rate limiters to go below
		// their limits.
		if readLimiter != nil && checkReadUnits {
			timeout = reqTimeout - time.Since(startTime)
			if timeout <= 0 {
				if !readLimiter.TryConsumeUnits(0) {
					return nil, nimbuserr.New(nimbuserr.RequestTimeout,
						"could not execute request due to read rate limiting")
				}
			} else {
				// note this may sleep for a while
				ms, err := readLimiter.ConsumeUnitsWithTimeout(0, timeout, false)
				if err != nil {
					return nil, nimbuserr.New(nimbuserr.RequestTimeout,
						"could not execute request due to read rate limiting")
				}
				rateDelayedTime += ms
			}
		}
		if writeLimiter != nil && checkWriteUnits {
			timeout = reqTimeout - time.Since(startTime)
			if timeout <= 0 {
				if !writeLimiter.TryConsumeUnits(0) {
					return nil, nimbuserr.New(nimbuserr.RequestTimeout,
						"could not execute request due to write rate limiting")
				}
			} else {
				// note this may sleep for a while
				ms, err := writeLimiter.ConsumeUnitsWithTimeout(0, timeout, false)
				if err != nil {
					return nil, nimbuserr.New(nimbuserr.RequestTimeout,
						"could not execute request due to write rate limiting")
				}
				rateDelayedTime += ms
			}
		}

		// Handle errors that may occur when retrieving the authorization
		// string.
		authStr, err = c.getAuthString(req)
		if err != nil {
			continue
		}

		httpReq, err = httputil.NewPostRequest(c.requestURL, data)
		if err != nil {
			return nil, err
		}

		reqID := int(c.nextRequestID())
		httpReq.Header.Add(requestIDHeader, c.clientID+"-"+strconv.Itoa(reqID))
		httpReq.Header.Add("Host", c.serverHost)
		httpReq.Header.Set("Content-Length", strconv.Itoa(len(data)))
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("Connection", "keep-alive")
		httpReq.Header.Set("User-Agent", sdkutil.UserAgent())
		if namespace := req.getNamespace(); namespace != "" {
			httpReq.Header.Add(namespaceHeader, namespace)
		}

		// The authorization string can be empty when the client connects
		// to a non-secure on-premise server.
		if authStr != "" {
			httpReq.Header.Set("Authorization", authStr)
		}

		// Allow for session persistence, if available.
		if c.sessionStr != "" {
			httpReq.Header.Set("Cookie", c.sessionStr)
		}

		err = c.signHTTPRequest(httpReq)
		if err != nil {
			return nil, err
		}

		reqCtx, reqCancel := context.WithTimeout(ctx, reqTimeout)
		httpReq = httpReq.WithContext(reqCtx)
		httpResp, err = c.executor.Do(httpReq)
		if err != nil {
			reqCancel()
			continue
		}

		result, err = c.handleResponse(httpResp, req)
		// Cancel the request context after the response body has been read.
		reqCancel()
		if err != nil {
			continue
		}

		if result == nil {
			return result, nil
		}

		if tResult, ok := result.(*TableResult); ok && c.rateLimiterMap != nil {
			// update rate limiter settings for the table
			c.updateRateLimiters(tResult.TableName, tResult.Limits)
		}

		// After executing the request: apply used read/write units to rate
		// limiters, possibly delaying the return.
		used, _ := result.ConsumedCapacity()
		if used.ReadUnits > 0 && readLimiter != nil {
			timeout = reqTimeout - time.Since(startTime)
			rateDelayedTime += c.consumeLimiterUnits(readLimiter, int64(used.ReadUnits), timeout)
		}
		if used.WriteKB > 0 && writeLimiter != nil {
			timeout = reqTimeout - time.Since(startTime)
			rateDelayedTime += c.consumeLimiterUnits(writeLimiter, int64(used.WriteKB), timeout)
		}

		if dr, ok := result.(delayed); ok {
			dr.setRateLimitTime(rateDelayedTime)
			dr.setRetryTime(req.GetRetryTime())
		}
		req.SetRateLimitTime(rateDelayedTime)

		if used.ReadKB > 0 || used.WriteKB > 0 || used.ReadUnits > 0 {
			c.notifyConsumedCapacity(req, used)
		}

		return result, nil
	}
}

// handleError handles the specified error, returning a bool flag indicating
// whether the request should continue to retry.
//
// If the error is retryable, this method calls the RetryHandler configured
// for the client to proceed with retry handling. Otherwise, it returns
// false indicating the request should not be retried.
func (c *Client) handleError(err error, req Request, numRetries int) bool {
	if isRetryableError(err) {
		c.logger.Fine("got retryable error: %v", err)
		return c.handleRetry(err, req, uint(numRetries))
	}

	c.logger.Fine("got non-retryable error: %v", err)
	return false
}

// handleRetry checks if the specified request should continue to retry upon
// receiving the specified error and having attempted the specified number
// of retries. If the request should retry, handleRetry pauses the current
// goroutine for a duration according to the RetryHandler configuration, and
// accumulates the time slept on the request.
func (c *Client) handleRetry(err error, req Request, numRetries uint) bool {
	if c.RetryHandler == nil {
		return false
	}

	c.logger.LogWithFn(logger.Fine, func() string {
		return fmt.Sprintf("retry for request: %s, number of throttle retries: %d, error: %v",
			reflect.TypeOf(req).String(), numRetries, err)
	})

	if c.RetryHandler.ShouldRetry(req, numRetries, err) {
		start := time.Now()
		c.RetryHandler.Delay(req, numRetries, err)
		slept := time.Since(start)
		req.SetRetryTime(req.GetRetryTime() + slept)
		c.notifyRetry(req, numRetries+1, err, slept)
		return true
	}

	if maxRetries := c.RetryHandler.MaxNumRetries(); numRetries >= maxRetries {
		c.logger.Fine("number of retries has reached the maximum of %d", maxRetries)
	}

	return false
}

// getAuthString returns an authorization string for the specified request.
func (c *Client) getAuthString(opReq Request) (string, error) {
	if c.AuthorizationProvider == nil {
		return "", nil
	}

	switch scheme := c.AuthorizationProvider.AuthorizationScheme(); scheme {
	case auth.BearerToken:
		req := &bearerTokenRequest{opReq}
		return c.AuthorizationProvider.AuthorizationString(req)
	case auth.Signature:
		// the signature method requires an http.Request - auth is added in
		// the SignHTTPRequest() method later
		return "", nil
	default:
		return "", nimbuserr.NewIllegalArgument("unsupported authorization scheme: %s", scheme)
	}
}

func (c *Client) signHTTPRequest(httpReq *http.Request) error {
	if c.AuthorizationProvider == nil {
		return nil
	}

	switch c.AuthorizationProvider.AuthorizationScheme() {
	case auth.Signature:
		return c.AuthorizationProvider.SignHTTPRequest(httpReq)
	case auth.BearerToken:
		// no changes to the http request for this method
		return nil
	}

	return nimbuserr.NewIllegalArgument("unsupported authorization scheme for http request signing")
}

// processResponse processes the http response returned from the server.
//
// If the http response status code is 200, this method reads in the
// response content and parses it as an appropriate result suitable for the
// request. Otherwise, it returns the http error.
func (c *Client) processResponse(httpResp *http.Response, req Request) (Result, error) {
	data, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode == http.StatusOK {
		c.setSessionCookie(httpResp.Header)
		return c.processOKResponse(data, req)
	}

	return nil, c.processNotOKResponse(data, httpResp.StatusCode)
}

func (c *Client) processOKResponse(data []byte, req Request) (Result, error) {
	if err := checkResponseError(data); err != nil {
		return nil, err
	}

	return deserializeResponse(req, data)
}

// setSessionCookie sets a persistent session cookie value to use for
// following requests, if present in the response header.
func (c *Client) setSessionCookie(header http.Header) {
	if header == nil {
		return
	}
	// This code assumes there is at most one Set-Cookie header in the
	// response.
	v := header.Get("Set-Cookie")
	if !strings.HasPrefix(v, sessionCookieField) {
		return
	}
	c.lockMux.Lock()
	c.sessionStr = strings.Split(v, ";")[0]
	c.lockMux.Unlock()
	c.logger.LogWithFn(logger.Fine, func() string {
		return fmt.Sprintf("set session cookie to %q", c.sessionStr)
	})
}

// processNotOKResponse processes the http response whose status code is not
// 200.
func (c *Client) processNotOKResponse(data []byte, statusCode int) error {
	if statusCode == http.StatusBadRequest && len(data) > 0 {
		return fmt.Errorf("error response: %s", string(data))
	}

	return fmt.Errorf("error response: %d %s", statusCode, http.StatusText(statusCode))
}

// isRetryableError checks if the specified error is retryable.
//
// An error is retryable if it is a temporary url.Error or a retryable
// nimbuserr.Error.
func isRetryableError(err error) bool {
	// http.Client.Do() returns *url.Error. Retry if it is a temporary
	// error.
	if err, ok := err.(*url.Error); ok && err.Temporary() {
		return true
	}

	if err, ok := err.(*nimbuserr.Error); ok && err.Retryable() {
		return true
	}

	return false
}

// tableNeedsRefresh reports whether the rate limiters of the table should
// be refreshed from the server.
func (c *Client) tableNeedsRefresh(tableName string) bool {
	if c.tableLimitUpdateMap == nil {
		return false
	}

	nowNanos := time.Now().UnixNano()
	then := c.tableLimitUpdateMap[tableName]
	return then <= nowNanos
}

func (c *Client) setTableNeedsRefresh(tableName string, needsRefresh bool) {
	if c.tableLimitUpdateMap == nil {
		return
	}

	lTable := strings.ToLower(tableName)
	nowNanos := time.Now().UnixNano()
	if needsRefresh {
		c.tableLimitUpdateMap[lTable] = nowNanos - 1
	} else {
		c.tableLimitUpdateMap[lTable] = nowNanos + defaultRateLimiterRefresh.Nanoseconds()
	}
}

func (c *Client) backgroundUpdateLimiters(tableName string) {
	lTable := strings.ToLower(tableName)

	c.limitMux.Lock()
	if !c.tableNeedsRefresh(lTable) {
		c.limitMux.Unlock()
		return
	}
	c.setTableNeedsRefresh(lTable, false)
	c.limitMux.Unlock()

	go c.updateTableLimiters(lTable)
}

// consumeLimiterUnits consumes rate limiter units after a successful
// operation. It returns the duration delayed due to rate limiting.
func (c *Client) consumeLimiterUnits(rl common.RateLimiter, units int64, timeout time.Duration) time.Duration {
	if rl == nil || units <= 0 {
		return 0
	}

	if timeout <= 0 {
		rl.ConsumeUnitsUnconditionally(units)
		return 0
	}

	// "true" == "consume units, even on timeout"
	ret, _ := rl.ConsumeUnitsWithTimeout(units, timeout, true)
	return ret
}

func (c *Client) updateRateLimiters(tableName string, limits TableLimits) bool {
	if c.rateLimiterMap == nil {
		return false
	}

	lTable := strings.ToLower(tableName)

	c.limitMux.Lock()
	defer c.limitMux.Unlock()

	c.setTableNeedsRefresh(lTable, false)

	if limits.ReadUnits == 0 && limits.WriteUnits == 0 {
		delete(c.rateLimiterMap, lTable)
		c.logger.Info("removing rate limiting from table %s", tableName)
		return false
	}

	// Adjust units based on the configured rate limiter percentage.
	RUs := float64(limits.ReadUnits)
	WUs := float64(limits.WriteUnits)
	if c.RateLimiterPercentage > 0.0 {
		RUs = (RUs * c.RateLimiterPercentage) / 100.0
		WUs = (WUs * c.RateLimiterPercentage) / 100.0
	}

	rp, ok := c.rateLimiterMap[lTable]
	if ok {
		rp.ReadLimiter.SetLimitPerSecond(RUs)
		rp.WriteLimiter.SetLimitPerSecond(WUs)
	} else {
		// The cloud service has a "burst" availability of 300 seconds. We
		// don't know if or how many other clients may have been using this
		// table, and a duration of 30 seconds allows for more predictable
		// usage.
		c.rateLimiterMap[lTable] = common.RateLimiterPair{
			ReadLimiter:  common.NewSimpleRateLimiterWithDuration(RUs, 30),
			WriteLimiter: common.NewSimpleRateLimiterWithDuration(WUs, 30),
		}
	}

	c.logger.Info("updated table %q to have RUs=%.1f and WUs=%.1f per second",
		tableName, RUs, WUs)

	return true
}

func (c *Client) updateTableLimiters(tableName string) {
	req := &GetTableRequest{
		TableName: tableName,
		Timeout:   5 * time.Second,
	}
	c.logger.Fine("starting GetTableRequest for table %q", tableName)
	res, err := c.GetTable(req)
	if err != nil || res == nil {
		c.logger.Info("GetTableRequest for table %q returned error: %v", tableName, err)
		// allow a retry after 100ms
		c.limitMux.Lock()
		c.tableLimitUpdateMap[tableName] = time.Now().UnixNano() + (100 * time.Millisecond).Nanoseconds()
		c.limitMux.Unlock()
		return
	}

	if c.updateRateLimiters(tableName, res.Limits) {
		c.logger.Fine("background goroutine added limiters for table %q", tableName)
	}
}

// EnableRateLimiting is for testing purposes only. Applications should set
// RateLimitingEnabled to true in the client Config to enable rate limiting.
func (c *Client) EnableRateLimiting(enable bool, usePercent float64) {
	c.RateLimiterPercentage = usePercent
	if enable {
		if c.rateLimiterMap != nil {
			return
		}
		c.rateLimiterMap = make(map[string]common.RateLimiterPair)
		c.tableLimitUpdateMap = make(map[string]int64)
	} else {
		c.tableLimitUpdateMap = nil
		c.rateLimiterMap = nil
	}
}

// ResetRateLimiters is for testing purposes only.
func (c *Client) ResetRateLimiters(tableName string) {
	if c.rateLimiterMap == nil {
		return
	}
	rp, ok := c.rateLimiterMap[strings.ToLower(tableName)]
	if !ok {
		return
	}
	rp.WriteLimiter.Reset()
	rp.ReadLimiter.Reset()
}

// VerifyConnection attempts to verify that the connection is usable. It may
// check auth credentials with the server.
func (c *Client) VerifyConnection() error {
	// Issue a GetTable call for a (probably) nonexistent table and expect
	// a TableNotFound error, or success in the unlikely event a table
	// exists with this name. Any other errors are returned here.
	req := &GetTableRequest{
		TableName: "noop",
		Timeout:   20 * time.Second,
	}

	_, err := c.GetTable(req)
	if err != nil && !nimbuserr.IsTableNotFound(err) {
		return err
	}

	return nil
}

func (c *Client) oneTimeMessage(msg string) {
	c.lockMux.Lock()
	defer c.lockMux.Unlock()
	if c.oneTimeMessages == nil {
		c.oneTimeMessages = make(map[string]struct{})
	}
	if _, ok := c.oneTimeMessages[msg]; ok {
		return
	}
	c.oneTimeMessages[msg] = struct{}{}
	c.logger.Warn(msg)
}
