//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

// Package nimbuserr defines types and error code constants that represent
// errors which may be returned by the Nimbus NoSQL client.
package nimbuserr

import (
	"fmt"
)

// Error represents an error that wraps the error code, error message and an
// optional cause of the error.
//
// This implements the error interface.
type Error struct {
	// Code specifies the error code.
	Code ErrorCode `json:"code"`

	// Message specifies the description of error.
	Message string `json:"message"`

	// Cause optionally specifies the cause of error.
	Cause error `json:"cause,omitempty"`
}

// New creates an error with the specified error code and message.
func New(code ErrorCode, msgFmt string, msgArgs ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(msgFmt, msgArgs...),
	}
}

// NewWithCause creates an error with the specified error code, message and
// the cause of error.
func NewWithCause(code ErrorCode, cause error, msgFmt string, msgArgs ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(msgFmt, msgArgs...),
		Cause:   cause,
	}
}

// Error returns a descriptive message for the error.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s]: %s", e.Code.String(), e.Message)
	}

	return fmt.Sprintf("[%s]: %s. Caused by:\n\t%s", e.Code.String(), e.Message, e.Cause.Error())
}

// Unwrap returns the cause of the error, if any.
//
// This supports errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable returns whether the error is retryable.
func (e *Error) Retryable() bool {
	return retryableErrors[e.Code]
}

// retryableErrors represents a map whose keys are the error codes of
// pre-defined errors that are retryable. This is used as a fast lookup table
// to check if an error is retryable.
//
// The set is fixed at build time. InvalidAuthorization is deliberately not in
// this set: the client retries it at most once to allow a credential refresh
// to complete, after that it is surfaced to the application.
var retryableErrors = map[ErrorCode]bool{
	SecurityInfoUnavailable: true,
	RetryAuthentication:     true,
	ServerError:             true,
	ServiceUnavailable:      true,
	TableBusy:               true,
	OperationLimitExceeded:  true,
	ReadLimitExceeded:       true,
	WriteLimitExceeded:      true,
}

// NewIllegalArgument creates an IllegalArgument error with the specified message.
func NewIllegalArgument(msgFmt string, msgArgs ...interface{}) *Error {
	return New(IllegalArgument, msgFmt, msgArgs...)
}

// NewIllegalState creates an IllegalState error with the specified message.
func NewIllegalState(msgFmt string, msgArgs ...interface{}) *Error {
	return New(IllegalState, msgFmt, msgArgs...)
}

// NewRequestTimeout creates a RequestTimeout error with the specified message.
func NewRequestTimeout(msgFmt string, msgArgs ...interface{}) *Error {
	return New(RequestTimeout, msgFmt, msgArgs...)
}

// NewMemoryLimitExceeded creates a MemoryLimitExceeded error with the
// specified message.
func NewMemoryLimitExceeded(msgFmt string, msgArgs ...interface{}) *Error {
	return New(MemoryLimitExceeded, msgFmt, msgArgs...)
}

// Is checks if the specified error is an Error value and the error code
// matches any of the expected error codes if specified.
func Is(err error, expectedCodes ...ErrorCode) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}

	if len(expectedCodes) == 0 {
		return true
	}

	for _, code := range expectedCodes {
		if e.Code == code {
			return true
		}
	}

	return false
}

// IsTableNotFound returns true if the specified error is a TableNotFound
// error, otherwise returns false.
func IsTableNotFound(err error) bool {
	return Is(err, TableNotFound)
}

// IsIllegalArgument returns true if the specified error is an IllegalArgument
// error, otherwise returns false.
func IsIllegalArgument(err error) bool {
	return Is(err, IllegalArgument)
}

// IsSecurityInfoUnavailable returns true if the specified error is a
// SecurityInfoUnavailable error, otherwise returns false.
func IsSecurityInfoUnavailable(err error) bool {
	return Is(err, SecurityInfoUnavailable)
}

// IsRequestTimeout returns true if the specified error is a RequestTimeout
// error, otherwise returns false.
func IsRequestTimeout(err error) bool {
	return Is(err, RequestTimeout)
}

// ErrorCode represents the error code.
// Error codes are divided into categories as follows:
//
// 1. Error codes for user-generated errors, range from 1 to 50 (exclusive).
// These include illegal arguments, exceeding size limits for some objects,
// resource not found, etc.
//
// 2. Error codes for user throttling, range from 50 to 100 (exclusive).
//
// 3. Error codes for server issues, range from 100 to 125 (exclusive), that
// represent internal problems, presumably temporary, and need to be sent back
// to the application for retry.
//
// 4. Other issues, begin from 125. These include client illegal state,
// unknown server errors, and limits enforced locally by the driver.
type ErrorCode int

const (
	// NoError represents there is no error.
	NoError ErrorCode = iota // 0

	// UnknownOperation error represents the operation attempted is unknown.
	UnknownOperation // 1

	// TableNotFound error represents the operation attempted to access a
	// table that does not exist or is not in a visible state.
	TableNotFound // 2

	// IndexNotFound error represents the operation attempted to access an
	// index that does not exist or is not in a visible state.
	IndexNotFound // 3

	// IllegalArgument error represents the application provided an illegal
	// argument for the operation. This error is never retried and, where
	// feasible, is raised before any request is sent to the server.
	IllegalArgument // 4

	// RowSizeLimitExceeded error represents an attempt has been made to
	// create a row with a size that exceeds the system defined limit.
	//
	// This is used for cloud service only.
	RowSizeLimitExceeded // 5

	// KeySizeLimitExceeded error represents an attempt has been made to
	// create a row with a primary key or index key size that exceeds the
	// system defined limit.
	//
	// This is used for cloud service only.
	KeySizeLimitExceeded // 6

	// BatchOpNumberLimitExceeded error represents that the number of
	// operations included in Client.WriteMultiple operation exceeds the
	// system defined limit of 50.
	//
	// This is used for cloud service only.
	BatchOpNumberLimitExceeded // 7

	// RequestSizeLimitExceeded error represents that the size of a request
	// exceeds the system defined limit.
	//
	// This is used for cloud service only.
	RequestSizeLimitExceeded // 8

	// TableExists error represents the operation attempted to create a table
	// but the named table already exists.
	TableExists // 9

	// IndexExists error represents the operation attempted to create an
	// index for a table but the named index already exists.
	IndexExists // 10

	// InvalidAuthorization error represents the client provides an invalid
	// authorization string in the request header.
	//
	// The client retries a request once upon receiving this error so that a
	// concurrent credential refresh can take effect; a second occurrence is
	// surfaced to the application.
	InvalidAuthorization // 11

	// InsufficientPermission error represents an application does not have
	// sufficient permission to perform a request.
	InsufficientPermission // 12

	// ResourceExists error represents the operation attempted to create a
	// resource but it already exists.
	ResourceExists // 13

	// ResourceNotFound error represents the operation attempted to access a
	// resource that does not exist or is not in a visible state.
	ResourceNotFound // 14

	// TableLimitExceeded error represents an attempt has been made to create
	// a number of tables that exceeds the system defined limit.
	//
	// This is used for cloud service only.
	TableLimitExceeded // 15

	// OperationNotSupported error represents the operation attempted is not
	// supported. This may be related to on-premise vs cloud service
	// configurations.
	OperationNotSupported // 16

	// OperationAborted error represents an atomic batch of write operations
	// was aborted by the server for an infrastructural reason before any
	// per-operation outcome could be produced.
	//
	// Note that a conditional sub-operation failure inside a batch is not an
	// error; it is reported through WriteMultipleResult.
	OperationAborted // 17
)

const (
	// ReadLimitExceeded error represents that the provisioned read
	// throughput has been exceeded.
	//
	// Operations resulting in this error can be retried but it is recommended
	// that callers use a delay before retrying in order to minimize the
	// chance that a retry will also be throttled. Applications should attempt
	// to avoid throttling errors by rate limiting themselves to the degree
	// possible, or by enabling Config.RateLimitingEnabled.
	//
	// This is used for cloud service only.
	ReadLimitExceeded ErrorCode = iota + 50 // 50

	// WriteLimitExceeded error represents that the provisioned write
	// throughput has been exceeded.
	//
	// Operations resulting in this error can be retried but it is recommended
	// that callers use a delay before retrying in order to minimize the
	// chance that a retry will also be throttled.
	//
	// This is used for cloud service only.
	WriteLimitExceeded // 51

	// SizeLimitExceeded error represents a table size limit has been
	// exceeded by writing more data than the table can support.
	// This error is not retryable because the conditions that lead to it
	// being returned, while potentially transient, typically require user
	// intervention.
	SizeLimitExceeded // 52

	// OperationLimitExceeded error represents the operation attempted has
	// exceeded the allowed limits for non-data operations defined by the
	// system.
	//
	// This error is returned when a non-data operation is throttled.
	// This can happen if an application attempts too many control operations
	// such as table creation, deletion, or similar methods. Such operations
	// do not use throughput or capacity provisioned for a given table but
	// they consume system resources and their use is limited.
	//
	// Operations resulting in this error are retried with a relatively large
	// delay, controlled by RetryConfig.ControlOpBaseDelay.
	//
	// This is used for cloud service only.
	OperationLimitExceeded // 53
)

const (
	// RequestTimeout error represents the request cannot be processed or
	// does not complete when the specified timeout duration elapses.
	//
	// If a retry handler is configured for the client it is possible that
	// the request has been retried a number of times before the timeout
	// occurs.
	RequestTimeout ErrorCode = iota + 100 // 100

	// ServerError represents there is an internal system problem.
	// Most system problems are temporary.
	// The operation that leads to this error may need to retry.
	ServerError // 101

	// ServiceUnavailable error represents the requested service is currently
	// unavailable. This is usually a temporary error.
	// The operation that leads to this error may need to retry.
	ServiceUnavailable // 102

	// TableBusy error represents the table is in use or busy.
	// This error may be returned when a table operation fails.
	// Note that only one modification operation at a time is allowed on a
	// table.
	TableBusy // 103

	// SecurityInfoUnavailable error represents the security information is
	// not ready in the system.
	// This error will occur as the system acquires security information and
	// must be retried in order for authorization to work properly.
	//
	// This is used for cloud service only.
	SecurityInfoUnavailable // 104

	// RetryAuthentication error represents the authentication failed and may
	// need to retry. This may be returned by an on-premise server when
	// authentication information was not provided in the request header, or
	// the user session has expired.
	RetryAuthentication // 105
)

const (
	// UnknownError represents an unknown error has occurred on the server.
	UnknownError ErrorCode = iota + 125 // 125

	// IllegalState error represents an illegal state.
	IllegalState // 126

	// MemoryLimitExceeded error represents a query consumed more driver-side
	// memory for buffering than allowed by
	// QueryRequest.MaxMemoryConsumption. The query fails fast rather than
	// degrading silently; it is not retryable.
	MemoryLimitExceeded // 127

	// BadProtocolMessage error represents an invalid message is exchanged
	// between the client and server. This may indicate the client and
	// server are on incompatible protocol versions.
	BadProtocolMessage // 128
)

var errorCodeNames = map[ErrorCode]string{
	NoError:                    "NoError",
	UnknownOperation:           "UnknownOperation",
	TableNotFound:              "TableNotFound",
	IndexNotFound:              "IndexNotFound",
	IllegalArgument:            "IllegalArgument",
	RowSizeLimitExceeded:       "RowSizeLimitExceeded",
	KeySizeLimitExceeded:       "KeySizeLimitExceeded",
	BatchOpNumberLimitExceeded: "BatchOpNumberLimitExceeded",
	RequestSizeLimitExceeded:   "RequestSizeLimitExceeded",
	TableExists:                "TableExists",
	IndexExists:                "IndexExists",
	InvalidAuthorization:       "InvalidAuthorization",
	InsufficientPermission:     "InsufficientPermission",
	ResourceExists:             "ResourceExists",
	ResourceNotFound:           "ResourceNotFound",
	TableLimitExceeded:         "TableLimitExceeded",
	OperationNotSupported:      "OperationNotSupported",
	OperationAborted:           "OperationAborted",
	ReadLimitExceeded:          "ReadLimitExceeded",
	WriteLimitExceeded:         "WriteLimitExceeded",
	SizeLimitExceeded:          "SizeLimitExceeded",
	OperationLimitExceeded:     "OperationLimitExceeded",
	RequestTimeout:             "RequestTimeout",
	ServerError:                "ServerError",
	ServiceUnavailable:         "ServiceUnavailable",
	TableBusy:                  "TableBusy",
	SecurityInfoUnavailable:    "SecurityInfoUnavailable",
	RetryAuthentication:        "RetryAuthentication",
	UnknownError:               "UnknownError",
	IllegalState:               "IllegalState",
	MemoryLimitExceeded:        "MemoryLimitExceeded",
	BadProtocolMessage:         "BadProtocolMessage",
}

// String returns the name of the error code.
//
// This implements the fmt.Stringer interface.
func (code ErrorCode) String() string {
	if s, ok := errorCodeNames[code]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(code))
}
