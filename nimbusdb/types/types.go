//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

// Package types defines types and values used to represent and manipulate
// data in the Nimbus NoSQL database.
package types

import (
	"time"
)

// Consistency is used to provide consistency guarantees for read operations.
//
// There are two consistency values available: Eventual and Absolute.
//
// 1. Eventual consistency means that the values read may be very slightly
// out of date.
//
// 2. Absolute consistency may be specified to guarantee that current values
// are read. Absolute consistency results in higher cost, consuming twice the
// number of read units for the same data relative to Eventual consistency,
// and should only be used when required.
//
// It is possible to set a default Consistency for a nimbusdb.Client instance
// by using nimbusdb.Config.Consistency. If no Consistency is specified in an
// operation and there is no default value, Eventual consistency is used.
type Consistency int

const (
	// Absolute consistency.
	Absolute Consistency = iota + 1 // 1

	// Eventual consistency.
	Eventual // 2
)

// String returns the name of the consistency value.
func (c Consistency) String() string {
	switch c {
	case Absolute:
		return "Absolute"
	case Eventual:
		return "Eventual"
	default:
		return "N/A"
	}
}

// GoString defines the Go syntax for the Consistency value.
//
// This implements the fmt.GoStringer interface.
func (c Consistency) GoString() string {
	return "\"" + c.String() + "\""
}

// TableState represents current state of a table.
//
// The available table states are:
//
//	Active
//	Creating
//	Dropped
//	Dropping
//	Updating
type TableState int

const (
	// Active represents the table is ready to be used.
	// This is the steady state after table creation or modification.
	Active TableState = iota // 0

	// Creating represents the table is being created and cannot yet be used.
	Creating // 1

	// Dropped represents the table has been dropped or does not exist.
	Dropped // 2

	// Dropping represents the table is being dropped and cannot be used.
	Dropping // 3

	// Updating represents the table is being updated.
	// It is available for normal use, but additional table modification
	// operations are not permitted while the table is in this state.
	Updating // 4
)

// IsTerminal checks if current table state is a terminal state.
// This returns true if current state is either Active or Dropped, returns
// false otherwise.
func (st TableState) IsTerminal() bool {
	return st == Active || st == Dropped
}

// String returns the name of the table state.
func (st TableState) String() string {
	switch st {
	case Active:
		return "Active"
	case Creating:
		return "Creating"
	case Dropped:
		return "Dropped"
	case Dropping:
		return "Dropping"
	case Updating:
		return "Updating"
	default:
		return "N/A"
	}
}

// GoString defines the Go syntax for the TableState value.
//
// This implements the fmt.GoStringer interface.
func (st TableState) GoString() string {
	return "\"" + st.String() + "\""
}

// OperationState represents the current state of a system operation.
//
// This is used for on-premise only.
type OperationState int

const (
	// UnknownOpState represents the operation state is unknown.
	UnknownOpState OperationState = iota // 0

	// Complete represents the operation is complete and was successful.
	Complete // 1

	// Working represents the operation is in progress.
	Working // 2
)

// String returns the name of the operation state.
func (st OperationState) String() string {
	switch st {
	case Complete:
		return "Complete"
	case Working:
		return "Working"
	default:
		return "Unknown"
	}
}

// GoString defines the Go syntax for the OperationState value.
//
// This implements the fmt.GoStringer interface.
func (st OperationState) GoString() string {
	return "\"" + st.String() + "\""
}

// Version represents the version of a row in the database.
// This is an opaque object from an application perspective.
//
// It is returned by successful Client.Put() or Client.Get() operations and
// can be used in PutRequest.MatchVersion and DeleteRequest.MatchVersion to
// conditionally perform those operations to ensure an atomic
// read-modify-write cycle. Use of Version in this way adds cost to operations
// so it should be done only if necessary.
type Version []byte

// ContinuationKey represents an opaque, server-issued marker that allows a
// multi-page operation such as a query or a range delete to resume where the
// previous page left off.
//
// The client never interprets its contents. A nil ContinuationKey signals
// exhaustion. A non-nil key does not guarantee that more rows remain: the
// next fetch may return zero rows together with a nil key.
//
// A ContinuationKey must only be supplied to a continuation of the same
// logical operation that produced it; supplying it elsewhere is a user error
// with undefined results.
type ContinuationKey []byte

// PutOption represents an option for the put operation. It is used by
// PutRequest. The available put options are:
//
//	PutIfAbsent
//	PutIfPresent
//	PutIfVersion
type PutOption int

const (
	// PutIfAbsent means put operation should only succeed if the row does
	// not exist.
	PutIfAbsent PutOption = 4 // 4

	// PutIfPresent means put operation should only succeed if the row exists.
	PutIfPresent PutOption = 5 // 5

	// PutIfVersion means put operation should succeed only if the row exists
	// and its Version matches the specified version.
	PutIfVersion PutOption = 6 // 6
)

// String returns the name of the put option.
func (opt PutOption) String() string {
	switch opt {
	case PutIfAbsent:
		return "PutIfAbsent"
	case PutIfPresent:
		return "PutIfPresent"
	case PutIfVersion:
		return "PutIfVersion"
	default:
		return "N/A"
	}
}

// GoString defines the Go syntax for the PutOption value.
//
// This implements the fmt.GoStringer interface.
func (opt PutOption) GoString() string {
	return "\"" + opt.String() + "\""
}

// CapacityMode defines how throughput capacity is configured for a table.
type CapacityMode int

const (
	// Provisioned capacity mode means the table throughput limits are set
	// explicitly by the application.
	Provisioned CapacityMode = iota + 1 // 1

	// OnDemand capacity mode means the table throughput scales with use and
	// is limited only by the system maximum.
	OnDemand // 2
)

// String returns the name of the capacity mode.
func (m CapacityMode) String() string {
	switch m {
	case Provisioned:
		return "Provisioned"
	case OnDemand:
		return "OnDemand"
	default:
		return "N/A"
	}
}

// TimeUnit represents time durations at a given unit.
type TimeUnit int

const (
	// Hours represents time durations in hours.
	Hours TimeUnit = iota + 1 // 1

	// Days represents time durations in days.
	Days // 2
)

// String returns the name of the time unit.
func (tu TimeUnit) String() string {
	switch tu {
	case Hours:
		return "Hours"
	case Days:
		return "Days"
	default:
		return "N/A"
	}
}

// TimeToLive represents a period of time, specialized to the needs of this
// driver.
//
// This is restricted to durations of days and hours. It is only used as
// input related to time to live (TTL) for row instances.
//
// Durations of days are recommended as they result in the least amount of
// storage overhead.
type TimeToLive struct {
	// Value represents number of time units.
	Value int64

	// Unit represents the time unit that is either Hours or Days.
	Unit TimeUnit
}

// ToDuration converts the TimeToLive value into a time.Duration value.
func (ttl TimeToLive) ToDuration() time.Duration {
	var numOfHours int64
	switch ttl.Unit {
	case Hours:
		numOfHours = ttl.Value
	case Days:
		fallthrough
	default:
		numOfHours = ttl.Value * 24
	}

	return time.Duration(numOfHours) * time.Hour
}

// FieldRange defines a range of values to be used in a Client.MultiDelete()
// operation, as specified in MultiDeleteRequest.FieldRange.
//
// FieldRange is used as the least significant component in a partially
// specified key value in order to create a value range for an operation that
// affects multiple rows. The FieldPath specified must name a field in a
// table's primary key. The Start and End values used must be of the same
// type and that type must match the type of the field specified.
//
// Validation of this object is performed when it is used in an operation.
type FieldRange struct {
	// FieldPath specifies the path to the field used in the range.
	FieldPath string

	// Start specifies the start value of the range.
	Start interface{}

	// End specifies the end value of the range.
	End interface{}

	// StartInclusive specifies whether Start value is included in the range.
	// This value is valid only if the Start value is specified.
	StartInclusive bool

	// EndInclusive specifies whether End value is included in the range.
	// This value is valid only if the End value is specified.
	EndInclusive bool
}
