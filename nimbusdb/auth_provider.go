//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"net/http"
	"strings"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/auth"
)

// AuthorizationProvider is an interface that provides request authorization
// for clients.
//
// A Client calls the AuthorizationString() method to obtain an authorization
// string when one is required for a request. How the provider acquires its
// credentials is outside the scope of this package; implementations
// typically wrap a token service or a credentials file.
//
// Implementations of this interface must be safe for concurrent use by
// multiple goroutines.
type AuthorizationProvider interface {
	// AuthorizationScheme returns a string that represents the supported
	// authorization scheme for this provider, either auth.BearerToken or
	// auth.Signature.
	AuthorizationScheme() string

	// AuthorizationString returns an authorization string for the specified
	// request. The string is sent to the server in the request for
	// authorization. Authorization information can be request-dependent.
	AuthorizationString(req auth.Request) (string, error)

	// SignHTTPRequest signs the specified HTTP request. This is called for
	// providers using the auth.Signature scheme, which need the entire
	// request to compute a signature. The method may add or change header
	// fields but must not modify the request payload.
	SignHTTPRequest(httpReq *http.Request) error

	// Close releases resources allocated by the provider.
	Close() error
}

// bearerTokenRequest represents a request for an access token from the
// authorization service. It implements the auth.Request interface.
type bearerTokenRequest struct {
	// opReq specifies the operation request that needs authorization.
	opReq Request
}

// Token kinds requested from the authorization service. Account tokens
// authorize operations on the account's table set, service tokens authorize
// data operations.
const (
	accountToken = "ACCOUNT"
	serviceToken = "SERVICE"
)

// Value returns a string that represents the desired token kind depending
// on the operation request.
func (r bearerTokenRequest) Value() string {
	if needAccountAccessToken(r.opReq) {
		return accountToken
	}

	return serviceToken
}

// needAccountAccessToken reports whether the specified request needs an
// account access token. Requests that create or drop tables, change table
// limits, or list tables operate on account scope.
func needAccountAccessToken(req Request) bool {
	switch req := req.(type) {
	case *ListTablesRequest:
		return true

	case *TableRequest:
		// A non-nil TableLimits indicates the request is intended to create
		// a table or modify limits for an existing table.
		if req.TableLimits != nil {
			return true
		}

		return isDropTable(req)

	default:
		return false
	}
}

// isDropTable checks if the specified TableRequest is a drop table
// operation.
func isDropTable(req *TableRequest) bool {
	s := strings.Fields(req.Statement)
	if len(s) < 2 {
		return false
	}

	return strings.EqualFold(s[0], "DROP") && strings.EqualFold(s[1], "TABLE")
}
