//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

// Package auth provides types shared by authorization providers.
package auth

import (
	"time"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/httputil"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/logger"
)

const (
	// BearerToken is the bearer token authorization scheme. The bearer who
	// holds the access token can access authorized resources.
	BearerToken string = "Bearer"

	// Signature is the request signature authorization scheme.
	Signature string = "Signature"
)

// Token carries the credentials used to authorize requests.
type Token struct {
	// The access token issued by the authorization server.
	AccessToken string `json:"access_token"`

	// Token type. Defaults to "Bearer" if not set.
	Type string `json:"token_type,omitempty"`

	// The duration of time the access token is granted for.
	// Zero means the access token does not expire.
	ExpiresIn time.Duration `json:"expires_in,omitempty"`

	// The time when the access token expires.
	// A zero value means the access token does not expire.
	Expiry time.Time `json:"expiry,omitempty"`
}

// NewToken creates a token with the specified access token, token type and
// expiresIn duration.
func NewToken(accessToken, tokenType string, expiresIn time.Duration) *Token {
	if tokenType == "" {
		tokenType = BearerToken
	}

	t := &Token{
		AccessToken: accessToken,
		Type:        tokenType,
		ExpiresIn:   expiresIn,
	}

	if expiresIn > 0 {
		t.Expiry = time.Now().Add(expiresIn)
	}

	return t
}

// NewTokenWithExpiry creates a token with the specified access token, token
// type and expiry time.
func NewTokenWithExpiry(accessToken, tokenType string, expiry time.Time) *Token {
	if tokenType == "" {
		tokenType = BearerToken
	}

	t := &Token{
		AccessToken: accessToken,
		Type:        tokenType,
		Expiry:      expiry,
	}

	if expiry.After(time.Now()) {
		t.ExpiresIn = time.Until(expiry)
	}

	return t
}

// Expired reports whether the access token has expired.
func (t Token) Expired() bool {
	if t.Expiry.IsZero() {
		return false
	}

	return t.Expiry.Before(time.Now())
}

// NeedRefresh reports whether the access token should be refreshed, which is
// the case when it expires within the specified expiry window.
func (t Token) NeedRefresh(expiryWindow time.Duration) bool {
	if t.Expiry.IsZero() || expiryWindow <= 0 || expiryWindow > t.ExpiresIn {
		return false
	}

	return time.Until(t.Expiry) <= expiryWindow
}

// AuthString returns the string to set in the HTTP "Authorization" header.
func (t Token) AuthString() string {
	if t.Type == "" {
		return BearerToken + " " + t.AccessToken
	}

	return t.Type + " " + t.AccessToken
}

// Request wraps the request-dependent value of an authorization request.
// The authorization provider interprets the value.
type Request interface {
	Value() string
}

// ProviderOptions holds common options for authorization providers.
type ProviderOptions struct {
	// Timeout specifies the timeout for requests the provider makes to the
	// authorization server. Values below 1 millisecond select the
	// provider's default.
	Timeout time.Duration

	// ExpiryWindow determines how far ahead of token expiry the provider
	// may renew the access token. Values below 1 millisecond select the
	// provider's default. A window larger than the token lifetime disables
	// renewal of cached tokens.
	ExpiryWindow time.Duration

	// Logger specifies a logger for the provider.
	// Defaults to logger.DefaultLogger.
	Logger *logger.Logger

	// HTTPClient specifies an HTTP client for the provider.
	// Defaults to httputil.DefaultHTTPClient.
	HTTPClient *httputil.HTTPClient
}
