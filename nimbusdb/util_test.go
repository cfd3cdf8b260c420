//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"net/http"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/auth"
)

// equalError checks if the two errors are deeply equal.
func equalError(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Error() == b.Error()
}

// DummyAccessTokenProvider represents a dummy access token provider that is
// used for tests.
type DummyAccessTokenProvider struct {
	TenantID string
}

func (p *DummyAccessTokenProvider) AuthorizationScheme() string {
	return auth.BearerToken
}

func (p *DummyAccessTokenProvider) AuthorizationString(req auth.Request) (string, error) {
	return auth.BearerToken + " " + p.TenantID, nil
}

func (p *DummyAccessTokenProvider) Close() error {
	return nil
}

func (p *DummyAccessTokenProvider) SignHTTPRequest(req *http.Request) error {
	return nil
}
