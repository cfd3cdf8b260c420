//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewToken(t *testing.T) {
	tests := []struct {
		accessToken string
		tokenType   string
		expiresIn   time.Duration
		doNotExpire bool
	}{
		{"", BearerToken, 1 * time.Minute, false},
		{"abcd", "", 0, true},
		{"efgh", "JWT", -1, true},
	}

	for _, r := range tests {
		var expireTime time.Time
		if r.expiresIn > 0 {
			expireTime = time.Now().Add(r.expiresIn)
		}

		tokens := []*Token{
			NewToken(r.accessToken, r.tokenType, r.expiresIn),
			NewTokenWithExpiry(r.accessToken, r.tokenType, expireTime),
			{
				AccessToken: r.accessToken,
				Type:        r.tokenType,
				ExpiresIn:   r.expiresIn,
			},
		}

		expectType := r.tokenType
		if r.tokenType == "" {
			expectType = BearerToken
		}

		for i, tok := range tokens {
			assert.Equalf(t, expectType+" "+r.accessToken, tok.AuthString(),
				"token-%d [tokenType=%s] AuthString() got unexpected result", i, r.tokenType)
			if r.doNotExpire {
				assert.Falsef(t, tok.Expired(),
					"token-%d [expiresIn=%v] Expired() got unexpected result", i, r.expiresIn)
			}
		}
	}
}

func TestNeedRefresh(t *testing.T) {
	tok := NewToken("abcd", BearerToken, time.Hour)

	assert.False(t, tok.NeedRefresh(0), "zero expiry window should disable refresh")
	assert.False(t, tok.NeedRefresh(time.Minute), "token far from expiry should not need refresh")
	assert.False(t, tok.NeedRefresh(2*time.Hour), "window larger than token lifetime should disable refresh")

	tok = NewToken("abcd", BearerToken, 2*time.Second)
	assert.True(t, tok.NeedRefresh(2*time.Second), "token about to expire should need refresh")

	// tokens without expiry never refresh
	tok = NewToken("abcd", BearerToken, 0)
	assert.False(t, tok.NeedRefresh(time.Minute))
	assert.False(t, tok.Expired())
}
