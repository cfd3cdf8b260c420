//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		want  string
	}{
		{"", false, ""},
		{"://", false, ""},
		{"http://", false, ""},
		{"http://:8080", false, ""},
		{"https://:443", false, ""},
		{"ftp://localhost", false, ""},
		{"httpX://localhost", false, ""},
		{"https://foo.com:xyz", false, ""},
		{"https://foo.com:-10", false, ""},
		{"https://foo.com:9090:876", false, ""},
		{"hTTp://http.foo.com:9090", true, "http://http.foo.com:9090"},
		{"HTTPs://https.foo.com:9090", true, "https://https.foo.com:9090"},
		{"localhost", true, "https://localhost:443"},
		{"localhost:443", true, "https://localhost:443"},
		{"https://localhost", true, "https://localhost:443"},
		{"https://localhost:443", true, "https://localhost:443"},
		{"https://localhost:443/", true, "https://localhost:443"},
		{"localhost:80", true, "http://localhost:80"},
		{"localhost:8080", true, "http://localhost:8080"},
		{"http://localhost:8080", true, "http://localhost:8080"},
		{"hTtp://foo.com:8080", true, "http://foo.com:8080"},
		{"hTtpS://foo.com:443", true, "https://foo.com:443"},
		{"nimbus.us-east-1.nimbusdb.io", true, "https://nimbus.us-east-1.nimbusdb.io:443"},
		{"https://nimbus.us-east-1.nimbusdb.io", true, "https://nimbus.us-east-1.nimbusdb.io:443"},
		{"https://nimbus.us-east-1.nimbusdb.io:443", true, "https://nimbus.us-east-1.nimbusdb.io:443"},
		{"https://nimbus.us-east-1.nimbusdb.io:443/", true, "https://nimbus.us-east-1.nimbusdb.io:443"},
		{"192.168.0.12", true, "https://192.168.0.12:443"},
		{"http://192.168.0.12", true, "http://192.168.0.12:8080"},
		{"http://[fe80::1%25en0]", true, "http://[fe80::1%25en0]:8080"},
		{"https://[fe80::1]/", true, "https://[fe80::1]:443"},
	}

	// Validate and parse the specified endpoint.
	for _, r := range tests {
		cfg := Config{
			Endpoint: r.input,
		}
		err := cfg.parseEndpoint()
		if !r.valid {
			assert.Errorf(t, err, "parseEndpoint(ep=%q) should have failed", r.input)
			continue
		}

		if assert.NoErrorf(t, err, "parseEndpoint(ep=%q) got error %v", r.input, err) {
			assert.Equalf(t, r.want, cfg.Endpoint, "parseEndpoint(ep=%q) got unexpected result", r.input)
		}
	}
}

func TestConfigSetDefaults(t *testing.T) {
	tests := []struct {
		mode string
		ok   bool
	}{
		{"", true},
		{"cloud", true},
		{"Cloud", true},
		{"onprem", true},
		{"ONPREM", true},
		{"cloudsim", false},
		{"xyz", false},
	}

	for _, r := range tests {
		cfg := &Config{
			Endpoint: "localhost:8080",
			Mode:     r.mode,
		}
		err := cfg.setDefaults()
		if !r.ok {
			assert.Errorf(t, err, "setDefaults(mode=%q) should have failed", r.mode)
			continue
		}

		if assert.NoErrorf(t, err, "setDefaults(mode=%q) got error %v", r.mode, err) {
			assert.NotNil(t, cfg.Logger, "expect a default logger")
			assert.NotNil(t, cfg.RetryHandler, "expect a default retry handler")
			assert.Equal(t, defaultMaxNumRetries, int(cfg.RetryHandler.MaxNumRetries()))
		}
	}

	// A configured retry handler must not be replaced.
	h, err := NewDefaultRetryHandler(2, time.Second)
	require.NoError(t, err, "failed to create a retry handler")
	cfg := &Config{
		Endpoint:     "localhost:8080",
		RetryHandler: h,
	}
	require.NoError(t, cfg.setDefaults())
	assert.Equal(t, RetryHandler(h), cfg.RetryHandler)
}

func TestRequestConfig(t *testing.T) {
	defaultConfig := &RequestConfig{
		RequestTimeout:      defaultRequestTimeout,
		TableRequestTimeout: defaultTableRequestTimeout,
		SecurityInfoTimeout: defaultSecurityInfoTimeout,
		Consistency:         defaultConsistency,
	}
	tests := []struct {
		input *RequestConfig
		want  *RequestConfig
	}{
		{
			input: nil,
			want:  defaultConfig,
		},
		{
			input: &RequestConfig{},
			want:  defaultConfig,
		},
		{
			input: &RequestConfig{
				RequestTimeout:      6 * time.Second,
				TableRequestTimeout: 6 * time.Second,
				SecurityInfoTimeout: 15 * time.Second,
				Consistency:         types.Eventual,
				Namespace:           "dev",
			},
			want: &RequestConfig{
				RequestTimeout:      6 * time.Second,
				TableRequestTimeout: 6 * time.Second,
				SecurityInfoTimeout: 15 * time.Second,
				Consistency:         types.Eventual,
				Namespace:           "dev",
			},
		},
		{
			input: &RequestConfig{
				RequestTimeout:      6 * time.Second,
				TableRequestTimeout: 6 * time.Second,
			},
			want: &RequestConfig{
				RequestTimeout:      6 * time.Second,
				TableRequestTimeout: 6 * time.Second,
				SecurityInfoTimeout: defaultSecurityInfoTimeout,
				Consistency:         defaultConsistency,
			},
		},
		{
			input: &RequestConfig{
				SecurityInfoTimeout: 15 * time.Second,
				Consistency:         types.Absolute,
			},
			want: &RequestConfig{
				RequestTimeout:      defaultRequestTimeout,
				TableRequestTimeout: defaultTableRequestTimeout,
				SecurityInfoTimeout: 15 * time.Second,
				Consistency:         types.Absolute,
			},
		},
	}

	for i, r := range tests {
		if v := r.input.DefaultRequestTimeout(); v != r.want.RequestTimeout {
			t.Errorf("Test %d: got request timeout: %s; want %s", i+1, v, r.want.RequestTimeout)
		}

		if v := r.input.DefaultTableRequestTimeout(); v != r.want.TableRequestTimeout {
			t.Errorf("Test %d: got table request timeout: %s; want %s", i+1, v, r.want.TableRequestTimeout)
		}

		if v := r.input.DefaultSecurityInfoTimeout(); v != r.want.SecurityInfoTimeout {
			t.Errorf("Test %d: got security info timeout: %s; want %s", i+1, v, r.want.SecurityInfoTimeout)
		}

		if v := r.input.DefaultConsistency(); v != r.want.Consistency {
			t.Errorf("Test %d: got consistency: %s; want %s", i+1, v, r.want.Consistency)
		}

		if v := r.input.DefaultNamespace(); v != r.want.Namespace {
			t.Errorf("Test %d: got namespace: %s; want %s", i+1, v, r.want.Namespace)
		}
	}
}

func TestRetryConfig(t *testing.T) {
	var nilConfig *RetryConfig
	assert.Equal(t, uint(defaultMaxNumRetries), nilConfig.DefaultMaxNumRetries())
	assert.Equal(t, defaultControlOpBaseDelay, nilConfig.DefaultControlOpBaseDelay())

	cfg := &RetryConfig{MaxNumRetries: 3, ControlOpBaseDelay: time.Minute}
	assert.Equal(t, uint(3), cfg.DefaultMaxNumRetries())
	assert.Equal(t, time.Minute, cfg.DefaultControlOpBaseDelay())

	// A negative delay disables control operation retries.
	cfg = &RetryConfig{ControlOpBaseDelay: -1}
	assert.Equal(t, time.Duration(0), cfg.DefaultControlOpBaseDelay())
}

func TestLoadConfig(t *testing.T) {
	content := `
endpoint: https://nimbus.us-east-1.nimbusdb.io
mode: cloud
request:
  requestTimeout: 8s
  tableRequestTimeout: 15s
  consistency: absolute
  namespace: dev
retry:
  maxNumRetries: 4
  retryInterval: 2s
rateLimitingEnabled: true
rateLimiterPercentage: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err, "LoadConfig() got error")

	assert.Equal(t, "https://nimbus.us-east-1.nimbusdb.io", cfg.Endpoint)
	assert.Equal(t, "cloud", cfg.Mode)
	assert.Equal(t, 8*time.Second, cfg.RequestConfig.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.RequestConfig.TableRequestTimeout)
	assert.Equal(t, types.Absolute, cfg.RequestConfig.Consistency)
	assert.Equal(t, "dev", cfg.RequestConfig.Namespace)
	assert.Equal(t, uint(4), cfg.RetryConfig.MaxNumRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryConfig.RetryInterval)
	assert.True(t, cfg.RateLimitingEnabled)
	assert.Equal(t, 25.0, cfg.RateLimiterPercentage)

	// Unknown fields are rejected.
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("endpoint: localhost\nbogus: 1\n"), 0600))
	_, err = LoadConfig(bad)
	assert.Error(t, err, "LoadConfig() should reject unknown fields")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "LoadConfig() should fail for a missing file")
}
