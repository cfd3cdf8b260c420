//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

// Package httputil provides the HTTP client plumbing used by the driver.
package httputil

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// HTTPClient sends HTTP requests to and receives HTTP responses from the
// server. It wraps an http.Client configured for driver use.
//
// The underlying Transport caches TCP connections for reuse, so an
// HTTPClient should be created once and shared rather than created per
// request.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates an HTTPClient using the specified configuration.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	// Transport defaults, overridden below by any configured values.
	tr := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		DisableKeepAlives:     false,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if cfg.UseProxyFromEnv {
		tr.Proxy = http.ProxyFromEnvironment
	} else if cfg.ProxyURL != "" {
		pu, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		tr.Proxy = http.ProxyURL(pu)
		if cfg.ProxyUsername != "" && cfg.ProxyPassword != "" {
			auth := BasicAuth(cfg.ProxyUsername, []byte(cfg.ProxyPassword))
			tr.ProxyConnectHeader = http.Header{}
			tr.ProxyConnectHeader.Add("Proxy-Authorization", auth)
		}
	}

	if cfg.MaxIdleConns != 0 {
		tr.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost != 0 {
		tr.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	if cfg.IdleConnTimeout != 0 {
		tr.IdleConnTimeout = cfg.IdleConnTimeout
	}

	dialTimeout := 30 * time.Second

	if cfg.UseHTTPS {
		rootCAs, _ := x509.SystemCertPool()
		if rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		if !cfg.InsecureSkipVerify && cfg.CertPath != "" {
			certs, err := os.ReadFile(cfg.CertPath)
			if err != nil {
				return nil, err
			}
			if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
				return nil, fmt.Errorf("no valid PEM certs found in %s", cfg.CertPath)
			}
		}
		if cfg.TLSHandshakeTimeout != 0 {
			tr.TLSHandshakeTimeout = cfg.TLSHandshakeTimeout
		}
		tr.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			RootCAs:            rootCAs,
			ServerName:         cfg.ServerName,
		}
	}

	tr.DialContext = (&net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &HTTPClient{client: &http.Client{Transport: tr}}, nil
}

// Do sends an HTTP request and returns an HTTP response.
// It implements the RequestExecutor interface.
func (hc *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return hc.client.Do(req)
}

// DefaultHTTPClient is an HTTPClient instance that is ready to use.
var DefaultHTTPClient = &HTTPClient{
	client: http.DefaultClient,
}

// HTTPConfig contains parameters used to configure HTTPClient.
type HTTPConfig struct {
	// UseHTTPS indicates whether HTTPS is used.
	UseHTTPS bool

	// ProxyURL specifies an HTTP proxy server URL.
	// If specified, all transports go through the proxy server.
	ProxyURL string

	// ProxyUsername specifies the username used to authenticate with the
	// HTTP proxy server if required.
	ProxyUsername string

	// ProxyPassword specifies the password used to authenticate with the
	// HTTP proxy server if required.
	ProxyPassword string

	// UseProxyFromEnv indicates whether to use the proxy server set by the
	// HTTP_PROXY, HTTPS_PROXY and NO_PROXY environment variables (or their
	// lowercase versions). If true, it takes precedence over ProxyURL.
	UseProxyFromEnv bool

	// MaxIdleConns controls the maximum number of idle (keep-alive)
	// connections across all hosts. The default is 100.
	MaxIdleConns int

	// MaxIdleConnsPerHost controls the maximum idle (keep-alive)
	// connections to keep per host. The default is 100.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is the maximum amount of time an idle (keep-alive)
	// connection will remain idle before closing itself.
	// The default is 90 seconds.
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout is the maximum amount of time to wait for a TLS
	// handshake. The default is 10 seconds.
	TLSHandshakeTimeout time.Duration

	// InsecureSkipVerify controls whether the client verifies the server's
	// certificate chain and host name. If true, TLS accepts any certificate
	// presented by the server and any host name in that certificate, which
	// makes it susceptible to man-in-the-middle attacks.
	InsecureSkipVerify bool

	// CertPath specifies the path to a PEM-encoded certificate file.
	// Certificates in this file are used in addition to system certificates.
	// This is typically used for local self-signed certificates.
	// If InsecureSkipVerify is true, this field is ignored.
	CertPath string

	// ServerName is used to verify the host name for self-signed
	// certificates. It is only used if CertPath is nonempty, and is
	// typically the "CN" subject value from that certificate.
	// If InsecureSkipVerify is true, this field is ignored.
	ServerName string
}
