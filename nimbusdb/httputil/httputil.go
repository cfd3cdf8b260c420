//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package httputil

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/logger"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/nimbuserr"
)

const retryInterval = time.Second

// RequestExecutor executes an HTTP request. The driver's transport is
// expressed through this interface so that tests can substitute a fake.
type RequestExecutor interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response carries the body and status code of an http.Response returned
// from the server.
type Response struct {
	Body []byte
	Code int
}

// NewPostRequest creates an HTTP POST request for the specified url and data.
func NewPostRequest(url string, data []byte) (*http.Request, error) {
	return http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
}

// NewGetRequest creates an HTTP GET request for the specified url.
func NewGetRequest(url string) (*http.Request, error) {
	return http.NewRequest(http.MethodGet, url, http.NoBody)
}

func newHTTPRequest(method, url string, data []byte, headers map[string]string) (*http.Request, error) {
	var rd io.Reader
	if len(data) > 0 {
		rd = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequest(method, url, rd)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	if httpReq.Header.Get("Host") == "" {
		httpReq.Header.Set("Host", httpReq.URL.Hostname())
	}

	return httpReq, nil
}

func executeRequest(ctx context.Context, executor RequestExecutor, timeout time.Duration,
	method, url string, data []byte, headers map[string]string) (*Response, error) {

	httpReq, err := newHTTPRequest(method, url, data, headers)
	if err != nil {
		return nil, err
	}

	reqCtx, reqCancel := context.WithTimeout(ctx, timeout)
	defer reqCancel()

	httpResp, err := executor.Do(httpReq.WithContext(reqCtx))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Code: httpResp.StatusCode,
		Body: body,
	}, nil
}

// DoRequest builds an HTTP request from the specified method, url, data and
// headers, then executes it with the specified executor. Responses with a
// status code below 500 are returned as-is. On a 5xx status the request is
// retried with exponential backoff until it succeeds or the timeout elapses.
func DoRequest(ctx context.Context, executor RequestExecutor, timeout time.Duration,
	method, url string, data []byte, headers map[string]string,
	lgr *logger.Logger) (*Response, error) {

	var err error
	var resp *Response
	var timer *time.Timer
	var delay time.Duration
	var numAttempts uint

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

DoRetry:
	for {
		numAttempts++
		resp, err = executeRequest(reqCtx, executor, timeout, method, url, data, headers)
		if err != nil {
			break
		}

		if resp.Code < 500 {
			return resp, nil
		}

		lgr.Fine("server temporarily unavailable, status code: %d, response: %s",
			resp.Code, string(resp.Body))
		delay = (1 << (numAttempts - 1)) * retryInterval
		lgr.Fine("DoRequest(): attempt %d failed, will retry in %v", numAttempts, delay)

		if timer == nil {
			timer = time.NewTimer(delay)
			defer timer.Stop()
		} else {
			timer.Reset(delay)
		}

		select {
		case <-timer.C:
			timer.Stop()
		case <-reqCtx.Done():
			timer.Stop()
			break DoRetry
		}
	}

	var errMsg string
	if err != nil {
		errMsg = fmt.Sprintf(", got error: %v", err)
	}
	switch reqCtx.Err() {
	case context.DeadlineExceeded:
		return nil, nimbuserr.NewRequestTimeout("request timed out after %v, "+
			"number of attempts: %d"+errMsg, timeout, numAttempts)
	case context.Canceled:
		return nil, fmt.Errorf("request was canceled%s", errMsg)
	default:
		return nil, err
	}
}

// BasicAuth returns a basic authentication string of the form
//
//	Basic base64(clientID:clientSecret)
func BasicAuth(clientID string, clientSecret []byte) string {
	s := fmt.Sprintf("%s:%s", clientID, string(clientSecret))
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s))
}
