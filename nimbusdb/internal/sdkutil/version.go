//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package sdkutil

import (
	"fmt"
	"runtime"
)

const (
	// Major, minor and patch versions for the SDK.
	major = 1
	minor = 4
	patch = 0

	// DataServiceURI is the URI for the data service.
	DataServiceURI = "/V1/nimbus/data"
)

var sdkVersion, userAgent string

func init() {
	sdkVersion = fmt.Sprintf("%d.%d.%d", major, minor, patch)
	// A sample User-Agent header: Nimbus-GoSDK/1.4.0 (go1.21; linux/amd64)
	userAgent = fmt.Sprintf("Nimbus-GoSDK/%s (%s; %s/%s)",
		sdkVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// SDKVersion returns the Nimbus Go SDK version.
func SDKVersion() string {
	return sdkVersion
}

// UserAgent returns a descriptive string that can be set in the "User-Agent"
// header of HTTP requests.
func UserAgent() string {
	return userAgent
}
