//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

package nimbusdb

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/httputil"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/logger"
	"github.com/nimbusdb/nimbus-go-sdk/nimbusdb/types"
)

const (
	// The default timeout value for requests.
	// This applies to any requests other than TableRequest.
	defaultRequestTimeout = 5 * time.Second

	// The default timeout value for TableRequest.
	defaultTableRequestTimeout = 10 * time.Second

	// The default timeout value for retrieving security information such as
	// access tokens from the authorization service.
	defaultSecurityInfoTimeout = 10 * time.Second

	// The default Consistency value.
	defaultConsistency = types.Eventual

	// The default maximum number of retries.
	defaultMaxNumRetries = 5

	// The default base delay for retries of throttled control operations
	// such as table DDL. These are retried on a much longer cadence than
	// data operations.
	defaultControlOpBaseDelay = 30 * time.Second

	// How often table limits feeding the rate limiters are refreshed.
	defaultRateLimiterRefresh = 10 * time.Minute
)

// Config represents a group of configuration parameters for a Client.
//
// When creating a Client the Config instance is copied, so modifications to
// the instance have no effect on an existing Client.
//
// Most parameters are optional and have default values. The only required
// parameter is the Endpoint.
type Config struct {
	// Endpoint specifies the Nimbus service endpoint the client connects to.
	// It is required.
	// It must include the target address, and may include protocol and port.
	// The syntax is:
	//
	//   [http[s]://]host[:port]
	//
	// For example, these are valid endpoints:
	//
	//   nimbus.us-east-1.nimbusdb.io
	//   https://nimbus.eu-central-1.nimbusdb.io:443
	//   localhost:8080
	//
	// If port is omitted, the endpoint defaults to 443.
	// If protocol is omitted, the endpoint uses https if the port is 443,
	// and http in all other cases.
	Endpoint string `yaml:"endpoint"`

	// Mode specifies the configuration mode for the client, either "cloud"
	// or "onprem". The default is "cloud".
	Mode string `yaml:"mode"`

	// Username specifies the user used to authenticate with the server.
	// This is only used for on-premise servers configured with security.
	Username string `yaml:"username"`

	// Password specifies the password for the user.
	// This is only used for on-premise servers configured with security.
	Password []byte `yaml:"password"`

	// Configurations for requests.
	RequestConfig `yaml:"request"`

	// Configurations for retries.
	RetryConfig `yaml:"retry"`

	// Configurations for the HTTP client.
	httputil.HTTPConfig `yaml:"-"`

	// Configurations for logging.
	LoggingConfig `yaml:"-"`

	// Authorization provider. If not specified, requests are sent without
	// an authorization string.
	AuthorizationProvider `yaml:"-"`

	// RetryHandler specifies a handler used to handle operation retries.
	// If not specified, a DefaultRetryHandler built from RetryConfig is
	// used.
	RetryHandler `yaml:"-"`

	// RateLimitingEnabled turns on internal rate limiting. When enabled the
	// client creates a pair of limiters per table, keeps them in sync with
	// the table's limits, and delays operations that would exceed those
	// limits.
	RateLimitingEnabled bool `yaml:"rateLimitingEnabled"`

	// RateLimiterPercentage limits each client instance to a percentage of
	// each table's full throughput. Values at or below zero or above 100
	// mean 100 percent. This is useful when multiple client instances share
	// a table.
	RateLimiterPercentage float64 `yaml:"rateLimiterPercentage"`

	host     string
	port     string
	protocol string

	// httpClient allows tests to supply a preconfigured HTTP client.
	httpClient *httputil.HTTPClient
}

// setDefaults resolves the configuration before a Client is built from it.
// It parses the endpoint, checks the configured mode and fills in the
// logger and retry handler if they are not set.
func (c *Config) setDefaults() error {
	if err := c.parseEndpoint(); err != nil {
		return err
	}

	if c.Mode != "" && !strings.EqualFold(c.Mode, "cloud") && !strings.EqualFold(c.Mode, "onprem") {
		return fmt.Errorf("invalid Mode %q, must be either \"cloud\" or \"onprem\"", c.Mode)
	}

	if c.Logger == nil && !c.DisableLogging {
		c.Logger = logger.DefaultLogger
	}

	if c.RetryHandler == nil {
		h, err := NewDefaultRetryHandlerWithControlOpDelay(
			c.RetryConfig.DefaultMaxNumRetries(),
			c.RetryConfig.RetryInterval,
			c.RetryConfig.DefaultControlOpBaseDelay())
		if err != nil {
			return err
		}
		c.RetryHandler = h
	}

	return nil
}

// LoadConfig reads a Config from a YAML file.
//
// HTTP, logging and authorization settings are not representable in the
// file; set them on the returned Config before creating a Client.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %v", path, err)
	}

	return &cfg, nil
}

// parseEndpoint parses the configured Endpoint, returning an error if it
// does not conform to the syntax:
//
//	[http[s]://]host[:port]
//
// The following rules apply:
//
// 1. If protocol and port are both omitted, the endpoint uses https with
// port 443.
//
// 2. If port is omitted, the endpoint uses 443 for https, or 8080 for http.
//
// 3. If protocol is omitted, the endpoint uses https if the port is 443,
// and http in all other cases.
func (c *Config) parseEndpoint() (err error) {
	c.protocol, c.host, c.port, err = parseEndpoint(c.Endpoint)
	if err != nil {
		return
	}

	c.Endpoint = c.protocol + "://" + c.host + ":" + c.port
	return nil
}

// IsCloudMode returns whether the configuration is used for the cloud
// service.
func (c *Config) IsCloudMode() bool {
	return c.Mode == "" || strings.EqualFold(c.Mode, "cloud")
}

func parseEndpoint(endpoint string) (protocol, host, port string, err error) {
	if endpoint == "" {
		err = errors.New("Endpoint must be specified")
		return
	}

	if idx := strings.Index(endpoint, "://"); idx == -1 {
		host = endpoint
	} else {
		protocol = strings.ToLower(endpoint[:idx])
		if protocol != "https" && protocol != "http" {
			return "", "", "", fmt.Errorf("the specified protocol %q is not supported. "+
				"Must use \"https\" or \"http\"", protocol)
		}
		host = endpoint[idx+3:]
	}

	host = strings.TrimRight(host, "/")

	bracket := strings.IndexByte(host, ']')
	colon := strings.LastIndexByte(host, ':')
	if colon > bracket {
		host, port, err = net.SplitHostPort(host)
		if err != nil {
			return "", "", "", err
		}
		if port != "" {
			portNum, err := strconv.Atoi(port)
			if err != nil || portNum < 0 {
				return "", "", "", fmt.Errorf("invalid port number %s", port)
			}
		}
	}

	if host == "" {
		return "", "", "", fmt.Errorf("invalid endpoint %q", endpoint)
	}

	switch {
	case protocol == "" && port == "":
		protocol = "https"
		port = "443"

	case protocol == "":
		if port == "443" {
			protocol = "https"
		} else {
			protocol = "http"
		}

	case port == "":
		if protocol == "https" {
			port = "443"
		} else {
			port = "8080"
		}
	}

	return
}

// RequestConfig represents a group of configuration parameters for requests.
type RequestConfig struct {
	// RequestTimeout specifies a timeout value for requests.
	// This applies to any requests other than TableRequest.
	// If set, it must be greater than or equal to 1 millisecond.
	RequestTimeout time.Duration `yaml:"requestTimeout"`

	// TableRequestTimeout specifies a timeout value for TableRequest.
	// If set, it must be greater than or equal to 1 millisecond.
	TableRequestTimeout time.Duration `yaml:"tableRequestTimeout"`

	// SecurityInfoTimeout specifies how long to keep retrying while waiting
	// for security information such as access tokens to become available.
	// If set, it must be greater than or equal to 1 millisecond.
	SecurityInfoTimeout time.Duration `yaml:"securityInfoTimeout"`

	// Consistency specifies a Consistency value for read requests, which
	// include GetRequest and QueryRequest.
	// If set, it must be either types.Eventual or types.Absolute.
	Consistency types.Consistency `yaml:"consistency"`

	// Namespace is used on-premises only. It specifies a default namespace
	// for all requests issued from the client. Any namespace set explicitly
	// on a request overrides this value.
	Namespace string `yaml:"namespace"`
}

// DefaultRequestTimeout returns the timeout value used for requests when the
// configured timeout is absent or zero. The default is 5 seconds.
func (r *RequestConfig) DefaultRequestTimeout() time.Duration {
	if r == nil || r.RequestTimeout == 0 {
		return defaultRequestTimeout
	}
	return r.RequestTimeout
}

// DefaultTableRequestTimeout returns the timeout value used for table
// requests when the configured timeout is absent or zero. The default is 10
// seconds.
func (r *RequestConfig) DefaultTableRequestTimeout() time.Duration {
	if r == nil || r.TableRequestTimeout == 0 {
		return defaultTableRequestTimeout
	}
	return r.TableRequestTimeout
}

// DefaultSecurityInfoTimeout returns the timeout value used while waiting
// for security information to be available when the configured timeout is
// absent or zero. The default is 10 seconds.
func (r *RequestConfig) DefaultSecurityInfoTimeout() time.Duration {
	if r == nil || r.SecurityInfoTimeout == 0 {
		return defaultSecurityInfoTimeout
	}
	return r.SecurityInfoTimeout
}

// DefaultConsistency returns the configured Consistency, or types.Eventual
// if none is configured.
func (r *RequestConfig) DefaultConsistency() types.Consistency {
	if r == nil || r.Consistency == 0 {
		return defaultConsistency
	}
	return r.Consistency
}

// DefaultNamespace returns the default namespace applied to requests that do
// not set one. Returns an empty string if no default is configured.
func (r *RequestConfig) DefaultNamespace() string {
	if r == nil {
		return ""
	}
	return r.Namespace
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for RequestConfig.
//
// Timeouts are given in Go duration syntax such as "8s" or "500ms", the
// consistency as "eventual" or "absolute".
func (r *RequestConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var aux struct {
		RequestTimeout      string `yaml:"requestTimeout"`
		TableRequestTimeout string `yaml:"tableRequestTimeout"`
		SecurityInfoTimeout string `yaml:"securityInfoTimeout"`
		Consistency         string `yaml:"consistency"`
		Namespace           string `yaml:"namespace"`
	}
	if err := unmarshal(&aux); err != nil {
		return err
	}

	var err error
	if r.RequestTimeout, err = parseConfigDuration(aux.RequestTimeout); err != nil {
		return err
	}
	if r.TableRequestTimeout, err = parseConfigDuration(aux.TableRequestTimeout); err != nil {
		return err
	}
	if r.SecurityInfoTimeout, err = parseConfigDuration(aux.SecurityInfoTimeout); err != nil {
		return err
	}

	switch strings.ToLower(aux.Consistency) {
	case "":
	case "eventual":
		r.Consistency = types.Eventual
	case "absolute":
		r.Consistency = types.Absolute
	default:
		return fmt.Errorf("invalid consistency %q, must be either \"eventual\" or \"absolute\"",
			aux.Consistency)
	}

	r.Namespace = aux.Namespace
	return nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for RetryConfig.
//
// Delays are given in Go duration syntax such as "1s" or "500ms".
func (r *RetryConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var aux struct {
		MaxNumRetries      uint   `yaml:"maxNumRetries"`
		RetryInterval      string `yaml:"retryInterval"`
		ControlOpBaseDelay string `yaml:"controlOpBaseDelay"`
	}
	if err := unmarshal(&aux); err != nil {
		return err
	}

	var err error
	if r.RetryInterval, err = parseConfigDuration(aux.RetryInterval); err != nil {
		return err
	}
	if r.ControlOpBaseDelay, err = parseConfigDuration(aux.ControlOpBaseDelay); err != nil {
		return err
	}

	r.MaxNumRetries = aux.MaxNumRetries
	return nil
}

// parseConfigDuration parses a duration from the configuration file. An
// empty value selects the default by parsing to zero.
func parseConfigDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// RetryConfig controls the DefaultRetryHandler a Client builds when no
// custom RetryHandler is configured.
type RetryConfig struct {
	// MaxNumRetries specifies the maximum number of retries before an error
	// is reported to the application. The default is 5.
	MaxNumRetries uint `yaml:"maxNumRetries"`

	// RetryInterval specifies a fixed delay between retries. If zero, an
	// exponential backoff with a base delay of 1 second is used. If set, it
	// must be greater than or equal to 1 millisecond.
	RetryInterval time.Duration `yaml:"retryInterval"`

	// ControlOpBaseDelay gates retries of throttled control operations such
	// as table DDL. When positive, those errors are retried with an
	// exponential backoff starting from this delay. When negative, they are
	// not retried. Zero selects the default of 30 seconds.
	ControlOpBaseDelay time.Duration `yaml:"controlOpBaseDelay"`
}

// DefaultMaxNumRetries returns the configured maximum number of retries, or
// 5 if none is configured.
func (r *RetryConfig) DefaultMaxNumRetries() uint {
	if r == nil || r.MaxNumRetries == 0 {
		return defaultMaxNumRetries
	}
	return r.MaxNumRetries
}

// DefaultControlOpBaseDelay returns the configured base delay for throttled
// control operation retries. It returns 30 seconds if none is configured,
// and 0 if control operation retries are disabled.
func (r *RetryConfig) DefaultControlOpBaseDelay() time.Duration {
	if r == nil || r.ControlOpBaseDelay == 0 {
		return defaultControlOpBaseDelay
	}
	if r.ControlOpBaseDelay < 0 {
		return 0
	}
	return r.ControlOpBaseDelay
}

// LoggingConfig represents logging configurations.
type LoggingConfig struct {
	// Configurations for the logger.
	// If not set, logger.DefaultLogger is used unless DisableLogging is set.
	*logger.Logger

	// DisableLogging represents whether logging is disabled.
	DisableLogging bool
}
