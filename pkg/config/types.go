// Package config provides configuration types and utilities for the mock server engine.
package config

import (
	"encoding/json"

	"github.com/getmockd/mockconf/pkg/logging"
)

// Defaults of ServerConfiguration.
const (
	DefaultHost         = "localhost"
	DefaultPort         = 4280
	DefaultReadTimeout  = 30
	DefaultWriteTimeout = 30
	DefaultMaxBodySize  = 10 << 20
)

// ServerConfiguration defines the mock server runtime settings and operational parameters.
type ServerConfiguration struct {
	// Host is the interface the server binds to
	Host string `json:"host,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
	// Port is the HTTP port (0 picks a free port)
	Port int `json:"port,omitempty" validate:"min=0,max=65535"`
	// ReadTimeout is the HTTP read timeout in seconds
	ReadTimeout int `json:"readTimeout,omitempty" validate:"min=0"`
	// WriteTimeout is the HTTP write timeout in seconds. It must cover the
	// longest configured delay.
	WriteTimeout int `json:"writeTimeout,omitempty" validate:"min=0"`
	// MaxBodySize is the maximum request body size in bytes
	MaxBodySize int `json:"maxBodySize,omitempty" validate:"min=0"`
	// BaseDir resolves relative response file paths. Defaults to the
	// directory of the configuration file.
	BaseDir string `json:"baseDir,omitempty"`
	// Log configures operational logging
	Log LogConfiguration `json:"log,omitempty"`
}

// LogConfiguration defines operational logging.
type LogConfiguration struct {
	Level  string `json:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=text json"`
	// File enables a rotating JSON log file
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMB,omitempty" validate:"min=0"`
	MaxBackups int    `json:"maxBackups,omitempty" validate:"min=0"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty" validate:"min=0"`
	Compress   bool   `json:"compress,omitempty"`
}

// DefaultServerConfiguration returns a ServerConfiguration with default values.
func DefaultServerConfiguration() *ServerConfiguration {
	return &ServerConfiguration{
		Host:         DefaultHost,
		Port:         DefaultPort,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxBodySize:  DefaultMaxBodySize,
		Log: LogConfiguration{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoggingConfig converts the log settings for logging.New.
func (c *ServerConfiguration) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	cfg.Format = logging.ParseFormat(c.Log.Format)
	cfg.File = logging.FileConfig{
		Path:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
	return cfg
}

// File is the on-disk configuration document. The same shape is read from
// YAML, JSON and TOML.
type File struct {
	// Server overrides server defaults
	Server *ServerConfiguration `json:"server,omitempty"`
	// BaseURL prefixes every REST path and the GraphQL endpoint
	BaseURL string `json:"baseUrl,omitempty"`

	Rest    *APIFile `json:"rest,omitempty"`
	GraphQL *APIFile `json:"graphql,omitempty"`

	// Interceptors run for every request
	Interceptors *InterceptorsFile `json:"interceptors,omitempty"`
}

// APIFile groups the request configs of one kind.
type APIFile struct {
	BaseURL      string              `json:"baseUrl,omitempty"`
	Configs      []RequestConfigFile `json:"configs" validate:"dive"`
	Interceptors *InterceptorsFile   `json:"interceptors,omitempty"`
}

// RequestConfigFile declares a request identity and its routes.
type RequestConfigFile struct {
	// REST identity
	Method      string `json:"method,omitempty" validate:"omitempty,oneof=get post put patch delete options GET POST PUT PATCH DELETE OPTIONS"`
	Path        string `json:"path,omitempty"`
	PathPattern string `json:"pathPattern,omitempty"`

	// GraphQL identity
	OperationType        string `json:"operationType,omitempty" validate:"omitempty,oneof=query mutation"`
	OperationName        string `json:"operationName,omitempty"`
	OperationNamePattern string `json:"operationNamePattern,omitempty"`

	Routes       []RouteFile       `json:"routes" validate:"min=1,dive"`
	Interceptors *InterceptorsFile `json:"interceptors,omitempty"`
}

// RouteFile is one candidate response.
type RouteFile struct {
	Data any `json:"data,omitempty"`
	// DataExpr is an expression computing the data from the request
	DataExpr string          `json:"dataExpr,omitempty"`
	Queue    []QueueItemFile `json:"queue,omitempty" validate:"dive"`
	File     string          `json:"file,omitempty"`

	Entities     *EntitiesFile     `json:"entities,omitempty"`
	Settings     *SettingsFile     `json:"settings,omitempty"`
	Interceptors *InterceptorsFile `json:"interceptors,omitempty"`
}

// QueueItemFile is one queue step.
type QueueItemFile struct {
	Data any    `json:"data,omitempty"`
	File string `json:"file,omitempty"`
	// Time is the step delay in milliseconds
	Time *int `json:"time,omitempty" validate:"omitempty,min=0"`
}

// SettingsFile tunes a route's response.
type SettingsFile struct {
	Status int `json:"status,omitempty" validate:"omitempty,min=200,max=599"`
	// Delay is in milliseconds
	Delay   int  `json:"delay,omitempty" validate:"min=0"`
	Polling bool `json:"polling,omitempty"`
}

// EntitiesFile holds the raw request constraints of a route. Mapped values
// are either a {checkMode, value} descriptor or a value to compare with
// equals. Body and variables additionally accept an object of dot-path
// keyed descriptors.
type EntitiesFile struct {
	Headers map[string]any `json:"headers,omitempty"`
	Cookies map[string]any `json:"cookies,omitempty"`
	Query   map[string]any `json:"query,omitempty"`
	Params  map[string]any `json:"params,omitempty"`

	Body      json.RawMessage `json:"body,omitempty"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// InterceptorsFile holds expression sources of a scope's interceptors.
type InterceptorsFile struct {
	Request  string `json:"request,omitempty"`
	Response string `json:"response,omitempty"`
}
