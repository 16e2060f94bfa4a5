package mock

import (
	"errors"
	"fmt"
)

// Descriptor errors.
var (
	ErrInvalidCheckMode       = errors.New("invalid check mode")
	ErrInvalidDescriptorValue = errors.New("invalid descriptor value")
)

// ConfigurationError reports an invalid configuration. It is detected at
// load time and prevents the server from starting.
type ConfigurationError struct {
	// Path locates the offending element, e.g. "rest.configs[0].routes[1]".
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error at %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(path string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Path: path, Err: fmt.Errorf(format, args...)}
}
