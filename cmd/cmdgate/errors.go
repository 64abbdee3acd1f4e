package main

import (
	"errors"
	"fmt"
)

// Sentinel errors for cmdgate.
// Use errors.Is() to check for these error types.
var (
	// ErrConfigNotFound indicates a policy file does not exist at the expected path.
	// This is distinct from ErrConfigRead (I/O error) and ErrInvalidConfig (parse/validation error).
	ErrConfigNotFound = errors.New("policy file not found")

	// ErrConfigRead indicates an I/O error when reading a policy file.
	// The file exists but could not be read (permissions, etc.).
	ErrConfigRead = errors.New("failed to read policy file")

	// ErrConfigParse indicates a TOML or YAML syntax error in the policy file.
	ErrConfigParse = errors.New("policy parse error")

	// ErrInvalidConfig indicates the policy has validation errors.
	// The file parsed successfully but contains invalid values (bad patterns, invalid actions, etc.).
	ErrInvalidConfig = errors.New("invalid policy")

	// ErrInvalidPattern indicates a pattern string could not be compiled.
	// This typically means invalid regex syntax in a "re:" prefixed pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ConfigError wraps a policy loading error with the file path it came from.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConfigValidationError describes an invalid value in the policy file,
// carrying enough location context to point the user at the bad key.
type ConfigValidationError struct {
	Location string // config key, e.g. "rule[2].action"
	Value    string // the offending value
	Message  string
}

func (e *ConfigValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s = %q: %s", ErrInvalidConfig, e.Location, e.Value, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Location, e.Message)
}

func (e *ConfigValidationError) Unwrap() error { return ErrInvalidConfig }
