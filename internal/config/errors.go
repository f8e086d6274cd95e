package config

import (
	"fmt"
	"strings"
)

// DuplicateConfigError reports that both layouts of the same config tier
// exist in a project (e.g. clod.toml and .clod/config.toml).
type DuplicateConfigError struct {
	Files []string
}

func (e *DuplicateConfigError) Error() string {
	return fmt.Sprintf("conflicting config files found: %s (only one should exist)",
		strings.Join(e.Files, ", "))
}

// NotFoundError reports that an explicitly requested config file does
// not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// ParseError wraps a TOML decode failure with the offending file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeError reports a known settings key whose value has the wrong type.
type TypeError struct {
	Key   string
	Want  string
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("config key %q: expected %s, got %T (%v)", e.Key, e.Want, e.Value, e.Value)
}
