/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Configuration load errors for byteclasser vocabularies. Every ConfigError
is fatal and aborts the run before any row is scored.
*/

package vocabulary

import "fmt"

// ErrorKind classifies a ConfigError.
type ErrorKind int

const (
	// Unreadable means the file could not be opened or read.
	Unreadable ErrorKind = iota
	// Malformed means the content is not valid or misses required fields.
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case Unreadable:
		return "unreadable"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ConfigError reports a vocabulary that cannot be used.
type ConfigError struct {
	Kind ErrorKind
	Path string // empty when built from an in-memory Document
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("vocabulary %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("vocabulary %s %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func malformed(format string, args ...interface{}) error {
	return &ConfigError{Kind: Malformed, Err: fmt.Errorf(format, args...)}
}
