// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import "fmt"

// SourceUnavailableError occurs when a declared layer source cannot be
// read at all, e.g. a missing required file or a failed fetch.
type SourceUnavailableError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e SourceUnavailableError) Error() string {
	return fmt.Sprintf("layer source %q is unavailable: %s", e.Source, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SourceUnavailableError) Unwrap() error {
	return e.Cause
}

// MalformedSourceError occurs when a layer source can be read but does
// not parse, e.g. a duplicate key or a key/value line with no delimiter.
// Line is 1-based and Text is the offending line when the format tracks
// lines.
type MalformedSourceError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

// Error implements the error interface.
func (e MalformedSourceError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("malformed layer source %q: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("malformed layer source %q at line %d (%q): %s", e.Source, e.Line, e.Text, e.Reason)
}
