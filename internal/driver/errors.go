package driver

import "fmt"

// IoError wraps a failure from the byte-stream layer (spec §7 "IoError").
type IoError struct{ Err error }

func (e *IoError) Error() string { return fmt.Sprintf("io error: %v", e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// UsageError reports a bad argument caught before any record is read, e.g.
// a non-positive sample or chunk size, an empty filter expression, or an
// unsupported completion shell (spec §7 "UsageError").
type UsageError struct{ Msg string }

func (e *UsageError) Error() string { return e.Msg }
