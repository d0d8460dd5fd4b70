// Typed failure classification for the loader. Every failure a run can hit
// collapses into one of four stages so that callers can branch
// programmatically instead of parsing printed text; the underlying driver or
// parser message is preserved verbatim via error wrapping.
package loader

import (
	"errors"
	"fmt"
)

// Stage identifies which step of the load failed.
type Stage string

const (
	// StageFileMissing: the input file does not exist. Detected before any
	// side effect; no database connection is attempted.
	StageFileMissing Stage = "file-missing"
	// StageParse: the file exists but could not be read or parsed.
	StageParse Stage = "parse"
	// StageConnect: the database connection could not be established or the
	// liveness check failed.
	StageConnect Stage = "connect"
	// StageWrite: the append into the target table failed.
	StageWrite Stage = "write"
)

// ErrFileMissing is the sentinel wrapped by every StageFileMissing error.
var ErrFileMissing = errors.New("input file not found")

// Error tags an underlying failure with the stage it occurred in.
type Error struct {
	Stage Stage
	Err   error
}

// Error renders "<stage>: <underlying message>".
func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// stageErr wraps err with the given stage.
func stageErr(stage Stage, err error) *Error {
	return &Error{Stage: stage, Err: err}
}

// StageOf extracts the failure stage from err, or "" when err carries none.
func StageOf(err error) Stage {
	var le *Error
	if errors.As(err, &le) {
		return le.Stage
	}
	return ""
}
