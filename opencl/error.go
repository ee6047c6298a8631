package opencl

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// ErrSizeMismatch is returned (wrapped) when the fill call of a two-phase query reports a size different
// from the one reported by the size call.
var ErrSizeMismatch = errors.New("OpenCL two-phase query size mismatch")

// Error is returned by every failed OpenCL call. It carries the raw status code, so callers can
// inspect it with errors.As, and the location of the failing call.
type Error struct {
	// Code returned by the OpenCL entry point. Never Success.
	Code Status

	// Call is the name of the C entry point, e.g.: "clGetPlatformInfo".
	Call string

	// File and Line of the call site.
	File string
	Line int
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("OpenCL error code %d encountered at %s:%d", int32(e.Code), e.File, e.Line)
	if e.Call != "" {
		msg = fmt.Sprintf("%s (%s returned %s)", msg, e.Call, e.Code)
	} else if e.Code.IsKnown() {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	return msg
}

// Check returns nil if status is Success, otherwise an *Error tagged with the location of the caller of
// Check. It's the generic way of turning the status of any OpenCL call into a Go error.
func Check(status Status, call string) error {
	return toError(status, call, 1)
}

// StatusOf returns the Status carried by err, if it (or any error it wraps) is an *Error.
// A nil err is reported as Success.
func StatusOf(err error) (status Status, ok bool) {
	if err == nil {
		return Success, true
	}
	var clErr *Error
	if errors.As(err, &clErr) {
		return clErr.Code, true
	}
	return 0, false
}

// toError converts a non-success status to an *Error with a stack trace (see github.com/pkg/errors).
//
// The location recorded is the one of the caller of toError, skip frames up: skip=0 is the function
// calling toError.
func toError(status Status, call string, skip int) error {
	if status == Success {
		return nil
	}
	file, line := "???", 0
	if _, callerFile, callerLine, ok := runtime.Caller(skip + 1); ok {
		file, line = filepath.Base(callerFile), callerLine
	}
	return errors.WithStack(&Error{Code: status, Call: call, File: file, Line: line})
}
