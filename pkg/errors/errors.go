// Package errors provides the structured error type shared by every layer of
// SimilACTrail.  The CLI and the HTTP API turn an AppError into a user-facing
// message and status at the boundary of the action that raised it.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const maxFrames = 32

// AppError carries a typed code, a message and optional detail and cause.
//
//	return errors.New(errors.ErrCodeMoleculeInvalidSMILES, "unknown atom symbol")
//	return errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "failed to parse table")
//	return errors.InvalidParam("unsupported bit length").WithDetail("bits=100")
type AppError struct {
	Code    ErrorCode
	Message string
	// Detail is supplementary context such as column names or record IDs.
	Detail string
	Cause  error
	// Stack is captured at construction and never printed by Error.
	Stack string
}

// newAppError is the single constructor behind the exported factories.  It
// must be called directly from them so the recorded stack starts at their
// caller.
func newAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause, Stack: stackTrace(3)}
}

func stackTrace(skip int) string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for f, more := frames.Next(); ; f, more = frames.Next() {
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// Error formats as "[code] message" with ": detail" appended when set.
func (e *AppError) Error() string {
	msg := "[" + string(e.Code) + "] " + e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail returns a copy of e with Detail replaced.  A nil receiver stays nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Detail = detail
	return &cp
}

func New(code ErrorCode, message string) *AppError {
	return newAppError(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return newAppError(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches err as the cause of a new AppError and returns nil for a nil
// err.  CodeUnknown inherits the code of the first AppError in err's chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		if inner, ok := asAppError(err); ok {
			code = inner.Code
		}
	}
	return newAppError(code, message, err)
}

func InvalidParam(message string) *AppError { return newAppError(CodeInvalidParam, message, nil) }

func NotFound(message string) *AppError { return newAppError(CodeNotFound, message, nil) }

// Internal is for failures no more specific code describes.
func Internal(message string) *AppError { return newAppError(CodeInternal, message, nil) }

func asAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsCode reports whether any AppError in err's chain has code.  Unlike GetCode
// it looks past an outer AppError carrying a different code.
func IsCode(err error, code ErrorCode) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
	}
	return false
}

// GetCode returns the code of the outermost AppError in err's chain, CodeOK for
// nil and CodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	if ae, ok := asAppError(err); ok {
		return ae.Code
	}
	return CodeUnknown
}

// IsValidation reports whether err maps to a 4xx status.
func IsValidation(err error) bool {
	code := GetCode(err)
	return code != CodeOK && code != CodeUnknown && IsClientError(code)
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

//Personal.AI order the ending
