package core

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable error category, per spec.md §7.
type ErrorCode string

const (
	ECPathNotFound         ErrorCode = "PathNotFound"
	ECUnreadable           ErrorCode = "Unreadable"
	ECUnsupportedLanguage  ErrorCode = "UnsupportedLanguage"
	ECInvalidArgument      ErrorCode = "InvalidArgument"
	ECParseFailed          ErrorCode = "ParseFailed"
	ECUnknownComparison    ErrorCode = "UnknownComparison"
	ECFunctionNotFound     ErrorCode = "FunctionNotFound"
	ECTimeout              ErrorCode = "Timeout"
	ECOutOfMemory          ErrorCode = "OutOfMemory"
	ECNoSupportedFiles     ErrorCode = "NoSupportedFiles"
)

// Sentinel errors for errors.Is comparisons. ParseFailed and OutOfMemory
// have no sentinel: they are always recovered locally and never bubble up
// as Go errors returned from the dispatcher.
var (
	ErrPathNotFound        = errors.New("path not found")
	ErrUnreadable          = errors.New("path unreadable")
	ErrUnsupportedLanguage = errors.New("unsupported language override")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnknownComparison   = errors.New("unknown comparison id")
	ErrFunctionNotFound    = errors.New("function not found")
	ErrTimeout             = errors.New("operation timed out")
	ErrNoSupportedFiles    = errors.New("no supported files found")
)

// CoreError carries a category, a one-sentence message, and — for per-file
// issues — the path and line where known (spec.md §7 "user-visible
// failures").
type CoreError struct {
	Code    ErrorCode
	Message string
	File    string
	Line    int
	Err     error
}

func (e *CoreError) Error() string {
	if e.File != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s: %s (%s:%d)", e.Code, e.Message, e.File, e.Line)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.File)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CoreError) Unwrap() error { return e.Err }

// NewCoreError builds a CoreError wrapping a sentinel for errors.Is support.
func NewCoreError(code ErrorCode, sentinel error, message string) *CoreError {
	return &CoreError{Code: code, Message: message, Err: sentinel}
}

// WithFile attaches file/line context to a CoreError and returns it.
func (e *CoreError) WithFile(file string, line int) *CoreError {
	e.File = file
	e.Line = line
	return e
}
