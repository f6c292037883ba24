package errors

import "fmt"

// Error codes used across the client. They classify failures the way the
// UI layer needs to react to them, not by transport detail.
const (
	CodeUnknown    = 0
	CodeValidation = 1001
	CodeNetwork    = 1002
	CodeAuth       = 1003
	CodeNotFound   = 1004
	CodeStorage    = 1005
)

// Error is a coded error carrying an optional cause.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // 原始错误，不序列化
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a new error without a code.
func New(message string) *Error {
	return &Error{Message: message}
}

// Errorf creates a new formatted error.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// WithCode creates a new error with a code.
func WithCode(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCodef creates a new error with a code and formatted message.
func WithCodef(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a message. Returns nil for a nil cause.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Message: message, Err: err}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Message: fmt.Sprintf(format, args...), Err: err}
}

// WrapCode wraps an error, attaching a code.
func WrapCode(code int, err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode returns the code of an error, walking the cause chain until a
// coded error is found.
func GetCode(err error) int {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Code != CodeUnknown {
				return e.Code
			}
			err = e.Err
			continue
		}
		return CodeUnknown
	}
	return CodeUnknown
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code int) bool {
	return GetCode(err) == code
}

// GetMessage returns the message of an error, or "" for nil.
func GetMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Cause returns the innermost error of the chain.
func Cause(err error) error {
	for err != nil {
		e, ok := err.(*Error)
		if !ok || e.Err == nil {
			return err
		}
		err = e.Err
	}
	return err
}
