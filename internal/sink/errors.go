package sink

import "fmt"

const (
	CodeSinkWriteFailed = "E_SINK_WRITE_FAILED"
	CodeSinkClosed      = "E_SINK_CLOSED"
)

// Error wraps output writing failures with a structured code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error     { return e.Err }
func (e *Error) CodeValue() string { return e.Code }

func wrapError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}
