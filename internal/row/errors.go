package row

import "fmt"

const (
	CodeMissingField      = "E_MISSING_FIELD"
	CodeTypeMismatch      = "E_TYPE_MISMATCH"
	CodeUnsupportedFormat = "E_UNSUPPORTED_FORMAT"
)

// Error wraps record validation failures with a structured code.
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
