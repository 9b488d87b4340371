package dataset

import "fmt"

const (
	CodeFormatDetection = "E_FORMAT_DETECTION"
	CodeItemType        = "E_ITEM_TYPE"
	CodeParse           = "E_PARSE"
)

// Error wraps input reading failures with a structured code.
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
