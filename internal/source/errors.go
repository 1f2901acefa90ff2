package source

import "fmt"

// TideTableAPIError represents an error from the upstream tide-table
// service. The tide service treats it as a signal to fall back to harmonic
// synthesis rather than as a pipeline failure.
type TideTableAPIError struct {
	Message string
	Err     error
}

func (e *TideTableAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tide table API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("tide table API error: %s", e.Message)
}

func (e *TideTableAPIError) Unwrap() error {
	return e.Err
}

func NewTideTableAPIError(message string, err error) *TideTableAPIError {
	return &TideTableAPIError{
		Message: message,
		Err:     err,
	}
}
