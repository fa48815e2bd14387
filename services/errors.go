package services

import "fmt"

// ValidationError rejects an export request before any rendering starts.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid export request: " + e.Message
	}
	return fmt.Sprintf("invalid export request: %s: %s", e.Field, e.Message)
}

// RenderError reports that a renderer could not produce its output. No
// partial payload accompanies it.
type RenderError struct {
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
