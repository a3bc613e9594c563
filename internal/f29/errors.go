package f29

import (
	"fmt"
	"time"
)

// ErrorType represents the category of an extraction failure
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeNoExtraction
	ErrorTypeInvalidInput
	ErrorTypeCanceled
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNoExtraction:
		return "NO_EXTRACTION"
	case ErrorTypeInvalidInput:
		return "INVALID_INPUT"
	case ErrorTypeCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// ExtractionError is the only error surfaced by the engine. Partial results are
// never errors; this type signals that a whole document produced nothing usable.
type ExtractionError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Err       error     `json:"-"`
}

// ErrNoExtraction matches any ExtractionError of type ErrorTypeNoExtraction via errors.Is
var ErrNoExtraction = &ExtractionError{Type: ErrorTypeNoExtraction, Message: "no extraction possible"}

// NewExtractionError creates a new ExtractionError
func NewExtractionError(errorType ErrorType, message string) *ExtractionError {
	return &ExtractionError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type.String(), e.Message, e.Context)
	}
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

// Is reports whether target is an ExtractionError of the same type
func (e *ExtractionError) Is(target error) bool {
	t, ok := target.(*ExtractionError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Unwrap returns the underlying cause, if any
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// WithContext adds context to an existing ExtractionError
func (e *ExtractionError) WithContext(context string) *ExtractionError {
	e.Context = context
	return e
}

// WithRun attaches the run identifier of the extraction that failed
func (e *ExtractionError) WithRun(runID string) *ExtractionError {
	e.RunID = runID
	return e
}
