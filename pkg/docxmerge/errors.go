package docxmerge

import (
	"errors"
	"fmt"
	"strings"
)

// MalformedDocumentError reports markup that could not be tokenized, section
// properties missing a required measurement, or unbalanced paragraphs.
type MalformedDocumentError struct {
	Part    string
	Message string
	Cause   error
}

func (e *MalformedDocumentError) Error() string {
	msg := fmt.Sprintf("malformed document part '%s'", e.Part)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Cause
}

// NewMalformedDocumentError creates a new malformed document error
func NewMalformedDocumentError(part, message string, cause error) error {
	return &MalformedDocumentError{
		Part:    part,
		Message: message,
		Cause:   cause,
	}
}

// PackagingError reports a zip package that could not be read, a missing
// required part, or an output package that could not be assembled.
type PackagingError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *PackagingError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("packaging error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("packaging error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("packaging error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("packaging error during %s", e.Operation)
}

func (e *PackagingError) Unwrap() error {
	return e.Cause
}

// NewPackagingError creates a new packaging error
func NewPackagingError(operation, path string, cause error) error {
	return &PackagingError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// InvalidInputError reports a context value a helper could not convert into
// its input model.
type InvalidInputError struct {
	Helper     string
	Expression string
	Cause      error
}

func (e *InvalidInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input for helper '%s' with expression '%s': %v", e.Helper, e.Expression, e.Cause)
	}
	return fmt.Sprintf("invalid input for helper '%s' with expression '%s'", e.Helper, e.Expression)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(helper, expression string, cause error) error {
	return &InvalidInputError{
		Helper:     helper,
		Expression: expression,
		Cause:      cause,
	}
}

// SerializationError reports a token list that could not be written back.
type SerializationError struct {
	Part  string
	Cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize part '%s': %v", e.Part, e.Cause)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// NewSerializationError creates a new serialization error
func NewSerializationError(part string, cause error) error {
	return &SerializationError{
		Part:  part,
		Cause: cause,
	}
}

// EvaluationError represents an error during expression evaluation. It is
// recovered inside a render and only reaches the log.
type EvaluationError struct {
	Expression string
	Cause      error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation error for expression '%s': %v", e.Expression, e.Cause)
	}
	return fmt.Sprintf("evaluation error for expression '%s'", e.Expression)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// NewEvaluationError creates a new evaluation error
func NewEvaluationError(expression string, cause error) error {
	return &EvaluationError{
		Expression: expression,
		Cause:      cause,
	}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	parts := []string{fmt.Sprintf("%d errors occurred:", len(m.errors))}
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// IsMalformedDocumentError checks if an error is a malformed document error
func IsMalformedDocumentError(err error) bool {
	var target *MalformedDocumentError
	return errors.As(err, &target)
}

// IsPackagingError checks if an error is a packaging error
func IsPackagingError(err error) bool {
	var target *PackagingError
	return errors.As(err, &target)
}

// IsInvalidInputError checks if an error is an invalid input error
func IsInvalidInputError(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsSerializationError checks if an error is a serialization error
func IsSerializationError(err error) bool {
	var target *SerializationError
	return errors.As(err, &target)
}

// IsEvaluationError checks if an error is an evaluation error
func IsEvaluationError(err error) bool {
	var target *EvaluationError
	return errors.As(err, &target)
}
