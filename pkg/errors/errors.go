// Package errors defines the categorized error type shared by the
// collections engine packages.
//
// Errors carry a category, a machine-readable code, an operator-facing
// suggestion and structured context, so that the CLI and any orchestration
// layer can map failures onto exit codes and actionable messages without
// string matching.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryRates         ErrorCategory = "rates"
	CategoryEscalation    ErrorCategory = "escalation"
	CategorySchedule      ErrorCategory = "schedule"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeFutureDueDate ErrorCode = "future_due_date"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Rate table errors
	CodeMissingHistoricalRate ErrorCode = "missing_historical_rate"
	CodeEmptyRateTable        ErrorCode = "empty_rate_table"
	CodeInvalidRateEntry      ErrorCode = "invalid_rate_entry"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// File errors
	CodeFileNotFound ErrorCode = "file_not_found"
	CodeFileRead     ErrorCode = "file_read"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// CollectionsError is the base error type for all engine errors
type CollectionsError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *CollectionsError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CollectionsError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *CollectionsError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryRates, CategoryEscalation, CategorySchedule, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *CollectionsError) WithContext(key string, value interface{}) *CollectionsError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *CollectionsError) WithSuggestion(suggestion string) *CollectionsError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CollectionsError
func New(category ErrorCategory, code ErrorCode, message string) *CollectionsError {
	return &CollectionsError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with CollectionsError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *CollectionsError {
	if err == nil {
		return nil
	}

	return &CollectionsError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// InvalidAmountError reports a principal that is zero or negative. This is
// fatal to the single calculation and must never be clamped.
func InvalidAmountError(field string, value interface{}) *CollectionsError {
	return New(CategoryValidation, CodeInvalidAmount,
		fmt.Sprintf("invalid amount in field '%s': %v (must be greater than 0)", field, value)).
		WithSuggestion("reject the invoice upstream; overdue interest is undefined for non-positive principals").
		WithContext("field", field).
		WithContext("value", value)
}

// FutureDueDateError reports a due date after the evaluation date. Overdue
// interest is undefined for invoices that are not yet due.
func FutureDueDateError(dueDate, currentDate string) *CollectionsError {
	return New(CategoryValidation, CodeFutureDueDate,
		fmt.Sprintf("due date %s is after evaluation date %s", dueDate, currentDate)).
		WithSuggestion("guard with Invoice.IsOverdue before calculating interest").
		WithContext("due_date", dueDate).
		WithContext("current_date", currentDate)
}

// ValidationError creates a generic validation error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *CollectionsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use date format YYYY-MM-DD"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *CollectionsError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// RateTableError creates a base-rate table error
func RateTableError(code ErrorCode, detail string, err error) *CollectionsError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingHistoricalRate:
		message = fmt.Sprintf("no base rate entry covers reference date %s", detail)
		suggestion = "add older Bank of England entries to the rate table; the oldest known rate was used"
	case CodeEmptyRateTable:
		message = "base rate table is empty"
		suggestion = "load the rate history data file or use the built-in default table"
	case CodeInvalidRateEntry:
		message = fmt.Sprintf("invalid base rate entry: %s", detail)
		suggestion = "entries need an effective_from date, a reference_date and a non-negative rate"
	default:
		message = fmt.Sprintf("rate table error: %s", detail)
		suggestion = "check the rate history data"
	}

	var result *CollectionsError
	if err != nil {
		result = Wrap(err, CategoryRates, code, message)
	} else {
		result = New(CategoryRates, code, message)
	}

	return result.WithSuggestion(suggestion).WithContext("detail", detail)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *CollectionsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *CollectionsError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *CollectionsError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFileRead:
		message = fmt.Sprintf("failed to read file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *CollectionsError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.WithSuggestion(suggestion).WithContext("file_path", path)
}

// ParseError creates a parsing-related error
func ParseError(code ErrorCode, file string, line int, column string, value string, err error) *CollectionsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", column, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "correct the data format or remove the invalid entry"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *CollectionsError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// InternalError creates an internal error
func InternalError(operation string, err error) *CollectionsError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *CollectionsError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// Utility functions

// IsCollectionsError checks if an error is a CollectionsError
func IsCollectionsError(err error) bool {
	_, ok := err.(*CollectionsError)
	return ok
}

// AsCollectionsError extracts a CollectionsError from an error chain
func AsCollectionsError(err error) (*CollectionsError, bool) {
	var collErr *CollectionsError
	if errors.As(err, &collErr) {
		return collErr, true
	}
	return nil, false
}

// HasCode reports whether err is a CollectionsError with the given code
func HasCode(err error, code ErrorCode) bool {
	if collErr, ok := AsCollectionsError(err); ok {
		return collErr.Code == code
	}
	return false
}

// WrapIfNeeded wraps an error if it's not already a CollectionsError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *CollectionsError {
	if err == nil {
		return nil
	}

	if collErr, ok := AsCollectionsError(err); ok {
		return collErr
	}

	return Wrap(err, category, code, message)
}
