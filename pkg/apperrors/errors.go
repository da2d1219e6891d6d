package apperrors

import "errors"

var (
	ErrNotSelect          = errors.New("only SELECT allowed")
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed")
	ErrMissingBookmark    = errors.New("missing name or sql")
	ErrQueryTimeout       = errors.New("query timed out")
)

// InvalidQueryError is returned when a statement is rejected before it
// reaches the database.
type InvalidQueryError struct {
	Err error
}

// NewInvalidQuery wraps a rejection reason.
func NewInvalidQuery(reason error) *InvalidQueryError {
	return &InvalidQueryError{Err: reason}
}

func (e *InvalidQueryError) Error() string { return e.Err.Error() }

func (e *InvalidQueryError) Unwrap() error { return e.Err }

// ValidationError is returned when required request fields are missing or
// malformed.
type ValidationError struct {
	Err error
}

// NewValidationError wraps a validation failure.
func NewValidationError(reason error) *ValidationError {
	return &ValidationError{Err: reason}
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// QueryExecutionError wraps a database-layer failure, including syntax
// errors in user-supplied SQL. Retryable is set for deadlines and timeouts;
// the server itself never retries ad-hoc statements.
type QueryExecutionError struct {
	Message   string
	Retryable bool
	Cause     error
}

// NewQueryExecutionError wraps cause. The message is the cause's text.
func NewQueryExecutionError(cause error, retryable bool) *QueryExecutionError {
	return &QueryExecutionError{
		Message:   cause.Error(),
		Retryable: retryable,
		Cause:     cause,
	}
}

func (e *QueryExecutionError) Error() string { return e.Message }

func (e *QueryExecutionError) Unwrap() error { return e.Cause }

// IsClientError reports whether err belongs to the taxonomy surfaced to
// clients as a 400 response.
func IsClientError(err error) bool {
	var invalid *InvalidQueryError
	var validation *ValidationError
	var execution *QueryExecutionError
	return errors.As(err, &invalid) || errors.As(err, &validation) || errors.As(err, &execution)
}
