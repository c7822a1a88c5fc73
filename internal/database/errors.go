package database

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes database errors.
type ErrorCode string

const (
	// ErrCodeTransactionFailed indicates begin or commit failed.
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"

	// ErrCodeStatementFailed indicates a statement inside a transaction failed.
	ErrCodeStatementFailed ErrorCode = "STATEMENT_FAILED"

	// ErrCodeUnknownSchemaVersion indicates a migration target outside the
	// versions this build knows.
	ErrCodeUnknownSchemaVersion ErrorCode = "UNKNOWN_SCHEMA_VERSION"

	// ErrCodeQueueClosed indicates work submitted after Queue.Close.
	ErrCodeQueueClosed ErrorCode = "QUEUE_CLOSED"
)

// Error is returned for every failure detected by this package.
type Error struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransactionFailure reports whether err means the transaction did not
// apply: either begin/commit or one of its statements failed.
// Uses errors.As to handle wrapped errors.
func IsTransactionFailure(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeTransactionFailed || de.Code == ErrCodeStatementFailed
	}
	return false
}

// IsUnknownSchemaVersion reports whether err is a migration version error.
func IsUnknownSchemaVersion(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeUnknownSchemaVersion
	}
	return false
}

// IsQueueClosed reports whether err was caused by a closed Queue.
func IsQueueClosed(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeQueueClosed
	}
	return false
}

// NewUnknownSchemaVersionError creates the error returned by Table.Migrate
// for versions it does not recognise.
func NewUnknownSchemaVersionError(table string, version int) *Error {
	return &Error{
		Code: ErrCodeUnknownSchemaVersion,
		Op:   fmt.Sprintf("migrate %s to version %d", table, version),
	}
}
