// Package apperr defines the error taxonomy shared by the ledger, the store and
// the RPC layer.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports input or state that violates a ledger rule. Nothing is
// written when it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PermissionError is a ValidationError raised when the acting buyer lacks the
// rights for the operation.
type PermissionError struct {
	ValidationError
}

// Permission builds a PermissionError from a format string.
func Permission(format string, args ...any) error {
	return &PermissionError{ValidationError{Msg: fmt.Sprintf(format, args...)}}
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError unless it already is a domain error.
func Storage(op string, err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is or wraps a ValidationError or PermissionError.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsPermission reports whether err is or wraps a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStorage reports whether err is or wraps a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsDomain reports whether err is a validation or not-found error.
func IsDomain(err error) bool {
	return IsValidation(err) || IsNotFound(err)
}
