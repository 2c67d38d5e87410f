package model

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store and ledger failures.
type ErrorCode string

const (
	// ErrCodePermission indicates storage access was denied or revoked.
	ErrCodePermission ErrorCode = "PERMISSION_DENIED"

	// ErrCodeDuplicateID indicates an insert collided with an existing id.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeNotFound indicates an update or delete referenced an unknown id.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidTransition indicates an invoice status change the
	// lifecycle does not allow.
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// ErrCodeParse indicates persisted content is not a valid aggregate.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeInvalidRole indicates a role without a user collection.
	ErrCodeInvalidRole ErrorCode = "INVALID_ROLE"

	// ErrCodeConflict indicates the stored aggregate changed between the
	// read and the write of a read-modify-write cycle.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeInvalidRecord indicates a record failed field validation.
	ErrCodeInvalidRecord ErrorCode = "INVALID_RECORD"
)

// Error is the error type returned by store, backend and ledger operations.
type Error struct {
	Code       ErrorCode
	Message    string
	Collection Collection
	ID         string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsPermissionError(err error) bool   { return CodeOf(err) == ErrCodePermission }
func IsDuplicateID(err error) bool       { return CodeOf(err) == ErrCodeDuplicateID }
func IsNotFound(err error) bool          { return CodeOf(err) == ErrCodeNotFound }
func IsInvalidTransition(err error) bool { return CodeOf(err) == ErrCodeInvalidTransition }
func IsParseError(err error) bool        { return CodeOf(err) == ErrCodeParse }
func IsInvalidRole(err error) bool       { return CodeOf(err) == ErrCodeInvalidRole }
func IsConflict(err error) bool          { return CodeOf(err) == ErrCodeConflict }
func IsInvalidRecord(err error) bool     { return CodeOf(err) == ErrCodeInvalidRecord }

// NewPermissionError builds a user-actionable permission failure.
func NewPermissionError(message string, err error) *Error {
	return &Error{Code: ErrCodePermission, Message: message, Err: err}
}

func NewDuplicateIDError(coll Collection, id string) *Error {
	return &Error{
		Code:       ErrCodeDuplicateID,
		Message:    fmt.Sprintf("%s already contains id %q", coll, id),
		Collection: coll,
		ID:         id,
	}
}

func NewNotFoundError(coll Collection, id string) *Error {
	return &Error{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("no %s record with id %q", coll, id),
		Collection: coll,
		ID:         id,
	}
}

func NewInvalidTransitionError(id string, from, to InvoiceStatus) *Error {
	return &Error{
		Code:       ErrCodeInvalidTransition,
		Message:    fmt.Sprintf("invoice %q cannot move from %s to %s", id, from, to),
		Collection: CollInvoices,
		ID:         id,
	}
}

func NewParseError(err error) *Error {
	return &Error{
		Code:    ErrCodeParse,
		Message: "stored data is not a valid tutorbook document; the file may be corrupted or moved",
		Err:     err,
	}
}

func NewInvalidRoleError(role UserRole) *Error {
	return &Error{
		Code:    ErrCodeInvalidRole,
		Message: fmt.Sprintf("role %q has no user collection", role),
	}
}

func NewConflictError(expected, actual string) *Error {
	return &Error{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("stored data changed since it was read (expected revision %.12s, found %.12s)", expected, actual),
	}
}
