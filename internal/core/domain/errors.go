package domain

import "errors"

// ErrorKind classifies a failure independently of transport
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindConflict           ErrorKind = "conflict"
	KindNotFound           ErrorKind = "not_found"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindTokenInvalid       ErrorKind = "token_invalid"
	KindTokenMalformed     ErrorKind = "token_malformed"
	KindForbidden          ErrorKind = "forbidden"
	KindInternal           ErrorKind = "internal"
)

// Error is a classified domain error
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps an unexpected store or signing failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err; unclassified errors are internal
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err
func MessageOf(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInternal {
		return de.Message
	}
	return fallback
}

// Credential errors
var (
	ErrAllFieldsRequired  = NewError(KindValidation, "All fields are required")
	ErrInvalidRole        = NewError(KindValidation, "Role must be either admin or employee")
	ErrPasswordTooShort   = NewError(KindValidation, "Password must be at least 6 characters")
	ErrPasswordTooLong    = NewError(KindValidation, "Password must be at most 72 bytes")
	ErrPhoneRegistered    = NewError(KindConflict, "Phone number already registered")
	ErrPrincipalNotFound  = NewError(KindNotFound, "User not found")
	ErrEmployeeNotFound   = NewError(KindNotFound, "Employee not found")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "Invalid credentials")
)

// Token errors
var (
	ErrTokenMissing   = NewError(KindTokenInvalid, "No token provided or invalid format")
	ErrTokenInvalid   = NewError(KindTokenInvalid, "Invalid or expired token")
	ErrTokenMalformed = NewError(KindTokenMalformed, "Invalid token: Missing user data")
	ErrAdminOnly      = NewError(KindForbidden, "Access denied. Admins only")
)

// Attendance errors
var (
	ErrEmployeeIDRequired  = NewError(KindValidation, "Employee ID is required")
	ErrMarkFieldsRequired  = NewError(KindValidation, "Employee ID and Clock-In time are required")
	ErrInvalidDate         = NewError(KindValidation, "Invalid date format")
	ErrClockOutBeforeIn    = NewError(KindValidation, "Clock-Out time must not be before Clock-In time")
	ErrAlreadyClockedIn    = NewError(KindConflict, "You have already clocked in")
	ErrAlreadyClockedOut   = NewError(KindConflict, "You have already clocked out")
	ErrAttendanceNotFound  = NewError(KindNotFound, "Attendance record not found")
	ErrNoAttendanceRecords = NewError(KindNotFound, "No attendance records found")
)
