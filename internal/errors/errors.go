package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error. Handlers map kinds to HTTP status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindAccessDenied
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindStorage
)

// Error is a domain error with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a domain error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// ErrAccessDenied is returned for every role or ownership failure. It never says which.
	ErrAccessDenied = New(KindAccessDenied, "ACCESS_DENIED", "access denied")

	ErrUserNotFound           = New(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrVacancyNotFound        = New(KindNotFound, "VACANCY_NOT_FOUND", "vacancy not found")
	ErrApplicationNotFound    = New(KindNotFound, "APPLICATION_NOT_FOUND", "application not found")
	ErrProfileNotFound        = New(KindNotFound, "PROFILE_NOT_FOUND", "profile not found")
	ErrStudentDetailsNotFound = New(KindNotFound, "STUDENT_DETAILS_NOT_FOUND", "student details not found")
	ErrResumeNotFound         = New(KindNotFound, "RESUME_NOT_FOUND", "resume not found")

	ErrInvalidRole       = New(KindValidation, "INVALID_ROLE", "invalid role selected")
	ErrInvalidDate       = New(KindValidation, "INVALID_DATE", "invalid last date")
	ErrInvalidStatus     = New(KindValidation, "INVALID_STATUS", "invalid application status")
	ErrInvalidTransition = New(KindValidation, "INVALID_STATUS_TRANSITION", "application status cannot change from its current state")
	ErrInvalidFileType   = New(KindValidation, "INVALID_FILE_TYPE", "invalid file type")
	ErrFileTooLarge      = New(KindValidation, "FILE_TOO_LARGE", "file is too large")
	ErrMissingFile       = New(KindValidation, "MISSING_FILE", "file is required")
	ErrInvalidSalary     = New(KindValidation, "INVALID_SALARY", "salary must not be negative")

	ErrDuplicateUser        = New(KindConflict, "USER_ALREADY_EXISTS", "user already exists")
	ErrAlreadyApplied       = New(KindConflict, "ALREADY_APPLIED", "you have already applied for this vacancy")
	ErrProfileExists        = New(KindConflict, "PROFILE_EXISTS", "profile already exists")
	ErrStudentDetailsExists = New(KindConflict, "STUDENT_DETAILS_EXISTS", "student details already exist")

	ErrInvalidCredentials  = New(KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidRefreshToken = New(KindUnauthorized, "INVALID_REFRESH_TOKEN", "invalid or expired refresh token")

	ErrStorage = New(KindStorage, "STORAGE_ERROR", "file storage unavailable")
)

// Validation returns a validation error carrying a custom message.
func Validation(message string) *Error {
	return New(KindValidation, "VALIDATION_ERROR", message)
}

// KindOf returns the kind of err, or KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var de *Error
	if !errors.As(err, &de) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	switch de.Kind {
	case KindAccessDenied:
		return NewHTTPError(http.StatusForbidden, de.Message, de.Code)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, de.Message, de.Code)
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, de.Message, de.Code)
	case KindConflict:
		return NewHTTPError(http.StatusConflict, de.Message, de.Code)
	case KindUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, de.Message, de.Code)
	case KindStorage:
		return NewHTTPError(http.StatusBadGateway, de.Message, de.Code)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
