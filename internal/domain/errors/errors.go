package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenExpired        = errors.New("token expired")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrOTPInvalid          = errors.New("invalid otp")
	ErrOTPExpired          = errors.New("otp expired")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrOTPResendCooldown   = errors.New("otp resend cooldown active")
	ErrEventPast           = errors.New("event already ended")
	ErrEventFull           = errors.New("event is full")
	ErrAlreadyEnrolled     = errors.New("already enrolled")
	ErrAlreadyCanceled     = errors.New("enrollment already canceled")
	ErrConflict            = errors.New("conflict")
)

// Stable error codes returned in the response envelope. Clients key off
// these, not off messages.
const (
	CodeValidationError     = "validation_error"
	CodeEmailExists         = "email_exists"
	CodeAlreadyVerified     = "already_verified"
	CodeOTPInvalid          = "otp_invalid"
	CodeOTPExpired          = "otp_expired"
	CodeOTPAttemptsExceeded = "otp_attempts_exceeded"
	CodeOTPResendCooldown   = "otp_resend_cooldown"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeEmailNotVerified    = "email_not_verified"
	CodeUnauthorized        = "unauthorized"
	CodePermissionDenied    = "permission_denied"
	CodeNotFound            = "not_found"
	CodeEventPast           = "event_past"
	CodeEventFull           = "event_full"
	CodeAlreadyEnrolled     = "already_enrolled"
	CodeAlreadyCanceled     = "already_canceled"
	CodeConflict            = "conflict"
	CodeServiceUnavailable  = "service_unavailable"
	CodeInternalError       = "internal_error"
)

// AppError represents an application error with an HTTP status and a stable
// machine-readable code.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidationError, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodePermissionDenied, message, ErrForbidden)
}

func Conflict(code, message string) *AppError {
	return NewAppError(http.StatusConflict, code, message, ErrConflict)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// FromDomain maps a sentinel domain error to its canonical AppError. Unknown
// errors become internal errors so raw details never reach clients.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrEmailExists):
		return NewAppError(http.StatusConflict, CodeEmailExists, "email already registered", err)
	case errors.Is(err, ErrAlreadyVerified):
		return NewAppError(http.StatusConflict, CodeAlreadyVerified, "email already verified", err)
	case errors.Is(err, ErrOTPInvalid):
		return NewAppError(http.StatusBadRequest, CodeOTPInvalid, "invalid verification code", err)
	case errors.Is(err, ErrOTPExpired):
		return NewAppError(http.StatusBadRequest, CodeOTPExpired, "verification code expired", err)
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return NewAppError(http.StatusBadRequest, CodeOTPAttemptsExceeded, "too many verification attempts", err)
	case errors.Is(err, ErrOTPResendCooldown):
		return NewAppError(http.StatusTooManyRequests, CodeOTPResendCooldown, "please wait before requesting another code", err)
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", err)
	case errors.Is(err, ErrEmailNotVerified):
		return NewAppError(http.StatusForbidden, CodeEmailNotVerified, "email not verified", err)
	case errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "token expired", err)
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("unauthorized")
	case errors.Is(err, ErrForbidden):
		return Forbidden("permission denied")
	case errors.Is(err, ErrEventPast):
		return NewAppError(http.StatusBadRequest, CodeEventPast, "event already ended", err)
	case errors.Is(err, ErrEventFull):
		return NewAppError(http.StatusBadRequest, CodeEventFull, "event is at capacity", err)
	case errors.Is(err, ErrAlreadyEnrolled):
		return NewAppError(http.StatusConflict, CodeAlreadyEnrolled, "already enrolled in this event", err)
	case errors.Is(err, ErrAlreadyCanceled):
		return NewAppError(http.StatusConflict, CodeAlreadyCanceled, "enrollment already canceled", err)
	case errors.Is(err, ErrInvalidInput):
		return BadRequest(err.Error())
	case errors.Is(err, ErrConflict):
		return Conflict(CodeConflict, "conflicting request")
	default:
		return InternalError(err)
	}
}
