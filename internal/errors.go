package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingStatus    ErrorCode = "MISSING_STATUS_NAME"
	ErrCodeUnknownStatus    ErrorCode = "UNKNOWN_STATUS_NAME"
	ErrCodeInvalidAction    ErrorCode = "INVALID_ACTION"
	ErrCodeInvalidWindow    ErrorCode = "INVALID_TIME_WINDOW"
	ErrCodeMissingGroup     ErrorCode = "MISSING_GROUP_SCOPE"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeRequestNotFound ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeConfigNotFound  ErrorCode = "CONFIGURATION_NOT_FOUND"
	ErrCodeShiftNotFound   ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeStatusNotFound  ErrorCode = "STATUS_NOT_FOUND"

	ErrCodeStatusNotAllowed  ErrorCode = "STATUS_NOT_ALLOWED"
	ErrCodeCoachOnly         ErrorCode = "COACH_ROLE_REQUIRED"
	ErrCodeSupervisorOnly    ErrorCode = "SUPERVISOR_ROLE_REQUIRED"
	ErrCodeAdminOnly         ErrorCode = "ADMIN_ROLE_REQUIRED"
	ErrCodeOutsideCoachGroup ErrorCode = "OUTSIDE_COACH_GROUP"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeStaffInactive      ErrorCode = "STAFF_INACTIVE"
	ErrCodeAccountLocked      ErrorCode = "ACCOUNT_LOCKED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound    = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrRequestNotFound = NewNotFoundError("status request not found", ErrCodeRequestNotFound)
	ErrConfigNotFound  = NewNotFoundError("configuration not found", ErrCodeConfigNotFound)
	ErrShiftNotFound   = NewNotFoundError("shift not found", ErrCodeShiftNotFound)
	ErrStatusNotFound  = NewNotFoundError("status not found", ErrCodeStatusNotFound)

	ErrStatusNotAllowed  = NewForbiddenError("agents cannot toggle this status", ErrCodeStatusNotAllowed)
	ErrCoachOnly         = NewForbiddenError("only coaches can decide emergency briefings", ErrCodeCoachOnly)
	ErrSupervisorOnly    = NewForbiddenError("supervisor or admin role required", ErrCodeSupervisorOnly)
	ErrAdminOnly         = NewForbiddenError("admin role required", ErrCodeAdminOnly)
	ErrOutsideCoachGroup = NewForbiddenError("target user is outside your coach group", ErrCodeOutsideCoachGroup)

	ErrInvalidCredentials = NewUnauthorizedError("invalid user id or password", ErrCodeInvalidCredentials)
	ErrStaffInactive      = NewForbiddenError("staff status is inactive, contact the administrator", ErrCodeStaffInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
