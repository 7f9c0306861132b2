package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeDuplicateSKU      = "DUPLICATE_SKU"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeParseFailure      = "PARSE_FAILURE"
	ErrCodeTransferFailure   = "TRANSFER_FAILURE"
	ErrCodeAuthRequired      = "AUTH_REQUIRED"
	ErrCodeIOFailure         = "IO_FAILURE"
	ErrCodeBackupInProgress  = "BACKUP_IN_PROGRESS"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func DuplicateSKUError(sku string) *AppError {
	return NewAppError(ErrCodeDuplicateSKU, fmt.Sprintf("A product with SKU '%s' already exists", sku), http.StatusConflict)
}

// InsufficientStockError reports the attempted withdrawal against what is available.
func InsufficientStockError(requested, available int) *AppError {
	return NewAppError(ErrCodeInsufficientStock,
		fmt.Sprintf("Insufficient stock: requested %d, available %d", requested, available),
		http.StatusConflict)
}

func UnsupportedFormatError(version int) *AppError {
	return NewAppError(ErrCodeUnsupportedFormat,
		fmt.Sprintf("Unsupported snapshot format version %d", version),
		http.StatusUnprocessableEntity)
}

func ParseFailureError(message string) *AppError {
	return NewAppError(ErrCodeParseFailure, message, http.StatusUnprocessableEntity)
}

func TransferFailureError(message string) *AppError {
	return NewAppError(ErrCodeTransferFailure, message, http.StatusBadGateway)
}

// AuthRequiredError is a signal, not a fault: the caller should run the
// interactive auth flow and retry.
func AuthRequiredError() *AppError {
	return NewAppError(ErrCodeAuthRequired, "No usable cloud session; authentication required", http.StatusUnauthorized)
}

func IOFailureError(message string) *AppError {
	return NewAppError(ErrCodeIOFailure, message, http.StatusInternalServerError)
}

func BackupInProgressError() *AppError {
	return NewAppError(ErrCodeBackupInProgress, "Another backup or restore is already running", http.StatusConflict)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == code
	}

	return false
}
