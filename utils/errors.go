package utils

import (
	"errors"
	"net/http"
)

// AppError adalah error dengan status HTTP yang boleh diperlihatkan ke client.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewAuthError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func NewServiceUnavailableError(message string) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message}
}

// TranslateError memetakan error ke (status, pesan). Error yang bukan
// AppError dianggap internal: status 500 dengan pesan generik, detail
// tidak pernah dikirim ke client.
func TranslateError(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
