package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError represents a custom application error with a machine-readable code.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Status:  fiber.StatusBadRequest,
		Message: message,
	}
}

func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    "AUTH_ERROR",
		Status:  fiber.StatusUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Status:  fiber.StatusForbidden,
		Message: message,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  fiber.StatusNotFound,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Status:  fiber.StatusConflict,
		Message: message,
	}
}

func NewUploadError(err error) *AppError {
	return &AppError{
		Code:    "UPLOAD_ERROR",
		Status:  fiber.StatusInternalServerError,
		Message: "Image upload failed",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// HTTPStatus returns the response status for err, defaulting to 500 for
// anything that is not an AppError.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}

// RespondWithError writes the standard failure envelope for err.
// The underlying cause, if any, is surfaced in the "error" field.
func RespondWithError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success": false,
		"message": "Internal server error",
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		if appErr.Err != nil {
			body["error"] = appErr.Err.Error()
		}
	} else if err != nil {
		body["error"] = err.Error()
	}

	return c.Status(HTTPStatus(err)).JSON(body)
}
