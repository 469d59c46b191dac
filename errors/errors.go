package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyPayload       = fmt.Errorf("message needs text or an image")
	ErrInvalidSignup      = fmt.Errorf("invalid signup request")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrUnsupportedAsset   = fmt.Errorf("unsupported asset type")
)

// MapToHTTPStatus converts domain errors to the status code the HTTP layer
// answers with. Anything unmapped is a persistence or internal failure.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyPayload),
		errors.Is(err, ErrInvalidSignup),
		errors.Is(err, ErrUnsupportedAsset):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
