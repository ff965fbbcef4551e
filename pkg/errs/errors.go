package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
)

var (
	ErrInternalServer     = errors.New("Internal server error")
	ErrClient             = errors.New("Bad request")
	ErrNotFound           = errors.New("Resource not found")
	ErrAccountNotFound    = errors.New("User not found")
	ErrEmailAlreadyUsed   = errors.New("Email has already been used")
	ErrInvalidCredentials = errors.New("Email or password is incorrect")
	ErrInvalidToken       = errors.New("Invalid or expired token")
)

var errorMap = map[error]int{
	ErrInternalServer:     ErrStatusInternalServer,
	ErrClient:             ErrStatusClient,
	ErrNotFound:           ErrStatusNotFound,
	ErrAccountNotFound:    ErrStatusNotFound,
	ErrEmailAlreadyUsed:   ErrStatusClient,
	ErrInvalidCredentials: ErrStatusUnauthorized,
	ErrInvalidToken:       ErrStatusUnauthorized,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
