package service

import "errors"

// Domain errors. Handlers map them to HTTP statuses in one place.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrNotAuthorized      = errors.New("user not authorized")
	ErrExpenseNotFound    = errors.New("expense not found")
)
