package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("a user already exists with that email or username")
	ErrValidation         = errors.New("validation failed")
)
