package errors

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOverflow            = errors.New("arithmetic overflow")
)
