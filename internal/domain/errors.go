package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrAuthFailed     = errors.New("invalid email or password")
	ErrUploadFailed   = errors.New("image upload failed")
	ErrInvalidInput   = errors.New("invalid input")
)
