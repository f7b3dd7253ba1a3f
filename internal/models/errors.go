package models

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrMismatch      = errors.New("passwords do not match")
	ErrBanned        = errors.New("account is banned")
	ErrNotAuthorized = errors.New("not authorized")
	ErrSelfBan       = errors.New("cannot ban yourself")
)
