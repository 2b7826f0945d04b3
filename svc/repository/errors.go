package repository

import "errors"

var (
	ErrUnavailable   = errors.New("repository unavailable")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidFile   = errors.New("invalid file record")
	ErrRepositoryNil = errors.New("repository is nil")
)
