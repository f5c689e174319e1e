package domain

import "errors"

var (
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrBackendUnavailable = errors.New("backend unavailable")
)
