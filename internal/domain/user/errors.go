package user

import "github.com/pkg/errors"

var (
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidUsername    = errors.New("username must be 3 to 50 characters")
)
