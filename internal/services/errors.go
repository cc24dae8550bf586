package services

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned when registering or renaming to a
	// username that already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidBirthday is returned when a supplied birthday does not
	// parse as a calendar date.
	ErrInvalidBirthday = errors.New("invalid birthday")
)
