package accounts

import "errors"

// Operation outcomes the HTTP layer maps to status codes. Store and
// crypto failures never leave this package raw — they are logged and
// collapsed into ErrInternal.
var (
	ErrEmailTaken         = errors.New("email belongs to another user")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("user was not found")
	ErrNoFields           = errors.New("no user information to update")
	ErrInternal           = errors.New("internal error")
)
