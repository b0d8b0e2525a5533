package auth

import "errors"

var (
	// ErrNoToken indicates a login reply that carried no usable auth token.
	ErrNoToken = errors.New("login succeeded but no auth token returned")

	// ErrNoUserID indicates a login reply with no resolvable user guid.
	ErrNoUserID = errors.New("login succeeded but no user id returned")
)
