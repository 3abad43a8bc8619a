// Package common defines sentinel errors shared between the service layer and
// the HTTP handlers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrDuplicateIdentity means a user already exists with the same email
	// or username.
	ErrDuplicateIdentity = errors.New("user with this email or username already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login can never be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpiredToken covers every reset-token failure: unknown
	// hash, expired token, or already-used token.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrForbidden collapses "no such shelf" and "someone else's
	// shelf" into one outcome so shelf ids cannot be probed.
	ErrNotFoundOrForbidden = errors.New("shelf not found")

	// ErrAlreadyOnShelf means the book is already on the target shelf.
	ErrAlreadyOnShelf = errors.New("book is already on this shelf")

	// ErrDuplicateISBN means another book already carries the ISBN.
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")

	// ErrMailDelivery means the reset email could not be dispatched. The
	// reset token is already persisted at that point; requesting the reset
	// again is a safe retry.
	ErrMailDelivery = errors.New("could not send email")
)
