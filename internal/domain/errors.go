package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrMovieNotFound indicates no catalog entry matches the requested identifier
	ErrMovieNotFound = errors.New("movie not found")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("streamflix server is unreachable")

	// ErrAuthFailed indicates the credentials were rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrMediaInUse indicates the media player is already bound to another session
	ErrMediaInUse = errors.New("media player is bound to another session")

	// ErrNoMedia indicates an operation needs a media player and none is available
	ErrNoMedia = errors.New("no media player available")

	// ErrPasswordTooShort indicates a new password is under the minimum length
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrPasswordMismatch indicates the password confirmation differs
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidRating indicates a rating outside MinRating..MaxRating
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
