package models

import "errors"

var (
	// ErrNotFound indicates that a referenced entry does not exist or does
	// not belong to the requesting user.
	ErrNotFound = errors.New("entry not found")

	// ErrUnauthenticated indicates that no user identity could be resolved
	// for the request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUserExists indicates a registration attempt for a taken login.
	ErrUserExists = errors.New("user already exists")

	// ErrSubscriptionGone indicates that a push endpoint has permanently
	// rejected delivery and the subscription should be removed.
	ErrSubscriptionGone = errors.New("push subscription gone")
)
