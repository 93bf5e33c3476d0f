package repos

import "errors"

var (
	// ErrUserNotFound is the caller-visible "no such user" condition. The
	// HTTP layer turns it into a 404; the engine never fabricates a default
	// model for a missing user.
	ErrUserNotFound = errors.New("user not found")

	ErrEventNotFound = errors.New("event not found")
	ErrPostNotFound  = errors.New("post not found")

	// ErrCorruptPreferences reports that a stored weight blob could not be
	// decoded. Updates hitting it are skipped with the prior state kept;
	// reads degrade to the no-model fallback scoring path.
	ErrCorruptPreferences = errors.New("stored preference data is corrupt")
)
