package model

import "errors"

var (
	// ErrInvalidName is returned when a race name is empty or blank.
	ErrInvalidName = errors.New("name is required")
	// ErrInvalidDistance is returned when a distance is not one of the allowed values.
	ErrInvalidDistance = errors.New("invalid distance")
	// ErrEmptyUpdate is returned when a race update carries no fields.
	ErrEmptyUpdate = errors.New("update must change name or distance")
	// ErrInvalidRequest is returned when a request body fails validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidID is returned when an identifier is not a valid UUID.
	ErrInvalidID = errors.New("invalid id")
	// ErrRaceNotFound is returned when a race is not in the read model.
	ErrRaceNotFound = errors.New("race not found")
	// ErrUserNotFound is returned when user is not found in database.
	ErrUserNotFound = errors.New("user not found")
	// ErrApplicationNotFound is returned when an application is not in the read model.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForbidden is returned when the caller may not act on a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when a request carries no valid identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPublish is returned when an event could not be handed to the broker.
	ErrPublish = errors.New("publish failed")
)
