package notification

import "errors"

// Domain errors for the notification package.
var (
	// ErrNotificationNotFound is returned when a notification ID does not exist.
	ErrNotificationNotFound = errors.New("notification: not found")

	// ErrInvalidNotification is returned when a notification is missing its type,
	// message or tracker reference.
	ErrInvalidNotification = errors.New("notification: invalid")
)
