package notification

import "errors"

// ErrNotificationNotFound also covers a notification owned by someone else.
var ErrNotificationNotFound = errors.New("notification not found")
