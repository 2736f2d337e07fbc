package notification

import "errors"

var (
	ErrInvalidNotification = errors.New("notification requires recipient and title")
	ErrRecipientNotFound   = errors.New("recipient not found")
)
