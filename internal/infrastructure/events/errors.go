package events

import "errors"

// ErrConsumerClosed is returned by Run when the broker closes the delivery
// channel. The owning process treats it as unrecoverable.
var ErrConsumerClosed = errors.New("broker delivery channel closed")
