package queueerr

import "errors"

// EmptyQueueError is returned when an element is requested from a container
// that holds none. The message is part of each container's contract.
type EmptyQueueError struct {
	msg string
}

// New returns an EmptyQueueError carrying msg. Containers keep the result in a
// package level sentinel so callers can match it with errors.Is.
func New(msg string) *EmptyQueueError {
	return &EmptyQueueError{msg: msg}
}

func (e *EmptyQueueError) Error() string { return e.msg }

// Is reports whether err, or anything it wraps, is an EmptyQueueError.
func Is(err error) bool {
	var target *EmptyQueueError
	return errors.As(err, &target)
}
