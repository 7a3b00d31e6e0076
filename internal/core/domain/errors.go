package domain

import "errors"

var (
	ErrTaskNotFound      = errors.New("reminder task not found")
	ErrChannelNotFound   = errors.New("channel settings not found")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrOutOfRange        = errors.New("value out of range")
	ErrDuplicateItemName = errors.New("duplicate inventory item name")
)
