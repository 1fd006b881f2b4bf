package dto

import "errors"

// Selection errors
var (
	ErrChoiceUnavailable = errors.New("choice is not offered by the current step")
	ErrChoiceOutOfRange  = errors.New("choice index out of range")
	ErrUnknownChoice     = errors.New("no choice matches")
)
