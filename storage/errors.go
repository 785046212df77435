package storage

import "errors"

var (
	ErrNotFound           = errors.New("row not found")
	ErrPhoneTaken         = errors.New("phone number belongs to another user")
	ErrNationalIDTaken    = errors.New("national id belongs to another user")
	ErrAlreadyParticipant = errors.New("already registered in this lottery")
)
