package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidID     = errors.New("invalid ID format")
	ErrInvalidDate   = errors.New("invalid calendar date")
	ErrInvalidRecord = errors.New("invalid record")
)
