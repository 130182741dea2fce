package domain

import "errors"

// Domain-level errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateKey    = errors.New("duplicate key")
)
