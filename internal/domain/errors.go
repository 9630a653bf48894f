// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the caller supplied invalid input.
// Wrapped errors carry the human-readable reason after the prefix.
var ErrValidation = errors.New("validation error")

// ErrNoWallet indicates an operation needs a signing wallet and none is connected.
var ErrNoWallet = errors.New("no wallet connected")

// ErrNameTaken indicates the name is not (or no longer) available for registration.
var ErrNameTaken = errors.New("name is no longer available")
