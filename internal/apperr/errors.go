// Package apperr defines the sentinel errors shared across tarmac.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrNoInput  = errors.New("no input source given")
)
