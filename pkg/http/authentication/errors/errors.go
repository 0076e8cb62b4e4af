package errors

import "errors"

var (
	ErrUnknownScheme    = errors.New("unknown authentication scheme")
	ErrNoDefaultScheme  = errors.New("no default authentication scheme")
	ErrNilHandler       = errors.New("nil authentication handler")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrDuplicateScheme  = errors.New("duplicate authentication scheme")
)
