package errors

import "errors"

var (
	ErrMissingSigningKey = errors.New("missing signing key")
	ErrShortSigningKey   = errors.New("signing key shorter than 32 bytes")
	ErrUnknownLogLevel   = errors.New("unknown log level")
	ErrUnknownObserver   = errors.New("unknown observer")
)
