package errors

import "errors"

var (
	ErrConstruction            = errors.New("invalid result construction")
	ErrNilUrl                  = errors.New("nil url")
	ErrEmptyUrl                = errors.New("empty url")
	ErrNilValue                = errors.New("nil value")
	ErrNilPrincipal            = errors.New("nil principal")
	ErrInvalidStatusCode       = errors.New("invalid status code")
	ErrInvalidValidationStatus = errors.New("validation problem status must be 400")
	ErrNilProblemDetail        = errors.New("nil problem detail")
	ErrNilReader               = errors.New("nil reader")
	ErrEmptyPath               = errors.New("empty path")

	ErrRouteResolution      = errors.New("route resolution failed")
	ErrLocalUrlRejected     = errors.New("url is not local")
	ErrFileNotFound         = errors.New("file not found")
	ErrRelativePhysicalPath = errors.New("physical path is not absolute")
	ErrNilUrlResolver       = errors.New("nil url resolver")
	ErrNilAuthenticator     = errors.New("nil authenticator")
	ErrNilFileSystem        = errors.New("nil file system")
	ErrNilResult            = errors.New("nil result")
	ErrUnsupportedResult    = errors.New("unsupported result")
	ErrNilResponseWriter    = errors.New("nil response writer")
	ErrNilRequest           = errors.New("nil request")
	ErrUnknownCharset       = errors.New("unknown charset")
	ErrNilHandlerFunction   = errors.New("nil handler function")
)

// ConstructionError is returned by constructors given structurally invalid input.
type ConstructionError struct {
	Constructor string
	Cause       error
}

func (e *ConstructionError) Error() string {
	return e.Constructor + ": " + e.Cause.Error()
}

func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Cause}
}
