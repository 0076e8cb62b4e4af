package result

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Motmedel/results_go/pkg/http/authentication"
	"github.com/Motmedel/results_go/pkg/http/json_codec"
	"github.com/Motmedel/results_go/pkg/http/problem_detail"
)

// Result is an immutable description of one HTTP outcome. The cases are the value types of this
// package; an executor turns a Result into response writes.
type Result interface {
	isResult()
}

type RouteReference struct {
	Name   string
	Values map[string]string
}

// StatusCode writes only a status code.
type StatusCode struct {
	Code int
}

// Value writes a status code and, unless Value is nil, the JSON serialization of Value.
type Value struct {
	Code        int
	Value       any
	ContentType string
	Codec       json_codec.Codec
}

// Located is a Value that also carries a Location header, given either literally or as a route.
type Located struct {
	Code     int
	Location string
	Route    *RouteReference
	Value    any
}

type Redirection struct {
	Url            string
	Route          *RouteReference
	Fragment       string
	Permanent      bool
	PreserveMethod bool
	LocalOnly      bool
}

// StatusCode is 308 when both permanent and method preserving, 307 when only method preserving,
// 301 when only permanent, and 302 otherwise.
func (redirection Redirection) StatusCode() int {
	switch {
	case redirection.Permanent && redirection.PreserveMethod:
		return http.StatusPermanentRedirect
	case redirection.PreserveMethod:
		return http.StatusTemporaryRedirect
	case redirection.Permanent:
		return http.StatusMovedPermanently
	default:
		return http.StatusFound
	}
}

type FileSource int

const (
	FileSourceBytes FileSource = iota + 1
	FileSourceReader
	FileSourcePush
	FileSourcePhysical
	FileSourceVirtual
)

func (source FileSource) String() string {
	switch source {
	case FileSourceBytes:
		return "bytes"
	case FileSourceReader:
		return "reader"
	case FileSourcePush:
		return "push"
	case FileSourcePhysical:
		return "physical"
	case FileSourceVirtual:
		return "virtual"
	default:
		return "unknown"
	}
}

type PushFunction func(ctx context.Context, w io.Writer) error

type FilePayload struct {
	Source FileSource
	Data   []byte
	// Reader is owned by the executor and closed after the write when it implements io.Closer.
	Reader io.Reader
	Push   PushFunction
	Path   string

	ContentType           string
	DownloadName          string
	LastModified          time.Time
	ETag                  string
	EnableRangeProcessing bool
	// Length is the declared length of Reader, or -1.
	Length int64
}

// RawContent writes text in a negotiated charset, or Bytes verbatim when Bytes is not nil.
type RawContent struct {
	Text        string
	Bytes       []byte
	ContentType string
	Charset     string
	Code        int
}

type ProblemBody struct {
	Detail *problem_detail.Detail
}

type AuthKind int

const (
	AuthChallenge AuthKind = iota + 1
	AuthForbid
	AuthSignIn
	AuthSignOut
)

func (kind AuthKind) String() string {
	switch kind {
	case AuthChallenge:
		return "challenge"
	case AuthForbid:
		return "forbid"
	case AuthSignIn:
		return "signIn"
	case AuthSignOut:
		return "signOut"
	default:
		return "unknown"
	}
}

type AuthAction struct {
	Kind       AuthKind
	Schemes    []string
	Principal  *authentication.Principal
	Properties *authentication.Properties
}

// Noop writes nothing, not even a status code.
type Noop struct{}

func (StatusCode) isResult()  {}
func (Value) isResult()       {}
func (Located) isResult()     {}
func (Redirection) isResult() {}
func (FilePayload) isResult() {}
func (RawContent) isResult()  {}
func (ProblemBody) isResult() {}
func (AuthAction) isResult()  {}
func (Noop) isResult()        {}

// StatusCodeOf returns the terminal status code of res before any conditional or range
// processing. Authentication actions and Noop return 0 because they set no status themselves.
func StatusCodeOf(res Result) int {
	switch typedResult := res.(type) {
	case StatusCode:
		return typedResult.Code
	case Value:
		return orOk(typedResult.Code)
	case Located:
		return orOk(typedResult.Code)
	case Redirection:
		return typedResult.StatusCode()
	case FilePayload:
		return http.StatusOK
	case RawContent:
		return orOk(typedResult.Code)
	case ProblemBody:
		detail := typedResult.Detail.Clone()
		problem_detail.ApplyDefaults(detail, 0)
		if detail == nil {
			return 0
		}
		return detail.Status
	default:
		return 0
	}
}

func orOk(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}
