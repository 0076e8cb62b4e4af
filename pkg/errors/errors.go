package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrSyntaxError   = errors.New("syntax error")
	ErrSemanticError = errors.New("semantic error")
)

// CollectWrappedErrors lists every error reachable from err through Unwrap, breadth first,
// excluding err itself.
func CollectWrappedErrors(err error) []error {
	var collected []error

	for queue := []error{err}; len(queue) > 0; queue = queue[1:] {
		current := queue[0]
		if current == nil {
			continue
		}
		if current != err {
			collected = append(collected, current)
		}

		switch typedErr := current.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, typedErr.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, typedErr.Unwrap()...)
		}
	}

	return collected
}

const maxStackDepth = 64

// captureStackTrace renders the calling goroutine's stack in the layout of runtime.Stack, starting
// skip frames above the caller of captureStackTrace.
func captureStackTrace(skip int) string {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)

	var builder strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			if builder.Len() != 0 {
				builder.WriteByte('\n')
			}
			fmt.Fprintf(&builder, "%s(...)\n\t%s:%d", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}

	return builder.String()
}

type CodeErrorI interface {
	Error() string
	GetCode() string
}

type IdErrorI interface {
	Error() string
	GetId() string
}

type StackTraceErrorI interface {
	Error() string
	GetStackTrace() string
}

type InputErrorI interface {
	Error() string
	GetInput() any
}

// Error annotates a wrapped error with the input that caused it and, optionally, a code, an
// identifier that correlates it with a response, and a stack trace.
type Error struct {
	error
	Input      any
	Code       string
	Id         string
	StackTrace string
}

func (err *Error) GetInput() any {
	return err.Input
}

func (err *Error) GetCode() string {
	return err.Code
}

func (err *Error) GetId() string {
	return err.Id
}

func (err *Error) GetStackTrace() string {
	return err.StackTrace
}

func (err *Error) Unwrap() error {
	return err.error
}

// New wraps e, which is expected to be an error or a string, together with the input that caused it.
func New(e any, input ...any) *Error {
	var err error

	switch typedE := e.(type) {
	case error:
		err = typedE
	case string:
		err = errors.New(typedE)
	default:
		err = fmt.Errorf("%v", typedE)
	}

	var errInput any = input
	switch len(input) {
	case 0:
		errInput = nil
	case 1:
		errInput = input[0]
	}

	return &Error{error: err, Input: errInput}
}

// NewWithTrace is New with the caller's stack trace attached.
func NewWithTrace(e any, input ...any) *Error {
	err := New(e, input...)
	err.StackTrace = captureStackTrace(1)
	return err
}
