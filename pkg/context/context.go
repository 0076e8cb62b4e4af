package context

import (
	"context"
)

type errorContextType struct{}

var ErrorContextKey errorContextType

// WithError attaches err to ctx so that a log handler can render it.
func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, ErrorContextKey, err)
}

func GetError(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	err, _ := ctx.Value(ErrorContextKey).(error)
	return err
}

type requestIdContextType struct{}

var RequestIdContextKey requestIdContextType

func WithRequestId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIdContextKey, id)
}

func GetRequestId(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIdContextKey).(string)
	return id
}
