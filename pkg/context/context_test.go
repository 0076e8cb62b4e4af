package context

import (
	"context"
	"errors"
	"testing"
)

func TestWithError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	ctx := WithError(context.Background(), err)
	if got := GetError(ctx); got != err {
		t.Errorf("got %v, expected %v", got, err)
	}
	if got := GetError(context.Background()); got != nil {
		t.Errorf("expected no error, got %v", got)
	}
}

func TestWithRequestId(t *testing.T) {
	t.Parallel()

	ctx := WithRequestId(context.Background(), "abc")
	if got := GetRequestId(ctx); got != "abc" {
		t.Errorf("got %q", got)
	}
}
