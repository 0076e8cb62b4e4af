package cmp

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func CompareErr(t *testing.T, got error, want error, opts ...cmp.Option) {
	t.Helper()

	if want == nil {
		if got != nil {
			t.Fatalf("expected no error, got %T: %v", got, got)
		}
		return
	}

	if got == nil {
		t.Fatalf("expected %T error, got nil", want)
	}

	wantType := reflect.TypeOf(want)
	target := reflect.New(wantType)
	if !errors.As(got, target.Interface()) {
		t.Fatalf("expected error assignable to %v, got %T: %v", wantType, got, got)
	}

	typedGot := target.Elem().Interface().(error)
	if diff := cmp.Diff(want, typedGot, opts...); diff != "" {
		t.Errorf("error mismatch (-expected +got):\n%s", diff)
	}
}

// CompareErrIs fails the test unless got matches want with errors.Is. A nil want requires a nil got.
func CompareErrIs(t *testing.T, got error, want error) {
	t.Helper()

	if want == nil {
		if got != nil {
			t.Fatalf("expected no error, got %T: %v", got, got)
		}
		return
	}

	if !errors.Is(got, want) {
		t.Fatalf("expected error matching %v, got %v", want, got)
	}
}

func Compare[T any](t *testing.T, name string, want T, got T, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("%s mismatch (-expected +got):\n%s", name, diff)
	}
}
