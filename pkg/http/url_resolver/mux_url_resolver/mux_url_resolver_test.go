package mux_url_resolver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	router.HandleFunc("/items/{id}", func(http.ResponseWriter, *http.Request) {}).Name("item")
	router.HandleFunc("/users/{user}/items/{id}", func(http.ResponseWriter, *http.Request) {}).Name("user-item")

	resolver := New(router)

	testCases := []struct {
		name        string
		routeName   string
		routeValues map[string]string
		expected    string
		wantErr     error
	}{
		{name: "single value", routeName: "item", routeValues: map[string]string{"id": "7"}, expected: "/items/7"},
		{name: "two values", routeName: "user-item", routeValues: map[string]string{"user": "a", "id": "1"}, expected: "/users/a/items/1"},
		{name: "unknown route", routeName: "nope", wantErr: ErrUnknownRoute},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.Resolve(httptest.NewRequest(http.MethodGet, "/", nil), testCase.routeName, testCase.routeValues)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("expected %v, got %v", testCase.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != testCase.expected {
				t.Errorf("got %q, expected %q", got, testCase.expected)
			}
		})
	}

	t.Run("missing value", func(t *testing.T) {
		t.Parallel()

		if _, err := resolver.Resolve(nil, "item", nil); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestResolveCurrentRoute(t *testing.T) {
	t.Parallel()

	router := mux.NewRouter()
	resolver := New(router)

	var got string
	var resolveErr error
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, resolveErr = resolver.Resolve(r, "", map[string]string{"id": "9"})
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	if resolveErr != nil {
		t.Fatalf("resolve: %v", resolveErr)
	}
	if got != "/items/9" {
		t.Errorf("got %q", got)
	}

	if _, err := resolver.Resolve(httptest.NewRequest(http.MethodGet, "/", nil), "", nil); !errors.Is(err, ErrNoCurrentRoute) {
		t.Errorf("expected ErrNoCurrentRoute, got %v", err)
	}
}
