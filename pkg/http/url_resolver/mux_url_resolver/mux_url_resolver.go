package mux_url_resolver

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/errors/types/nil_error"
	"github.com/gorilla/mux"
)

var (
	ErrUnknownRoute   = errors.New("unknown route")
	ErrNoCurrentRoute = errors.New("no current route")
)

// Resolver builds URLs from the named routes of a gorilla/mux router.
type Resolver struct {
	Router *mux.Router
}

func New(router *mux.Router) *Resolver {
	return &Resolver{Router: router}
}

func (resolver *Resolver) Resolve(r *http.Request, routeName string, routeValues map[string]string) (string, error) {
	var route *mux.Route

	if routeName == "" {
		if r == nil {
			return "", motmedelErrors.NewWithTrace(nil_error.New("http request"))
		}
		route = mux.CurrentRoute(r)
		if route == nil {
			return "", motmedelErrors.NewWithTrace(ErrNoCurrentRoute)
		}
	} else {
		if resolver.Router == nil {
			return "", motmedelErrors.NewWithTrace(nil_error.New("router"))
		}
		route = resolver.Router.Get(routeName)
		if route == nil {
			return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", ErrUnknownRoute, routeName), routeName)
		}
	}

	pairs := make([]string, 0, 2*len(routeValues))
	for _, key := range slices.Sorted(maps.Keys(routeValues)) {
		pairs = append(pairs, key, routeValues[key])
	}

	u, err := route.URL(pairs...)
	if err != nil {
		return "", motmedelErrors.New(fmt.Errorf("mux route url: %w", err), routeName, pairs)
	}

	return u.String(), nil
}
