package url_resolver

import (
	"net/http"
)

// UrlResolver builds a URL for a named route. An empty name refers to the route that matched r.
// An empty result means that no URL could be produced.
type UrlResolver interface {
	Resolve(r *http.Request, routeName string, routeValues map[string]string) (string, error)
}

type UrlResolverFunction func(r *http.Request, routeName string, routeValues map[string]string) (string, error)

func (f UrlResolverFunction) Resolve(r *http.Request, routeName string, routeValues map[string]string) (string, error) {
	return f(r, routeName, routeValues)
}
