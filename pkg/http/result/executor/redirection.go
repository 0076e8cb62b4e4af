package executor

import (
	"fmt"
	"net/http"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/local_url"
	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
)

func (executor *Executor) executeRedirection(r *http.Request, w http.ResponseWriter, redirection result.Redirection) error {
	destination := redirection.Url
	if redirection.Route != nil {
		var err error
		destination, err = executor.resolveRoute(r, redirection.Route)
		if err != nil {
			return err
		}
		if fragment := redirection.Fragment; fragment != "" {
			destination += "#" + fragment
		}
	}

	isLocal := local_url.IsLocal(destination)
	if redirection.LocalOnly && !isLocal {
		return motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %q", resultErrors.ErrLocalUrlRejected, destination),
			destination,
		)
	}
	if isLocal {
		destination = local_url.Expand(destination, executor.PathBase)
	}

	code := redirection.StatusCode()

	executor.observe(
		r.Context(),
		&observer.Event{Kind: observer.KindRedirect, StatusCode: code, Location: destination, Length: -1},
	)

	w.Header().Set("Location", destination)
	w.WriteHeader(code)

	return nil
}
