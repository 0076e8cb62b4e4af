package executor

import (
	"context"
	"fmt"
	"net/http"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
)

// executeAuthAction calls the authenticator once per scheme in order, or once with the default
// scheme when none are listed. It stops at the first error.
func (executor *Executor) executeAuthAction(r *http.Request, w http.ResponseWriter, action result.AuthAction) error {
	authenticator := executor.Authenticator
	if authenticator == nil {
		return motmedelErrors.NewWithTrace(resultErrors.ErrNilAuthenticator)
	}

	if action.Kind == result.AuthSignIn && action.Principal == nil {
		return motmedelErrors.NewWithTrace(resultErrors.ErrNilPrincipal)
	}

	schemes := action.Schemes
	if len(schemes) == 0 {
		schemes = []string{""}
	}

	ctx := r.Context()

	for _, scheme := range schemes {
		if err := ctx.Err(); err != nil {
			return motmedelErrors.New(fmt.Errorf("context: %w", err), scheme)
		}

		executor.observe(
			ctx,
			&observer.Event{Kind: observer.KindAuth, Action: action.Kind.String(), Scheme: scheme, Length: -1},
		)

		if err := executor.authenticate(ctx, w, r, action, scheme); err != nil {
			return motmedelErrors.New(err, scheme)
		}
	}

	return nil
}

func (executor *Executor) authenticate(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	action result.AuthAction,
	scheme string,
) error {
	authenticator := executor.Authenticator

	switch action.Kind {
	case result.AuthChallenge:
		if err := authenticator.Challenge(ctx, w, r, scheme, action.Properties); err != nil {
			return fmt.Errorf("authenticator challenge: %w", err)
		}
	case result.AuthForbid:
		if err := authenticator.Forbid(ctx, w, r, scheme, action.Properties); err != nil {
			return fmt.Errorf("authenticator forbid: %w", err)
		}
	case result.AuthSignIn:
		if err := authenticator.SignIn(ctx, w, r, scheme, action.Principal, action.Properties); err != nil {
			return fmt.Errorf("authenticator sign in: %w", err)
		}
	case result.AuthSignOut:
		if err := authenticator.SignOut(ctx, w, r, scheme, action.Properties); err != nil {
			return fmt.Errorf("authenticator sign out: %w", err)
		}
	default:
		return motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: auth kind %d", resultErrors.ErrUnsupportedResult, action.Kind),
			action.Kind,
		)
	}

	return nil
}
