package authentication

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/errors/types/empty_error"
	"github.com/Motmedel/results_go/pkg/errors/types/nil_error"
	authenticationErrors "github.com/Motmedel/results_go/pkg/http/authentication/errors"
)

// Principal is the authenticated identity that a sign-in persists.
type Principal struct {
	Subject string
	Name    string
	Roles   []string
	Claims  map[string]any
}

func (principal *Principal) Clone() *Principal {
	if principal == nil {
		return nil
	}

	clone := *principal
	clone.Roles = slices.Clone(principal.Roles)
	clone.Claims = maps.Clone(principal.Claims)

	return &clone
}

func (principal *Principal) HasRole(role string) bool {
	return principal != nil && slices.Contains(principal.Roles, role)
}

// Properties carry per-call settings for an authentication action.
type Properties struct {
	RedirectUri  string
	IsPersistent bool
	ExpiresAt    time.Time
	Items        map[string]string
}

func (properties *Properties) Clone() *Properties {
	if properties == nil {
		return nil
	}

	clone := *properties
	clone.Items = maps.Clone(properties.Items)

	return &clone
}

// Authenticator performs authentication actions for a named scheme. An empty scheme selects the
// implementation's default.
type Authenticator interface {
	Challenge(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, properties *Properties) error
	Forbid(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, properties *Properties) error
	SignIn(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, principal *Principal, properties *Properties) error
	SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, properties *Properties) error
}

// Handler implements the authentication actions of a single scheme.
type Handler interface {
	Authenticate(r *http.Request) (*Principal, error)
	Challenge(ctx context.Context, w http.ResponseWriter, r *http.Request, properties *Properties) error
	Forbid(ctx context.Context, w http.ResponseWriter, r *http.Request, properties *Properties) error
	SignIn(ctx context.Context, w http.ResponseWriter, r *http.Request, principal *Principal, properties *Properties) error
	SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request, properties *Properties) error
}

// Service dispatches authentication actions to the handler registered for a scheme.
type Service struct {
	DefaultScheme string

	mu       sync.RWMutex
	handlers map[string]Handler
}

func (service *Service) Register(scheme string, handler Handler) error {
	if scheme == "" {
		return motmedelErrors.NewWithTrace(empty_error.New("scheme"))
	}
	if handler == nil {
		return motmedelErrors.NewWithTrace(authenticationErrors.ErrNilHandler, scheme)
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if service.handlers == nil {
		service.handlers = make(map[string]Handler)
	}
	if _, ok := service.handlers[scheme]; ok {
		return motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %q", authenticationErrors.ErrDuplicateScheme, scheme),
			scheme,
		)
	}
	service.handlers[scheme] = handler

	return nil
}

func (service *Service) Schemes() []string {
	service.mu.RLock()
	defer service.mu.RUnlock()

	return slices.Sorted(maps.Keys(service.handlers))
}

func (service *Service) handler(scheme string) (Handler, error) {
	if scheme == "" {
		scheme = service.DefaultScheme
		if scheme == "" {
			return nil, motmedelErrors.NewWithTrace(authenticationErrors.ErrNoDefaultScheme)
		}
	}

	service.mu.RLock()
	handler, ok := service.handlers[scheme]
	service.mu.RUnlock()

	if !ok || handler == nil {
		return nil, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %q", authenticationErrors.ErrUnknownScheme, scheme),
			scheme,
		)
	}

	return handler, nil
}

func (service *Service) Authenticate(r *http.Request, scheme string) (*Principal, error) {
	handler, err := service.handler(scheme)
	if err != nil {
		return nil, err
	}

	principal, err := handler.Authenticate(r)
	if err != nil {
		return nil, fmt.Errorf("handler authenticate: %w", err)
	}

	return principal, nil
}

func (service *Service) Challenge(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, properties *Properties) error {
	handler, err := service.handler(scheme)
	if err != nil {
		return err
	}

	if err := handler.Challenge(ctx, w, r, properties); err != nil {
		return fmt.Errorf("handler challenge: %w", err)
	}

	return nil
}

func (service *Service) Forbid(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, properties *Properties) error {
	handler, err := service.handler(scheme)
	if err != nil {
		return err
	}

	if err := handler.Forbid(ctx, w, r, properties); err != nil {
		return fmt.Errorf("handler forbid: %w", err)
	}

	return nil
}

func (service *Service) SignIn(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	scheme string,
	principal *Principal,
	properties *Properties,
) error {
	if principal == nil {
		return motmedelErrors.NewWithTrace(nil_error.New("principal"))
	}

	handler, err := service.handler(scheme)
	if err != nil {
		return err
	}

	if err := handler.SignIn(ctx, w, r, principal, properties); err != nil {
		return fmt.Errorf("handler sign in: %w", err)
	}

	return nil
}

func (service *Service) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request, scheme string, properties *Properties) error {
	handler, err := service.handler(scheme)
	if err != nil {
		return err
	}

	if err := handler.SignOut(ctx, w, r, properties); err != nil {
		return fmt.Errorf("handler sign out: %w", err)
	}

	return nil
}
