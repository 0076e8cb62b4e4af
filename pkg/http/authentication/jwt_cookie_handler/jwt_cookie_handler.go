package jwt_cookie_handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/errors/types/empty_error"
	"github.com/Motmedel/results_go/pkg/errors/types/nil_error"
	"github.com/Motmedel/results_go/pkg/http/authentication"
	authenticationErrors "github.com/Motmedel/results_go/pkg/http/authentication/errors"
	"github.com/Motmedel/results_go/pkg/http/authentication/jwt_cookie_handler/jwt_cookie_handler_config"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	Name  string         `json:"name,omitempty"`
	Roles []string       `json:"roles,omitempty"`
	Extra map[string]any `json:"ext,omitempty"`
}

// Handler keeps the principal in an HS256-signed JWT stored in a cookie.
type Handler struct {
	key    []byte
	config *jwt_cookie_handler_config.Config
}

func New(key []byte, options ...jwt_cookie_handler_config.Option) (*Handler, error) {
	if len(key) == 0 {
		return nil, motmedelErrors.NewWithTrace(empty_error.New("signing key"))
	}

	return &Handler{key: key, config: jwt_cookie_handler_config.New(options...)}, nil
}

func (handler *Handler) now() time.Time {
	if timeFunc := handler.config.TimeFunc; timeFunc != nil {
		return timeFunc()
	}
	return time.Now()
}

func (handler *Handler) keyFunc(*jwt.Token) (any, error) {
	return handler.key, nil
}

func (handler *Handler) MakeToken(principal *authentication.Principal, expiresAt time.Time) (string, error) {
	if principal == nil {
		return "", motmedelErrors.NewWithTrace(nil_error.New("principal"))
	}

	now := handler.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    handler.config.Issuer,
			Subject:   principal.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:  principal.Name,
		Roles: principal.Roles,
		Extra: principal.Claims,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.key)
	if err != nil {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("jwt signed string: %w", err))
	}

	return token, nil
}

func (handler *Handler) ParseToken(token string) (*authentication.Principal, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(handler.now),
		jwt.WithExpirationRequired(),
	}
	if issuer := handler.config.Issuer; issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(issuer))
	}

	var claims Claims
	if _, err := jwt.ParseWithClaims(token, &claims, handler.keyFunc, parserOptions...); err != nil {
		return nil, motmedelErrors.New(
			fmt.Errorf("%w: jwt parse with claims: %w", authenticationErrors.ErrNotAuthenticated, err),
		)
	}

	return &authentication.Principal{
		Subject: claims.Subject,
		Name:    claims.Name,
		Roles:   claims.Roles,
		Claims:  claims.Extra,
	}, nil
}

func (handler *Handler) Authenticate(r *http.Request) (*authentication.Principal, error) {
	if r == nil {
		return nil, motmedelErrors.NewWithTrace(nil_error.New("http request"))
	}

	cookie, err := r.Cookie(handler.config.CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, motmedelErrors.New(authenticationErrors.ErrNotAuthenticated)
		}
		return nil, motmedelErrors.New(fmt.Errorf("http request cookie: %w", err))
	}

	return handler.ParseToken(cookie.Value)
}

func (handler *Handler) redirectWithReturnUrl(w http.ResponseWriter, r *http.Request, path string, properties *authentication.Properties) {
	returnUrl := r.URL.RequestURI()
	if properties != nil && properties.RedirectUri != "" {
		returnUrl = properties.RedirectUri
	}

	location := path
	if parameter := handler.config.ReturnUrlParameter; parameter != "" {
		location += "?" + url.Values{parameter: {returnUrl}}.Encode()
	}

	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusFound)
}

func redirect(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusFound)
}

func (handler *Handler) Challenge(_ context.Context, w http.ResponseWriter, r *http.Request, properties *authentication.Properties) error {
	if w == nil {
		return motmedelErrors.NewWithTrace(nil_error.New("http response writer"))
	}

	if loginPath := handler.config.LoginPath; loginPath != "" && r != nil {
		handler.redirectWithReturnUrl(w, r, loginPath, properties)
		return nil
	}

	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Cookie realm=%q", handler.config.Realm))
	w.WriteHeader(http.StatusUnauthorized)

	return nil
}

func (handler *Handler) Forbid(_ context.Context, w http.ResponseWriter, r *http.Request, properties *authentication.Properties) error {
	if w == nil {
		return motmedelErrors.NewWithTrace(nil_error.New("http response writer"))
	}

	if accessDeniedPath := handler.config.AccessDeniedPath; accessDeniedPath != "" && r != nil {
		handler.redirectWithReturnUrl(w, r, accessDeniedPath, properties)
		return nil
	}

	w.WriteHeader(http.StatusForbidden)

	return nil
}

func (handler *Handler) SignIn(
	_ context.Context,
	w http.ResponseWriter,
	_ *http.Request,
	principal *authentication.Principal,
	properties *authentication.Properties,
) error {
	if w == nil {
		return motmedelErrors.NewWithTrace(nil_error.New("http response writer"))
	}

	expiresAt := handler.now().Add(handler.config.Lifetime)
	if properties != nil && !properties.ExpiresAt.IsZero() {
		expiresAt = properties.ExpiresAt
	}

	token, err := handler.MakeToken(principal, expiresAt)
	if err != nil {
		return fmt.Errorf("make token: %w", err)
	}

	cookie := &http.Cookie{
		Name:     handler.config.CookieName,
		Value:    token,
		Path:     handler.config.CookiePath,
		HttpOnly: true,
		Secure:   !handler.config.Insecure,
		SameSite: handler.config.SameSite,
	}
	if properties != nil && properties.IsPersistent {
		cookie.Expires = expiresAt
	}
	http.SetCookie(w, cookie)

	if properties != nil && properties.RedirectUri != "" {
		redirect(w, properties.RedirectUri)
	}

	return nil
}

func (handler *Handler) SignOut(
	_ context.Context,
	w http.ResponseWriter,
	_ *http.Request,
	properties *authentication.Properties,
) error {
	if w == nil {
		return motmedelErrors.NewWithTrace(nil_error.New("http response writer"))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     handler.config.CookieName,
		Value:    "",
		Path:     handler.config.CookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   !handler.config.Insecure,
		SameSite: handler.config.SameSite,
	})

	if properties != nil && properties.RedirectUri != "" {
		redirect(w, properties.RedirectUri)
	}

	return nil
}
