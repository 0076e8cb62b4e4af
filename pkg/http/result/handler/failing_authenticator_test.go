package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Motmedel/results_go/pkg/http/authentication"
)

type failingAuthenticator struct{}

func (failingAuthenticator) Challenge(_ context.Context, w http.ResponseWriter, _ *http.Request, _ string, _ *authentication.Properties) error {
	w.WriteHeader(http.StatusUnauthorized)
	return errors.New("challenge rejected")
}

func (failingAuthenticator) Forbid(context.Context, http.ResponseWriter, *http.Request, string, *authentication.Properties) error {
	return nil
}

func (failingAuthenticator) SignIn(context.Context, http.ResponseWriter, *http.Request, string, *authentication.Principal, *authentication.Properties) error {
	return nil
}

func (failingAuthenticator) SignOut(context.Context, http.ResponseWriter, *http.Request, string, *authentication.Properties) error {
	return nil
}
