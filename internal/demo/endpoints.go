package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/authentication"
	"github.com/Motmedel/results_go/pkg/http/local_url"
	"github.com/Motmedel/results_go/pkg/http/problem_detail/problem_detail_config"
	"github.com/Motmedel/results_go/pkg/http/result"
	"github.com/Motmedel/results_go/pkg/http/result/result_config"
	"github.com/gorilla/mux"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	greetingText  = "Hej på dig!"
	eventCount    = 3
	eventInterval = 100 * time.Millisecond
)

func fromConstructor(res result.Result, err error) (result.Result, error) {
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("result construction: %w", err))
	}
	return res, nil
}

func (server *Server) getFile(r *http.Request) (result.Result, error) {
	name := mux.Vars(r)["name"]

	if fileSystem := server.Executor.FileSystem; fileSystem != nil {
		info, err := fs.Stat(fileSystem, name)
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
			return server.notFound(r)
		case err != nil:
			return nil, motmedelErrors.NewWithTrace(fmt.Errorf("fs stat: %w", err), name)
		case info.IsDir():
			return server.notFound(r)
		}
	}

	options := []result_config.Option{result_config.WithRangeProcessing(true)}
	if contentType := mime.TypeByExtension(path.Ext(name)); contentType != "" {
		options = append(options, result_config.WithContentType(contentType))
	}
	if r.URL.Query().Has("download") {
		options = append(options, result_config.WithDownloadName(name))
	}

	return fromConstructor(result.VirtualFile("~/"+name, options...))
}

func (server *Server) greeting(r *http.Request) (result.Result, error) {
	charset := r.URL.Query().Get("charset")
	if charset != "" {
		if _, err := htmlindex.Get(charset); err != nil {
			return fromConstructor(
				result.ValidationProblem(map[string][]string{"charset": {"The charset is not supported."}}),
			)
		}
	}

	return result.Content(greetingText, result_config.WithCharset(charset)), nil
}

func (server *Server) events(*http.Request) (result.Result, error) {
	return fromConstructor(
		result.PushStream(
			func(ctx context.Context, w io.Writer) error {
				ticker := time.NewTicker(eventInterval)
				defer ticker.Stop()

				for i := range eventCount {
					if _, err := fmt.Fprintf(w, "data: %d\n\n", i); err != nil {
						return fmt.Errorf("fmt fprintf: %w", err)
					}
					if flusher, ok := w.(http.Flusher); ok {
						flusher.Flush()
					}

					if i == eventCount-1 {
						break
					}

					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-ticker.C:
					}
				}

				return nil
			},
			result_config.WithContentType("text/event-stream"),
		),
	)
}

func (server *Server) goTo(r *http.Request) (result.Result, error) {
	target := r.URL.Query().Get("to")
	if !local_url.IsLocal(target) {
		return result.Problem(
			problem_detail_config.WithStatus(http.StatusBadRequest),
			problem_detail_config.WithDetail("The target must be a local URL."),
		), nil
	}

	return fromConstructor(result.LocalRedirect(target, false, false))
}

func (server *Server) returnUrl(r *http.Request, fallback string) string {
	returnUrl := r.URL.Query().Get("ReturnUrl")
	if !local_url.IsLocal(returnUrl) {
		returnUrl = fallback
	}
	return local_url.Expand(returnUrl, server.Config.PathBase)
}

func (server *Server) login(r *http.Request) (result.Result, error) {
	user := r.URL.Query().Get("user")
	if user == "" {
		return fromConstructor(result.ValidationProblem(map[string][]string{"user": {"The user is required."}}))
	}

	principal := &authentication.Principal{Subject: user, Name: user}
	if user == "admin" {
		principal.Roles = []string{"admin"}
	}

	return fromConstructor(
		result.SignIn(
			principal,
			&authentication.Properties{RedirectUri: server.returnUrl(r, "~/private")},
		),
	)
}

func (server *Server) logout(r *http.Request) (result.Result, error) {
	return result.SignOut(&authentication.Properties{RedirectUri: server.returnUrl(r, "~/")}), nil
}

func (server *Server) authenticate(r *http.Request) *authentication.Principal {
	principal, err := server.Auth.Authenticate(r, "")
	if err != nil {
		return nil
	}
	return principal
}

func (server *Server) private(r *http.Request) (result.Result, error) {
	principal := server.authenticate(r)
	if principal == nil {
		return result.Challenge(nil), nil
	}

	return result.Text("Hello, " + principal.Name + "!"), nil
}

func (server *Server) admin(r *http.Request) (result.Result, error) {
	principal := server.authenticate(r)
	switch {
	case principal == nil:
		return result.Challenge(nil, CookieScheme), nil
	case !principal.HasRole("admin"):
		return result.Forbid(nil, CookieScheme), nil
	}

	return result.OkValue(map[string]any{"items": len(server.items.list()), "subject": principal.Subject}), nil
}

func (server *Server) problem(r *http.Request) (result.Result, error) {
	status := http.StatusInternalServerError
	if value := r.URL.Query().Get("status"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 400 || parsed > 599 {
			return fromConstructor(
				result.ValidationProblem(map[string][]string{"status": {"The status must be an error status code."}}),
			)
		}
		status = parsed
	}

	return result.Problem(
		problem_detail_config.WithStatus(status),
		problem_detail_config.WithDetail("A sample problem."),
		problem_detail_config.WithInstance(r.URL.Path),
	), nil
}

func (server *Server) notFound(r *http.Request) (result.Result, error) {
	return result.Problem(
		problem_detail_config.WithStatus(http.StatusNotFound),
		problem_detail_config.WithInstance(r.URL.Path),
	), nil
}
