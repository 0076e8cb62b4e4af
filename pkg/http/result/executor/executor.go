package executor

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"reflect"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/authentication"
	"github.com/Motmedel/results_go/pkg/http/json_codec"
	"github.com/Motmedel/results_go/pkg/http/problem_detail"
	"github.com/Motmedel/results_go/pkg/http/response_writer"
	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"github.com/Motmedel/results_go/pkg/http/url_resolver"
)

const TraceIdExtension = "traceId"

// Executor writes results to HTTP responses. Its fields are read-only once in use, so one
// Executor may serve concurrent requests.
type Executor struct {
	JsonCodec     json_codec.Codec
	UrlResolver   url_resolver.UrlResolver
	Authenticator authentication.Authenticator
	// FileSystem serves virtual files.
	FileSystem fs.FS
	// PathBase replaces the "~" of application-relative redirect targets.
	PathBase string
	Observer observer.Observer
	// TraceIdentifier, when set, supplies the traceId member of problem responses that lack one.
	TraceIdentifier func(*http.Request) string
}

func (executor *Executor) codec() json_codec.Codec {
	if executor.JsonCodec != nil {
		return executor.JsonCodec
	}
	return json_codec.Default
}

func (executor *Executor) observe(ctx context.Context, event *observer.Event) {
	if executor.Observer != nil && event != nil {
		executor.Observer.Observe(ctx, event)
	}
}

// Execute performs the writes that res describes. Location and local-only checks happen before
// any header is written, so a failed resolution leaves the response untouched.
func (executor *Executor) Execute(w http.ResponseWriter, r *http.Request, res result.Result) error {
	if w == nil {
		return motmedelErrors.NewWithTrace(resultErrors.ErrNilResponseWriter)
	}
	if r == nil {
		return motmedelErrors.NewWithTrace(resultErrors.ErrNilRequest)
	}
	if res == nil {
		return motmedelErrors.NewWithTrace(resultErrors.ErrNilResult)
	}

	responseWriter := response_writer.New(w, r)

	switch typedResult := res.(type) {
	case result.Noop:
		return nil
	case result.StatusCode:
		return executor.writeStatus(r.Context(), responseWriter, typedResult.Code)
	case result.Value:
		return executor.writeValue(r, responseWriter, typedResult.Code, typedResult.Value, typedResult.ContentType, typedResult.Codec)
	case result.Located:
		return executor.executeLocated(r, responseWriter, typedResult)
	case result.Redirection:
		return executor.executeRedirection(r, responseWriter, typedResult)
	case result.FilePayload:
		return executor.executeFile(r, responseWriter, typedResult)
	case result.RawContent:
		return executor.executeContent(r, responseWriter, typedResult)
	case result.ProblemBody:
		return executor.executeProblem(r, responseWriter, typedResult)
	case result.AuthAction:
		return executor.executeAuthAction(r, responseWriter, typedResult)
	default:
		return motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %T", resultErrors.ErrUnsupportedResult, res),
			res,
		)
	}
}

func (executor *Executor) writeStatus(ctx context.Context, w http.ResponseWriter, code int) error {
	executor.observe(ctx, &observer.Event{Kind: observer.KindStatus, StatusCode: code, Length: -1})
	w.WriteHeader(code)
	return nil
}

// isNil reports whether value is nil or a nil pointer, map, slice, interface, function or channel.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	switch reflectValue := reflect.ValueOf(value); reflectValue.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return reflectValue.IsNil()
	}
	return false
}

func (executor *Executor) writeValue(
	r *http.Request,
	w http.ResponseWriter,
	code int,
	value any,
	contentType string,
	codec json_codec.Codec,
) error {
	if code == 0 {
		code = http.StatusOK
	}

	if isNil(value) {
		return executor.writeStatus(r.Context(), w, code)
	}

	if contentType == "" {
		contentType = json_codec.ContentType
	}

	return executor.writeJson(r, w, code, value, contentType, codec)
}

func (executor *Executor) writeJson(
	r *http.Request,
	w http.ResponseWriter,
	code int,
	value any,
	contentType string,
	codec json_codec.Codec,
) error {
	ctx := r.Context()

	if codec == nil {
		codec = executor.codec()
	}

	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("json codec marshal: %w", err)
	}

	executor.observe(
		ctx,
		&observer.Event{
			Kind:        observer.KindJson,
			StatusCode:  code,
			ContentType: contentType,
			Length:      int64(len(data)),
			ValueType:   reflect.TypeOf(value).String(),
		},
	)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)

	if err := ctx.Err(); err != nil {
		return motmedelErrors.New(fmt.Errorf("context: %w", err))
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("response writer write: %w", err)
	}

	return nil
}

func (executor *Executor) resolveRoute(r *http.Request, route *result.RouteReference) (string, error) {
	if executor.UrlResolver == nil {
		return "", motmedelErrors.NewWithTrace(resultErrors.ErrNilUrlResolver)
	}

	var routeName string
	var routeValues map[string]string
	if route != nil {
		routeName = route.Name
		routeValues = route.Values
	}

	location, err := executor.UrlResolver.Resolve(r, routeName, routeValues)
	if err != nil {
		return "", motmedelErrors.New(
			fmt.Errorf("%w: url resolver resolve: %w", resultErrors.ErrRouteResolution, err),
			routeName, routeValues,
		)
	}
	if location == "" {
		return "", motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: empty url for route %q", resultErrors.ErrRouteResolution, routeName),
			routeName, routeValues,
		)
	}

	return location, nil
}

func (executor *Executor) executeLocated(r *http.Request, w http.ResponseWriter, located result.Located) error {
	location := located.Location
	if located.Route != nil {
		var err error
		location, err = executor.resolveRoute(r, located.Route)
		if err != nil {
			return err
		}
	}

	if location != "" {
		w.Header().Set("Location", location)
	}

	return executor.writeValue(r, w, located.Code, located.Value, "", nil)
}

func (executor *Executor) executeProblem(r *http.Request, w http.ResponseWriter, problem result.ProblemBody) error {
	if problem.Detail == nil {
		return motmedelErrors.NewWithTrace(resultErrors.ErrNilProblemDetail)
	}

	detail := problem.Detail.Clone()
	problem_detail.ApplyDefaults(detail, 0)

	if traceIdentifier := executor.TraceIdentifier; traceIdentifier != nil {
		if _, ok := detail.Extension[TraceIdExtension]; !ok {
			if traceId := traceIdentifier(r); traceId != "" {
				if detail.Extension == nil {
					detail.Extension = make(map[string]any, 1)
				}
				detail.Extension[TraceIdExtension] = traceId
			}
		}
	}

	return executor.writeJson(r, w, detail.Status, detail, problem_detail.ContentType, nil)
}
