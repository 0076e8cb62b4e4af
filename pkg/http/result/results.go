package result

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/authentication"
	"github.com/Motmedel/results_go/pkg/http/problem_detail"
	"github.com/Motmedel/results_go/pkg/http/problem_detail/problem_detail_config"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/result_config"
)

var (
	ok                  Result = StatusCode{Code: http.StatusOK}
	accepted            Result = Located{Code: http.StatusAccepted}
	noContent           Result = StatusCode{Code: http.StatusNoContent}
	badRequest          Result = StatusCode{Code: http.StatusBadRequest}
	unauthorized        Result = StatusCode{Code: http.StatusUnauthorized}
	notFound            Result = StatusCode{Code: http.StatusNotFound}
	conflict            Result = StatusCode{Code: http.StatusConflict}
	unprocessableEntity Result = StatusCode{Code: http.StatusUnprocessableEntity}
	internalServerError Result = StatusCode{Code: http.StatusInternalServerError}
	empty               Result = Noop{}
)

func constructionError(constructor string, cause error, input ...any) error {
	return motmedelErrors.NewWithTrace(&resultErrors.ConstructionError{Constructor: constructor, Cause: cause}, input...)
}

func normalizeUrl(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func routeReference(name string, values map[string]string) *RouteReference {
	return &RouteReference{Name: name, Values: maps.Clone(values)}
}

// normalizeETag quotes a bare entity tag as a strong tag.
func normalizeETag(etag string) string {
	if etag == "" || strings.HasPrefix(etag, `"`) || strings.HasPrefix(etag, `W/"`) {
		return etag
	}
	return `"` + etag + `"`
}

func Ok() Result {
	return ok
}

func OkValue(value any) Result {
	return Value{Code: http.StatusOK, Value: value}
}

func NoContent() Result {
	return noContent
}

func BadRequest() Result {
	return badRequest
}

func BadRequestValue(value any) Result {
	return Value{Code: http.StatusBadRequest, Value: value}
}

func Unauthorized() Result {
	return unauthorized
}

func NotFound() Result {
	return notFound
}

func NotFoundValue(value any) Result {
	return Value{Code: http.StatusNotFound, Value: value}
}

func Conflict() Result {
	return conflict
}

func ConflictValue(value any) Result {
	return Value{Code: http.StatusConflict, Value: value}
}

func UnprocessableEntity() Result {
	return unprocessableEntity
}

func UnprocessableEntityValue(value any) Result {
	return Value{Code: http.StatusUnprocessableEntity, Value: value}
}

func InternalServerError() Result {
	return internalServerError
}

func InternalServerErrorValue(value any) Result {
	return Value{Code: http.StatusInternalServerError, Value: value}
}

// Empty writes nothing at all.
func Empty() Result {
	return empty
}

// Status answers with only code, which must be within 100 to 599.
func Status(code int) (Result, error) {
	if code < 100 || code > 599 {
		return nil, constructionError(
			"status code",
			fmt.Errorf("%w: %d", resultErrors.ErrInvalidStatusCode, code),
			code,
		)
	}

	return StatusCode{Code: code}, nil
}

// Json serializes value with a JSON codec. The status code defaults to 200.
func Json(value any, options ...result_config.Option) (Result, error) {
	config := result_config.New(options...)

	code := config.StatusCode
	if code != 0 && (code < 100 || code > 599) {
		return nil, constructionError("json", fmt.Errorf("%w: %d", resultErrors.ErrInvalidStatusCode, code), code)
	}

	return Value{Code: orOk(code), Value: value, ContentType: config.ContentType, Codec: config.Codec}, nil
}

// Created answers 201 with an optional Location and value. An empty uri omits the Location header.
func Created(uri string, value any) Result {
	return Located{Code: http.StatusCreated, Location: uri, Value: value}
}

func CreatedUrl(u *url.URL, value any) Result {
	return Located{Code: http.StatusCreated, Location: normalizeUrl(u), Value: value}
}

func CreatedAtRoute(routeName string, routeValues map[string]string, value any) Result {
	return Located{Code: http.StatusCreated, Route: routeReference(routeName, routeValues), Value: value}
}

func Accepted(uri string, value any) Result {
	if uri == "" && value == nil {
		return accepted
	}
	return Located{Code: http.StatusAccepted, Location: uri, Value: value}
}

func AcceptedUrl(u *url.URL, value any) (Result, error) {
	if u == nil {
		return nil, constructionError("accepted", resultErrors.ErrNilUrl)
	}
	return Located{Code: http.StatusAccepted, Location: normalizeUrl(u), Value: value}, nil
}

func AcceptedAtRoute(routeName string, routeValues map[string]string, value any) Result {
	return Located{Code: http.StatusAccepted, Route: routeReference(routeName, routeValues), Value: value}
}

// Redirect answers 302, 301, 307 or 308 depending on permanent and preserveMethod.
func Redirect(u string, permanent bool, preserveMethod bool) (Result, error) {
	if u == "" {
		return nil, constructionError("redirect", resultErrors.ErrEmptyUrl)
	}
	return Redirection{Url: u, Permanent: permanent, PreserveMethod: preserveMethod}, nil
}

// LocalRedirect is Redirect restricted at execution to URLs that refer to the application itself.
func LocalRedirect(u string, permanent bool, preserveMethod bool) (Result, error) {
	if u == "" {
		return nil, constructionError("local redirect", resultErrors.ErrEmptyUrl)
	}
	return Redirection{Url: u, Permanent: permanent, PreserveMethod: preserveMethod, LocalOnly: true}, nil
}

func RedirectToRoute(
	routeName string,
	routeValues map[string]string,
	permanent bool,
	preserveMethod bool,
	fragment string,
) Result {
	return Redirection{
		Route:          routeReference(routeName, routeValues),
		Fragment:       fragment,
		Permanent:      permanent,
		PreserveMethod: preserveMethod,
	}
}

func applyFileConfig(file FilePayload, config *result_config.Config) FilePayload {
	file.ContentType = config.ContentType
	file.DownloadName = config.DownloadName
	file.LastModified = config.LastModified
	file.ETag = normalizeETag(config.ETag)
	file.EnableRangeProcessing = config.EnableRangeProcessing
	file.Length = config.Length
	return file
}

// Bytes serves data. Its length is known, so ranges can be honored when enabled.
func Bytes(data []byte, options ...result_config.Option) (Result, error) {
	if data == nil {
		return nil, constructionError("bytes", resultErrors.ErrNilValue)
	}

	file := applyFileConfig(FilePayload{Source: FileSourceBytes, Data: slices.Clone(data)}, result_config.New(options...))
	file.Length = int64(len(file.Data))

	return file, nil
}

func File(data []byte, options ...result_config.Option) (Result, error) {
	return Bytes(data, options...)
}

func Stream(reader io.Reader, options ...result_config.Option) (Result, error) {
	if reader == nil {
		return nil, constructionError("stream", resultErrors.ErrNilReader)
	}

	return applyFileConfig(FilePayload{Source: FileSourceReader, Reader: reader}, result_config.New(options...)), nil
}

// PushStream calls push with the response body writer. The length is unknown, so ranges are never honored.
func PushStream(push PushFunction, options ...result_config.Option) (Result, error) {
	if push == nil {
		return nil, constructionError("push stream", resultErrors.ErrNilValue)
	}

	file := applyFileConfig(FilePayload{Source: FileSourcePush, Push: push}, result_config.New(options...))
	file.Length = -1

	return file, nil
}

// PhysicalFile serves a file from the operating system's file system. The path must be absolute.
func PhysicalFile(path string, options ...result_config.Option) (Result, error) {
	if path == "" {
		return nil, constructionError("physical file", resultErrors.ErrEmptyPath)
	}

	return applyFileConfig(FilePayload{Source: FileSourcePhysical, Path: path}, result_config.New(options...)), nil
}

// VirtualFile serves a file from the executor's file system.
func VirtualFile(path string, options ...result_config.Option) (Result, error) {
	if path == "" {
		return nil, constructionError("virtual file", resultErrors.ErrEmptyPath)
	}

	return applyFileConfig(FilePayload{Source: FileSourceVirtual, Path: path}, result_config.New(options...)), nil
}

func Content(text string, options ...result_config.Option) Result {
	config := result_config.New(options...)
	return RawContent{Text: text, ContentType: config.ContentType, Charset: config.Charset, Code: config.StatusCode}
}

func Text(text string, options ...result_config.Option) Result {
	return Content(text, options...)
}

// Utf8Content writes bytes that are already UTF-8 encoded.
func Utf8Content(data []byte, options ...result_config.Option) Result {
	config := result_config.New(options...)

	body := slices.Clone(data)
	if body == nil {
		body = []byte{}
	}

	return RawContent{Bytes: body, ContentType: config.ContentType, Charset: "utf-8", Code: config.StatusCode}
}

func Problem(options ...problem_detail_config.Option) Result {
	return ProblemBody{Detail: problem_detail.New(0, options...)}
}

func ProblemFromDetail(detail *problem_detail.Detail) (Result, error) {
	if detail == nil {
		return nil, constructionError("problem", resultErrors.ErrNilProblemDetail)
	}
	return ProblemBody{Detail: detail.Clone()}, nil
}

// ValidationProblem answers 400 with a problem mapping field names to their error messages.
func ValidationProblem(errs map[string][]string, options ...problem_detail_config.Option) (Result, error) {
	if errs == nil {
		return nil, constructionError("validation problem", resultErrors.ErrNilValue)
	}

	detail := problem_detail.NewValidation(errs, options...).Clone()
	if detail.Status != 0 && detail.Status != http.StatusBadRequest {
		return nil, constructionError(
			"validation problem",
			fmt.Errorf("%w: %d", resultErrors.ErrInvalidValidationStatus, detail.Status),
			detail.Status,
		)
	}

	return ProblemBody{Detail: detail}, nil
}

func authAction(kind AuthKind, properties *authentication.Properties, schemes []string) AuthAction {
	return AuthAction{Kind: kind, Schemes: slices.Clone(schemes), Properties: properties.Clone()}
}

func Challenge(properties *authentication.Properties, schemes ...string) Result {
	return authAction(AuthChallenge, properties, schemes)
}

func Forbid(properties *authentication.Properties, schemes ...string) Result {
	return authAction(AuthForbid, properties, schemes)
}

func SignOut(properties *authentication.Properties, schemes ...string) Result {
	return authAction(AuthSignOut, properties, schemes)
}

func SignIn(principal *authentication.Principal, properties *authentication.Properties, schemes ...string) (Result, error) {
	if principal == nil {
		return nil, constructionError("sign in", resultErrors.ErrNilPrincipal)
	}

	action := authAction(AuthSignIn, properties, schemes)
	action.Principal = principal.Clone()

	return action, nil
}
