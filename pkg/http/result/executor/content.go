package executor

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/parsing/headers/content_type"
	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	defaultTextContentType = "text/plain; charset=utf-8"
	defaultCharset         = "utf-8"
)

func isUtf8(charset string) bool {
	return strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}

// withCharset returns contentType with its charset parameter set to charset. A content type that
// cannot be parsed gets the parameter appended.
func withCharset(contentType string, charset string) string {
	parsed, err := content_type.Parse([]byte(strings.TrimSpace(contentType)))
	if err != nil {
		return strings.TrimRight(strings.TrimSpace(contentType), ";") + "; charset=" + charset
	}

	parsed.SetParameter("charset", charset)
	return parsed.String()
}

func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	parsed, err := content_type.Parse([]byte(strings.TrimSpace(contentType)))
	if err != nil {
		return ""
	}
	charset, _ := parsed.Parameter("charset")
	return charset
}

// negotiateContentType applies one precedence for every content result: the explicit charset,
// then a charset in the caller's content type, then the caller's content type with utf-8, then a
// Content-Type already on the response, and finally text/plain in utf-8.
func negotiateContentType(content result.RawContent, existing string) (contentType string, charset string) {
	switch {
	case content.Charset != "":
		base := content.ContentType
		if base == "" {
			base = existing
		}
		if base == "" {
			base = "text/plain"
		}
		return withCharset(base, content.Charset), content.Charset
	case content.ContentType != "":
		if charset := charsetOf(content.ContentType); charset != "" {
			return content.ContentType, charset
		}
		return withCharset(content.ContentType, defaultCharset), defaultCharset
	case existing != "":
		if charset := charsetOf(existing); charset != "" {
			return existing, charset
		}
		return existing, defaultCharset
	default:
		return defaultTextContentType, defaultCharset
	}
}

func encodeText(text string, charset string) ([]byte, error) {
	if isUtf8(charset) {
		return []byte(text), nil
	}

	encoding, err := htmlindex.Get(charset)
	if err != nil {
		return nil, motmedelErrors.New(
			fmt.Errorf("%w: htmlindex get: %w", resultErrors.ErrUnknownCharset, err),
			charset,
		)
	}

	data, err := encoding.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("encoder bytes: %w", err), charset)
	}

	return data, nil
}

func (executor *Executor) executeContent(r *http.Request, w http.ResponseWriter, content result.RawContent) error {
	ctx := r.Context()

	header := w.Header()
	contentType, charset := negotiateContentType(content, header.Get("Content-Type"))

	body := content.Bytes
	if body == nil {
		var err error
		body, err = encodeText(content.Text, charset)
		if err != nil {
			return err
		}
	}

	code := content.Code
	if code == 0 {
		code = http.StatusOK
	}

	executor.observe(
		ctx,
		&observer.Event{
			Kind:        observer.KindContent,
			StatusCode:  code,
			ContentType: contentType,
			Length:      int64(len(body)),
		},
	)

	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)

	if len(body) == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return motmedelErrors.New(fmt.Errorf("context: %w", err))
	}

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("response writer write: %w", err)
	}

	return nil
}
