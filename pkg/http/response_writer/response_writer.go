package response_writer

import (
	"fmt"
	"net/http"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
)

// ResponseWriter records what has been written through it and drops bodies of HEAD responses.
type ResponseWriter struct {
	http.ResponseWriter
	IsHeadRequest     bool
	WriteHeaderCalled bool

	WrittenStatusCode int
	WrittenBytes      int64
}

// New wraps w unless it already is a *ResponseWriter, in which case it is returned as is.
func New(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	if responseWriter, ok := w.(*ResponseWriter); ok {
		return responseWriter
	}

	return &ResponseWriter{
		ResponseWriter: w,
		IsHeadRequest:  r != nil && r.Method == http.MethodHead,
	}
}

func (responseWriter *ResponseWriter) WriteHeader(statusCode int) {
	if responseWriter.WriteHeaderCalled {
		return
	}
	responseWriter.WriteHeaderCalled = true
	responseWriter.WrittenStatusCode = statusCode
	responseWriter.ResponseWriter.WriteHeader(statusCode)
}

func (responseWriter *ResponseWriter) Write(data []byte) (int, error) {
	if !responseWriter.WriteHeaderCalled {
		responseWriter.WriteHeader(http.StatusOK)
	}

	if responseWriter.IsHeadRequest || len(data) == 0 {
		return len(data), nil
	}

	n, err := responseWriter.ResponseWriter.Write(data)
	responseWriter.WrittenBytes += int64(n)
	if err != nil {
		return n, motmedelErrors.NewWithTrace(fmt.Errorf("http response writer write: %w", err))
	}

	return n, nil
}

func (responseWriter *ResponseWriter) Flush() {
	if flusher, ok := responseWriter.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (responseWriter *ResponseWriter) Unwrap() http.ResponseWriter {
	return responseWriter.ResponseWriter
}
