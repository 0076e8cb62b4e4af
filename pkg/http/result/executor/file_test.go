package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/result_config"
	motmedelTestingCmp "github.com/Motmedel/results_go/pkg/testing/cmp"
)

var (
	hundredBytes = func() []byte {
		data := make([]byte, 100)
		for i := range data {
			data[i] = byte(i)
		}
		return data
	}()
	modTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
)

type closingReader struct {
	*strings.Reader
	closed int
}

func (reader *closingReader) Close() error {
	reader.closed++
	return nil
}

type failingCloser struct {
	io.Reader
}

func (failingCloser) Close() error {
	return errors.New("close failed")
}

type expectedResponse struct {
	code    int
	headers map[string]string
	body    []byte
}

func checkResponse(t *testing.T, recorder *httptest.ResponseRecorder, expected expectedResponse) {
	t.Helper()

	motmedelTestingCmp.Compare(t, "status code", expected.code, recorder.Code)
	for name, value := range expected.headers {
		motmedelTestingCmp.Compare(t, "header "+name, value, recorder.Header().Get(name))
	}
	motmedelTestingCmp.Compare(t, "body", string(expected.body), recorder.Body.String())
}

func TestExecute_FileRanges(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		method   string
		headers  map[string]string
		options  []result_config.Option
		expected expectedResponse
	}{
		{
			name: "full",
			expected: expectedResponse{
				code: http.StatusOK,
				headers: map[string]string{
					"Content-Length": "100",
					"Content-Type":   "application/octet-stream",
					"Accept-Ranges":  "",
					"Content-Range":  "",
				},
				body: hundredBytes,
			},
		},
		{
			name:    "range ignored when disabled",
			headers: map[string]string{"Range": "bytes=10-19"},
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"Content-Length": "100", "Content-Range": ""},
				body:    hundredBytes,
			},
		},
		{
			name:    "partial",
			headers: map[string]string{"Range": "bytes=10-19"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code: http.StatusPartialContent,
				headers: map[string]string{
					"Content-Length": "10",
					"Content-Range":  "bytes 10-19/100",
					"Accept-Ranges":  "bytes",
				},
				body: hundredBytes[10:20],
			},
		},
		{
			name:    "suffix",
			headers: map[string]string{"Range": "bytes=-5"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusPartialContent,
				headers: map[string]string{"Content-Length": "5", "Content-Range": "bytes 95-99/100"},
				body:    hundredBytes[95:],
			},
		},
		{
			name:    "clamped",
			headers: map[string]string{"Range": "bytes=90-500"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusPartialContent,
				headers: map[string]string{"Content-Length": "10", "Content-Range": "bytes 90-99/100"},
				body:    hundredBytes[90:],
			},
		},
		{
			name:    "unsatisfiable",
			headers: map[string]string{"Range": "bytes=200-300"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusRequestedRangeNotSatisfiable,
				headers: map[string]string{"Content-Range": "bytes */100", "Content-Length": ""},
			},
		},
		{
			name:    "malformed",
			headers: map[string]string{"Range": "bytes=abc"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"Content-Length": "100", "Content-Range": ""},
				body:    hundredBytes,
			},
		},
		{
			name:    "multiple",
			headers: map[string]string{"Range": "bytes=0-1,5-6"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"Content-Length": "100"},
				body:    hundredBytes,
			},
		},
		{
			name:    "if-range mismatch",
			headers: map[string]string{"Range": "bytes=10-19", "If-Range": `"other"`},
			options: []result_config.Option{result_config.WithRangeProcessing(true), result_config.WithETag("v1")},
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"Content-Length": "100", "ETag": `"v1"`},
				body:    hundredBytes,
			},
		},
		{
			name:    "if-range match",
			headers: map[string]string{"Range": "bytes=10-19", "If-Range": `"v1"`},
			options: []result_config.Option{result_config.WithRangeProcessing(true), result_config.WithETag("v1")},
			expected: expectedResponse{
				code:    http.StatusPartialContent,
				headers: map[string]string{"Content-Range": "bytes 10-19/100"},
				body:    hundredBytes[10:20],
			},
		},
		{
			name:    "range on post",
			method:  http.MethodPost,
			headers: map[string]string{"Range": "bytes=10-19"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"Content-Length": "100"},
				body:    hundredBytes,
			},
		},
		{
			name:    "head",
			method:  http.MethodHead,
			options: []result_config.Option{result_config.WithContentType("image/png")},
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"Content-Length": "100", "Content-Type": "image/png"},
			},
		},
		{
			name:    "head partial",
			method:  http.MethodHead,
			headers: map[string]string{"Range": "bytes=10-19"},
			options: []result_config.Option{result_config.WithRangeProcessing(true)},
			expected: expectedResponse{
				code:    http.StatusPartialContent,
				headers: map[string]string{"Content-Length": "10", "Content-Range": "bytes 10-19/100"},
			},
		},
		{
			name:    "download name",
			options: []result_config.Option{result_config.WithDownloadName("report.pdf")},
			expected: expectedResponse{
				code: http.StatusOK,
				headers: map[string]string{
					"Content-Disposition": "attachment; filename=report.pdf; filename*=UTF-8''report.pdf",
				},
				body: hundredBytes,
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res, err := result.Bytes(hundredBytes, testCase.options...)
			if err != nil {
				t.Fatalf("bytes: %v", err)
			}

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}
			request := httptest.NewRequest(method, "/file", nil)
			for name, value := range testCase.headers {
				request.Header.Set(name, value)
			}

			recorder := httptest.NewRecorder()
			err = (&Executor{}).Execute(recorder, request, res)
			motmedelTestingCmp.CompareErr(t, err, nil)

			checkResponse(t, recorder, testCase.expected)
		})
	}
}

func TestExecute_FilePreconditions(t *testing.T) {
	t.Parallel()

	lastModified := modTime.Format(http.TimeFormat)

	testCases := []struct {
		name     string
		method   string
		headers  map[string]string
		expected expectedResponse
	}{
		{
			name: "validators",
			expected: expectedResponse{
				code:    http.StatusOK,
				headers: map[string]string{"ETag": `"v1"`, "Last-Modified": lastModified},
				body:    []byte("content"),
			},
		},
		{
			name:     "if-none-match",
			headers:  map[string]string{"If-None-Match": `W/"v1"`},
			expected: expectedResponse{code: http.StatusNotModified, headers: map[string]string{"Content-Length": ""}},
		},
		{
			name:     "if-none-match wildcard",
			headers:  map[string]string{"If-None-Match": "*"},
			expected: expectedResponse{code: http.StatusNotModified},
		},
		{
			name:     "if-none-match on post",
			method:   http.MethodPost,
			headers:  map[string]string{"If-None-Match": `"v1"`},
			expected: expectedResponse{code: http.StatusPreconditionFailed},
		},
		{
			name:     "if-match mismatch",
			headers:  map[string]string{"If-Match": `"v2"`},
			expected: expectedResponse{code: http.StatusPreconditionFailed},
		},
		{
			name:     "if-match weak",
			headers:  map[string]string{"If-Match": `W/"v1"`},
			expected: expectedResponse{code: http.StatusPreconditionFailed},
		},
		{
			name:     "if-match",
			headers:  map[string]string{"If-Match": `"v0", "v1"`},
			expected: expectedResponse{code: http.StatusOK, body: []byte("content")},
		},
		{
			name:     "if-modified-since not modified",
			headers:  map[string]string{"If-Modified-Since": modTime.Add(time.Hour).Format(http.TimeFormat)},
			expected: expectedResponse{code: http.StatusNotModified},
		},
		{
			name:     "if-modified-since modified",
			headers:  map[string]string{"If-Modified-Since": modTime.Add(-time.Hour).Format(http.TimeFormat)},
			expected: expectedResponse{code: http.StatusOK, body: []byte("content")},
		},
		{
			name:     "if-unmodified-since",
			headers:  map[string]string{"If-Unmodified-Since": modTime.Add(-time.Hour).Format(http.TimeFormat)},
			expected: expectedResponse{code: http.StatusPreconditionFailed},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			reader := &closingReader{Reader: strings.NewReader("content")}
			res, err := result.Stream(
				reader,
				result_config.WithETag("v1"),
				result_config.WithLastModified(modTime),
			)
			if err != nil {
				t.Fatalf("stream: %v", err)
			}

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}
			request := httptest.NewRequest(method, "/file", nil)
			for name, value := range testCase.headers {
				request.Header.Set(name, value)
			}

			recorder := httptest.NewRecorder()
			err = (&Executor{}).Execute(recorder, request, res)
			motmedelTestingCmp.CompareErr(t, err, nil)

			checkResponse(t, recorder, testCase.expected)
			motmedelTestingCmp.Compare(t, "closed", 1, reader.closed)
		})
	}
}

func TestExecute_Stream(t *testing.T) {
	t.Parallel()

	t.Run("seekable", func(t *testing.T) {
		t.Parallel()

		reader := &closingReader{Reader: strings.NewReader("xxabcdefgh")}
		if _, err := reader.Seek(2, io.SeekStart); err != nil {
			t.Fatalf("seek: %v", err)
		}

		res, err := result.Stream(reader, result_config.WithRangeProcessing(true))
		if err != nil {
			t.Fatalf("stream: %v", err)
		}

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Range", "bytes=2-4")

		recorder := httptest.NewRecorder()
		motmedelTestingCmp.CompareErr(t, (&Executor{}).Execute(recorder, request, res), nil)

		checkResponse(t, recorder, expectedResponse{
			code:    http.StatusPartialContent,
			headers: map[string]string{"Content-Range": "bytes 2-4/8", "Content-Length": "3"},
			body:    []byte("cde"),
		})
		motmedelTestingCmp.Compare(t, "closed", 1, reader.closed)
	})

	t.Run("unknown length", func(t *testing.T) {
		t.Parallel()

		res, err := result.Stream(io.MultiReader(strings.NewReader("abc")), result_config.WithRangeProcessing(true))
		if err != nil {
			t.Fatalf("stream: %v", err)
		}

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Range", "bytes=0-0")

		recorder := httptest.NewRecorder()
		motmedelTestingCmp.CompareErr(t, (&Executor{}).Execute(recorder, request, res), nil)

		checkResponse(t, recorder, expectedResponse{
			code:    http.StatusOK,
			headers: map[string]string{"Content-Length": "", "Content-Range": ""},
			body:    []byte("abc"),
		})
	})

	t.Run("declared length", func(t *testing.T) {
		t.Parallel()

		res, err := result.Stream(
			io.MultiReader(strings.NewReader("abcdefgh")),
			result_config.WithLength(8),
			result_config.WithRangeProcessing(true),
		)
		if err != nil {
			t.Fatalf("stream: %v", err)
		}

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Range", "bytes=2-4")

		recorder := httptest.NewRecorder()
		motmedelTestingCmp.CompareErr(t, (&Executor{}).Execute(recorder, request, res), nil)

		checkResponse(t, recorder, expectedResponse{
			code:    http.StatusPartialContent,
			headers: map[string]string{"Content-Range": "bytes 2-4/8"},
			body:    []byte("cde"),
		})
	})

	t.Run("close error", func(t *testing.T) {
		t.Parallel()

		res, err := result.Stream(failingCloser{Reader: strings.NewReader("abc")})
		if err != nil {
			t.Fatalf("stream: %v", err)
		}

		recorder := httptest.NewRecorder()
		err = (&Executor{}).Execute(recorder, httptest.NewRequest(http.MethodGet, "/", nil), res)
		if err == nil || !strings.Contains(err.Error(), "close failed") {
			t.Fatalf("expected the close error, got %v", err)
		}
		motmedelTestingCmp.Compare(t, "body", "abc", recorder.Body.String())
	})
}

func TestExecute_PushStream(t *testing.T) {
	t.Parallel()

	pushErr := errors.New("push failed")

	testCases := []struct {
		name         string
		method       string
		push         result.PushFunction
		expectedBody string
		wantErr      error
	}{
		{
			name: "push",
			push: func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "pushed")
				return err
			},
			expectedBody: "pushed",
		},
		{
			name:   "head",
			method: http.MethodHead,
			push: func(ctx context.Context, w io.Writer) error {
				t.Errorf("push called for a head request")
				return nil
			},
		},
		{
			name: "error",
			push: func(ctx context.Context, w io.Writer) error {
				return pushErr
			},
			wantErr: pushErr,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res, err := result.PushStream(testCase.push, result_config.WithContentType("text/event-stream"))
			if err != nil {
				t.Fatalf("push stream: %v", err)
			}

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}

			recorder := httptest.NewRecorder()
			err = (&Executor{}).Execute(recorder, httptest.NewRequest(method, "/", nil), res)
			motmedelTestingCmp.CompareErrIs(t, err, testCase.wantErr)

			motmedelTestingCmp.Compare(t, "status code", http.StatusOK, recorder.Code)
			motmedelTestingCmp.Compare(t, "content type", "text/event-stream", recorder.Header().Get("Content-Type"))
			motmedelTestingCmp.Compare(t, "content length", "", recorder.Header().Get("Content-Length"))
			motmedelTestingCmp.Compare(t, "body", testCase.expectedBody, recorder.Body.String())
		})
	}
}

func TestExecute_PhysicalFile(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	path := filepath.Join(directory, "a.txt")
	if err := os.WriteFile(path, []byte("physical"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	testCases := []struct {
		name     string
		path     string
		expected expectedResponse
		wantErr  error
	}{
		{
			name: "absolute",
			path: path,
			expected: expectedResponse{
				code: http.StatusOK,
				headers: map[string]string{
					"Content-Length": "8",
					"Last-Modified":  modTime.Format(http.TimeFormat),
				},
				body: []byte("physical"),
			},
		},
		{name: "relative", path: "a.txt", wantErr: resultErrors.ErrRelativePhysicalPath},
		{name: "missing", path: filepath.Join(directory, "missing.txt"), wantErr: resultErrors.ErrFileNotFound},
		{name: "directory", path: directory, wantErr: resultErrors.ErrFileNotFound},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res, err := result.PhysicalFile(testCase.path)
			if err != nil {
				t.Fatalf("physical file: %v", err)
			}

			recorder := httptest.NewRecorder()
			err = (&Executor{}).Execute(recorder, httptest.NewRequest(http.MethodGet, "/", nil), res)
			motmedelTestingCmp.CompareErrIs(t, err, testCase.wantErr)
			if testCase.wantErr != nil {
				if errors.Is(testCase.wantErr, resultErrors.ErrFileNotFound) && !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("expected the error to match fs.ErrNotExist, got %v", err)
				}
				return
			}

			checkResponse(t, recorder, testCase.expected)
		})
	}
}

func TestExecute_VirtualFile(t *testing.T) {
	t.Parallel()

	fileSystem := fstest.MapFS{
		"static/a.txt": &fstest.MapFile{Data: []byte("virtual"), ModTime: modTime},
	}

	testCases := []struct {
		name       string
		path       string
		fileSystem fs.FS
		wantErr    error
	}{
		{name: "application relative", path: "~/static/a.txt", fileSystem: fileSystem},
		{name: "rooted", path: "/static/a.txt", fileSystem: fileSystem},
		{name: "plain", path: "static/a.txt", fileSystem: fileSystem},
		{name: "missing", path: "~/static/b.txt", fileSystem: fileSystem, wantErr: resultErrors.ErrFileNotFound},
		{name: "escaping", path: "~/../a.txt", fileSystem: fileSystem, wantErr: resultErrors.ErrFileNotFound},
		{name: "directory", path: "~/static", fileSystem: fileSystem, wantErr: resultErrors.ErrFileNotFound},
		{name: "no file system", path: "~/static/a.txt", wantErr: resultErrors.ErrNilFileSystem},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res, err := result.VirtualFile(testCase.path, result_config.WithRangeProcessing(true))
			if err != nil {
				t.Fatalf("virtual file: %v", err)
			}

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Range", "bytes=1-3")

			recorder := httptest.NewRecorder()
			err = (&Executor{FileSystem: testCase.fileSystem}).Execute(recorder, request, res)
			motmedelTestingCmp.CompareErrIs(t, err, testCase.wantErr)
			if testCase.wantErr != nil {
				motmedelTestingCmp.Compare(t, "body length", 0, recorder.Body.Len())
				return
			}

			checkResponse(t, recorder, expectedResponse{
				code: http.StatusPartialContent,
				headers: map[string]string{
					"Content-Range": "bytes 1-3/7",
					"Last-Modified": modTime.Format(http.TimeFormat),
				},
				body: []byte("irt"),
			})
		})
	}
}

func TestExecute_FileBytesAreCopied(t *testing.T) {
	t.Parallel()

	data := []byte("original")
	res, err := result.File(data)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	copy(data, "modified")

	recorder := httptest.NewRecorder()
	motmedelTestingCmp.CompareErr(t, (&Executor{}).Execute(recorder, httptest.NewRequest(http.MethodGet, "/", nil), res), nil)

	if !bytes.Equal(recorder.Body.Bytes(), []byte("original")) {
		t.Errorf("expected the original bytes, got %q", recorder.Body.String())
	}
}
