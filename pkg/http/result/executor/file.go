package executor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/byte_range"
	"github.com/Motmedel/results_go/pkg/http/content_disposition"
	"github.com/Motmedel/results_go/pkg/http/precondition"
	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"go.uber.org/multierr"
)

const defaultFileContentType = "application/octet-stream"

type openedFile struct {
	reader io.Reader
	closer io.Closer
	// offset is the seeker position at which the content begins.
	offset  int64
	length  int64
	modTime time.Time
}

func fileNotFound(path string, cause error) error {
	return motmedelErrors.NewWithTrace(fmt.Errorf("%w: %w", resultErrors.ErrFileNotFound, cause), path)
}

func openStated(file fs.File, path string) (*openedFile, error) {
	info, err := file.Stat()
	if err != nil {
		closeErr := file.Close()
		return nil, motmedelErrors.NewWithTrace(
			errors.Join(fmt.Errorf("file stat: %w", err), closeErr),
			path,
		)
	}
	if info.IsDir() {
		if err := file.Close(); err != nil {
			return nil, motmedelErrors.NewWithTrace(fmt.Errorf("file close: %w", err), path)
		}
		return nil, fileNotFound(path, fs.ErrNotExist)
	}

	return &openedFile{reader: file, closer: file, length: info.Size(), modTime: info.ModTime()}, nil
}

func (executor *Executor) openPhysical(path string) (*openedFile, error) {
	if !filepath.IsAbs(path) {
		return nil, motmedelErrors.NewWithTrace(resultErrors.ErrRelativePhysicalPath, path)
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileNotFound(path, err)
		}
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("os open: %w", err), path)
	}

	return openStated(file, path)
}

func (executor *Executor) openVirtual(path string) (*openedFile, error) {
	fileSystem := executor.FileSystem
	if fileSystem == nil {
		return nil, motmedelErrors.NewWithTrace(resultErrors.ErrNilFileSystem, path)
	}

	name := strings.TrimLeft(strings.TrimPrefix(path, "~/"), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return nil, fileNotFound(path, fs.ErrInvalid)
	}

	file, err := fileSystem.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileNotFound(path, err)
		}
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("fs open: %w", err), path)
	}

	return openStated(file, path)
}

// openReader measures a seekable reader from its current position unless a length is declared.
func openReader(reader io.Reader, declaredLength int64) (*openedFile, error) {
	if reader == nil {
		return nil, motmedelErrors.NewWithTrace(resultErrors.ErrNilReader)
	}

	opened := &openedFile{reader: reader, length: -1}

	seeker, ok := reader.(io.Seeker)
	if !ok {
		if declaredLength >= 0 {
			opened.length = declaredLength
		}
		return opened, nil
	}

	current, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("seeker seek (current): %w", err))
	}
	opened.offset = current

	if declaredLength >= 0 {
		opened.length = declaredLength
		return opened, nil
	}

	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("seeker seek (end): %w", err))
	}
	if _, err := seeker.Seek(current, io.SeekStart); err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("seeker seek (start): %w", err))
	}
	opened.length = end - current

	return opened, nil
}

func (executor *Executor) openFile(file result.FilePayload) (*openedFile, error) {
	switch file.Source {
	case result.FileSourceBytes:
		return &openedFile{reader: bytes.NewReader(file.Data), length: int64(len(file.Data))}, nil
	case result.FileSourceReader:
		return openReader(file.Reader, file.Length)
	case result.FileSourcePush:
		if file.Push == nil {
			return nil, motmedelErrors.NewWithTrace(resultErrors.ErrNilValue)
		}
		return &openedFile{length: -1}, nil
	case result.FileSourcePhysical:
		return executor.openPhysical(file.Path)
	case result.FileSourceVirtual:
		return executor.openVirtual(file.Path)
	default:
		return nil, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: file source %s", resultErrors.ErrUnsupportedResult, file.Source),
			file.Source,
		)
	}
}

func skip(opened *openedFile, count int64) error {
	if count <= 0 {
		return nil
	}

	if seeker, ok := opened.reader.(io.Seeker); ok {
		if _, err := seeker.Seek(opened.offset+count, io.SeekStart); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("seeker seek: %w", err), count)
		}
		return nil
	}

	if _, err := io.CopyN(io.Discard, opened.reader, count); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("io copy n (discard): %w", err), count)
	}

	return nil
}

func isRangeMethod(method string) bool {
	return method == "" || method == http.MethodGet || method == http.MethodHead
}

func (executor *Executor) executeFile(r *http.Request, w http.ResponseWriter, file result.FilePayload) (err error) {
	ctx := r.Context()

	if file.Source == result.FileSourceReader {
		if closer, ok := file.Reader.(io.Closer); ok {
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					multierr.AppendInto(&err, motmedelErrors.NewWithTrace(fmt.Errorf("reader close: %w", closeErr)))
				}
			}()
		}
	}

	opened, err := executor.openFile(file)
	if err != nil {
		return err
	}
	if opened.closer != nil {
		defer func() {
			if closeErr := opened.closer.Close(); closeErr != nil {
				multierr.AppendInto(&err, motmedelErrors.NewWithTrace(fmt.Errorf("file close: %w", closeErr), file.Path))
			}
		}()
	}

	lastModified := file.LastModified
	if lastModified.IsZero() {
		lastModified = opened.modTime
	}
	validators := precondition.Validators{ETag: file.ETag, LastModified: lastModified}

	header := w.Header()
	if !lastModified.IsZero() {
		header.Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	}
	if file.ETag != "" {
		header.Set("ETag", file.ETag)
	}

	event := &observer.Event{Kind: observer.KindFile, Length: -1}

	if outcome := precondition.Evaluate(r, validators); outcome != precondition.Proceed {
		event.StatusCode = outcome.StatusCode()
		executor.observe(ctx, event)
		w.WriteHeader(event.StatusCode)
		return nil
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultFileContentType
	}
	event.ContentType = contentType

	header.Set("Content-Type", contentType)
	if file.DownloadName != "" {
		header.Set("Content-Disposition", content_disposition.Attachment(file.DownloadName))
	}
	if file.EnableRangeProcessing {
		header.Set("Accept-Ranges", byte_range.Unit)
	}

	statusCode := http.StatusOK
	var start int64
	count := opened.length

	if file.EnableRangeProcessing && opened.length >= 0 && isRangeMethod(r.Method) {
		if rangeHeader := r.Header.Get("Range"); rangeHeader != "" && precondition.IfRangeSatisfied(r, validators) {
			byteRange, err := byte_range.Parse(rangeHeader, opened.length)
			switch {
			case errors.Is(err, byte_range.ErrUnsatisfiableRange):
				header.Del("Content-Type")
				header.Del("Content-Disposition")
				contentRange := byte_range.UnsatisfiedContentRange(opened.length)
				header.Set("Content-Range", contentRange)
				event.StatusCode = http.StatusRequestedRangeNotSatisfiable
				event.Range = contentRange
				executor.observe(ctx, event)
				w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
				return nil
			case err != nil:
				// A malformed header or a multi-range request is served in full.
			case byteRange != nil:
				statusCode = http.StatusPartialContent
				start = byteRange.Start
				count = byteRange.Length()
				event.Range = byteRange.ContentRange(opened.length)
				header.Set("Content-Range", event.Range)
			}
		}
	}

	if count >= 0 {
		header.Set("Content-Length", strconv.FormatInt(count, 10))
	}

	event.StatusCode = statusCode
	event.Length = count
	executor.observe(ctx, event)

	w.WriteHeader(statusCode)

	if r.Method == http.MethodHead || count == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return motmedelErrors.New(fmt.Errorf("context: %w", err))
	}

	if file.Source == result.FileSourcePush {
		if err := file.Push(ctx, w); err != nil {
			return motmedelErrors.New(fmt.Errorf("push: %w", err))
		}
		return nil
	}

	if err := skip(opened, start); err != nil {
		return err
	}

	if count >= 0 {
		if _, err := io.CopyN(w, opened.reader, count); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("io copy n: %w", err), count)
		}
		return nil
	}

	if _, err := io.Copy(w, opened.reader); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("io copy: %w", err))
	}

	return nil
}
