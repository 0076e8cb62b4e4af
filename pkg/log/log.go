package log

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	motmedelContext "github.com/Motmedel/results_go/pkg/context"
	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
)

type ContextExtractor interface {
	Handle(context.Context, *slog.Record) error
}

type ContextExtractorFunction func(context.Context, *slog.Record) error

func (cef ContextExtractorFunction) Handle(ctx context.Context, record *slog.Record) error {
	return cef(ctx, record)
}

type ContextHandler struct {
	Next       slog.Handler
	Extractors []ContextExtractor
}

func (contextHandler *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return contextHandler.Next.Enabled(ctx, level)
}

func (contextHandler *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, extractor := range contextHandler.Extractors {
		if extractor != nil {
			if err := extractor.Handle(ctx, &record); err != nil {
				return fmt.Errorf("extractor handle: %w", err)
			}
		}
	}
	return contextHandler.Next.Handle(ctx, record)
}

func (contextHandler *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Next: contextHandler.Next.WithAttrs(attrs), Extractors: contextHandler.Extractors}
}

func (contextHandler *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Next: contextHandler.Next.WithGroup(name), Extractors: contextHandler.Extractors}
}

type ErrorContextExtractor struct {
	SkipCause      bool
	SkipInput      bool
	SkipStackTrace bool
}

func makeTextualRepresentation(value any) string {
	switch typedValue := value.(type) {
	case string:
		return typedValue
	case []byte:
		return string(typedValue)
	case encoding.TextMarshaler:
		if data, err := typedValue.MarshalText(); err == nil {
			return string(data)
		}
	}
	return fmt.Sprintf("%#v", value)
}

func (extractor *ErrorContextExtractor) MakeErrorAttrs(err error) []any {
	if err == nil {
		return nil
	}

	errType := reflect.TypeOf(err).String()

	var attrs []any

	switch err.(type) {
	case *motmedelErrors.Error:
	default:
		switch errType {
		case "*errors.errorString", "*fmt.wrapError":
		default:
			attrs = append(attrs, slog.String("type", errType))
		}
	}

	if inputError, ok := err.(motmedelErrors.InputErrorI); ok && !extractor.SkipInput {
		if input := inputError.GetInput(); input != nil {
			var typeName string
			if t := reflect.TypeOf(input); t != nil {
				typeName = t.String()
			}

			attrs = append(
				attrs,
				slog.Group(
					"input",
					slog.String("value", makeTextualRepresentation(input)),
					slog.String("type", typeName),
				),
			)
		}
	}

	if !extractor.SkipCause {
		wrappedErrors := motmedelErrors.CollectWrappedErrors(err)
		var lastWrappedErrorAttrs []any

		for i := len(wrappedErrors) - 1; i >= 0; i-- {
			wrappedError := wrappedErrors[i]
			if wrappedError == nil {
				continue
			}

			switch reflect.TypeOf(wrappedError).String() {
			case "*errors.joinError", "*fmt.wrapError", "*errors.Error":
				continue
			}

			wrappedErrorAttrs := extractor.MakeErrorAttrs(wrappedError)
			if lastWrappedErrorAttrs != nil {
				wrappedErrorAttrs = append(wrappedErrorAttrs, slog.Group("cause", lastWrappedErrorAttrs...))
			}

			lastWrappedErrorAttrs = wrappedErrorAttrs
		}

		if lastWrappedErrorAttrs != nil {
			attrs = append(attrs, slog.Group("cause", lastWrappedErrorAttrs...))
		}
	}

	if codeError, ok := err.(motmedelErrors.CodeErrorI); ok {
		if code := codeError.GetCode(); code != "" {
			attrs = append(attrs, slog.String("code", code))
		}
	}

	if idError, ok := err.(motmedelErrors.IdErrorI); ok {
		if id := idError.GetId(); id != "" {
			attrs = append(attrs, slog.String("id", id))
		}
	}

	if stackTraceError, ok := err.(motmedelErrors.StackTraceErrorI); ok && !extractor.SkipStackTrace {
		if stackTrace := stackTraceError.GetStackTrace(); stackTrace != "" {
			attrs = append(attrs, slog.String("stack_trace", stackTrace))
		}
	}

	if message := err.Error(); message != "" {
		attrs = append(attrs, slog.String("message", message))
	}

	return attrs
}

func (extractor *ErrorContextExtractor) Handle(ctx context.Context, record *slog.Record) error {
	if record == nil {
		return nil
	}

	if logErr := motmedelContext.GetError(ctx); logErr != nil {
		record.Add(slog.Group("error", extractor.MakeErrorAttrs(logErr)...))
	}

	return nil
}

// New makes a logger that renders errors attached with context.WithError.
func New(handler slog.Handler, extractors ...ContextExtractor) *slog.Logger {
	if len(extractors) == 0 {
		extractors = []ContextExtractor{&ErrorContextExtractor{}}
	}
	return slog.New(&ContextHandler{Next: handler, Extractors: extractors})
}

func LogError(ctx context.Context, message string, err error, logger *slog.Logger, args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger.ErrorContext(motmedelContext.WithError(ctx, err), message, args...)
}

func LogWarning(ctx context.Context, message string, err error, logger *slog.Logger, args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger.WarnContext(motmedelContext.WithError(ctx, err), message, args...)
}

func LogFatalWithExitCode(message string, err error, logger *slog.Logger, exitCode int, args ...any) {
	LogError(context.Background(), message, err, logger, args...)
	os.Exit(exitCode)
}

func LogFatalWithExitingMessage(message string, err error, logger *slog.Logger, args ...any) {
	LogFatalWithExitCode(fmt.Sprintf("%s Exiting.", message), err, logger, 1, args...)
}
