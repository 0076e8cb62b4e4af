package slog_observer

import (
	"context"
	"log/slog"

	"github.com/Motmedel/results_go/pkg/http/result/observer"
)

var messages = map[observer.Kind]string{
	observer.KindStatus:   "Writing a result as a status code.",
	observer.KindJson:     "Writing a value as JSON.",
	observer.KindContent:  "Writing content.",
	observer.KindFile:     "Sending a file.",
	observer.KindRedirect: "Redirecting.",
	observer.KindAuth:     "Delegating to authentication.",
}

type Observer struct {
	Logger *slog.Logger
	Level  slog.Level
}

func New(logger *slog.Logger) *Observer {
	return &Observer{Logger: logger, Level: slog.LevelDebug}
}

func (o *Observer) Observe(ctx context.Context, event *observer.Event) {
	if event == nil {
		return
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(ctx, o.Level) {
		return
	}

	message, ok := messages[event.Kind]
	if !ok {
		message = "Writing a result."
	}

	attrs := []slog.Attr{slog.String("kind", string(event.Kind))}
	if event.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status_code", event.StatusCode))
	}
	if event.ContentType != "" {
		attrs = append(attrs, slog.String("content_type", event.ContentType))
	}
	if event.Location != "" {
		attrs = append(attrs, slog.String("location", event.Location))
	}
	if event.Length >= 0 {
		attrs = append(attrs, slog.Int64("length", event.Length))
	}
	if event.Range != "" {
		attrs = append(attrs, slog.String("range", event.Range))
	}
	if event.ValueType != "" {
		attrs = append(attrs, slog.String("value_type", event.ValueType))
	}
	if event.Action != "" {
		attrs = append(attrs, slog.String("action", event.Action))
	}
	if event.Kind == observer.KindAuth {
		attrs = append(attrs, slog.String("scheme", event.Scheme))
	}

	logger.LogAttrs(ctx, o.Level, message, slog.Any("result", slog.GroupValue(attrs...)))
}
