package zap_observer

import (
	"context"

	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Observer struct {
	Logger *zap.Logger
	Level  zapcore.Level
}

func New(logger *zap.Logger) *Observer {
	return &Observer{Logger: logger, Level: zapcore.DebugLevel}
}

func (o *Observer) Observe(_ context.Context, event *observer.Event) {
	if event == nil || o.Logger == nil {
		return
	}

	checkedEntry := o.Logger.Check(o.Level, "result written")
	if checkedEntry == nil {
		return
	}

	fields := []zap.Field{zap.String("kind", string(event.Kind))}
	if event.StatusCode != 0 {
		fields = append(fields, zap.Int("status_code", event.StatusCode))
	}
	if event.ContentType != "" {
		fields = append(fields, zap.String("content_type", event.ContentType))
	}
	if event.Location != "" {
		fields = append(fields, zap.String("location", event.Location))
	}
	if event.Length >= 0 {
		fields = append(fields, zap.Int64("length", event.Length))
	}
	if event.Range != "" {
		fields = append(fields, zap.String("range", event.Range))
	}
	if event.ValueType != "" {
		fields = append(fields, zap.String("value_type", event.ValueType))
	}
	if event.Action != "" {
		fields = append(fields, zap.String("action", event.Action), zap.String("scheme", event.Scheme))
	}

	checkedEntry.Write(fields...)
}
