package zap_observer

import (
	"context"
	"testing"

	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapObserver "go.uber.org/zap/zaptest/observer"
)

func TestObserve(t *testing.T) {
	t.Parallel()

	core, logs := zapObserver.New(zapcore.DebugLevel)
	New(zap.New(core)).Observe(
		context.Background(),
		&observer.Event{Kind: observer.KindRedirect, StatusCode: 302, Location: "/next", Length: -1},
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["kind"] != "redirect" || fields["status_code"] != int64(302) || fields["location"] != "/next" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if _, ok := fields["length"]; ok {
		t.Errorf("unexpected length field")
	}
}

func TestObserveBelowLevel(t *testing.T) {
	t.Parallel()

	core, logs := zapObserver.New(zapcore.InfoLevel)
	New(zap.New(core)).Observe(context.Background(), &observer.Event{Kind: observer.KindStatus, StatusCode: 200})

	if logs.Len() != 0 {
		t.Errorf("expected no entries, got %d", logs.Len())
	}
}
