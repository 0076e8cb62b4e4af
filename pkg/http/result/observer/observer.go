package observer

import (
	"context"
)

type Kind string

const (
	KindStatus   Kind = "status"
	KindJson     Kind = "json"
	KindContent  Kind = "content"
	KindFile     Kind = "file"
	KindRedirect Kind = "redirect"
	KindAuth     Kind = "auth"
)

// Event describes a write performed while executing a result.
type Event struct {
	Kind        Kind
	StatusCode  int
	ContentType string
	Location    string
	// Length is the number of body bytes to be written, or -1 when unknown.
	Length    int64
	Range     string
	ValueType string
	Action    string
	Scheme    string
}

type Observer interface {
	Observe(ctx context.Context, event *Event)
}

type ObserverFunction func(ctx context.Context, event *Event)

func (f ObserverFunction) Observe(ctx context.Context, event *Event) {
	f(ctx, event)
}

type Nop struct{}

func (Nop) Observe(context.Context, *Event) {}

// Multi forwards every event to each of its observers in order.
type Multi []Observer

func (multi Multi) Observe(ctx context.Context, event *Event) {
	for _, observer := range multi {
		if observer != nil {
			observer.Observe(ctx, event)
		}
	}
}
