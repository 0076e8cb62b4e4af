package prometheus_observer

import (
	"context"
	"fmt"
	"strconv"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "results"

type Observer struct {
	written   *prometheus.CounterVec
	bodyBytes *prometheus.CounterVec
}

// New creates the result metrics and registers them with registerer when it is not nil.
func New(registerer prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		written: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "written_total",
				Help:      "Number of results written, by kind and status code.",
			},
			[]string{"kind", "status"},
		),
		bodyBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "body_bytes_total",
				Help:      "Number of body bytes announced by written results, by kind.",
			},
			[]string{"kind"},
		),
	}

	if registerer != nil {
		for _, collector := range []prometheus.Collector{o.written, o.bodyBytes} {
			if err := registerer.Register(collector); err != nil {
				return nil, motmedelErrors.NewWithTrace(fmt.Errorf("prometheus register: %w", err))
			}
		}
	}

	return o, nil
}

func (o *Observer) Observe(_ context.Context, event *observer.Event) {
	if event == nil {
		return
	}

	kind := string(event.Kind)
	status := ""
	if event.StatusCode != 0 {
		status = strconv.Itoa(event.StatusCode)
	}

	o.written.WithLabelValues(kind, status).Inc()
	if event.Length > 0 {
		o.bodyBytes.WithLabelValues(kind).Add(float64(event.Length))
	}
}

func (o *Observer) Collectors() []prometheus.Collector {
	return []prometheus.Collector{o.written, o.bodyBytes}
}
