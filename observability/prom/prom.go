package prom

import (
	"net/http"
	"time"

	"github.com/blockberries/cfdate/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a fresh Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Handler returns a Prometheus HTTP handler bound to the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ConvertObserver exports conversion metrics to Prometheus.
type ConvertObserver struct {
	callsTotal    *prometheus.CounterVec
	callLatency   *prometheus.HistogramVec
	elementsTotal *prometheus.CounterVec
	maskedTotal   *prometheus.CounterVec
}

// Compile-time interface check.
var _ observability.ConvertObserver = (*ConvertObserver)(nil)

// NewConvertObserver registers conversion metrics on the registry.
func NewConvertObserver(reg *prometheus.Registry) *ConvertObserver {
	o := &ConvertObserver{
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cfdate_calls_total",
			Help: "Server operations by op, result and error kind.",
		}, []string{"op", "result", "kind"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cfdate_call_latency_seconds",
			Help:    "Server operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		elementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cfdate_elements_total",
			Help: "Container elements received for conversion, by calendar.",
		}, []string{"calendar"}),
		maskedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cfdate_masked_elements_total",
			Help: "Masked container elements passed through as null, by calendar.",
		}, []string{"calendar"}),
	}
	reg.MustRegister(
		o.callsTotal,
		o.callLatency,
		o.elementsTotal,
		o.maskedTotal,
	)
	return o
}

func (o *ConvertObserver) Call(op observability.Op, result observability.Result, kind string, d time.Duration) {
	o.callsTotal.WithLabelValues(string(op), string(result), kind).Inc()
	o.callLatency.WithLabelValues(string(op)).Observe(d.Seconds())
}

func (o *ConvertObserver) Elements(calendar string, total, masked int) {
	o.elementsTotal.WithLabelValues(calendar).Add(float64(total))
	o.maskedTotal.WithLabelValues(calendar).Add(float64(masked))
}
