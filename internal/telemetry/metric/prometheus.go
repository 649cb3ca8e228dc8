// Package metric provides Prometheus metrics for the cluster membership
// coordination core.
//
// It exposes metrics in Prometheus format for monitoring the Cluster
// Manager's session state, view size, and command outcomes.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every instrument this process exposes, bound to its own
// prometheus.Registry rather than the global default.
type Registry struct {
	reg *prometheus.Registry

	SessionConnected prometheus.Gauge
	ViewNodes        prometheus.Gauge
	ViewAvailable    prometheus.Gauge
	Refreshes        prometheus.Counter
	CommandsTotal    *prometheus.CounterVec
}

// NewRegistry builds and registers every instrument.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		SessionConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clusterkeeper",
			Name:      "session_connected",
			Help:      "1 if the Cluster Manager currently holds a Connected coordination-store session, else 0.",
		}),
		ViewNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clusterkeeper",
			Name:      "view_nodes",
			Help:      "Number of nodes in the last published cluster view.",
		}),
		ViewAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clusterkeeper",
			Name:      "view_available_nodes",
			Help:      "Number of nodes marked available in the last published cluster view.",
		}),
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clusterkeeper",
			Name:      "refreshes_total",
			Help:      "Total number of successful view refreshes from the coordination store.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clusterkeeper",
			Name:      "commands_total",
			Help:      "Mutation commands processed by the Cluster Manager, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(
		r.SessionConnected,
		r.ViewNodes,
		r.ViewAvailable,
		r.Refreshes,
		r.CommandsTotal,
	)

	return r
}

// Handler returns the HTTP handler serving these metrics in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveView records a view's node/availability counts.
func (r *Registry) ObserveView(total, available int) {
	r.ViewNodes.Set(float64(total))
	r.ViewAvailable.Set(float64(available))
}

// ObserveCommand increments the command counter for kind/outcome, where
// outcome is "success" or "error".
func (r *Registry) ObserveCommand(kind, outcome string) {
	r.CommandsTotal.WithLabelValues(kind, outcome).Inc()
}
