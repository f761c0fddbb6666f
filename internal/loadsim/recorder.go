package loadsim

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricNamespace = "ringsim"
	hostLabel       = "host"
)

// Recorder counts routing outcomes per host. Counters live in a private
// registry, so independent recorders never share state.
type Recorder struct {
	registry *prometheus.Registry
	routes   *prometheus.CounterVec
	unrouted prometheus.Counter
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	routes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricNamespace,
		Name:      "routes_total",
		Help:      "Keys routed, by owning host.",
	}, []string{hostLabel})
	unrouted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricNamespace,
		Name:      "unrouted_total",
		Help:      "Keys routed while no host was registered.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(routes, unrouted)

	return &Recorder{
		registry: registry,
		routes:   routes,
		unrouted: unrouted,
	}
}

// Observe records one Route result. It is safe for concurrent use.
func (r *Recorder) Observe(host string, ok bool) {
	if !ok {
		r.unrouted.Inc()
		return
	}
	r.routes.WithLabelValues(host).Inc()
}

// Registry exposes the recorder's metrics for gathering or export.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Histogram gathers the counters recorded so far.
func (r *Recorder) Histogram() (*Histogram, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather route counters: %w", err)
	}

	h := &Histogram{Counts: make(map[string]int)}
	for _, mf := range families {
		switch mf.GetName() {
		case metricNamespace + "_routes_total":
			for _, m := range mf.GetMetric() {
				host := ""
				for _, lp := range m.GetLabel() {
					if lp.GetName() == hostLabel {
						host = lp.GetValue()
					}
				}
				n := int(m.GetCounter().GetValue())
				h.Counts[host] += n
				h.Total += n
			}
		case metricNamespace + "_unrouted_total":
			for _, m := range mf.GetMetric() {
				n := int(m.GetCounter().GetValue())
				h.Unrouted += n
				h.Total += n
			}
		}
	}
	return h, nil
}
