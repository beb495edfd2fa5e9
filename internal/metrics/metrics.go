// Package metrics exports collection activity as Prometheus metrics. An
// Observer plugs into every collection of a store through
// ludog.WithObserver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer records store.Observer callbacks in Prometheus collectors.
type Observer struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	waits    *prometheus.HistogramVec
}

// New returns an Observer registered on a fresh registry.
func New() *Observer {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ossuary",
			Name:      "collection_operations_total",
			Help:      "Collection operations by collection and operation.",
		}, []string{"collection", "op"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ossuary",
			Name:      "collection_operation_seconds",
			Help:      "Collection operation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
		}, []string{"collection", "op"}),
		waits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ossuary",
			Name:      "collection_lock_wait_seconds",
			Help:      "Time spent acquiring a collection lock.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
		}, []string{"collection"}),
	}
	o.registry.MustRegister(o.ops, o.latency, o.waits)
	return o
}

// Registry returns the registry holding the observer's collectors.
func (o *Observer) Registry() *prometheus.Registry { return o.registry }

// ObserveOp counts one operation and records its latency.
func (o *Observer) ObserveOp(collection, op string, d time.Duration) {
	o.ops.WithLabelValues(collection, op).Inc()
	o.latency.WithLabelValues(collection, op).Observe(d.Seconds())
}

// ObserveWait records one lock acquisition.
func (o *Observer) ObserveWait(collection string, d time.Duration) {
	o.waits.WithLabelValues(collection).Observe(d.Seconds())
}

// OpCount is one row of Summary.
type OpCount struct {
	Collection string  `json:"collection"`
	Op         string  `json:"op"`
	Count      float64 `json:"count"`
}

// Summary returns the operation counters, in registry order.
func (o *Observer) Summary() ([]OpCount, error) {
	families, err := o.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []OpCount
	for _, mf := range families {
		if mf.GetName() != "ossuary_collection_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			row := OpCount{Count: m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "collection":
					row.Collection = lp.GetValue()
				case "op":
					row.Op = lp.GetValue()
				}
			}
			out = append(out, row)
		}
	}
	return out, nil
}
