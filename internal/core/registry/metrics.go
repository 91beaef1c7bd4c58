package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	created       prometheus.Counter
	createFailed  prometheus.Counter
	indexFailures prometheus.Counter
	keeperRuns    prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "created",
			Help:      "number of sales created",
		}),
		createFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "create_failed",
			Help:      "number of rejected sale creations",
		}),
		indexFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "index_failures",
			Help:      "number of failed writes to the relational sale index",
		}),
		keeperRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "keeper_runs",
			Help:      "number of keeper passes over the registry",
		}),
	}
	if r == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.created, m.createFailed, m.indexFailures, m.keeperRuns} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
