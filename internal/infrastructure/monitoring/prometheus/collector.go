package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so that tests and multiple server
// instances never collide on the default global registry.
type Collector struct {
	registry  *prometheus.Registry
	namespace string
}

// NewCollector builds a registry pre-loaded with the standard Go runtime
// and process collectors.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Collector{
		registry:  reg,
		namespace: namespace,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry for custom registrations.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.registry.MustRegister(cv)
	return cv
}

func (c *Collector) newCounter(name, help string) prometheus.Counter {
	ctr := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	})
	c.registry.MustRegister(ctr)
	return ctr
}

func (c *Collector) newHistogramVec(name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	c.registry.MustRegister(hv)
	return hv
}

func (c *Collector) newGauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	})
	c.registry.MustRegister(g)
	return g
}
