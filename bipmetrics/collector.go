// Package bipmetrics exports bip-buffer statistics to Prometheus.
package bipmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/squidpickles/bipbuffer"
)

// Source is anything that can produce a consistent metrics snapshot from any
// goroutine, such as bipbuffer.SafeBuffer or bipbuffer.Pipe.
type Source interface {
	Metrics() bipbuffer.Metrics
}

// Collector is a prometheus.Collector reading one Source on every scrape.
type Collector struct {
	src Source

	capacity    *prometheus.Desc
	committed   *prometheus.Desc
	reserved    *prometheus.Desc
	free        *prometheus.Desc
	readable    *prometheus.Desc
	utilization *prometheus.Desc
	wrapped     *prometheus.Desc

	committedTotal    *prometheus.Desc
	decommittedTotal  *prometheus.Desc
	reservationsTotal *prometheus.Desc
	failuresTotal     *prometheus.Desc
	wrapsTotal        *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for src. Every series carries the label
// buffer=name so several buffers can share a registry.
func NewCollector(name string, src Source) *Collector {
	labels := prometheus.Labels{"buffer": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("bipbuffer", "", metric), help, nil, labels)
	}

	return &Collector{
		src: src,

		capacity:    desc("capacity_elements", "Number of elements in the backing storage"),
		committed:   desc("committed_elements", "Elements committed and not yet decommitted"),
		reserved:    desc("reserved_elements", "Elements in the outstanding reservation"),
		free:        desc("free_elements", "Elements neither committed nor reserved"),
		readable:    desc("readable_elements", "Length of the next readable block"),
		utilization: desc("utilization_ratio", "Ratio of committed elements to capacity"),
		wrapped:     desc("wrapped", "1 if committed data wraps around the end of storage"),

		committedTotal:    desc("committed_elements_total", "Total number of elements committed"),
		decommittedTotal:  desc("decommitted_elements_total", "Total number of elements decommitted"),
		reservationsTotal: desc("reservations_total", "Total number of granted reservations"),
		failuresTotal:     desc("reservation_failures_total", "Total number of reservations refused for lack of space"),
		wrapsTotal:        desc("wraps_total", "Total number of times committed data started wrapping around"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.committed
	ch <- c.reserved
	ch <- c.free
	ch <- c.readable
	ch <- c.utilization
	ch <- c.wrapped
	ch <- c.committedTotal
	ch <- c.decommittedTotal
	ch <- c.reservationsTotal
	ch <- c.failuresTotal
	ch <- c.wrapsTotal
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()

	wrapped := 0.0
	if m.Wrapped {
		wrapped = 1
	}

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}

	gauge(c.capacity, float64(m.Capacity))
	gauge(c.committed, float64(m.Committed))
	gauge(c.reserved, float64(m.Reserved))
	gauge(c.free, float64(m.Free))
	gauge(c.readable, float64(m.Readable))
	gauge(c.utilization, m.Utilization)
	gauge(c.wrapped, wrapped)

	counter(c.committedTotal, m.TotalCommitted)
	counter(c.decommittedTotal, m.TotalDecommitted)
	counter(c.reservationsTotal, m.Reservations)
	counter(c.failuresTotal, m.ReservationsFailed)
	counter(c.wrapsTotal, m.Wraps)
}
