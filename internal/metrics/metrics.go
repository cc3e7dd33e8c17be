// Package metrics tracks per-run counters for ecpridecode and renders
// them in the Prometheus text exposition format at termination. This is
// a one-shot batch tool, not a scrape target, so there's no live HTTP
// listener: the registry is rendered once, after the capture is fully
// drained.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Counters is the fixed set of run counters ecpridecode records.
type Counters struct {
	registry *prometheus.Registry

	PacketsProcessed   prometheus.Counter
	PacketsSkipped     *prometheus.CounterVec
	EntriesCreated     prometheus.Counter
	EntriesEmitted     prometheus.Counter
}

// New registers a fresh set of counters against their own registry.
func New() *Counters {
	reg := prometheus.NewRegistry()

	c := &Counters{
		registry: reg,
		PacketsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecpridecode_packets_processed_total",
			Help: "Capture records pulled off the container adapter.",
		}),
		PacketsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecpridecode_packets_skipped_total",
			Help: "Capture records skipped, labeled by the non-fatal error kind.",
		}, []string{"reason"}),
		EntriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecpridecode_uplane_packets_ingested_total",
			Help: "U-Plane packets whose PRB blocks were expanded and appended to the reassembly map.",
		}),
		EntriesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecpridecode_reassembly_entries_emitted_total",
			Help: "Reassembly entries drained at run end and handed to the sink, which writes only those of one complete frame.",
		}),
	}

	reg.MustRegister(c.PacketsProcessed, c.PacketsSkipped, c.EntriesCreated, c.EntriesEmitted)
	return c
}

// SkipReason increments the skip counter for the given non-fatal error
// kind, e.g. "not_ecpri", "unsupported_message_type".
func (c *Counters) SkipReason(reason string) {
	c.PacketsSkipped.WithLabelValues(reason).Inc()
}

// Render writes every collected metric family to w in the Prometheus
// text exposition format.
func (c *Counters) Render(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
