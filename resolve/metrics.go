package resolve

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts probes and resolutions. A nil *Metrics records nothing.
type Metrics struct {
	probes      *prometheus.CounterVec
	resolutions *prometheus.CounterVec
}

// NewMetrics creates the resolver counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "extresolve",
			Name:      "probes_total",
			Help:      "Candidates handed to the default resolver, by fallback stage and outcome.",
		}, []string{"stage", "outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "extresolve",
			Name:      "resolutions_total",
			Help:      "Completed resolve calls, by specifier kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	for _, c := range []prometheus.Collector{m.probes, m.resolutions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeProbe(stage string, err error) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(stage, outcome(err)).Inc()
}

func (m *Metrics) observeResolution(kind Kind, err error) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(kind.String(), outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}

// ProbeCounter returns the probe counter for one stage and outcome.
func (m *Metrics) ProbeCounter(stage, outcome string) prometheus.Counter {
	return m.probes.WithLabelValues(stage, outcome)
}

// ResolutionCounter returns the resolution counter for one kind and outcome.
func (m *Metrics) ResolutionCounter(kind Kind, outcome string) prometheus.Counter {
	return m.resolutions.WithLabelValues(kind.String(), outcome)
}
