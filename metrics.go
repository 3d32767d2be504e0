package grove

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// frameMetrics are the per-game collectors. Each Game registers its own set
// on its own registry so several games can coexist in one process.
type frameMetrics struct {
	ticks        prometheus.Counter
	stepDuration prometheus.Histogram
	scenesActive prometheus.Gauge
	state        prometheus.Gauge
	boots        *prometheus.CounterVec
	signals      *prometheus.CounterVec
}

func newFrameMetrics(reg prometheus.Registerer) (*frameMetrics, error) {
	m := &frameMetrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grove",
			Subsystem: "frame",
			Name:      "ticks_total",
			Help:      "Frame steps executed.",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grove",
			Subsystem: "frame",
			Name:      "step_duration_seconds",
			Help:      "Wall time spent in one frame step.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1},
		}),
		scenesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "grove",
			Name:      "scenes_active",
			Help:      "Scenes in the active list at the end of the last step.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "grove",
			Name:      "lifecycle_state",
			Help:      "Lifecycle state: 0 created, 1 booting, 2 running, 3 paused.",
		}),
		boots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grove",
			Name:      "boot_total",
			Help:      "Boot attempts by result.",
		}, []string{"result"}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grove",
			Name:      "signals_total",
			Help:      "Environment signals handled.",
		}, []string{"signal"}),
	}
	for _, c := range []prometheus.Collector{m.ticks, m.stepDuration, m.scenesActive, m.state, m.boots, m.signals} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *frameMetrics) recordStep(d time.Duration, active int) {
	m.ticks.Inc()
	m.stepDuration.Observe(d.Seconds())
	m.scenesActive.Set(float64(active))
}

func (m *frameMetrics) recordState(s State) {
	m.state.Set(float64(s))
}

func (m *frameMetrics) recordBoot(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.boots.WithLabelValues(result).Inc()
}

func (m *frameMetrics) recordSignal(sig Signal) {
	m.signals.WithLabelValues(sig.String()).Inc()
}
