package artifacts

import (
	"prodinsight/domain/insight"
	"prodinsight/domain/run"
	"prodinsight/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "prodinsight"

// WriteMetrics exports run counters as a Prometheus textfile for a
// node-exporter textfile collector. path may lie outside the writer's dir.
func WriteMetrics(path string, m *run.Manifest, insights []insight.Insight) error {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		})
		g.Set(v)
		reg.MustRegister(g)
	}

	significant := 0
	for _, ins := range insights {
		if ins.Significant {
			significant++
		}
	}

	gauge("records", "Normalized records in the input snapshot.", float64(m.RecordCount))
	gauge("insights_emitted", "Hypothesis tests that produced an insight.", float64(len(m.InsightsEmitted)))
	gauge("insights_skipped", "Hypothesis tests skipped for lack of data.", float64(len(m.InsightsSkipped)))
	gauge("insights_significant", "Insights with p below alpha.", float64(significant))
	gauge("artifacts_written", "Artifacts written by the run.", float64(len(m.ArtifactsWritten)))
	gauge("artifacts_failed", "Artifacts that failed to build or write.", float64(len(m.ArtifactsFailed)))
	gauge("last_run_timestamp_seconds", "Unix time the run started.", float64(m.StartedAt.Unix()))

	stages := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration of each pipeline stage.",
	}, []string{"stage"})
	for _, t := range m.Timings {
		stages.WithLabelValues(t.Stage).Set(float64(t.DurationMs) / 1000)
	}
	reg.MustRegister(stages)

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return errors.ArtifactWriteFailed(path, err)
	}
	return nil
}
