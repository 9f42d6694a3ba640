// Package metrics exports inspection results as Prometheus metrics, written
// to a node_exporter textfile collector file after every run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dfinspect/internal/model"
)

const namespace = "dfinspect"

// Exporter holds the collectors of one inspection run.
type Exporter struct {
	registry *prometheus.Registry

	itemState   *prometheus.GaugeVec
	usedPercent *prometheus.GaugeVec
	sizeMB      *prometheus.GaugeVec
	perfdata    *prometheus.GaugeVec
	hostStatus  *prometheus.GaugeVec
	evaluations *prometheus.CounterVec
	lastRun     prometheus.Gauge
	runDuration prometheus.Gauge
}

// NewExporter creates an exporter backed by its own registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Exporter{
		registry: reg,
		itemState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "item_state",
			Help:      "Item state (0=OK, 1=WARN, 2=CRIT, 3=UNKNOWN)",
		}, []string{"host", "item", "kind"}),
		usedPercent: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fs_used_percent",
			Help:      "Used space of the item in percent",
		}, []string{"host", "item"}),
		sizeMB: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fs_size_mb",
			Help:      "Size of the item in MB",
		}, []string{"host", "item"}),
		perfdata: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "item_perfdata",
			Help:      "Performance values emitted by the item evaluation",
		}, []string{"host", "item", "metric"}),
		hostStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_status",
			Help:      "1 for the current status of each host",
		}, []string{"host", "status"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Number of item evaluations by resulting state",
		}, []string{"state"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last inspection started",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last inspection",
		}),
	}
}

// Registry returns the registry all collectors are registered with.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Observe records result. Series of a previous Observe are replaced.
func (e *Exporter) Observe(result *model.InspectionResult) {
	if result == nil {
		return
	}
	for _, vec := range []*prometheus.GaugeVec{e.itemState, e.usedPercent, e.sizeMB, e.perfdata, e.hostStatus} {
		vec.Reset()
	}

	e.lastRun.Set(float64(result.InspectionTime.Unix()))
	e.runDuration.Set(result.Duration.Seconds())

	for _, host := range result.Hosts {
		if host == nil {
			continue
		}
		e.hostStatus.WithLabelValues(host.Hostname, string(host.Status)).Set(1)
		for _, item := range host.Items {
			state := item.Verdict.State
			e.itemState.WithLabelValues(host.Hostname, item.Item.Name, string(item.Item.Kind)).Set(float64(state))
			e.evaluations.WithLabelValues(state.String()).Inc()
			if item.SizeMB > 0 {
				e.usedPercent.WithLabelValues(host.Hostname, item.Item.Name).Set(item.UsedPercent)
				e.sizeMB.WithLabelValues(host.Hostname, item.Item.Name).Set(item.SizeMB)
			}
			for _, m := range item.Verdict.Metrics {
				e.perfdata.WithLabelValues(host.Hostname, item.Item.Name, m.Name).Set(m.Value)
			}
		}
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (e *Exporter) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create textfile directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
