package observability

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// snapshotMetrics are the families rendered by Snapshot.
var snapshotMetrics = map[string]bool{
	"session_exchanges":       true,
	"session_evictions_total": true,
	"tool_execution_total":    true,
	"tool_errors_total":       true,
	"api_http_requests_total": true,
	"agent_run_total":         true,
}

// Snapshot renders the module's counters and gauges as plain text for
// interactive display. Histograms are omitted.
func Snapshot() (string, error) {
	EnsureRegistered()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return "", fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, family := range families {
		if !snapshotMetrics[family.GetName()] {
			continue
		}
		for _, metric := range family.GetMetric() {
			lines = append(lines, formatMetric(family, metric))
		}
	}

	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func formatMetric(family *dto.MetricFamily, metric *dto.Metric) string {
	name := family.GetName()

	var labels []string
	for _, pair := range metric.GetLabel() {
		labels = append(labels, fmt.Sprintf("%s=%s", pair.GetName(), pair.GetValue()))
	}
	if len(labels) > 0 {
		name = fmt.Sprintf("%s{%s}", name, strings.Join(labels, ","))
	}

	var value float64
	switch family.GetType() {
	case dto.MetricType_COUNTER:
		value = metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		value = metric.GetGauge().GetValue()
	}

	return fmt.Sprintf("%s %g", name, value)
}
