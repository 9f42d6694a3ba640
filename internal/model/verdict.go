package model

import "strings"

// Metric is one performance value emitted by an evaluation.
// Warn, Crit, Min and Max are optional and nil when not applicable.
type Metric struct {
	Name  string   `json:"name"`
	Value float64  `json:"value"`
	Warn  *float64 `json:"warn,omitempty"`
	Crit  *float64 `json:"crit,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// NewMetric creates a metric without levels or boundaries.
func NewMetric(name string, value float64) Metric {
	return Metric{Name: name, Value: value}
}

// WithLevels returns a copy of the metric carrying warn/crit levels.
func (m Metric) WithLevels(warn, crit float64) Metric {
	m.Warn = &warn
	m.Crit = &crit
	return m
}

// WithBoundaries returns a copy of the metric carrying min/max boundaries.
func (m Metric) WithBoundaries(lower, upper float64) Metric {
	m.Min = &lower
	m.Max = &upper
	return m
}

// Verdict is the outcome of evaluating one item. Summary holds comma separated
// parts on its first line; further lines (such as the member count of a group)
// follow separated by newlines.
type Verdict struct {
	State   State    `json:"state"`
	Summary string   `json:"summary"`
	Metrics []Metric `json:"metrics,omitempty"`
}

// NewVerdict creates a verdict with a single summary part.
func NewVerdict(state State, summary string) Verdict {
	return Verdict{State: state, Summary: summary}
}

// AddPart merges state into the verdict and appends text to the first summary line.
// Empty text only affects the state.
func (v *Verdict) AddPart(state State, text string) {
	v.State = Worst(v.State, state)
	if text == "" {
		return
	}
	first, rest, hasRest := strings.Cut(v.Summary, "\n")
	switch {
	case first == "":
		first = text
	default:
		first = first + ", " + text
	}
	if hasRest {
		v.Summary = first + "\n" + rest
		return
	}
	v.Summary = first
}

// PrependPart inserts text as the first part of the summary without changing the state.
func (v *Verdict) PrependPart(text string) {
	if v.Summary == "" || strings.HasPrefix(v.Summary, "\n") {
		v.Summary = text + v.Summary
		return
	}
	v.Summary = text + ", " + v.Summary
}

// AddLine appends an informational line below the summary.
func (v *Verdict) AddLine(text string) {
	if v.Summary == "" {
		v.Summary = text
		return
	}
	v.Summary += "\n" + text
}

// AddMetrics appends metrics in order.
func (v *Verdict) AddMetrics(metrics ...Metric) {
	v.Metrics = append(v.Metrics, metrics...)
}

// Lines returns the summary split into its lines.
func (v *Verdict) Lines() []string {
	if v.Summary == "" {
		return nil
	}
	return strings.Split(v.Summary, "\n")
}

// Metric returns the metric with the given name, or nil when absent.
func (v *Verdict) Metric(name string) *Metric {
	for i := range v.Metrics {
		if v.Metrics[i].Name == name {
			return &v.Metrics[i]
		}
	}
	return nil
}
