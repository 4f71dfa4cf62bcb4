// Package suggestion defines the threshold evaluator that turns an
// accumulated metric into a graded judgment. It is pure data: rendering and
// text generation belong to external report layers.
package suggestion

import "github.com/okian/melee/internal/domain/event"

// Severity grades how far a metric sits on the wrong side of its thresholds.
type Severity int

// Severity grades, from harmless to major issue.
const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityAverage
	SeverityMajor
)

var severityNames = [...]string{"none", "minor", "average", "major"}

// String returns the wire name of the severity.
func (s Severity) String() string {
	if s < SeverityNone || s > SeverityMajor {
		return "none"
	}
	return severityNames[s]
}

// MarshalJSON encodes the severity as its wire name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Direction states which side of a breakpoint is the bad side.
type Direction int

// Threshold directions.
const (
	// IsLessThan escalates severity as the actual value drops below each
	// breakpoint (e.g. uptime fractions).
	IsLessThan Direction = iota
	// IsGreaterThan escalates severity as the actual value rises above each
	// breakpoint (e.g. wasted cooldown reduction).
	IsGreaterThan
)

// Threshold pairs an actual metric value with three severity breakpoints.
type Threshold struct {
	Actual    float64   `json:"actual"`
	Direction Direction `json:"-"`
	Minor     float64   `json:"minor"`
	Average   float64   `json:"average"`
	Major     float64   `json:"major"`
}

// Result is the graded outcome of evaluating a threshold.
// Recommended is the boundary the metric should stay on the right side of.
type Result struct {
	Severity    Severity `json:"severity"`
	Actual      float64  `json:"actual"`
	Recommended float64  `json:"recommended"`
}

// Evaluate grades the actual value against the breakpoints. The grade is the
// worst breakpoint the value has crossed: for IsLessThan, actual < major is
// a major issue, actual < average an average one, actual < minor a minor one;
// IsGreaterThan mirrors this with >.
func (t Threshold) Evaluate() Result {
	r := Result{
		Severity:    SeverityNone,
		Actual:      t.Actual,
		Recommended: t.Minor,
	}
	switch t.Direction {
	case IsGreaterThan:
		switch {
		case t.Actual > t.Major:
			r.Severity = SeverityMajor
		case t.Actual > t.Average:
			r.Severity = SeverityAverage
		case t.Actual > t.Minor:
			r.Severity = SeverityMinor
		}
	default: // IsLessThan
		switch {
		case t.Actual < t.Major:
			r.Severity = SeverityMajor
		case t.Actual < t.Average:
			r.Severity = SeverityAverage
		case t.Actual < t.Minor:
			r.Severity = SeverityMinor
		}
	}
	return r
}

// Suggestion is one judgment surfaced by a module.
type Suggestion struct {
	// Module is the table name of the module that raised the judgment.
	Module string `json:"module"`
	// Metric is a machine-readable key for the judged metric.
	Metric string `json:"metric"`
	// Ability optionally references the ability the judgment concerns.
	Ability event.Ability `json:"ability,omitempty"`
	Result  Result        `json:"result"`
}

// Registrar collects suggestions from modules after a run.
type Registrar interface {
	Add(s Suggestion)
}
