// Package report contains the display-agnostic output of one analysis run.
package report

import (
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/suggestion"
)

// Unit hints at how a statistic value should be formatted downstream.
type Unit string

// Statistic value units.
const (
	UnitCount    Unit = "count"
	UnitPercent  Unit = "percent"
	UnitMillis   Unit = "ms"
	UnitFraction Unit = "fraction"
)

// Statistic is one display-agnostic data bundle produced by an active module.
type Statistic struct {
	// Module is the table name of the producing module.
	Module string `json:"module"`
	// Label is a short machine-readable key for the value.
	Label string `json:"label"`
	// Ability optionally references the ability the value concerns.
	Ability event.Ability `json:"ability,omitempty"`
	Value   float64       `json:"value"`
	Unit    Unit          `json:"unit"`
	// Details carries secondary values keyed by name (e.g. "casts", "wasted").
	Details map[string]float64 `json:"details,omitempty"`
}

// Report is the full output of one analysis run.
type Report struct {
	RunID       string                  `json:"run_id"`
	Profile     string                  `json:"profile"`
	Spec        string                  `json:"spec"`
	Encounter   event.Encounter         `json:"encounter"`
	Dispatched  int                     `json:"events_dispatched"`
	Skipped     int                     `json:"events_skipped"`
	Statistics  []Statistic             `json:"statistics"`
	Suggestions []suggestion.Suggestion `json:"suggestions"`
	CompletedAt int64                   `json:"completed_at_unix_ms"`
}

// Summary is the compact listing shape for recent reports.
type Summary struct {
	RunID       string `json:"run_id"`
	Profile     string `json:"profile"`
	Spec        string `json:"spec"`
	Duration    int64  `json:"duration_ms"`
	Suggestions int    `json:"suggestions"`
	CompletedAt int64  `json:"completed_at_unix_ms"`
}

// Summarize produces the listing shape of a report.
func (r *Report) Summarize() Summary {
	return Summary{
		RunID:       r.RunID,
		Profile:     r.Profile,
		Spec:        r.Spec,
		Duration:    r.Encounter.Duration(),
		Suggestions: len(r.Suggestions),
		CompletedAt: r.CompletedAt,
	}
}
