// Package uptime judges the uptime of one configured buff against
// severity thresholds. It demonstrates a dependent module: it registers no
// handlers of its own and reads the buff tracker after the run.
package uptime

import (
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/domain/suggestion"
	"github.com/okian/melee/internal/engine"
	"github.com/okian/melee/internal/modules/buffs"
)

// Default isLessThan breakpoints for buff uptime.
const (
	defaultMinor   = 0.95
	defaultAverage = 0.90
	defaultMajor   = 0.80
)

// Config declares the watched buff and its thresholds.
type Config struct {
	// Ability is the watched buff.
	Ability event.Ability
	// RequiredTalent deactivates the module when the combatant lacks the
	// talent. Zero means always active.
	RequiredTalent int
	// Minor, Average and Major override the default isLessThan breakpoints
	// when non-zero.
	Minor   float64
	Average float64
	Major   float64
	// ShowStatistic controls whether a statistic bundle is produced.
	ShowStatistic bool
}

// Module reports uptime of one buff.
type Module struct {
	engine.Base
	cfg     Config
	tracker *buffs.Tracker
}

// New constructs the module. Activation depends on the configured talent.
func New(b *engine.Build) (engine.Module, error) {
	cfg, _ := b.Config.(Config)
	m := &Module{cfg: cfg}

	if cfg.RequiredTalent != 0 && !b.Combatant.HasTalent(cfg.RequiredTalent) {
		m.Deactivate()
		return m, nil
	}

	m.tracker = b.Dep("buffs").(*buffs.Tracker)
	return m, nil
}

func (m *Module) thresholds() suggestion.Threshold {
	t := suggestion.Threshold{
		Actual:    m.tracker.UptimeFraction(m.cfg.Ability.ID),
		Direction: suggestion.IsLessThan,
		Minor:     m.cfg.Minor,
		Average:   m.cfg.Average,
		Major:     m.cfg.Major,
	}
	if t.Minor == 0 {
		t.Minor = defaultMinor
	}
	if t.Average == 0 {
		t.Average = defaultAverage
	}
	if t.Major == 0 {
		t.Major = defaultMajor
	}
	return t
}

// Statistic returns the uptime fraction bundle, or nil when not flagged.
func (m *Module) Statistic() *report.Statistic {
	if !m.cfg.ShowStatistic {
		return nil
	}
	return &report.Statistic{
		Label:   "buff-uptime",
		Ability: m.cfg.Ability,
		Value:   m.tracker.UptimeFraction(m.cfg.Ability.ID),
		Unit:    report.UnitFraction,
		Details: map[string]float64{
			"uptime_ms": float64(m.tracker.Uptime(m.cfg.Ability.ID)),
		},
	}
}

// Suggestions surfaces a judgment when uptime falls below the minor
// breakpoint.
func (m *Module) Suggestions(reg suggestion.Registrar) {
	res := m.thresholds().Evaluate()
	if res.Severity == suggestion.SeverityNone {
		return
	}
	reg.Add(suggestion.Suggestion{
		Metric:  "buff-uptime",
		Ability: m.cfg.Ability,
		Result:  res,
	})
}
