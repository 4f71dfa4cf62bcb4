// Package castefficiency compares actual casts of tracked abilities against
// the casts possible over the encounter given their cooldowns.
package castefficiency

import (
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/domain/suggestion"
	"github.com/okian/melee/internal/engine"
	"github.com/okian/melee/internal/modules/cooldowns"
)

// Default isLessThan breakpoints for cast efficiency.
const (
	defaultMinor   = 0.85
	defaultAverage = 0.75
	defaultMajor   = 0.60
)

// TrackedAbility names one ability and optional breakpoint overrides.
type TrackedAbility struct {
	Ability event.Ability
	Minor   float64
	Average float64
	Major   float64
}

// Config lists the abilities judged by this module. Their cooldowns must be
// declared on the cooldown tracker the module depends on.
type Config struct {
	Abilities     []TrackedAbility
	ShowStatistic bool
}

// Module judges cast efficiency per tracked ability.
type Module struct {
	engine.Base
	cfg     Config
	enc     event.Encounter
	tracker *cooldowns.Tracker
}

// New constructs the module. It deactivates itself when nothing is tracked.
func New(b *engine.Build) (engine.Module, error) {
	cfg, _ := b.Config.(Config)
	m := &Module{cfg: cfg, enc: b.Encounter}

	if len(cfg.Abilities) == 0 {
		m.Deactivate()
		return m, nil
	}

	m.tracker = b.Dep("cooldowns").(*cooldowns.Tracker)
	return m, nil
}

// efficiency returns actual casts over possible casts, capped at 1.
func (m *Module) efficiency(id int) float64 {
	cd := m.tracker.Duration(id)
	if cd <= 0 {
		return 0
	}
	possible := m.enc.Duration()/cd + 1
	if possible <= 0 {
		return 0
	}
	eff := float64(m.tracker.Casts(id)) / float64(possible)
	if eff > 1 {
		eff = 1
	}
	return eff
}

// Statistic returns the mean efficiency with per-ability details, or nil
// when not flagged.
func (m *Module) Statistic() *report.Statistic {
	if !m.cfg.ShowStatistic {
		return nil
	}
	details := make(map[string]float64, len(m.cfg.Abilities)*2)
	sum := 0.0
	for _, ta := range m.cfg.Abilities {
		eff := m.efficiency(ta.Ability.ID)
		sum += eff
		details[ta.Ability.Name+"_efficiency"] = eff
		details[ta.Ability.Name+"_casts"] = float64(m.tracker.Casts(ta.Ability.ID))
	}
	return &report.Statistic{
		Label:   "cast-efficiency",
		Value:   sum / float64(len(m.cfg.Abilities)),
		Unit:    report.UnitFraction,
		Details: details,
	}
}

// Suggestions surfaces one judgment per ability whose efficiency crossed a
// breakpoint.
func (m *Module) Suggestions(reg suggestion.Registrar) {
	for _, ta := range m.cfg.Abilities {
		t := suggestion.Threshold{
			Actual:    m.efficiency(ta.Ability.ID),
			Direction: suggestion.IsLessThan,
			Minor:     ta.Minor,
			Average:   ta.Average,
			Major:     ta.Major,
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
		res := t.Evaluate()
		if res.Severity == suggestion.SeverityNone {
			continue
		}
		reg.Add(suggestion.Suggestion{
			Metric:  "cast-efficiency",
			Ability: ta.Ability,
			Result:  res,
		})
	}
}
