// Package cdr models a cooldown-reduction effect: each cast of a trigger
// ability shortens a target ability's cooldown. It exercises the same-event
// ordering guarantee by mutating the cooldown tracker from its own handler.
package cdr

import (
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/domain/suggestion"
	"github.com/okian/melee/internal/engine"
	"github.com/okian/melee/internal/modules/cooldowns"
)

// Default isGreaterThan breakpoints for the wasted-reduction fraction.
const (
	defaultMinor   = 0.10
	defaultAverage = 0.25
	defaultMajor   = 0.40
)

// Config declares the trigger, the reduced ability and the reduction size.
type Config struct {
	// TriggerAbility is the cast granting the reduction.
	TriggerAbility event.Ability
	// TargetAbilityID is the cooldown being reduced; it must be declared on
	// the cooldown tracker.
	TargetAbilityID int
	// ReductionMS is the reduction granted per trigger cast.
	ReductionMS int64
	// RequiredTrait deactivates the module when the combatant lacks the
	// trait. Zero means always active.
	RequiredTrait int
	// Minor, Average and Major override the default isGreaterThan
	// breakpoints when non-zero.
	Minor   float64
	Average float64
	Major   float64
	// ShowStatistic controls whether a statistic bundle is produced.
	ShowStatistic bool
}

// Module accumulates granted and effective cooldown reduction.
type Module struct {
	engine.Base
	cfg       Config
	tracker   *cooldowns.Tracker
	granted   int64
	effective int64
}

// New constructs the module. Activation depends on the configured trait.
func New(b *engine.Build) (engine.Module, error) {
	cfg, _ := b.Config.(Config)
	m := &Module{cfg: cfg}

	if cfg.TriggerAbility.ID == 0 || cfg.TargetAbilityID == 0 || cfg.ReductionMS <= 0 {
		m.Deactivate()
		return m, nil
	}
	if cfg.RequiredTrait != 0 && !b.Combatant.HasTrait(cfg.RequiredTrait) {
		m.Deactivate()
		return m, nil
	}

	m.tracker = b.Dep("cooldowns").(*cooldowns.Tracker)
	b.On(engine.ByPlayer, event.KindCast, m.onCast)
	return m, nil
}

func (m *Module) onCast(ev *event.Event) {
	if ev.Ability.ID != m.cfg.TriggerAbility.ID {
		return
	}
	// The tracker precedes this module in resolution order, so its clock
	// already reflects the current event.
	eff := m.tracker.ReduceCooldown(m.cfg.TargetAbilityID, m.cfg.ReductionMS)
	m.granted += m.cfg.ReductionMS
	m.effective += eff
}

// Wasted returns the reduction granted but not applied, in milliseconds.
func (m *Module) Wasted() int64 { return m.granted - m.effective }

// wastedFraction returns wasted over granted, 0 when nothing was granted.
func (m *Module) wastedFraction() float64 {
	if m.granted == 0 {
		return 0
	}
	return float64(m.Wasted()) / float64(m.granted)
}

// Statistic returns the wasted-reduction bundle, or nil when not flagged.
func (m *Module) Statistic() *report.Statistic {
	if !m.cfg.ShowStatistic {
		return nil
	}
	return &report.Statistic{
		Label:   "wasted-cooldown-reduction",
		Ability: m.cfg.TriggerAbility,
		Value:   float64(m.Wasted()),
		Unit:    report.UnitMillis,
		Details: map[string]float64{
			"granted_ms":   float64(m.granted),
			"effective_ms": float64(m.effective),
		},
	}
}

// Suggestions surfaces a judgment when too much reduction was wasted.
func (m *Module) Suggestions(reg suggestion.Registrar) {
	t := suggestion.Threshold{
		Actual:    m.wastedFraction(),
		Direction: suggestion.IsGreaterThan,
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
	res := t.Evaluate()
	if res.Severity == suggestion.SeverityNone {
		return
	}
	reg.Add(suggestion.Suggestion{
		Metric:  "wasted-cooldown-reduction",
		Ability: m.cfg.TriggerAbility,
		Result:  res,
	})
}
