// Package cooldowns tracks ability cooldowns of the analyzed participant
// and exposes the reduce-cooldown mutator used by dependent modules.
package cooldowns

import (
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/engine"
)

// Name is the conventional table name for the tracker.
const Name = "cooldowns"

// Config maps tracked ability ids to their base cooldown in milliseconds.
type Config struct {
	Abilities map[int]int64
}

// entry is the per-ability bookkeeping record.
type entry struct {
	duration int64
	readyAt  int64
	casts    int
	reduced  int64
}

// Tracker maintains cooldown state strictly from dispatched events. The
// current time advances with every event via a catch-all handler, so
// same-event queries by modules later in resolution order see this event's
// clock.
type Tracker struct {
	engine.Base
	now int64
	cds map[int]*entry
}

// New constructs the tracker from its Config declaration.
func New(b *engine.Build) (engine.Module, error) {
	t := &Tracker{cds: make(map[int]*entry)}
	if cfg, ok := b.Config.(Config); ok {
		for id, d := range cfg.Abilities {
			if id != 0 && d > 0 {
				t.cds[id] = &entry{duration: d}
			}
		}
	}
	t.now = b.Encounter.StartTime
	b.On(engine.AnyScope, engine.AnyKind, t.onAny)
	b.On(engine.ByPlayer, event.KindCast, t.onCast)
	return t, nil
}

func (t *Tracker) onAny(ev *event.Event) {
	if ev.Timestamp > t.now {
		t.now = ev.Timestamp
	}
}

func (t *Tracker) onCast(ev *event.Event) {
	e, ok := t.cds[ev.Ability.ID]
	if !ok {
		return
	}
	e.casts++
	e.readyAt = ev.Timestamp + e.duration
}

// Tracked reports whether the ability id is configured on this tracker.
func (t *Tracker) Tracked(id int) bool {
	_, ok := t.cds[id]
	return ok
}

// Duration returns the configured base cooldown in milliseconds.
func (t *Tracker) Duration(id int) int64 {
	e, ok := t.cds[id]
	if !ok {
		return 0
	}
	return e.duration
}

// Casts returns how many times the ability was cast so far.
func (t *Tracker) Casts(id int) int {
	e, ok := t.cds[id]
	if !ok {
		return 0
	}
	return e.casts
}

// OnCooldown reports whether the ability is cooling down at the current time.
func (t *Tracker) OnCooldown(id int) bool {
	return t.Remaining(id) > 0
}

// Remaining returns the remaining cooldown in milliseconds, 0 when ready.
func (t *Tracker) Remaining(id int) int64 {
	e, ok := t.cds[id]
	if !ok || e.readyAt <= t.now {
		return 0
	}
	return e.readyAt - t.now
}

// ReduceCooldown shortens the remaining cooldown by up to amount
// milliseconds and returns the reduction actually applied. The cooldown
// never drops below zero remaining; callers treat the shortfall between
// requested and returned as wasted reduction.
func (t *Tracker) ReduceCooldown(id int, amount int64) int64 {
	e, ok := t.cds[id]
	if !ok || amount <= 0 {
		return 0
	}
	remaining := e.readyAt - t.now
	if remaining <= 0 {
		return 0
	}
	eff := amount
	if eff > remaining {
		eff = remaining
	}
	e.readyAt -= eff
	e.reduced += eff
	return eff
}

// Reduced returns the total effective reduction applied to the ability.
func (t *Tracker) Reduced(id int) int64 {
	e, ok := t.cds[id]
	if !ok {
		return 0
	}
	return e.reduced
}
