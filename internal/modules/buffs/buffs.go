// Package buffs tracks buff application on the analyzed participant and
// answers uptime queries for dependent modules.
package buffs

import (
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/engine"
)

// Name is the conventional table name for the tracker.
const Name = "buffs"

// state is the per-buff bookkeeping record.
type state struct {
	appliedAt   int64
	stacks      int
	active      bool
	accumulated int64 // closed intervals, ms
}

// Tracker accumulates buff intervals strictly from dispatched events.
type Tracker struct {
	engine.Base
	enc   event.Encounter
	buffs map[int]*state
}

// New constructs the tracker and registers its handlers. It watches every
// buff id that appears in the log; no configuration is required.
func New(b *engine.Build) (engine.Module, error) {
	t := &Tracker{
		enc:   b.Encounter,
		buffs: make(map[int]*state),
	}
	b.On(engine.ToPlayer, event.KindApplyBuff, t.onApply)
	b.On(engine.ToPlayer, event.KindRefreshBuff, t.onRefresh)
	b.On(engine.ToPlayer, event.KindApplyBuffStack, t.onApplyStack)
	b.On(engine.ToPlayer, event.KindRemoveBuffStack, t.onRemoveStack)
	b.On(engine.ToPlayer, event.KindRemoveBuff, t.onRemove)
	return t, nil
}

func (t *Tracker) get(id int) *state {
	st, ok := t.buffs[id]
	if !ok {
		st = &state{}
		t.buffs[id] = st
	}
	return st
}

func (t *Tracker) onApply(ev *event.Event) {
	st := t.get(ev.Ability.ID)
	if st.active {
		return
	}
	st.active = true
	st.appliedAt = ev.Timestamp
	st.stacks = ev.Stack
	if st.stacks < 1 {
		st.stacks = 1
	}
}

func (t *Tracker) onRefresh(ev *event.Event) {
	st := t.get(ev.Ability.ID)
	if !st.active {
		// A refresh without a visible apply starts the interval here.
		st.active = true
		st.appliedAt = ev.Timestamp
		st.stacks = 1
	}
}

func (t *Tracker) onApplyStack(ev *event.Event) {
	st := t.get(ev.Ability.ID)
	if !st.active {
		st.active = true
		st.appliedAt = ev.Timestamp
	}
	if ev.Stack > 0 {
		st.stacks = ev.Stack
	} else {
		st.stacks++
	}
}

func (t *Tracker) onRemoveStack(ev *event.Event) {
	st := t.get(ev.Ability.ID)
	if !st.active {
		return
	}
	if ev.Stack > 0 {
		st.stacks = ev.Stack
	} else if st.stacks > 1 {
		st.stacks--
	}
}

func (t *Tracker) onRemove(ev *event.Event) {
	st := t.get(ev.Ability.ID)
	if !st.active {
		return
	}
	st.accumulated += t.enc.Clip(ev.Timestamp) - t.enc.Clip(st.appliedAt)
	st.active = false
	st.stacks = 0
}

// Active reports whether the buff is currently applied.
func (t *Tracker) Active(id int) bool {
	st, ok := t.buffs[id]
	return ok && st.active
}

// Stacks returns the current stack count, 0 when the buff is down.
func (t *Tracker) Stacks(id int) int {
	st, ok := t.buffs[id]
	if !ok || !st.active {
		return 0
	}
	return st.stacks
}

// Uptime returns the total time the buff was up, in milliseconds, clipped to
// the encounter window. An interval still open counts to the encounter end.
func (t *Tracker) Uptime(id int) int64 {
	st, ok := t.buffs[id]
	if !ok {
		return 0
	}
	total := st.accumulated
	if st.active {
		total += t.enc.EndTime - t.enc.Clip(st.appliedAt)
	}
	return total
}

// UptimeFraction returns uptime as a fraction of the encounter duration.
func (t *Tracker) UptimeFraction(id int) float64 {
	d := t.enc.Duration()
	if d == 0 {
		return 0
	}
	return float64(t.Uptime(id)) / float64(d)
}
