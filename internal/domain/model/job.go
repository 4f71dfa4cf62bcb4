// Package model contains domain models passed between layers.
package model

import (
	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/event"
)

// Job is one queued analysis run: the selected profile, the combatant
// snapshot, the encounter window and the ordered event sequence.
type Job struct {
	RunID     string
	Profile   string
	Combatant combatant.Info
	Encounter event.Encounter
	Events    []event.Event
}
