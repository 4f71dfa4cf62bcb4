// Package profiles holds the ordered module tables available per analysis
// profile. A profile is static: the same table always yields the same
// instantiation plan.
package profiles

import (
	"errors"
	"fmt"

	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/engine"
	"github.com/okian/melee/internal/modules/buffs"
	"github.com/okian/melee/internal/modules/castefficiency"
	"github.com/okian/melee/internal/modules/cdr"
	"github.com/okian/melee/internal/modules/cooldowns"
	"github.com/okian/melee/internal/modules/uptime"
)

// ErrUnknownProfile is returned for profile names without a table.
var ErrUnknownProfile = errors.New("unknown profile")

// Lookup returns the module table for a profile name. The empty name maps
// to the default profile.
func Lookup(name string) (engine.Table, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "fury":
		return Fury(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// Default is the tracker-only table; it derives state but judges nothing.
func Default() engine.Table {
	return engine.Table{
		{Name: buffs.Name, New: buffs.New},
		{Name: cooldowns.Name, New: cooldowns.New, Config: cooldowns.Config{}},
	}
}

// Fury is the sample fury-warrior profile exercising every module kind.
func Fury() engine.Table {
	recklessness := event.Ability{ID: 1719, Name: "Recklessness"}
	ravager := event.Ability{ID: 228920, Name: "Ravager"}
	rampage := event.Ability{ID: 184367, Name: "Rampage"}
	enrage := event.Ability{ID: 184362, Name: "Enrage"}

	return engine.Table{
		{Name: buffs.Name, New: buffs.New},
		{
			Name: cooldowns.Name,
			New:  cooldowns.New,
			Config: cooldowns.Config{
				Abilities: map[int]int64{
					recklessness.ID: 90_000,
					ravager.ID:      60_000,
				},
			},
		},
		{
			Name: "enrage-uptime",
			New:  uptime.New,
			Deps: map[string]string{"buffs": buffs.Name},
			Config: uptime.Config{
				Ability:       enrage,
				ShowStatistic: true,
			},
		},
		{
			Name: "cast-efficiency",
			New:  castefficiency.New,
			Deps: map[string]string{"cooldowns": cooldowns.Name},
			Config: castefficiency.Config{
				Abilities: []castefficiency.TrackedAbility{
					{Ability: recklessness},
					{Ability: ravager},
				},
				ShowStatistic: true,
			},
		},
		{
			Name: "rampage-cdr",
			New:  cdr.New,
			Deps: map[string]string{"cooldowns": cooldowns.Name},
			Config: cdr.Config{
				TriggerAbility:  rampage,
				TargetAbilityID: recklessness.ID,
				ReductionMS:     3_000,
				ShowStatistic:   true,
			},
		},
	}
}
