package synthlog

import (
	"math/rand"

	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/event"
)

// Actor ids used in generated encounters.
const (
	playerID = 1
	petID    = 2
	bossID   = 100
)

// Fury-warrior ability and timing constants.
const (
	rampageID       = 184367
	enrageID        = 184362
	recklessnessID  = 1719
	ravagerID       = 228920
	bloodthirstID   = 23881
	gcdMS           = 1500
	rampageEveryMS  = 6_000
	enrageLengthMS  = 4_000
	recklessnessCD  = 90_000
	ravagerCD       = 60_000
	meleeSwingMS    = 2_600
	meleeDamageBase = 40_000
	enrageTalentID  = 206315
)

// Payload is the request body shape of POST /analyze.
type Payload struct {
	Profile   string          `json:"profile"`
	Combatant combatant.Info  `json:"combatant"`
	Encounter event.Encounter `json:"encounter"`
	Events    []event.Event   `json:"events"`
}

// Generate builds a synthetic fury-warrior encounter. The rotation is
// simplistic but exercises every tracked concern: buff windows, cooldown
// usage, cooldown reduction triggers and pet damage.
func Generate(cfg *Config) *Payload {
	rng := rand.New(rand.NewSource(cfg.Seed))

	enc := event.Encounter{StartTime: 0, EndTime: cfg.DurationMS}
	var events []event.Event

	rampage := event.Ability{ID: rampageID, Name: "Rampage"}
	enrage := event.Ability{ID: enrageID, Name: "Enrage"}
	recklessness := event.Ability{ID: recklessnessID, Name: "Recklessness"}
	ravager := event.Ability{ID: ravagerID, Name: "Ravager"}
	bloodthirst := event.Ability{ID: bloodthirstID, Name: "Bloodthirst"}
	melee := event.Ability{ID: 1, Name: "Melee"}

	var (
		nextRampage      int64
		nextRecklessness int64
		nextRavager      int64
		nextSwing        int64
		nextPetSwing     int64 = 700
		enrageUntil      int64 = -1
		valid            int
	)

	push := func(ev event.Event) {
		events = append(events, ev)
		valid++
		if cfg.MalformedEvery > 0 && valid%cfg.MalformedEvery == 0 {
			// Ability-bearing kind with a zero ability id fails validation.
			events = append(events, event.Event{
				Timestamp: ev.Timestamp,
				Kind:      event.KindCast,
				SourceID:  playerID,
				TargetID:  bossID,
			})
		}
	}

	for t := int64(0); t < cfg.DurationMS; t += gcdMS {
		switch {
		case t >= nextRecklessness:
			push(event.Event{Timestamp: t, Kind: event.KindCast, SourceID: playerID, TargetID: playerID, Ability: recklessness})
			nextRecklessness = t + recklessnessCD

		case t >= nextRavager:
			push(event.Event{Timestamp: t, Kind: event.KindCast, SourceID: playerID, TargetID: bossID, Ability: ravager})
			nextRavager = t + ravagerCD

		case t >= nextRampage:
			push(event.Event{Timestamp: t, Kind: event.KindCast, SourceID: playerID, TargetID: bossID, Ability: rampage})
			if enrageUntil < t {
				push(event.Event{Timestamp: t, Kind: event.KindApplyBuff, SourceID: playerID, TargetID: playerID, Ability: enrage})
			} else {
				push(event.Event{Timestamp: t, Kind: event.KindRefreshBuff, SourceID: playerID, TargetID: playerID, Ability: enrage})
			}
			enrageUntil = t + enrageLengthMS
			nextRampage = t + rampageEveryMS

		default:
			push(event.Event{Timestamp: t, Kind: event.KindCast, SourceID: playerID, TargetID: bossID, Ability: bloodthirst})
		}

		if enrageUntil >= 0 && enrageUntil <= t+gcdMS && enrageUntil < cfg.DurationMS {
			push(event.Event{Timestamp: enrageUntil, Kind: event.KindRemoveBuff, SourceID: playerID, TargetID: playerID, Ability: enrage})
			enrageUntil = -1
		}

		for nextSwing <= t {
			dmg := int64(meleeDamageBase + rng.Intn(meleeDamageBase/2))
			push(event.Event{Timestamp: nextSwing, Kind: event.KindDamage, SourceID: playerID, TargetID: bossID, Ability: melee, Amount: dmg})
			nextSwing += meleeSwingMS
		}
		for nextPetSwing <= t {
			dmg := int64(rng.Intn(meleeDamageBase / 4))
			push(event.Event{Timestamp: nextPetSwing, Kind: event.KindDamage, SourceID: petID, TargetID: bossID, Ability: melee, Amount: dmg})
			nextPetSwing += meleeSwingMS
		}
	}

	return &Payload{
		Profile: cfg.Profile,
		Combatant: combatant.Info{
			ID:      playerID,
			Spec:    "fury",
			Pets:    []int{petID},
			Talents: []int{enrageTalentID},
		},
		Encounter: enc,
		Events:    events,
	}
}
