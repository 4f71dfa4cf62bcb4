// Package event contains the combat-log event model consumed by the engine.
//
// Events are immutable once produced and totally ordered by Timestamp;
// ties keep the original log order.
package event

import (
	"fmt"
	"sort"
)

// Kind identifies the variant of a log event.
type Kind uint8

// Event kinds.
const (
	KindUnknown Kind = iota
	KindCast
	KindDamage
	KindHeal
	KindApplyBuff
	KindApplyBuffStack
	KindRefreshBuff
	KindRemoveBuff
	KindRemoveBuffStack
	KindResourceChange
	KindDeath
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindCast:            "cast",
	KindDamage:          "damage",
	KindHeal:            "heal",
	KindApplyBuff:       "applybuff",
	KindApplyBuffStack:  "applybuffstack",
	KindRefreshBuff:     "refreshbuff",
	KindRemoveBuff:      "removebuff",
	KindRemoveBuffStack: "removebuffstack",
	KindResourceChange:  "resourcechange",
	KindDeath:           "death",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a wire name to a Kind. Unknown names map to KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// MarshalJSON encodes the kind as its wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// UnmarshalJSON decodes a wire name; unknown names become KindUnknown.
func (k *Kind) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid event kind: %s", string(b))
	}
	*k = ParseKind(string(b[1 : len(b)-1]))
	return nil
}

// Ability references the ability an event belongs to. The engine treats it
// as opaque; name and icon exist for downstream report layers.
type Ability struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// Resource carries the kind-specific payload of a resource-change event.
type Resource struct {
	Type   int   `json:"type"`
	Amount int64 `json:"amount"`
	Max    int64 `json:"max,omitempty"`
}

// Event is one immutable record from the encounter log.
// Timestamp is in milliseconds from encounter start.
type Event struct {
	Timestamp int64    `json:"timestamp"`
	Kind      Kind     `json:"kind"`
	SourceID  int      `json:"source_id"`
	TargetID  int      `json:"target_id"`
	Ability   Ability  `json:"ability"`
	Amount    int64    `json:"amount,omitempty"`
	Absorbed  int64    `json:"absorbed,omitempty"`
	Overheal  int64    `json:"overheal,omitempty"`
	Stack     int      `json:"stack,omitempty"`
	Resource  Resource `json:"resource"`
}

// Valid reports whether the event carries the fields required for its kind.
// Invalid events are skipped by the dispatcher rather than aborting a run.
func (e *Event) Valid() bool {
	if e.Timestamp < 0 || e.Kind == KindUnknown {
		return false
	}
	switch e.Kind {
	case KindCast, KindDamage, KindHeal,
		KindApplyBuff, KindApplyBuffStack, KindRefreshBuff,
		KindRemoveBuff, KindRemoveBuffStack:
		return e.Ability.ID != 0
	default:
		return true
	}
}

// SortStable orders events by Timestamp, preserving log order on ties.
func SortStable(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
}

// Encounter describes the analyzed window of the log.
// Times are in milliseconds on the same clock as Event.Timestamp.
type Encounter struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

// Duration returns the encounter length in milliseconds.
func (e Encounter) Duration() int64 {
	if e.EndTime < e.StartTime {
		return 0
	}
	return e.EndTime - e.StartTime
}

// Clip bounds t to the encounter window.
func (e Encounter) Clip(t int64) int64 {
	if t < e.StartTime {
		return e.StartTime
	}
	if t > e.EndTime {
		return e.EndTime
	}
	return t
}
