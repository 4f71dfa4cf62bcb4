// Package engine implements the module framework and event-dispatch core:
// dependency resolution over a declared module table, ordered construction
// with shared contextual state, and a single deterministic dispatch pass
// over the encounter log.
package engine

import (
	"fmt"

	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/domain/suggestion"
)

// Module is the minimal contract every analysis module implements.
// The active flag is decided once at construction and never revisited;
// inactive modules receive no events and contribute no output.
type Module interface {
	Active() bool
}

// Base is an embeddable default Module implementation. The zero value is
// active; construction code calls Deactivate to opt out of the run.
type Base struct {
	inactive bool
}

// Active reports whether the module participates in dispatch.
func (b *Base) Active() bool { return !b.inactive }

// Deactivate opts the module out of the run. Only meaningful during
// construction; the engine snapshots the flag once afterwards.
func (b *Base) Deactivate() { b.inactive = true }

// StatisticProducer is implemented by modules that expose a statistic after
// the run. A nil return means nothing to show.
type StatisticProducer interface {
	Statistic() *report.Statistic
}

// SuggestionProducer is implemented by modules that surface judgments after
// the run, one Add call per judgment.
type SuggestionProducer interface {
	Suggestions(reg suggestion.Registrar)
}

// Scope is the relationship between an event's source/target and the
// analyzed participant. Exactly one of ByPlayer, ByPlayerPet and ByOther
// holds per event (source relation); ToPlayer holds independently whenever
// the event targets the participant.
type Scope uint8

// Dispatch scopes. AnyScope registers a handler for every event of a kind
// regardless of scope.
const (
	AnyScope    Scope = 0
	ByPlayer    Scope = 1 << 0
	ByPlayerPet Scope = 1 << 1
	ToPlayer    Scope = 1 << 2
	ByOther     Scope = 1 << 3
)

// String returns a readable scope name.
func (s Scope) String() string {
	switch s {
	case ByPlayer:
		return "by-player"
	case ByPlayerPet:
		return "by-player-pet"
	case ToPlayer:
		return "to-player"
	case ByOther:
		return "by-other"
	default:
		return "any"
	}
}

// AnyKind registers a handler for every event kind. Combined with AnyScope
// it yields a catch-all handler.
const AnyKind event.Kind = 0xFF

// HandlerFunc reacts to one dispatched event. Events must be treated as
// immutable; handlers mutate only their own module's state or, through
// query/mutator methods, the state of declared dependencies.
type HandlerFunc func(ev *event.Event)

type handlerKey struct {
	scope Scope
	kind  event.Kind
}

// Build is the construction context handed to a module factory. It carries
// the combatant snapshot, the encounter window, the declaration's opaque
// configuration, the resolved dependency instances, and the handler
// registration table.
type Build struct {
	Combatant *combatant.Info
	Encounter event.Encounter
	Config    any

	name     string
	deps     map[string]Module
	handlers map[handlerKey]HandlerFunc
}

// Name returns the module's table name.
func (b *Build) Name() string { return b.name }

// Dep returns the already-constructed dependency registered under the local
// name from the module's declaration. Asking for an undeclared name is a
// programming error and panics.
func (b *Build) Dep(local string) Module {
	m, ok := b.deps[local]
	if !ok {
		panic(fmt.Sprintf("module %q: undeclared dependency %q", b.name, local))
	}
	return m
}

// On registers a handler for the (scope, kind) pair. Registering the same
// pair twice keeps the last handler. Handlers registered here are the only
// dispatch mechanism; there is no name-based fallback.
func (b *Build) On(scope Scope, kind event.Kind, fn HandlerFunc) {
	if fn == nil {
		return
	}
	b.handlers[handlerKey{scope: scope, kind: kind}] = fn
}

// Factory constructs one module instance. It may read the combatant context
// and dependencies, register handlers, and deactivate the module.
type Factory func(b *Build) (Module, error)
