package engine

import (
	"context"
	"fmt"

	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/domain/suggestion"
	"github.com/okian/melee/pkg/logger"
	"github.com/okian/melee/pkg/metrics"
)

// instance pairs a constructed module with its declaration and the handler
// table populated at construction. The active flag is snapshotted once.
type instance struct {
	spec     Spec
	module   Module
	active   bool
	handlers map[handlerKey]HandlerFunc
}

// Engine owns the module instances of one analysis run and replays the
// event sequence through them.
type Engine struct {
	combatant *combatant.Info
	encounter event.Encounter
	order     []*instance
	byName    map[string]*instance
	log       logger.Logger

	dispatched  int
	skipped     int
	invocations int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New resolves the table and constructs every module in plan order. Each
// module is constructed exactly once; its factory may query the combatant,
// look up already-constructed dependencies, register handlers and decide
// activation. A factory error aborts construction.
func New(table Table, cbt *combatant.Info, enc event.Encounter, opts ...Option) (*Engine, error) {
	plan, err := Resolve(table)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		combatant: cbt,
		encounter: enc,
		order:     make([]*instance, 0, len(plan)),
		byName:    make(map[string]*instance, len(plan)),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	active := 0
	for _, spec := range plan {
		deps := make(map[string]Module, len(spec.Deps))
		for local, target := range spec.Deps {
			// Resolution order guarantees the target instance exists.
			deps[local] = e.byName[target].module
		}

		b := &Build{
			Combatant: cbt,
			Encounter: enc,
			Config:    spec.Config,
			name:      spec.Name,
			deps:      deps,
			handlers:  make(map[handlerKey]HandlerFunc),
		}
		m, err := spec.New(b)
		if err != nil {
			return nil, fmt.Errorf("construct module %q: %w", spec.Name, err)
		}

		inst := &instance{
			spec:     spec,
			module:   m,
			active:   m.Active(),
			handlers: b.handlers,
		}
		e.order = append(e.order, inst)
		e.byName[spec.Name] = inst
		if inst.active {
			active++
		}
	}

	metrics.UpdateModulesActive(active)
	return e, nil
}

// Module returns the instance registered under the table name.
func (e *Engine) Module(name string) (Module, bool) {
	inst, ok := e.byName[name]
	if !ok {
		return nil, false
	}
	return inst.module, true
}

// sourceScope classifies the event's source relative to the combatant.
func (e *Engine) sourceScope(ev *event.Event) Scope {
	switch {
	case ev.SourceID == e.combatant.ID:
		return ByPlayer
	case e.combatant.OwnsPet(ev.SourceID):
		return ByPlayerPet
	default:
		return ByOther
	}
}

// Run replays the ordered event sequence once. For every event, every active
// module is visited in resolution order; within a module, matching handlers
// fire in fixed precedence: the source scope, then ToPlayer when the event
// targets the combatant, then (AnyScope, kind), then the catch-all. A run
// either completes over the full sequence or not at all: malformed events
// are skipped and counted, while a panicking handler propagates to the
// caller.
func (e *Engine) Run(ctx context.Context, events []event.Event) {
	for i := range events {
		ev := &events[i]
		if !ev.Valid() {
			e.skipped++
			metrics.RecordEventSkipped()
			e.log.Debug(ctx, "skipping malformed event",
				logger.Int64("timestamp", ev.Timestamp),
				logger.String("kind", ev.Kind.String()),
			)
			continue
		}

		src := e.sourceScope(ev)
		toPlayer := ev.TargetID == e.combatant.ID

		for _, inst := range e.order {
			if !inst.active {
				continue
			}
			e.fire(inst, handlerKey{scope: src, kind: ev.Kind}, ev)
			if toPlayer {
				e.fire(inst, handlerKey{scope: ToPlayer, kind: ev.Kind}, ev)
			}
			e.fire(inst, handlerKey{scope: AnyScope, kind: ev.Kind}, ev)
			e.fire(inst, handlerKey{scope: AnyScope, kind: AnyKind}, ev)
		}

		e.dispatched++
		metrics.RecordEventDispatched()
	}
	metrics.RecordHandlerInvocations(e.invocations)
}

func (e *Engine) fire(inst *instance, key handlerKey, ev *event.Event) {
	fn, ok := inst.handlers[key]
	if !ok {
		return
	}
	fn(ev)
	e.invocations++
}

// Dispatched returns the number of events routed through the dispatcher.
func (e *Engine) Dispatched() int { return e.dispatched }

// Skipped returns the number of malformed events skipped.
func (e *Engine) Skipped() int { return e.skipped }

// suggestionCollector implements suggestion.Registrar, stamping the module
// name on suggestions that do not carry one.
type suggestionCollector struct {
	module string
	items  []suggestion.Suggestion
}

func (c *suggestionCollector) Add(s suggestion.Suggestion) {
	if s.Module == "" {
		s.Module = c.module
	}
	c.items = append(c.items, s)
}

// Collect gathers statistics and suggestions from active modules in
// resolution order.
func (e *Engine) Collect() ([]report.Statistic, []suggestion.Suggestion) {
	stats := make([]report.Statistic, 0, len(e.order))
	collector := &suggestionCollector{}

	for _, inst := range e.order {
		if !inst.active {
			continue
		}
		if sp, ok := inst.module.(StatisticProducer); ok {
			if st := sp.Statistic(); st != nil {
				if st.Module == "" {
					st.Module = inst.spec.Name
				}
				stats = append(stats, *st)
			}
		}
		if sg, ok := inst.module.(SuggestionProducer); ok {
			collector.module = inst.spec.Name
			sg.Suggestions(collector)
		}
	}
	return stats, collector.items
}
