package engine_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/domain/suggestion"
	"github.com/okian/melee/internal/engine"
)

// recorder counts handler invocations by scope.
type recorder struct {
	engine.Base
	byPlayer int
	byPet    int
	toPlayer int
	byOther  int
	all      int
}

func newRecorder(deactivated bool) engine.Factory {
	return func(b *engine.Build) (engine.Module, error) {
		m := &recorder{}
		if deactivated {
			m.Deactivate()
		}
		b.On(engine.ByPlayer, event.KindCast, func(ev *event.Event) { m.byPlayer++ })
		b.On(engine.ByPlayerPet, event.KindDamage, func(ev *event.Event) { m.byPet++ })
		b.On(engine.ToPlayer, event.KindApplyBuff, func(ev *event.Event) { m.toPlayer++ })
		b.On(engine.ByOther, event.KindDamage, func(ev *event.Event) { m.byOther++ })
		b.On(engine.AnyScope, engine.AnyKind, func(ev *event.Event) { m.all++ })
		return m, nil
	}
}

func testCombatant() *combatant.Info {
	return &combatant.Info{ID: 1, Spec: "fury", Pets: []int{2}}
}

func testEncounter() event.Encounter {
	return event.Encounter{StartTime: 0, EndTime: 10_000}
}

func TestEngine_Dispatch(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine with one recording module", t, func() {
		table := engine.Table{{Name: "rec", New: newRecorder(false)}}
		eng, err := engine.New(table, testCombatant(), testEncounter())
		So(err, ShouldBeNil)

		m, ok := eng.Module("rec")
		So(ok, ShouldBeTrue)
		rec := m.(*recorder)

		Convey("When events from every scope are dispatched", func() {
			events := []event.Event{
				{Timestamp: 100, Kind: event.KindCast, SourceID: 1, TargetID: 100, Ability: event.Ability{ID: 10}},
				{Timestamp: 200, Kind: event.KindDamage, SourceID: 2, TargetID: 100, Ability: event.Ability{ID: 11}, Amount: 50},
				{Timestamp: 300, Kind: event.KindApplyBuff, SourceID: 100, TargetID: 1, Ability: event.Ability{ID: 12}},
				{Timestamp: 400, Kind: event.KindDamage, SourceID: 100, TargetID: 1, Ability: event.Ability{ID: 13}, Amount: 75},
			}
			eng.Run(ctx, events)

			Convey("Then each handler fires for its scope only", func() {
				So(rec.byPlayer, ShouldEqual, 1)
				So(rec.byPet, ShouldEqual, 1)
				So(rec.toPlayer, ShouldEqual, 1)
				So(rec.byOther, ShouldEqual, 1)
			})

			Convey("And the catch-all fires for every valid event", func() {
				So(rec.all, ShouldEqual, 4)
				So(eng.Dispatched(), ShouldEqual, 4)
				So(eng.Skipped(), ShouldEqual, 0)
			})
		})

		Convey("When a self-targeted buff is dispatched", func() {
			events := []event.Event{
				{Timestamp: 100, Kind: event.KindApplyBuff, SourceID: 1, TargetID: 1, Ability: event.Ability{ID: 12}},
			}
			eng.Run(ctx, events)

			Convey("Then the to-player handler still fires", func() {
				So(rec.toPlayer, ShouldEqual, 1)
			})
		})

		Convey("When malformed events are mixed in", func() {
			events := []event.Event{
				{Timestamp: -5, Kind: event.KindCast, SourceID: 1, Ability: event.Ability{ID: 10}},
				{Timestamp: 100, Kind: event.KindCast, SourceID: 1, TargetID: 100}, // missing ability
				{Timestamp: 200, Kind: event.KindCast, SourceID: 1, TargetID: 100, Ability: event.Ability{ID: 10}},
			}
			eng.Run(ctx, events)

			Convey("Then they are skipped and counted, and valid ones dispatch", func() {
				So(eng.Skipped(), ShouldEqual, 2)
				So(eng.Dispatched(), ShouldEqual, 1)
				So(rec.byPlayer, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an engine whose module deactivated at construction", t, func() {
		table := engine.Table{{Name: "rec", New: newRecorder(true)}}
		eng, err := engine.New(table, testCombatant(), testEncounter())
		So(err, ShouldBeNil)

		Convey("When events are dispatched", func() {
			events := []event.Event{
				{Timestamp: 100, Kind: event.KindCast, SourceID: 1, TargetID: 100, Ability: event.Ability{ID: 10}},
			}
			eng.Run(ctx, events)

			Convey("Then the module receives nothing", func() {
				m, _ := eng.Module("rec")
				rec := m.(*recorder)
				So(rec.byPlayer, ShouldEqual, 0)
				So(rec.all, ShouldEqual, 0)
			})

			Convey("And dispatch counters still advance", func() {
				So(eng.Dispatched(), ShouldEqual, 1)
			})
		})
	})
}

// producer emits a fixed statistic and suggestion for Collect tests.
type producer struct {
	engine.Base
	name string
}

func (p *producer) Statistic() *report.Statistic {
	return &report.Statistic{Label: p.name, Value: 1, Unit: report.UnitCount}
}

func (p *producer) Suggestions(reg suggestion.Registrar) {
	reg.Add(suggestion.Suggestion{Metric: p.name})
}

func TestEngine_Collect(t *testing.T) {
	ctx := context.Background()

	Convey("Given producing modules with a dependency between them", t, func() {
		factory := func(b *engine.Build) (engine.Module, error) {
			return &producer{name: b.Name()}, nil
		}
		table := engine.Table{
			{Name: "second", Deps: map[string]string{"first": "first"}, New: factory},
			{Name: "first", New: factory},
		}
		eng, err := engine.New(table, testCombatant(), testEncounter())
		So(err, ShouldBeNil)
		eng.Run(ctx, nil)

		Convey("When output is collected", func() {
			stats, suggestions := eng.Collect()

			Convey("Then output follows resolution order", func() {
				So(len(stats), ShouldEqual, 2)
				So(stats[0].Label, ShouldEqual, "first")
				So(stats[1].Label, ShouldEqual, "second")
			})

			Convey("And suggestions are stamped with the module name", func() {
				So(len(suggestions), ShouldEqual, 2)
				So(suggestions[0].Module, ShouldEqual, "first")
				So(suggestions[1].Module, ShouldEqual, "second")
			})
		})
	})

	Convey("Given two engines built from the same table", t, func() {
		table := engine.Table{{Name: "rec", New: newRecorder(false)}}
		events := []event.Event{
			{Timestamp: 100, Kind: event.KindCast, SourceID: 1, TargetID: 100, Ability: event.Ability{ID: 10}},
			{Timestamp: 200, Kind: event.KindDamage, SourceID: 2, TargetID: 100, Ability: event.Ability{ID: 11}, Amount: 50},
		}

		Convey("Then identical runs yield identical counters", func() {
			first, err := engine.New(table, testCombatant(), testEncounter())
			So(err, ShouldBeNil)
			second, err := engine.New(table, testCombatant(), testEncounter())
			So(err, ShouldBeNil)

			first.Run(ctx, append([]event.Event{}, events...))
			second.Run(ctx, append([]event.Event{}, events...))

			So(first.Dispatched(), ShouldEqual, second.Dispatched())
			m1, _ := first.Module("rec")
			m2, _ := second.Module("rec")
			So(m1.(*recorder).all, ShouldEqual, m2.(*recorder).all)
		})
	})
}

// depReader asserts dependencies are constructed before their dependents.
func TestEngine_DependencyAccess(t *testing.T) {
	Convey("Given a module that reads its dependency during construction", t, func() {
		var sawActive bool
		table := engine.Table{
			{Name: "reader", Deps: map[string]string{"rec": "rec"}, New: func(b *engine.Build) (engine.Module, error) {
				dep := b.Dep("rec")
				sawActive = dep.Active()
				return &passive{}, nil
			}},
			{Name: "rec", New: newRecorder(false)},
		}

		Convey("Then construction succeeds and the dependency was live", func() {
			_, err := engine.New(table, testCombatant(), testEncounter())
			So(err, ShouldBeNil)
			So(sawActive, ShouldBeTrue)
		})
	})

	Convey("Given a factory that fails", t, func() {
		table := engine.Table{
			{Name: "boom", New: func(b *engine.Build) (engine.Module, error) {
				return nil, errBoom
			}},
		}

		Convey("Then engine construction fails with the wrapped cause", func() {
			_, err := engine.New(table, testCombatant(), testEncounter())
			So(err, ShouldNotBeNil)
			So(errors.Is(err, errBoom), ShouldBeTrue)
		})
	})
}

var errBoom = errors.New("boom")
