package buffs_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/engine"
	"github.com/okian/melee/internal/modules/buffs"
)

const buffID = 184362

func newTracker(t *testing.T, enc event.Encounter, events []event.Event) *buffs.Tracker {
	t.Helper()
	table := engine.Table{{Name: buffs.Name, New: buffs.New}}
	eng, err := engine.New(table, &combatant.Info{ID: 1}, enc)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	eng.Run(context.Background(), events)
	m, _ := eng.Module(buffs.Name)
	return m.(*buffs.Tracker)
}

func buffEvent(ts int64, kind event.Kind, stack int) event.Event {
	return event.Event{
		Timestamp: ts,
		Kind:      kind,
		SourceID:  1,
		TargetID:  1,
		Ability:   event.Ability{ID: buffID},
		Stack:     stack,
	}
}

func TestTracker_Uptime(t *testing.T) {
	enc := event.Encounter{StartTime: 0, EndTime: 10_000}

	Convey("Given one closed buff interval", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(1_000, event.KindApplyBuff, 0),
			buffEvent(4_000, event.KindRemoveBuff, 0),
		})

		Convey("Then uptime is the interval length", func() {
			So(tr.Uptime(buffID), ShouldEqual, 3_000)
			So(tr.UptimeFraction(buffID), ShouldEqual, 0.3)
		})

		Convey("And the buff reads as down afterwards", func() {
			So(tr.Active(buffID), ShouldBeFalse)
			So(tr.Stacks(buffID), ShouldEqual, 0)
		})
	})

	Convey("Given a buff still up at encounter end", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(6_000, event.KindApplyBuff, 0),
		})

		Convey("Then the open interval counts to the encounter end", func() {
			So(tr.Uptime(buffID), ShouldEqual, 4_000)
			So(tr.Active(buffID), ShouldBeTrue)
		})
	})

	Convey("Given a refresh without a visible apply", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(2_000, event.KindRefreshBuff, 0),
			buffEvent(5_000, event.KindRemoveBuff, 0),
		})

		Convey("Then the interval starts at the refresh", func() {
			So(tr.Uptime(buffID), ShouldEqual, 3_000)
		})
	})

	Convey("Given multiple intervals", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(0, event.KindApplyBuff, 0),
			buffEvent(2_000, event.KindRemoveBuff, 0),
			buffEvent(7_000, event.KindApplyBuff, 0),
			buffEvent(8_500, event.KindRemoveBuff, 0),
		})

		Convey("Then intervals accumulate", func() {
			So(tr.Uptime(buffID), ShouldEqual, 3_500)
		})
	})

	Convey("Given a remove without an apply", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(3_000, event.KindRemoveBuff, 0),
		})

		Convey("Then nothing accumulates", func() {
			So(tr.Uptime(buffID), ShouldEqual, 0)
		})
	})

	Convey("Given an unknown buff id", t, func() {
		tr := newTracker(t, enc, nil)
		So(tr.Uptime(999), ShouldEqual, 0)
		So(tr.UptimeFraction(999), ShouldEqual, 0)
	})
}

func TestTracker_Stacks(t *testing.T) {
	enc := event.Encounter{StartTime: 0, EndTime: 10_000}

	Convey("Given stack events", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(1_000, event.KindApplyBuff, 1),
			buffEvent(2_000, event.KindApplyBuffStack, 2),
			buffEvent(3_000, event.KindApplyBuffStack, 3),
			buffEvent(4_000, event.KindRemoveBuffStack, 2),
		})

		Convey("Then the tracker follows the explicit stack counts", func() {
			So(tr.Stacks(buffID), ShouldEqual, 2)
			So(tr.Active(buffID), ShouldBeTrue)
		})
	})

	Convey("Given stack events without explicit counts", t, func() {
		tr := newTracker(t, enc, []event.Event{
			buffEvent(1_000, event.KindApplyBuff, 0),
			buffEvent(2_000, event.KindApplyBuffStack, 0),
			buffEvent(3_000, event.KindRemoveBuffStack, 0),
		})

		Convey("Then stacks are inferred by counting", func() {
			So(tr.Stacks(buffID), ShouldEqual, 1)
		})
	})
}
