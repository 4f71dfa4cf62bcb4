package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/melee/internal/domain/dedupe"
)

func TestHashBytes(t *testing.T) {
	Convey("Given two payloads", t, func() {
		a := []byte(`{"profile":"fury"}`)
		b := []byte(`{"profile":"default"}`)

		Convey("Then equal payloads hash equally and different ones differ", func() {
			So(dedupe.HashBytes(a), ShouldEqual, dedupe.HashBytes(a))
			So(dedupe.HashBytes(a), ShouldNotEqual, dedupe.HashBytes(b))
		})

		Convey("And the hash is hex-encoded and non-empty", func() {
			So(len(dedupe.HashBytes(a)), ShouldEqual, 16)
		})
	})
}

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an id is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "hash-1")
			second := d.SeenAndRecord(ctx, "hash-1")

			Convey("Then only the second sighting reports seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "hash-1")
			d.Unrecord(ctx, "hash-1")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "hash-1"), ShouldBeFalse)
			})
		})

		Convey("When an unknown id is unrecorded", func() {
			d.Unrecord(ctx, "never-seen")
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a deduper bounded to 3 entries", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When a fourth id arrives", func() {
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("hash-%d", i))
			}

			Convey("Then the oldest id is forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "hash-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "hash-3"), ShouldBeTrue)
			})
		})
	})
}
