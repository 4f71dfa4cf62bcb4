package combatant_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/melee/internal/domain/combatant"
)

func TestInfo_Queries(t *testing.T) {
	Convey("Given a combatant snapshot", t, func() {
		info := combatant.Info{
			ID:      7,
			Spec:    "fury",
			Pets:    []int{12, 13},
			Talents: []int{206315},
			Traits:  []int{301, 302},
			Items:   []int{151307},
		}

		Convey("Then talent, trait, item and pet lookups answer correctly", func() {
			So(info.HasTalent(206315), ShouldBeTrue)
			So(info.HasTalent(999), ShouldBeFalse)
			So(info.HasTrait(302), ShouldBeTrue)
			So(info.HasTrait(0), ShouldBeFalse)
			So(info.HasItem(151307), ShouldBeTrue)
			So(info.OwnsPet(12), ShouldBeTrue)
			So(info.OwnsPet(7), ShouldBeFalse)
		})
	})

	Convey("Given an empty snapshot", t, func() {
		var info combatant.Info

		Convey("Then every lookup answers false", func() {
			So(info.HasTalent(1), ShouldBeFalse)
			So(info.HasTrait(1), ShouldBeFalse)
			So(info.HasItem(1), ShouldBeFalse)
			So(info.OwnsPet(1), ShouldBeFalse)
		})
	})
}
