// Package combatant holds the read-only snapshot of the analyzed participant.
package combatant

// Info describes the analyzed participant for one run. It is built once by
// the caller and never mutated; modules query it during construction to
// decide activation, and the dispatcher uses it to scope events.
type Info struct {
	ID      int    `json:"id"`
	Spec    string `json:"spec"`
	Pets    []int  `json:"pets,omitempty"`
	Talents []int  `json:"talents,omitempty"`
	Traits  []int  `json:"traits,omitempty"`
	Items   []int  `json:"items,omitempty"`
}

// HasTalent reports whether the participant selected the given talent.
func (i *Info) HasTalent(id int) bool { return contains(i.Talents, id) }

// HasTrait reports whether the participant equipped the given trait.
func (i *Info) HasTrait(id int) bool { return contains(i.Traits, id) }

// HasItem reports whether the participant equipped the given item.
func (i *Info) HasItem(id int) bool { return contains(i.Items, id) }

// OwnsPet reports whether the entity id is a pet of the participant.
func (i *Info) OwnsPet(entityID int) bool { return contains(i.Pets, entityID) }

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
