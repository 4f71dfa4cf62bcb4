package engine

// Spec declares one module in a table: its name, the modules it depends on
// (local name -> table name), an opaque configuration object passed through
// to the factory, and the factory itself.
type Spec struct {
	Name   string
	Deps   map[string]string
	Config any
	New    Factory
}

// Table is the ordered set of module declarations for one analysis profile.
// Declaration order breaks ties between independent modules, so plans are
// reproducible for a given table.
type Table []Spec

// index maps names to positions, rejecting duplicates.
func (t Table) index() (map[string]int, error) {
	idx := make(map[string]int, len(t))
	for i, s := range t {
		if _, dup := idx[s.Name]; dup {
			return nil, &DuplicateModuleError{Module: s.Name}
		}
		idx[s.Name] = i
	}
	return idx, nil
}
