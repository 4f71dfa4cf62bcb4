package engine

import "sort"

// Resolve computes a deterministic instantiation plan for the table: every
// module appears after all modules it (transitively) depends on. Ties
// between independent modules preserve table declaration order. Resolution
// fails before any module is constructed on unknown or cyclic dependencies.
func Resolve(table Table) ([]Spec, error) {
	idx, err := table.index()
	if err != nil {
		return nil, err
	}

	const (
		white = iota // unvisited
		gray         // on the current DFS path
		black        // placed in the plan
	)

	color := make([]int, len(table))
	plan := make([]Spec, 0, len(table))
	stack := make([]string, 0, len(table))

	var visit func(i int) error
	visit = func(i int) error {
		switch color[i] {
		case black:
			return nil
		case gray:
			// A gray revisit closes a cycle; report the members from the
			// first occurrence on the path.
			name := table[i].Name
			for k, n := range stack {
				if n == name {
					cycle := append(append([]string{}, stack[k:]...), name)
					return &CyclicDependencyError{Cycle: cycle}
				}
			}
			return &CyclicDependencyError{Cycle: []string{name}}
		}

		color[i] = gray
		stack = append(stack, table[i].Name)

		// Sorted local names keep edge order independent of map iteration.
		locals := make([]string, 0, len(table[i].Deps))
		for local := range table[i].Deps {
			locals = append(locals, local)
		}
		sort.Strings(locals)

		for _, local := range locals {
			target := table[i].Deps[local]
			j, ok := idx[target]
			if !ok {
				return &UnknownDependencyError{
					Module:  table[i].Name,
					Local:   local,
					Missing: target,
				}
			}
			if err := visit(j); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		color[i] = black
		plan = append(plan, table[i])
		return nil
	}

	for i := range table {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
