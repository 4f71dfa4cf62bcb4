package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for resolution errors. The typed errors below unwrap to
// these so callers can branch with errors.Is.
var (
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrCyclicDependency  = errors.New("cyclic dependency")
	ErrDuplicateModule   = errors.New("duplicate module name")
)

// UnknownDependencyError reports a declared dependency with no table entry.
type UnknownDependencyError struct {
	// Module is the declaring module's table name.
	Module string
	// Local is the local name under which the dependency was declared.
	Local string
	// Missing is the referenced table name that does not exist.
	Missing string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("module %q: unknown dependency %q (declared as %q)", e.Module, e.Missing, e.Local)
}

func (e *UnknownDependencyError) Unwrap() error { return ErrUnknownDependency }

// CyclicDependencyError reports a dependency cycle with its member names in
// traversal order.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// DuplicateModuleError reports a table declaring the same name twice.
type DuplicateModuleError struct {
	Module string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module name %q", e.Module)
}

func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }
