package domain

import "go.trai.ch/zerr"

// PackageState is the build lifecycle state of a package within one run.
type PackageState string

const (
	// StateDeclared is the initial state: the descriptor is known, nothing is resolved.
	StateDeclared PackageState = "declared"
	// StateLayoutResolved indicates the layout has been computed.
	StateLayoutResolved PackageState = "layout-resolved"
	// StateBuilt indicates the build completed.
	StateBuilt PackageState = "built"
	// StateCached indicates the build was skipped because nothing changed since the last build.
	StateCached PackageState = "cached"
	// StateFailed indicates the build or one of its dependencies failed.
	StateFailed PackageState = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s PackageState) IsTerminal() bool {
	switch s {
	case StateBuilt, StateCached, StateFailed:
		return true
	default:
		return false
	}
}

// Transition validates moving from s to next and returns next.
// Declared -> LayoutResolved -> Built|Cached|Failed. Declared -> Failed is allowed for
// packages whose dependencies failed before their layout was needed.
func (s PackageState) Transition(next PackageState) (PackageState, error) {
	ok := false
	switch s {
	case StateDeclared:
		ok = next == StateLayoutResolved || next == StateFailed
	case StateLayoutResolved:
		ok = next == StateBuilt || next == StateCached || next == StateFailed
	}
	if !ok {
		err := zerr.With(ErrInvalidTransition, "from", string(s))
		return s, zerr.With(err, "to", string(next))
	}
	return next, nil
}
