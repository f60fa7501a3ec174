// Package domain contains the core domain models for package descriptors and their dependency graph.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the resolution graph of workspace packages and prebuilt external providers.
type Graph struct {
	root       string
	packages   map[InternedString]*Descriptor
	insertion  []InternedString
	externals  map[InternedString]Requirement
	dependents map[InternedString][]InternedString
	buildOrder []InternedString
	validated  bool
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		packages:   make(map[InternedString]*Descriptor),
		externals:  make(map[InternedString]Requirement),
		dependents: make(map[InternedString][]InternedString),
	}
}

// SetRoot sets the workspace root directory.
func (g *Graph) SetRoot(root string) {
	g.root = root
}

// Root returns the workspace root directory.
func (g *Graph) Root() string {
	return g.root
}

// AddPackage adds a workspace package to the graph.
// It returns an error if a package or external with the same name already exists.
func (g *Graph) AddPackage(d *Descriptor) error {
	if _, exists := g.packages[d.Name()]; exists {
		return zerr.With(ErrDuplicatePackage, "package", d.Name().String())
	}
	if _, exists := g.externals[d.Name()]; exists {
		return zerr.With(ErrDuplicatePackage, "package", d.Name().String())
	}
	g.packages[d.Name()] = d
	g.insertion = append(g.insertion, d.Name())
	g.validated = false
	return nil
}

// AddExternal registers a prebuilt provider that satisfies requirements without being built.
func (g *Graph) AddExternal(req Requirement) error {
	if _, exists := g.packages[req.Name]; exists {
		return zerr.With(ErrDuplicatePackage, "package", req.Name.String())
	}
	if prev, exists := g.externals[req.Name]; exists && prev.Version != req.Version {
		return zerr.With(ErrDuplicatePackage, "package", req.Name.String())
	}
	g.externals[req.Name] = req
	g.validated = false
	return nil
}

// Get returns the descriptor of a workspace package.
func (g *Graph) Get(name InternedString) (*Descriptor, bool) {
	d, ok := g.packages[name]
	return d, ok
}

// IsExternal reports whether name is provided by a prebuilt external.
func (g *Graph) IsExternal(name InternedString) bool {
	_, ok := g.externals[name]
	return ok
}

// Externals returns the external providers sorted by name.
func (g *Graph) Externals() []Requirement {
	out := make([]Requirement, 0, len(g.externals))
	for _, r := range g.externals {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Requirement) int { return a.Name.Compare(b.Name) })
	return out
}

// Count returns the number of workspace packages.
func (g *Graph) Count() int {
	return len(g.packages)
}

// Validate checks that every requirement has a provider with the exact version,
// rejects cycles and computes the build order.
func (g *Graph) Validate() error {
	g.validated = false
	g.dependents = make(map[InternedString][]InternedString, len(g.packages))

	for _, name := range g.insertion {
		d := g.packages[name]
		for _, req := range d.Requires() {
			if err := g.checkProvider(d, req); err != nil {
				return err
			}
			if _, internal := g.packages[req.Name]; internal {
				g.dependents[req.Name] = append(g.dependents[req.Name], name)
			}
		}
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return err
	}
	g.buildOrder = order
	g.validated = true
	return nil
}

func (g *Graph) checkProvider(d *Descriptor, req Requirement) error {
	var available string
	if p, ok := g.packages[req.Name]; ok {
		if p.Version() == req.Version {
			return nil
		}
		available = p.Ref()
	} else if e, ok := g.externals[req.Name]; ok {
		if e.Version == req.Version {
			return nil
		}
		available = e.String()
	}

	err := zerr.With(ErrInvalidVersionConstraint, "package", d.Name().String())
	err = zerr.With(err, "requirement", req.String())
	if available != "" {
		err = zerr.With(err, "available", available)
	}
	return err
}

// topologicalOrder walks packages depth-first in insertion order, visiting
// requirements in declaration order, so the result is deterministic.
func (g *Graph) topologicalOrder() ([]InternedString, error) {
	order := make([]InternedString, 0, len(g.packages))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.internalDependencies(u) {
			switch visited[dep] {
			case 1:
				return buildCycleError(path, dep)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		order = append(order, u)
		return nil
	}

	for _, name := range g.insertion {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

func buildCycleError(path []InternedString, dep InternedString) error {
	start := slices.Index(path, dep)
	names := make([]string, 0, len(path)-start+1)
	for _, n := range path[start:] {
		names = append(names, n.String())
	}
	names = append(names, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(names, " -> "))
}

func (g *Graph) internalDependencies(name InternedString) []InternedString {
	d, ok := g.packages[name]
	if !ok {
		return nil
	}
	var deps []InternedString
	for _, req := range d.Requires() {
		if _, internal := g.packages[req.Name]; internal {
			deps = append(deps, req.Name)
		}
	}
	return deps
}

// Dependencies returns the workspace packages name requires directly, in declaration order.
func (g *Graph) Dependencies(name InternedString) []InternedString {
	return g.internalDependencies(name)
}

// Dependents returns the workspace packages that require name directly.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return slices.Clone(g.dependents[name])
}

// Closure returns names plus all of their transitive workspace dependencies.
func (g *Graph) Closure(names []InternedString) (map[InternedString]bool, error) {
	set := make(map[InternedString]bool)
	queue := make([]InternedString, 0, len(names))
	for _, n := range names {
		if _, ok := g.packages[n]; !ok {
			return nil, zerr.With(ErrPackageNotFound, "package", n.String())
		}
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if set[cur] {
			continue
		}
		set[cur] = true
		queue = append(queue, g.internalDependencies(cur)...)
	}
	return set, nil
}

// Reaches reports whether from transitively depends on to.
func (g *Graph) Reaches(from, to InternedString) bool {
	closure, err := g.Closure([]InternedString{from})
	return err == nil && from != to && closure[to]
}

// consumers returns every package that transitively depends on name.
func (g *Graph) consumers(name InternedString) []InternedString {
	seen := make(map[InternedString]bool)
	queue := slices.Clone(g.dependents[name])
	var out []InternedString
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, g.dependents[cur]...)
	}
	return out
}

// ResolveOptions computes the effective options of a package. Applicable rules are
// the package's own rules plus every transitive consumer's rules whose selector
// matches the package. Two applicable rules disagreeing on a value is an error.
func (g *Graph) ResolveOptions(name InternedString) (map[string]string, error) {
	if !g.validated {
		return nil, ErrGraphNotValidated
	}
	d, ok := g.packages[name]
	if !ok {
		return nil, zerr.With(ErrPackageNotFound, "package", name.String())
	}

	sources := append([]*Descriptor{d}, g.descriptors(g.consumers(name))...)

	chosen := make(map[string]OptionRule)
	for _, src := range sources {
		for _, rule := range src.DefaultOptions() {
			if !rule.Matches(name.String()) {
				continue
			}
			prev, exists := chosen[rule.Option]
			if !exists {
				chosen[rule.Option] = rule
				continue
			}
			if prev.Value != rule.Value {
				err := zerr.With(ErrConflictingOption, "package", name.String())
				err = zerr.With(err, "option", rule.Option)
				err = zerr.With(err, "first", prev.String())
				return nil, zerr.With(err, "second", rule.String())
			}
		}
	}

	options := make(map[string]string, len(chosen))
	for opt, rule := range chosen {
		options[opt] = rule.Value
	}
	return options, nil
}

func (g *Graph) descriptors(names []InternedString) []*Descriptor {
	out := make([]*Descriptor, 0, len(names))
	for _, n := range names {
		out = append(out, g.packages[n])
	}
	return out
}

// Walk returns an iterator that yields packages in build order (dependencies first).
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Descriptor] {
	return func(yield func(*Descriptor) bool) {
		for _, name := range g.buildOrder {
			if !yield(g.packages[name]) {
				return
			}
		}
	}
}

// BuildOrder returns the package names in build order.
func (g *Graph) BuildOrder() []InternedString {
	return slices.Clone(g.buildOrder)
}
