package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// RootPackageName addresses a workspace root descriptor that declares no name.
const RootPackageName = "root"

// DefaultLanguageStandard is the C++ standard forced onto the compiler settings.
const DefaultLanguageStandard = "20"

// GeneratorCMakeToolchain is the generator producing the CMake toolchain file.
const GeneratorCMakeToolchain = "CMakeToolchain"

// Placement decides where a package's build directory lives relative to its folder.
type Placement string

const (
	// PlacementSelf puts the build directory inside the package folder.
	PlacementSelf Placement = "self"
	// PlacementParent puts the build directory in the parent of the package folder,
	// for packages built as sub-projects of a larger workspace.
	PlacementParent Placement = "parent"
)

// ParsePlacement validates a placement value. Empty means PlacementSelf.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case "", PlacementSelf:
		return PlacementSelf, nil
	case PlacementParent:
		return PlacementParent, nil
	default:
		return "", zerr.With(ErrInvalidPlacement, "layout", s)
	}
}

// DescriptorSpec carries the raw fields used to build a Descriptor.
type DescriptorSpec struct {
	Name             string
	Version          string
	Dir              string
	Generators       []string
	Requires         []string
	ExportsSources   []string
	DefaultOptions   []OptionRule
	LanguageStandard string
	Placement        Placement
}

// Descriptor is the immutable metadata record of a buildable package.
type Descriptor struct {
	name             InternedString
	anonymous        bool
	version          string
	dir              string
	generators       []string
	requires         []Requirement
	exportsSources   []string
	defaultOptions   []OptionRule
	languageStandard string
	placement        Placement
}

// NewDescriptor validates spec and returns a Descriptor.
func NewDescriptor(spec DescriptorSpec) (*Descriptor, error) {
	d := &Descriptor{
		version:          spec.Version,
		dir:              spec.Dir,
		generators:       slices.Clone(spec.Generators),
		exportsSources:   slices.Clone(spec.ExportsSources),
		languageStandard: spec.LanguageStandard,
		placement:        spec.Placement,
	}

	name := spec.Name
	if name == "" {
		name = RootPackageName
		d.anonymous = true
	}
	d.name = NewInternedString(name)

	if d.languageStandard == "" {
		d.languageStandard = DefaultLanguageStandard
	}
	if d.placement == "" {
		d.placement = PlacementSelf
	}
	if !slices.Contains(d.generators, GeneratorCMakeToolchain) {
		d.generators = append(d.generators, GeneratorCMakeToolchain)
	}

	seen := make(map[string]bool, len(spec.Requires))
	for _, ref := range spec.Requires {
		req, err := ParseRequirement(ref)
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}
		if req.Name.String() == name {
			return nil, zerr.With(ErrSelfRequirement, "package", name)
		}
		if seen[req.Name.String()] {
			err := zerr.With(ErrDuplicateRequirement, "package", name)
			return nil, zerr.With(err, "requirement", req.Name.String())
		}
		seen[req.Name.String()] = true
		d.requires = append(d.requires, req)
	}

	rules := make([]OptionRule, len(spec.DefaultOptions))
	for i, r := range spec.DefaultOptions {
		r.Source = name
		rules[i] = r
	}
	d.defaultOptions = compactRules(rules)

	return d, nil
}

// Name returns the package name ("root" for an anonymous workspace root).
func (d *Descriptor) Name() InternedString { return d.name }

// Anonymous reports whether the descriptor declared no name.
func (d *Descriptor) Anonymous() bool { return d.anonymous }

// Version returns the package version.
func (d *Descriptor) Version() string { return d.version }

// Dir returns the absolute folder holding the descriptor.
func (d *Descriptor) Dir() string { return d.dir }

// Generators returns the declared generators.
func (d *Descriptor) Generators() []string { return slices.Clone(d.generators) }

// Requires returns the requirements in declaration order.
func (d *Descriptor) Requires() []Requirement { return slices.Clone(d.requires) }

// ExportsSources returns the exported source globs.
func (d *Descriptor) ExportsSources() []string { return slices.Clone(d.exportsSources) }

// DefaultOptions returns the option rules declared by this package.
func (d *Descriptor) DefaultOptions() []OptionRule { return slices.Clone(d.defaultOptions) }

// LanguageStandard returns the pinned C++ standard.
func (d *Descriptor) LanguageStandard() string { return d.languageStandard }

// Placement returns where the build directory is placed.
func (d *Descriptor) Placement() Placement { return d.placement }

// Ref returns the "name/version" reference of the package.
func (d *Descriptor) Ref() string {
	return d.name.String() + "/" + d.version
}

// ApplySettings returns env with the compiler standard forced to the package's
// language standard. env itself is not modified.
func (d *Descriptor) ApplySettings(env Settings) Settings {
	env.CppStd = d.languageStandard
	return env
}
