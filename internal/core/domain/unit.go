package domain

// BuildUnit is everything the build invoker needs for one package build.
type BuildUnit struct {
	Descriptor *Descriptor
	Settings   Settings
	Layout     Layout
	Options    map[string]string

	// DependencyLayouts holds the layouts of the direct and transitive workspace
	// dependencies, in build order.
	DependencyLayouts []Layout

	// Generator and Program are the CMake generator and executable. Both are
	// part of the input hash since they change what lands in the build directory.
	Generator string
	Program   string
}

// Name returns the package name.
func (u BuildUnit) Name() string {
	return u.Descriptor.Name().String()
}
