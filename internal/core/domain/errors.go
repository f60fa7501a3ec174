package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownBuildType is returned when the build_type setting is unset or not one of the known build types.
	ErrUnknownBuildType = zerr.New("unknown build type")

	// ErrInvalidVersionConstraint is returned when a requirement has no provider with a matching version.
	ErrInvalidVersionConstraint = zerr.New("invalid version constraint")

	// ErrConflictingOption is returned when two applicable default option rules disagree.
	ErrConflictingOption = zerr.New("conflicting option")

	// ErrBuildFailed is returned when the external configure or build step fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrInvalidRequirement is returned when a requirement is not of the form name/version.
	ErrInvalidRequirement = zerr.New("invalid requirement, expected format: name/version")

	// ErrDuplicateRequirement is returned when a descriptor requires the same package twice.
	ErrDuplicateRequirement = zerr.New("duplicate requirement")

	// ErrSelfRequirement is returned when a descriptor requires itself.
	ErrSelfRequirement = zerr.New("package requires itself")

	// ErrInvalidOptionRule is returned when a default option key is not of the form selector:option.
	ErrInvalidOptionRule = zerr.New("invalid option rule, expected format: selector:option")

	// ErrDuplicatePackage is returned when two descriptors share the same package name.
	ErrDuplicatePackage = zerr.New("duplicate package")

	// ErrPackageNotFound is returned when a requested package is not part of the graph.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrCycleDetected is returned when a cycle is detected in the package dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrGraphNotValidated is returned when the graph is used before Validate succeeded.
	ErrGraphNotValidated = zerr.New("graph has not been validated")

	// ErrBuildDirCollision is returned when two unrelated packages resolve to the same build directory.
	ErrBuildDirCollision = zerr.New("build directory shared by unrelated packages")

	// ErrInvalidTransition is returned when a package state transition is not allowed.
	ErrInvalidTransition = zerr.New("invalid package state transition")

	// ErrInvalidSetting is returned when a settings override names an unknown axis or is malformed.
	ErrInvalidSetting = zerr.New("invalid setting, expected format: key=value")

	// ErrInvalidPlacement is returned when a descriptor layout placement is neither self nor parent.
	ErrInvalidPlacement = zerr.New("invalid layout placement, expected 'self' or 'parent'")

	// ErrDependencyFailed is returned for packages skipped because a dependency failed.
	ErrDependencyFailed = zerr.New("dependency failed")

	// ErrConfigReadFailed is returned when a descriptor or profile file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a descriptor or profile file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a descriptor or profile fails schema validation.
	ErrConfigInvalid = zerr.New("invalid config file")

	// ErrConfigNotFound is returned when no descriptor can be found from the working directory.
	ErrConfigNotFound = zerr.New("could not find rig.yaml")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrInputHashComputationFailed is returned when input hash computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrToolchainWriteFailed is returned when the generated toolchain file cannot be written.
	ErrToolchainWriteFailed = zerr.New("failed to write toolchain file")

	// ErrCommandStartFailed is returned when an external command cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrCommandFailed is returned when an external command exits non-zero.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyCommand is returned when a command has no program.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrBuildExecutionFailed is returned when one or more package builds failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrInvalidSourcePattern is returned when an exports_sources entry is not a valid glob.
	ErrInvalidSourcePattern = zerr.New("invalid exported source pattern")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")
)
