package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Requirement is a dependency on another package at an exact version.
type Requirement struct {
	// Name is the required package name (e.g., "core").
	Name InternedString

	// Version is the exact version to match (e.g., "0.1").
	Version string
}

// ParseRequirement parses a "name/version" reference.
func ParseRequirement(ref string) (Requirement, error) {
	name, version, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return Requirement{}, zerr.With(ErrInvalidRequirement, "requirement", ref)
	}
	return Requirement{Name: NewInternedString(name), Version: version}, nil
}

// String returns the "name/version" reference.
func (r Requirement) String() string {
	return r.Name.String() + "/" + r.Version
}
