package domain

import "time"

// BuildInfo records the last successful build of a package for one build type.
type BuildInfo struct {
	Package   string    `json:"package,omitzero"`
	BuildType BuildType `json:"build_type,omitzero"`
	InputHash string    `json:"input_hash,omitzero"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Key returns the store key of the record.
func (b BuildInfo) Key() string {
	return BuildInfoKey(b.Package, b.BuildType)
}

// BuildInfoKey returns the store key for a package and build type.
func BuildInfoKey(pkg string, bt BuildType) string {
	return pkg + "@" + bt.Token()
}
