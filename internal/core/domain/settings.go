package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BuildType is the enumerated build configuration of a package build.
type BuildType string

const (
	// BuildTypeDebug builds without optimizations and with debug info.
	BuildTypeDebug BuildType = "Debug"
	// BuildTypeRelease builds with optimizations.
	BuildTypeRelease BuildType = "Release"
	// BuildTypeRelWithDebInfo builds with optimizations and debug info.
	BuildTypeRelWithDebInfo BuildType = "RelWithDebInfo"
	// BuildTypeMinSizeRel builds optimized for size.
	BuildTypeMinSizeRel BuildType = "MinSizeRel"
)

// BuildTypes lists every accepted build type.
var BuildTypes = []BuildType{
	BuildTypeDebug,
	BuildTypeRelease,
	BuildTypeRelWithDebInfo,
	BuildTypeMinSizeRel,
}

// ParseBuildType validates s against the known build types.
// The match is exact because the value ends up in a directory name.
func ParseBuildType(s string) (BuildType, error) {
	bt := BuildType(s)
	if !slices.Contains(BuildTypes, bt) {
		return "", zerr.With(ErrUnknownBuildType, "build_type", s)
	}
	return bt, nil
}

// Token returns the lowercased build type used in directory names.
func (b BuildType) Token() string {
	return strings.ToLower(string(b))
}

// SettingsAxes are the four axes every descriptor declares.
var SettingsAxes = []string{"os", "compiler", "build_type", "arch"}

// Settings is the explicit configuration record supplied by the invoking environment.
// It is passed by value into every resolution call and never mutated in place.
type Settings struct {
	OS              string
	Arch            string
	Compiler        string
	CompilerVersion string
	CppStd          string
	BuildType       BuildType
}

// Setting keys accepted by With.
const (
	SettingOS              = "os"
	SettingArch            = "arch"
	SettingCompiler        = "compiler"
	SettingCompilerVersion = "compiler.version"
	SettingCppStd          = "compiler.cppstd"
	SettingBuildType       = "build_type"
)

// With returns a copy of s with the given axis overridden.
func (s Settings) With(key, value string) (Settings, error) {
	switch key {
	case SettingOS:
		s.OS = value
	case SettingArch:
		s.Arch = value
	case SettingCompiler:
		s.Compiler = value
	case SettingCompilerVersion:
		s.CompilerVersion = value
	case SettingCppStd:
		s.CppStd = value
	case SettingBuildType:
		bt, err := ParseBuildType(value)
		if err != nil {
			return s, err
		}
		s.BuildType = bt
	default:
		return s, zerr.With(ErrInvalidSetting, "key", key)
	}
	return s, nil
}

// WithOverride applies a "key=value" override.
func (s Settings) WithOverride(override string) (Settings, error) {
	key, value, ok := strings.Cut(override, "=")
	if !ok || key == "" {
		return s, zerr.With(ErrInvalidSetting, "override", override)
	}
	return s.With(strings.TrimSpace(key), strings.TrimSpace(value))
}

// Merge fills every empty axis of s from fallback.
func (s Settings) Merge(fallback Settings) Settings {
	if s.OS == "" {
		s.OS = fallback.OS
	}
	if s.Arch == "" {
		s.Arch = fallback.Arch
	}
	if s.Compiler == "" {
		s.Compiler = fallback.Compiler
	}
	if s.CompilerVersion == "" {
		s.CompilerVersion = fallback.CompilerVersion
	}
	if s.CppStd == "" {
		s.CppStd = fallback.CppStd
	}
	if s.BuildType == "" {
		s.BuildType = fallback.BuildType
	}
	return s
}

// Map returns the settings as key/value pairs, used for hashing and display.
func (s Settings) Map() map[string]string {
	return map[string]string{
		SettingOS:              s.OS,
		SettingArch:            s.Arch,
		SettingCompiler:        s.Compiler,
		SettingCompilerVersion: s.CompilerVersion,
		SettingCppStd:          s.CppStd,
		SettingBuildType:       string(s.BuildType),
	}
}
