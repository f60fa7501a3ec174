package detector

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
)

// DetectSettings returns the settings of the current platform.
// The build type defaults to Release.
func DetectSettings() domain.Settings {
	return DetectSettingsFrom(runtime.GOOS, runtime.GOARCH, os.Getenv)
}

// DetectSettingsFrom derives settings from the given platform and environment lookup.
func DetectSettingsFrom(goos, goarch string, getenv func(string) string) domain.Settings {
	return domain.Settings{
		OS:        osName(goos),
		Arch:      archName(goarch),
		Compiler:  compilerName(goos, getenv("CXX"), getenv("CC")),
		BuildType: domain.BuildTypeRelease,
	}
}

func osName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	default:
		return goos
	}
}

func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	case "arm":
		return "armv7"
	default:
		return goarch
	}
}

// compilerName maps the configured compiler driver to its family, falling back to the platform default.
func compilerName(goos string, drivers ...string) string {
	for _, d := range drivers {
		if d == "" {
			continue
		}
		base := strings.ToLower(filepath.Base(strings.Fields(d)[0]))
		switch {
		case strings.Contains(base, "clang"):
			if goos == "darwin" {
				return "apple-clang"
			}
			return "clang"
		case strings.Contains(base, "g++"), strings.Contains(base, "gcc"):
			return "gcc"
		case base == "cl" || base == "cl.exe":
			return "msvc"
		}
	}

	switch goos {
	case "darwin":
		return "apple-clang"
	case "windows":
		return "msvc"
	default:
		return "gcc"
	}
}
