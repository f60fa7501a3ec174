package cmake

import (
	"bytes"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"go.trai.ch/rig/internal/core/domain"
)

const toolchainTemplate = `# Generated by rig for {{.Ref}}. Do not edit.
# settings: os={{.OS}} arch={{.Arch}} compiler={{.Compiler}} compiler.version={{.CompilerVersion}}

set(CMAKE_BUILD_TYPE {{quote .BuildType}} CACHE STRING "Build type" FORCE)

set(CMAKE_CXX_STANDARD {{.CppStd}})
set(CMAKE_CXX_STANDARD_REQUIRED ON)
set(CMAKE_CXX_EXTENSIONS OFF)
{{- if .Shared}}

set(BUILD_SHARED_LIBS {{.Shared}} CACHE BOOL "Build shared libraries" FORCE)
{{- end}}
{{- if .PrefixPaths}}

list(PREPEND CMAKE_PREFIX_PATH{{range .PrefixPaths}} {{quote .}}{{end}})
{{- end}}
{{- if .Options}}
{{range .Options}}
set({{.Name}} {{quote .Value}} CACHE STRING "" FORCE)
{{- end}}
{{- end}}
`

var toolchain = template.Must(template.New("toolchain").
	Funcs(template.FuncMap{"quote": cmakeQuote}).
	Parse(toolchainTemplate))

type toolchainOption struct {
	Name  string
	Value string
}

type toolchainData struct {
	Ref             string
	OS              string
	Arch            string
	Compiler        string
	CompilerVersion string
	BuildType       string
	CppStd          string
	Shared          string
	PrefixPaths     []string
	Options         []toolchainOption
}

// RenderToolchain renders the CMakeToolchain file for unit.
// The shared option becomes BUILD_SHARED_LIBS; every other option is a cache entry.
func RenderToolchain(unit domain.BuildUnit) ([]byte, error) {
	data := toolchainData{
		Ref:             unit.Descriptor.Ref(),
		OS:              unit.Settings.OS,
		Arch:            unit.Settings.Arch,
		Compiler:        unit.Settings.Compiler,
		CompilerVersion: unit.Settings.CompilerVersion,
		BuildType:       string(unit.Settings.BuildType),
		CppStd:          unit.Settings.CppStd,
	}

	for _, name := range slices.Sorted(maps.Keys(unit.Options)) {
		value := unit.Options[name]
		if name == domain.OptionShared {
			data.Shared = cmakeBool(value)
			continue
		}
		data.Options = append(data.Options, toolchainOption{Name: name, Value: value})
	}

	for _, dep := range unit.DependencyLayouts {
		p := filepath.ToSlash(dep.BuildDir)
		if !slices.Contains(data.PrefixPaths, p) {
			data.PrefixPaths = append(data.PrefixPaths, p)
		}
	}

	var buf bytes.Buffer
	if err := toolchain.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cmakeBool(v string) string {
	switch strings.ToLower(v) {
	case "true", "on", "yes", "1":
		return "ON"
	case "false", "off", "no", "0":
		return "OFF"
	default:
		return cmakeQuote(v)
	}
}

func cmakeQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}
