package app

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/layout"
)

// PackageLayout is the resolved layout and options of one package.
type PackageLayout struct {
	Package   string
	BuildType domain.BuildType
	Layout    domain.Layout
	Options   map[string]string
}

// Layouts resolves the layouts of the named packages and their dependencies
// (every package when targets is empty) in build order. Nothing is written.
func (a *App) Layouts(ctx context.Context, targets []string, opts SettingsOptions) ([]PackageLayout, error) {
	graph, err := a.loadGraph()
	if err != nil {
		return nil, err
	}
	settings, err := a.loadSettings(opts)
	if err != nil {
		return nil, err
	}

	selected, err := selectPackages(graph, targets)
	if err != nil {
		return nil, err
	}

	layouts, err := layout.ResolveAll(ctx, graph, settings)
	if err != nil {
		return nil, err
	}

	var out []PackageLayout
	for desc := range graph.Walk() {
		if !selected[desc.Name()] {
			continue
		}
		options, err := graph.ResolveOptions(desc.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, PackageLayout{
			Package:   desc.Name().String(),
			BuildType: desc.ApplySettings(settings).BuildType,
			Layout:    layouts[desc.Name().String()],
			Options:   options,
		})
	}
	return out, nil
}

// PackageReport describes one workspace package of the graph.
type PackageReport struct {
	Name      string
	Version   string
	Dir       string
	Placement domain.Placement
	Requires  []string
}

// GraphReport is the workspace graph in build order.
type GraphReport struct {
	Root      string
	Packages  []PackageReport
	Externals []string
}

// Graph loads and validates the workspace and reports its packages in build order.
func (a *App) Graph(_ context.Context) (*GraphReport, error) {
	graph, err := a.loadGraph()
	if err != nil {
		return nil, err
	}

	report := &GraphReport{Root: graph.Root()}
	for desc := range graph.Walk() {
		requires := make([]string, 0, len(desc.Requires()))
		for _, req := range desc.Requires() {
			requires = append(requires, req.String())
		}
		report.Packages = append(report.Packages, PackageReport{
			Name:      desc.Name().String(),
			Version:   desc.Version(),
			Dir:       desc.Dir(),
			Placement: desc.Placement(),
			Requires:  requires,
		})
	}
	for _, ext := range graph.Externals() {
		report.Externals = append(report.Externals, ext.String())
	}
	return report, nil
}

func selectPackages(graph *domain.Graph, targets []string) (map[domain.InternedString]bool, error) {
	if len(targets) == 0 {
		all := make(map[domain.InternedString]bool, graph.Count())
		for _, name := range graph.BuildOrder() {
			all[name] = true
		}
		return all, nil
	}
	return graph.Closure(domain.NewInternedStrings(targets))
}
