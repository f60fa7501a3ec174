package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
)

func (c *CLI) newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout [packages...]",
		Short: "Print the resolved build directories of packages",
		Long: "Print the source, build and generators directories and the effective options\n" +
			"of the named packages and their dependencies. Nothing is written to disk.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layouts, err := c.app.Layouts(cmd.Context(), args, settingsOptions(cmd))
			if err != nil {
				return err
			}
			printLayouts(cmd.OutOrStdout(), layouts)
			return nil
		},
	}
	addSettingsFlags(cmd)
	return cmd
}

func (c *CLI) newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the workspace packages in build order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Graph(cmd.Context())
			if err != nil {
				return err
			}
			printGraph(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printLayouts(w io.Writer, layouts []app.PackageLayout) {
	for i, l := range layouts {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s (%s)\n", l.Package, l.BuildType)
		_, _ = fmt.Fprintf(w, "  source:     %s\n", l.Layout.SourceDir)
		_, _ = fmt.Fprintf(w, "  build:      %s\n", l.Layout.BuildDir)
		_, _ = fmt.Fprintf(w, "  generators: %s\n", l.Layout.GeneratorsDir)
		_, _ = fmt.Fprintf(w, "  options:    %s\n", formatOptions(l.Options))
	}
}

func formatOptions(options map[string]string) string {
	if len(options) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(options))
	for _, k := range slices.Sorted(maps.Keys(options)) {
		pairs = append(pairs, k+"="+options[k])
	}
	return strings.Join(pairs, ", ")
}

func printGraph(w io.Writer, report *app.GraphReport) {
	_, _ = fmt.Fprintf(w, "workspace: %s\n", report.Root)
	for _, p := range report.Packages {
		ref := p.Name
		if p.Version != "" {
			ref += "/" + p.Version
		}
		placement := ""
		if p.Placement == domain.PlacementParent {
			placement = ", parent build dir"
		}
		_, _ = fmt.Fprintf(w, "%s (%s%s)\n", ref, p.Dir, placement)
		if len(p.Requires) > 0 {
			_, _ = fmt.Fprintf(w, "  requires: %s\n", strings.Join(p.Requires, ", "))
		}
	}
	if len(report.Externals) > 0 {
		_, _ = fmt.Fprintf(w, "external: %s\n", strings.Join(report.Externals, ", "))
	}
}
