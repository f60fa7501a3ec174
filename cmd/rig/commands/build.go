package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [packages...]",
		Short: "Build packages and their dependencies",
		Long: "Build the named packages and everything they require, in dependency order.\n" +
			"Every workspace package is built when no package is named.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Build(cmd.Context(), args, buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Rebuild packages whenever workspace files change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args, buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("setting", "s", nil, "Override a setting (key=value), e.g. build_type=Debug")
	cmd.Flags().String("profile", "", "Read settings from a profile file")
}

func addBuildFlags(cmd *cobra.Command) {
	addSettingsFlags(cmd)
	cmd.Flags().StringP("generator", "G", "", "CMake generator, e.g. Ninja")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of concurrent package builds (default: CPU count)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force every build")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

func settingsOptions(cmd *cobra.Command) app.SettingsOptions {
	overrides, _ := cmd.Flags().GetStringArray("setting")
	profile, _ := cmd.Flags().GetString("profile")
	return app.SettingsOptions{
		Profile:   profile,
		Overrides: overrides,
	}
}

func buildOptions(cmd *cobra.Command) app.BuildOptions {
	generator, _ := cmd.Flags().GetString("generator")
	jobs, _ := cmd.Flags().GetInt("jobs")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")

	return app.BuildOptions{
		SettingsOptions: settingsOptions(cmd),
		Generator:       generator,
		Parallelism:     jobs,
		NoCache:         noCache,
		OutputMode:      outputMode,
		CI:              ci,
	}
}
