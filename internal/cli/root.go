package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "gplan",
	Short: "Growth plan generator for local service businesses",
	Long: `gplan turns a description of what a local service business actually does
into a 12-month content growth plan: gap analysis of the existing site,
task synthesis, ownership and cannibalisation checks, and a fixed weekly
publishing cadence.

It also scores candidate page titles and H1s, and exposes the whole
pipeline as MCP tools for AI assistants.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gplan %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
