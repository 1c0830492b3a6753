package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configDir             string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "filesystem-mcp",
	Short: "Filesystem MCP server with a sandboxed tool surface",
	Long: `filesystem-mcp exposes filesystem tools (read, write, edit, search,
glob, tree and friends) over the Model Context Protocol. Every path is
confined to a base folder, writes are atomic and advisory-locked, and
results are structured content unless compat mode is on.

Configuration comes from flags, environment variables (SERVER_ROOT,
LOG_LEVEL, ...) and an optional .env file.`,
	Example: `  filesystem-mcp serve --root ~/projects        # Serve over stdio
  filesystem-mcp serve --http :8080             # Serve streamable HTTP
  filesystem-mcp resolve filesystem-mcp         # Print the launch command
  filesystem-mcp servers --watch                # List servers, follow changes`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the optional .env file")

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("filesystem-mcp %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("filesystem-mcp %s\n", version)
}
