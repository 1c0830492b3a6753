package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandraschi/filesystem-mcp/internal/config"
	"github.com/sandraschi/filesystem-mcp/internal/registry"
)

var (
	serversFile  string
	serversJSON  bool
	serversWatch bool
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List known context servers",
	Long: `List the context servers this binary can resolve: the built-in entry
plus anything merged from a servers YAML file. With --watch the file is
re-read whenever it changes, until interrupted.`,
	RunE: runServers,
}

func init() {
	serversCmd.Flags().StringVarP(&serversFile, "servers", "f", "", "Merge extra servers from this YAML file")
	serversCmd.Flags().BoolVar(&serversJSON, "json", false, "Print entries as JSON")
	serversCmd.Flags().BoolVar(&serversWatch, "watch", false, "Keep running and reload the file on change")
	rootCmd.AddCommand(serversCmd)
}

func runServers(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}
	file := cfg.Registry.File
	if cmd.Flags().Changed("servers") {
		file = serversFile
	}

	reg := registry.New()
	if file != "" {
		if _, err := reg.MergeFile(file); err != nil {
			return err
		}
	}
	if err := printServers(cmd.OutOrStdout(), reg); err != nil {
		return err
	}

	if !serversWatch {
		return nil
	}
	if file == "" {
		return fmt.Errorf("--watch needs a servers file (--servers or REGISTRY_FILE)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", file)
	return registry.Watch(ctx, reg, file, func(n int, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reloaded %d entries\n", n)
		_ = printServers(cmd.OutOrStdout(), reg)
	})
}

func printServers(w io.Writer, reg *registry.Registry) error {
	if serversJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reg.Snapshot())
	}
	for _, name := range reg.Names() {
		launch, err := reg.Resolve(name)
		if err != nil {
			continue
		}
		line := launch.Command
		if len(launch.Args) > 0 {
			line += " " + strings.Join(launch.Args, " ")
		}
		fmt.Fprintf(w, "%-24s %s\n", name, line)
	}
	return nil
}
