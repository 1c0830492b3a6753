package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandraschi/filesystem-mcp/internal/host"
	"github.com/sandraschi/filesystem-mcp/internal/registry"
)

var (
	resolveJSON    bool
	resolveServers string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <server-id>",
	Short: "Print the launch command for a context server",
	Long: `Resolve a context server identifier to the command an MCP host should
spawn. Identifiers match exactly; unknown ones fail with a nonzero exit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the command as JSON")
	resolveCmd.Flags().StringVarP(&resolveServers, "servers", "f", "", "Merge extra servers from this YAML file first")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(w io.Writer, id string) error {
	reg := registry.New()
	if resolveServers != "" {
		if _, err := reg.MergeFile(resolveServers); err != nil {
			return err
		}
	}
	launch, err := reg.Resolve(id)
	if err != nil {
		return err
	}
	return printCommand(w, launch)
}

func printCommand(w io.Writer, c host.Command) error {
	if resolveJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	fmt.Fprintf(w, "command: %s\n", c.Command)
	fmt.Fprintf(w, "args:    %s\n", strings.Join(c.Args, " "))
	if len(c.Env) > 0 {
		keys := make([]string, 0, len(c.Env))
		for k := range c.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "env:\n")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s=%s\n", k, c.Env[k])
		}
	}
	return nil
}
