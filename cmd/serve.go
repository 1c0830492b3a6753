package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandraschi/filesystem-mcp/internal/config"
	"github.com/sandraschi/filesystem-mcp/internal/fsserver"
	"github.com/sandraschi/filesystem-mcp/internal/logger"
)

var (
	serveRoot        string
	serveTrace       string
	serveDebug       bool
	serveCompat      bool
	serveWorkers     int
	serveMaxSize     int64
	serveLockTimeout string
	serveCallBudget  int
	serveHTTP        string
	serveReplace     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the filesystem MCP server",
	Long: `Serve the filesystem tools over stdio, or over streamable HTTP when
--http is given. Logs go to stderr so stdout stays a clean JSON-RPC
stream.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "Base folder to confine all paths to (default $FS_ROOT or cwd)")
	serveCmd.Flags().StringVar(&serveTrace, "trace", "", "Append a per-call operation trace to this file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Debug logging")
	serveCmd.Flags().BoolVar(&serveCompat, "compat", false, "Return plain text results for clients without structured content")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Search/glob worker count (default CPUs, capped at 8)")
	serveCmd.Flags().Int64Var(&serveMaxSize, "max-size", 0, "Per-file byte ceiling for content operations (default 100 MiB)")
	serveCmd.Flags().StringVar(&serveLockTimeout, "lock-timeout", "", "How long writes wait on a contended file, e.g. 5s")
	serveCmd.Flags().IntVar(&serveCallBudget, "call-budget", 0, "Max tool calls per session, 0 for unlimited")
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "Serve streamable HTTP on this address instead of stdio")
	serveCmd.Flags().BoolVar(&serveReplace, "replace", false, "Kill a previously running instance before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	if serveReplace {
		cleanup, err := fsserver.EnsureSingleInstance()
		if err != nil {
			return err
		}
		defer cleanup()
	}

	srv, err := fsserver.New(cfg.Server, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run()
}

// applyServeFlags lets explicit flags win over environment and defaults.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("root") {
		cfg.Server.Root = serveRoot
	}
	if f.Changed("trace") {
		cfg.Server.TraceFile = serveTrace
	}
	if f.Changed("compat") {
		cfg.Server.Compat = serveCompat
	}
	if f.Changed("workers") {
		cfg.Server.Workers = serveWorkers
	}
	if f.Changed("max-size") {
		cfg.Server.MaxFileSize = serveMaxSize
	}
	if f.Changed("lock-timeout") {
		d, err := time.ParseDuration(serveLockTimeout)
		if err != nil {
			return fmt.Errorf("invalid --lock-timeout: %w", err)
		}
		cfg.Server.LockTimeout = d
	}
	if f.Changed("call-budget") {
		cfg.Server.CallBudget = serveCallBudget
	}
	if f.Changed("http") {
		cfg.Server.HTTPAddr = serveHTTP
	}
	if serveDebug {
		cfg.Log.Level = "debug"
	}
	return nil
}
