package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/logging"
	"github.com/Aman-CERP/gitglob/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gitglob as an MCP server",
		Long: `Start a Model Context Protocol server over stdio exposing the glob, list,
check_ignore and locate_gitignores tools. Every .gitignore that applies to the
working directory is also published as a resource.

stdout carries JSON-RPC only; logs go to ~/.gitglob/logs/gitglob.log.`,
		Example: `  # Register with an MCP client
  claude mcp add gitglob -- gitglob serve --cwd /path/to/project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, transport)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type (stdio)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, transport string) error {
	if transport != "stdio" {
		return ggerrors.ValidationError(fmt.Sprintf("unknown transport: %s", transport), nil).
			WithSuggestion("Only stdio is supported")
	}

	client, cfg, err := newClient(cmd, true)
	if err != nil {
		return err
	}

	// Replace the CLI logger before the server captures slog.Default
	level := cfg.Log.Level
	if debugMode {
		level = "debug"
	}
	closeLogging()
	cleanup, err := logging.SetupDefault(logging.ServeConfig(level))
	if err != nil {
		return ggerrors.IOError("failed to setup logging", err).
			WithSuggestion("Set " + logging.EnvLogDir + " to a writable directory")
	}
	loggingCleanup = cleanup

	srv, err := mcp.NewServer(client)
	if err != nil {
		return ggerrors.InternalError("failed to create MCP server", err)
	}
	n, err := srv.RegisterResources(ctx)
	if err != nil {
		slog.Warn("failed to register .gitignore resources", slog.String("error", err.Error()))
	} else {
		slog.Debug("resources registered", slog.Int("count", n))
	}

	err = srv.Serve(ctx, transport)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
