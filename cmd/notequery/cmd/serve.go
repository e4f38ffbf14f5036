package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesm/notequery/internal/mcp"
)

var serveNoStore bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing
compile_query and tokenize_query, plus list_saved_searches and
get_saved_search unless --no-store is given.

Logs go to stderr so they do not corrupt the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCompiler()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveNoStore {
			logger.Info("mcp server starting", "store", false)
			return ignoreCanceled(mcp.Serve(ctx, c, nil))
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("mcp server starting", "store", cfg.DatabasePath())
		return ignoreCanceled(mcp.Serve(ctx, c, st))
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "do not open the saved-search database")
	rootCmd.AddCommand(serveCmd)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
