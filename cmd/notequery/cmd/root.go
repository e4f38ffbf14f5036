package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesm/notequery/internal/config"
	"github.com/wesm/notequery/internal/render"
	"github.com/wesm/notequery/internal/search"
	"github.com/wesm/notequery/internal/store"
)

var (
	homeFlag    string
	verboseFlag bool
	tzFlag      string

	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "notequery",
	Short: "Compile Evernote-style note search queries",
	Long: `notequery compiles note search queries (tag:, intitle:, created:day-1,
todo:true, notebook:, any:, negation and free text) into typed predicates
for a note matcher, and keeps a list of saved searches.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		home := homeFlag
		if home == "" {
			h, err := config.DefaultHome()
			if err != nil {
				return err
			}
			home = h
		}

		c, err := config.Load(home)
		if err != nil {
			return err
		}
		if tzFlag != "" {
			c.Search.Timezone = tzFlag
			if _, err := c.Location(); err != nil {
				return err
			}
		}
		cfg = c

		level, err := cfg.LogLevel()
		if err != nil {
			return err
		}
		if verboseFlag {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		logger.Debug("config loaded", "home", cfg.HomeDir, "timezone", cfg.Search.Timezone)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "notequery home directory (default: $NOTEQUERY_HOME or ~/.notequery)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&tzFlag, "tz", "", "time zone for relative dates (overrides search.timezone)")
}

// Execute runs the root command and prints any error once to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), render.Error(err))
	}
	return err
}

// newCompiler builds a compiler using the configured time zone.
func newCompiler() (*search.Compiler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &search.Compiler{Now: time.Now, Location: loc}, nil
}

// openStore opens the saved-search database and applies the schema.
func openStore() (*store.Store, error) {
	path := cfg.DatabasePath()
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := st.InitSchema(); err != nil {
		st.Close()
		return nil, err
	}
	logger.Debug("store opened", "path", path)
	return st, nil
}

// queryFromArgs joins args into one query, or reads it from in when no
// args are given.
func queryFromArgs(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return search.Normalize(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}
	return search.Normalize(strings.TrimRight(string(data), "\r\n")), nil
}
