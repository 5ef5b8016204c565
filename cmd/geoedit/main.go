package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/geoedit/internal/config"
	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/engine"
	"github.com/saltyorg/geoedit/internal/events"
	"github.com/saltyorg/geoedit/internal/logging"
	"github.com/saltyorg/geoedit/internal/stdio"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logNextToDB is the --log-file value used when the flag is given without a path
const logNextToDB = "auto"

// validFormats defines the allowed output formats
var validFormats = []string{"text", "json"}

// rootOptions holds the persistent flags plus the environment configuration
type rootOptions struct {
	dbPath    string
	verbosity int
	logFile   string
	format    string

	cfg      *config.Config
	closeLog io.Closer
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "geoedit",
		Short: "geoedit - continent, country and region editor backend",
		Long: `geoedit answers request events against a SQLite dataset of continents,
countries and regions. Without a subcommand it reads JSON requests from stdin,
one per line, and writes JSON responses to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "SQLite database to open at startup (or set GEOEDIT_DB_PATH)")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write logs to this rotating file; without a value, next to the database (or set GEOEDIT_LOG_FILE)")
	cmd.PersistentFlags().Lookup("log-file").NoOptDefVal = logNextToDB
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newListenCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newMaintainCommand(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// Printing the version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "geoedit %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	return cmd
}

// setup validates flags, merges the environment configuration and configures logging
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(validFormats, o.format) {
		return commandError(fmt.Sprintf("invalid format %q: must be one of %v", o.format, validFormats), nil)
	}

	cfg, err := config.Load()
	if err != nil {
		return commandError("invalid configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return commandError("invalid configuration", err)
	}
	o.cfg = cfg

	if !cmd.Flags().Changed("db") {
		o.dbPath = cfg.DBPath
	}
	if !cmd.Flags().Changed("log-file") {
		o.logFile = cfg.LogFile
	}
	if o.logFile == logNextToDB {
		o.logFile = logging.FilePathForDB(o.dbPath)
	}

	level := cfg.LogLevel
	switch {
	case o.verbosity == 1:
		level = "debug"
	case o.verbosity >= 2:
		level = "trace"
	}

	o.closeLog = logging.Apply(level, logging.Options{
		FilePath:   o.logFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
		Console:    cmd.ErrOrStderr(),
	})
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// newEngine creates an engine and, when a database path was given, opens it
// through the engine the same way a client request would.
func (o *rootOptions) newEngine(ctx context.Context) (*engine.Engine, error) {
	eng := engine.New(database.NewSession())
	if o.dbPath == "" {
		return eng, nil
	}

	for resp := range eng.Process(ctx, events.OpenDatabase{Path: o.dbPath}) {
		if failed, ok := resp.(events.DatabaseOpenFailed); ok {
			return nil, commandError("cannot open database", errors.New(failed.Message))
		}
	}
	return eng, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer JSON requests on stdin (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	eng, err := opts.newEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Debug().Str("version", version).Msg("Serving requests on stdin")

	err = stdio.Serve(ctx, eng, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Interrupted")
		return nil
	}
	return err
}
