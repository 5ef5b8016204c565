package main

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/geoedit/internal/config"
	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/script"
	"github.com/saltyorg/geoedit/internal/web"
)

func newListenCommand(opts *rootOptions) *cobra.Command {
	var (
		addr           string
		allowSubnet    string
		websocketPing  time.Duration
		websocketWrite time.Duration
		shutdownGrace  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Answer requests from a single websocket client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = opts.cfg.ListenAddr
			}
			if !cmd.Flags().Changed("allow-subnet") {
				allowSubnet = opts.cfg.AllowSubnet
			}

			allowedNet, err := config.ParseSubnet(allowSubnet)
			if err != nil {
				return commandError(err.Error(), nil)
			}

			if websocketPing <= 0 || websocketWrite <= 0 || shutdownGrace <= 0 {
				return commandError("timeouts must be positive", nil)
			}
			config.SetGlobalTimeouts(&config.TimeoutConfig{
				WebSocketPing:  websocketPing,
				WebSocketWrite: websocketWrite,
				ShutdownGrace:  shutdownGrace,
			})

			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return commandError(fmt.Sprintf("invalid listen address: %s", addr), err)
			}
			if (host == "" || host == "0.0.0.0" || host == "::") && allowedNet == nil {
				log.Warn().Msg("Listening on all interfaces without subnet restrictions. Consider using --addr or --allow-subnet.")
			}

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

			log.Info().
				Str("version", version).
				Str("addr", addr).
				Str("allow_subnet", allowSubnet).
				Str("database", opts.dbPath).
				Msg("Starting geoedit")

			if err := web.NewServer(eng, addr, allowedNet).Start(ctx); err != nil {
				return fmt.Errorf("server error: %w", err)
			}

			log.Info().Msg("geoedit stopped")
			return nil
		},
	}

	defaults := config.DefaultTimeoutConfig()
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (or set GEOEDIT_LISTEN_ADDR)")
	cmd.Flags().StringVarP(&allowSubnet, "allow-subnet", "a", "", "CIDR subnet allowed to connect (e.g., 192.168.1.0/24)")
	cmd.Flags().DurationVar(&websocketPing, "websocket-ping", defaults.WebSocketPing, "Interval between WebSocket keepalive pings")
	cmd.Flags().DurationVar(&websocketWrite, "websocket-write", defaults.WebSocketWrite, "Timeout for writing one response")
	cmd.Flags().DurationVar(&shutdownGrace, "shutdown-grace", defaults.ShutdownGrace, "Time allowed for shutdown")

	return cmd
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay a YAML script of requests and print the conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return commandError("cannot load script", err)
			}

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

			return script.Run(ctx, eng, s, cmd.OutOrStdout(), script.Format(opts.format))
		},
	}
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init <path>",
		Short: "Create the dataset tables in a database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			session := database.NewSession()
			if err := session.Open(cmd.Context(), path); err != nil {
				return commandError("cannot open database", err)
			}
			defer session.Close()

			if err := session.InitSchema(cmd.Context()); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			log.Info().Str("path", path).Msg("Schema ready")

			return printResult(cmd, opts, "Initialized "+path, map[string]string{"status": "ok", "path": path})
		},
	}
}

func newMaintainCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "maintain",
		Short: "Optimize and vacuum the database given with --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbPath == "" {
				return commandError("--db flag or GEOEDIT_DB_PATH environment variable is required", nil)
			}

			session := database.NewSession()
			if err := session.Open(cmd.Context(), opts.dbPath); err != nil {
				return commandError("cannot open database", err)
			}
			defer session.Close()

			if err := session.Optimize(cmd.Context()); err != nil {
				return err
			}
			if err := session.Vacuum(cmd.Context()); err != nil {
				return err
			}
			log.Info().Str("path", opts.dbPath).Msg("Database maintenance complete")

			return printResult(cmd, opts, "Maintained "+opts.dbPath, map[string]string{"status": "ok", "path": opts.dbPath})
		},
	}
}

// printResult writes a one-line outcome in the selected format
func printResult(cmd *cobra.Command, opts *rootOptions, text string, data map[string]string) error {
	if opts.format == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(data)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
