package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockconf/pkg/config"
	"github.com/getmockd/mockconf/pkg/engine"
	"github.com/getmockd/mockconf/pkg/logging"
	"github.com/getmockd/mockconf/pkg/metrics"
)

// serveFlags holds the serve command flags.
type serveFlags struct {
	configPath string
	port       int
	host       string
	logLevel   string
	logFormat  string
	logFile    string
	noMetrics  bool
}

var sf serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server",
	Long: `Start the mock server from a configuration file.

Examples:
  # Serve ./mockconf.yaml
  mockconf serve

  # Serve a specific file on another port
  mockconf serve --config api.json --port 8080

  # Log JSON to stderr and to a rotating file
  mockconf serve --log-format json --log-file mockconf.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cmd, &sf)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&sf.configPath, "config", "c", "", "Path to configuration file (default: discover mockconf.yaml in the current directory)")
	f.IntVarP(&sf.port, "port", "p", config.DefaultPort, "HTTP server port")
	f.StringVar(&sf.host, "host", config.DefaultHost, "Host to bind to")
	f.StringVar(&sf.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&sf.logFormat, "log-format", "text", "Log format (text, json)")
	f.StringVar(&sf.logFile, "log-file", "", "Also write JSON logs to this rotating file")
	f.BoolVar(&sf.noMetrics, "no-metrics", false, "Disable the Prometheus metrics endpoint")
	rootCmd.AddCommand(serveCmd)
}

// runServe starts the server and blocks until ctx is done.
func runServe(ctx context.Context, cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	log := logging.New(withOutput(cfg.Server.LoggingConfig(), cmd))
	srv := buildServer(cfg, log, !flags.noMetrics)
	if err := srv.Start(); err != nil {
		return err
	}

	log.Info("mock server ready",
		"config", cfg.Path,
		"addr", srv.Addr(),
		"baseDir", cfg.Server.BaseDir,
	)

	<-ctx.Done()
	log.Info("shutting down")
	return srv.Stop()
}

// loadConfig resolves and loads the configuration, then layers environment
// variables and explicitly set flags over the file's server section.
func loadConfig(cmd *cobra.Command, flags *serveFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path, err = config.Discover(cwd)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Server.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.Server.Port = flags.port
	}
	if changed("host") {
		cfg.Server.Host = flags.host
	}
	if changed("log-level") {
		cfg.Server.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Server.Log.Format = flags.logFormat
	}
	if changed("log-file") {
		cfg.Server.Log.File = flags.logFile
	}

	if err := cfg.Server.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildServer wires logging and metrics into an engine server.
func buildServer(cfg *config.Config, log *slog.Logger, withMetrics bool) *engine.Server {
	opts := []engine.Option{engine.WithLogger(log)}
	if withMetrics {
		opts = append(opts, engine.WithMetrics(metrics.New()))
	}
	return engine.NewServer(cfg.Server, cfg.Mock, opts...)
}

func withOutput(lc logging.Config, cmd *cobra.Command) logging.Config {
	lc.Output = cmd.ErrOrStderr()
	return lc
}
