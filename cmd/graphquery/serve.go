package graphquery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/graphquery/pkg/alert"
	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/driver"
	"github.com/soundprediction/graphquery/pkg/logger"
	"github.com/soundprediction/graphquery/pkg/server"
	"github.com/soundprediction/graphquery/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQuery HTTP server",
	Long: `Start the GraphQuery HTTP server to provide REST API access to the query engine.

The server provides endpoints for:
- Answering natural language questions (POST /query)
- Health, readiness and version checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	serveCmd.Flags().String("db-uri", "", "Neo4j URI (bolt://host:port)")
	serveCmd.Flags().String("db-username", "", "Neo4j username")
	serveCmd.Flags().String("db-password", "", "Neo4j password")
	serveCmd.Flags().String("db-database", "", "Neo4j database name")

	serveCmd.Flags().Int("max-hops", 0, "Maximum path search depth (1-5)")
	serveCmd.Flags().Int("result-limit", 0, "Maximum ranked results (1-100)")

	serveCmd.Flags().String("telemetry-parquet-path", "", "Directory for error telemetry Parquet files")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := newStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to graph store: %w", err)
	}
	defer store.Close(context.Background())

	srv := server.New(cfg, store, logger)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if cmd.Flags().Changed("db-uri") {
		cfg.Database.URI, _ = cmd.Flags().GetString("db-uri")
	}
	if cmd.Flags().Changed("db-username") {
		cfg.Database.Username, _ = cmd.Flags().GetString("db-username")
	}
	if cmd.Flags().Changed("db-password") {
		cfg.Database.Password, _ = cmd.Flags().GetString("db-password")
	}
	if cmd.Flags().Changed("db-database") {
		cfg.Database.Database, _ = cmd.Flags().GetString("db-database")
	}

	if cmd.Flags().Changed("max-hops") {
		cfg.Query.MaxHops, _ = cmd.Flags().GetInt("max-hops")
	}
	if cmd.Flags().Changed("result-limit") {
		cfg.Query.ResultLimit, _ = cmd.Flags().GetInt("result-limit")
	}
	cfg.Query = cfg.Query.Clamped()

	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServeConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Database.URI == "" {
		return fmt.Errorf("database URI is required")
	}
	return nil
}

// newLogger builds the slog logger from config. When a telemetry path is
// configured, error records are additionally persisted to Parquet.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = logger.NewColorHandler(os.Stderr, opts)
	}

	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
		if err != nil {
			return nil, err
		}
		handler = parquetHandler
	}

	return slog.New(handler), nil
}

// newStore connects to Neo4j and, when enabled, wraps the connection in a
// circuit breaker that alerts on open transitions.
func newStore(cfg *config.Config, logger *slog.Logger) (driver.GraphStore, error) {
	store, err := driver.NewNeo4jStore(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return nil, err
	}

	if !cfg.CircuitBreaker.Enabled {
		return store, nil
	}

	var alerter alert.Alerter
	if cfg.Alert.Enabled {
		alerter = alert.NewEmailAlerter(cfg.Alert)
	} else {
		alerter = &alert.NoOpAlerter{}
	}
	return driver.NewBreakerStore(store, cfg.CircuitBreaker, alerter, logger), nil
}
