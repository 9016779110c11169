package main

import (
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clinicbook/internal/config"
)

const serviceName = "clinicbook-server"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var configFile string
	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Clinic appointment booking server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd(&configFile))
	rootCmd.AddCommand(migrateCmd(&configFile))
	rootCmd.AddCommand(seedCmd(&configFile))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}

// setup loads configuration and installs the JSON logger at the configured
// level.
func setup(configFile string) (config.Config, *slog.Logger, error) {
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		return config.Config{}, nil, err
	}

	log = newLogger(parseLogLevel(cfg.LogLevel))
	slog.SetDefault(log)
	return cfg, log, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("service", serviceName),
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(driver, databaseURL string) []any {
	if driver == config.DriverMemory {
		return []any{slog.String("db_driver", driver)}
	}
	if driver == config.DriverSQLite {
		return []any{slog.String("db_driver", driver), slog.String("db_name", databaseURL)}
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_driver", driver), slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_driver", driver),
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
