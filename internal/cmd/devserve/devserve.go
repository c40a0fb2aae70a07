// Package devserve parses static asset server flags and launches the service.
package devserve

import (
	"context"
	"flag"
	"log"

	entrypoint "github.com/louisbranch/devserve/internal/platform/cmd"
	server "github.com/louisbranch/devserve/internal/services/devserve/app"
)

// Config holds devserve command configuration.
type Config struct {
	HTTPAddr   string `env:"DEVSERVE_HTTP_ADDR" envDefault:"0.0.0.0:8000"`
	Root       string `env:"DEVSERVE_ROOT" envDefault:"."`
	HealthAddr string `env:"DEVSERVE_HEALTH_ADDR"`
	AccessLog  bool   `env:"DEVSERVE_ACCESS_LOG" envDefault:"true"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "Directory to serve")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (disabled when empty)")
	fs.BoolVar(&cfg.AccessLog, "access-log", cfg.AccessLog, "Log one line per request")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the static asset server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDevserve, func(ctx context.Context) error {
		return server.Run(ctx, serverConfig(cfg))
	})
}

func serverConfig(cfg Config) server.Config {
	out := server.Config{
		HTTPAddr:   cfg.HTTPAddr,
		Root:       cfg.Root,
		HealthAddr: cfg.HealthAddr,
	}
	if cfg.AccessLog {
		out.AccessLog = log.Default()
	}
	return out
}
