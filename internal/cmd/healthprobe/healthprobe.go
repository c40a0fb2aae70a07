// Package healthprobe checks a running devserve health endpoint, for use as a
// container health check.
package healthprobe

import (
	"context"
	"flag"
	"log"
	"time"

	entrypoint "github.com/louisbranch/devserve/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/devserve/internal/platform/grpc"
	server "github.com/louisbranch/devserve/internal/services/devserve/app"
)

// Config holds healthprobe command configuration.
type Config struct {
	Addr    string        `env:"DEVSERVE_HEALTH_ADDR" envDefault:"127.0.0.1:8001"`
	Service string        `env:"DEVSERVE_HEALTH_SERVICE"`
	Timeout time.Duration `env:"DEVSERVE_HEALTH_TIMEOUT" envDefault:"3s"`
	Verbose bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Service == "" {
		cfg.Service = server.HealthService
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "gRPC health address to probe")
	fs.StringVar(&cfg.Service, "service", cfg.Service, "Health service name")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Time to wait for SERVING")
	fs.BoolVar(&cfg.Verbose, "v", false, "Log probe attempts")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run returns nil once the endpoint reports SERVING within the timeout.
func Run(ctx context.Context, cfg Config) error {
	var logf func(string, ...any)
	if cfg.Verbose {
		logf = log.Printf
	}
	conn, err := platformgrpc.DialWithHealth(ctx, cfg.Addr, cfg.Service, cfg.Timeout, logf)
	if err != nil {
		return err
	}
	return conn.Close()
}
