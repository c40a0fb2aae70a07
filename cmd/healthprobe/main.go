// Package main probes a devserve gRPC health endpoint and exits non-zero
// unless it reports SERVING.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	probecmd "github.com/louisbranch/devserve/internal/cmd/healthprobe"
	"github.com/louisbranch/devserve/internal/platform/config"
)

func main() {
	cfg, err := probecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := probecmd.Run(ctx, cfg); err != nil {
		config.Exitf("health probe failed: %v", err)
	}
}
