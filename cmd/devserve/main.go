// Package main serves the working directory over HTTP with caching disabled.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	devservecmd "github.com/louisbranch/devserve/internal/cmd/devserve"
	"github.com/louisbranch/devserve/internal/platform/config"
)

func main() {
	cfg, err := devservecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[DEVSERVE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := devservecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
