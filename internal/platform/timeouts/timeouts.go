// Package timeouts defines the timeout constants shared by the server and its
// entrypoint.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown caps how long telemetry may take to flush on exit.
const Shutdown = 5 * time.Second

// HealthCheck caps a single gRPC health probe call.
const HealthCheck = time.Second
