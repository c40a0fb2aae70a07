package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/devserve/internal/platform/otel"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("DEVSERVE_OTEL_ENDPOINT", "")
	t.Setenv("DEVSERVE_OTEL_ENABLED", "true")

	settings, err := otel.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if !settings.Enabled {
		t.Fatal("Enabled = false, want true by default")
	}
	if settings.Active() {
		t.Fatal("expected tracing inactive without endpoint")
	}
}

func TestLoadSettingsRejectsInvalidEnabled(t *testing.T) {
	t.Setenv("DEVSERVE_OTEL_ENABLED", "maybe")

	if _, err := otel.LoadSettings(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("DEVSERVE_OTEL_ENDPOINT", "")
	t.Setenv("DEVSERVE_OTEL_ENABLED", "true")

	shutdown, err := otel.Setup(context.Background(), "devserve-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("DEVSERVE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("DEVSERVE_OTEL_ENABLED", "false")

	settings, err := otel.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings.Active() {
		t.Fatal("expected tracing inactive when disabled")
	}

	shutdown, err := otel.Setup(context.Background(), "devserve-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupWithSettingsCreatesProvider(t *testing.T) {
	// Non-routable address; nothing is exported before shutdown.
	shutdown, err := otel.SetupWithSettings(context.Background(), "devserve-test", otel.Settings{
		Endpoint: "http://192.0.2.1:4318",
		Enabled:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
