package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestNewProviderDisabled(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if provider.Enabled() {
		t.Error("provider should be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider should still return a no-op metrics recorder")
	}

	// No-op recorders must not panic
	provider.Metrics().RecordHTTPRequest(context.Background(), "GET", "/events", 200, time.Millisecond)
	provider.Metrics().RecordUpstreamOperation(context.Background(), ServiceWeather, "forecast", StatusSuccess, time.Millisecond)
	provider.Metrics().RecordOAuthAttempt(context.Background(), StatusSuccess)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.ServiceName != "daybrief" {
		t.Errorf("ServiceName = %q, want daybrief", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("instrumentation should be enabled by default")
	}
}

func TestNoOpMetricsRecorder(t *testing.T) {
	m := &Metrics{}

	// Zero-value recorder must be safe to call
	m.RecordHTTPRequest(context.Background(), "GET", "/weather", 200, time.Second)
	m.RecordUpstreamOperation(context.Background(), ServiceCalendar, "list_events", StatusError, time.Second)
	m.RecordOAuthAttempt(context.Background(), StatusError)
}
