package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "none", ""} {
		exp, err := NewTracingExporter(ctx, name)
		if err != nil {
			t.Errorf("NewTracingExporter(%q): %v", name, err)
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) = nil exporter", name)
		}
	}

	if _, err := NewTracingExporter(ctx, "jaeger"); err == nil {
		t.Error("unknown exporter name succeeded")
	}
}

func TestNewTracingExporter_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Error("expected error when OTLP endpoint not configured")
	}
}

func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		reader, err := NewMetricsReader(ctx, name)
		if err != nil {
			t.Errorf("NewMetricsReader(%q): %v", name, err)
			continue
		}
		if reader == nil {
			t.Errorf("NewMetricsReader(%q) = nil reader", name)
			continue
		}
		_ = reader.Shutdown(ctx)
	}

	if _, err := NewMetricsReader(ctx, "statsd"); err == nil {
		t.Error("unknown metrics exporter name succeeded")
	}
}

func TestNewMetricsReader_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	if _, err := NewMetricsReader(context.Background(), "otlp"); err == nil {
		t.Error("expected error when OTLP metrics endpoint not configured")
	}
}
