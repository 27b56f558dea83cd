package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "svc"},
		},
		{
			name: "invalid tracing exporter",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "bogus"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "sample percentage out of range",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "invalid metrics exporter",
			cfg: Config{
				ServiceName: "svc",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "graphite"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "negative max uri tags",
			cfg: Config{
				ServiceName: "svc",
				Metrics: MetricsConfig{
					Enabled:  true,
					Exporter: "none",
					Web:      WebConfig{Server: ServerConfig{MaxURITags: -1}},
				},
			},
			wantErr: ErrInvalidMaxURITags,
		},
		{
			name: "invalid log level",
			cfg: Config{
				ServiceName: "svc",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems skip validation",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Exporter: "bogus"},
				Metrics:     MetricsConfig{Exporter: "graphite"},
				Logging:     LoggingConfig{Level: "verbose"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MaxURITagsDefault(t *testing.T) {
	cfg := Config{ServiceName: "svc"}
	if got := cfg.MaxURITags(); got != DefaultMaxURITags {
		t.Errorf("MaxURITags() = %d, want default %d", got, DefaultMaxURITags)
	}

	cfg.Metrics.Web.Server.MaxURITags = 7
	if got := cfg.MaxURITags(); got != 7 {
		t.Errorf("MaxURITags() = %d, want 7", got)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("expected ErrMissingServiceName, got %v", err)
	}
}

func TestNewObserver_AllDisabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer() returned nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter() returned nil")
	}
	if obs.MeterProvider() != nil {
		t.Error("MeterProvider() should be nil when metrics are disabled")
	}
	if obs.Logger() == nil {
		t.Error("Logger() returned nil")
	}

	// Shutdown with nothing to shut down must be a no-op
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_MetricsEnabled(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "svc",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if obs.MeterProvider() == nil {
		t.Error("MeterProvider() returned nil with metrics enabled")
	}

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_TracingEnabled(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "svc",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer() returned nil with tracing enabled")
	}

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
