package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.AuditMode != "console" {
		t.Errorf("expected default audit mode console, got %s", cfg.AuditMode)
	}

	if cfg.ForecastTTL != 30*time.Minute {
		t.Errorf("expected default forecast TTL 30m, got %s", cfg.ForecastTTL)
	}

	if cfg.StateDir == "" {
		t.Error("expected non-empty state dir")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AUDIT_MODE", "postgres")
	t.Setenv("FORECAST_TTL", "5m")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("expected HTTP port 9090, got %s", cfg.HTTPPort)
	}

	if cfg.AuditMode != "postgres" {
		t.Errorf("expected audit mode postgres, got %s", cfg.AuditMode)
	}

	if cfg.ForecastTTL != 5*time.Minute {
		t.Errorf("expected forecast TTL 5m, got %s", cfg.ForecastTTL)
	}
}

func TestLoadFromEnv_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("FORECAST_TTL", "not-a-duration")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ForecastTTL != 30*time.Minute {
		t.Errorf("expected fallback forecast TTL 30m, got %s", cfg.ForecastTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid-defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty-http-port",
			mutate:  func(c *Config) { c.HTTPPort = "" },
			wantErr: true,
		},
		{
			name:    "empty-submission-url",
			mutate:  func(c *Config) { c.SubmissionURL = "" },
			wantErr: true,
		},
		{
			name:    "bad-audit-mode",
			mutate:  func(c *Config) { c.AuditMode = "kafka" },
			wantErr: true,
		},
		{
			name:    "non-positive-ttl",
			mutate:  func(c *Config) { c.ForecastTTL = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromEnv()
			if err != nil {
				t.Fatalf("load config: %v", err)
			}

			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
