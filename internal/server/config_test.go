package server

import (
	"testing"

	"github.com/iwvelando/flip-calculator/internal/config"
	"github.com/iwvelando/flip-calculator/pkg/constants"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{}, "  ")
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.Version != "dev" {
		t.Fatalf("expected dev version, got %q", cfg.Version)
	}
}

func TestNewConfigOverrides(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{
		Address:        "127.0.0.1:9000",
		MaxBodySize:    "2M",
		AllowedOrigins: []string{"https://flip.example.com"},
	}, "1.2.3")
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected body size override, got %d", cfg.BodySizeBytes())
	}
	if len(cfg.AllowedOrigins) != 1 {
		t.Fatalf("expected one origin, got %v", cfg.AllowedOrigins)
	}
	if cfg.Version != "1.2.3" {
		t.Fatalf("expected version, got %q", cfg.Version)
	}
}

func TestNewConfigInvalidSize(t *testing.T) {
	if _, err := NewConfig(config.ServerConfig{MaxBodySize: "lots"}, ""); err == nil {
		t.Fatal("expected error for invalid size")
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{}, "")
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetBodySizeBytes(512)
	if cfg.BodySizeBytes() != 512 || cfg.MaxBodySize != "512" {
		t.Fatalf("unexpected size %d / %s", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
	cfg.SetBodySizeBytes(-1)
	if cfg.BodySizeBytes() != 512 {
		t.Fatal("non-positive size must be ignored")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"", constants.DefaultMaxBodySizeBytes, false},
		{"1024", 1024, false},
		{"64K", 64 * 1024, false},
		{"64kb", 64 * 1024, false},
		{"1M", 1024 * 1024, false},
		{"10B", 10, false},
		{"1G", 0, true},
		{"abc", 0, true},
		{"12XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSize(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
