package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != DefaultModel {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, DefaultModel)
	}
	if !cfg.HighTicketThreshold.Equal(decimal.NewFromInt(500)) {
		t.Errorf("HighTicketThreshold = %s, want 500", cfg.HighTicketThreshold)
	}
	if cfg.ArchiveEnabled() {
		t.Error("archive should be disabled without bucket and project")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLASSIFY_TIMEOUT", "5s")
	t.Setenv("HIGH_TICKET_THRESHOLD", "250")
	t.Setenv("ARCHIVE_BUCKET", "stmt-archive")
	t.Setenv("ARCHIVE_PROJECT", "my-project")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.ClassifyTimeout != 5*time.Second {
		t.Errorf("ClassifyTimeout = %s, want 5s", cfg.ClassifyTimeout)
	}
	if !cfg.HighTicketThreshold.Equal(decimal.NewFromInt(250)) {
		t.Errorf("HighTicketThreshold = %s, want 250", cfg.HighTicketThreshold)
	}
	if !cfg.ArchiveEnabled() {
		t.Error("archive should be enabled with bucket and project set")
	}
}

func TestExtensionAllowed(t *testing.T) {
	cfg := Load()

	tests := []struct {
		ext  string
		want bool
	}{
		{".csv", true},
		{".CSV", true},
		{".xlsx", true},
		{".xls", true},
		{".pdf", true},
		{".txt", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := cfg.ExtensionAllowed(tt.ext); got != tt.want {
			t.Errorf("ExtensionAllowed(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
