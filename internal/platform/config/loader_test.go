package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"culturescan-server-go/internal/platform/errors"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 9090
log:
  log_level: "debug"
gemini:
  api_key: "file-key"
  model_name: "gemini-1.5-pro"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader().WithDotEnv(false).WithPath(configFile)
	res, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := res.Config

	if cfg.Server.IP != "127.0.0.1" {
		t.Errorf("expected server IP 127.0.0.1, got %s", cfg.Server.IP)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Gemini.ModelName != "gemini-1.5-pro" {
		t.Errorf("expected model gemini-1.5-pro, got %s", cfg.Gemini.ModelName)
	}
	// file did not set a timeout, the default must survive
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %s", cfg.Gemini.Timeout)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	if err := os.WriteFile(configFile, []byte("gemini:\n  api_key: \"file-key\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_API_URL", "http://localhost:9999/v1beta")
	t.Setenv("PORT", "8888")

	res, err := NewLoader().WithDotEnv(false).WithPath(configFile).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if res.Config.Gemini.APIKey != "env-key" {
		t.Errorf("expected env API key to win, got %s", res.Config.Gemini.APIKey)
	}
	if res.Config.Gemini.BaseURL != "http://localhost:9999/v1beta" {
		t.Errorf("expected env base URL to win, got %s", res.Config.Gemini.BaseURL)
	}
	if res.Config.Server.Port != 8888 {
		t.Errorf("expected env port to win, got %d", res.Config.Server.Port)
	}
}

func TestLoader_MissingAPIKeyIsFatal(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("expected config kind error, got %v", err)
	}
}

func TestLoader_Validate(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) { c.Gemini.APIKey = "k" },
			wantErr: false,
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "invalid server port",
			mutate: func(c *Config) {
				c.Gemini.APIKey = "k"
				c.Server.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "invalid timeout",
			mutate: func(c *Config) {
				c.Gemini.APIKey = "k"
				c.Gemini.Timeout = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := loader.validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
