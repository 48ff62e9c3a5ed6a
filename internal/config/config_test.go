package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "ANTHROPIC_API_KEY", "OLLAMA_HOST", "AGENTCHAT_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HistoryCapacity != 10 {
		t.Errorf("expected default history capacity 10, got %d", cfg.HistoryCapacity)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearProviderEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
default_model: gpt-4
history_capacity: 6
log_level: debug
providers:
  openai:
    api_key: sk-from-file
  ollama:
    host: http://gpu-box:11434
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultModel != "gpt-4" {
		t.Errorf("expected default model gpt-4, got %q", cfg.DefaultModel)
	}
	if cfg.HistoryCapacity != 6 {
		t.Errorf("expected history capacity 6, got %d", cfg.HistoryCapacity)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-from-file" {
		t.Errorf("expected api key from file, got %q", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Providers.Ollama.Host != "http://gpu-box:11434" {
		t.Errorf("expected ollama host from file, got %q", cfg.Providers.Ollama.Host)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %q", cfg.Server.Addr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "providers:\n  openai:\n    api_key: sk-from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("expected env to override file, got %q", cfg.Providers.OpenAI.APIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HistoryCapacity = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero history capacity")
	}

	cfg = Default()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "ERROR", want: slog.LevelError},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.LogLevel = tt.in
		got, err := cfg.SlogLevel()
		if err != nil {
			t.Errorf("SlogLevel(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRegistryConfig(t *testing.T) {
	cfg := Default()
	cfg.Providers.OpenAI.APIKey = "sk-1"
	cfg.Providers.OpenAI.BaseURL = "http://proxy/v1"
	cfg.Providers.Anthropic.APIKey = "sk-2"
	cfg.Providers.Ollama.Host = "http://local:11434"

	rc := cfg.RegistryConfig()
	if rc.OpenAIAPIKey != "sk-1" || rc.OpenAIBaseURL != "http://proxy/v1" ||
		rc.AnthropicAPIKey != "sk-2" || rc.OllamaHost != "http://local:11434" {
		t.Errorf("unexpected registry config: %+v", rc)
	}
}
