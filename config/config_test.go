package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        struct {
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		MaxBodySize string `mapstructure:"max_body_size"`
	} `mapstructure:"server"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "streamscribe"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("expected development with debug, got %+v", cfg)
	}
	if cfg.Logging.ServiceName != "streamscribe" {
		t.Errorf("logging service name = %q", cfg.Logging.ServiceName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}

	prod := ServiceConfig{Name: "svc", Environment: "production"}
	prod.ApplyDefaults()
	if prod.Debug {
		t.Error("production should not enable debug")
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: streamscribe
environment: staging
server:
  host: 127.0.0.1
  port: 8282
`)

	var cfg testConfig
	if err := LoadConfig("streamscribe-test", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "streamscribe" || cfg.Environment != "staging" {
		t.Errorf("service config not loaded: %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Port != 8282 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server section not loaded: %+v", cfg.Server)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: streamscribe
server:
  port: 8282
  max_body_size: 10MB
`)
	t.Setenv("SCRIBETEST_SERVER_PORT", "9000")
	t.Setenv("SCRIBETEST_SERVER_MAX_BODY_SIZE", "1GB")

	var cfg testConfig
	err := LoadConfig("streamscribe", &cfg, WithConfigFile(path), WithEnvPrefix("SCRIBETEST"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != "1GB" {
		t.Errorf("max_body_size = %q, want 1GB", cfg.Server.MaxBodySize)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "ENVFILETEST_NAME=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("ENVFILETEST_NAME") })

	var cfg testConfig
	err := LoadConfig("svc", &cfg,
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envPath),
		WithEnvPrefix("ENVFILETEST"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("name = %q, want from-dotenv", cfg.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("missing file should not fail, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/streamscribe/config.yml": true,
		"./config.yml":                  true,
		".env":                          true,
	}}
	r := &Resolver{FileSystem: fs}
	files := r.ResolveFiles("streamscribe", LoaderConfig{})
	if files.ConfigFile != "./cmd/streamscribe/config.yml" {
		t.Errorf("config file = %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("env file = %q", files.EnvFile)
	}

	explicit := r.ResolveFiles("streamscribe", LoaderConfig{ConfigFile: "/etc/app.yml"})
	if explicit.ConfigFile != "/etc/app.yml" {
		t.Errorf("explicit path should win, got %q", explicit.ConfigFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("STORAGE_BASE_PATH")
	want := []string{"storage_base_path", "storage.base_path", "storage_base.path"}
	if len(got) != len(want) {
		t.Fatalf("variants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
