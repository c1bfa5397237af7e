package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/factmerge/pkg/constants"
)

// isolate runs the test in an empty working and home directory so no
// .env or .factmerge.yaml on the machine leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

// TestLoadConfigDefaults verifies defaults when nothing is configured.
func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Region != constants.DefaultRegion {
		t.Errorf("Region = %q, want %q", config.Region, constants.DefaultRegion)
	}
	if config.Threshold != constants.DefaultFuzzyThreshold {
		t.Errorf("Threshold = %v, want %v", config.Threshold, constants.DefaultFuzzyThreshold)
	}
	if config.Workers != constants.DefaultWorkers {
		t.Errorf("Workers = %d, want %d", config.Workers, constants.DefaultWorkers)
	}
	if config.Server.Port != 8080 || config.Server.Prefix != "/api/v1" {
		t.Errorf("Server = %+v, want port 8080 and prefix /api/v1", config.Server)
	}
	if config.Server.CacheTTL != constants.DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", config.Server.CacheTTL, constants.DefaultCacheTTL)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestLoadConfigEnvironment verifies prefixed environment variables.
func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("FACTMERGE_REGION", "GB")
	t.Setenv("FACTMERGE_THRESHOLD", "0.9")
	t.Setenv("FACTMERGE_AUDIT", "true")
	t.Setenv("FACTMERGE_SERVER_PORT", "9000")
	t.Setenv("FACTMERGE_SERVER_CACHE_TTL", "1m")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Region != "GB" {
		t.Errorf("Region = %q, want GB", config.Region)
	}
	if config.Threshold != 0.9 {
		t.Errorf("Threshold = %v, want 0.9", config.Threshold)
	}
	if !config.Audit {
		t.Error("FACTMERGE_AUDIT not loaded")
	}
	if config.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", config.Server.Port)
	}
	if config.Server.CacheTTL != time.Minute {
		t.Errorf("Server.CacheTTL = %v, want 1m", config.Server.CacheTTL)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", config.LogLevel)
	}
}

// TestLoadConfigFile verifies an explicit config file is read.
func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "factmerge.yaml")
	content := `region: DE
workers: 2
tables_path: /etc/factmerge/tables.yaml
server:
  prefix: /merge-api
  rate_limit: 0
  cors_origins:
    - https://app.example.com
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Region != "DE" || config.Workers != 2 {
		t.Errorf("Region/Workers = %q/%d, want DE/2", config.Region, config.Workers)
	}
	if config.TablesPath != "/etc/factmerge/tables.yaml" {
		t.Errorf("TablesPath = %q", config.TablesPath)
	}
	if config.Server.Prefix != "/merge-api" || config.Server.RateLimit != 0 {
		t.Errorf("Server = %+v", config.Server)
	}
	if len(config.Server.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v, want one origin", config.Server.CORSOrigins)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
}

// TestLoadConfigMissingFile verifies an explicit file must exist.
func TestLoadConfigMissingFile(t *testing.T) {
	dir := isolate(t)
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadConfig() with missing file succeeded, want error")
	}
}

// TestLoadConfigDotEnv verifies .env files in the working directory.
func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FACTMERGE_WORKERS=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("FACTMERGE_WORKERS") })

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Workers != 7 {
		t.Errorf("Workers = %d, want 7", config.Workers)
	}
}
