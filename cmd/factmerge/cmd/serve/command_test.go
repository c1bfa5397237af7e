package serve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/server"
	"github.com/agentstation/factmerge/pkg/errors"
)

func defaults() server.Config {
	cfg := server.DefaultConfig()
	cfg.Port = 9090
	cfg.PathPrefix = "/v2"
	return cfg
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cmd := NewCommand(&application.Mock{}, defaults)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := parseConfig(cmd, defaults())
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestParseConfigFlagsOverride(t *testing.T) {
	cmd := NewCommand(&application.Mock{}, defaults)
	require.NoError(t, cmd.ParseFlags([]string{
		"--port", "3000",
		"--prefix", "/api",
		"--cors-origins", "https://a.example,https://b.example",
		"--rate-limit", "0",
		"--cache-ttl", "1m",
		"--max-files", "10",
		"--max-request-size", "1048576",
	}))

	cfg, err := parseConfig(cmd, defaults())
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/api", cfg.PathPrefix)
	assert.True(t, cfg.CORSEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.MaxFiles)
	assert.Equal(t, int64(1<<20), cfg.MaxRequestSize)
	assert.Equal(t, defaults().Host, cfg.Host)
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "port too large", args: []string{"--port", "70000"}},
		{name: "port zero", args: []string{"--port", "0"}},
		{name: "negative rate limit", args: []string{"--rate-limit", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(&application.Mock{}, defaults)
			require.NoError(t, cmd.ParseFlags(tt.args))

			_, err := parseConfig(cmd, defaults())
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := defaults()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, &application.Mock{}, cfg) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
