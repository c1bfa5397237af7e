// Package serve provides the serve command, which runs the HTTP merge API.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/server"
	"github.com/agentstation/factmerge/pkg/constants"
	"github.com/agentstation/factmerge/pkg/errors"
)

// NewCommand creates the serve command. defaults supplies the configured
// server settings when the command runs; flags given on the command line
// override them.
func NewCommand(app application.Application, defaults func() server.Config) *cobra.Command {
	d := defaults()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the HTTP merge API",
		Long: `Start an HTTP server that merges uploaded files.

Endpoints:
  POST {prefix}/merge    multipart upload, files under the "files" key
  GET  {prefix}/fields   canonical fields and synonyms
  GET  {prefix}/health   liveness
  GET  {prefix}/ready    readiness
  GET  /health           liveness, without prefix

Identical uploads within the cache TTL return the cached result.`,
		Example: `  factmerge serve
  factmerge serve --port 3000 --prefix /api
  factmerge serve --cors-origins https://app.example.com --rate-limit 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd, defaults())
			if err != nil {
				return err
			}
			return run(cmd.Context(), app, cfg)
		},
	}

	cmd.Flags().Int("port", d.Port, "server port")
	cmd.Flags().String("host", d.Host, "bind address")
	cmd.Flags().String("prefix", d.PathPrefix, "API path prefix")
	cmd.Flags().Bool("cors", d.CORSEnabled, "enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", d.CORSOrigins, "allowed CORS origins (comma-separated)")
	cmd.Flags().Int("rate-limit", d.RateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", d.CacheTTL, "how long merge results are cached")
	cmd.Flags().Int64("max-file-size", d.MaxFileSize, "largest accepted upload in bytes")
	cmd.Flags().Int("max-files", d.MaxFiles, "most files accepted per request")
	cmd.Flags().Int64("max-request-size", d.MaxRequestSize, "largest accepted request body in bytes")
	cmd.Flags().Duration("read-timeout", d.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", d.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", d.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// parseConfig overrides cfg with the flags given on the command line.
func parseConfig(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("port", func() (e error) { cfg.Port, e = flags.GetInt("port"); return })
	set("host", func() (e error) { cfg.Host, e = flags.GetString("host"); return })
	set("prefix", func() (e error) { cfg.PathPrefix, e = flags.GetString("prefix"); return })
	set("cors", func() (e error) { cfg.CORSEnabled, e = flags.GetBool("cors"); return })
	set("cors-origins", func() (e error) {
		cfg.CORSOrigins, e = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = cfg.CORSEnabled || len(cfg.CORSOrigins) > 0
		return
	})
	set("rate-limit", func() (e error) { cfg.RateLimit, e = flags.GetInt("rate-limit"); return })
	set("cache-ttl", func() (e error) { cfg.CacheTTL, e = flags.GetDuration("cache-ttl"); return })
	set("max-file-size", func() (e error) { cfg.MaxFileSize, e = flags.GetInt64("max-file-size"); return })
	set("max-files", func() (e error) { cfg.MaxFiles, e = flags.GetInt("max-files"); return })
	set("max-request-size", func() (e error) { cfg.MaxRequestSize, e = flags.GetInt64("max-request-size"); return })
	set("read-timeout", func() (e error) { cfg.ReadTimeout, e = flags.GetDuration("read-timeout"); return })
	set("write-timeout", func() (e error) { cfg.WriteTimeout, e = flags.GetDuration("write-timeout"); return })
	set("idle-timeout", func() (e error) { cfg.IdleTimeout, e = flags.GetDuration("idle-timeout"); return })
	if err != nil {
		return cfg, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, &errors.ValidationError{Field: "port", Value: cfg.Port, Message: "must be between 1 and 65535"}
	}
	if cfg.RateLimit < 0 {
		return cfg, &errors.ValidationError{Field: "rate-limit", Value: cfg.RateLimit, Message: "cannot be negative"}
	}
	return cfg, nil
}

// run starts the server and blocks until ctx is cancelled or the listener
// fails.
func run(ctx context.Context, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           srv.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	logger.Info().
		Str("addr", httpServer.Addr).
		Str("prefix", srv.Config().PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", srv.Config().CacheTTL).
		Msg("Starting API server")

	return startWithGracefulShutdown(ctx, httpServer, srv, logger)
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections for at most constants.ShutdownTimeout.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")

		// The parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Server cleanup had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}
