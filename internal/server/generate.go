// Package server provides the HTTP server for the factmerge API.
//
// The package is layered the same way as the CLI:
//
//   - Server: core server struct with lifecycle management
//   - Config: server configuration with sensible defaults
//   - Router: route registration and middleware chain
//   - Handlers: HTTP request handlers
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 8080
//
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Shutdown(context.Background())
//
//	http.ListenAndServe(":8080", srv.Handler())
//
// Endpoints, relative to the path prefix (default /api/v1):
//
//	POST /merge   multipart upload, files under "files"
//	GET  /fields  canonical fields, categories and synonyms
//	GET  /health  liveness (also served at /health)
//	GET  /ready   readiness
package server

//go:generate gomarkdoc --output README.md .
