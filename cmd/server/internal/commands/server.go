package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/blob"
	"github.com/wolfeidau/filedepot/internal/catalog"
	httpmiddleware "github.com/wolfeidau/filedepot/internal/http"
	"github.com/wolfeidau/filedepot/internal/logger"
	"github.com/wolfeidau/filedepot/internal/login"
	"github.com/wolfeidau/filedepot/internal/server"
	"github.com/wolfeidau/filedepot/internal/telemetry"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"FILEDEPOT_LISTEN"`
	Cert   string `help:"path to TLS cert file" default:"" env:"FILEDEPOT_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"FILEDEPOT_TLS_KEY"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"https://localhost" env:"FILEDEPOT_CORS_ORIGINS"`

	// Auth configuration
	JWTSecret  string        `help:"secret for HMAC signing of bearer tokens (32 bytes minimum)" env:"FILEDEPOT_JWT_SECRET"`
	TokenTTL   time.Duration `help:"bearer token TTL" default:"24h" env:"FILEDEPOT_TOKEN_TTL"`
	SessionTTL time.Duration `help:"session TTL" default:"168h" env:"FILEDEPOT_SESSION_TTL"`

	// Blob storage configuration
	BlobDir string `help:"directory for uploaded file blobs" default:"./blobs" env:"FILEDEPOT_BLOB_DIR"`

	// Operational modes
	Tracing bool `help:"enable tracing" default:"false" env:"FILEDEPOT_TRACING"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"FILEDEPOT_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *ServerCmd) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT secret must be at least 32 bytes (--jwt-secret or FILEDEPOT_JWT_SECRET)")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	// Setup telemetry if enabled
	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "filedepot-server", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	stores, cleanup, err := buildStores(ctx, c.StoreType, c.PostgresStore)
	if err != nil {
		return err
	}
	defer cleanup()
	log.Info().Str("store", c.StoreType).Msg("Stores initialized")

	blobs, err := blob.NewDiskStore(c.BlobDir)
	if err != nil {
		return err
	}
	log.Info().Str("dir", c.BlobDir).Msg("Using disk blob store")

	signer, err := auth.NewTokenSigner([]byte(c.JWTSecret), c.TokenTTL)
	if err != nil {
		return err
	}

	catalogSvc := catalog.NewService(stores.Organizations, stores.Users, stores.Files, stores.Downloads, blobs)
	loginSvc := login.NewService(stores.Users, stores.Sessions, signer, c.SessionTTL)

	mux := server.New(catalogSvc, loginSvc).Routes()

	// Middleware chain: request logging, client IP capture for session
	// audit, then dual auth (JWT first, session cookie fallback).
	var handler http.Handler = mux
	handler = auth.Middleware(signer, stores.Sessions, stores.Users)(handler)
	handler = httpmiddleware.ClientIPMiddleware()(handler)
	handler = logger.Requests(log)(handler)
	handler = withCORS(c.CORSOrigins, handler)

	if c.Cert != "" || c.Key != "" {
		if _, err := os.Stat(c.Cert); err != nil {
			return fmt.Errorf("TLS certificate not found at %s: %w", c.Cert, err)
		}
		if _, err := os.Stat(c.Key); err != nil {
			return fmt.Errorf("TLS key not found at %s: %w", c.Key, err)
		}

		log.Info().Str("addr", c.Listen).Msg("Starting HTTPS server")
		return configureHTTPServer(c.Listen, handler).ListenAndServeTLS(c.Cert, c.Key)
	}

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return configureHTTPServer(c.Listen, handler).ListenAndServe()
}

// withCORS adds CORS support for browser clients.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true, // Required for cookie-based authentication
	})
	return middleware.Handler(h)
}
