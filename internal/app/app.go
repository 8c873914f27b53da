package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/peerlink-games/rendezvous-server/internal/auth"
	"github.com/peerlink-games/rendezvous-server/internal/config"
	"github.com/peerlink-games/rendezvous-server/internal/core"
	"github.com/peerlink-games/rendezvous-server/internal/github"
	"github.com/peerlink-games/rendezvous-server/internal/session"
	transporthttp "github.com/peerlink-games/rendezvous-server/internal/transport/http"
)

// App wires together the coordinator, the login glue and the transport.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	verifier := auth.NewVerifier(cfg.CredentialsFile)
	tokens := session.NewStore(cfg.TokenStoreFile, cfg.TokenExpiry)

	// Without a configured GitHub App, sessions are issued without a
	// delegated token. Matchmaking does not depend on either.
	var minter auth.TokenMinter
	if cfg.GitHub.AppID != "" && cfg.GitHub.PrivateKey != "" {
		minter = github.NewClient(github.Config{
			AppID:          cfg.GitHub.AppID,
			InstallationID: cfg.GitHub.InstallationID,
			PrivateKey:     cfg.GitHub.PrivateKey,
			APIURL:         cfg.GitHub.APIURL,
		})
		logger.Info().Str("app_id", cfg.GitHub.AppID).Msg("delegated token minting enabled")
	} else {
		logger.Warn().Msg("github app not configured, sessions issued without delegated token")
	}

	authService := auth.NewService(verifier, tokens, minter)

	hub := core.NewHub(cfg.Quorum, logger)
	server := transporthttp.NewServer(hub, authService, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
