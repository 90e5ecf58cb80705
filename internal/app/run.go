package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/Flarenzy/simple-auth-api/internal/auth"
	appdb "github.com/Flarenzy/simple-auth-api/internal/db"
	"github.com/Flarenzy/simple-auth-api/internal/domain"
	apihttp "github.com/Flarenzy/simple-auth-api/internal/http"
	"github.com/Flarenzy/simple-auth-api/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Run listens on the configured port and serves until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	defer listener.Close()

	return Serve(ctx, cfg, listener)
}

// Serve wires the application and serves HTTP on listener until ctx is
// canceled, then shuts the server down gracefully.
func Serve(ctx context.Context, cfg Config, listener net.Listener) error {
	logger := logging.New(os.Stderr, cfg.LogLevel)
	logger.InfoContext(ctx, "starting", "config", cfg)

	authenticator, issuer, err := newAuthenticator(ctx, cfg)
	if err != nil {
		return err
	}

	pool, err := appdb.NewPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := appdb.Migrate(ctx, logger, pool, appdb.MigrateUp); err != nil {
			return err
		}
	}

	users := domain.NewLoggingUserService(logger, domain.NewUserService(
		appdb.NewUserRepository(pool),
		auth.BcryptHasher{},
		issuer,
	))
	api := apihttp.NewAPI(logger, pool, users, authenticator)

	server := &http.Server{
		Handler:           api.Router(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		logger.InfoContext(ctx, "serving http", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-grpCtx.Done()
		logger.InfoContext(ctx, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return grp.Wait()
}

// newAuthenticator builds the local HMAC authenticator, which also issues
// login tokens, and chains the external identity provider after it when
// one is configured.
func newAuthenticator(ctx context.Context, cfg Config) (auth.Authenticator, *auth.HMACAuthenticator, error) {
	local, err := auth.NewHMACAuthenticator(auth.HMACConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
		Issuer: cfg.TokenIssuer,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure token authenticator: %w", err)
	}

	external, err := auth.NewJWKSAuthenticator(ctx, auth.JWKSConfig{
		JWKSURL:  cfg.JWKSURL,
		Issuer:   cfg.OIDCIssuer,
		Audience: cfg.Audience,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure external authenticator: %w", err)
	}

	return auth.Chain(local, external), local, nil
}
