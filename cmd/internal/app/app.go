// Package app wires the callboard server runtime: config, logging, storage,
// and the auth HTTP surface.
//
// It is intentionally small and deterministic to keep CI gates strict and behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"callboard/cmd/identity"
	authapi "callboard/cmd/internal/auth/api"
	"callboard/cmd/internal/auth/session"
	"callboard/cmd/internal/verification"
	"callboard/cmd/security/token"
)

// Store is a small app-level lifecycle abstraction.
// It exists to allow DB-backed resources to be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used for in-memory store mode.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the callboard server runtime. It owns the HTTP server wiring and
// the lifecycle of its storage backends.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool    *pgxpool.Pool
	dbEnabled bool

	auth     *authapi.Handler
	sessions *session.Authenticator
	codes    *verification.Service
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogPretty)
	}

	tokenCfg, err := LoadSecurityConfig()
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewService(tokenCfg)
	if err != nil {
		return nil, err
	}

	st, dbPool, dbEnabled, users, codeStore, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	codes, err := verification.NewService(codeStore)
	if err != nil {
		closeQuiet(st, log)
		return nil, err
	}

	authCfg := authapi.DefaultConfig()
	authCfg.CookieDomain = cfg.CookieDomain
	authCfg.CookieSecure = cfg.CookieSecure
	authCfg.SameSite = cfg.SameSite()
	if cfg.MinPasswordLen > 0 {
		authCfg.MinPasswordLen = cfg.MinPasswordLen
	}

	authHandler, err := authapi.NewHandler(log, authCfg, users, tokens, codes)
	if err != nil {
		closeQuiet(st, log)
		return nil, err
	}

	sessions, err := session.NewAuthenticator(log, tokens, users)
	if err != nil {
		closeQuiet(st, log)
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		auth:      authHandler,
		sessions:  sessions,
		codes:     codes,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth)

	var handler http.Handler = a.sessions.Middleware(mux)
	handler = WithCORS(handler, a.cfg, a.log)
	handler = WithSecurityHeaders(handler)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	go a.sweepExpiredCodes(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

// sweepExpiredCodes periodically removes expired verification codes.
// Verification is correct without it (expiry is checked on use); the sweep
// only keeps the table from growing unbounded.
func (a *App) sweepExpiredCodes(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.codes.Cleanup(ctx, time.Now().UTC())
			if err != nil {
				a.log.Error("verification.cleanup.fail", "err", err)
				continue
			}
			if n > 0 {
				a.log.Info("verification.cleanup", "removed", n)
			}
		}
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func closeQuiet(st Store, log Logger) {
	if err := st.Close(context.Background()); err != nil {
		log.Error("store.close.fail", "err", err)
	}
}

// newStore decides between Postgres-backed persistence and the in-memory dev
// stores. An empty database URL means dev mode; nothing survives a restart.
func newStore(ctx context.Context, cfg Config, log Logger) (Store, *pgxpool.Pool, bool, identity.Store, verification.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return nopStore{}, nil, false, identity.NewInMemoryStore(), verification.NewInMemoryStore(), nil
	}

	if cfg.MigrateOnStart {
		if err := RunMigrations(ctx, cfg, log); err != nil {
			return nil, nil, false, nil, nil, err
		}
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, nil, nil, err
	}

	log.Info("db.enabled.postgres_store")

	// Ownership model:
	// - app owns pool lifecycle
	// - the stores never close the pool themselves
	users, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, nil, nil, err
	}
	codeStore, err := verification.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, nil, nil, err
	}

	return dbStore{pool: pool}, pool, true, users, codeStore, nil
}

type dbStore struct {
	pool *pgxpool.Pool
}

func (s dbStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
