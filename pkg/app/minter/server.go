// Package minter implements app.Runner for the mint service process.
package minter

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/app"
	apphttp "github.com/chainsafe/nft-minter/pkg/app/http"
	"github.com/chainsafe/nft-minter/pkg/auth"
	"github.com/chainsafe/nft-minter/pkg/chainstate"
	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/confirmation"
	"github.com/chainsafe/nft-minter/pkg/ethereum"
	mintservice "github.com/chainsafe/nft-minter/pkg/mint/service"
	"github.com/chainsafe/nft-minter/pkg/mintstore"
	"github.com/chainsafe/nft-minter/pkg/pgutil"
	"github.com/chainsafe/nft-minter/pkg/pinning"
)

const defaultDrainTimeout = 30 * time.Second

// Server holds cfg to init the minter.
type Server struct {
	cfg *config.Config
}

var _ app.Runner = (*Server)(nil)

// NewServer initializes a new minter Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run wires the workflow and serves it until an OS shutdown signal is received
// or a fatal server error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting NFT minter",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Int64("chain_id", cfg.Ethereum.ChainID),
		zap.String("collection", cfg.Ethereum.CollectionContract),
	)

	store, closeStore, err := s.openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ethClient, err := ethereum.NewClient(&cfg.Ethereum, logger)
	if err != nil {
		return fmt.Errorf("initialize ethereum client: %w", err)
	}
	defer ethClient.Close()

	state := chainstate.NewProvider(ethClient, &cfg.ChainState, logger)
	s.loadInitialState(ctx, state, logger)
	state.StartPeriodicRefresh(cfg.ChainState.RefreshInterval)
	// Stopped explicitly after the servers return; the defer is a safety net.
	defer state.Stop()

	svc := mintservice.NewLog(mintservice.NewService(
		pinning.NewClient(&cfg.Pinning, pinning.WithLogger(logger)),
		ethClient,
		confirmation.NewTracker(ethClient, &cfg.Confirmation, logger),
		state,
		store,
		mintservice.Config{
			CollectionLabel: cfg.Mint.CollectionLabel,
			DefaultSymbol:   cfg.Mint.DefaultSymbol,
		},
		logger,
	), logger)

	router := s.setupRouter(ctx, svc, state, logger)

	metricsErr := s.startMetricsServer(ctx, logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
	stop()
	if mErr := <-metricsErr; mErr != nil && err == nil {
		err = mErr
	}

	// Attempts still awaiting confirmation are recorded before the store closes.
	s.drain(svc)

	state.Stop()
	return err
}

// drain waits up to the shutdown timeout for running mint attempts.
func (s *Server) drain(svc mintservice.Service) {
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	// Failures are logged by the service decorator.
	_ = svc.Shutdown(ctx)
}

func (s *Server) openStore(logger *zap.Logger) (mintstore.Store, func(), error) {
	if !s.cfg.Database.Enabled {
		logger.Warn("Database disabled, mint attempts are kept in memory")
		return mintstore.NewMemoryStore(), func() {}, nil
	}

	db, err := pgutil.ConnectDB(&s.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to database",
		zap.String("host", s.cfg.Database.Host),
		zap.String("database", s.cfg.Database.Database),
	)
	return mintstore.NewStore(db), func() { _ = db.Close() }, nil
}

// loadInitialState primes the snapshot. A failure is not fatal: the first
// request retries the load.
func (s *Server) loadInitialState(ctx context.Context, state *chainstate.Provider, logger *zap.Logger) {
	snap, err := state.Refresh(ctx)
	if err != nil {
		logger.Warn("Initial chain state load failed (will retry on demand)", zap.Error(err))
		return
	}
	logger.Info("Chain state loaded",
		zap.Int("administrators", len(snap.Administrators)),
		zap.String("token_count", snap.TokenCount.String()),
	)
}

func (s *Server) setupRouter(
	ctx context.Context,
	svc mintservice.Service,
	state *chainstate.Provider,
	logger *zap.Logger,
) chi.Router {
	cfg := s.cfg

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !state.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	authenticator := auth.NewAuthenticator(&cfg.Auth, logger)
	mintservice.RegisterRoutes(r, svc, mintservice.HTTPConfig{
		BaseContext:   ctx,
		Authenticate:  authenticator.Middleware,
		MaxAssetBytes: cfg.Pinning.MaxAssetBytes,
	}, logger)

	return r
}

// startMetricsServer serves /metrics on the monitoring port. The returned
// channel yields the server's exit error once ctx is done.
func (s *Server) startMetricsServer(ctx context.Context, logger *zap.Logger) <-chan error {
	errCh := make(chan error, 1)
	if !s.cfg.Monitoring.Enabled {
		errCh <- nil
		return errCh
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	serverCfg := s.cfg.Server
	serverCfg.Port = s.cfg.Monitoring.MetricsPort

	logger.Info("Metrics enabled", zap.Int("port", serverCfg.Port), zap.String("path", "/metrics"))
	go func() {
		errCh <- apphttp.ServeAndWait(ctx, r, logger.With(zap.String("server", "metrics")), &serverCfg)
	}()
	return errCh
}
