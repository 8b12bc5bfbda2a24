package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/grail/internal/db"
	"github.com/nkiryanov/grail/internal/handlers"
	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/metrics"
	"github.com/nkiryanov/grail/internal/repository"
	"github.com/nkiryanov/grail/internal/repository/memory"
	"github.com/nkiryanov/grail/internal/repository/postgres"
	"github.com/nkiryanov/grail/internal/service/catalog"
	"github.com/nkiryanov/grail/internal/service/profile"
	"github.com/nkiryanov/grail/internal/service/purchase"
	"github.com/nkiryanov/grail/internal/service/wallet"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	purchases *purchase.PurchaseService
	logger    logger.Logger

	// Release storage resources
	close func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	walletID, err := uuid.Parse(c.WalletID)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet id %q. Err: %w", c.WalletID, err)
	}

	storage, closeStorage, err := openStorage(ctx, c.DatabaseDSN, l)
	if err != nil {
		return nil, err
	}

	// Initialize services
	walletService, err := wallet.Open(ctx, storage, walletID, wallet.DefaultSeed(time.Now()))
	if err != nil {
		closeStorage()
		return nil, err
	}
	catalogService := catalog.NewService(catalog.DefaultProducts())
	collector := metrics.NewCollector()
	purchaseService := purchase.NewService(
		purchase.Config{ProductDelay: c.PurchaseDelay, TopUpDelay: c.TopUpDelay, FlowTTL: c.FlowTTL},
		catalogService,
		walletService,
		collector,
		l,
	)

	profileService := profile.NewService(profile.DefaultProfile(), profile.DefaultFeatured(), catalogService, walletService)

	mux := handlers.NewRouter(catalogService, walletService, purchaseService, profileService, collector, l)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		purchases:  purchaseService,
		logger:     l,
		close:      closeStorage,
	}, nil
}

// openStorage connects to postgres and runs migrations when dsn is set
// Otherwise the wallet lives in memory and is lost on restart
func openStorage(ctx context.Context, dsn string, l logger.Logger) (repository.Storage, func(), error) {
	if dsn == "" {
		l.Info("Database is not set, wallet is kept in memory")
		return memory.NewStorage(), func() {}, nil
	}

	pool, err := db.ConnectAndMigrate(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	return postgres.NewStorage(pool), pool.Close, nil
}

// Run starts http server and closes gracefully on context cancellation
// Purchase flows in flight are finished before Run returns
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.close()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Listen and serve until context is cancelled
	g.Go(func() error {
		s.logger.Info("Starting server", "address", s.ListenAddr)
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// Stop accepting requests, then wait for purchase flows
	g.Go(func() error {
		<-gCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")

		if err := s.purchases.Drain(timeoutCtx); err != nil {
			s.logger.Error("Purchase flows not finished before shutdown", "error", err)
			return err
		}
		return nil
	})

	return g.Wait()
}
