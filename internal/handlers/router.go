package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nkiryanov/grail/internal/handlers/middleware"
	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/models"
	"github.com/nkiryanov/grail/internal/service/purchase"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	catalogService catalogService,
	walletService walletService,
	purchaseService purchaseService,
	profileService profileService,
	metrics metricsCollector,
	logger logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/home", handleHome(profileService, logger))
	mux.Handle("GET /api/profile", handleProfile(profileService, logger))

	mux.Handle("GET /api/categories", handleListCategories(catalogService))
	mux.Handle("GET /api/products", handleListProducts(catalogService))
	mux.Handle("GET /api/products/{id}", handleGetProduct(catalogService))

	mux.Handle("GET /api/wallet/balance", handleWalletBalance(walletService, logger))
	mux.Handle("GET /api/wallet/transactions", handleListTransactions(walletService, logger))
	mux.Handle("GET /api/wallet/topup/quote", handleTopUpQuote())
	mux.Handle("POST /api/wallet/topup", handleTopUp(purchaseService, logger))

	mux.Handle("POST /api/purchases", handleCreatePurchase(purchaseService, logger))
	mux.Handle("GET /api/purchases/{id}", handleGetPurchase(purchaseService))

	mux.Handle("GET /metrics", metrics.Handler())

	handler := chain(mux,
		middleware.LoggerMiddleware(logger),
		middleware.MetricsMiddleware(metrics),
	)

	return handler
}

type catalogService interface {
	// Products matching category and title search, catalog order
	ListProducts(category string, search string) []models.Product

	// Has to return apperrors.ErrProductNotFound if there is no such product
	GetProduct(id string) (models.Product, error)

	Categories() []string
}

type walletService interface {
	Balances(ctx context.Context) (models.Balance, error)
	ListTransactions(ctx context.Context, denominations ...models.Denomination) ([]models.Transaction, error)
}

type purchaseService interface {
	// Start purchase flow
	// Has to return the failed flow together with the error if request rejected right away
	// Has to return apperrors.ErrRequestInProgress if flow with the same key is running
	// Has to return the finished flow (and its error) if the same request was already submitted
	// Has to return apperrors.ErrRequestKeyReused if the key belongs to another request
	Submit(ctx context.Context, req models.PurchaseRequest) (*purchase.Flow, error)

	// Has to return apperrors.ErrFlowNotFound if there is no flow with the key
	Get(key string) (purchase.Snapshot, error)
}

type profileService interface {
	// Profile with the current wallet balance
	Profile(ctx context.Context) (models.Profile, models.Balance, error)

	Home(ctx context.Context) (models.Home, error)
}

type metricsCollector interface {
	RequestStarted()
	RequestFinished()
	ObserveRequest(method string, endpoint string, status int, elapsed time.Duration)
	Handler() http.Handler
}
