package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/models"
	"github.com/nkiryanov/grail/internal/service/wallet"
)

const (
	DefaultProductDelay = 1500 * time.Millisecond
	DefaultTopUpDelay   = 2 * time.Second

	// How long a finished flow stays known, and so how long its key replays
	DefaultFlowTTL = 15 * time.Minute
)

type Config struct {
	// Simulated processing time per request kind
	ProductDelay time.Duration
	TopUpDelay   time.Duration

	// Finished flows older than this are forgotten. Zero means DefaultFlowTTL
	FlowTTL time.Duration
}

type catalogService interface {
	GetProduct(id string) (models.Product, error)
}

type walletService interface {
	Balances(ctx context.Context) (models.Balance, error)
	ApplyBatch(ctx context.Context, entries []wallet.Entry) ([]models.Transaction, models.Balance, error)
}

// Metrics receives flow lifecycle events
type Metrics interface {
	FlowStarted(kind string)
	FlowFinished(kind string, state string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) FlowStarted(string) {}
func (noopMetrics) FlowFinished(string, string, time.Duration) {}

type PurchaseService struct {
	cfg     Config
	catalog catalogService
	wallet  walletService
	metrics Metrics
	logger  logger.Logger

	mu    sync.Mutex
	flows map[string]*Flow

	// In flight flow goroutines
	wg sync.WaitGroup
}

func NewService(cfg Config, catalog catalogService, wallet walletService, metrics Metrics, l logger.Logger) *PurchaseService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	if cfg.FlowTTL <= 0 {
		cfg.FlowTTL = DefaultFlowTTL
	}

	return &PurchaseService{
		cfg:     cfg,
		catalog: catalog,
		wallet:  wallet,
		metrics: metrics,
		logger:  l,
		flows:   make(map[string]*Flow),
	}
}

// Submit starts a flow for the request
//
// The request is validated and the balance checked right away: on failure the
// returned flow is already failed and the error is returned too. Otherwise the
// flow is processing and applies the request after the configured delay.
// The delay and the apply are not cancelled with ctx. With zero delay the
// request is applied before Submit returns and an apply failure is returned too.
//
// A key is bound to its request until the flow is forgotten (see Config.FlowTTL).
// Submitting the same request again while the flow runs fails with
// ErrRequestInProgress; once the flow is terminal the existing flow is returned
// together with its error and nothing is applied twice. Submitting a different
// request under a known key fails with ErrRequestKeyReused.
func (s *PurchaseService) Submit(ctx context.Context, req models.PurchaseRequest) (*Flow, error) {
	if req.Key == "" {
		req.Key = uuid.NewString()
	}

	flow, replay, err := s.register(req)
	if err != nil {
		return nil, err
	}
	if replay {
		snap := flow.Snapshot()
		s.logger.Debug("Purchase flow replayed", "request_key", req.Key, "state", snap.State)
		return flow, snap.Err
	}

	s.metrics.FlowStarted(req.Kind)
	log := s.logger.With("request_key", req.Key, "kind", req.Kind)
	log.Debug("Purchase flow submitted")

	entries, quote, delay, err := s.prepare(ctx, req)
	if err != nil {
		log.Info("Purchase flow rejected", "error", err)
		s.finish(flow, nil, err)
		return flow, err
	}

	flow.processing(quote)
	log.Debug("Purchase flow processing", "delay", delay)

	// Nothing to wait for, so the flow is finished before Submit returns
	if delay <= 0 {
		s.run(context.WithoutCancel(ctx), flow, entries, quote, 0, log)
		return flow, flow.Snapshot().Err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(context.WithoutCancel(ctx), flow, entries, quote, delay, log)
	}()

	return flow, nil
}

// Get returns the flow of the key
func (s *PurchaseService) Get(key string) (Snapshot, error) {
	s.mu.Lock()
	s.evict(time.Now())
	flow, ok := s.flows[key]
	s.mu.Unlock()

	if !ok {
		return Snapshot{}, apperrors.ErrFlowNotFound
	}
	return flow.Snapshot(), nil
}

// Drain waits until every flow in flight is terminal or ctx is done
func (s *PurchaseService) Drain(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		s.wg.Wait()
	}()

	select {
	case <-drained:
		s.logger.Debug("Purchase flows drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// register creates an idle flow for a new key
// For a known key it returns the finished flow of the same request with replay set
func (s *PurchaseService) register(req models.PurchaseRequest) (flow *Flow, replay bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(time.Now())

	if existing, ok := s.flows[req.Key]; ok {
		snap := existing.Snapshot()
		switch {
		case !snap.Request.SameAs(req):
			return nil, false, fmt.Errorf("%w: %s", apperrors.ErrRequestKeyReused, req.Key)
		case !snap.Terminal():
			return nil, false, fmt.Errorf("%w: %s", apperrors.ErrRequestInProgress, req.Key)
		default:
			return existing, true, nil
		}
	}

	flow = newFlow(req)
	s.flows[req.Key] = flow
	return flow, false, nil
}

// evict drops flows finished more than FlowTTL ago. Caller holds s.mu
func (s *PurchaseService) evict(now time.Time) {
	for key, flow := range s.flows {
		snap := flow.Snapshot()
		if snap.Terminal() && now.Sub(snap.FinishedAt) > s.cfg.FlowTTL {
			delete(s.flows, key)
		}
	}
}

// prepare validates the request, checks the balance covers it and builds wallet entries
func (s *PurchaseService) prepare(ctx context.Context, req models.PurchaseRequest) ([]wallet.Entry, *models.TopUpQuote, time.Duration, error) {
	switch req.Kind {
	case models.PurchaseKindProduct:
		product, err := s.catalog.GetProduct(req.ProductID)
		if err != nil {
			return nil, nil, 0, err
		}

		if product.Price.Zero() {
			return nil, nil, 0, fmt.Errorf("%w: product %s has no price", apperrors.ErrInvalidAmount, product.ID)
		}

		balance, err := s.wallet.Balances(ctx)
		if err != nil {
			return nil, nil, 0, err
		}
		if !product.Price.Affordable(balance) {
			return nil, nil, 0, apperrors.ErrInsufficientFunds
		}

		return productEntries(product), nil, s.cfg.ProductDelay, nil

	case models.PurchaseKindTopUp:
		if req.Units <= 0 {
			return nil, nil, 0, fmt.Errorf("%w: units must be positive, got %d", apperrors.ErrInvalidAmount, req.Units)
		}
		if !models.ValidPaymentMethod(req.PaymentMethod) {
			return nil, nil, 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownPaymentMethod, req.PaymentMethod)
		}

		quote := models.QuoteTopUp(req.Units)
		return topUpEntries(req.Units), &quote, s.cfg.TopUpDelay, nil

	default:
		return nil, nil, 0, fmt.Errorf("unknown purchase kind %q", req.Kind)
	}
}

func (s *PurchaseService) run(ctx context.Context, flow *Flow, entries []wallet.Entry, quote *models.TopUpQuote, delay time.Duration, log logger.Logger) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		<-timer.C
	}

	records, balance, err := s.wallet.ApplyBatch(ctx, entries)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			log.Info("Purchase flow failed", "error", err)
		} else {
			log.Error("Purchase flow failed", "error", err)
		}
		s.finish(flow, nil, err)
		return
	}

	s.finish(flow, &models.Receipt{
		Transactions: records,
		Balance:      balance,
		Quote:        quote,
		CompletedAt:  time.Now(),
	}, nil)
	log.Info("Purchase flow completed", "balance_dov", balance.Earned, "balance_div", balance.Purchased)
}

func (s *PurchaseService) finish(flow *Flow, receipt *models.Receipt, err error) {
	snap := flow.Snapshot()
	state := StateCompleted
	if err != nil {
		state = StateFailed
	}
	s.metrics.FlowFinished(snap.Request.Kind, state, time.Since(snap.StartedAt))

	if err != nil {
		flow.fail(err)
	} else {
		flow.complete(*receipt)
	}
}

// One debit purchase record per denomination the product is priced in
func productEntries(p models.Product) []wallet.Entry {
	entries := make([]wallet.Entry, 0, len(models.Denominations))
	for _, d := range models.Denominations {
		amount := p.Price.Amount(d)
		if amount == 0 {
			continue
		}
		entries = append(entries, wallet.Entry{
			Record: models.Transaction{
				Kind:         models.TransactionKindPurchase,
				Denomination: d,
				Amount:       amount,
				Title:        p.Title,
			},
			Delta: -amount,
		})
	}
	return entries
}

func topUpEntries(units int64) []wallet.Entry {
	return []wallet.Entry{{
		Record: models.Transaction{
			Kind:         models.TransactionKindReceive,
			Denomination: models.DenominationPurchased,
			Amount:       units,
			Title:        fmt.Sprintf("Bought %d %s", units, models.DenominationPurchased),
		},
		Delta: units,
	}}
}
