package profile

import (
	"context"
	"fmt"
	"slices"

	"github.com/nkiryanov/grail/internal/models"
)

// Transactions shown on the home screen
const RecentActivityLimit = 3

type catalogService interface {
	GetProduct(id string) (models.Product, error)
}

type walletService interface {
	Balances(ctx context.Context) (models.Balance, error)
	ListTransactions(ctx context.Context, denominations ...models.Denomination) ([]models.Transaction, error)
}

// ProfileService combines the static user profile with the live wallet
type ProfileService struct {
	profile  models.Profile
	featured []string
	catalog  catalogService
	wallet   walletService
}

func NewService(profile models.Profile, featured []string, catalog catalogService, wallet walletService) *ProfileService {
	return &ProfileService{
		profile:  profile,
		featured: slices.Clone(featured),
		catalog:  catalog,
		wallet:   wallet,
	}
}

// Profile returns the user profile together with the current balance
func (s *ProfileService) Profile(ctx context.Context) (models.Profile, models.Balance, error) {
	balance, err := s.wallet.Balances(ctx)
	if err != nil {
		return models.Profile{}, models.Balance{}, err
	}
	return s.profile, balance, nil
}

func (s *ProfileService) Home(ctx context.Context) (models.Home, error) {
	featured := make([]models.Product, 0, len(s.featured))
	for _, id := range s.featured {
		p, err := s.catalog.GetProduct(id)
		if err != nil {
			return models.Home{}, fmt.Errorf("featured product %s: %w", id, err)
		}
		featured = append(featured, p)
	}

	balance, err := s.wallet.Balances(ctx)
	if err != nil {
		return models.Home{}, err
	}

	transactions, err := s.wallet.ListTransactions(ctx)
	if err != nil {
		return models.Home{}, err
	}
	if len(transactions) > RecentActivityLimit {
		transactions = transactions[:RecentActivityLimit]
	}

	return models.Home{
		Name:           s.profile.FirstName(),
		Balance:        balance,
		Featured:       featured,
		RecentActivity: transactions,
	}, nil
}
