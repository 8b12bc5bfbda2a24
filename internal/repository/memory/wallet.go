package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/models"
)

type WalletRepo struct {
	db db
}

func (r *WalletRepo) CreateWallet(ctx context.Context, balance models.Balance) (bool, error) {
	created := false

	err := r.db.update(func(s *state) error {
		if _, ok := s.wallets[balance.WalletID]; ok {
			return nil
		}

		s.wallets[balance.WalletID] = wallet{createdAt: time.Now(), balance: balance}
		created = true
		return nil
	})

	return created, err
}

// lock is ignored: the storage mutex already serializes transactions
func (r *WalletRepo) GetBalance(ctx context.Context, walletID uuid.UUID, lock bool) (models.Balance, error) {
	var balance models.Balance

	err := r.db.view(func(s *state) error {
		w, ok := s.wallets[walletID]
		if !ok {
			return apperrors.ErrWalletNotFound
		}
		balance = w.balance
		return nil
	})

	return balance, err
}

func (r *WalletRepo) UpdateBalance(ctx context.Context, walletID uuid.UUID, d models.Denomination, delta int64) (models.Balance, error) {
	var balance models.Balance

	err := r.db.update(func(s *state) error {
		w, ok := s.wallets[walletID]
		if !ok {
			return apperrors.ErrWalletNotFound
		}

		updated := w.balance.Add(d, delta)
		if updated.Negative() {
			balance = w.balance
			return apperrors.ErrInsufficientFunds
		}

		w.balance = updated
		s.wallets[walletID] = w
		balance = updated
		return nil
	})

	return balance, err
}

func (r *WalletRepo) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	err := r.db.update(func(s *state) error {
		w, ok := s.wallets[t.WalletID]
		if !ok {
			return apperrors.ErrWalletNotFound
		}

		w.transactions = append(w.transactions, t)
		s.wallets[t.WalletID] = w
		return nil
	})

	return t, err
}

func (r *WalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, denominations []models.Denomination) ([]models.Transaction, error) {
	var transactions []models.Transaction

	err := r.db.view(func(s *state) error {
		w := s.wallets[walletID]
		transactions = make([]models.Transaction, 0, len(w.transactions))

		for _, t := range w.transactions {
			if len(denominations) == 0 || slices.Contains(denominations, t.Denomination) {
				transactions = append(transactions, t)
			}
		}
		return nil
	})

	// Same order as postgres: by time, then by insertion, newest first
	slices.Reverse(transactions)
	slices.SortStableFunc(transactions, func(a, b models.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return transactions, err
}
