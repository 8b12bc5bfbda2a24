package wallet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/models"
	"github.com/nkiryanov/grail/internal/repository"
)

// Entry is a transaction record together with the balance change it makes
type Entry struct {
	Record models.Transaction
	Delta  int64
}

// WalletService is bound to one wallet in storage
// Balances change only through ApplyTransaction and ApplyBatch
type WalletService struct {
	storage  repository.Storage
	walletID uuid.UUID
}

// Open binds the service to the wallet
// A wallet that does not exist yet is created with the seed balance and history
func Open(ctx context.Context, storage repository.Storage, walletID uuid.UUID, seed Seed) (*WalletService, error) {
	err := storage.InTx(ctx, func(s repository.Storage) error {
		balance := seed.Balance
		balance.WalletID = walletID

		created, err := s.Wallet().CreateWallet(ctx, balance)
		if err != nil || !created {
			return err
		}

		for _, t := range seed.Transactions {
			t.WalletID = walletID
			if t.ID == uuid.Nil {
				t.ID = uuid.New()
			}
			if _, err := s.Wallet().CreateTransaction(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't open wallet. Err: %w", err)
	}

	return &WalletService{storage: storage, walletID: walletID}, nil
}

func (s *WalletService) WalletID() uuid.UUID {
	return s.walletID
}

func (s *WalletService) GetBalance(ctx context.Context, d models.Denomination) (int64, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownDenomination, d)
	}

	balance, err := s.Balances(ctx)
	if err != nil {
		return 0, err
	}
	return balance.Amount(d), nil
}

func (s *WalletService) Balances(ctx context.Context) (models.Balance, error) {
	return s.storage.Wallet().GetBalance(ctx, s.walletID, false)
}

// ListTransactions returns wallet history newest first
// No denominations means all of them
func (s *WalletService) ListTransactions(ctx context.Context, denominations ...models.Denomination) ([]models.Transaction, error) {
	for _, d := range denominations {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownDenomination, d)
		}
	}
	return s.storage.Wallet().ListTransactions(ctx, s.walletID, denominations)
}

func (s *WalletService) ApplyTransaction(ctx context.Context, record models.Transaction, delta int64) (models.Transaction, models.Balance, error) {
	records, balance, err := s.ApplyBatch(ctx, []Entry{{Record: record, Delta: delta}})
	if err != nil {
		return models.Transaction{}, balance, err
	}
	return records[0], balance, nil
}

// ApplyBatch stores all records and applies their deltas in one storage transaction
// Either every entry is applied or none. If any balance would become negative
// ErrInsufficientFunds is returned and the wallet stays unchanged. A credit the
// balance can't hold fails with ErrInvalidAmount. Records are stamped with the
// time they are applied
func (s *WalletService) ApplyBatch(ctx context.Context, entries []Entry) ([]models.Transaction, models.Balance, error) {
	now := time.Now()
	records := make([]models.Transaction, 0, len(entries))

	for _, e := range entries {
		r, err := s.prepare(e, now)
		if err != nil {
			return nil, models.Balance{}, err
		}
		records = append(records, r)
	}

	var balance models.Balance
	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		current, err := st.Wallet().GetBalance(ctx, s.walletID, true)
		if err != nil {
			return err
		}

		// Check the whole batch before the first write
		expected := current
		for _, e := range entries {
			amount := expected.Amount(e.Record.Denomination)
			switch {
			case e.Delta > 0 && amount > math.MaxInt64-e.Delta:
				balance = current
				return fmt.Errorf("%w: %s balance can't hold %d more", apperrors.ErrInvalidAmount, e.Record.Denomination, e.Delta)
			case e.Delta < 0 && amount < math.MinInt64-e.Delta:
				balance = current
				return apperrors.ErrInsufficientFunds
			}
			expected = expected.Add(e.Record.Denomination, e.Delta)
		}
		if expected.Negative() {
			balance = current
			return apperrors.ErrInsufficientFunds
		}

		balance = current
		for i, e := range entries {
			balance, err = st.Wallet().UpdateBalance(ctx, s.walletID, e.Record.Denomination, e.Delta)
			if err != nil {
				return err
			}
			records[i], err = st.Wallet().CreateTransaction(ctx, records[i])
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, balance, err
	}

	return records, balance, nil
}

// prepare validates the entry and fills record fields the caller may omit
func (s *WalletService) prepare(e Entry, now time.Time) (models.Transaction, error) {
	r := e.Record

	if !r.Denomination.Valid() {
		return r, fmt.Errorf("%w: %q", apperrors.ErrUnknownDenomination, r.Denomination)
	}
	if !models.ValidTransactionKind(r.Kind) {
		return r, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrInvalidAmount, r.Kind)
	}
	if r.Amount <= 0 {
		return r, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrInvalidAmount, r.Amount)
	}
	if e.Delta != r.Delta() {
		return r, fmt.Errorf("%w: delta %d does not match %s of %d", apperrors.ErrInvalidAmount, e.Delta, r.Kind, r.Amount)
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = now
	r.WalletID = s.walletID

	return r, nil
}
