package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/grail/internal/models"
)

// Storage gives access to repositories
// Repositories returned from the storage passed to InTx fn share one transaction
type Storage interface {
	Wallet() WalletRepo

	// Run fn in transaction. Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}

// Wallet repository interface
type WalletRepo interface {
	// Create wallet with initial balance
	// If the wallet exists already it is left untouched and created is false
	CreateWallet(ctx context.Context, balance models.Balance) (created bool, err error)

	// Get wallet balance
	// If lock is true, the balance is locked until the transaction ends
	// If wallet not found must return apperrors.ErrWalletNotFound
	GetBalance(ctx context.Context, walletID uuid.UUID, lock bool) (models.Balance, error)

	// Add delta to the denomination balance and return the updated balance
	// If the balance would become negative must return apperrors.ErrInsufficientFunds and change nothing
	UpdateBalance(ctx context.Context, walletID uuid.UUID, d models.Denomination, delta int64) (models.Balance, error)

	// Store transaction record
	// If wallet not found must return apperrors.ErrWalletNotFound
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)

	// List wallet transactions newest first
	// Empty denominations means all of them
	ListTransactions(ctx context.Context, walletID uuid.UUID, denominations []models.Denomination) ([]models.Transaction, error)
}
