package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/models"
)

type WalletRepo struct {
	DB DBTX
}

func (r *WalletRepo) CreateWallet(ctx context.Context, balance models.Balance) (bool, error) {
	const createWallet = `-- name: CreateWallet
	INSERT INTO wallets (id, earned, purchased)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.DB.Exec(ctx, createWallet, balance.WalletID, balance.Earned, balance.Purchased)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return false, apperrors.ErrInvalidAmount
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *WalletRepo) GetBalance(ctx context.Context, walletID uuid.UUID, lock bool) (models.Balance, error) {
	const getBalance = `-- name: GetBalance
	SELECT id, earned, purchased FROM wallets
	WHERE id = $1
	`

	query := getBalance
	if lock {
		query += "FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, walletID)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrWalletNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

func (r *WalletRepo) UpdateBalance(ctx context.Context, walletID uuid.UUID, d models.Denomination, delta int64) (models.Balance, error) {
	// Column names can't be query parameters, so there is a query per denomination
	const updateEarned = `-- name: UpdateEarned
	UPDATE wallets SET earned = earned + $2
	WHERE id = $1
	RETURNING id, earned, purchased
	`
	const updatePurchased = `-- name: UpdatePurchased
	UPDATE wallets SET purchased = purchased + $2
	WHERE id = $1
	RETURNING id, earned, purchased
	`

	var query string
	switch d {
	case models.DenominationEarned:
		query = updateEarned
	case models.DenominationPurchased:
		query = updatePurchased
	default:
		return models.Balance{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownDenomination, d)
	}

	rows, _ := r.DB.Query(ctx, query, walletID, delta)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrWalletNotFound
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation:
		return balance, apperrors.ErrInsufficientFunds
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

func (r *WalletRepo) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	const createTransaction = `-- name: CreateTransaction
	INSERT INTO wallet_transactions (id, wallet_id, kind, denomination, amount, title, counterparty, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, wallet_id, kind, denomination, amount, title, counterparty, created_at
	`

	rows, _ := r.DB.Query(ctx, createTransaction, t.ID, t.WalletID, t.Kind, string(t.Denomination), t.Amount, t.Title, t.Counterparty, t.CreatedAt)
	created, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				return created, apperrors.ErrWalletNotFound
			case pgerrcode.CheckViolation:
				return created, apperrors.ErrInvalidAmount
			}
		}
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *WalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, denominations []models.Denomination) ([]models.Transaction, error) {
	const listTransactions = `-- name: ListTransactions
	SELECT id, wallet_id, kind, denomination, amount, title, counterparty, created_at
	FROM wallet_transactions
	WHERE wallet_id = $1 AND (cardinality($2::varchar[]) = 0 OR denomination = ANY($2::varchar[]))
	ORDER BY created_at DESC, seq DESC
	`

	filter := make([]string, 0, len(denominations))
	for _, d := range denominations {
		filter = append(filter, string(d))
	}

	rows, _ := r.DB.Query(ctx, listTransactions, walletID, filter)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

func rowToBalance(row pgx.CollectableRow) (models.Balance, error) {
	var b models.Balance
	err := row.Scan(&b.WalletID, &b.Earned, &b.Purchased)
	return b, err
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	var denomination string
	err := row.Scan(&t.ID, &t.WalletID, &t.Kind, &denomination, &t.Amount, &t.Title, &t.Counterparty, &t.CreatedAt)
	t.Denomination = models.Denomination(denomination)
	return t, err
}
