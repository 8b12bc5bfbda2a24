// Package memory keeps wallets in process memory.
// Transactions work on a copy of the state under the storage mutex and replace it on commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/grail/internal/models"
	"github.com/nkiryanov/grail/internal/repository"
)

type wallet struct {
	createdAt time.Time
	balance   models.Balance

	// Oldest first
	transactions []models.Transaction
}

type state struct {
	wallets map[uuid.UUID]wallet
}

func (s *state) clone() *state {
	wallets := maps.Clone(s.wallets)
	for id, w := range wallets {
		w.transactions = slices.Clone(w.transactions)
		wallets[id] = w
	}
	return &state{wallets: wallets}
}

// Access to the state either under the storage lock or inside a transaction
type db interface {
	view(fn func(*state) error) error
	update(fn func(*state) error) error
}

type Storage struct {
	mu    sync.Mutex
	state *state
}

func NewStorage() *Storage {
	return &Storage{state: &state{wallets: make(map[uuid.UUID]wallet)}}
}

func (s *Storage) Wallet() repository.WalletRepo {
	return &WalletRepo{db: s}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStorage{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}

	s.state = tx.state
	return nil
}

func (s *Storage) view(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Single operations are atomic too: they work on a copy as well
func (s *Storage) update(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.clone()
	if err := fn(st); err != nil {
		return err
	}
	s.state = st
	return nil
}

// Storage bound to a running transaction. The lock is held by the outer InTx
type txStorage struct {
	state *state
}

func (tx *txStorage) Wallet() repository.WalletRepo {
	return &WalletRepo{db: tx}
}

// Nested transactions join the running one
func (tx *txStorage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	return fn(tx)
}

func (tx *txStorage) view(fn func(*state) error) error {
	return fn(tx.state)
}

func (tx *txStorage) update(fn func(*state) error) error {
	return fn(tx.state)
}
