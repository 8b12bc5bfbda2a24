package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionKindReceive  = "receive"
	TransactionKindSend     = "send"
	TransactionKindPurchase = "purchase"
	TransactionKindReward   = "reward"
)

type Balance struct {
	WalletID  uuid.UUID
	Earned    int64
	Purchased int64
}

// Amount held in the denomination. Unknown denominations hold nothing
func (b Balance) Amount(d Denomination) int64 {
	switch d {
	case DenominationEarned:
		return b.Earned
	case DenominationPurchased:
		return b.Purchased
	default:
		return 0
	}
}

// Add returns the balance with delta applied to the denomination
// The result may be negative, callers check it
func (b Balance) Add(d Denomination, delta int64) Balance {
	switch d {
	case DenominationEarned:
		b.Earned += delta
	case DenominationPurchased:
		b.Purchased += delta
	}
	return b
}

func (b Balance) Negative() bool {
	return b.Earned < 0 || b.Purchased < 0
}

type Transaction struct {
	ID           uuid.UUID
	WalletID     uuid.UUID
	Kind         string
	Denomination Denomination
	Amount       int64
	Title        string
	Counterparty string // set for "send" only
	CreatedAt    time.Time
}

// IsCredit reports whether the transaction kind adds tokens to the wallet
func (t Transaction) IsCredit() bool {
	return t.Kind == TransactionKindReceive || t.Kind == TransactionKindReward
}

// Delta is the signed balance change the transaction stands for
func (t Transaction) Delta() int64 {
	if t.IsCredit() {
		return t.Amount
	}
	return -t.Amount
}

func ValidTransactionKind(kind string) bool {
	switch kind {
	case TransactionKindReceive, TransactionKindSend, TransactionKindPurchase, TransactionKindReward:
		return true
	default:
		return false
	}
}
