package wallet

import (
	"time"

	"github.com/nkiryanov/grail/internal/models"
)

// Seed is what a new wallet starts with
type Seed struct {
	Balance      models.Balance
	Transactions []models.Transaction
}

// DefaultSeed returns the starting wallet of a new session: 750 DOV, 35 DIV and some history
// Timestamps are relative to now
func DefaultSeed(now time.Time) Seed {
	day := 24 * time.Hour

	return Seed{
		Balance: models.Balance{Earned: 750, Purchased: 35},
		Transactions: []models.Transaction{
			{Kind: models.TransactionKindReward, Denomination: models.DenominationEarned, Amount: 50, Title: "Participation Reward", CreatedAt: now.Add(-15 * day)},
			{Kind: models.TransactionKindPurchase, Denomination: models.DenominationPurchased, Amount: 8, Title: "Lifestyle Product", CreatedAt: now.Add(-13 * day)},
			{Kind: models.TransactionKindReceive, Denomination: models.DenominationPurchased, Amount: 10, Title: "Token Received", CreatedAt: now.Add(-10 * day)},
			{Kind: models.TransactionKindSend, Denomination: models.DenominationEarned, Amount: 25, Title: "Token Transfer", Counterparty: "Maria Lopez", CreatedAt: now.Add(-8 * day)},
			{Kind: models.TransactionKindPurchase, Denomination: models.DenominationPurchased, Amount: 5, Title: "Studio Session", CreatedAt: now.Add(-day - 3*time.Hour)},
			{Kind: models.TransactionKindReward, Denomination: models.DenominationEarned, Amount: 100, Title: "Referral Bonus", CreatedAt: now.Add(-2 * time.Hour)},
		},
	}
}
