package models

import (
	"fmt"
	"strings"

	"github.com/nkiryanov/grail/internal/apperrors"
)

// Token denomination of a wallet balance
type Denomination string

const (
	// Earned by platform actions (referrals, participation). Can't be bought
	DenominationEarned Denomination = "DOV"

	// Bought with fiat money at a fixed exchange rate
	DenominationPurchased Denomination = "DIV"
)

// Both denominations in the order debits are applied
var Denominations = []Denomination{DenominationPurchased, DenominationEarned}

// ParseDenomination accepts a symbol (DOV, DIV) or a long name (earned, purchased) in any case
func ParseDenomination(s string) (Denomination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dov", "earned":
		return DenominationEarned, nil
	case "div", "purchased":
		return DenominationPurchased, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownDenomination, s)
	}
}

func (d Denomination) Valid() bool {
	return d == DenominationEarned || d == DenominationPurchased
}
