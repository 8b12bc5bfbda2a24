package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PurchaseKindProduct = "product"
	PurchaseKindTopUp   = "topup"
)

const (
	PaymentMethodCard   = "card"
	PaymentMethodPayPal = "paypal"
	PaymentMethodCrypto = "crypto"
)

// Fiat price of one purchased token
const (
	TopUpCurrency        = "MXN"
	TopUpRatePerToken    = 20
	DefaultPaymentMethod = PaymentMethodCard
)

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodCrypto:
		return true
	default:
		return false
	}
}

// Request to buy a product or to top up purchased tokens
// Use NewProductPurchase or NewTopUp to build one
type PurchaseRequest struct {
	// Client supplied key. Bound to the first request submitted with it
	Key string

	Kind string

	// Kind "product"
	ProductID string

	// Kind "topup"
	Units         int64
	PaymentMethod string
}

// SameAs reports whether both requests ask for the same thing, keys aside
func (r PurchaseRequest) SameAs(other PurchaseRequest) bool {
	r.Key, other.Key = "", ""
	return r == other
}

func NewProductPurchase(key string, productID string) PurchaseRequest {
	return PurchaseRequest{Key: key, Kind: PurchaseKindProduct, ProductID: productID}
}

func NewTopUp(key string, units int64, paymentMethod string) PurchaseRequest {
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	return PurchaseRequest{Key: key, Kind: PurchaseKindTopUp, Units: units, PaymentMethod: paymentMethod}
}

type TopUpQuote struct {
	Units    int64
	Cost     decimal.Decimal
	Currency string
}

// QuoteTopUp computes the fiat cost of units purchased tokens
func QuoteTopUp(units int64) TopUpQuote {
	return TopUpQuote{
		Units:    units,
		Cost:     decimal.NewFromInt(units).Mul(decimal.NewFromInt(TopUpRatePerToken)),
		Currency: TopUpCurrency,
	}
}

// Outcome of a completed purchase flow
type Receipt struct {
	Transactions []Transaction
	Balance      Balance
	Quote        *TopUpQuote // top-ups only
	CompletedAt  time.Time
}
