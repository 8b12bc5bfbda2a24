package handlers

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/handlers/render"
	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/models"
)

type balanceResponse struct {
	DOV int64 `json:"dov"`
	DIV int64 `json:"div"`
}

type transactionResponse struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	Token        string    `json:"token"`
	Amount       int64     `json:"amount"`
	Title        string    `json:"title"`
	Counterparty string    `json:"counterparty,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type quoteResponse struct {
	Units    int64           `json:"units"`
	Cost     decimal.Decimal `json:"cost"`
	Currency string          `json:"currency"`
}

func toBalanceResponse(b models.Balance) balanceResponse {
	return balanceResponse{DOV: b.Earned, DIV: b.Purchased}
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Kind:         t.Kind,
		Token:        string(t.Denomination),
		Amount:       t.Amount,
		Title:        t.Title,
		Counterparty: t.Counterparty,
		CreatedAt:    t.CreatedAt,
	}
}

func toQuoteResponse(q models.TopUpQuote) quoteResponse {
	return quoteResponse{Units: q.Units, Cost: q.Cost, Currency: q.Currency}
}

// parseUnits accepts positive whole token amounts only
func parseUnits(units decimal.Decimal) (int64, error) {
	if !units.Equal(units.Truncate(0)) || !units.IsPositive() || units.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, apperrors.ErrInvalidAmount
	}
	return units.IntPart(), nil
}

func handleWalletBalance(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		balance, err := walletService.Balances(r.Context())
		if err != nil {
			l.Error("Failed to get balance", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toBalanceResponse(balance))
	})
}

func handleListTransactions(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var denominations []models.Denomination

		token := r.URL.Query().Get("token")
		if token != "" && !strings.EqualFold(token, "all") {
			d, err := models.ParseDenomination(token)
			if err != nil {
				render.ServiceError(w, "Unknown token, use all, DOV or DIV", http.StatusBadRequest)
				return
			}
			denominations = append(denominations, d)
		}

		transactions, err := walletService.ListTransactions(r.Context(), denominations...)
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]transactionResponse, 0, len(transactions))
		for _, t := range transactions {
			res = append(res, toTransactionResponse(t))
		}
		render.JSON(w, res)
	})
}

func handleTopUpQuote() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := decimal.NewFromString(r.URL.Query().Get("units"))
		if err != nil {
			render.ServiceError(w, "Units must be a number", http.StatusBadRequest)
			return
		}

		units, err := parseUnits(raw)
		if err != nil {
			render.ServiceError(w, "Units must be a positive whole number", http.StatusUnprocessableEntity)
			return
		}

		render.JSON(w, toQuoteResponse(models.QuoteTopUp(units)))
	})
}

func handleTopUp(purchaseService purchaseService, l logger.Logger) http.Handler {
	type request struct {
		RequestID     string          `json:"request_id" validate:"omitempty,max=64"`
		Units         decimal.Decimal `json:"units"`
		PaymentMethod string          `json:"payment_method" validate:"omitempty,payment_method"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		topUp, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		units, err := parseUnits(topUp.Units)
		if err != nil {
			render.ServiceError(w, "Units must be a positive whole number", http.StatusUnprocessableEntity)
			return
		}

		submit(w, r, purchaseService, models.NewTopUp(topUp.RequestID, units, topUp.PaymentMethod), l)
	})
}
