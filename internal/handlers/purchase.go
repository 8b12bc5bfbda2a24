package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/handlers/render"
	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/models"
	"github.com/nkiryanov/grail/internal/service/purchase"
)

type receiptResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Balance      balanceResponse       `json:"balance"`
	CompletedAt  time.Time             `json:"completed_at"`
}

type flowResponse struct {
	RequestID     string           `json:"request_id"`
	Kind          string           `json:"kind"`
	ProductID     string           `json:"product_id,omitempty"`
	Units         int64            `json:"units,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	State         string           `json:"state"`
	Error         string           `json:"error,omitempty"`
	Quote         *quoteResponse   `json:"quote,omitempty"`
	Receipt       *receiptResponse `json:"receipt,omitempty"`
	StartedAt     time.Time        `json:"started_at"`
	FinishedAt    *time.Time       `json:"finished_at,omitempty"`
}

func toFlowResponse(s purchase.Snapshot) flowResponse {
	res := flowResponse{
		RequestID:     s.Request.Key,
		Kind:          s.Request.Kind,
		ProductID:     s.Request.ProductID,
		Units:         s.Request.Units,
		PaymentMethod: s.Request.PaymentMethod,
		State:         s.State,
		StartedAt:     s.StartedAt,
	}

	if s.Err != nil {
		res.Error = s.Err.Error()
	}
	if s.Quote != nil {
		q := toQuoteResponse(*s.Quote)
		res.Quote = &q
	}
	if s.Receipt != nil {
		transactions := make([]transactionResponse, 0, len(s.Receipt.Transactions))
		for _, t := range s.Receipt.Transactions {
			transactions = append(transactions, toTransactionResponse(t))
		}
		res.Receipt = &receiptResponse{
			Transactions: transactions,
			Balance:      toBalanceResponse(s.Receipt.Balance),
			CompletedAt:  s.Receipt.CompletedAt,
		}
	}
	if !s.FinishedAt.IsZero() {
		res.FinishedAt = &s.FinishedAt
	}

	return res
}

func handleCreatePurchase(purchaseService purchaseService, l logger.Logger) http.Handler {
	type request struct {
		RequestID string `json:"request_id" validate:"omitempty,max=64"`
		ProductID string `json:"product_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		submit(w, r, purchaseService, models.NewProductPurchase(p.RequestID, p.ProductID), l)
	})
}

func handleGetPurchase(purchaseService purchaseService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, err := purchaseService.Get(r.PathValue("id"))

		switch {
		case err == nil:
			render.JSON(w, toFlowResponse(snap))
		case errors.Is(err, apperrors.ErrFlowNotFound):
			render.ServiceError(w, "Purchase not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// submit starts the flow and renders its state
// Processing flows are answered with 202, the client polls GET /api/purchases/{id} afterwards
func submit(w http.ResponseWriter, r *http.Request, purchaseService purchaseService, req models.PurchaseRequest, l logger.Logger) {
	flow, err := purchaseService.Submit(r.Context(), req)

	switch {
	case err == nil:
		snap := flow.Snapshot()
		code := http.StatusAccepted
		if snap.Terminal() {
			code = http.StatusOK
		}
		render.JSONWithStatus(w, toFlowResponse(snap), code)
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrUnknownPaymentMethod):
		render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrProductNotFound):
		render.ServiceError(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrRequestInProgress):
		render.ServiceError(w, "Request is already being processed", http.StatusConflict)
	case errors.Is(err, apperrors.ErrRequestKeyReused):
		render.ServiceError(w, "Request id already used for another request", http.StatusConflict)
	default:
		l.Error("Failed to submit purchase", "error", err, "request_key", req.Key)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
