package apperrors

import (
	"errors"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownDenomination = errors.New("unknown token denomination")

	ErrProductNotFound = errors.New("product not found")

	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrRequestInProgress    = errors.New("request is already being processed")
	ErrRequestKeyReused     = errors.New("request key already used for another request")
	ErrFlowNotFound         = errors.New("purchase flow not found")
)
