package services

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AuthSvc authenticates the bank manager.
type AuthSvc interface {
	// Login checks manager credentials and issues a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

// CurrencyConverterSvc converts foreign amounts to CAD.
type CurrencyConverterSvc interface {
	ToCAD(currency string, amount decimal.Decimal) (decimal.Decimal, error)
	SupportedCurrencies() []string
}
