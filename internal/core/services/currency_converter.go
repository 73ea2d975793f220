package services

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// HomeCurrency is the currency every account balance is kept in.
const HomeCurrency = "CAD"

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// currencyConverter converts foreign amounts to CAD from a fixed rate table.
type currencyConverter struct {
	rates map[string]decimal.Decimal
}

// NewCurrencyConverter validates the rate table. Each rate is the CAD value of one
// unit of the foreign currency.
func NewCurrencyConverter(rates map[string]decimal.Decimal) (portssvc.CurrencyConverterSvc, error) {
	table := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		if !currencyCodePattern.MatchString(code) {
			return nil, fmt.Errorf("%w: invalid currency code '%s'", apperrors.ErrValidation, code)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: rate for %s must be positive", apperrors.ErrValidation, code)
		}
		table[code] = rate
	}
	table[HomeCurrency] = decimal.NewFromInt(1)
	return &currencyConverter{rates: table}, nil
}

var _ portssvc.CurrencyConverterSvc = (*currencyConverter)(nil)

// ToCAD returns the CAD equivalent of amount, rounded with Floor2.
func (c *currencyConverter) ToCAD(currency string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !currencyCodePattern.MatchString(currency) {
		return decimal.Zero, fmt.Errorf("%w: currency must be a 3-letter upper-case code, got '%s'", apperrors.ErrValidation, currency)
	}
	rate, ok := c.rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no exchange rate for %s", apperrors.ErrValidation, currency)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	converted := domain.Floor2(amount.Mul(rate))
	if !converted.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s %s converts to less than one cent", apperrors.ErrValidation, domain.FormatAmount(amount), currency)
	}
	return converted, nil
}

// SupportedCurrencies lists the accepted codes in sorted order.
func (c *currencyConverter) SupportedCurrencies() []string {
	var codes []string
	for code := range c.rates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
