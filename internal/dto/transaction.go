package dto

import (
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountAmountRequest is the body of a deposit or withdrawal.
type AccountAmountRequest struct {
	AccountNumber int             `json:"accountNumber" binding:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" binding:"decimal_positive"`
}

// ForeignDepositRequest is the body of a foreign-currency deposit.
type ForeignDepositRequest struct {
	AccountNumber int             `json:"accountNumber" binding:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" binding:"decimal_positive"`
	Currency      string          `json:"currency" binding:"required,len=3,uppercase"`
}

// TransferRequest is the body of a transfer or a payment. For payments ToAccountNumber is the payee's account.
type TransferRequest struct {
	FromAccountNumber int             `json:"fromAccountNumber" binding:"required,gt=0"`
	ToAccountNumber   int             `json:"toAccountNumber" binding:"required,gt=0,nefield=FromAccountNumber"`
	Amount            decimal.Decimal `json:"amount" binding:"decimal_positive"`
}

// ListTransactionsParams filters and pages the transaction log. Zero filters match everything.
type ListTransactionsParams struct {
	AccountNumber  int     `form:"accountNumber" binding:"omitempty,gt=0"`
	CustomerNumber int     `form:"customerNumber" binding:"omitempty,gt=0"`
	Limit          int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken      *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of the transaction log.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"` // nil on the last page
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID      int       `json:"transactionID"`
	CustomerNumber     int       `json:"customerNumber"`
	AccountNumber      int       `json:"accountNumber"`
	Type               string    `json:"type"`
	Amount             string    `json:"amount"`
	Timestamp          time.Time `json:"timestamp"`
	CounterpartyNumber int       `json:"counterpartyNumber"`
	Undoable           bool      `json:"undoable"`
	IsReversingEntry   bool      `json:"isReversingEntry"`
	ForeignAmount      string    `json:"foreignAmount,omitempty"`
	ForeignCurrency    string    `json:"foreignCurrency,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(trx *domain.Transaction) TransactionResponse {
	res := TransactionResponse{
		TransactionID:      trx.TransactionID,
		CustomerNumber:     trx.CustomerNumber,
		AccountNumber:      trx.AccountNumber,
		Type:               string(trx.Kind),
		Amount:             domain.FormatAmount(trx.Amount),
		Timestamp:          trx.Timestamp,
		CounterpartyNumber: trx.CounterpartyNumber,
		Undoable:           trx.Undoable,
		IsReversingEntry:   trx.IsReversingEntry,
	}
	if trx.IsForeign() {
		res.ForeignAmount = domain.FormatAmount(trx.ForeignAmount)
		res.ForeignCurrency = trx.ForeignCurrency
	}
	return res
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(trxs []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(trxs))
	for i := range trxs {
		responses[i] = ToTransactionResponse(&trxs[i])
	}
	return responses
}
