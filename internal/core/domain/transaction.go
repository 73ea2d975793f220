package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags the variant of a ledger entry.
type TransactionKind string

const (
	Deposit        TransactionKind = "Deposit"
	Withdrawal     TransactionKind = "Withdrawal"
	Transfer       TransactionKind = "Transfer"
	Payment        TransactionKind = "Payment"
	ForeignDeposit TransactionKind = "ForeignDeposit"
	Reversal       TransactionKind = "Reversal"
)

// LegTarget selects which account of a transaction a leg touches.
type LegTarget int

const (
	OwnAccount LegTarget = iota
	CounterpartyAccount
)

// Leg is one balance movement of a transaction.
type Leg struct {
	Target    LegTarget
	Direction Direction
}

type transactionTraits struct {
	legs []Leg
	// undoable is the default for entries of this kind; reversals and foreign deposits never are.
	undoable bool
}

var transactionKinds = map[TransactionKind]transactionTraits{
	Deposit:        {legs: []Leg{{OwnAccount, MoneyIn}}, undoable: true},
	ForeignDeposit: {legs: []Leg{{OwnAccount, MoneyIn}}, undoable: false},
	Withdrawal:     {legs: []Leg{{OwnAccount, MoneyOut}}, undoable: true},
	Transfer:       {legs: []Leg{{OwnAccount, MoneyOut}, {CounterpartyAccount, MoneyIn}}, undoable: true},
	Payment:        {legs: []Leg{{OwnAccount, MoneyOut}, {CounterpartyAccount, MoneyIn}}, undoable: true},
	Reversal:       {legs: nil, undoable: false},
}

// ParseTransactionKind resolves a stored transaction type name.
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(s)
	if _, ok := transactionKinds[k]; !ok {
		return "", fmt.Errorf("unrecognized transaction type '%s'", s)
	}
	return k, nil
}

// Legs returns the balance movements of a forward transaction of this kind.
// Reversals have no legs of their own; their effect is the inverse of the entry they reverse.
func (k TransactionKind) Legs() []Leg {
	legs := transactionKinds[k].legs
	out := make([]Leg, len(legs))
	copy(out, legs)
	return out
}

// DefaultUndoable reports whether new entries of this kind may be reversed.
func (k TransactionKind) DefaultUndoable() bool {
	return transactionKinds[k].undoable
}

// HasCounterpartyAccount reports whether the counterparty number names an account to move money into.
func (k TransactionKind) HasCounterpartyAccount() bool {
	return k == Transfer || k == Payment
}

// Transaction is one immutable line of the ledger.
type Transaction struct {
	TransactionID      int             `json:"transactionID"`
	CustomerNumber     int             `json:"customerNumber"`
	AccountNumber      int             `json:"accountNumber"`
	Amount             decimal.Decimal `json:"amount"` // always positive; the kind implies the sign
	Kind               TransactionKind `json:"kind"`
	Timestamp          time.Time       `json:"timestamp"`
	CounterpartyNumber int             `json:"counterpartyNumber"` // Transfer/Payment: account; Reversal: reversed transaction id
	Undoable           bool            `json:"undoable"`
	IsReversingEntry   bool            `json:"isReversingEntry"`

	// Display only, kept in memory for foreign deposits and never posted.
	ForeignAmount   decimal.Decimal `json:"foreignAmount,omitempty"`
	ForeignCurrency string          `json:"foreignCurrency,omitempty"`
}

// IsForeign reports whether the entry carries a foreign-currency original amount.
func (t Transaction) IsForeign() bool {
	return t.ForeignCurrency != "" && !t.ForeignAmount.IsZero()
}

// Validate checks the invariants every ledger line must hold.
func (t Transaction) Validate() error {
	if t.TransactionID <= 0 {
		return errors.New("transaction ID must be positive")
	}
	if _, ok := transactionKinds[t.Kind]; !ok {
		return fmt.Errorf("unrecognized transaction type '%s'", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount.String())
	}
	if t.IsReversingEntry && t.Undoable {
		return errors.New("a reversing entry cannot be undoable")
	}
	if t.IsReversingEntry != (t.Kind == Reversal) {
		return errors.New("only Reversal entries may be reversing entries")
	}
	if t.Kind == ForeignDeposit && t.Undoable {
		return errors.New("foreign deposits cannot be undoable")
	}
	if t.Kind.HasCounterpartyAccount() && t.CounterpartyNumber == 0 {
		return fmt.Errorf("%s requires a counterparty account", t.Kind)
	}
	return nil
}
