package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Nature defines the fundamental accounting nature of an account kind.
type Nature string

const (
	Asset     Nature = "ASSET"
	Liability Nature = "LIABILITY"
)

// AccountKind tags the variant of an account. Behaviour that differs per kind
// lives in the kindTraits table rather than in separate types.
type AccountKind string

const (
	Chequing     AccountKind = "ChequingAccount"
	Saving       AccountKind = "SavingAccount"
	PowerSaving  AccountKind = "PowerSavingAccount"
	CreditCard   AccountKind = "CreditCardAccount"
	LineOfCredit AccountKind = "LineOfCreditAccount"
)

type kindTraits struct {
	nature Nature
	// canSend reports whether money may leave the account through a withdrawal, transfer or payment.
	canSend bool
	// hasCreditLimit marks kinds that persist a credit limit as their extra field.
	hasCreditLimit bool
}

var accountKinds = map[AccountKind]kindTraits{
	Chequing:     {nature: Asset, canSend: true},
	Saving:       {nature: Asset, canSend: true},
	PowerSaving:  {nature: Asset, canSend: true},
	CreditCard:   {nature: Liability, canSend: false, hasCreditLimit: true},
	LineOfCredit: {nature: Liability, canSend: true, hasCreditLimit: true},
}

// AllAccountKinds lists the kinds in a stable order.
func AllAccountKinds() []AccountKind {
	return []AccountKind{Chequing, Saving, PowerSaving, CreditCard, LineOfCredit}
}

// ParseAccountKind resolves a requested account type name, ignoring case.
func ParseAccountKind(s string) (AccountKind, error) {
	for _, k := range AllAccountKinds() {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unrecognized account type '%s'", s)
}

// Nature returns the accounting nature of the kind.
func (k AccountKind) Nature() Nature {
	return accountKinds[k].nature
}

// Valid reports whether the kind is one of the known variants.
func (k AccountKind) Valid() bool {
	_, ok := accountKinds[k]
	return ok
}

// HasCreditLimit reports whether accounts of this kind carry a credit limit.
func (k AccountKind) HasCreditLimit() bool {
	return accountKinds[k].hasCreditLimit
}

// Account represents live account state.
type Account struct {
	AccountNumber       int             `json:"accountNumber"`
	OwnerCustomerNumber int             `json:"ownerCustomerNumber"`
	Kind                AccountKind     `json:"kind"`
	Balance             decimal.Decimal `json:"balance"`
	OpenedAt            time.Time       `json:"openedAt"`
	RecentTransactionID int             `json:"recentTransactionID"`
	IsPrimary           bool            `json:"isPrimary"`   // Chequing only
	CreditLimit         decimal.Decimal `json:"creditLimit"` // CreditCard and LineOfCredit only
}

// AddAmount adds a signed delta to the balance and re-scales the result with Floor2.
// It is the only way a balance changes.
func (a *Account) AddAmount(delta decimal.Decimal) {
	a.Balance = Floor2(a.Balance.Add(delta))
}

// CanSend reports whether money may leave this account.
func (a Account) CanSend() bool {
	return accountKinds[a.Kind].canSend
}

// CheckBalance validates the balance against the kind's floor or ceiling.
// Chequing accounts may be overdrawn down to -overdraft; other assets may not go negative;
// liabilities may not exceed their credit limit.
func (a Account) CheckBalance(overdraft decimal.Decimal) error {
	switch a.Kind.Nature() {
	case Asset:
		floor := decimal.Zero
		if a.Kind == Chequing {
			floor = overdraft.Neg()
		}
		if a.Balance.LessThan(floor) {
			return fmt.Errorf("balance %s of account %d would fall below %s", FormatAmount(a.Balance), a.AccountNumber, FormatAmount(floor))
		}
	case Liability:
		if a.Balance.GreaterThan(a.CreditLimit) {
			return fmt.Errorf("balance %s of account %d would exceed credit limit %s", FormatAmount(a.Balance), a.AccountNumber, FormatAmount(a.CreditLimit))
		}
	}
	return nil
}
