package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/pkg/config"
)

// NewServiceContainer wires every service over one shared ledger state.
// The state is empty until Bank.Reload is called.
func NewServiceContainer(cfg *config.Config, store portsrepo.RecordStore) (*portssvc.ServiceContainer, error) {
	converter, err := NewCurrencyConverter(cfg.FXRates)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rates: %w", err)
	}

	state := NewLedgerState(store)
	return &portssvc.ServiceContainer{
		Ledger:   NewLedgerService(state, converter, WithOverdraftLimit(cfg.ChequingOverdraftLimit)),
		Bank:     NewBankService(state, WithDefaultCreditLimit(cfg.CreditLimitDefault)),
		Auth:     NewAuthService(cfg),
		Currency: converter,
	}, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade = (*ledgerService)(nil)
	_ portssvc.BankSvcFacade   = (*bankService)(nil)
)
