package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		tx      domain.Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid deposit",
			tx: domain.Transaction{
				TransactionID: 1, CustomerNumber: 1001, AccountNumber: 1,
				Amount: decimal.RequireFromString("50.00"), Kind: domain.Deposit,
				Timestamp: now, Undoable: true,
			},
		},
		{
			name: "valid reversal",
			tx: domain.Transaction{
				TransactionID: 2, CustomerNumber: 1001, AccountNumber: 1,
				Amount: decimal.RequireFromString("50.00"), Kind: domain.Reversal,
				Timestamp: now, CounterpartyNumber: 1, IsReversingEntry: true,
			},
		},
		{
			name: "zero amount",
			tx: domain.Transaction{
				TransactionID: 1, Amount: decimal.Zero, Kind: domain.Deposit,
			},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name: "undoable reversal",
			tx: domain.Transaction{
				TransactionID: 2, Amount: decimal.NewFromInt(1), Kind: domain.Reversal,
				IsReversingEntry: true, Undoable: true,
			},
			wantErr: true,
			errMsg:  "reversing entry cannot be undoable",
		},
		{
			name: "reversing flag on a deposit",
			tx: domain.Transaction{
				TransactionID: 2, Amount: decimal.NewFromInt(1), Kind: domain.Deposit,
				IsReversingEntry: true,
			},
			wantErr: true,
			errMsg:  "only Reversal entries",
		},
		{
			name: "undoable foreign deposit",
			tx: domain.Transaction{
				TransactionID: 3, Amount: decimal.NewFromInt(135), Kind: domain.ForeignDeposit,
				Undoable: true,
			},
			wantErr: true,
			errMsg:  "foreign deposits cannot be undoable",
		},
		{
			name: "transfer without counterparty",
			tx: domain.Transaction{
				TransactionID: 4, Amount: decimal.NewFromInt(10), Kind: domain.Transfer,
				Undoable: true,
			},
			wantErr: true,
			errMsg:  "requires a counterparty account",
		},
		{
			name:    "unknown kind",
			tx:      domain.Transaction{TransactionID: 5, Amount: decimal.NewFromInt(1), Kind: "Refund"},
			wantErr: true,
			errMsg:  "unrecognized transaction type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionKind_DefaultUndoable(t *testing.T) {
	assert.True(t, domain.Deposit.DefaultUndoable())
	assert.True(t, domain.Withdrawal.DefaultUndoable())
	assert.True(t, domain.Transfer.DefaultUndoable())
	assert.True(t, domain.Payment.DefaultUndoable())
	assert.False(t, domain.ForeignDeposit.DefaultUndoable())
	assert.False(t, domain.Reversal.DefaultUndoable())
}

func TestTransactionKind_Legs(t *testing.T) {
	legs := domain.Transfer.Legs()
	require.Len(t, legs, 2)
	assert.Equal(t, domain.Leg{Target: domain.OwnAccount, Direction: domain.MoneyOut}, legs[0])
	assert.Equal(t, domain.Leg{Target: domain.CounterpartyAccount, Direction: domain.MoneyIn}, legs[1])

	// callers may not alter the shared table
	legs[0].Direction = domain.MoneyIn
	assert.Equal(t, domain.MoneyOut, domain.Transfer.Legs()[0].Direction)

	assert.Empty(t, domain.Reversal.Legs())
}

func TestParseTransactionKind(t *testing.T) {
	k, err := domain.ParseTransactionKind("Withdrawal")
	require.NoError(t, err)
	assert.Equal(t, domain.Withdrawal, k)

	_, err = domain.ParseTransactionKind("withdrawal")
	assert.Error(t, err)
}
