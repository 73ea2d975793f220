package services_test

import (
	"testing"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CloneIsIndependent(t *testing.T) {
	reg := services.NewRegistry(seedAccounts())
	clone := reg.Clone()

	require.NoError(t, clone.AddAmount(1001, amt("-0.005")))

	orig, _ := reg.Get(1001)
	changed, _ := clone.Get(1001)
	assert.Equal(t, "100.00", domain.FormatAmount(orig.Balance))
	assert.Equal(t, "99.99", domain.FormatAmount(changed.Balance), "floor rounding toward negative infinity")
}

func TestRegistry_AddAmountUnknownAccount(t *testing.T) {
	reg := services.NewRegistry(nil)
	assert.ErrorIs(t, reg.AddAmount(1, amt("1")), apperrors.ErrNotFound)
	assert.ErrorIs(t, reg.SetRecentTransaction(1, 1), apperrors.ErrNotFound)
}

func TestRegistry_OrderingAndLookups(t *testing.T) {
	accounts := seedAccounts()
	// Reverse so the registry has to sort.
	for i, j := 0, len(accounts)-1; i < j; i, j = i+1, j-1 {
		accounts[i], accounts[j] = accounts[j], accounts[i]
	}
	reg := services.NewRegistry(accounts)

	var numbers []int
	for _, a := range reg.Accounts() {
		numbers = append(numbers, a.AccountNumber)
	}
	assert.Equal(t, []int{1001, 1002, 1003, 1004, 1005}, numbers)
	assert.Len(t, reg.ByOwner(1), 4)
	assert.Equal(t, 1005, reg.MaxAccountNumber())
	assert.Equal(t, 5, reg.Len())

	primary, ok := reg.PrimaryChequing(2)
	assert.True(t, ok)
	assert.Equal(t, 1005, primary)

	_, ok = reg.PrimaryChequing(3)
	assert.False(t, ok)
}

func TestRegistry_DuplicateNumberLaterWins(t *testing.T) {
	reg := services.NewRegistry([]domain.Account{
		{AccountNumber: 1, Kind: domain.Saving, Balance: amt("1.00")},
		{AccountNumber: 1, Kind: domain.Saving, Balance: amt("2.00")},
	})
	a, ok := reg.Get(1)
	require.True(t, ok)
	assert.Equal(t, "2.00", domain.FormatAmount(a.Balance))
}
