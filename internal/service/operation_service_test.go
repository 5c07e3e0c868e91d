package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedClient(t *testing.T, store *memStore, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{Name: name, Email: name + "@solubank.ma"}
	require.NoError(t, store.CreateClient(client))
	return client
}

func seedChecking(t *testing.T, store *memStore, clientID int64, balance, overdraft string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		Number:         "CHK-" + balance,
		Balance:        dec(balance),
		ClientID:       clientID,
		Type:           domain.AccountChecking,
		OverdraftLimit: dec(overdraft),
	}
	require.NoError(t, store.CreateAccount(account))
	return account
}

func seedSavings(t *testing.T, store *memStore, clientID int64, balance string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		Number:       "SAV-" + balance,
		Balance:      dec(balance),
		ClientID:     clientID,
		Type:         domain.AccountSavings,
		InterestRate: dec("0.02"),
	}
	require.NoError(t, store.CreateAccount(account))
	return account
}

func TestDepositIncreasesBalanceAndAppendsRecord(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	account := seedChecking(t, store, client.ID, "100", "0")

	ops := NewOperationService(store, testLogger())

	tx, err := ops.Deposit(account.ID, dec("40.25"), "Casablanca")
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionDeposit, tx.Type)
	assert.True(t, tx.Amount.Equal(dec("40.25")))
	assert.Equal(t, account.ID, tx.AccountID)

	updated, err := store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(dec("140.25")))

	ledger, err := store.ListTransactionsByAccount(account.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].Amount.Equal(dec("40.25")))
}

func TestDepositUnknownAccount(t *testing.T) {
	store := newMemStore()
	ops := NewOperationService(store, testLogger())

	_, err := ops.Deposit(99, dec("10"), "Rabat")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	account := seedChecking(t, store, client.ID, "100", "0")

	ops := NewOperationService(store, testLogger())

	_, err := ops.Deposit(account.ID, decimal.Zero, "Rabat")
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	_, err = ops.Deposit(account.ID, dec("-5"), "Rabat")
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}

func TestWithdrawWithinOverdraft(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	account := seedChecking(t, store, client.ID, "100", "50")

	ops := NewOperationService(store, testLogger())

	tx, err := ops.Withdraw(account.ID, dec("130"), "Fes")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionWithdrawal, tx.Type)

	updated, err := store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(dec("-30")))
}

func TestWithdrawBeyondFloorLeavesEverythingUnchanged(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	checking := seedChecking(t, store, client.ID, "100", "50")
	savings := seedSavings(t, store, client.ID, "80")

	ops := NewOperationService(store, testLogger())

	_, err := ops.Withdraw(checking.ID, dec("150.01"), "Fes")
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	_, err = ops.Withdraw(savings.ID, dec("80.01"), "Fes")
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	updatedChecking, _ := store.GetAccount(checking.ID)
	assert.True(t, updatedChecking.Balance.Equal(dec("100")))
	updatedSavings, _ := store.GetAccount(savings.ID)
	assert.True(t, updatedSavings.Balance.Equal(dec("80")))

	ledger, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestTransferMovesFundsWithTwoLegs(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	source := seedChecking(t, store, client.ID, "1000", "0")
	dest := seedSavings(t, store, client.ID, "200")

	ops := NewOperationService(store, testLogger())

	result, err := ops.Transfer(source.ID, dest.ID, dec("300"))
	require.NoError(t, err)
	require.NotNil(t, result.Withdrawal)
	require.NotNil(t, result.Deposit)

	assert.Equal(t, domain.TransactionWithdrawal, result.Withdrawal.Type)
	assert.Equal(t, source.ID, result.Withdrawal.AccountID)
	assert.Equal(t, domain.TransactionDeposit, result.Deposit.Type)
	assert.Equal(t, dest.ID, result.Deposit.AccountID)

	updatedSource, _ := store.GetAccount(source.ID)
	assert.True(t, updatedSource.Balance.Equal(dec("700")))
	updatedDest, _ := store.GetAccount(dest.ID)
	assert.True(t, updatedDest.Balance.Equal(dec("500")))

	ledger, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestTransferInsufficientFundsChangesNothing(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	source := seedChecking(t, store, client.ID, "100", "0")
	dest := seedSavings(t, store, client.ID, "200")

	ops := NewOperationService(store, testLogger())

	_, err := ops.Transfer(source.ID, dest.ID, dec("100.01"))
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	updatedSource, _ := store.GetAccount(source.ID)
	assert.True(t, updatedSource.Balance.Equal(dec("100")))
	updatedDest, _ := store.GetAccount(dest.ID)
	assert.True(t, updatedDest.Balance.Equal(dec("200")))

	ledger, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestTransferToMissingDestinationRollsBackSource(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	source := seedChecking(t, store, client.ID, "1000", "0")

	ops := NewOperationService(store, testLogger())

	_, err := ops.Transfer(source.ID, 777, dec("300"))
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)

	// The withdrawal leg must not survive the failed deposit leg.
	updatedSource, _ := store.GetAccount(source.ID)
	assert.True(t, updatedSource.Balance.Equal(dec("1000")))

	ledger, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestTransferSameAccountRejected(t *testing.T) {
	store := newMemStore()
	ops := NewOperationService(store, testLogger())

	_, err := ops.Transfer(1, 1, dec("10"))
	assert.ErrorIs(t, err, errors.ErrSameAccountTransfer)
}

func TestSuccessfulOperationsAppendExactlyOneRecordEach(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	account := seedChecking(t, store, client.ID, "500", "0")

	ops := NewOperationService(store, testLogger())

	_, err := ops.Deposit(account.ID, dec("50"), "Tanger")
	require.NoError(t, err)
	_, err = ops.Withdraw(account.ID, dec("20"), "Tanger")
	require.NoError(t, err)

	ledger, err := store.ListTransactionsByAccount(account.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)

	types := map[domain.TransactionType]int{}
	for _, tx := range ledger {
		types[tx.Type]++
	}
	assert.Equal(t, 1, types[domain.TransactionDeposit])
	assert.Equal(t, 1, types[domain.TransactionWithdrawal])
}
