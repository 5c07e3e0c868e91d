package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

func TestOpenCheckingAccount(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	account, err := svc.OpenAccount(OpenAccountRequest{
		ClientID:       client.ID,
		Number:         "SB-CHK-001",
		Type:           domain.AccountChecking,
		InitialBalance: dec("250"),
		OverdraftLimit: dec("100"),
	})
	require.NoError(t, err)

	assert.NotZero(t, account.ID)
	assert.Equal(t, domain.AccountChecking, account.Type)
	assert.True(t, account.Balance.Equal(dec("250")))
	assert.True(t, account.Floor().Equal(dec("-100")))
}

func TestOpenSavingsAccount(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	account, err := svc.OpenAccount(OpenAccountRequest{
		ClientID:       client.ID,
		Type:           domain.AccountSavings,
		InitialBalance: dec("500"),
		InterestRate:   dec("0.03"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AccountSavings, account.Type)
	assert.True(t, account.InterestRate.Equal(dec("0.03")))
	assert.True(t, account.Floor().IsZero())
}

func TestOpenAccountGeneratesNumber(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	first, err := svc.OpenAccount(OpenAccountRequest{
		ClientID: client.ID,
		Type:     domain.AccountChecking,
	})
	require.NoError(t, err)
	second, err := svc.OpenAccount(OpenAccountRequest{
		ClientID: client.ID,
		Type:     domain.AccountChecking,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.Number, "SB-"))
	assert.NotEqual(t, first.Number, second.Number)
}

func TestOpenAccountDuplicateNumber(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	req := OpenAccountRequest{
		ClientID: client.ID,
		Number:   "SB-CHK-001",
		Type:     domain.AccountChecking,
	}
	_, err := svc.OpenAccount(req)
	require.NoError(t, err)

	_, err = svc.OpenAccount(req)
	assert.ErrorIs(t, err, errors.ErrDuplicateAccountNumber)
}

func TestOpenAccountUnknownClient(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testLogger())

	_, err := svc.OpenAccount(OpenAccountRequest{
		ClientID: 42,
		Type:     domain.AccountChecking,
	})
	assert.ErrorIs(t, err, errors.ErrClientNotFound)
}

func TestOpenAccountUnknownType(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	_, err := svc.OpenAccount(OpenAccountRequest{
		ClientID: client.ID,
		Type:     domain.AccountType("bond"),
	})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InvalidInput, appErr.Code)
}

func TestOpenAccountRejectsNegativeParams(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	_, err := svc.OpenAccount(OpenAccountRequest{
		ClientID:       client.ID,
		Type:           domain.AccountChecking,
		OverdraftLimit: dec("-1"),
	})
	assert.Error(t, err)

	_, err = svc.OpenAccount(OpenAccountRequest{
		ClientID:     client.ID,
		Type:         domain.AccountSavings,
		InterestRate: dec("-0.01"),
	})
	assert.Error(t, err)
}

func TestOpenAccountBalanceBelowFloor(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	svc := NewAccountService(store, testLogger())

	_, err := svc.OpenAccount(OpenAccountRequest{
		ClientID:       client.ID,
		Type:           domain.AccountChecking,
		InitialBalance: dec("-150"),
		OverdraftLimit: dec("100"),
	})
	assert.Error(t, err)
}

func TestGetAccountByNumber(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	seeded := seedChecking(t, store, client.ID, "100", "0")
	svc := NewAccountService(store, testLogger())

	account, err := svc.GetAccountByNumber(seeded.Number)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, account.ID)

	_, err = svc.GetAccountByNumber("SB-NO-SUCH")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestListAccountsByClient(t *testing.T) {
	store := newMemStore()
	owner := seedClient(t, store, "amina")
	other := seedClient(t, store, "bilal")
	seedChecking(t, store, owner.ID, "100", "0")
	seedSavings(t, store, owner.ID, "200")
	seedChecking(t, store, other.ID, "300", "0")
	svc := NewAccountService(store, testLogger())

	accounts, err := svc.ListAccountsByClient(owner.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	_, err = svc.ListAccountsByClient(99)
	assert.ErrorIs(t, err, errors.ErrClientNotFound)
}

func TestUpdateAccountParams(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	checking := seedChecking(t, store, client.ID, "100", "50")
	savings := seedSavings(t, store, client.ID, "200")
	svc := NewAccountService(store, testLogger())

	updated, err := svc.UpdateAccountParams(checking.ID, dec("500"), dec("0"))
	require.NoError(t, err)
	assert.True(t, updated.OverdraftLimit.Equal(dec("500")))
	assert.True(t, updated.Balance.Equal(dec("100")))

	updated, err = svc.UpdateAccountParams(savings.ID, dec("0"), dec("0.05"))
	require.NoError(t, err)
	assert.True(t, updated.InterestRate.Equal(dec("0.05")))

	_, err = svc.UpdateAccountParams(checking.ID, dec("-1"), dec("0"))
	assert.Error(t, err)
}

func TestBalanceExtremes(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store, "amina")
	seedChecking(t, store, client.ID, "100", "0")
	richest := seedSavings(t, store, client.ID, "900")
	poorest := seedChecking(t, store, client.ID, "-50", "100")
	svc := NewAccountService(store, testLogger())

	highest, lowest, err := svc.BalanceExtremes()
	require.NoError(t, err)
	assert.Equal(t, richest.ID, highest.ID)
	assert.Equal(t, poorest.ID, lowest.ID)
}

func TestBalanceExtremesNoAccounts(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testLogger())

	highest, lowest, err := svc.BalanceExtremes()
	require.NoError(t, err)
	assert.Nil(t, highest)
	assert.Nil(t, lowest)
}
