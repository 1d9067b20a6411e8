package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, tenantID uuid.UUID, code string, accountType AccountType) *Account {
	t.Helper()
	account, err := NewAccount(tenantID, code, "Account "+code, accountType, nil)
	require.NoError(t, err)
	return account
}

func TestPostingValidator_Validate(t *testing.T) {
	tenantID := uuid.New()
	cash := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	income := newTestAccount(t, tenantID, "4000", AccountTypeIncome)
	accounts := AccountLookup{cash.ID: cash, income.ID: income}

	lines := []JournalLine{
		NewDebitLine(cash.ID, decimal.NewFromInt(1000)),
		NewCreditLine(income.ID, decimal.NewFromInt(1000)),
	}
	entry, err := NewJournalEntry(tenantID, entryDate(), "donation", lines, "", "")
	require.NoError(t, err)

	err = NewPostingValidator().Validate(entry, accounts, nil)

	require.NoError(t, err)
}

func TestPostingValidator_UnknownAccount(t *testing.T) {
	tenantID := uuid.New()
	cash := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	accounts := AccountLookup{cash.ID: cash}

	lines := []JournalLine{
		NewDebitLine(cash.ID, decimal.NewFromInt(1000)),
		NewCreditLine(uuid.New(), decimal.NewFromInt(1000)),
	}
	entry, err := NewJournalEntry(tenantID, entryDate(), "donation", lines, "", "")
	require.NoError(t, err)

	err = NewPostingValidator().Validate(entry, accounts, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

func TestPostingValidator_ForeignTenantAccount(t *testing.T) {
	tenantID := uuid.New()
	cash := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	foreign := newTestAccount(t, uuid.New(), "4000", AccountTypeIncome)
	accounts := AccountLookup{cash.ID: cash, foreign.ID: foreign}

	lines := []JournalLine{
		NewDebitLine(cash.ID, decimal.NewFromInt(1000)),
		NewCreditLine(foreign.ID, decimal.NewFromInt(1000)),
	}
	entry, err := NewJournalEntry(tenantID, entryDate(), "donation", lines, "", "")
	require.NoError(t, err)

	err = NewPostingValidator().Validate(entry, accounts, nil)

	require.Error(t, err)
}

func TestPostingValidator_InactiveAccount(t *testing.T) {
	tenantID := uuid.New()
	cash := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	income := newTestAccount(t, tenantID, "4000", AccountTypeIncome)
	require.NoError(t, income.Deactivate())
	accounts := AccountLookup{cash.ID: cash, income.ID: income}

	lines := []JournalLine{
		NewDebitLine(cash.ID, decimal.NewFromInt(1000)),
		NewCreditLine(income.ID, decimal.NewFromInt(1000)),
	}
	entry, err := NewJournalEntry(tenantID, entryDate(), "donation", lines, "", "")
	require.NoError(t, err)

	err = NewPostingValidator().Validate(entry, accounts, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive account 4000")
}

func TestPostingValidator_NonLeafAccount(t *testing.T) {
	tenantID := uuid.New()
	parent := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	income := newTestAccount(t, tenantID, "4000", AccountTypeIncome)
	accounts := AccountLookup{parent.ID: parent, income.ID: income}
	hasChildren := map[uuid.UUID]bool{parent.ID: true}

	lines := []JournalLine{
		NewDebitLine(parent.ID, decimal.NewFromInt(1000)),
		NewCreditLine(income.ID, decimal.NewFromInt(1000)),
	}
	entry, err := NewJournalEntry(tenantID, entryDate(), "donation", lines, "", "")
	require.NoError(t, err)

	err = NewPostingValidator().Validate(entry, accounts, hasChildren)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-leaf account 1000")
}

func TestPostingValidator_ClosedPeriod(t *testing.T) {
	tenantID := uuid.New()
	cash := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	income := newTestAccount(t, tenantID, "4000", AccountTypeIncome)
	accounts := AccountLookup{cash.ID: cash, income.ID: income}

	lines := []JournalLine{
		NewDebitLine(cash.ID, decimal.NewFromInt(1000)),
		NewCreditLine(income.ID, decimal.NewFromInt(1000)),
	}
	entry, err := NewJournalEntry(tenantID, entryDate(), "late entry", lines, "", "")
	require.NoError(t, err)

	validator := &PostingValidator{
		BooksClosedBefore: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
	err = validator.Validate(entry, accounts, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed period")
}

func TestBalanceEpsilon(t *testing.T) {
	assert.True(t, BalanceEpsilon.Equal(decimal.RequireFromString("0.01")))
}
