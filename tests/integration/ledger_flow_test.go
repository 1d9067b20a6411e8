package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appledger "github.com/mandir/backend/internal/application/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/mandir/backend/internal/infrastructure/persistence"
)

// ledgerFixture bundles real repositories and services over a test database
type ledgerFixture struct {
	accountService *appledger.AccountService
	journalService *appledger.JournalService
	reportService  *appledger.ReportService
	tenantID       uuid.UUID
	userID         uuid.UUID
}

func newLedgerFixture(t *testing.T, tdb *TestDB) *ledgerFixture {
	t.Helper()

	accountRepo := persistence.NewGormAccountRepository(tdb.DB)
	entryRepo := persistence.NewGormJournalEntryRepository(tdb.DB)
	reportRepo := persistence.NewGormReportRepository(tdb.DB)

	return &ledgerFixture{
		accountService: appledger.NewAccountService(accountRepo, entryRepo, reportRepo),
		journalService: appledger.NewJournalService(entryRepo, accountRepo, appledger.DefaultNumberingConfig()),
		reportService:  appledger.NewReportService(reportRepo, accountRepo, zap.NewNop()),
		tenantID:       uuid.New(),
		userID:         uuid.New(),
	}
}

func (f *ledgerFixture) createAccount(t *testing.T, code, name, accountType string) uuid.UUID {
	t.Helper()

	resp, err := f.accountService.Create(context.Background(), f.tenantID, appledger.CreateAccountRequest{
		Code: code,
		Name: name,
		Type: accountType,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *ledgerFixture) createBalancedDraft(t *testing.T, debitID, creditID uuid.UUID, amount int64, narration string) uuid.UUID {
	t.Helper()

	resp, err := f.journalService.CreateDraft(context.Background(), f.tenantID, appledger.CreateJournalEntryRequest{
		EntryDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Narration: narration,
		Lines: []appledger.JournalLineRequest{
			{AccountID: debitID, Debit: decimal.NewFromInt(amount)},
			{AccountID: creditID, Credit: decimal.NewFromInt(amount)},
		},
	})
	require.NoError(t, err)
	return resp.ID
}

func TestLedgerPostingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	f := newLedgerFixture(t, tdb)
	ctx := context.Background()

	cashID := f.createAccount(t, "1000", "Cash in Hand", "ASSET")
	donationID := f.createAccount(t, "4000", "General Donations", "INCOME")

	t.Run("draft gets number on posting", func(t *testing.T) {
		draftID := f.createBalancedDraft(t, cashID, donationID, 5001, "Hundi collection")

		draft, err := f.journalService.GetByID(ctx, f.tenantID, draftID)
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", draft.Status)
		assert.Empty(t, draft.EntryNumber)

		posted, err := f.journalService.Post(ctx, f.tenantID, draftID, f.userID)
		require.NoError(t, err)
		assert.Equal(t, "POSTED", posted.Status)
		assert.Equal(t, "JV/2025-26/00001", posted.EntryNumber)
		require.NotNil(t, posted.PostedBy)
		assert.Equal(t, f.userID, *posted.PostedBy)
	})

	t.Run("numbers stay sequential", func(t *testing.T) {
		draftID := f.createBalancedDraft(t, cashID, donationID, 250, "Second collection")
		posted, err := f.journalService.Post(ctx, f.tenantID, draftID, f.userID)
		require.NoError(t, err)
		assert.Equal(t, "JV/2025-26/00002", posted.EntryNumber)
	})

	t.Run("posted entry cannot be posted again", func(t *testing.T) {
		draftID := f.createBalancedDraft(t, cashID, donationID, 100, "Posted twice")
		_, err := f.journalService.Post(ctx, f.tenantID, draftID, f.userID)
		require.NoError(t, err)

		_, err = f.journalService.Post(ctx, f.tenantID, draftID, f.userID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)
	})

	t.Run("trial balance is balanced after posting", func(t *testing.T) {
		tb, err := f.reportService.TrialBalance(ctx, f.tenantID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit),
			"trial balance out of balance: debit %s credit %s", tb.TotalDebit, tb.TotalCredit)
		assert.NotEmpty(t, tb.Rows)
	})
}

func TestLedgerCancellation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	f := newLedgerFixture(t, tdb)
	ctx := context.Background()

	cashID := f.createAccount(t, "1000", "Cash in Hand", "ASSET")
	donationID := f.createAccount(t, "4000", "General Donations", "INCOME")

	draftID := f.createBalancedDraft(t, cashID, donationID, 7500, "Entered against wrong donor")
	_, err := f.journalService.Post(ctx, f.tenantID, draftID, f.userID)
	require.NoError(t, err)

	cancelled, err := f.journalService.Cancel(ctx, f.tenantID, draftID, f.userID, appledger.CancelJournalEntryRequest{
		Reason: "Duplicate receipt",
	})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, "Duplicate receipt", cancelled.CancelReason)

	// The reversal must exist as its own posted entry
	entries, err := f.journalService.List(ctx, f.tenantID, shared.Filter{Page: 1, PageSize: 50})
	require.NoError(t, err)

	var reversal *appledger.JournalEntryResponse
	for _, e := range entries.Items {
		if e.ReversalOf != nil && *e.ReversalOf == draftID {
			reversal = e
		}
	}
	require.NotNil(t, reversal, "reversal entry not found")
	assert.Equal(t, "POSTED", reversal.Status)
	assert.True(t, reversal.TotalDebit.Equal(decimal.NewFromInt(7500)))

	// Original and reversal offset each other in the cash account
	balance, err := f.accountService.GetBalance(ctx, f.tenantID, cashID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, balance.Balance.IsZero(), "expected zero balance, got %s", balance.Balance)

	// Cancelling again is rejected
	_, err = f.journalService.Cancel(ctx, f.tenantID, draftID, f.userID, appledger.CancelJournalEntryRequest{
		Reason: "Again",
	})
	require.Error(t, err)
}

func TestLedgerConcurrentPostingNumbersAreGapFree(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	f := newLedgerFixture(t, tdb)
	ctx := context.Background()

	cashID := f.createAccount(t, "1000", "Cash in Hand", "ASSET")
	donationID := f.createAccount(t, "4000", "General Donations", "INCOME")

	const n = 10
	draftIDs := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		draftIDs[i] = f.createBalancedDraft(t, cashID, donationID, int64(100+i), fmt.Sprintf("Concurrent draft %d", i))
	}

	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			posted, err := f.journalService.Post(ctx, f.tenantID, draftIDs[i], f.userID)
			if err != nil {
				errs[i] = err
				return
			}
			numbers[i] = posted.EntryNumber
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "posting draft %d failed", i)
	}

	sort.Strings(numbers)
	for i := 0; i < n; i++ {
		expected := fmt.Sprintf("JV/2025-26/%05d", i+1)
		assert.Equal(t, expected, numbers[i], "gap or duplicate in entry numbers: %v", numbers)
	}
}

func TestLedgerTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	fa := newLedgerFixture(t, tdb)
	fb := newLedgerFixture(t, tdb)
	ctx := context.Background()

	cashA := fa.createAccount(t, "1000", "Cash in Hand", "ASSET")
	donationA := fa.createAccount(t, "4000", "General Donations", "INCOME")
	draftID := fa.createBalancedDraft(t, cashA, donationA, 900, "Tenant A entry")
	_, err := fa.journalService.Post(ctx, fa.tenantID, draftID, fa.userID)
	require.NoError(t, err)

	// Tenant B cannot see A's account or entry
	_, err = fb.accountService.GetByID(ctx, fb.tenantID, cashA)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)

	_, err = fb.journalService.GetByID(ctx, fb.tenantID, draftID)
	require.Error(t, err)

	// Each tenant has its own code namespace and number sequence
	cashB := fb.createAccount(t, "1000", "Cash in Hand", "ASSET")
	donationB := fb.createAccount(t, "4000", "General Donations", "INCOME")
	draftB := fb.createBalancedDraft(t, cashB, donationB, 450, "Tenant B entry")
	posted, err := fb.journalService.Post(ctx, fb.tenantID, draftB, fb.userID)
	require.NoError(t, err)
	assert.Equal(t, "JV/2025-26/00001", posted.EntryNumber)
}
