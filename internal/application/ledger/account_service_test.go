package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountServiceFixture() (*AccountService, *MockAccountRepository, *MockJournalEntryRepository, *MockReportRepository) {
	accountRepo := new(MockAccountRepository)
	entryRepo := new(MockJournalEntryRepository)
	reportRepo := new(MockReportRepository)
	service := NewAccountService(accountRepo, entryRepo, reportRepo)
	return service, accountRepo, entryRepo, reportRepo
}

func mustAccount(t *testing.T, tenantID uuid.UUID, code, name string, accountType ledger.AccountType) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAccount(tenantID, code, name, accountType, nil)
	require.NoError(t, err)
	account.ClearDomainEvents()
	return account
}

func TestAccountService_Create(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()

	accountRepo.On("ExistsByCode", mock.Anything, tenantID, "1000").Return(false, nil)
	accountRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Account")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateAccountRequest{
		Code: "1000",
		Name: "Cash in Hand",
		Type: "ASSET",
	})

	require.NoError(t, err)
	assert.Equal(t, "1000", resp.Code)
	assert.Equal(t, "ASSET", resp.Type)
	assert.True(t, resp.IsActive)
	accountRepo.AssertExpectations(t)
}

func TestAccountService_Create_DuplicateCode(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()

	accountRepo.On("ExistsByCode", mock.Anything, tenantID, "1000").Return(true, nil)

	_, err := service.Create(context.Background(), tenantID, CreateAccountRequest{
		Code: "1000",
		Name: "Cash",
		Type: "ASSET",
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeDuplicateCode, domainErr.Code)
	accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAccountService_Create_WithParent(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	parent := mustAccount(t, tenantID, "1000", "Current Assets", ledger.AccountTypeAsset)

	accountRepo.On("ExistsByCode", mock.Anything, tenantID, "1010").Return(false, nil)
	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, parent.ID).Return(parent, nil)
	accountRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Account")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateAccountRequest{
		Code:     "1010",
		Name:     "Cash in Hand",
		Type:     "ASSET",
		ParentID: &parent.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.ParentID)
	assert.Equal(t, parent.ID, *resp.ParentID)
}

func TestAccountService_Create_ParentNotFound(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	missing := uuid.New()

	accountRepo.On("ExistsByCode", mock.Anything, tenantID, "1010").Return(false, nil)
	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, missing).Return(nil, nil)

	_, err := service.Create(context.Background(), tenantID, CreateAccountRequest{
		Code:     "1010",
		Name:     "Cash",
		Type:     "ASSET",
		ParentID: &missing,
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}

func TestAccountService_GetByID_NotFound(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	id := uuid.New()

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, nil)

	_, err := service.GetByID(context.Background(), tenantID, id)

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}

func TestAccountService_Update_Rename(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	account := mustAccount(t, tenantID, "1000", "Cash", ledger.AccountTypeAsset)

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)
	accountRepo.On("SaveWithLock", mock.Anything, account).Return(nil)

	resp, err := service.Update(context.Background(), tenantID, account.ID, UpdateAccountRequest{
		Name: "Cash in Hand",
	})

	require.NoError(t, err)
	assert.Equal(t, "Cash in Hand", resp.Name)
}

func TestAccountService_Update_ReparentUnderDescendant(t *testing.T) {
	service, accountRepo, _, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	root := mustAccount(t, tenantID, "1000", "Assets", ledger.AccountTypeAsset)
	child := mustAccount(t, tenantID, "1010", "Bank", ledger.AccountTypeAsset)
	child.ParentID = &root.ID

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, root.ID).Return(root, nil)
	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, child.ID).Return(child, nil)

	// moving the root under its own child forms a cycle
	_, err := service.Update(context.Background(), tenantID, root.ID, UpdateAccountRequest{
		Name:     "Assets",
		ParentID: &child.ID,
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeCyclicHierarchy, domainErr.Code)
}

func TestAccountService_Deactivate(t *testing.T) {
	service, accountRepo, entryRepo, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	account := mustAccount(t, tenantID, "5100", "Temple Maintenance", ledger.AccountTypeExpense)

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)
	entryRepo.On("HasPostedActivity", mock.Anything, tenantID, account.ID).Return(false, nil)
	accountRepo.On("HasChildren", mock.Anything, tenantID, account.ID).Return(false, nil)
	accountRepo.On("SaveWithLock", mock.Anything, account).Return(nil)

	resp, err := service.Deactivate(context.Background(), tenantID, account.ID)

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestAccountService_Deactivate_WithActivity(t *testing.T) {
	service, accountRepo, entryRepo, _ := newAccountServiceFixture()
	tenantID := uuid.New()
	account := mustAccount(t, tenantID, "1000", "Cash", ledger.AccountTypeAsset)

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)
	entryRepo.On("HasPostedActivity", mock.Anything, tenantID, account.ID).Return(true, nil)

	_, err := service.Deactivate(context.Background(), tenantID, account.ID)

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeHasActivity, domainErr.Code)
	assert.True(t, account.IsActive)
}

func TestAccountService_GetHierarchy(t *testing.T) {
	service, accountRepo, _, reportRepo := newAccountServiceFixture()
	tenantID := uuid.New()
	asOf := time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	root := mustAccount(t, tenantID, "1000", "Assets", ledger.AccountTypeAsset)
	leaf := mustAccount(t, tenantID, "1010", "Cash", ledger.AccountTypeAsset)
	leaf.ParentID = &root.ID

	accountRepo.On("FindAllForTenant", mock.Anything, tenantID).Return([]*ledger.Account{root, leaf}, nil)
	reportRepo.On("AccountBalances", mock.Anything, tenantID, asOf).Return(map[uuid.UUID]decimal.Decimal{
		leaf.ID: decimal.NewFromInt(4200),
	}, nil)

	roots, err := service.GetHierarchy(context.Background(), tenantID, asOf)

	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.True(t, roots[0].RolledUpBalance.Equal(decimal.NewFromInt(4200)))
}

func TestAccountService_GetBalance_Leaf(t *testing.T) {
	service, accountRepo, _, reportRepo := newAccountServiceFixture()
	tenantID := uuid.New()
	asOf := time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	account := mustAccount(t, tenantID, "4000", "General Donations", ledger.AccountTypeIncome)

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)
	// the balance must come from the same inclusive as-of query the
	// trial balance uses, not from a shifted opening-sums cutoff
	reportRepo.On("AccountBalances", mock.Anything, tenantID, mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Equal(asOf)
	})).Return(map[uuid.UUID]decimal.Decimal{
		account.ID: decimal.NewFromInt(9000),
	}, nil)
	accountRepo.On("HasChildren", mock.Anything, tenantID, account.ID).Return(false, nil)

	resp, err := service.GetBalance(context.Background(), tenantID, account.ID, asOf)

	require.NoError(t, err)
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(9000)))
	assert.True(t, resp.RolledUpBalance.Equal(decimal.NewFromInt(9000)))
	reportRepo.AssertExpectations(t)
}

func TestAccountService_GetBalance_RollsUpChildren(t *testing.T) {
	service, accountRepo, _, reportRepo := newAccountServiceFixture()
	tenantID := uuid.New()
	asOf := time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	root := mustAccount(t, tenantID, "1000", "Assets", ledger.AccountTypeAsset)
	leaf := mustAccount(t, tenantID, "1010", "Cash", ledger.AccountTypeAsset)
	leaf.ParentID = &root.ID

	accountRepo.On("FindByIDForTenant", mock.Anything, tenantID, root.ID).Return(root, nil)
	reportRepo.On("AccountBalances", mock.Anything, tenantID, asOf).Return(map[uuid.UUID]decimal.Decimal{
		leaf.ID: decimal.NewFromInt(2500),
	}, nil)
	accountRepo.On("HasChildren", mock.Anything, tenantID, root.ID).Return(true, nil)
	accountRepo.On("FindAllForTenant", mock.Anything, tenantID).Return([]*ledger.Account{root, leaf}, nil)

	resp, err := service.GetBalance(context.Background(), tenantID, root.ID, asOf)

	require.NoError(t, err)
	assert.True(t, resp.Balance.IsZero())
	assert.True(t, resp.RolledUpBalance.Equal(decimal.NewFromInt(2500)))
}
