package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHierarchy(t *testing.T) {
	tenantID := uuid.New()
	assets := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	cash, err := NewAccount(tenantID, "1010", "Cash in Hand", AccountTypeAsset, assets)
	require.NoError(t, err)
	bank, err := NewAccount(tenantID, "1020", "Bank", AccountTypeAsset, assets)
	require.NoError(t, err)
	income := newTestAccount(t, tenantID, "4000", AccountTypeIncome)

	balances := map[uuid.UUID]decimal.Decimal{
		cash.ID:   decimal.NewFromInt(3000),
		bank.ID:   decimal.NewFromInt(7000),
		income.ID: decimal.NewFromInt(10000),
	}

	roots := BuildHierarchy([]*Account{assets, cash, bank, income}, balances)

	require.Len(t, roots, 2)
	assert.Equal(t, "1000", roots[0].Code)
	assert.Equal(t, "4000", roots[1].Code)

	assetsNode := roots[0]
	assert.True(t, assetsNode.DirectBalance.IsZero())
	assert.True(t, assetsNode.RolledUpBalance.Equal(decimal.NewFromInt(10000)))
	require.Len(t, assetsNode.Children, 2)
	assert.Equal(t, "1010", assetsNode.Children[0].Code)
	assert.True(t, assetsNode.Children[0].RolledUpBalance.Equal(decimal.NewFromInt(3000)))

	incomeNode := roots[1]
	assert.True(t, incomeNode.DirectBalance.Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, incomeNode.Children)
}

func TestBuildHierarchy_DeepRollUp(t *testing.T) {
	tenantID := uuid.New()
	level1 := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	level2, err := NewAccount(tenantID, "1100", "Bank Accounts", AccountTypeAsset, level1)
	require.NoError(t, err)
	level3, err := NewAccount(tenantID, "1110", "UPI Collections", AccountTypeAsset, level2)
	require.NoError(t, err)

	balances := map[uuid.UUID]decimal.Decimal{
		level3.ID: decimal.NewFromInt(2500),
	}

	roots := BuildHierarchy([]*Account{level1, level2, level3}, balances)

	require.Len(t, roots, 1)
	assert.True(t, roots[0].RolledUpBalance.Equal(decimal.NewFromInt(2500)))
	require.Len(t, roots[0].Children, 1)
	assert.True(t, roots[0].Children[0].RolledUpBalance.Equal(decimal.NewFromInt(2500)))
}

func TestBuildHierarchy_OrphanBecomesRoot(t *testing.T) {
	tenantID := uuid.New()
	orphan := newTestAccount(t, tenantID, "1010", AccountTypeAsset)
	missingParent := uuid.New()
	orphan.ParentID = &missingParent

	roots := BuildHierarchy([]*Account{orphan}, nil)

	require.Len(t, roots, 1)
	assert.Equal(t, "1010", roots[0].Code)
}

func TestBuildHierarchy_CycleDoesNotHang(t *testing.T) {
	tenantID := uuid.New()
	a := newTestAccount(t, tenantID, "1000", AccountTypeAsset)
	b := newTestAccount(t, tenantID, "1010", AccountTypeAsset)
	// corrupt parent links forming a cycle
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	balances := map[uuid.UUID]decimal.Decimal{
		a.ID: decimal.NewFromInt(100),
		b.ID: decimal.NewFromInt(200),
	}

	roots := BuildHierarchy([]*Account{a, b}, balances)

	// cycle members are promoted to roots so no row disappears
	require.Len(t, roots, 2)
	assert.True(t, roots[0].RolledUpBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, roots[1].RolledUpBalance.Equal(decimal.NewFromInt(200)))
}

func TestBuildHierarchy_Empty(t *testing.T) {
	roots := BuildHierarchy(nil, nil)
	assert.Empty(t, roots)
}
