package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChartSeeder_SeedDefaultChart(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	seeder := NewChartSeeder(accountRepo, zap.NewNop())
	tenantID := uuid.New()

	accountRepo.On("ExistsByCode", mock.Anything, tenantID, mock.AnythingOfType("string")).Return(false, nil)
	accountRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Account")).Return(nil)

	require.NoError(t, seeder.SeedDefaultChart(context.Background(), tenantID))

	accountRepo.AssertNumberOfCalls(t, "Save", len(defaultChart))

	// all seeded accounts are protected system accounts
	for _, call := range accountRepo.Calls {
		if call.Method != "Save" {
			continue
		}
		account := call.Arguments.Get(1).(*ledger.Account)
		assert.True(t, account.IsSystem)
		assert.True(t, account.IsActive)
	}
}

func TestChartSeeder_SeedDefaultChart_Idempotent(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	seeder := NewChartSeeder(accountRepo, zap.NewNop())
	tenantID := uuid.New()

	accountRepo.On("ExistsByCode", mock.Anything, tenantID, mock.AnythingOfType("string")).Return(true, nil)

	require.NoError(t, seeder.SeedDefaultChart(context.Background(), tenantID))

	accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
