package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"go.uber.org/zap"
)

// Seeded chart codes. The auto-posting adapter maps external events onto
// these accounts, so they are created as system accounts that cannot be
// deactivated.
const (
	CodeCashInHand            = "1000"
	CodeBankUPICollections    = "1100"
	CodeInventoryInKind       = "1200"
	CodeSponsorshipReceivable = "1300"
	CodeSalariesPayable       = "2000"
	CodeCorpusFund            = "3000"
	CodeGeneralDonations      = "4000"
	CodeSevaIncome            = "4100"
	CodeInKindDonations       = "4200"
	CodeSponsorshipIncome     = "4300"
	CodeSalariesWages         = "5000"
	CodeTempleMaintenance     = "5100"
)

type seedAccount struct {
	code        string
	name        string
	accountType ledger.AccountType
}

var defaultChart = []seedAccount{
	{CodeCashInHand, "Cash in Hand", ledger.AccountTypeAsset},
	{CodeBankUPICollections, "Bank - UPI Collections", ledger.AccountTypeAsset},
	{CodeInventoryInKind, "Inventory - In-Kind Goods", ledger.AccountTypeAsset},
	{CodeSponsorshipReceivable, "Sponsorship Receivable", ledger.AccountTypeAsset},
	{CodeSalariesPayable, "Salaries Payable", ledger.AccountTypeLiability},
	{CodeCorpusFund, "Corpus Fund", ledger.AccountTypeEquity},
	{CodeGeneralDonations, "General Donations", ledger.AccountTypeIncome},
	{CodeSevaIncome, "Seva Income", ledger.AccountTypeIncome},
	{CodeInKindDonations, "In-Kind Donations", ledger.AccountTypeIncome},
	{CodeSponsorshipIncome, "Sponsorship Income", ledger.AccountTypeIncome},
	{CodeSalariesWages, "Salaries and Wages", ledger.AccountTypeExpense},
	{CodeTempleMaintenance, "Temple Maintenance", ledger.AccountTypeExpense},
}

// ChartSeeder creates the default chart of accounts for a tenant
type ChartSeeder struct {
	accountRepo ledger.AccountRepository
	logger      *zap.Logger
}

// NewChartSeeder creates a new ChartSeeder
func NewChartSeeder(accountRepo ledger.AccountRepository, logger *zap.Logger) *ChartSeeder {
	return &ChartSeeder{accountRepo: accountRepo, logger: logger}
}

// SeedDefaultChart creates any missing default accounts for the tenant.
// Existing codes are left untouched, so seeding is safe to repeat.
func (s *ChartSeeder) SeedDefaultChart(ctx context.Context, tenantID uuid.UUID) error {
	created := 0
	for _, seed := range defaultChart {
		exists, err := s.accountRepo.ExistsByCode(ctx, tenantID, seed.code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		account, err := ledger.NewSystemAccount(tenantID, seed.code, seed.name, seed.accountType, nil)
		if err != nil {
			return err
		}
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		s.logger.Info("seeded default chart of accounts",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("accounts_created", created))
	}
	return nil
}
