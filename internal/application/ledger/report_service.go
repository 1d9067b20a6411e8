package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportService serves the read-side reports over posted entries
type ReportService struct {
	reportRepo  ledger.ReportRepository
	accountRepo ledger.AccountRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo ledger.ReportRepository,
	accountRepo ledger.AccountRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// TrialBalance builds the trial balance as of the given date. The report
// re-checks its own totals; a mismatch means the stored ledger data is
// inconsistent and the report is refused rather than silently wrong.
func (s *ReportService) TrialBalance(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*ledger.TrialBalance, error) {
	rows, err := s.reportRepo.TrialBalanceRows(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}

	tb := ledger.BuildTrialBalance(rows)
	if err := tb.Validate(); err != nil {
		s.logger.Error("trial balance totals disagree",
			zap.String("tenant_id", tenantID.String()),
			zap.Time("as_of", asOf),
			zap.String("total_debit", tb.TotalDebit.String()),
			zap.String("total_credit", tb.TotalCredit.String()))
		return nil, err
	}

	return tb, nil
}

// AccountLedger builds the statement of one account over a date range
func (s *ReportService) AccountLedger(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) (*ledger.AccountLedger, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Range end cannot be before range start")
	}

	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Account not found")
	}

	openingDebit, openingCredit, err := s.reportRepo.OpeningSums(ctx, tenantID, accountID, from)
	if err != nil {
		return nil, err
	}

	lines, err := s.reportRepo.LedgerLines(ctx, tenantID, accountID, from, to)
	if err != nil {
		return nil, err
	}

	return ledger.BuildAccountLedger(account, from, to, openingDebit, openingCredit, lines), nil
}
