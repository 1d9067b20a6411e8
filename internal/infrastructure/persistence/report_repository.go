package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository serves aggregated read queries over posted entries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// TrialBalanceRows sums posted debits and credits per account with
// activity up to and including asOf. Balances are computed by the domain.
func (r *GormReportRepository) TrialBalanceRows(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]ledger.TrialBalanceRow, error) {
	type rowResult struct {
		AccountID   uuid.UUID
		AccountCode string
		AccountName string
		AccountType string
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}

	var results []rowResult
	err := r.db.WithContext(ctx).
		Table("journal_lines").
		Select(`accounts.id AS account_id,
			accounts.code AS account_code,
			accounts.name AS account_name,
			accounts.type AS account_type,
			COALESCE(SUM(journal_lines.debit), 0) AS total_debit,
			COALESCE(SUM(journal_lines.credit), 0) AS total_credit`).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Joins("JOIN accounts ON accounts.id = journal_lines.account_id").
		Where("journal_lines.tenant_id = ?", tenantID).
		Where("journal_entries.status = ?", ledger.EntryStatusPosted).
		Where("journal_entries.entry_date <= ?", asOf).
		Group("accounts.id, accounts.code, accounts.name, accounts.type").
		Order("accounts.code ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rows := make([]ledger.TrialBalanceRow, len(results))
	for i, res := range results {
		rows[i] = ledger.TrialBalanceRow{
			AccountID:   res.AccountID,
			AccountCode: res.AccountCode,
			AccountName: res.AccountName,
			AccountType: ledger.AccountType(res.AccountType),
			TotalDebit:  res.TotalDebit,
			TotalCredit: res.TotalCredit,
		}
	}
	return rows, nil
}

// LedgerLines returns posted lines for one account within the range,
// ordered by entry date then entry number. Running balances are computed
// by the domain.
func (r *GormReportRepository) LedgerLines(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]ledger.LedgerLine, error) {
	type lineResult struct {
		EntryID     uuid.UUID
		EntryNumber string
		EntryDate   time.Time
		Narration   string
		Debit       decimal.Decimal
		Credit      decimal.Decimal
	}

	var results []lineResult
	err := r.db.WithContext(ctx).
		Table("journal_lines").
		Select(`journal_entries.id AS entry_id,
			journal_entries.entry_number AS entry_number,
			journal_entries.entry_date AS entry_date,
			journal_entries.narration AS narration,
			journal_lines.debit AS debit,
			journal_lines.credit AS credit`).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Where("journal_lines.tenant_id = ?", tenantID).
		Where("journal_lines.account_id = ?", accountID).
		Where("journal_entries.status = ?", ledger.EntryStatusPosted).
		Where("journal_entries.entry_date >= ? AND journal_entries.entry_date <= ?", from, to).
		Order("journal_entries.entry_date ASC, journal_entries.entry_number ASC, journal_lines.line_order ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	lines := make([]ledger.LedgerLine, len(results))
	for i, res := range results {
		lines[i] = ledger.LedgerLine{
			EntryID:     res.EntryID,
			EntryNumber: res.EntryNumber,
			EntryDate:   res.EntryDate,
			Narration:   res.Narration,
			Debit:       res.Debit,
			Credit:      res.Credit,
		}
	}
	return lines, nil
}

// OpeningSums returns posted debit and credit totals for one account
// strictly before the given date
func (r *GormReportRepository) OpeningSums(ctx context.Context, tenantID, accountID uuid.UUID, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	type sumResult struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}

	var result sumResult
	err := r.db.WithContext(ctx).
		Table("journal_lines").
		Select(`COALESCE(SUM(journal_lines.debit), 0) AS total_debit,
			COALESCE(SUM(journal_lines.credit), 0) AS total_credit`).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Where("journal_lines.tenant_id = ?", tenantID).
		Where("journal_lines.account_id = ?", accountID).
		Where("journal_entries.status = ?", ledger.EntryStatusPosted).
		Where("journal_entries.entry_date < ?", before).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return result.TotalDebit, result.TotalCredit, nil
}

// AccountBalances returns each account's normal-side balance as of the
// given date, keyed by account ID
func (r *GormReportRepository) AccountBalances(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	type balanceResult struct {
		AccountID   uuid.UUID
		AccountType string
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}

	var results []balanceResult
	err := r.db.WithContext(ctx).
		Table("journal_lines").
		Select(`accounts.id AS account_id,
			accounts.type AS account_type,
			COALESCE(SUM(journal_lines.debit), 0) AS total_debit,
			COALESCE(SUM(journal_lines.credit), 0) AS total_credit`).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Joins("JOIN accounts ON accounts.id = journal_lines.account_id").
		Where("journal_lines.tenant_id = ?", tenantID).
		Where("journal_entries.status = ?", ledger.EntryStatusPosted).
		Where("journal_entries.entry_date <= ?", asOf).
		Group("accounts.id, accounts.type").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(results))
	for _, res := range results {
		if ledger.AccountType(res.AccountType).NormalSide() == ledger.SideDebit {
			balances[res.AccountID] = res.TotalDebit.Sub(res.TotalCredit)
		} else {
			balances[res.AccountID] = res.TotalCredit.Sub(res.TotalDebit)
		}
	}
	return balances, nil
}
