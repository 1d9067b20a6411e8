package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's activity summed over posted entries
// up to the report date. Accounts with no activity are omitted.
type TrialBalanceRow struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	// Balance is signed on the account's normal side: positive means the
	// balance sits where this account type normally grows.
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance is the full report with grand totals
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// BuildTrialBalance assembles the report from per-account debit/credit
// sums. Rows are ordered by account code.
func BuildTrialBalance(rows []TrialBalanceRow) *TrialBalance {
	out := make([]TrialBalanceRow, len(rows))
	copy(out, rows)

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range out {
		if out[i].AccountType.NormalSide() == SideDebit {
			out[i].Balance = out[i].TotalDebit.Sub(out[i].TotalCredit)
		} else {
			out[i].Balance = out[i].TotalCredit.Sub(out[i].TotalDebit)
		}
		totalDebit = totalDebit.Add(out[i].TotalDebit)
		totalCredit = totalCredit.Add(out[i].TotalCredit)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountCode < out[j].AccountCode
	})

	return &TrialBalance{
		Rows:        out,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}
}

// Validate checks the report's own arithmetic: grand totals must agree
// within the tolerance. A failure here means corrupted ledger data.
func (tb *TrialBalance) Validate() error {
	if tb.TotalDebit.Sub(tb.TotalCredit).Abs().GreaterThan(BalanceEpsilon) {
		return shared.NewDomainError(shared.CodeValidationFailed,
			"Trial balance does not balance: ledger data is inconsistent")
	}
	return nil
}

// IsBalanced returns true if grand totals agree within the tolerance
func (tb *TrialBalance) IsBalanced() bool {
	return tb.Validate() == nil
}
