package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerLine is one posted journal line as it appears in an account's
// ledger, joined with its entry header.
type LedgerLine struct {
	EntryID     uuid.UUID       `json:"entry_id"`
	EntryNumber string          `json:"entry_number"`
	EntryDate   time.Time       `json:"entry_date"`
	Narration   string          `json:"narration"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// RunningBalance after this line, signed on the account's normal side
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// AccountLedger is the statement of one account over a date range
type AccountLedger struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	AccountType    AccountType     `json:"account_type"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Lines          []LedgerLine    `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// BuildAccountLedger computes running balances over lines already
// filtered to the range and ordered by entry date then entry number.
// openingDebit/openingCredit are the sums of posted activity before the
// range start.
func BuildAccountLedger(
	account *Account,
	from, to time.Time,
	openingDebit, openingCredit decimal.Decimal,
	lines []LedgerLine,
) *AccountLedger {
	debitNormal := account.Type.NormalSide() == SideDebit

	opening := openingDebit.Sub(openingCredit)
	if !debitNormal {
		opening = openingCredit.Sub(openingDebit)
	}

	out := make([]LedgerLine, len(lines))
	copy(out, lines)

	running := opening
	for i := range out {
		delta := out[i].Debit.Sub(out[i].Credit)
		if !debitNormal {
			delta = out[i].Credit.Sub(out[i].Debit)
		}
		running = running.Add(delta)
		out[i].RunningBalance = running
	}

	return &AccountLedger{
		AccountID:      account.ID,
		AccountCode:    account.Code,
		AccountName:    account.Name,
		AccountType:    account.Type,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          out,
		ClosingBalance: running,
	}
}
