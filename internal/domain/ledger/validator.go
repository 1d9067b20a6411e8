package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BalanceEpsilon is the tolerance for debit/credit equality: one paisa.
// Differences at or below it are treated as rounding noise.
var BalanceEpsilon = decimal.New(1, -2)

// AccountLookup resolves the accounts referenced by an entry's lines.
// The map is keyed by account ID; missing IDs mean unknown accounts.
type AccountLookup map[uuid.UUID]*Account

// PostingValidator runs every posting-time check against an entry.
// It is pure: the caller loads the referenced accounts and the set of
// account IDs that have children, then validation needs no I/O.
type PostingValidator struct {
	// BooksClosedBefore rejects entries dated before it when non-zero
	BooksClosedBefore time.Time
}

// NewPostingValidator creates a validator with no closed period
func NewPostingValidator() *PostingValidator {
	return &PostingValidator{}
}

// Validate checks an entry against the full posting rule set.
// hasChildren holds the IDs of accounts that are parents; lines must
// target leaf accounts only so rolled-up balances stay unambiguous.
func (v *PostingValidator) Validate(entry *JournalEntry, accounts AccountLookup, hasChildren map[uuid.UUID]bool) error {
	if entry == nil {
		return shared.NewDomainError(shared.CodeValidationFailed, "Journal entry is required")
	}
	if err := validateLineShape(entry.Lines); err != nil {
		return err
	}

	for _, line := range entry.Lines {
		account, ok := accounts[line.AccountID]
		if !ok || account.TenantID != entry.TenantID {
			return shared.NewDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Line %d references an unknown account", line.LineOrder))
		}
		if !account.IsActive {
			return shared.NewDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Line %d references inactive account %s", line.LineOrder, account.Code))
		}
		if hasChildren[account.ID] {
			return shared.NewDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Line %d posts to non-leaf account %s", line.LineOrder, account.Code))
		}
	}

	if !v.BooksClosedBefore.IsZero() && entry.EntryDate.Before(v.BooksClosedBefore) {
		return shared.NewDomainError(shared.CodeValidationFailed,
			fmt.Sprintf("Entry date %s falls in a closed period", entry.EntryDate.Format("2006-01-02")))
	}

	return nil
}
