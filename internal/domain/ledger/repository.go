package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountRepository handles persistence of the chart of accounts
type AccountRepository interface {
	Save(ctx context.Context, account *Account) error
	// SaveWithLock persists with an optimistic version check and returns
	// CONCURRENCY_CONFLICT when the stored version moved on.
	SaveWithLock(ctx context.Context, account *Account) error
	// FindByIDForTenant returns nil without error when nothing matches
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*Account, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Account], error)
	// ParentIDs returns the set of account IDs that currently have
	// children, for the leaf-only posting check.
	ParentIDs(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]bool, error)
	HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

// JournalEntryRepository handles persistence of journal entries and the
// per-tenant, per-fiscal-year entry number sequence.
type JournalEntryRepository interface {
	Save(ctx context.Context, entry *JournalEntry) error
	SaveWithLock(ctx context.Context, entry *JournalEntry) error
	// FindByIDForTenant returns nil without error when nothing matches
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*JournalEntry, error)
	FindByReference(ctx context.Context, tenantID uuid.UUID, referenceType, referenceID string) (*JournalEntry, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*JournalEntry], error)
	// DeleteDraft removes a draft entry. Posted entries are never deleted.
	DeleteDraft(ctx context.Context, entry *JournalEntry) error

	// PostAtomically allocates the next sequence number for the entry's
	// fiscal year under a row lock, marks the entry posted and persists
	// it, all in one transaction. Numbers are gap-free per tenant and
	// fiscal year.
	PostAtomically(ctx context.Context, entry *JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) error

	// PostIdempotent inserts and posts an entry carrying an external
	// reference. If another entry already holds the same
	// (tenant, reference type, reference ID), that entry is returned and
	// created is false. The unique constraint decides races.
	PostIdempotent(ctx context.Context, entry *JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) (winner *JournalEntry, created bool, err error)

	// CancelWithReversal cancels the original and posts its reversal in
	// one transaction so the ledger never shows one without the other.
	CancelWithReversal(ctx context.Context, original, reversal *JournalEntry, prefix, fiscalYear string, cancelledBy uuid.UUID) error

	// HasPostedActivity reports whether any posted line touches the account
	HasPostedActivity(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error)
}

// ReportRepository serves the read side: aggregated sums over posted
// entries. Cancelled entries stay in because their reversals offset them.
type ReportRepository interface {
	// TrialBalanceRows sums posted debits and credits per account with
	// activity up to and including asOf.
	TrialBalanceRows(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]TrialBalanceRow, error)

	// LedgerLines returns posted lines for one account within the range,
	// ordered by entry date then entry number.
	LedgerLines(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]LedgerLine, error)

	// OpeningSums returns posted debit and credit totals for one account
	// strictly before the given date.
	OpeningSums(ctx context.Context, tenantID, accountID uuid.UUID, before time.Time) (debit, credit decimal.Decimal, err error)

	// AccountBalances returns each account's normal-side balance as of
	// the given date, keyed by account ID. Accounts without activity are
	// absent.
	AccountBalances(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error)
}
