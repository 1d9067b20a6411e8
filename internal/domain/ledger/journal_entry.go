package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusPosted    EntryStatus = "POSTED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusPosted, EntryStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// CanPost returns true if the entry can transition to POSTED
func (s EntryStatus) CanPost() bool {
	return s == EntryStatusDraft
}

// CanCancel returns true if the entry can transition to CANCELLED
func (s EntryStatus) CanCancel() bool {
	return s == EntryStatusPosted
}

// CanUpdate returns true if the entry's lines may still be edited
func (s EntryStatus) CanUpdate() bool {
	return s == EntryStatusDraft
}

// IsTerminal returns true if no further transition is possible
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusCancelled
}

// JournalLine is one debit or credit within a journal entry.
// Exactly one of Debit and Credit is non-zero and both are non-negative.
// Lines have no life outside their entry.
type JournalLine struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	LineOrder int             `json:"line_order"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// NewDebitLine creates a debit-side journal line
func NewDebitLine(accountID uuid.UUID, amount decimal.Decimal) JournalLine {
	return JournalLine{ID: uuid.New(), AccountID: accountID, Debit: amount, Credit: decimal.Zero}
}

// NewCreditLine creates a credit-side journal line
func NewCreditLine(accountID uuid.UUID, amount decimal.Decimal) JournalLine {
	return JournalLine{ID: uuid.New(), AccountID: accountID, Debit: decimal.Zero, Credit: amount}
}

// Side returns which side of the ledger the line touches
func (l JournalLine) Side() Side {
	if l.Debit.IsPositive() {
		return SideDebit
	}
	return SideCredit
}

// Amount returns the non-zero side of the line
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// validate checks the one-sided, non-negative invariant for a single line
func (l JournalLine) validate() error {
	if l.AccountID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidationFailed, "Journal line must reference an account")
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Journal line amounts cannot be negative")
	}
	if l.Debit.IsPositive() == l.Credit.IsPositive() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Journal line must have exactly one of debit or credit set")
	}
	return nil
}

// JournalEntry is a balanced accounting transaction. It is created as a
// DRAFT without a number; the entry number is allocated when it posts and
// is never reused. POSTED entries are immutable; corrections happen via
// cancellation, which posts a mirrored reversal entry.
type JournalEntry struct {
	shared.TenantAggregateRoot
	EntryNumber   string        `json:"entry_number"`
	EntryDate     time.Time     `json:"entry_date"`
	Narration     string        `json:"narration"`
	Status        EntryStatus   `json:"status"`
	Lines         []JournalLine `json:"lines"`
	ReferenceType string        `json:"reference_type"`
	ReferenceID   string        `json:"reference_id"`
	ReversalOf    *uuid.UUID    `json:"reversal_of,omitempty"`
	PostedAt      *time.Time    `json:"posted_at,omitempty"`
	PostedBy      *uuid.UUID    `json:"posted_by,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CancelledBy   *uuid.UUID    `json:"cancelled_by,omitempty"`
	CancelReason  string        `json:"cancel_reason,omitempty"`
}

// NewJournalEntry creates a new draft journal entry.
// Line shape and balance are validated immediately so an invalid draft
// never exists; account-level checks happen again at posting time.
func NewJournalEntry(
	tenantID uuid.UUID,
	entryDate time.Time,
	narration string,
	lines []JournalLine,
	referenceType string,
	referenceID string,
) (*JournalEntry, error) {
	if entryDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Entry date is required")
	}
	if narration == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Narration cannot be empty")
	}
	if len(narration) > 500 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Narration cannot exceed 500 characters")
	}
	if (referenceType == "") != (referenceID == "") {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Reference type and reference ID must be set together")
	}
	if err := validateLineShape(lines); err != nil {
		return nil, err
	}

	entry := &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryDate:           entryDate,
		Narration:           narration,
		Status:              EntryStatusDraft,
		Lines:               normalizeLineOrder(lines),
		ReferenceType:       referenceType,
		ReferenceID:         referenceID,
	}

	entry.AddDomainEvent(NewJournalEntryCreatedEvent(entry))

	return entry, nil
}

// validateLineShape enforces the pure line invariants: at least two lines,
// each one-sided and non-negative, totals equal within the tolerance.
func validateLineShape(lines []JournalLine) error {
	if len(lines) < 2 {
		return shared.NewDomainError(shared.CodeValidationFailed, "Journal entry requires at least two lines")
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if err := line.validate(); err != nil {
			return err
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(BalanceEpsilon) {
		return shared.NewDomainError(shared.CodeValidationFailed,
			fmt.Sprintf("Entry is unbalanced: debits %s, credits %s", totalDebit.StringFixed(2), totalCredit.StringFixed(2)))
	}
	return nil
}

// normalizeLineOrder assigns sequential line orders preserving input order
func normalizeLineOrder(lines []JournalLine) []JournalLine {
	out := make([]JournalLine, len(lines))
	copy(out, lines)
	for i := range out {
		if out[i].ID == uuid.Nil {
			out[i].ID = uuid.New()
		}
		out[i].LineOrder = i + 1
	}
	return out
}

// UpdateDraft replaces the lines, narration and date of a draft entry
func (e *JournalEntry) UpdateDraft(entryDate time.Time, narration string, lines []JournalLine) error {
	if !e.Status.CanUpdate() {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot update entry in %s status", e.Status))
	}
	if entryDate.IsZero() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Entry date is required")
	}
	if narration == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Narration cannot be empty")
	}
	if err := validateLineShape(lines); err != nil {
		return err
	}

	e.EntryDate = entryDate
	e.Narration = narration
	e.Lines = normalizeLineOrder(lines)
	e.Touch()
	return nil
}

// MarkPosted transitions the entry to POSTED with its allocated number.
// The caller runs the posting validator and allocates the number inside
// the same transaction; this method only enforces the state machine.
func (e *JournalEntry) MarkPosted(entryNumber string, postedBy uuid.UUID) error {
	if !e.Status.CanPost() {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot post entry in %s status", e.Status))
	}
	if entryNumber == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Entry number is required for posting")
	}
	if postedBy == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidationFailed, "Posting user is required")
	}

	now := time.Now()
	e.EntryNumber = entryNumber
	e.Status = EntryStatusPosted
	e.PostedAt = &now
	e.PostedBy = &postedBy
	e.UpdatedAt = now

	e.AddDomainEvent(NewJournalEntryPostedEvent(e))

	return nil
}

// MarkCancelled transitions a posted entry to CANCELLED. The ledger
// effect is undone by the reversal entry, never by mutating lines.
func (e *JournalEntry) MarkCancelled(cancelledBy uuid.UUID, reason string) error {
	if !e.Status.CanCancel() {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot cancel entry in %s status", e.Status))
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidationFailed, "Cancelling user is required")
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Cancel reason is required")
	}

	now := time.Now()
	e.Status = EntryStatusCancelled
	e.CancelledAt = &now
	e.CancelledBy = &cancelledBy
	e.CancelReason = reason
	e.UpdatedAt = now

	e.AddDomainEvent(NewJournalEntryCancelledEvent(e))

	return nil
}

// BuildReversal creates the mirrored draft entry that undoes this one.
// Sides are swapped, the entry date is kept so balances at any as-of date
// are unchanged, and the link is recorded via ReversalOf.
func (e *JournalEntry) BuildReversal(reason string) (*JournalEntry, error) {
	if e.Status != EntryStatusPosted {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot reverse entry in %s status", e.Status))
	}

	reversed := make([]JournalLine, len(e.Lines))
	for i, line := range e.Lines {
		reversed[i] = JournalLine{
			ID:        uuid.New(),
			AccountID: line.AccountID,
			LineOrder: line.LineOrder,
			Debit:     line.Credit,
			Credit:    line.Debit,
		}
	}

	narration := fmt.Sprintf("Reversal of %s: %s", e.EntryNumber, reason)
	reversal, err := NewJournalEntry(e.TenantID, e.EntryDate, narration, reversed, "", "")
	if err != nil {
		return nil, err
	}
	originalID := e.ID
	reversal.ReversalOf = &originalID
	return reversal, nil
}

// TotalDebit returns the sum of all debit amounts
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit amounts
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced returns true if debits equal credits within the tolerance
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Sub(e.TotalCredit()).Abs().LessThanOrEqual(BalanceEpsilon)
}

// IsDraft returns true if the entry has not been posted
func (e *JournalEntry) IsDraft() bool {
	return e.Status == EntryStatusDraft
}

// IsPosted returns true if the entry has been posted
func (e *JournalEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}

// IsReversal returns true if the entry reverses another entry
func (e *JournalEntry) IsReversal() bool {
	return e.ReversalOf != nil
}
