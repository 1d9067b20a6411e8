package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NumberingConfig controls entry number allocation
type NumberingConfig struct {
	// Prefix goes in front of every entry number, e.g. "JV"
	Prefix string
	// FiscalYearStartMonth is the month the fiscal year begins
	FiscalYearStartMonth time.Month
}

// DefaultNumberingConfig returns journal voucher numbering with the
// Indian April-to-March fiscal year.
func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		Prefix:               "JV",
		FiscalYearStartMonth: ledger.DefaultFiscalYearStartMonth,
	}
}

// JournalService provides application-level journal entry operations
type JournalService struct {
	entryRepo      ledger.JournalEntryRepository
	accountRepo    ledger.AccountRepository
	validator      *ledger.PostingValidator
	numbering      NumberingConfig
	eventPublisher shared.EventPublisher
}

// NewJournalService creates a new JournalService
func NewJournalService(
	entryRepo ledger.JournalEntryRepository,
	accountRepo ledger.AccountRepository,
	numbering NumberingConfig,
) *JournalService {
	return &JournalService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		validator:   ledger.NewPostingValidator(),
		numbering:   numbering,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *JournalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetValidator replaces the posting validator, for closed-period support
func (s *JournalService) SetValidator(validator *ledger.PostingValidator) {
	s.validator = validator
}

// JournalLineRequest is one line of a journal entry request
type JournalLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest represents a request to create a draft entry
type CreateJournalEntryRequest struct {
	EntryDate     time.Time            `json:"entry_date" binding:"required"`
	Narration     string               `json:"narration" binding:"required"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	ReferenceType string               `json:"reference_type"`
	ReferenceID   string               `json:"reference_id"`
	CreatedBy     *uuid.UUID           `json:"-"` // Set from JWT context, not from request body
}

// UpdateJournalEntryRequest represents a request to update a draft entry
type UpdateJournalEntryRequest struct {
	EntryDate time.Time            `json:"entry_date" binding:"required"`
	Narration string               `json:"narration" binding:"required"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// CancelJournalEntryRequest represents a request to cancel a posted entry
type CancelJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalLineResponse is one line of a journal entry in API responses
type JournalLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	LineOrder int             `json:"line_order"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID            uuid.UUID             `json:"id"`
	TenantID      uuid.UUID             `json:"tenant_id"`
	EntryNumber   string                `json:"entry_number,omitempty"`
	EntryDate     time.Time             `json:"entry_date"`
	Narration     string                `json:"narration"`
	Status        string                `json:"status"`
	Lines         []JournalLineResponse `json:"lines"`
	TotalDebit    decimal.Decimal       `json:"total_debit"`
	TotalCredit   decimal.Decimal       `json:"total_credit"`
	ReferenceType string                `json:"reference_type,omitempty"`
	ReferenceID   string                `json:"reference_id,omitempty"`
	ReversalOf    *uuid.UUID            `json:"reversal_of,omitempty"`
	PostedAt      *time.Time            `json:"posted_at,omitempty"`
	PostedBy      *uuid.UUID            `json:"posted_by,omitempty"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
	CancelledBy   *uuid.UUID            `json:"cancelled_by,omitempty"`
	CancelReason  string                `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// CreateDraft creates a new draft journal entry
func (s *JournalService) CreateDraft(ctx context.Context, tenantID uuid.UUID, req CreateJournalEntryRequest) (*JournalEntryResponse, error) {
	entry, err := ledger.NewJournalEntry(
		tenantID,
		req.EntryDate,
		req.Narration,
		toDomainLines(req.Lines),
		req.ReferenceType,
		req.ReferenceID,
	)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, entry)

	return toJournalEntryResponse(entry), nil
}

// GetByID gets a journal entry by ID
func (s *JournalService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.findEntry(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toJournalEntryResponse(entry), nil
}

// List returns a page of the tenant's journal entries
func (s *JournalService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*JournalEntryResponse], error) {
	page, err := s.entryRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*JournalEntryResponse, len(page.Items))
	for i, entry := range page.Items {
		items[i] = toJournalEntryResponse(entry)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateDraft replaces a draft entry's date, narration and lines
func (s *JournalService) UpdateDraft(ctx context.Context, tenantID, id uuid.UUID, req UpdateJournalEntryRequest) (*JournalEntryResponse, error) {
	entry, err := s.findEntry(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := entry.UpdateDraft(req.EntryDate, req.Narration, toDomainLines(req.Lines)); err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveWithLock(ctx, entry); err != nil {
		return nil, err
	}

	return toJournalEntryResponse(entry), nil
}

// DiscardDraft deletes a draft entry. Posted entries cannot be discarded.
func (s *JournalService) DiscardDraft(ctx context.Context, tenantID, id uuid.UUID) error {
	entry, err := s.findEntry(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !entry.IsDraft() {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Only draft entries can be discarded")
	}
	return s.entryRepo.DeleteDraft(ctx, entry)
}

// Post validates a draft entry and posts it with a freshly allocated
// entry number. Validation and number allocation happen in one
// transaction so numbers stay gap-free.
func (s *JournalService) Post(ctx context.Context, tenantID, id, postedBy uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.findEntry(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !entry.Status.CanPost() {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition, "Only draft entries can be posted")
	}

	if err := s.validate(ctx, entry); err != nil {
		return nil, err
	}

	fiscalYear := ledger.FiscalYearLabel(entry.EntryDate, s.numbering.FiscalYearStartMonth)
	if err := s.entryRepo.PostAtomically(ctx, entry, s.numbering.Prefix, fiscalYear, postedBy); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, entry)

	return toJournalEntryResponse(entry), nil
}

// Cancel cancels a posted entry and posts its mirrored reversal in the
// same transaction. The reversal carries the original entry date.
func (s *JournalService) Cancel(ctx context.Context, tenantID, id, cancelledBy uuid.UUID, req CancelJournalEntryRequest) (*JournalEntryResponse, error) {
	entry, err := s.findEntry(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	reversal, err := entry.BuildReversal(req.Reason)
	if err != nil {
		return nil, err
	}

	if err := entry.MarkCancelled(cancelledBy, req.Reason); err != nil {
		return nil, err
	}

	fiscalYear := ledger.FiscalYearLabel(reversal.EntryDate, s.numbering.FiscalYearStartMonth)
	if err := s.entryRepo.CancelWithReversal(ctx, entry, reversal, s.numbering.Prefix, fiscalYear, cancelledBy); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, entry)
	s.publishDomainEvents(ctx, reversal)

	return toJournalEntryResponse(entry), nil
}

// PostIdempotent creates and posts an entry tied to an external
// reference in one step. Replays and races return the entry that won,
// flagged as not created.
func (s *JournalService) PostIdempotent(ctx context.Context, tenantID uuid.UUID, req CreateJournalEntryRequest, postedBy uuid.UUID) (*JournalEntryResponse, bool, error) {
	if req.ReferenceType == "" || req.ReferenceID == "" {
		return nil, false, shared.NewDomainError(shared.CodeValidationFailed, "Idempotent posting requires a reference type and ID")
	}

	// fast path: a prior call already posted this reference
	existing, err := s.entryRepo.FindByReference(ctx, tenantID, req.ReferenceType, req.ReferenceID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return toJournalEntryResponse(existing), false, nil
	}

	entry, err := ledger.NewJournalEntry(
		tenantID,
		req.EntryDate,
		req.Narration,
		toDomainLines(req.Lines),
		req.ReferenceType,
		req.ReferenceID,
	)
	if err != nil {
		return nil, false, err
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.validate(ctx, entry); err != nil {
		return nil, false, err
	}

	fiscalYear := ledger.FiscalYearLabel(entry.EntryDate, s.numbering.FiscalYearStartMonth)
	winner, created, err := s.entryRepo.PostIdempotent(ctx, entry, s.numbering.Prefix, fiscalYear, postedBy)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.publishDomainEvents(ctx, winner)
	}

	return toJournalEntryResponse(winner), created, nil
}

// ResolveAccountID looks up an account by code for the tenant
func (s *JournalService) ResolveAccountID(ctx context.Context, tenantID uuid.UUID, code string) (uuid.UUID, error) {
	account, err := s.accountRepo.FindByCodeForTenant(ctx, tenantID, code)
	if err != nil {
		return uuid.Nil, err
	}
	if account == nil {
		return uuid.Nil, shared.NewDomainError(shared.CodeNotFound, "Account "+code+" not found")
	}
	return account.ID, nil
}

// validate loads the referenced accounts and runs the posting rule set
func (s *JournalService) validate(ctx context.Context, entry *ledger.JournalEntry) error {
	accounts := ledger.AccountLookup{}
	for _, line := range entry.Lines {
		if _, ok := accounts[line.AccountID]; ok {
			continue
		}
		account, err := s.accountRepo.FindByIDForTenant(ctx, entry.TenantID, line.AccountID)
		if err != nil {
			return err
		}
		if account != nil {
			accounts[line.AccountID] = account
		}
	}

	parentIDs, err := s.accountRepo.ParentIDs(ctx, entry.TenantID)
	if err != nil {
		return err
	}

	return s.validator.Validate(entry, accounts, parentIDs)
}

func (s *JournalService) findEntry(ctx context.Context, tenantID, id uuid.UUID) (*ledger.JournalEntry, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Journal entry not found")
	}
	return entry, nil
}

func (s *JournalService) publishDomainEvents(ctx context.Context, entry *ledger.JournalEntry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	entry.ClearDomainEvents()
}

func toDomainLines(lines []JournalLineRequest) []ledger.JournalLine {
	out := make([]ledger.JournalLine, len(lines))
	for i, line := range lines {
		out[i] = ledger.JournalLine{
			ID:        uuid.New(),
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
	}
	return out
}

func toJournalEntryResponse(entry *ledger.JournalEntry) *JournalEntryResponse {
	lines := make([]JournalLineResponse, len(entry.Lines))
	for i, line := range entry.Lines {
		lines[i] = JournalLineResponse{
			ID:        line.ID,
			AccountID: line.AccountID,
			LineOrder: line.LineOrder,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
	}
	return &JournalEntryResponse{
		ID:            entry.ID,
		TenantID:      entry.TenantID,
		EntryNumber:   entry.EntryNumber,
		EntryDate:     entry.EntryDate,
		Narration:     entry.Narration,
		Status:        entry.Status.String(),
		Lines:         lines,
		TotalDebit:    entry.TotalDebit(),
		TotalCredit:   entry.TotalCredit(),
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		ReversalOf:    entry.ReversalOf,
		PostedAt:      entry.PostedAt,
		PostedBy:      entry.PostedBy,
		CancelledAt:   entry.CancelledAt,
		CancelledBy:   entry.CancelledBy,
		CancelReason:  entry.CancelReason,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
		Version:       entry.GetVersion(),
	}
}
