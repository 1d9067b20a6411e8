package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
)

// JournalEntryCreatedEvent is raised when a draft entry is created
type JournalEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID       uuid.UUID `json:"entry_id"`
	EntryDate     time.Time `json:"entry_date"`
	Narration     string    `json:"narration"`
	LineCount     int       `json:"line_count"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
}

// EventType returns the event type name
func (e *JournalEntryCreatedEvent) EventType() string {
	return "JournalEntryCreated"
}

// NewJournalEntryCreatedEvent creates a new JournalEntryCreatedEvent
func NewJournalEntryCreatedEvent(entry *JournalEntry) *JournalEntryCreatedEvent {
	return &JournalEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryCreated", "JournalEntry", entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		EntryDate:       entry.EntryDate,
		Narration:       entry.Narration,
		LineCount:       len(entry.Lines),
		ReferenceType:   entry.ReferenceType,
		ReferenceID:     entry.ReferenceID,
	}
}

// JournalEntryPostedEvent is raised when an entry transitions to POSTED
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID `json:"entry_id"`
	EntryNumber string    `json:"entry_number"`
	EntryDate   time.Time `json:"entry_date"`
	TotalDebit  string    `json:"total_debit"`
	TotalCredit string    `json:"total_credit"`
}

// EventType returns the event type name
func (e *JournalEntryPostedEvent) EventType() string {
	return "JournalEntryPosted"
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(entry *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryPosted", "JournalEntry", entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		EntryNumber:     entry.EntryNumber,
		EntryDate:       entry.EntryDate,
		TotalDebit:      entry.TotalDebit().StringFixed(2),
		TotalCredit:     entry.TotalCredit().StringFixed(2),
	}
}

// JournalEntryCancelledEvent is raised when a posted entry is cancelled
type JournalEntryCancelledEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID `json:"entry_id"`
	EntryNumber string    `json:"entry_number"`
	Reason      string    `json:"reason"`
}

// EventType returns the event type name
func (e *JournalEntryCancelledEvent) EventType() string {
	return "JournalEntryCancelled"
}

// NewJournalEntryCancelledEvent creates a new JournalEntryCancelledEvent
func NewJournalEntryCancelledEvent(entry *JournalEntry) *JournalEntryCancelledEvent {
	return &JournalEntryCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryCancelled", "JournalEntry", entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		EntryNumber:     entry.EntryNumber,
		Reason:          entry.CancelReason,
	}
}
