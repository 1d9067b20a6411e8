package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	TenantAggregateModel
	Code     string             `gorm:"type:varchar(32);not null;uniqueIndex:idx_account_tenant_code,priority:2"`
	Name     string             `gorm:"type:varchar(200);not null"`
	Type     ledger.AccountType `gorm:"type:varchar(20);not null;index"`
	ParentID *uuid.UUID         `gorm:"type:uuid;index"`
	IsSystem bool               `gorm:"not null;default:false"`
	IsActive bool               `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	account := &ledger.Account{
		Code:     m.Code,
		Name:     m.Name,
		Type:     m.Type,
		ParentID: m.ParentID,
		IsSystem: m.IsSystem,
		IsActive: m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&account.TenantAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(account *ledger.Account) {
	m.FromDomainTenantAggregateRoot(account.TenantAggregateRoot)
	m.Code = account.Code
	m.Name = account.Name
	m.Type = account.Type
	m.ParentID = account.ParentID
	m.IsSystem = account.IsSystem
	m.IsActive = account.IsActive
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(account *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(account)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry
// aggregate root. Uniqueness of (tenant_id, reference_type, reference_id)
// and of non-empty entry numbers is enforced by partial indexes in the
// migrations; GORM tags only carry the plain lookup indexes.
type JournalEntryModel struct {
	TenantAggregateModel
	EntryNumber   string             `gorm:"type:varchar(40);not null;default:'';index"`
	EntryDate     time.Time          `gorm:"not null;index"`
	Narration     string             `gorm:"type:varchar(500);not null"`
	Status        ledger.EntryStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ReferenceType string             `gorm:"type:varchar(50);not null;default:''"`
	ReferenceID   string             `gorm:"type:varchar(100);not null;default:'';index"`
	ReversalOf    *uuid.UUID         `gorm:"type:uuid;index"`
	PostedAt      *time.Time
	PostedBy      *uuid.UUID `gorm:"type:uuid"`
	CancelledAt   *time.Time
	CancelledBy   *uuid.UUID         `gorm:"type:uuid"`
	CancelReason  string             `gorm:"type:varchar(500)"`
	Lines         []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the persistence model to a domain JournalEntry entity.
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	lines := make([]ledger.JournalLine, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = ledger.JournalLine{
			ID:        line.ID,
			AccountID: line.AccountID,
			LineOrder: line.LineOrder,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
	}

	entry := &ledger.JournalEntry{
		EntryNumber:   m.EntryNumber,
		EntryDate:     m.EntryDate,
		Narration:     m.Narration,
		Status:        m.Status,
		Lines:         lines,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		ReversalOf:    m.ReversalOf,
		PostedAt:      m.PostedAt,
		PostedBy:      m.PostedBy,
		CancelledAt:   m.CancelledAt,
		CancelledBy:   m.CancelledBy,
		CancelReason:  m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&entry.TenantAggregateRoot)
	return entry
}

// FromDomain populates the persistence model from a domain JournalEntry entity.
func (m *JournalEntryModel) FromDomain(entry *ledger.JournalEntry) {
	m.FromDomainTenantAggregateRoot(entry.TenantAggregateRoot)
	m.EntryNumber = entry.EntryNumber
	m.EntryDate = entry.EntryDate
	m.Narration = entry.Narration
	m.Status = entry.Status
	m.ReferenceType = entry.ReferenceType
	m.ReferenceID = entry.ReferenceID
	m.ReversalOf = entry.ReversalOf
	m.PostedAt = entry.PostedAt
	m.PostedBy = entry.PostedBy
	m.CancelledAt = entry.CancelledAt
	m.CancelledBy = entry.CancelledBy
	m.CancelReason = entry.CancelReason

	m.Lines = make([]JournalLineModel, len(entry.Lines))
	for i, line := range entry.Lines {
		m.Lines[i] = JournalLineModel{
			ID:        line.ID,
			EntryID:   entry.ID,
			TenantID:  entry.TenantID,
			AccountID: line.AccountID,
			LineOrder: line.LineOrder,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(entry *ledger.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(entry)
	return m
}

// JournalLineModel is the persistence model for one journal line.
// TenantID is denormalized so report aggregations avoid the join back
// to the entry header.
type JournalLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineOrder int             `gorm:"not null"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// SequenceCounterModel holds the next entry number per tenant, prefix
// and fiscal year. Rows are locked FOR UPDATE during posting so numbers
// come out gap-free.
type SequenceCounterModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix     string    `gorm:"type:varchar(10);primaryKey"`
	FiscalYear string    `gorm:"type:varchar(10);primaryKey"`
	NextValue  int64     `gorm:"not null;default:1"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}
