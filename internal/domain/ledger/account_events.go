package ledger

import (
	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
)

// AccountCreatedEvent is raised when a new account is added to the chart
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID   `json:"account_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"account_type"`
	ParentID  *uuid.UUID  `json:"parent_id,omitempty"`
	IsSystem  bool        `json:"is_system"`
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return "AccountCreated"
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(account *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountCreated", "Account", account.ID, account.TenantID),
		AccountID:       account.ID,
		Code:            account.Code,
		Name:            account.Name,
		Type:            account.Type,
		ParentID:        account.ParentID,
		IsSystem:        account.IsSystem,
	}
}

// AccountUpdatedEvent is raised when an account is renamed, reparented
// or reactivated
type AccountUpdatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID  `json:"account_id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// EventType returns the event type name
func (e *AccountUpdatedEvent) EventType() string {
	return "AccountUpdated"
}

// NewAccountUpdatedEvent creates a new AccountUpdatedEvent
func NewAccountUpdatedEvent(account *Account) *AccountUpdatedEvent {
	return &AccountUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountUpdated", "Account", account.ID, account.TenantID),
		AccountID:       account.ID,
		Code:            account.Code,
		Name:            account.Name,
		ParentID:        account.ParentID,
		IsActive:        account.IsActive,
	}
}

// AccountDeactivatedEvent is raised when an account is retired
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Code      string    `json:"code"`
}

// EventType returns the event type name
func (e *AccountDeactivatedEvent) EventType() string {
	return "AccountDeactivated"
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(account *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountDeactivated", "Account", account.ID, account.TenantID),
		AccountID:       account.ID,
		Code:            account.Code,
	}
}
