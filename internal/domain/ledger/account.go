package ledger

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
)

// AccountType classifies an account in the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Side identifies the debit or credit column of a journal line
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// NormalSide returns the side on which balances of this type grow.
// Assets and expenses are debit-normal; liabilities, equity and income
// are credit-normal.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

var accountCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,31}$`)

// Account represents one node in a tenant's chart of accounts.
// Accounts form a forest: a child must share its parent's type, and only
// leaf accounts accept journal lines.
type Account struct {
	shared.TenantAggregateRoot
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	ParentID *uuid.UUID  `json:"parent_id"`
	IsSystem bool        `json:"is_system"`
	IsActive bool        `json:"is_active"`
}

// NewAccount creates a new account in the chart.
// Code uniqueness per tenant is enforced by the repository.
func NewAccount(tenantID uuid.UUID, code, name string, accountType AccountType, parent *Account) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Account code cannot be empty")
	}
	if !accountCodePattern.MatchString(code) {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Account code must be 1-32 alphanumeric characters")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Account name cannot exceed 200 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Account type is not valid")
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                accountType,
		IsActive:            true,
	}

	if parent != nil {
		if parent.TenantID != tenantID {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Parent account not found")
		}
		if parent.Type != accountType {
			return nil, shared.NewDomainError(shared.CodeTypeMismatch,
				fmt.Sprintf("Parent account is %s but child is %s", parent.Type, accountType))
		}
		parentID := parent.ID
		account.ParentID = &parentID
	}

	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// NewSystemAccount creates a seeded account that cannot be deactivated
func NewSystemAccount(tenantID uuid.UUID, code, name string, accountType AccountType, parent *Account) (*Account, error) {
	account, err := NewAccount(tenantID, code, name, accountType, parent)
	if err != nil {
		return nil, err
	}
	account.IsSystem = true
	return account, nil
}

// Rename updates the account's display name
func (a *Account) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Account name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeValidationFailed, "Account name cannot exceed 200 characters")
	}
	a.Name = name
	a.Touch()
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
	return nil
}

// Reparent moves the account under a new parent (nil makes it a root).
// The cycle check walks the ancestor chain and is performed by the caller
// with repository access; this method enforces the same-type rule.
func (a *Account) Reparent(parent *Account) error {
	if parent == nil {
		a.ParentID = nil
		a.AddDomainEvent(NewAccountUpdatedEvent(a))
		return nil
	}
	if parent.ID == a.ID {
		return shared.NewDomainError(shared.CodeCyclicHierarchy, "Account cannot be its own parent")
	}
	if parent.TenantID != a.TenantID {
		return shared.NewDomainError(shared.CodeNotFound, "Parent account not found")
	}
	if parent.Type != a.Type {
		return shared.NewDomainError(shared.CodeTypeMismatch,
			fmt.Sprintf("Parent account is %s but child is %s", parent.Type, a.Type))
	}
	parentID := parent.ID
	a.ParentID = &parentID
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
	return nil
}

// Deactivate retires the account from new postings. Callers must first
// verify the account has no posted activity; system accounts refuse.
func (a *Account) Deactivate() error {
	if a.IsSystem {
		return shared.NewDomainError(shared.CodeHasActivity, "System accounts cannot be deactivated")
	}
	if !a.IsActive {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Account is already inactive")
	}
	a.IsActive = false
	a.Touch()
	a.AddDomainEvent(NewAccountDeactivatedEvent(a))
	return nil
}

// Reactivate returns an inactive account to service
func (a *Account) Reactivate() error {
	if a.IsActive {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Account is already active")
	}
	a.IsActive = true
	a.Touch()
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
	return nil
}

// IsRoot returns true if the account has no parent
func (a *Account) IsRoot() bool {
	return a.ParentID == nil
}
