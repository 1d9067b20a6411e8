package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountService provides application-level chart of accounts operations
type AccountService struct {
	accountRepo    ledger.AccountRepository
	entryRepo      ledger.JournalEntryRepository
	reportRepo     ledger.ReportRepository
	eventPublisher shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo ledger.AccountRepository,
	entryRepo ledger.JournalEntryRepository,
	reportRepo ledger.ReportRepository,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		reportRepo:  reportRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	IsSystem  bool       `json:"is_system"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code      string     `json:"code" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Type      string     `json:"type" binding:"required"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedBy *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// UpdateAccountRequest represents a request to rename or reparent an account
type UpdateAccountRequest struct {
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// BalanceResponse represents an account balance at a point in time
type BalanceResponse struct {
	AccountID       uuid.UUID       `json:"account_id"`
	AccountCode     string          `json:"account_code"`
	AccountType     string          `json:"account_type"`
	AsOf            time.Time       `json:"as_of"`
	Balance         decimal.Decimal `json:"balance"`
	RolledUpBalance decimal.Decimal `json:"rolled_up_balance"`
}

// Create creates a new account in the tenant's chart
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	exists, err := s.accountRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeDuplicateCode, "Account code already exists")
	}

	var parent *ledger.Account
	if req.ParentID != nil {
		parent, err = s.accountRepo.FindByIDForTenant(ctx, tenantID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Parent account not found")
		}
	}

	account, err := ledger.NewAccount(tenantID, req.Code, req.Name, ledger.AccountType(req.Type), parent)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, account)

	return toAccountResponse(account), nil
}

// GetByID gets an account by ID
func (s *AccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// List returns a page of the tenant's accounts
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*AccountResponse], error) {
	page, err := s.accountRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*AccountResponse, len(page.Items))
	for i, account := range page.Items {
		items[i] = toAccountResponse(account)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update renames and optionally reparents an account
func (s *AccountService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := account.Rename(req.Name); err != nil {
		return nil, err
	}

	if !parentUnchanged(account.ParentID, req.ParentID) {
		var parent *ledger.Account
		if req.ParentID != nil {
			parent, err = s.accountRepo.FindByIDForTenant(ctx, tenantID, *req.ParentID)
			if err != nil {
				return nil, err
			}
			if parent == nil {
				return nil, shared.NewDomainError(shared.CodeNotFound, "Parent account not found")
			}
			if err := s.ensureNotDescendant(ctx, tenantID, id, parent); err != nil {
				return nil, err
			}
		}
		if err := account.Reparent(parent); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, account)

	return toAccountResponse(account), nil
}

// Deactivate retires an account that has no posted activity and no children
func (s *AccountService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	hasActivity, err := s.entryRepo.HasPostedActivity(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if hasActivity {
		return nil, shared.NewDomainError(shared.CodeHasActivity, "Account has posted activity and cannot be deactivated")
	}

	hasChildren, err := s.accountRepo.HasChildren(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if hasChildren {
		return nil, shared.NewDomainError(shared.CodeHasActivity, "Account has child accounts and cannot be deactivated")
	}

	if err := account.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, account)

	return toAccountResponse(account), nil
}

// Reactivate returns an inactive account to service
func (s *AccountService) Reactivate(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := account.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, account)

	return toAccountResponse(account), nil
}

// GetHierarchy returns the chart of accounts as a forest with balances
// rolled up from leaves, as of the given date.
func (s *AccountService) GetHierarchy(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]*ledger.HierarchyNode, error) {
	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	balances, err := s.reportRepo.AccountBalances(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}

	return ledger.BuildHierarchy(accounts, balances), nil
}

// GetBalance returns one account's balance as of the given date, both
// its own activity and the roll-up including descendants.
func (s *AccountService) GetBalance(ctx context.Context, tenantID, id uuid.UUID, asOf time.Time) (*BalanceResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	// same inclusive entry_date <= asOf cutoff as the trial balance
	// and hierarchy reports
	balances, err := s.reportRepo.AccountBalances(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}
	balance := decimal.Zero
	if own, ok := balances[id]; ok {
		balance = own
	}

	rolledUp := balance
	hasChildren, err := s.accountRepo.HasChildren(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if hasChildren {
		accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		roots := ledger.BuildHierarchy(accounts, balances)
		if node := findNode(roots, id); node != nil {
			rolledUp = node.RolledUpBalance
		}
	}

	return &BalanceResponse{
		AccountID:       account.ID,
		AccountCode:     account.Code,
		AccountType:     account.Type.String(),
		AsOf:            asOf,
		Balance:         balance,
		RolledUpBalance: rolledUp,
	}, nil
}

func (s *AccountService) findAccount(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Account not found")
	}
	return account, nil
}

// ensureNotDescendant walks up from the candidate parent and rejects the
// move when the account being moved appears among its ancestors.
func (s *AccountService) ensureNotDescendant(ctx context.Context, tenantID, accountID uuid.UUID, parent *ledger.Account) error {
	current := parent
	seen := map[uuid.UUID]bool{}
	for current != nil {
		if current.ID == accountID {
			return shared.NewDomainError(shared.CodeCyclicHierarchy, "Cannot move account under its own descendant")
		}
		if seen[current.ID] || current.ParentID == nil {
			return nil
		}
		seen[current.ID] = true
		next, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, *current.ParentID)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}

func (s *AccountService) publishDomainEvents(ctx context.Context, account *ledger.Account) {
	if s.eventPublisher == nil {
		return
	}
	events := account.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	account.ClearDomainEvents()
}

func parentUnchanged(current, requested *uuid.UUID) bool {
	if current == nil && requested == nil {
		return true
	}
	if current != nil && requested != nil {
		return *current == *requested
	}
	return false
}

func findNode(nodes []*ledger.HierarchyNode, id uuid.UUID) *ledger.HierarchyNode {
	for _, node := range nodes {
		if node.AccountID == id {
			return node
		}
		if found := findNode(node.Children, id); found != nil {
			return found
		}
	}
	return nil
}

func toAccountResponse(account *ledger.Account) *AccountResponse {
	return &AccountResponse{
		ID:        account.ID,
		TenantID:  account.TenantID,
		Code:      account.Code,
		Name:      account.Name,
		Type:      account.Type.String(),
		ParentID:  account.ParentID,
		IsSystem:  account.IsSystem,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
		Version:   account.GetVersion(),
	}
}
