package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *ledger.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*ledger.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Account], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Account]), args.Error(1)
}

func (m *MockAccountRepository) ParentIDs(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockJournalEntryRepository is a mock implementation of ledger.JournalEntryRepository
type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, referenceType, referenceID string) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, tenantID, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.JournalEntry], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.JournalEntry]), args.Error(1)
}

func (m *MockJournalEntryRepository) DeleteDraft(ctx context.Context, entry *ledger.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) PostAtomically(ctx context.Context, entry *ledger.JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) error {
	args := m.Called(ctx, entry, prefix, fiscalYear, postedBy)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) PostIdempotent(ctx context.Context, entry *ledger.JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) (*ledger.JournalEntry, bool, error) {
	args := m.Called(ctx, entry, prefix, fiscalYear, postedBy)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Bool(1), args.Error(2)
}

func (m *MockJournalEntryRepository) CancelWithReversal(ctx context.Context, original, reversal *ledger.JournalEntry, prefix, fiscalYear string, cancelledBy uuid.UUID) error {
	args := m.Called(ctx, original, reversal, prefix, fiscalYear, cancelledBy)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) HasPostedActivity(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Bool(0), args.Error(1)
}

// MockReportRepository is a mock implementation of ledger.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) TrialBalanceRows(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]ledger.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.TrialBalanceRow), args.Error(1)
}

func (m *MockReportRepository) LedgerLines(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]ledger.LedgerLine, error) {
	args := m.Called(ctx, tenantID, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.LedgerLine), args.Error(1)
}

func (m *MockReportRepository) OpeningSums(ctx context.Context, tenantID, accountID uuid.UUID, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID, before)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportRepository) AccountBalances(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}
