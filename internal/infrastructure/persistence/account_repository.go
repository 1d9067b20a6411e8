package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/mandir/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	model := models.AccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError(shared.CodeDuplicateCode, "Account code already exists")
		}
		return err
	}
	return nil
}

// SaveWithLock saves the account with optimistic locking
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *ledger.Account) error {
	account.IncrementVersion()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expectedVersion := account.GetVersion() - 1
		model := models.AccountModelFromDomain(account)
		result := tx.Model(&models.AccountModel{}).
			Where("id = ? AND version = ?", account.ID, expectedVersion).
			Select("*").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict, "Account has been modified by another user")
		}
		return nil
	})
}

// FindByIDForTenant finds an account by ID for a specific tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCodeForTenant finds an account by code for a specific tenant
func (r *GormAccountRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if an account code exists for a tenant
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant returns every account in the tenant's chart
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*ledger.Account, error) {
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]*ledger.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, nil
}

// List returns a page of accounts with filtering
func (r *GormAccountRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Account], error) {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, AccountSortFields, "code")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var accountModels []models.AccountModel
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]*ledger.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	page := shared.NewPaginated(accounts, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ParentIDs returns the set of account IDs that have at least one child
func (r *GormAccountRepository) ParentIDs(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND parent_id IS NOT NULL", tenantID).
		Distinct("parent_id").
		Pluck("parent_id", &ids).Error; err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// HasChildren reports whether the account has any child accounts
func (r *GormAccountRepository) HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormAccountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(code ILIKE ? OR name ILIKE ?)", searchPattern, searchPattern)
	}
	if filter.AccountType != "" {
		query = query.Where("type = ?", filter.AccountType)
	}
	if filter.IsActive != "" {
		query = query.Where("is_active = ?", filter.IsActive == "true")
	}
	return query
}
