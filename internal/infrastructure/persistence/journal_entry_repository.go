package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mandir/backend/internal/domain/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/mandir/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// Save creates or updates a journal entry together with its lines
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveInTx(tx, entry)
	})
}

// SaveWithLock saves the entry with optimistic locking
func (r *GormJournalEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.JournalEntry) error {
	entry.IncrementVersion()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expectedVersion := entry.GetVersion() - 1
		model := models.JournalEntryModelFromDomain(entry)
		result := tx.Model(&models.JournalEntryModel{}).
			Omit("Lines").
			Where("id = ? AND version = ?", entry.ID, expectedVersion).
			Select("*").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict, "Journal entry has been modified by another user")
		}
		return r.replaceLines(tx, model)
	})
}

// FindByIDForTenant finds a journal entry by ID for a specific tenant
func (r *GormJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_order ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds the entry holding the given external reference
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, referenceType, referenceID string) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_order ASC")
		}).
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, referenceType, referenceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a page of journal entries with filtering
func (r *GormJournalEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.JournalEntry], error) {
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, JournalEntrySortFields, "entry_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var entryModels []models.JournalEntryModel
	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_order ASC")
		}).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*ledger.JournalEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteDraft removes a draft entry and its lines
func (r *GormJournalEntryRepository) DeleteDraft(ctx context.Context, entry *ledger.JournalEntry) error {
	if !entry.IsDraft() {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Only draft entries can be deleted")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entry.ID).
			Delete(&models.JournalLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ? AND status = ?",
			entry.TenantID, entry.ID, ledger.EntryStatusDraft).
			Delete(&models.JournalEntryModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict, "Journal entry is no longer a draft")
		}
		return nil
	})
}

// PostAtomically allocates the next entry number under a row lock, marks
// the entry posted and persists it in one transaction.
func (r *GormJournalEntryRepository) PostAtomically(ctx context.Context, entry *ledger.JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.postInTx(tx, entry, prefix, fiscalYear, postedBy)
	})
}

// PostIdempotent inserts and posts a referenced entry. When the unique
// reference constraint fires, the entry that won the race is returned.
func (r *GormJournalEntryRepository) PostIdempotent(ctx context.Context, entry *ledger.JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) (*ledger.JournalEntry, bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.postInTx(tx, entry, prefix, fiscalYear, postedBy)
	})
	if err == nil {
		return entry, true, nil
	}
	if !isUniqueViolation(err) {
		return nil, false, err
	}

	winner, findErr := r.FindByReference(ctx, entry.TenantID, entry.ReferenceType, entry.ReferenceID)
	if findErr != nil {
		return nil, false, findErr
	}
	if winner == nil {
		return nil, false, err
	}
	return winner, false, nil
}

// CancelWithReversal persists the cancelled original and posts its
// reversal in one transaction.
func (r *GormJournalEntryRepository) CancelWithReversal(ctx context.Context, original, reversal *ledger.JournalEntry, prefix, fiscalYear string, cancelledBy uuid.UUID) error {
	original.IncrementVersion()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expectedVersion := original.GetVersion() - 1
		model := models.JournalEntryModelFromDomain(original)
		// the stored row is still POSTED at this point; only the
		// in-memory aggregate has been flipped to CANCELLED
		result := tx.Model(&models.JournalEntryModel{}).
			Omit("Lines").
			Where("id = ? AND version = ? AND status = ?", original.ID, expectedVersion, ledger.EntryStatusPosted).
			Select("*").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict, "Journal entry has been modified by another user")
		}
		return r.postInTx(tx, reversal, prefix, fiscalYear, cancelledBy)
	})
}

// HasPostedActivity reports whether any posted line touches the account
func (r *GormJournalEntryRepository) HasPostedActivity(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.JournalLineModel{}).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Where("journal_lines.tenant_id = ? AND journal_lines.account_id = ? AND journal_entries.status = ?",
			tenantID, accountID, ledger.EntryStatusPosted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// postInTx allocates the next sequence value under FOR UPDATE, marks the
// entry posted and inserts it. Must run inside a transaction.
func (r *GormJournalEntryRepository) postInTx(tx *gorm.DB, entry *ledger.JournalEntry, prefix, fiscalYear string, postedBy uuid.UUID) error {
	sequence, err := r.nextSequence(tx, entry.TenantID, prefix, fiscalYear)
	if err != nil {
		return err
	}

	entryNumber := ledger.FormatEntryNumber(prefix, fiscalYear, sequence)
	if err := entry.MarkPosted(entryNumber, postedBy); err != nil {
		return err
	}

	return r.saveInTx(tx, entry)
}

// nextSequence increments the counter row for (tenant, prefix, fiscal
// year) under a row lock and returns the allocated value. The counter
// row is created on first use.
func (r *GormJournalEntryRepository) nextSequence(tx *gorm.DB, tenantID uuid.UUID, prefix, fiscalYear string) (int64, error) {
	counter := models.SequenceCounterModel{
		TenantID:   tenantID,
		Prefix:     prefix,
		FiscalYear: fiscalYear,
		NextValue:  1,
		UpdatedAt:  time.Now(),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
		return 0, err
	}

	var locked models.SequenceCounterModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND prefix = ? AND fiscal_year = ?", tenantID, prefix, fiscalYear).
		First(&locked).Error; err != nil {
		return 0, err
	}

	sequence := locked.NextValue
	if err := tx.Model(&models.SequenceCounterModel{}).
		Where("tenant_id = ? AND prefix = ? AND fiscal_year = ?", tenantID, prefix, fiscalYear).
		Updates(map[string]interface{}{
			"next_value": sequence + 1,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return 0, err
	}
	return sequence, nil
}

// saveInTx upserts the entry header and replaces its lines
func (r *GormJournalEntryRepository) saveInTx(tx *gorm.DB, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	if err := tx.Omit("Lines").Save(model).Error; err != nil {
		return err
	}
	return r.replaceLines(tx, model)
}

// replaceLines rewrites the line set so draft edits never leave stale rows
func (r *GormJournalEntryRepository) replaceLines(tx *gorm.DB, model *models.JournalEntryModel) error {
	if err := tx.Where("entry_id = ?", model.ID).
		Delete(&models.JournalLineModel{}).Error; err != nil {
		return err
	}
	if len(model.Lines) == 0 {
		return nil
	}
	return tx.Create(&model.Lines).Error
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormJournalEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(entry_number ILIKE ? OR narration ILIKE ?)", searchPattern, searchPattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.DateFrom != "" {
		query = query.Where("entry_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("entry_date <= ?", filter.DateTo)
	}
	return query
}

// isUniqueViolation detects a unique constraint failure from either the
// GORM translated error or the raw pgx error code.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
