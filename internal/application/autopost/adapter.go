package autopost

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appledger "github.com/mandir/backend/internal/application/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// posting is one resolved double-entry instruction built from a source event
type posting struct {
	referenceType string
	referenceID   string
	entryDate     time.Time
	narration     string
	debitCode     string
	creditCode    string
	amount        decimal.Decimal
}

// Adapter listens for operational events and posts the matching journal
// entries. Posting is idempotent on (tenant, reference type, reference
// ID): replays and concurrent deliveries settle on one entry.
type Adapter struct {
	journalService *appledger.JournalService
	store          shared.IdempotencyStore
	storeConfig    shared.IdempotencyConfig
	systemUserID   uuid.UUID
	logger         *zap.Logger
}

// NewAdapter creates a new auto-posting adapter. systemUserID is recorded
// as the posting user on generated entries.
func NewAdapter(
	journalService *appledger.JournalService,
	store shared.IdempotencyStore,
	storeConfig shared.IdempotencyConfig,
	systemUserID uuid.UUID,
	logger *zap.Logger,
) *Adapter {
	return &Adapter{
		journalService: journalService,
		store:          store,
		storeConfig:    storeConfig,
		systemUserID:   systemUserID,
		logger:         logger,
	}
}

// EventTypes returns the source event types the adapter subscribes to
func (a *Adapter) EventTypes() []string {
	return []string{
		EventTypeCashDonationReceived,
		EventTypeUpiPaymentReceived,
		EventTypeInKindDonationReceived,
		EventTypeSponsorshipCommitted,
		EventTypeSponsorshipPaymentReceived,
		EventTypePayrollRunCompleted,
	}
}

// Handle maps a source event onto a journal entry and posts it
func (a *Adapter) Handle(ctx context.Context, event shared.DomainEvent) error {
	p, err := a.mapEvent(event)
	if err != nil {
		return err
	}
	if p == nil {
		// not an event this adapter understands
		return nil
	}

	tenantID := event.TenantID()
	key := idempotencyKey(tenantID, p.referenceType, p.referenceID)

	if a.store != nil && a.storeConfig.Enabled {
		processed, err := a.store.IsProcessed(ctx, key)
		if err != nil {
			// the database unique constraint still protects us
			a.logger.Warn("idempotency store check failed, falling through",
				zap.String("key", key), zap.Error(err))
		} else if processed {
			a.logger.Debug("skipping already processed event", zap.String("key", key))
			return nil
		}
	}

	req := appledger.CreateJournalEntryRequest{
		EntryDate:     p.entryDate,
		Narration:     p.narration,
		ReferenceType: p.referenceType,
		ReferenceID:   p.referenceID,
		Lines: []appledger.JournalLineRequest{
			{AccountID: uuid.Nil, Debit: p.amount},
			{AccountID: uuid.Nil, Credit: p.amount},
		},
	}
	debitID, creditID, err := a.resolveAccounts(ctx, tenantID, p.debitCode, p.creditCode)
	if err != nil {
		return err
	}
	req.Lines[0].AccountID = debitID
	req.Lines[1].AccountID = creditID

	entry, created, err := a.journalService.PostIdempotent(ctx, tenantID, req, a.systemUserID)
	if err != nil {
		a.logger.Error("auto-posting failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("reference_type", p.referenceType),
			zap.String("reference_id", p.referenceID),
			zap.Error(err))
		return err
	}

	if a.store != nil && a.storeConfig.Enabled {
		if _, err := a.store.MarkProcessed(ctx, key, a.storeConfig.TTL); err != nil {
			a.logger.Warn("failed to mark event processed", zap.String("key", key), zap.Error(err))
		}
	}

	if created {
		a.logger.Info("auto-posted journal entry",
			zap.String("tenant_id", tenantID.String()),
			zap.String("entry_number", entry.EntryNumber),
			zap.String("reference_type", p.referenceType),
			zap.String("reference_id", p.referenceID))
	} else {
		a.logger.Debug("reference already posted",
			zap.String("tenant_id", tenantID.String()),
			zap.String("entry_number", entry.EntryNumber),
			zap.String("reference_id", p.referenceID))
	}

	return nil
}

// mapEvent translates a source event into a posting instruction.
// Returns nil for event types the adapter does not handle.
func (a *Adapter) mapEvent(event shared.DomainEvent) (*posting, error) {
	switch e := event.(type) {
	case *CashDonationReceivedEvent:
		creditCode := appledger.CodeGeneralDonations
		if e.Purpose == PurposeCorpus {
			creditCode = appledger.CodeCorpusFund
		}
		return validated(&posting{
			referenceType: ReferenceTypeCashDonation,
			referenceID:   e.DonationID,
			entryDate:     e.ReceivedAt,
			narration:     fmt.Sprintf("Cash donation %s", e.DonationID),
			debitCode:     appledger.CodeCashInHand,
			creditCode:    creditCode,
			amount:        e.Amount,
		})

	case *UpiPaymentReceivedEvent:
		creditCode := appledger.CodeGeneralDonations
		if e.Purpose == PurposeSeva {
			creditCode = appledger.CodeSevaIncome
		}
		return validated(&posting{
			referenceType: ReferenceTypeUpiPayment,
			referenceID:   e.PaymentID,
			entryDate:     e.ReceivedAt,
			narration:     fmt.Sprintf("UPI payment %s (UTR %s)", e.PaymentID, e.UtrNumber),
			debitCode:     appledger.CodeBankUPICollections,
			creditCode:    creditCode,
			amount:        e.Amount,
		})

	case *InKindDonationReceivedEvent:
		return validated(&posting{
			referenceType: ReferenceTypeInKindReceipt,
			referenceID:   e.ReceiptID,
			entryDate:     e.ReceivedAt,
			narration:     fmt.Sprintf("In-kind donation %s: %s", e.ReceiptID, e.Description),
			debitCode:     appledger.CodeInventoryInKind,
			creditCode:    appledger.CodeInKindDonations,
			amount:        e.EstimatedValue,
		})

	case *SponsorshipCommittedEvent:
		return validated(&posting{
			referenceType: ReferenceTypeSponsorshipCommitment,
			referenceID:   e.SponsorshipID,
			entryDate:     e.CommittedAt,
			narration:     fmt.Sprintf("Sponsorship commitment %s for %s", e.SponsorshipID, e.EventName),
			debitCode:     appledger.CodeSponsorshipReceivable,
			creditCode:    appledger.CodeSponsorshipIncome,
			amount:        e.Amount,
		})

	case *SponsorshipPaymentReceivedEvent:
		debitCode := appledger.CodeCashInHand
		if e.Mode == PaymentModeUPI {
			debitCode = appledger.CodeBankUPICollections
		}
		return validated(&posting{
			referenceType: ReferenceTypeSponsorshipPayment,
			referenceID:   e.PaymentID,
			entryDate:     e.ReceivedAt,
			narration:     fmt.Sprintf("Sponsorship payment %s against %s", e.PaymentID, e.SponsorshipID),
			debitCode:     debitCode,
			creditCode:    appledger.CodeSponsorshipReceivable,
			amount:        e.Amount,
		})

	case *PayrollRunCompletedEvent:
		return validated(&posting{
			referenceType: ReferenceTypePayrollRun,
			referenceID:   e.PayrollRunID,
			entryDate:     e.CompletedAt,
			narration:     fmt.Sprintf("Payroll accrual for %s", e.PeriodLabel),
			debitCode:     appledger.CodeSalariesWages,
			creditCode:    appledger.CodeSalariesPayable,
			amount:        e.GrossAmount,
		})
	}

	return nil, nil
}

func validated(p *posting) (*posting, error) {
	if p.referenceID == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Source event is missing its record ID")
	}
	if !p.amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Source event amount must be positive")
	}
	if p.entryDate.IsZero() {
		p.entryDate = time.Now()
	}
	return p, nil
}

func (a *Adapter) resolveAccounts(ctx context.Context, tenantID uuid.UUID, debitCode, creditCode string) (uuid.UUID, uuid.UUID, error) {
	debitID, err := a.journalService.ResolveAccountID(ctx, tenantID, debitCode)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	creditID, err := a.journalService.ResolveAccountID(ctx, tenantID, creditCode)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return debitID, creditID, nil
}

func idempotencyKey(tenantID uuid.UUID, referenceType, referenceID string) string {
	return fmt.Sprintf("autopost:%s:%s:%s", tenantID, referenceType, referenceID)
}
