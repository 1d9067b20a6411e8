package autopost

import (
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Source event type names the adapter subscribes to
const (
	EventTypeCashDonationReceived       = "CashDonationReceived"
	EventTypeUpiPaymentReceived         = "UpiPaymentReceived"
	EventTypeInKindDonationReceived     = "InKindDonationReceived"
	EventTypeSponsorshipCommitted       = "SponsorshipCommitted"
	EventTypeSponsorshipPaymentReceived = "SponsorshipPaymentReceived"
	EventTypePayrollRunCompleted        = "PayrollRunCompleted"
)

// Reference types recorded on auto-posted entries. Together with the
// source record ID they form the idempotency key.
const (
	ReferenceTypeCashDonation          = "cash_donation"
	ReferenceTypeUpiPayment            = "upi_payment"
	ReferenceTypeInKindReceipt         = "in_kind_receipt"
	ReferenceTypeSponsorshipCommitment = "sponsorship_commitment"
	ReferenceTypeSponsorshipPayment    = "sponsorship_payment"
	ReferenceTypePayrollRun            = "payroll_run"
)

// Donation purposes that change which income account is credited
const (
	PurposeGeneral = "GENERAL"
	PurposeCorpus  = "CORPUS"
	PurposeSeva    = "SEVA"
)

// Payment modes for sponsorship settlements
const (
	PaymentModeCash = "CASH"
	PaymentModeUPI  = "UPI"
)

// CashDonationReceivedEvent signals a counter or hundi cash donation
type CashDonationReceivedEvent struct {
	shared.BaseDomainEvent
	DonationID string          `json:"donation_id"`
	Amount     decimal.Decimal `json:"amount"`
	DonorName  string          `json:"donor_name,omitempty"`
	Purpose    string          `json:"purpose"`
	ReceivedAt time.Time       `json:"received_at"`
}

// EventType returns the event type name
func (e *CashDonationReceivedEvent) EventType() string {
	return EventTypeCashDonationReceived
}

// NewCashDonationReceivedEvent creates a new CashDonationReceivedEvent
func NewCashDonationReceivedEvent(tenantID uuid.UUID, donationID string, amount decimal.Decimal, donorName, purpose string, receivedAt time.Time) *CashDonationReceivedEvent {
	return &CashDonationReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashDonationReceived, "Donation", uuid.New(), tenantID),
		DonationID:      donationID,
		Amount:          amount,
		DonorName:       donorName,
		Purpose:         purpose,
		ReceivedAt:      receivedAt,
	}
}

// UpiPaymentReceivedEvent signals a settled UPI collection
type UpiPaymentReceivedEvent struct {
	shared.BaseDomainEvent
	PaymentID  string          `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	UtrNumber  string          `json:"utr_number"`
	Purpose    string          `json:"purpose"`
	ReceivedAt time.Time       `json:"received_at"`
}

// EventType returns the event type name
func (e *UpiPaymentReceivedEvent) EventType() string {
	return EventTypeUpiPaymentReceived
}

// NewUpiPaymentReceivedEvent creates a new UpiPaymentReceivedEvent
func NewUpiPaymentReceivedEvent(tenantID uuid.UUID, paymentID string, amount decimal.Decimal, utrNumber, purpose string, receivedAt time.Time) *UpiPaymentReceivedEvent {
	return &UpiPaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUpiPaymentReceived, "Payment", uuid.New(), tenantID),
		PaymentID:       paymentID,
		Amount:          amount,
		UtrNumber:       utrNumber,
		Purpose:         purpose,
		ReceivedAt:      receivedAt,
	}
}

// InKindDonationReceivedEvent signals a goods receipt valued in rupees
type InKindDonationReceivedEvent struct {
	shared.BaseDomainEvent
	ReceiptID      string          `json:"receipt_id"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Description    string          `json:"description"`
	ReceivedAt     time.Time       `json:"received_at"`
}

// EventType returns the event type name
func (e *InKindDonationReceivedEvent) EventType() string {
	return EventTypeInKindDonationReceived
}

// NewInKindDonationReceivedEvent creates a new InKindDonationReceivedEvent
func NewInKindDonationReceivedEvent(tenantID uuid.UUID, receiptID string, estimatedValue decimal.Decimal, description string, receivedAt time.Time) *InKindDonationReceivedEvent {
	return &InKindDonationReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInKindDonationReceived, "InKindReceipt", uuid.New(), tenantID),
		ReceiptID:       receiptID,
		EstimatedValue:  estimatedValue,
		Description:     description,
		ReceivedAt:      receivedAt,
	}
}

// SponsorshipCommittedEvent signals a signed sponsorship commitment.
// Income is recognised on commitment against a receivable.
type SponsorshipCommittedEvent struct {
	shared.BaseDomainEvent
	SponsorshipID string          `json:"sponsorship_id"`
	Amount        decimal.Decimal `json:"amount"`
	SponsorName   string          `json:"sponsor_name"`
	EventName     string          `json:"event_name"`
	CommittedAt   time.Time       `json:"committed_at"`
}

// EventType returns the event type name
func (e *SponsorshipCommittedEvent) EventType() string {
	return EventTypeSponsorshipCommitted
}

// NewSponsorshipCommittedEvent creates a new SponsorshipCommittedEvent
func NewSponsorshipCommittedEvent(tenantID uuid.UUID, sponsorshipID string, amount decimal.Decimal, sponsorName, eventName string, committedAt time.Time) *SponsorshipCommittedEvent {
	return &SponsorshipCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSponsorshipCommitted, "Sponsorship", uuid.New(), tenantID),
		SponsorshipID:   sponsorshipID,
		Amount:          amount,
		SponsorName:     sponsorName,
		EventName:       eventName,
		CommittedAt:     committedAt,
	}
}

// SponsorshipPaymentReceivedEvent signals a payment against a commitment
type SponsorshipPaymentReceivedEvent struct {
	shared.BaseDomainEvent
	SponsorshipID string          `json:"sponsorship_id"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          string          `json:"mode"`
	ReceivedAt    time.Time       `json:"received_at"`
}

// EventType returns the event type name
func (e *SponsorshipPaymentReceivedEvent) EventType() string {
	return EventTypeSponsorshipPaymentReceived
}

// NewSponsorshipPaymentReceivedEvent creates a new SponsorshipPaymentReceivedEvent
func NewSponsorshipPaymentReceivedEvent(tenantID uuid.UUID, sponsorshipID, paymentID string, amount decimal.Decimal, mode string, receivedAt time.Time) *SponsorshipPaymentReceivedEvent {
	return &SponsorshipPaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSponsorshipPaymentReceived, "Sponsorship", uuid.New(), tenantID),
		SponsorshipID:   sponsorshipID,
		PaymentID:       paymentID,
		Amount:          amount,
		Mode:            mode,
		ReceivedAt:      receivedAt,
	}
}

// PayrollRunCompletedEvent signals an approved monthly payroll run.
// The expense accrues against a payable until salaries are disbursed.
type PayrollRunCompletedEvent struct {
	shared.BaseDomainEvent
	PayrollRunID string          `json:"payroll_run_id"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	PeriodLabel  string          `json:"period_label"`
	CompletedAt  time.Time       `json:"completed_at"`
}

// EventType returns the event type name
func (e *PayrollRunCompletedEvent) EventType() string {
	return EventTypePayrollRunCompleted
}

// NewPayrollRunCompletedEvent creates a new PayrollRunCompletedEvent
func NewPayrollRunCompletedEvent(tenantID uuid.UUID, payrollRunID string, grossAmount decimal.Decimal, periodLabel string, completedAt time.Time) *PayrollRunCompletedEvent {
	return &PayrollRunCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayrollRunCompleted, "PayrollRun", uuid.New(), tenantID),
		PayrollRunID:    payrollRunID,
		GrossAmount:     grossAmount,
		PeriodLabel:     periodLabel,
		CompletedAt:     completedAt,
	}
}
