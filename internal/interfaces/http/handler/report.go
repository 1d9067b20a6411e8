package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appledger "github.com/mandir/backend/internal/application/ledger"
)

// ReportHandler handles ledger reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *appledger.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *appledger.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// TrialBalance godoc
// @ID           getTrialBalance
//
//	@Summary		Get the trial balance
//	@Description	Per-account debit and credit totals over POSTED entries up to the report date. Grand totals always match.
//	@Tags			reports
//	@Produce		json
//	@Param			as_of	query		string	false	"Report date (RFC 3339 or YYYY-MM-DD, defaults to now)"
//	@Success		200		{object}	APIResponse[ledger.TrialBalance]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/reports/trial-balance [get]
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	asOf, err := parseDateQuery(c, "as_of", time.Now())
	if err != nil {
		h.BadRequest(c, "Invalid as_of date format")
		return
	}

	report, err := h.reportService.TrialBalance(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// AccountLedger godoc
// @ID           getAccountLedger
//
//	@Summary		Get an account's ledger statement
//	@Description	Posted lines for one account over a date range, with opening balance and running balances
//	@Tags			reports
//	@Produce		json
//	@Param			id		path		string	true	"Account ID"	format(uuid)
//	@Param			from	query		string	true	"Range start (RFC 3339 or YYYY-MM-DD)"
//	@Param			to		query		string	false	"Range end (RFC 3339 or YYYY-MM-DD, defaults to now)"
//	@Success		200		{object}	APIResponse[ledger.AccountLedger]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/reports/accounts/{id}/ledger [get]
func (h *ReportHandler) AccountLedger(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	if c.Query("from") == "" {
		h.BadRequest(c, "The from date is required")
		return
	}
	from, err := parseDateQuery(c, "from", time.Time{})
	if err != nil {
		h.BadRequest(c, "Invalid from date format")
		return
	}
	to, err := parseDateQuery(c, "to", time.Now())
	if err != nil {
		h.BadRequest(c, "Invalid to date format")
		return
	}
	if to.Before(from) {
		h.BadRequest(c, "The to date must not precede the from date")
		return
	}

	statement, err := h.reportService.AccountLedger(c.Request.Context(), tenantID, accountID, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}
