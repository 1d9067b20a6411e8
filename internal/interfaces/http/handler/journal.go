package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appledger "github.com/mandir/backend/internal/application/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/mandir/backend/internal/interfaces/http/dto"
)

// JournalHandler handles journal entry API endpoints
type JournalHandler struct {
	BaseHandler
	journalService *appledger.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService *appledger.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// CreateDraft godoc
// @ID           createJournalDraft
//
//	@Summary		Create a draft journal entry
//	@Description	Create a new journal entry in DRAFT status. Drafts carry no entry number until posted.
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			request	body		appledger.CreateJournalEntryRequest	true	"Journal entry creation request"
//	@Success		201		{object}	APIResponse[appledger.JournalEntryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries [post]
func (h *JournalHandler) CreateDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appledger.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	entry, err := h.journalService.CreateDraft(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID godoc
// @ID           getJournalEntryById
//
//	@Summary		Get journal entry by ID
//	@Tags			journal
//	@Produce		json
//	@Param			id	path		string	true	"Journal entry ID"	format(uuid)
//	@Success		200	{object}	APIResponse[appledger.JournalEntryResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries/{id} [get]
func (h *JournalHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	entry, err := h.journalService.GetByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @ID           listJournalEntries
//
//	@Summary		List journal entries
//	@Description	Retrieve a paginated list of journal entries with optional filtering
//	@Tags			journal
//	@Produce		json
//	@Param			search			query		string	false	"Search term (entry number, narration)"
//	@Param			status			query		string	false	"Entry status"	Enums(DRAFT, POSTED, CANCELLED)
//	@Param			reference_type	query		string	false	"Source reference type"
//	@Param			date_from		query		string	false	"Entry date lower bound (YYYY-MM-DD)"
//	@Param			date_to			query		string	false	"Entry date upper bound (YYYY-MM-DD)"
//	@Param			page			query		int		false	"Page number"	default(1)
//	@Param			page_size		query		int		false	"Page size"		default(20)	maximum(100)
//	@Success		200				{object}	APIResponse[[]appledger.JournalEntryResponse]
//	@Failure		400				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries [get]
func (h *JournalHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.Filter{
		Page:          req.Page,
		PageSize:      req.PageSize,
		OrderBy:       req.OrderBy,
		OrderDir:      req.OrderDir,
		Search:        req.Search,
		Status:        c.Query("status"),
		ReferenceType: c.Query("reference_type"),
		DateFrom:      c.Query("date_from"),
		DateTo:        c.Query("date_to"),
	}

	page, err := h.journalService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateDraft godoc
// @ID           updateJournalDraft
//
//	@Summary		Update a draft journal entry
//	@Description	Replace the date, narration and lines of a DRAFT entry
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Journal entry ID"	format(uuid)
//	@Param			request	body		appledger.UpdateJournalEntryRequest	true	"Journal entry update request"
//	@Success		200		{object}	APIResponse[appledger.JournalEntryResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries/{id} [put]
func (h *JournalHandler) UpdateDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	var req appledger.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), tenantID, entryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// DiscardDraft godoc
// @ID           discardJournalDraft
//
//	@Summary		Discard a draft journal entry
//	@Description	Permanently delete a DRAFT entry. Posted entries can only be cancelled.
//	@Tags			journal
//	@Param			id	path	string	true	"Journal entry ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries/{id} [delete]
func (h *JournalHandler) DiscardDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	if err := h.journalService.DiscardDraft(c.Request.Context(), tenantID, entryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Post godoc
// @ID           postJournalEntry
//
//	@Summary		Post a draft journal entry
//	@Description	Validate and post a DRAFT entry. Posting assigns the next gap-free entry number.
//	@Tags			journal
//	@Produce		json
//	@Param			id	path		string	true	"Journal entry ID"	format(uuid)
//	@Success		200	{object}	APIResponse[appledger.JournalEntryResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries/{id}/post [post]
func (h *JournalHandler) Post(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	postedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required to post entries")
		return
	}

	entry, err := h.journalService.Post(c.Request.Context(), tenantID, entryID, postedBy)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Cancel godoc
// @ID           cancelJournalEntry
//
//	@Summary		Cancel a posted journal entry
//	@Description	Cancel a POSTED entry by posting a balancing reversal entry. The original rows are never mutated.
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Journal entry ID"	format(uuid)
//	@Param			request	body		appledger.CancelJournalEntryRequest	true	"Cancellation request"
//	@Success		200		{object}	APIResponse[appledger.JournalEntryResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/journal-entries/{id}/cancel [post]
func (h *JournalHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	cancelledBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required to cancel entries")
		return
	}

	var req appledger.CancelJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, err := h.journalService.Cancel(c.Request.Context(), tenantID, entryID, cancelledBy, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}
