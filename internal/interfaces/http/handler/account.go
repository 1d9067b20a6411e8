package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appledger "github.com/mandir/backend/internal/application/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/mandir/backend/internal/interfaces/http/dto"
)

// AccountHandler handles chart of accounts API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *appledger.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *appledger.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Create godoc
// @ID           createAccount
//
//	@Summary		Create a new account
//	@Description	Create a new account in the tenant's chart of accounts
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string								false	"Tenant ID (optional for dev)"
//	@Param			request		body		appledger.CreateAccountRequest		true	"Account creation request"
//	@Success		201			{object}	APIResponse[appledger.AccountResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appledger.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	account, err := h.accountService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID godoc
// @ID           getAccountById
//
//	@Summary		Get account by ID
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"	format(uuid)
//	@Success		200	{object}	APIResponse[appledger.AccountResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts/{id} [get]
func (h *AccountHandler) GetByID(c *gin.Context) {
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

	account, err := h.accountService.GetByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// List godoc
// @ID           listAccounts
//
//	@Summary		List accounts
//	@Description	Retrieve a paginated list of accounts with optional filtering
//	@Tags			accounts
//	@Produce		json
//	@Param			search		query		string	false	"Search term (code, name)"
//	@Param			type		query		string	false	"Account type"	Enums(ASSET, LIABILITY, INCOME, EXPENSE, EQUITY)
//	@Param			is_active	query		boolean	false	"Filter by active status"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Success		200			{object}	APIResponse[[]appledger.AccountResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
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
		Page:        req.Page,
		PageSize:    req.PageSize,
		OrderBy:     req.OrderBy,
		OrderDir:    req.OrderDir,
		Search:      req.Search,
		AccountType: c.Query("type"),
		IsActive:    c.Query("is_active"),
	}

	page, err := h.accountService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @ID           updateAccount
//
//	@Summary		Update an account
//	@Description	Rename or reparent an existing account
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Account ID"	format(uuid)
//	@Param			request	body		appledger.UpdateAccountRequest		true	"Account update request"
//	@Success		200		{object}	APIResponse[appledger.AccountResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
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

	var req appledger.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), tenantID, accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// Deactivate godoc
// @ID           deactivateAccount
//
//	@Summary		Deactivate an account
//	@Description	Deactivate an account so it no longer accepts postings
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"	format(uuid)
//	@Success		200	{object}	APIResponse[appledger.AccountResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c *gin.Context) {
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

	account, err := h.accountService.Deactivate(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// Reactivate godoc
// @ID           reactivateAccount
//
//	@Summary		Reactivate an account
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"	format(uuid)
//	@Success		200	{object}	APIResponse[appledger.AccountResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts/{id}/reactivate [post]
func (h *AccountHandler) Reactivate(c *gin.Context) {
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

	account, err := h.accountService.Reactivate(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// GetBalance godoc
// @ID           getAccountBalance
//
//	@Summary		Get account balance
//	@Description	Retrieve an account's balance as of a date, with the rolled-up balance of its subtree
//	@Tags			accounts
//	@Produce		json
//	@Param			id		path		string	true	"Account ID"	format(uuid)
//	@Param			as_of	query		string	false	"Report date (RFC 3339 or YYYY-MM-DD, defaults to now)"
//	@Success		200		{object}	APIResponse[appledger.BalanceResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts/{id}/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
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

	asOf, err := parseDateQuery(c, "as_of", time.Now())
	if err != nil {
		h.BadRequest(c, "Invalid as_of date format")
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), tenantID, accountID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}

// GetHierarchy godoc
// @ID           getAccountHierarchy
//
//	@Summary		Get the chart of accounts hierarchy
//	@Description	Retrieve the account tree with balances rolled up from leaves to roots
//	@Tags			accounts
//	@Produce		json
//	@Param			as_of	query		string	false	"Report date (RFC 3339 or YYYY-MM-DD, defaults to now)"
//	@Success		200		{object}	APIResponse[[]ledger.HierarchyNode]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/ledger/accounts/hierarchy [get]
func (h *AccountHandler) GetHierarchy(c *gin.Context) {
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

	nodes, err := h.accountService.GetHierarchy(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, nodes)
}

// parseDateQuery parses a date query parameter, accepting RFC 3339 or
// plain dates. Returns the fallback when the parameter is absent.
func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
