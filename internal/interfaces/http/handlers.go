package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/application/service"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"github.com/faisalr/propdesk/internal/domain/lifecycle"
)

// dateLayout is the calendar-date format used on the wire
const dateLayout = "2006-01-02"

// maxScanSize caps cheque scan uploads at 10 MiB
const maxScanSize = 10 << 20

// Handlers contains all HTTP request handlers
type Handlers struct {
	chequeService    service.ChequeService
	lifecycleService service.LifecycleService
	bulkService      service.BulkService
	chainService     service.ChainService
	linkageService   service.LinkageService
	dashboardService service.DashboardService
	logger           Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	chequeService service.ChequeService,
	lifecycleService service.LifecycleService,
	bulkService service.BulkService,
	chainService service.ChainService,
	linkageService service.LinkageService,
	dashboardService service.DashboardService,
	logger Logger,
) *Handlers {
	return &Handlers{
		chequeService:    chequeService,
		lifecycleService: lifecycleService,
		bulkService:      bulkService,
		chainService:     chainService,
		linkageService:   linkageService,
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ChequeResponse represents a cheque in API responses
type ChequeResponse struct {
	ID               int64   `json:"id"`
	TenantID         int64   `json:"tenant_id"`
	InvoiceID        *int64  `json:"invoice_id,omitempty"`
	ChequeNumber     string  `json:"cheque_number"`
	BankName         string  `json:"bank_name"`
	Amount           float64 `json:"amount"`
	ChequeDate       string  `json:"cheque_date"`
	Status           string  `json:"status"`
	DepositDate      *string `json:"deposit_date,omitempty"`
	BankReference    string  `json:"bank_reference,omitempty"`
	ClearanceDate    *string `json:"clearance_date,omitempty"`
	BounceDate       *string `json:"bounce_date,omitempty"`
	BounceReason     string  `json:"bounce_reason,omitempty"`
	WithdrawalDate   *string `json:"withdrawal_date,omitempty"`
	WithdrawalReason string  `json:"withdrawal_reason,omitempty"`
	CancelNote       string  `json:"cancel_note,omitempty"`
	PredecessorID    *int64  `json:"predecessor_id,omitempty"`
	SuccessorID      *int64  `json:"successor_id,omitempty"`
	ScanPath         string  `json:"scan_path,omitempty"`
	Revision         int64   `json:"revision"`
	CreatedBy        string  `json:"created_by"`
	UpdatedBy        string  `json:"updated_by"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// EventResponse represents one audit trail entry in API responses
type EventResponse struct {
	ID         int64  `json:"id"`
	ChequeID   int64  `json:"cheque_id"`
	Action     string `json:"action"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
	Actor      string `json:"actor"`
	Note       string `json:"note,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// RegisterChequeRequest is the intake payload for one cheque
type RegisterChequeRequest struct {
	TenantID     int64   `json:"tenant_id"`
	InvoiceID    *int64  `json:"invoice_id"`
	ChequeNumber string  `json:"cheque_number"`
	BankName     string  `json:"bank_name"`
	Amount       float64 `json:"amount"`
	ChequeDate   string  `json:"cheque_date"`
}

// BulkEntryRequest is one cheque inside a bulk intake payload
type BulkEntryRequest struct {
	ChequeNumber string  `json:"cheque_number"`
	BankName     string  `json:"bank_name"`
	Amount       float64 `json:"amount"`
	ChequeDate   string  `json:"cheque_date"`
	InvoiceID    *int64  `json:"invoice_id"`
}

// BulkRegisterRequest is the bulk intake payload for one tenant
type BulkRegisterRequest struct {
	TenantID int64              `json:"tenant_id"`
	Entries  []BulkEntryRequest `json:"entries"`
}

// DepositRequest records the hand-off of a cheque to the bank
type DepositRequest struct {
	ExpectedRevision int64  `json:"expected_revision"`
	DepositDate      string `json:"deposit_date"`
	BankReference    string `json:"bank_reference"`
}

// ClearRequest records the bank honoring a deposited cheque
type ClearRequest struct {
	ExpectedRevision int64  `json:"expected_revision"`
	ClearanceDate    string `json:"clearance_date"`
}

// BounceRequest records the bank refusing a deposited cheque
type BounceRequest struct {
	ExpectedRevision int64  `json:"expected_revision"`
	BounceDate       string `json:"bounce_date"`
	Reason           string `json:"reason"`
}

// ReplaceRequest registers a successor for a bounced cheque
type ReplaceRequest struct {
	ExpectedRevision int64   `json:"expected_revision"`
	ChequeNumber     string  `json:"cheque_number"`
	ChequeDate       string  `json:"cheque_date"`
	Amount           float64 `json:"amount"`
	BankName         string  `json:"bank_name"`
	InvoiceID        *int64  `json:"invoice_id"`
}

// WithdrawRequest returns a cheque to the tenant
type WithdrawRequest struct {
	ExpectedRevision int64  `json:"expected_revision"`
	Reason           string `json:"reason"`
}

// CancelRequest voids an erroneous cheque record
type CancelRequest struct {
	ExpectedRevision int64  `json:"expected_revision"`
	Note             string `json:"note"`
}

// ReplaceResponse pairs the retired cheque with its successor
type ReplaceResponse struct {
	Replaced    ChequeResponse `json:"replaced"`
	Replacement ChequeResponse `json:"replacement"`
}

// ScanResponse reports the archived scan location
type ScanResponse struct {
	ChequeID int64  `json:"cheque_id"`
	ScanPath string `json:"scan_path"`
}

// DuplicateResponse reports the duplicate probe result
type DuplicateResponse struct {
	TenantID     int64  `json:"tenant_id"`
	ChequeNumber string `json:"cheque_number"`
	Exists       bool   `json:"exists"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// RegisterCheque handles POST /api/pdcs
func (h *Handlers) RegisterCheque(c *gin.Context) {
	var req RegisterChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	chequeDate, ok := h.parseDate(c, "cheque_date", req.ChequeDate)
	if !ok {
		return
	}

	cheque, err := h.chequeService.Register(c.Request.Context(), actor(c), service.ChequeInput{
		TenantID:     req.TenantID,
		InvoiceID:    req.InvoiceID,
		ChequeNumber: req.ChequeNumber,
		BankName:     req.BankName,
		Amount:       req.Amount,
		ChequeDate:   chequeDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toChequeResponse(cheque)})
}

// ListCheques handles GET /api/pdcs
func (h *Handlers) ListCheques(c *gin.Context) {
	filter := service.ListFilter{
		Status:   c.Query("status"),
		BankName: c.Query("bank"),
	}

	if v := c.Query("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.badRequest(c, "invalid tenant_id")
			return
		}
		filter.TenantID = &id
	}
	if v := c.Query("invoice_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.badRequest(c, "invalid invoice_id")
			return
		}
		filter.InvoiceID = &id
	}
	if v := c.Query("date_from"); v != "" {
		from, ok := h.parseDate(c, "date_from", v)
		if !ok {
			return
		}
		filter.DateFrom = &from
	}
	if v := c.Query("date_to"); v != "" {
		to, ok := h.parseDate(c, "date_to", v)
		if !ok {
			return
		}
		filter.DateTo = &to
	}

	filter.Limit = 50
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			h.badRequest(c, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			h.badRequest(c, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	cheques, err := h.chequeService.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponses(cheques)})
}

// GetCheque handles GET /api/pdcs/:id
func (h *Handlers) GetCheque(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	cheque, err := h.chequeService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponse(cheque)})
}

// GetChequeEvents handles GET /api/pdcs/:id/events
func (h *Handlers) GetChequeEvents(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	events, err := h.chequeService.Events(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, EventResponse{
			ID:         event.ID,
			ChequeID:   event.ChequeID,
			Action:     event.Action,
			FromStatus: event.FromStatus,
			ToStatus:   event.ToStatus,
			Actor:      event.Actor,
			Note:       event.Note,
			CreatedAt:  event.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// GetChequeChain handles GET /api/pdcs/:id/chain
func (h *Handlers) GetChequeChain(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	chain, err := h.chainService.Chain(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponses(chain)})
}

// CheckDuplicate handles GET /api/pdcs/check-duplicate. Both camelCase and
// snake_case query spellings are accepted; clients send both.
func (h *Handlers) CheckDuplicate(c *gin.Context) {
	tenantParam := c.Query("tenantId")
	if tenantParam == "" {
		tenantParam = c.Query("tenant_id")
	}
	tenantID, err := strconv.ParseInt(tenantParam, 10, 64)
	if err != nil {
		h.badRequest(c, "invalid tenantId")
		return
	}
	chequeNumber := c.Query("chequeNumber")
	if chequeNumber == "" {
		chequeNumber = c.Query("cheque_number")
	}

	exists, err := h.chequeService.CheckDuplicate(c.Request.Context(), tenantID, chequeNumber)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: DuplicateResponse{
		TenantID:     tenantID,
		ChequeNumber: chequeNumber,
		Exists:       exists,
	}})
}

// ListWithdrawals handles GET /api/pdcs/withdrawals
func (h *Handlers) ListWithdrawals(c *gin.Context) {
	cheques, err := h.chequeService.Withdrawals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponses(cheques)})
}

// Dashboard handles GET /api/pdcs/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

// BulkRegister handles POST /api/pdcs/bulk
func (h *Handlers) BulkRegister(c *gin.Context) {
	var req BulkRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	entries := make([]service.BulkEntry, 0, len(req.Entries))
	for i, entry := range req.Entries {
		chequeDate, err := time.Parse(dateLayout, entry.ChequeDate)
		if err != nil {
			h.badRequest(c, "entry "+strconv.Itoa(i+1)+": invalid cheque_date")
			return
		}
		entries = append(entries, service.BulkEntry{
			ChequeNumber: entry.ChequeNumber,
			BankName:     entry.BankName,
			Amount:       entry.Amount,
			ChequeDate:   chequeDate,
			InvoiceID:    entry.InvoiceID,
		})
	}

	cheques, err := h.bulkService.RegisterBatch(c.Request.Context(), actor(c), req.TenantID, entries)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toChequeResponses(cheques)})
}

// BulkImport handles POST /api/pdcs/bulk/import
func (h *Handlers) BulkImport(c *gin.Context) {
	tenantID, err := strconv.ParseInt(c.Query("tenant_id"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid tenant_id")
		return
	}

	file, _, err := c.Request.FormFile("workbook")
	if err != nil {
		h.badRequest(c, "workbook file is required")
		return
	}
	defer file.Close()

	cheques, err := h.bulkService.ImportWorkbook(c.Request.Context(), actor(c), tenantID, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toChequeResponses(cheques)})
}

// Deposit handles POST /api/pdcs/:id/deposit
func (h *Handlers) Deposit(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	depositDate, ok := h.parseDate(c, "deposit_date", req.DepositDate)
	if !ok {
		return
	}

	cheque, err := h.lifecycleService.Deposit(c.Request.Context(), actor(c), id, req.ExpectedRevision,
		service.DepositInput{DepositDate: depositDate, BankReference: req.BankReference})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponse(cheque)})
}

// Clear handles POST /api/pdcs/:id/clear
func (h *Handlers) Clear(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}
	var req ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	var input service.ClearInput
	if req.ClearanceDate != "" {
		clearanceDate, ok := h.parseDate(c, "clearance_date", req.ClearanceDate)
		if !ok {
			return
		}
		input.ClearanceDate = clearanceDate
	}

	cheque, err := h.lifecycleService.Clear(c.Request.Context(), actor(c), id, req.ExpectedRevision, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponse(cheque)})
}

// Bounce handles POST /api/pdcs/:id/bounce
func (h *Handlers) Bounce(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}
	var req BounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	input := service.BounceInput{Reason: req.Reason}
	if req.BounceDate != "" {
		bounceDate, ok := h.parseDate(c, "bounce_date", req.BounceDate)
		if !ok {
			return
		}
		input.BounceDate = bounceDate
	}

	cheque, err := h.lifecycleService.Bounce(c.Request.Context(), actor(c), id, req.ExpectedRevision, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponse(cheque)})
}

// Replace handles POST /api/pdcs/:id/replace
func (h *Handlers) Replace(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}
	var req ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	chequeDate, ok := h.parseDate(c, "cheque_date", req.ChequeDate)
	if !ok {
		return
	}

	result, err := h.lifecycleService.Replace(c.Request.Context(), actor(c), id, req.ExpectedRevision,
		service.ReplaceInput{
			ChequeNumber: req.ChequeNumber,
			ChequeDate:   chequeDate,
			Amount:       req.Amount,
			BankName:     req.BankName,
			InvoiceID:    req.InvoiceID,
		})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: ReplaceResponse{
		Replaced:    toChequeResponse(result.Replaced),
		Replacement: toChequeResponse(result.Replacement),
	}})
}

// Withdraw handles POST /api/pdcs/:id/withdraw
func (h *Handlers) Withdraw(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	cheque, err := h.lifecycleService.Withdraw(c.Request.Context(), actor(c), id, req.ExpectedRevision, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponse(cheque)})
}

// Cancel handles POST /api/pdcs/:id/cancel
func (h *Handlers) Cancel(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	cheque, err := h.lifecycleService.Cancel(c.Request.Context(), actor(c), id, req.ExpectedRevision, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponse(cheque)})
}

// AttachScan handles POST /api/pdcs/:id/scan
func (h *Handlers) AttachScan(c *gin.Context) {
	id, ok := h.chequeID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("scan")
	if err != nil {
		h.badRequest(c, "scan file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxScanSize+1))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(content) > maxScanSize {
		h.badRequest(c, "scan file exceeds 10 MiB")
		return
	}

	scanPath, err := h.chequeService.AttachScan(c.Request.Context(), actor(c), id, header.Filename, content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ScanResponse{
		ChequeID: id,
		ScanPath: scanPath,
	}})
}

// TenantCheques handles GET /api/pdcs/tenant/:id
func (h *Handlers) TenantCheques(c *gin.Context) {
	id, ok := h.pathID(c, "invalid tenant ID")
	if !ok {
		return
	}

	cheques, err := h.linkageService.TenantCheques(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponses(cheques)})
}

// TenantHistory handles GET /api/pdcs/tenant/:id/history
func (h *Handlers) TenantHistory(c *gin.Context) {
	id, ok := h.pathID(c, "invalid tenant ID")
	if !ok {
		return
	}

	ledger, err := h.linkageService.TenantLedger(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ledger})
}

// InvoiceCheques handles GET /api/pdcs/invoice/:id
func (h *Handlers) InvoiceCheques(c *gin.Context) {
	id, ok := h.pathID(c, "invalid invoice ID")
	if !ok {
		return
	}

	cheques, err := h.linkageService.InvoiceCheques(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toChequeResponses(cheques)})
}

// InvoiceCoverage handles GET /api/pdcs/invoice/:id/coverage
func (h *Handlers) InvoiceCoverage(c *gin.Context) {
	id, ok := h.pathID(c, "invalid invoice ID")
	if !ok {
		return
	}

	coverage, err := h.linkageService.InvoiceCoverage(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: coverage})
}

// chequeID parses the :id path parameter
func (h *Handlers) chequeID(c *gin.Context) (int64, bool) {
	return h.pathID(c, "invalid cheque ID")
}

func (h *Handlers) pathID(c *gin.Context, errMsg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, errMsg)
		return 0, false
	}
	return id, true
}

// parseDate parses a calendar date field, responding 400 on failure
func (h *Handlers) parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		h.badRequest(c, "invalid "+field+", expected "+dateLayout)
		return time.Time{}, false
	}
	return parsed, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps service errors onto HTTP statuses. Validation failures
// are the caller's fault, refused transitions and lost races are conflicts,
// chain corruption is an internal integrity failure.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, lifecycle.ErrUnknownStatus):
		status = http.StatusConflict
	case errors.Is(err, service.ErrConcurrencyConflict):
		status = http.StatusConflict
	default:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		status = http.StatusInternalServerError
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// toChequeResponse converts domain entity to API response
func toChequeResponse(cheque *entity.Cheque) ChequeResponse {
	resp := ChequeResponse{
		ID:               cheque.ID,
		TenantID:         cheque.TenantID,
		InvoiceID:        cheque.InvoiceID,
		ChequeNumber:     cheque.ChequeNumber,
		BankName:         cheque.BankName,
		Amount:           cheque.Amount,
		ChequeDate:       cheque.ChequeDate.Format(dateLayout),
		Status:           cheque.Status,
		BankReference:    cheque.BankReference,
		BounceReason:     cheque.BounceReason,
		WithdrawalReason: cheque.WithdrawalReason,
		CancelNote:       cheque.CancelNote,
		PredecessorID:    cheque.PredecessorID,
		SuccessorID:      cheque.SuccessorID,
		ScanPath:         cheque.ScanPath,
		Revision:         cheque.Revision,
		CreatedBy:        cheque.CreatedBy,
		UpdatedBy:        cheque.UpdatedBy,
		CreatedAt:        cheque.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        cheque.UpdatedAt.Format(time.RFC3339),
	}

	resp.DepositDate = formatDate(cheque.DepositDate)
	resp.ClearanceDate = formatDate(cheque.ClearanceDate)
	resp.BounceDate = formatDate(cheque.BounceDate)
	resp.WithdrawalDate = formatDate(cheque.WithdrawalDate)
	return resp
}

func toChequeResponses(cheques []*entity.Cheque) []ChequeResponse {
	responses := make([]ChequeResponse, 0, len(cheques))
	for _, cheque := range cheques {
		responses = append(responses, toChequeResponse(cheque))
	}
	return responses
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}
