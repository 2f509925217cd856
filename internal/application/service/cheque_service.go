package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"github.com/faisalr/propdesk/internal/domain/lifecycle"
	"github.com/faisalr/propdesk/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ScanInspector validates an uploaded cheque scan and renders a thumbnail
type ScanInspector interface {
	Inspect(filename string, content []byte) (pages int, thumbnail []byte, err error)
}

// ChequeInput carries the fields of one cheque at intake
type ChequeInput struct {
	TenantID     int64
	InvoiceID    *int64
	ChequeNumber string
	BankName     string
	Amount       float64
	ChequeDate   time.Time
}

// ListFilter narrows the cheque listing endpoint
type ListFilter struct {
	TenantID  *int64
	InvoiceID *int64
	Status    string
	BankName  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// ChequeService manages cheque registration and read access
type ChequeService interface {
	Register(ctx context.Context, actor string, input ChequeInput) (*entity.Cheque, error)
	Get(ctx context.Context, id int64) (*entity.Cheque, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Cheque, error)
	CheckDuplicate(ctx context.Context, tenantID int64, chequeNumber string) (bool, error)
	Withdrawals(ctx context.Context) ([]*entity.Cheque, error)
	Events(ctx context.Context, chequeID int64) ([]*entity.ChequeEvent, error)
	AttachScan(ctx context.Context, actor string, chequeID int64, filename string, content []byte) (string, error)
}

type chequeServiceImpl struct {
	chequeRepo port.ChequeRepository
	eventRepo  port.EventRepository
	txManager  port.TransactionManager
	tenantDir  port.TenantDirectory
	invoiceDir port.InvoiceDirectory
	inspector  ScanInspector
	storage    port.FileStorage
	logger     Logger
}

// NewChequeService creates a new ChequeService
func NewChequeService(
	chequeRepo port.ChequeRepository,
	eventRepo port.EventRepository,
	txManager port.TransactionManager,
	tenantDir port.TenantDirectory,
	invoiceDir port.InvoiceDirectory,
	inspector ScanInspector,
	storage port.FileStorage,
	logger Logger,
) ChequeService {
	return &chequeServiceImpl{
		chequeRepo: chequeRepo,
		eventRepo:  eventRepo,
		txManager:  txManager,
		tenantDir:  tenantDir,
		invoiceDir: invoiceDir,
		inspector:  inspector,
		storage:    storage,
		logger:     logger,
	}
}

// validateInput checks one intake entry independent of storage state
func validateInput(input ChequeInput) error {
	if input.TenantID <= 0 {
		return validationf("tenant_id is required")
	}
	if err := utils.ValidateChequeNumber(input.ChequeNumber); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err := utils.ValidateAmount(input.Amount); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if strings.TrimSpace(input.BankName) == "" {
		return validationf("bank_name is required")
	}
	if input.ChequeDate.IsZero() {
		return validationf("cheque_date is required")
	}
	return nil
}

// intakeStatus picks the initial status: cheques logged before their written
// date starts are RECEIVED, everything else enters as DUE
func intakeStatus(chequeDate, now time.Time) string {
	wy, wm, wd := chequeDate.Date()
	ty, tm, td := now.Date()
	written := time.Date(wy, wm, wd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	if written.After(today) {
		return entity.StatusReceived
	}
	return entity.StatusDue
}

// resolveInvoice validates the optional invoice linkage against the invoice service
func (s *chequeServiceImpl) resolveInvoice(ctx context.Context, tenantID int64, invoiceID *int64) error {
	if invoiceID == nil {
		return nil
	}
	invoice, err := s.invoiceDir.GetInvoice(ctx, *invoiceID)
	if err != nil {
		return fmt.Errorf("invoice %d: %w", *invoiceID, err)
	}
	if invoice.TenantID != tenantID {
		return validationf("invoice %d belongs to tenant %d, not %d", *invoiceID, invoice.TenantID, tenantID)
	}
	return nil
}

// Register creates one cheque with status DUE (or RECEIVED when pre-due)
func (s *chequeServiceImpl) Register(ctx context.Context, actor string, input ChequeInput) (*entity.Cheque, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.tenantDir.GetTenant(ctx, input.TenantID); err != nil {
		return nil, fmt.Errorf("tenant %d: %w", input.TenantID, err)
	}
	if err := s.resolveInvoice(ctx, input.TenantID, input.InvoiceID); err != nil {
		return nil, err
	}

	exists, err := s.chequeRepo.NumberExists(ctx, input.TenantID, input.ChequeNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already registered for tenant %d",
			ErrDuplicateCheque, input.ChequeNumber, input.TenantID)
	}

	now := time.Now()
	cheque := &entity.Cheque{
		TenantID:     input.TenantID,
		InvoiceID:    input.InvoiceID,
		ChequeNumber: input.ChequeNumber,
		BankName:     strings.TrimSpace(input.BankName),
		Amount:       input.Amount,
		ChequeDate:   input.ChequeDate,
		Status:       intakeStatus(input.ChequeDate, now),
		Revision:     1,
		CreatedBy:    actor,
		UpdatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.chequeRepo.Create(txCtx, cheque); err != nil {
			return fmt.Errorf("create cheque: %w", err)
		}
		event := &entity.ChequeEvent{
			ChequeID:   cheque.ID,
			Action:     entity.EventRegister,
			FromStatus: "",
			ToStatus:   cheque.Status,
			Actor:      actor,
			CreatedAt:  now,
		}
		if err := s.eventRepo.Create(txCtx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to register cheque", "error", err,
			"tenant_id", input.TenantID, "cheque_number", input.ChequeNumber)
		return nil, err
	}

	s.logger.Info("Cheque registered", "id", cheque.ID,
		"tenant_id", cheque.TenantID, "cheque_number", cheque.ChequeNumber,
		"status", cheque.Status)
	return cheque, nil
}

// Get retrieves a cheque by ID
func (s *chequeServiceImpl) Get(ctx context.Context, id int64) (*entity.Cheque, error) {
	cheque, err := s.chequeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cheque, nil
}

// List retrieves cheques matching the filter
func (s *chequeServiceImpl) List(ctx context.Context, filter ListFilter) ([]*entity.Cheque, error) {
	if filter.Status != "" && !lifecycle.Status(filter.Status).IsValid() {
		return nil, validationf("unknown status filter %q", filter.Status)
	}
	return s.chequeRepo.List(ctx, port.ChequeFilter{
		TenantID:  filter.TenantID,
		InvoiceID: filter.InvoiceID,
		Status:    filter.Status,
		BankName:  filter.BankName,
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
}

// CheckDuplicate is the pre-submission duplicate probe
func (s *chequeServiceImpl) CheckDuplicate(ctx context.Context, tenantID int64, chequeNumber string) (bool, error) {
	if tenantID <= 0 {
		return false, validationf("tenant_id is required")
	}
	if strings.TrimSpace(chequeNumber) == "" {
		return false, validationf("cheque_number is required")
	}
	return s.chequeRepo.NumberExists(ctx, tenantID, chequeNumber)
}

// Withdrawals lists cheques returned to tenants
func (s *chequeServiceImpl) Withdrawals(ctx context.Context) ([]*entity.Cheque, error) {
	return s.chequeRepo.ListByStatus(ctx, entity.StatusWithdrawn)
}

// Events returns the audit trail of a cheque, oldest first
func (s *chequeServiceImpl) Events(ctx context.Context, chequeID int64) ([]*entity.ChequeEvent, error) {
	if _, err := s.chequeRepo.GetByID(ctx, chequeID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByCheque(ctx, chequeID)
}

// AttachScan archives the scanned instrument and a rendered thumbnail.
// Scans are audit metadata, so attaching one is allowed in any status.
func (s *chequeServiceImpl) AttachScan(ctx context.Context, actor string, chequeID int64, filename string, content []byte) (string, error) {
	cheque, err := s.chequeRepo.GetByID(ctx, chequeID)
	if err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", validationf("scan file is empty")
	}

	pages, thumbnail, err := s.inspector.Inspect(filename, content)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	ext := strings.ToLower(path.Ext(filename))
	scanPath := fmt.Sprintf("cheques/%d/scan%s", chequeID, ext)
	thumbPath := fmt.Sprintf("cheques/%d/thumbnail.jpg", chequeID)

	if err := s.storage.Save(ctx, scanPath, content); err != nil {
		return "", fmt.Errorf("store scan: %w", err)
	}
	if err := s.storage.Save(ctx, thumbPath, thumbnail); err != nil {
		return "", fmt.Errorf("store thumbnail: %w", err)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.chequeRepo.SetScanPath(txCtx, chequeID, scanPath, actor); err != nil {
			return err
		}
		event := &entity.ChequeEvent{
			ChequeID:   chequeID,
			Action:     entity.EventScan,
			FromStatus: cheque.Status,
			ToStatus:   cheque.Status,
			Actor:      actor,
			Note:       fmt.Sprintf("%d page(s) archived", pages),
			CreatedAt:  time.Now(),
		}
		return s.eventRepo.Create(txCtx, event)
	})
	if err != nil {
		s.logger.Error("Failed to record scan", "error", err, "cheque_id", chequeID)
		return "", err
	}

	s.logger.Info("Cheque scan archived", "cheque_id", chequeID,
		"path", scanPath, "pages", pages)
	return scanPath, nil
}
