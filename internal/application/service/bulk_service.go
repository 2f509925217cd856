package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

// MaxBatchSize caps one bulk intake: the back office registers at most a
// year's worth of monthly cheques plus a deposit cheque or two in one sitting.
const MaxBatchSize = 24

// chequeDateLayout is the date format accepted in bulk workbooks
const chequeDateLayout = "2006-01-02"

// BulkEntry is one cheque inside a bulk intake for a single tenant
type BulkEntry struct {
	ChequeNumber string
	BankName     string
	Amount       float64
	ChequeDate   time.Time
	InvoiceID    *int64
}

// BulkService validates and atomically commits bulk cheque intake
type BulkService interface {
	// RegisterBatch creates 1..MaxBatchSize cheques for one tenant. The
	// whole batch is validated before any row is written; on any failure
	// zero rows are created.
	RegisterBatch(ctx context.Context, actor string, tenantID int64, entries []BulkEntry) ([]*entity.Cheque, error)

	// ImportWorkbook parses an xlsx upload into bulk entries and feeds them
	// through RegisterBatch
	ImportWorkbook(ctx context.Context, actor string, tenantID int64, workbook io.Reader) ([]*entity.Cheque, error)
}

type bulkServiceImpl struct {
	chequeRepo port.ChequeRepository
	eventRepo  port.EventRepository
	txManager  port.TransactionManager
	tenantDir  port.TenantDirectory
	invoiceDir port.InvoiceDirectory
	logger     Logger
}

// NewBulkService creates a new BulkService
func NewBulkService(
	chequeRepo port.ChequeRepository,
	eventRepo port.EventRepository,
	txManager port.TransactionManager,
	tenantDir port.TenantDirectory,
	invoiceDir port.InvoiceDirectory,
	logger Logger,
) BulkService {
	return &bulkServiceImpl{
		chequeRepo: chequeRepo,
		eventRepo:  eventRepo,
		txManager:  txManager,
		tenantDir:  tenantDir,
		invoiceDir: invoiceDir,
		logger:     logger,
	}
}

// RegisterBatch implements the validate-then-commit contract: every entry is
// checked independently, duplicates are rejected across the batch itself and
// against storage, and only then is the batch written in one transaction.
func (s *bulkServiceImpl) RegisterBatch(ctx context.Context, actor string, tenantID int64, entries []BulkEntry) ([]*entity.Cheque, error) {
	if len(entries) == 0 {
		return nil, validationf("bulk intake requires at least one cheque")
	}
	if len(entries) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d entries, maximum is %d",
			ErrBulkLimitExceeded, len(entries), MaxBatchSize)
	}

	if _, err := s.tenantDir.GetTenant(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, err)
	}

	var problems []string
	seenNumbers := make(map[string]int, len(entries))
	checkedInvoices := make(map[int64]bool)

	for i, entry := range entries {
		if err := validateInput(ChequeInput{
			TenantID:     tenantID,
			InvoiceID:    entry.InvoiceID,
			ChequeNumber: entry.ChequeNumber,
			BankName:     entry.BankName,
			Amount:       entry.Amount,
			ChequeDate:   entry.ChequeDate,
		}); err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %s", i+1, err.Error()))
			continue
		}

		if first, dup := seenNumbers[entry.ChequeNumber]; dup {
			problems = append(problems, fmt.Sprintf(
				"entry %d: cheque number %s duplicates entry %d",
				i+1, entry.ChequeNumber, first+1))
			continue
		}
		seenNumbers[entry.ChequeNumber] = i

		exists, err := s.chequeRepo.NumberExists(ctx, tenantID, entry.ChequeNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			problems = append(problems, fmt.Sprintf(
				"entry %d: cheque number %s already registered", i+1, entry.ChequeNumber))
			continue
		}

		if entry.InvoiceID != nil && !checkedInvoices[*entry.InvoiceID] {
			invoice, err := s.invoiceDir.GetInvoice(ctx, *entry.InvoiceID)
			if err != nil {
				problems = append(problems, fmt.Sprintf("entry %d: invoice %d: %s",
					i+1, *entry.InvoiceID, err.Error()))
				continue
			}
			if invoice.TenantID != tenantID {
				problems = append(problems, fmt.Sprintf(
					"entry %d: invoice %d belongs to tenant %d",
					i+1, *entry.InvoiceID, invoice.TenantID))
				continue
			}
			checkedInvoices[*entry.InvoiceID] = true
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}

	now := time.Now()
	cheques := make([]*entity.Cheque, 0, len(entries))
	for _, entry := range entries {
		cheques = append(cheques, &entity.Cheque{
			TenantID:     tenantID,
			InvoiceID:    entry.InvoiceID,
			ChequeNumber: entry.ChequeNumber,
			BankName:     strings.TrimSpace(entry.BankName),
			Amount:       entry.Amount,
			ChequeDate:   entry.ChequeDate,
			Status:       intakeStatus(entry.ChequeDate, now),
			Revision:     1,
			CreatedBy:    actor,
			UpdatedBy:    actor,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, cheque := range cheques {
			if err := s.chequeRepo.Create(txCtx, cheque); err != nil {
				return fmt.Errorf("create cheque %s: %w", cheque.ChequeNumber, err)
			}
			event := &entity.ChequeEvent{
				ChequeID:   cheque.ID,
				Action:     entity.EventRegister,
				ToStatus:   cheque.Status,
				Actor:      actor,
				Note:       "bulk intake",
				CreatedAt:  now,
			}
			if err := s.eventRepo.Create(txCtx, event); err != nil {
				return fmt.Errorf("create event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to commit bulk intake", "error", err,
			"tenant_id", tenantID, "count", len(entries))
		return nil, err
	}

	s.logger.Info("Bulk intake committed", "tenant_id", tenantID,
		"count", len(cheques), "actor", actor)
	return cheques, nil
}

// ImportWorkbook reads the first sheet of an xlsx workbook. Expected columns:
// cheque_number, bank_name, amount, cheque_date (2006-01-02), invoice_id
// (optional). The first row is treated as a header.
func (s *bulkServiceImpl) ImportWorkbook(ctx context.Context, actor string, tenantID int64, workbook io.Reader) ([]*entity.Cheque, error) {
	f, err := excelize.OpenReader(workbook)
	if err != nil {
		return nil, validationf("unreadable workbook: %s", err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, validationf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, validationf("unreadable sheet %s: %s", sheets[0], err.Error())
	}
	if len(rows) < 2 {
		return nil, validationf("workbook has no data rows")
	}

	entries, err := parseWorkbookRows(rows[1:])
	if err != nil {
		return nil, err
	}

	return s.RegisterBatch(ctx, actor, tenantID, entries)
}

// parseWorkbookRows converts sheet rows into bulk entries. Row numbers in
// errors are 1-based including the header row, matching what the operator
// sees in the spreadsheet.
func parseWorkbookRows(rows [][]string) ([]BulkEntry, error) {
	var entries []BulkEntry
	var problems []string

	for i, row := range rows {
		rowNum := i + 2
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 4 {
			problems = append(problems, fmt.Sprintf("row %d: expected at least 4 columns", rowNum))
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: invalid amount %q", rowNum, row[2]))
			continue
		}

		chequeDate, err := time.Parse(chequeDateLayout, strings.TrimSpace(row[3]))
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: invalid cheque_date %q", rowNum, row[3]))
			continue
		}

		entry := BulkEntry{
			ChequeNumber: strings.TrimSpace(row[0]),
			BankName:     strings.TrimSpace(row[1]),
			Amount:       amount,
			ChequeDate:   chequeDate,
		}

		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			invoiceID, err := strconv.ParseInt(strings.TrimSpace(row[4]), 10, 64)
			if err != nil {
				problems = append(problems, fmt.Sprintf("row %d: invalid invoice_id %q", rowNum, row[4]))
				continue
			}
			entry.InvoiceID = &invoiceID
		}

		entries = append(entries, entry)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return entries, nil
}
