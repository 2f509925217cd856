package service

import (
	"context"
	"fmt"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"github.com/faisalr/propdesk/internal/domain/lifecycle"
)

// TenantLedger is a tenant's full cheque history with derived statistics
type TenantLedger struct {
	TenantID          int64            `json:"tenant_id"`
	Cheques           []*entity.Cheque `json:"cheques"`
	TotalCount        int              `json:"total_count"`
	TotalAmount       float64          `json:"total_amount"`
	BouncedCount      int              `json:"bounced_count"`
	BounceRate        float64          `json:"bounce_rate"`
	OutstandingAmount float64          `json:"outstanding_amount"`
	ClearedAmount     float64          `json:"cleared_amount"`
}

// InvoiceCoverage shows how much of an invoice is backed by cheques
type InvoiceCoverage struct {
	Invoice       *port.Invoice    `json:"invoice"`
	Cheques       []*entity.Cheque `json:"cheques"`
	PledgedAmount float64          `json:"pledged_amount"`
	ClearedAmount float64          `json:"cleared_amount"`
	CoverageRatio float64          `json:"coverage_ratio"`
	FullyCovered  bool             `json:"fully_covered"`
}

// LinkageService is the read-only tenant/invoice projection over the cheque store
type LinkageService interface {
	TenantLedger(ctx context.Context, tenantID int64) (*TenantLedger, error)
	InvoiceCoverage(ctx context.Context, invoiceID int64) (*InvoiceCoverage, error)
	TenantCheques(ctx context.Context, tenantID int64) ([]*entity.Cheque, error)
	InvoiceCheques(ctx context.Context, invoiceID int64) ([]*entity.Cheque, error)
}

type linkageServiceImpl struct {
	chequeRepo port.ChequeRepository
	tenantDir  port.TenantDirectory
	invoiceDir port.InvoiceDirectory
	logger     Logger
}

// NewLinkageService creates a new LinkageService
func NewLinkageService(
	chequeRepo port.ChequeRepository,
	tenantDir port.TenantDirectory,
	invoiceDir port.InvoiceDirectory,
	logger Logger,
) LinkageService {
	return &linkageServiceImpl{
		chequeRepo: chequeRepo,
		tenantDir:  tenantDir,
		invoiceDir: invoiceDir,
		logger:     logger,
	}
}

// TenantCheques lists a tenant's cheques ordered by cheque date
func (s *linkageServiceImpl) TenantCheques(ctx context.Context, tenantID int64) ([]*entity.Cheque, error) {
	if _, err := s.tenantDir.GetTenant(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, err)
	}
	return s.chequeRepo.ListByTenant(ctx, tenantID)
}

// InvoiceCheques lists cheques earmarked against an invoice
func (s *linkageServiceImpl) InvoiceCheques(ctx context.Context, invoiceID int64) ([]*entity.Cheque, error) {
	if _, err := s.invoiceDir.GetInvoice(ctx, invoiceID); err != nil {
		return nil, fmt.Errorf("invoice %d: %w", invoiceID, err)
	}
	return s.chequeRepo.ListByInvoice(ctx, invoiceID)
}

// TenantLedger derives a tenant's running cheque statistics. A REPLACED
// cheque counts towards the bounce figures because it only left BOUNCED by
// being replaced.
func (s *linkageServiceImpl) TenantLedger(ctx context.Context, tenantID int64) (*TenantLedger, error) {
	cheques, err := s.TenantCheques(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ledger := &TenantLedger{
		TenantID:   tenantID,
		Cheques:    cheques,
		TotalCount: len(cheques),
	}

	for _, cheque := range cheques {
		ledger.TotalAmount += cheque.Amount

		status := lifecycle.Status(cheque.Status)
		switch status {
		case lifecycle.StatusBounced, lifecycle.StatusReplaced:
			ledger.BouncedCount++
		case lifecycle.StatusCleared:
			ledger.ClearedAmount += cheque.Amount
		}
		if status.IsOutstanding() {
			ledger.OutstandingAmount += cheque.Amount
		}
	}

	if ledger.TotalCount > 0 {
		ledger.BounceRate = float64(ledger.BouncedCount) / float64(ledger.TotalCount)
	}
	return ledger, nil
}

// InvoiceCoverage reports how much collateral backs an invoice: pledged
// (still collectible) plus cleared amounts measured against the invoice total.
func (s *linkageServiceImpl) InvoiceCoverage(ctx context.Context, invoiceID int64) (*InvoiceCoverage, error) {
	invoice, err := s.invoiceDir.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice %d: %w", invoiceID, err)
	}

	cheques, err := s.chequeRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	coverage := &InvoiceCoverage{Invoice: invoice, Cheques: cheques}
	for _, cheque := range cheques {
		switch lifecycle.Status(cheque.Status) {
		case lifecycle.StatusReceived, lifecycle.StatusDue, lifecycle.StatusDeposited:
			coverage.PledgedAmount += cheque.Amount
		case lifecycle.StatusCleared:
			coverage.ClearedAmount += cheque.Amount
		}
	}

	covered := coverage.PledgedAmount + coverage.ClearedAmount
	if invoice.TotalAmount > 0 {
		coverage.CoverageRatio = covered / invoice.TotalAmount
	}
	coverage.FullyCovered = covered >= invoice.TotalAmount
	return coverage, nil
}
