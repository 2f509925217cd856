package port

import (
	"context"
	"errors"
	"time"

	"github.com/faisalr/propdesk/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrStaleRevision is returned when an optimistic update lost the race:
	// the caller's expected revision no longer matches the stored row
	ErrStaleRevision = errors.New("stale revision")
)

// ChequeFilter narrows cheque listings. Nil/zero fields are ignored.
type ChequeFilter struct {
	TenantID  *int64
	InvoiceID *int64
	Status    string
	BankName  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// StatusBucket is one row of the per-status aggregation
type StatusBucket struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// ChequeRepository defines persistence operations for Cheque
type ChequeRepository interface {
	// Create inserts a new cheque row and sets its ID
	Create(ctx context.Context, cheque *entity.Cheque) error

	// GetByID retrieves a cheque by ID; returns ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*entity.Cheque, error)

	// NumberExists reports whether a non-cancelled cheque with this number
	// already exists for the tenant
	NumberExists(ctx context.Context, tenantID int64, chequeNumber string) (bool, error)

	// List retrieves cheques matching the filter, newest first
	List(ctx context.Context, filter ChequeFilter) ([]*entity.Cheque, error)

	// ListByTenant retrieves all cheques of a tenant ordered by cheque date
	ListByTenant(ctx context.Context, tenantID int64) ([]*entity.Cheque, error)

	// ListByInvoice retrieves cheques earmarked against an invoice
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Cheque, error)

	// ListByStatus retrieves all cheques currently in the given status
	ListByStatus(ctx context.Context, status string) ([]*entity.Cheque, error)

	// ApplyTransition persists the lifecycle fields of the cheque guarded by
	// the expected revision; returns ErrStaleRevision when the row moved on
	// and ErrNotFound when it does not exist
	ApplyTransition(ctx context.Context, cheque *entity.Cheque, expectedRevision int64) error

	// SetScanPath records the archived scan location for a cheque
	SetScanPath(ctx context.Context, id int64, path, actor string) error

	// CountByStatus returns count and summed amount grouped by status
	CountByStatus(ctx context.Context) ([]StatusBucket, error)

	// DueWindow returns count and summed amount of undeposited cheques
	// (RECEIVED/DUE) whose cheque date falls within [from, to)
	DueWindow(ctx context.Context, from, to time.Time) (int, float64, error)
}

// EventRepository defines persistence operations for the cheque audit trail
type EventRepository interface {
	Create(ctx context.Context, event *entity.ChequeEvent) error
	ListByCheque(ctx context.Context, chequeID int64) ([]*entity.ChequeEvent, error)
}

// TransactionManager runs a function within a storage transaction; the
// transactional context must be passed to all repository calls inside fn
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
