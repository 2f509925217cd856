package port

import (
	"context"

	"github.com/faisalr/propdesk/internal/domain/entity"
)

// Tenant is the slice of the tenant service's record the PDC subsystem needs
type Tenant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Invoice is the slice of the invoice service's record the PDC subsystem
// needs for linkage and coverage checks
type Invoice struct {
	ID                 int64   `json:"id"`
	TenantID           int64   `json:"tenant_id"`
	TotalAmount        float64 `json:"total_amount"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	Status             string  `json:"status"`
}

// TenantDirectory looks up tenants in the tenant CRUD service
type TenantDirectory interface {
	// GetTenant returns ErrNotFound when the tenant does not exist
	GetTenant(ctx context.Context, id int64) (*Tenant, error)
}

// InvoiceDirectory looks up invoices in the invoice service
type InvoiceDirectory interface {
	// GetInvoice returns ErrNotFound when the invoice does not exist
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
}

// BounceNotifier alerts operators when a deposited cheque bounces.
// Implementations must be safe to call best-effort; delivery failures never
// roll back the transition.
type BounceNotifier interface {
	NotifyBounce(ctx context.Context, cheque *entity.Cheque) error
}

// FileStorage abstracts archived-scan storage
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	GetFullPath(path string) string
}
