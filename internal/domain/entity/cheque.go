package entity

import "time"

// Cheque represents one post-dated cheque instrument held as rent collateral.
// A cheque is never physically deleted; terminal statuses are the only
// deletion equivalent so the record survives for audit and tenant history.
type Cheque struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	InvoiceID    *int64    `json:"invoice_id,omitempty"`
	ChequeNumber string    `json:"cheque_number"`
	BankName     string    `json:"bank_name"`
	Amount       float64   `json:"amount"`
	ChequeDate   time.Time `json:"cheque_date"`
	Status       string    `json:"status"`

	DepositDate      *time.Time `json:"deposit_date,omitempty"`
	BankReference    string     `json:"bank_reference,omitempty"`
	ClearanceDate    *time.Time `json:"clearance_date,omitempty"`
	BounceDate       *time.Time `json:"bounce_date,omitempty"`
	BounceReason     string     `json:"bounce_reason,omitempty"`
	WithdrawalDate   *time.Time `json:"withdrawal_date,omitempty"`
	WithdrawalReason string     `json:"withdrawal_reason,omitempty"`
	CancelNote       string     `json:"cancel_note,omitempty"`

	// Replacement chain links. SuccessorID is set only once the cheque has
	// been replaced; PredecessorID is set at creation of a replacement.
	PredecessorID *int64 `json:"predecessor_id,omitempty"`
	SuccessorID   *int64 `json:"successor_id,omitempty"`

	// Relative path of the archived scan under the scan storage root.
	ScanPath string `json:"scan_path,omitempty"`

	// Revision increments on every state-carrying mutation and backs the
	// optimistic concurrency check.
	Revision  int64     `json:"revision"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChequeEvent is one entry of a cheque's append-only audit trail.
type ChequeEvent struct {
	ID         int64     `json:"id"`
	ChequeID   int64     `json:"cheque_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
