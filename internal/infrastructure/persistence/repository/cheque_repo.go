package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"go.uber.org/zap"
)

// chequeColumns is the canonical select list; scanCheque must stay in sync
const chequeColumns = `
	id, tenant_id, invoice_id, cheque_number, bank_name, amount, cheque_date,
	status, deposit_date, bank_reference, clearance_date, bounce_date,
	bounce_reason, withdrawal_date, withdrawal_reason, cancel_note,
	predecessor_id, successor_id, scan_path, revision,
	created_by, updated_by, created_at, updated_at`

// ChequeRepository implements port.ChequeRepository on sqlite
type ChequeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChequeRepository creates a new cheque repository
func NewChequeRepository(db *sql.DB, logger *zap.Logger) port.ChequeRepository {
	return &ChequeRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new cheque row
func (r *ChequeRepository) Create(ctx context.Context, cheque *entity.Cheque) error {
	query := `
		INSERT INTO cheques (
			tenant_id, invoice_id, cheque_number, bank_name, amount,
			cheque_date, status, predecessor_id, revision,
			created_by, updated_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		cheque.TenantID,
		cheque.InvoiceID,
		cheque.ChequeNumber,
		cheque.BankName,
		cheque.Amount,
		cheque.ChequeDate,
		cheque.Status,
		cheque.PredecessorID,
		cheque.Revision,
		cheque.CreatedBy,
		cheque.UpdatedBy,
		cheque.CreatedAt,
		cheque.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create cheque", zap.Error(err),
			zap.Int64("tenant_id", cheque.TenantID),
			zap.String("cheque_number", cheque.ChequeNumber))
		return fmt.Errorf("failed to create cheque: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	cheque.ID = id
	return nil
}

// GetByID retrieves a cheque by ID
func (r *ChequeRepository) GetByID(ctx context.Context, id int64) (*entity.Cheque, error) {
	query := `SELECT` + chequeColumns + ` FROM cheques WHERE id = ?`

	cheque, err := scanCheque(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cheque %d: %w", id, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get cheque", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get cheque: %w", err)
	}
	return cheque, nil
}

// NumberExists reports whether a non-cancelled cheque with this number
// exists for the tenant. Cancelled cheques release their number.
func (r *ChequeRepository) NumberExists(ctx context.Context, tenantID int64, chequeNumber string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM cheques
			WHERE tenant_id = ? AND cheque_number = ? AND status != ?
		)
	`

	var exists bool
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query,
		tenantID, chequeNumber, entity.StatusCancelled).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check cheque number", zap.Error(err),
			zap.Int64("tenant_id", tenantID), zap.String("cheque_number", chequeNumber))
		return false, fmt.Errorf("failed to check cheque number: %w", err)
	}
	return exists, nil
}

// List retrieves cheques matching the filter, newest first
func (r *ChequeRepository) List(ctx context.Context, filter port.ChequeFilter) ([]*entity.Cheque, error) {
	var conditions []string
	var args []interface{}

	if filter.TenantID != nil {
		conditions = append(conditions, "tenant_id = ?")
		args = append(args, *filter.TenantID)
	}
	if filter.InvoiceID != nil {
		conditions = append(conditions, "invoice_id = ?")
		args = append(args, *filter.InvoiceID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.BankName != "" {
		conditions = append(conditions, "bank_name = ?")
		args = append(args, filter.BankName)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "cheque_date >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "cheque_date < ?")
		args = append(args, *filter.DateTo)
	}

	query := `SELECT` + chequeColumns + ` FROM cheques`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	return r.queryCheques(ctx, query, args...)
}

// ListByTenant retrieves all cheques of a tenant ordered by cheque date
func (r *ChequeRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*entity.Cheque, error) {
	query := `SELECT` + chequeColumns + ` FROM cheques WHERE tenant_id = ? ORDER BY cheque_date, id`
	return r.queryCheques(ctx, query, tenantID)
}

// ListByInvoice retrieves cheques earmarked against an invoice
func (r *ChequeRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Cheque, error) {
	query := `SELECT` + chequeColumns + ` FROM cheques WHERE invoice_id = ? ORDER BY cheque_date, id`
	return r.queryCheques(ctx, query, invoiceID)
}

// ListByStatus retrieves all cheques currently in the given status
func (r *ChequeRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Cheque, error) {
	query := `SELECT` + chequeColumns + ` FROM cheques WHERE status = ? ORDER BY cheque_date, id`
	return r.queryCheques(ctx, query, status)
}

// ApplyTransition persists lifecycle fields guarded by the expected
// revision. The revision predicate makes the update a compare-and-swap; a
// lost race surfaces as port.ErrStaleRevision, never as a silent overwrite.
func (r *ChequeRepository) ApplyTransition(ctx context.Context, cheque *entity.Cheque, expectedRevision int64) error {
	query := `
		UPDATE cheques SET
			status = ?, deposit_date = ?, bank_reference = ?,
			clearance_date = ?, bounce_date = ?, bounce_reason = ?,
			withdrawal_date = ?, withdrawal_reason = ?, cancel_note = ?,
			successor_id = ?, updated_by = ?, updated_at = ?,
			revision = revision + 1
		WHERE id = ? AND revision = ?
	`

	now := time.Now()
	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		cheque.Status,
		cheque.DepositDate,
		nullString(cheque.BankReference),
		cheque.ClearanceDate,
		cheque.BounceDate,
		nullString(cheque.BounceReason),
		cheque.WithdrawalDate,
		nullString(cheque.WithdrawalReason),
		nullString(cheque.CancelNote),
		cheque.SuccessorID,
		cheque.UpdatedBy,
		now,
		cheque.ID,
		expectedRevision,
	)
	if err != nil {
		r.logger.Error("Failed to apply transition", zap.Error(err),
			zap.Int64("id", cheque.ID), zap.String("status", cheque.Status))
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a vanished row from a lost race.
		var exists bool
		err := getExecutor(ctx, r.db).QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM cheques WHERE id = ?)", cheque.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to verify cheque row: %w", err)
		}
		if !exists {
			return fmt.Errorf("cheque %d: %w", cheque.ID, port.ErrNotFound)
		}
		return fmt.Errorf("cheque %d: %w", cheque.ID, port.ErrStaleRevision)
	}

	cheque.Revision = expectedRevision + 1
	cheque.UpdatedAt = now
	return nil
}

// SetScanPath records the archived scan location
func (r *ChequeRepository) SetScanPath(ctx context.Context, id int64, path, actor string) error {
	query := `UPDATE cheques SET scan_path = ?, updated_by = ?, updated_at = ? WHERE id = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, path, actor, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to set scan path", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set scan path: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("cheque %d: %w", id, port.ErrNotFound)
	}
	return nil
}

// CountByStatus returns count and summed amount grouped by status
func (r *ChequeRepository) CountByStatus(ctx context.Context) ([]port.StatusBucket, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM cheques
		GROUP BY status
		ORDER BY status
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to aggregate by status", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}
	defer rows.Close()

	var buckets []port.StatusBucket
	for rows.Next() {
		var bucket port.StatusBucket
		if err := rows.Scan(&bucket.Status, &bucket.Count, &bucket.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan status bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}

// DueWindow returns count and summed amount of undeposited cheques whose
// cheque date falls within [from, to)
func (r *ChequeRepository) DueWindow(ctx context.Context, from, to time.Time) (int, float64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM cheques
		WHERE status IN (?, ?) AND cheque_date >= ? AND cheque_date < ?
	`

	var count int
	var amount float64
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query,
		entity.StatusReceived, entity.StatusDue, from, to).Scan(&count, &amount)
	if err != nil {
		r.logger.Error("Failed to compute due window", zap.Error(err))
		return 0, 0, fmt.Errorf("failed to compute due window: %w", err)
	}
	return count, amount, nil
}

// queryCheques runs a select returning full cheque rows
func (r *ChequeRepository) queryCheques(ctx context.Context, query string, args ...interface{}) ([]*entity.Cheque, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list cheques", zap.Error(err))
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	defer rows.Close()

	var cheques []*entity.Cheque
	for rows.Next() {
		cheque, err := scanCheque(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cheque: %w", err)
		}
		cheques = append(cheques, cheque)
	}
	return cheques, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCheque maps one row in chequeColumns order
func scanCheque(row rowScanner) (*entity.Cheque, error) {
	var cheque entity.Cheque
	var invoiceID, predecessorID, successorID sql.NullInt64
	var depositDate, clearanceDate, bounceDate, withdrawalDate sql.NullTime
	var bankReference, bounceReason, withdrawalReason, cancelNote, scanPath sql.NullString

	err := row.Scan(
		&cheque.ID,
		&cheque.TenantID,
		&invoiceID,
		&cheque.ChequeNumber,
		&cheque.BankName,
		&cheque.Amount,
		&cheque.ChequeDate,
		&cheque.Status,
		&depositDate,
		&bankReference,
		&clearanceDate,
		&bounceDate,
		&bounceReason,
		&withdrawalDate,
		&withdrawalReason,
		&cancelNote,
		&predecessorID,
		&successorID,
		&scanPath,
		&cheque.Revision,
		&cheque.CreatedBy,
		&cheque.UpdatedBy,
		&cheque.CreatedAt,
		&cheque.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if invoiceID.Valid {
		cheque.InvoiceID = &invoiceID.Int64
	}
	if predecessorID.Valid {
		cheque.PredecessorID = &predecessorID.Int64
	}
	if successorID.Valid {
		cheque.SuccessorID = &successorID.Int64
	}
	if depositDate.Valid {
		cheque.DepositDate = &depositDate.Time
	}
	if clearanceDate.Valid {
		cheque.ClearanceDate = &clearanceDate.Time
	}
	if bounceDate.Valid {
		cheque.BounceDate = &bounceDate.Time
	}
	if withdrawalDate.Valid {
		cheque.WithdrawalDate = &withdrawalDate.Time
	}
	cheque.BankReference = bankReference.String
	cheque.BounceReason = bounceReason.String
	cheque.WithdrawalReason = withdrawalReason.String
	cheque.CancelNote = cancelNote.String
	cheque.ScanPath = scanPath.String

	return &cheque, nil
}

// nullString maps "" to NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Verify interface compliance
var _ port.ChequeRepository = (*ChequeRepository)(nil)
