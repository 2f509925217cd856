package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
)

// mockChequeRepo is a func-field mock; unset fields fall back to an
// in-memory store so tests only override what they care about
type mockChequeRepo struct {
	mu      sync.Mutex
	nextID  int64
	cheques map[int64]*entity.Cheque

	createFunc          func(ctx context.Context, cheque *entity.Cheque) error
	getByIDFunc         func(ctx context.Context, id int64) (*entity.Cheque, error)
	numberExistsFunc    func(ctx context.Context, tenantID int64, chequeNumber string) (bool, error)
	applyTransitionFunc func(ctx context.Context, cheque *entity.Cheque, expectedRevision int64) error
	countByStatusFunc   func(ctx context.Context) ([]port.StatusBucket, error)
	dueWindowFunc       func(ctx context.Context, from, to time.Time) (int, float64, error)
}

func newMockChequeRepo() *mockChequeRepo {
	return &mockChequeRepo{cheques: make(map[int64]*entity.Cheque)}
}

// seed installs a cheque directly into the store
func (m *mockChequeRepo) seed(cheque *entity.Cheque) *entity.Cheque {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cheque.ID == 0 {
		m.nextID++
		cheque.ID = m.nextID
	} else if cheque.ID > m.nextID {
		m.nextID = cheque.ID
	}
	copied := *cheque
	m.cheques[cheque.ID] = &copied
	return cheque
}

func (m *mockChequeRepo) Create(ctx context.Context, cheque *entity.Cheque) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, cheque)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cheque.ID = m.nextID
	copied := *cheque
	m.cheques[cheque.ID] = &copied
	return nil
}

func (m *mockChequeRepo) GetByID(ctx context.Context, id int64) (*entity.Cheque, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cheque, ok := m.cheques[id]
	if !ok {
		return nil, fmt.Errorf("cheque %d: %w", id, port.ErrNotFound)
	}
	copied := *cheque
	return &copied, nil
}

func (m *mockChequeRepo) NumberExists(ctx context.Context, tenantID int64, chequeNumber string) (bool, error) {
	if m.numberExistsFunc != nil {
		return m.numberExistsFunc(ctx, tenantID, chequeNumber)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cheque := range m.cheques {
		if cheque.TenantID == tenantID && cheque.ChequeNumber == chequeNumber &&
			cheque.Status != entity.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockChequeRepo) List(ctx context.Context, filter port.ChequeFilter) ([]*entity.Cheque, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Cheque
	for _, cheque := range m.cheques {
		if filter.TenantID != nil && cheque.TenantID != *filter.TenantID {
			continue
		}
		if filter.Status != "" && cheque.Status != filter.Status {
			continue
		}
		copied := *cheque
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockChequeRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*entity.Cheque, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Cheque
	for id := int64(1); id <= m.nextID; id++ {
		cheque, ok := m.cheques[id]
		if !ok || cheque.TenantID != tenantID {
			continue
		}
		copied := *cheque
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockChequeRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.Cheque, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Cheque
	for id := int64(1); id <= m.nextID; id++ {
		cheque, ok := m.cheques[id]
		if !ok || cheque.InvoiceID == nil || *cheque.InvoiceID != invoiceID {
			continue
		}
		copied := *cheque
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockChequeRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Cheque, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Cheque
	for id := int64(1); id <= m.nextID; id++ {
		cheque, ok := m.cheques[id]
		if !ok || cheque.Status != status {
			continue
		}
		copied := *cheque
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockChequeRepo) ApplyTransition(ctx context.Context, cheque *entity.Cheque, expectedRevision int64) error {
	if m.applyTransitionFunc != nil {
		return m.applyTransitionFunc(ctx, cheque, expectedRevision)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.cheques[cheque.ID]
	if !ok {
		return fmt.Errorf("cheque %d: %w", cheque.ID, port.ErrNotFound)
	}
	if stored.Revision != expectedRevision {
		return fmt.Errorf("cheque %d: %w", cheque.ID, port.ErrStaleRevision)
	}
	copied := *cheque
	copied.Revision = expectedRevision + 1
	m.cheques[cheque.ID] = &copied
	cheque.Revision = copied.Revision
	return nil
}

func (m *mockChequeRepo) SetScanPath(ctx context.Context, id int64, path, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.cheques[id]
	if !ok {
		return fmt.Errorf("cheque %d: %w", id, port.ErrNotFound)
	}
	stored.ScanPath = path
	stored.UpdatedBy = actor
	return nil
}

func (m *mockChequeRepo) CountByStatus(ctx context.Context) ([]port.StatusBucket, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx)
	}
	return nil, nil
}

func (m *mockChequeRepo) DueWindow(ctx context.Context, from, to time.Time) (int, float64, error) {
	if m.dueWindowFunc != nil {
		return m.dueWindowFunc(ctx, from, to)
	}
	return 0, 0, nil
}

type mockEventRepo struct {
	mu     sync.Mutex
	events []*entity.ChequeEvent

	createFunc func(ctx context.Context, event *entity.ChequeEvent) error
}

func (m *mockEventRepo) Create(ctx context.Context, event *entity.ChequeEvent) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventRepo) ListByCheque(ctx context.Context, chequeID int64) ([]*entity.ChequeEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ChequeEvent
	for _, event := range m.events {
		if event.ChequeID == chequeID {
			out = append(out, event)
		}
	}
	return out, nil
}

// byCheque returns recorded events for assertions
func (m *mockEventRepo) byCheque(chequeID int64) []*entity.ChequeEvent {
	events, _ := m.ListByCheque(context.Background(), chequeID)
	return events
}

// mockTxManager runs fn directly; transactionality is the real manager's
// concern, not the services'
type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockTenantDir struct {
	getTenantFunc func(ctx context.Context, id int64) (*port.Tenant, error)
}

func (m *mockTenantDir) GetTenant(ctx context.Context, id int64) (*port.Tenant, error) {
	if m.getTenantFunc != nil {
		return m.getTenantFunc(ctx, id)
	}
	return &port.Tenant{ID: id, Name: "Falcon Trading LLC"}, nil
}

type mockInvoiceDir struct {
	getInvoiceFunc func(ctx context.Context, id int64) (*port.Invoice, error)
}

func (m *mockInvoiceDir) GetInvoice(ctx context.Context, id int64) (*port.Invoice, error) {
	if m.getInvoiceFunc != nil {
		return m.getInvoiceFunc(ctx, id)
	}
	return &port.Invoice{ID: id, TenantID: 7, TotalAmount: 54000, OutstandingBalance: 54000, Status: "OPEN"}, nil
}

type mockNotifier struct {
	mu      sync.Mutex
	notices []*entity.Cheque

	notifyFunc func(ctx context.Context, cheque *entity.Cheque) error
}

func (m *mockNotifier) NotifyBounce(ctx context.Context, cheque *entity.Cheque) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, cheque)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, cheque)
	return nil
}

type mockInspector struct {
	inspectFunc func(filename string, content []byte) (int, []byte, error)
}

func (m *mockInspector) Inspect(filename string, content []byte) (int, []byte, error) {
	if m.inspectFunc != nil {
		return m.inspectFunc(filename, content)
	}
	return 1, []byte("thumbnail"), nil
}

type mockStorage struct {
	mu    sync.Mutex
	files map[string][]byte

	saveFunc func(ctx context.Context, path string, content []byte) error
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte)}
}

func (m *mockStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, path, content)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
	return nil
}

func (m *mockStorage) Read(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", path, port.ErrNotFound)
	}
	return content, nil
}

func (m *mockStorage) GetFullPath(path string) string {
	return "/data/scans/" + path
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func int64Ptr(v int64) *int64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
