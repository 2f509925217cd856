package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
)

func newChequeFixture() (*mockChequeRepo, *mockEventRepo, *mockStorage, ChequeService) {
	chequeRepo := newMockChequeRepo()
	eventRepo := &mockEventRepo{}
	store := newMockStorage()
	svc := NewChequeService(chequeRepo, eventRepo, &mockTxManager{},
		&mockTenantDir{}, &mockInvoiceDir{}, &mockInspector{}, store, nopLogger{})
	return chequeRepo, eventRepo, store, svc
}

func TestChequeService_RegisterFutureDatedIsReceived(t *testing.T) {
	_, events, _, svc := newChequeFixture()

	futureDate := time.Now().AddDate(0, 2, 0)
	cheque, err := svc.Register(context.Background(), "pm.sara", ChequeInput{
		TenantID:     7,
		ChequeNumber: "200301",
		BankName:     "Mashreq",
		Amount:       9000,
		ChequeDate:   futureDate,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if cheque.Status != entity.StatusReceived {
		t.Errorf("status = %s, want %s for a future-dated cheque", cheque.Status, entity.StatusReceived)
	}
	if cheque.Revision != 1 {
		t.Errorf("revision = %d, want 1", cheque.Revision)
	}

	trail := events.byCheque(cheque.ID)
	if len(trail) != 1 || trail[0].Action != entity.EventRegister {
		t.Fatalf("registration event missing, trail = %+v", trail)
	}
}

func TestChequeService_RegisterPastDatedIsDue(t *testing.T) {
	_, _, _, svc := newChequeFixture()

	cheque, err := svc.Register(context.Background(), "pm.sara", ChequeInput{
		TenantID:     7,
		ChequeNumber: "200302",
		BankName:     "Mashreq",
		Amount:       9000,
		ChequeDate:   time.Now().AddDate(0, 0, -3),
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if cheque.Status != entity.StatusDue {
		t.Errorf("status = %s, want %s", cheque.Status, entity.StatusDue)
	}
}

func TestChequeService_RegisterValidation(t *testing.T) {
	_, _, _, svc := newChequeFixture()

	tests := []struct {
		name  string
		input ChequeInput
	}{
		{"missing tenant", ChequeInput{ChequeNumber: "200303", BankName: "Mashreq", Amount: 100, ChequeDate: date(2026, time.May, 1)}},
		{"bad cheque number", ChequeInput{TenantID: 7, ChequeNumber: "20 03", BankName: "Mashreq", Amount: 100, ChequeDate: date(2026, time.May, 1)}},
		{"zero amount", ChequeInput{TenantID: 7, ChequeNumber: "200304", BankName: "Mashreq", Amount: 0, ChequeDate: date(2026, time.May, 1)}},
		{"blank bank", ChequeInput{TenantID: 7, ChequeNumber: "200305", BankName: "  ", Amount: 100, ChequeDate: date(2026, time.May, 1)}},
		{"missing date", ChequeInput{TenantID: 7, ChequeNumber: "200306", BankName: "Mashreq", Amount: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), "pm.sara", tt.input)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestChequeService_RegisterRejectsDuplicateNumber(t *testing.T) {
	repo, _, _, svc := newChequeFixture()
	repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "200307",
		BankName:     "Mashreq",
		Amount:       100,
		ChequeDate:   date(2026, time.May, 1),
		Status:       entity.StatusDue,
		Revision:     1,
	})

	_, err := svc.Register(context.Background(), "pm.sara", ChequeInput{
		TenantID:     7,
		ChequeNumber: "200307",
		BankName:     "Mashreq",
		Amount:       100,
		ChequeDate:   date(2026, time.June, 1),
	})
	if !errors.Is(err, ErrDuplicateCheque) {
		t.Fatalf("Register() error = %v, want ErrDuplicateCheque", err)
	}
}

func TestChequeService_CancelledNumberIsReusable(t *testing.T) {
	repo, _, _, svc := newChequeFixture()
	repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "200308",
		BankName:     "Mashreq",
		Amount:       100,
		ChequeDate:   date(2026, time.May, 1),
		Status:       entity.StatusCancelled,
		Revision:     2,
	})

	if _, err := svc.Register(context.Background(), "pm.sara", ChequeInput{
		TenantID:     7,
		ChequeNumber: "200308",
		BankName:     "Mashreq",
		Amount:       100,
		ChequeDate:   date(2026, time.June, 1),
	}); err != nil {
		t.Fatalf("Register() reusing a cancelled number error = %v", err)
	}
}

func TestChequeService_RegisterRejectsForeignInvoice(t *testing.T) {
	chequeRepo := newMockChequeRepo()
	invoiceDir := &mockInvoiceDir{
		getInvoiceFunc: func(ctx context.Context, id int64) (*port.Invoice, error) {
			return &port.Invoice{ID: id, TenantID: 99, TotalAmount: 1000}, nil
		},
	}
	svc := NewChequeService(chequeRepo, &mockEventRepo{}, &mockTxManager{},
		&mockTenantDir{}, invoiceDir, &mockInspector{}, newMockStorage(), nopLogger{})

	_, err := svc.Register(context.Background(), "pm.sara", ChequeInput{
		TenantID:     7,
		InvoiceID:    int64Ptr(42),
		ChequeNumber: "200309",
		BankName:     "Mashreq",
		Amount:       100,
		ChequeDate:   date(2026, time.May, 1),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Register() with foreign invoice error = %v, want ErrValidation", err)
	}
}

func TestChequeService_CheckDuplicate(t *testing.T) {
	repo, _, _, svc := newChequeFixture()
	repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "200310",
		Status:       entity.StatusDue,
		Revision:     1,
	})

	exists, err := svc.CheckDuplicate(context.Background(), 7, "200310")
	if err != nil {
		t.Fatalf("CheckDuplicate() error = %v", err)
	}
	if !exists {
		t.Error("CheckDuplicate() = false, want true")
	}

	exists, err = svc.CheckDuplicate(context.Background(), 8, "200310")
	if err != nil {
		t.Fatalf("CheckDuplicate() error = %v", err)
	}
	if exists {
		t.Error("CheckDuplicate() across tenants = true, want false")
	}
}

func TestChequeService_AttachScan(t *testing.T) {
	repo, events, store, svc := newChequeFixture()
	cheque := repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "200311",
		Status:       entity.StatusDue,
		Revision:     1,
	})

	scanPath, err := svc.AttachScan(context.Background(), "pm.sara", cheque.ID, "cheque.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("AttachScan() error = %v", err)
	}
	wantPath := fmt.Sprintf("cheques/%d/scan.pdf", cheque.ID)
	if scanPath != wantPath {
		t.Errorf("scan path = %q, want %q", scanPath, wantPath)
	}
	if _, ok := store.files[wantPath]; !ok {
		t.Error("scan content not stored")
	}
	if _, ok := store.files[fmt.Sprintf("cheques/%d/thumbnail.jpg", cheque.ID)]; !ok {
		t.Error("thumbnail not stored")
	}

	stored, _ := repo.GetByID(context.Background(), cheque.ID)
	if stored.ScanPath != wantPath {
		t.Errorf("stored scan path = %q", stored.ScanPath)
	}

	trail := events.byCheque(cheque.ID)
	if len(trail) != 1 || trail[0].Action != entity.EventScan {
		t.Fatalf("scan event missing, trail = %+v", trail)
	}
}

func TestChequeService_AttachScanRejectsUnreadable(t *testing.T) {
	repo, _, _, _ := newChequeFixture()
	cheque := repo.seed(&entity.Cheque{
		TenantID: 7,
		Status:   entity.StatusDue,
		Revision: 1,
	})

	chequeRepo := repo
	svcBad := NewChequeService(chequeRepo, &mockEventRepo{}, &mockTxManager{},
		&mockTenantDir{}, &mockInvoiceDir{},
		&mockInspector{inspectFunc: func(filename string, content []byte) (int, []byte, error) {
			return 0, nil, errors.New("not a scan")
		}},
		newMockStorage(), nopLogger{})

	_, err := svcBad.AttachScan(context.Background(), "pm.sara", cheque.ID, "cheque.exe", []byte("MZ"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("AttachScan() with bad file error = %v, want ErrValidation", err)
	}
}
