package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/faisalr/propdesk/internal/domain/entity"
	"github.com/faisalr/propdesk/internal/domain/lifecycle"
)

func newLifecycleFixture() (*mockChequeRepo, *mockEventRepo, *mockNotifier, LifecycleService) {
	chequeRepo := newMockChequeRepo()
	eventRepo := &mockEventRepo{}
	notifier := &mockNotifier{}
	svc := NewLifecycleService(chequeRepo, eventRepo, &mockTxManager{}, &mockInvoiceDir{}, notifier, nopLogger{})
	return chequeRepo, eventRepo, notifier, svc
}

func seedDueCheque(repo *mockChequeRepo, number string) *entity.Cheque {
	return repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: number,
		BankName:     "Emirates NBD",
		Amount:       4500,
		ChequeDate:   date(2026, time.March, 1),
		Status:       entity.StatusDue,
		Revision:     1,
		CreatedBy:    "pm.sara",
		UpdatedBy:    "pm.sara",
	})
}

func TestLifecycleService_DepositThenClear(t *testing.T) {
	repo, events, _, svc := newLifecycleFixture()
	cheque := seedDueCheque(repo, "100234")

	deposited, err := svc.Deposit(context.Background(), "pm.sara", cheque.ID, 1, DepositInput{
		DepositDate:   date(2026, time.March, 2),
		BankReference: "DEP-7781",
	})
	if err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if deposited.Status != entity.StatusDeposited {
		t.Errorf("status = %s, want %s", deposited.Status, entity.StatusDeposited)
	}
	if deposited.Revision != 2 {
		t.Errorf("revision = %d, want 2", deposited.Revision)
	}
	if deposited.BankReference != "DEP-7781" {
		t.Errorf("bank reference = %q", deposited.BankReference)
	}

	cleared, err := svc.Clear(context.Background(), "pm.sara", cheque.ID, 2, ClearInput{
		ClearanceDate: date(2026, time.March, 4),
	})
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if cleared.Status != entity.StatusCleared {
		t.Errorf("status = %s, want %s", cleared.Status, entity.StatusCleared)
	}
	if cleared.ClearanceDate == nil {
		t.Error("clearance date not set")
	}

	trail := events.byCheque(cheque.ID)
	if len(trail) != 2 {
		t.Fatalf("event count = %d, want 2", len(trail))
	}
	if trail[0].Action != entity.EventDeposit || trail[1].Action != entity.EventClear {
		t.Errorf("event actions = %s, %s", trail[0].Action, trail[1].Action)
	}
}

func TestLifecycleService_TerminalStatusRefusesActions(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()
	cheque := repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "100235",
		BankName:     "Emirates NBD",
		Amount:       4500,
		ChequeDate:   date(2026, time.March, 1),
		Status:       entity.StatusCleared,
		Revision:     3,
	})

	_, err := svc.Deposit(context.Background(), "pm.sara", cheque.ID, 3, DepositInput{
		DepositDate: date(2026, time.March, 9),
	})
	if !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("Deposit() on CLEARED error = %v, want ErrInvalidTransition", err)
	}

	var transitionErr *lifecycle.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("error %v does not carry transition detail", err)
	}
	if transitionErr.From != lifecycle.StatusCleared {
		t.Errorf("refused from = %s, want CLEARED", transitionErr.From)
	}
}

func TestLifecycleService_StaleRevisionConflicts(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()
	cheque := seedDueCheque(repo, "100236")

	// First operator deposits at revision 1.
	if _, err := svc.Deposit(context.Background(), "pm.sara", cheque.ID, 1, DepositInput{
		DepositDate: date(2026, time.March, 2),
	}); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	// Second operator still holds revision 1.
	_, err := svc.Clear(context.Background(), "pm.omar", cheque.ID, 1, ClearInput{})
	if !errors.Is(err, ErrConcurrencyConflict) {
		t.Fatalf("Clear() with stale revision error = %v, want ErrConcurrencyConflict", err)
	}
}

func TestLifecycleService_BounceRequiresReason(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()
	cheque := repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "100237",
		BankName:     "Emirates NBD",
		Amount:       4500,
		ChequeDate:   date(2026, time.March, 1),
		Status:       entity.StatusDeposited,
		Revision:     2,
	})

	_, err := svc.Bounce(context.Background(), "pm.sara", cheque.ID, 2, BounceInput{Reason: "  "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Bounce() without reason error = %v, want ErrValidation", err)
	}
}

func TestLifecycleService_BounceAlertsOperators(t *testing.T) {
	repo, _, notifier, svc := newLifecycleFixture()
	cheque := repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "100238",
		BankName:     "Emirates NBD",
		Amount:       4500,
		ChequeDate:   date(2026, time.March, 1),
		Status:       entity.StatusDeposited,
		Revision:     2,
	})

	bounced, err := svc.Bounce(context.Background(), "pm.sara", cheque.ID, 2, BounceInput{
		Reason: "insufficient funds",
	})
	if err != nil {
		t.Fatalf("Bounce() error = %v", err)
	}
	if bounced.Status != entity.StatusBounced {
		t.Errorf("status = %s, want %s", bounced.Status, entity.StatusBounced)
	}
	if bounced.BounceReason != "insufficient funds" {
		t.Errorf("bounce reason = %q", bounced.BounceReason)
	}
	if len(notifier.notices) != 1 {
		t.Errorf("notifier received %d alerts, want 1", len(notifier.notices))
	}
}

func TestLifecycleService_NotifierFailureDoesNotFailBounce(t *testing.T) {
	repo, _, notifier, svc := newLifecycleFixture()
	notifier.notifyFunc = func(ctx context.Context, cheque *entity.Cheque) error {
		return errors.New("lark unreachable")
	}
	cheque := repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "100239",
		BankName:     "Emirates NBD",
		Amount:       4500,
		ChequeDate:   date(2026, time.March, 1),
		Status:       entity.StatusDeposited,
		Revision:     2,
	})

	bounced, err := svc.Bounce(context.Background(), "pm.sara", cheque.ID, 2, BounceInput{
		Reason: "signature mismatch",
	})
	if err != nil {
		t.Fatalf("Bounce() error = %v", err)
	}
	if bounced.Status != entity.StatusBounced {
		t.Errorf("status = %s, want %s", bounced.Status, entity.StatusBounced)
	}
}

// Walks the canonical bounce-and-replace sequence: cheque 100240 is
// deposited, bounces for insufficient funds, and is replaced by 100241.
func TestLifecycleService_ReplaceAfterBounce(t *testing.T) {
	repo, events, _, svc := newLifecycleFixture()
	cheque := seedDueCheque(repo, "100240")

	if _, err := svc.Deposit(context.Background(), "pm.sara", cheque.ID, 1, DepositInput{
		DepositDate: date(2026, time.March, 2),
	}); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if _, err := svc.Bounce(context.Background(), "pm.sara", cheque.ID, 2, BounceInput{
		Reason: "insufficient funds",
	}); err != nil {
		t.Fatalf("Bounce() error = %v", err)
	}

	result, err := svc.Replace(context.Background(), "pm.sara", cheque.ID, 3, ReplaceInput{
		ChequeNumber: "100241",
		ChequeDate:   date(2026, time.April, 1),
		Amount:       4500,
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if result.Replaced.Status != entity.StatusReplaced {
		t.Errorf("old status = %s, want %s", result.Replaced.Status, entity.StatusReplaced)
	}
	if result.Replaced.SuccessorID == nil || *result.Replaced.SuccessorID != result.Replacement.ID {
		t.Error("old cheque does not point at its replacement")
	}
	if result.Replacement.Status != entity.StatusDue {
		t.Errorf("replacement status = %s, want %s", result.Replacement.Status, entity.StatusDue)
	}
	if result.Replacement.PredecessorID == nil || *result.Replacement.PredecessorID != cheque.ID {
		t.Error("replacement does not point back at the bounced cheque")
	}
	if result.Replacement.BankName != "Emirates NBD" {
		t.Errorf("replacement bank = %q, want predecessor's bank", result.Replacement.BankName)
	}
	if result.Replacement.Revision != 1 {
		t.Errorf("replacement revision = %d, want 1", result.Replacement.Revision)
	}

	// Old cheque carries deposit, bounce, replace; new carries its registration.
	if got := len(events.byCheque(cheque.ID)); got != 3 {
		t.Errorf("old cheque event count = %d, want 3", got)
	}
	if got := len(events.byCheque(result.Replacement.ID)); got != 1 {
		t.Errorf("replacement event count = %d, want 1", got)
	}
}

func TestLifecycleService_ReplaceRefusedUnlessBounced(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()
	cheque := seedDueCheque(repo, "100242")

	_, err := svc.Replace(context.Background(), "pm.sara", cheque.ID, 1, ReplaceInput{
		ChequeNumber: "100243",
		ChequeDate:   date(2026, time.April, 1),
		Amount:       4500,
	})
	if !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("Replace() on DUE error = %v, want ErrInvalidTransition", err)
	}
}

func TestLifecycleService_ReplaceRejectsDuplicateNumber(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()
	seedDueCheque(repo, "100244")
	bounced := repo.seed(&entity.Cheque{
		TenantID:     7,
		ChequeNumber: "100245",
		BankName:     "Emirates NBD",
		Amount:       4500,
		ChequeDate:   date(2026, time.March, 1),
		Status:       entity.StatusBounced,
		Revision:     3,
	})

	_, err := svc.Replace(context.Background(), "pm.sara", bounced.ID, 3, ReplaceInput{
		ChequeNumber: "100244",
		ChequeDate:   date(2026, time.April, 1),
		Amount:       4500,
	})
	if !errors.Is(err, ErrDuplicateCheque) {
		t.Fatalf("Replace() with taken number error = %v, want ErrDuplicateCheque", err)
	}
}

func TestLifecycleService_WithdrawAndCancel(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()

	withdrawTarget := seedDueCheque(repo, "100246")
	withdrawn, err := svc.Withdraw(context.Background(), "pm.sara", withdrawTarget.ID, 1, "lease terminated early")
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if withdrawn.Status != entity.StatusWithdrawn {
		t.Errorf("status = %s, want %s", withdrawn.Status, entity.StatusWithdrawn)
	}
	if withdrawn.WithdrawalDate == nil {
		t.Error("withdrawal date not set")
	}

	if _, err := svc.Withdraw(context.Background(), "pm.sara", withdrawTarget.ID, 2, "again"); err == nil {
		t.Error("Withdraw() on WITHDRAWN should be refused")
	}

	cancelTarget := seedDueCheque(repo, "100247")
	cancelled, err := svc.Cancel(context.Background(), "pm.sara", cancelTarget.ID, 1, "typo in amount")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != entity.StatusCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, entity.StatusCancelled)
	}
}

func TestLifecycleService_FreeTextStrippedOfControlCharacters(t *testing.T) {
	repo, _, _, svc := newLifecycleFixture()

	bounceTarget := seedDueCheque(repo, "100248")
	if _, err := svc.Deposit(context.Background(), "pm.sara", bounceTarget.ID, 1, DepositInput{
		DepositDate: date(2026, time.March, 2),
	}); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	bounced, err := svc.Bounce(context.Background(), "pm.sara", bounceTarget.ID, 2, BounceInput{
		Reason: "insufficient\x00 funds\r\n",
	})
	if err != nil {
		t.Fatalf("Bounce() error = %v", err)
	}
	if bounced.BounceReason != "insufficient funds" {
		t.Errorf("bounce reason = %q, want %q", bounced.BounceReason, "insufficient funds")
	}

	// A reason made of nothing but control characters is no reason at all.
	emptyTarget := seedDueCheque(repo, "100249")
	if _, err := svc.Withdraw(context.Background(), "pm.sara", emptyTarget.ID, 1, "\x01\x02"); !errors.Is(err, ErrValidation) {
		t.Errorf("Withdraw() error = %v, want ErrValidation", err)
	}

	withdrawn, err := svc.Withdraw(context.Background(), "pm.sara", emptyTarget.ID, 1, "lease\x1f terminated")
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if withdrawn.WithdrawalReason != "lease terminated" {
		t.Errorf("withdrawal reason = %q, want %q", withdrawn.WithdrawalReason, "lease terminated")
	}

	cancelTarget := seedDueCheque(repo, "100250")
	cancelled, err := svc.Cancel(context.Background(), "pm.sara", cancelTarget.ID, 1, "typo\x7f in amount")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.CancelNote != "typo in amount" {
		t.Errorf("cancel note = %q, want %q", cancelled.CancelNote, "typo in amount")
	}
}
