package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"github.com/faisalr/propdesk/internal/domain/lifecycle"
	"github.com/faisalr/propdesk/pkg/utils"
)

// DepositInput carries the deposit transition payload
type DepositInput struct {
	DepositDate   time.Time
	BankReference string
}

// ClearInput carries the clear transition payload
type ClearInput struct {
	ClearanceDate time.Time
}

// BounceInput carries the bounce transition payload
type BounceInput struct {
	BounceDate time.Time
	Reason     string
}

// ReplaceInput carries the replacement cheque's facts. BankName defaults to
// the predecessor's bank; InvoiceID defaults to the predecessor's linkage.
type ReplaceInput struct {
	ChequeNumber string
	ChequeDate   time.Time
	Amount       float64
	BankName     string
	InvoiceID    *int64
}

// ReplaceResult pairs the retired cheque with its freshly created successor
type ReplaceResult struct {
	Replaced    *entity.Cheque `json:"replaced"`
	Replacement *entity.Cheque `json:"replacement"`
}

// LifecycleService drives every cheque state transition. All legality
// decisions delegate to the lifecycle transition table; all writes are
// guarded by the caller's expected revision.
type LifecycleService interface {
	Deposit(ctx context.Context, actor string, id, expectedRevision int64, input DepositInput) (*entity.Cheque, error)
	Clear(ctx context.Context, actor string, id, expectedRevision int64, input ClearInput) (*entity.Cheque, error)
	Bounce(ctx context.Context, actor string, id, expectedRevision int64, input BounceInput) (*entity.Cheque, error)
	Replace(ctx context.Context, actor string, id, expectedRevision int64, input ReplaceInput) (*ReplaceResult, error)
	Withdraw(ctx context.Context, actor string, id, expectedRevision int64, reason string) (*entity.Cheque, error)
	Cancel(ctx context.Context, actor string, id, expectedRevision int64, note string) (*entity.Cheque, error)
}

type lifecycleServiceImpl struct {
	chequeRepo port.ChequeRepository
	eventRepo  port.EventRepository
	txManager  port.TransactionManager
	invoiceDir port.InvoiceDirectory
	notifier   port.BounceNotifier
	logger     Logger
}

// NewLifecycleService creates a new LifecycleService. notifier may be nil
// when bounce alerting is not configured.
func NewLifecycleService(
	chequeRepo port.ChequeRepository,
	eventRepo port.EventRepository,
	txManager port.TransactionManager,
	invoiceDir port.InvoiceDirectory,
	notifier port.BounceNotifier,
	logger Logger,
) LifecycleService {
	return &lifecycleServiceImpl{
		chequeRepo: chequeRepo,
		eventRepo:  eventRepo,
		txManager:  txManager,
		invoiceDir: invoiceDir,
		notifier:   notifier,
		logger:     logger,
	}
}

// fire executes one transition: legality check against the transition table,
// payload application, optimistic write, audit event. mutate only touches
// the transition-specific fields.
func (s *lifecycleServiceImpl) fire(
	ctx context.Context,
	actor string,
	id, expectedRevision int64,
	action lifecycle.Action,
	note string,
	mutate func(cheque *entity.Cheque),
) (*entity.Cheque, error) {
	cheque, err := s.chequeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := lifecycle.Status(cheque.Status)
	to, err := lifecycle.Destination(from, action)
	if err != nil {
		s.logger.Info("Transition refused", "cheque_id", id,
			"status", cheque.Status, "action", action.String())
		return nil, err
	}

	if cheque.Revision != expectedRevision {
		return nil, fmt.Errorf("%w: cheque %d is at revision %d, caller expected %d",
			ErrConcurrencyConflict, id, cheque.Revision, expectedRevision)
	}

	mutate(cheque)
	cheque.Status = to.String()
	cheque.UpdatedBy = actor

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.chequeRepo.ApplyTransition(txCtx, cheque, expectedRevision); err != nil {
			if errors.Is(err, port.ErrStaleRevision) {
				return fmt.Errorf("%w: cheque %d moved past revision %d",
					ErrConcurrencyConflict, id, expectedRevision)
			}
			return err
		}
		event := &entity.ChequeEvent{
			ChequeID:   id,
			Action:     action.String(),
			FromStatus: from.String(),
			ToStatus:   to.String(),
			Actor:      actor,
			Note:       note,
			CreatedAt:  time.Now(),
		}
		return s.eventRepo.Create(txCtx, event)
	})
	if err != nil {
		if !errors.Is(err, ErrConcurrencyConflict) {
			s.logger.Error("Failed to apply transition", "error", err,
				"cheque_id", id, "action", action.String())
		}
		return nil, err
	}

	s.logger.Info("Cheque transitioned", "cheque_id", id,
		"action", action.String(), "from", from.String(), "to", to.String(),
		"actor", actor)
	return cheque, nil
}

// Deposit records the hand-off of the instrument to the bank
func (s *lifecycleServiceImpl) Deposit(ctx context.Context, actor string, id, expectedRevision int64, input DepositInput) (*entity.Cheque, error) {
	if input.DepositDate.IsZero() {
		return nil, validationf("deposit_date is required")
	}
	return s.fire(ctx, actor, id, expectedRevision, lifecycle.ActionDeposit, input.BankReference,
		func(cheque *entity.Cheque) {
			depositDate := input.DepositDate
			cheque.DepositDate = &depositDate
			cheque.BankReference = strings.TrimSpace(input.BankReference)
		})
}

// Clear records the bank honoring a deposited cheque
func (s *lifecycleServiceImpl) Clear(ctx context.Context, actor string, id, expectedRevision int64, input ClearInput) (*entity.Cheque, error) {
	clearanceDate := input.ClearanceDate
	if clearanceDate.IsZero() {
		clearanceDate = time.Now()
	}
	return s.fire(ctx, actor, id, expectedRevision, lifecycle.ActionClear, "",
		func(cheque *entity.Cheque) {
			cheque.ClearanceDate = &clearanceDate
		})
}

// Bounce records the bank refusing a deposited cheque. The operator alert is
// best effort; a delivery failure never rolls back the transition.
func (s *lifecycleServiceImpl) Bounce(ctx context.Context, actor string, id, expectedRevision int64, input BounceInput) (*entity.Cheque, error) {
	reason := utils.SanitizeString(strings.TrimSpace(input.Reason))
	if reason == "" {
		return nil, validationf("bounce reason is required")
	}
	bounceDate := input.BounceDate
	if bounceDate.IsZero() {
		bounceDate = time.Now()
	}

	cheque, err := s.fire(ctx, actor, id, expectedRevision, lifecycle.ActionBounce, reason,
		func(cheque *entity.Cheque) {
			cheque.BounceDate = &bounceDate
			cheque.BounceReason = reason
		})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyBounce(ctx, cheque); err != nil {
			s.logger.Error("Failed to send bounce alert", "error", err, "cheque_id", id)
		}
	}
	return cheque, nil
}

// Replace retires a bounced cheque and registers its successor in one
// transaction. This is the only transition that creates a row.
func (s *lifecycleServiceImpl) Replace(ctx context.Context, actor string, id, expectedRevision int64, input ReplaceInput) (*ReplaceResult, error) {
	if err := utils.ValidateChequeNumber(input.ChequeNumber); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err := utils.ValidateAmount(input.Amount); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if input.ChequeDate.IsZero() {
		return nil, validationf("cheque_date is required")
	}

	old, err := s.chequeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := lifecycle.Status(old.Status)
	if _, err := lifecycle.Destination(from, lifecycle.ActionReplace); err != nil {
		return nil, err
	}
	if old.Revision != expectedRevision {
		return nil, fmt.Errorf("%w: cheque %d is at revision %d, caller expected %d",
			ErrConcurrencyConflict, id, old.Revision, expectedRevision)
	}

	exists, err := s.chequeRepo.NumberExists(ctx, old.TenantID, input.ChequeNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already registered for tenant %d",
			ErrDuplicateCheque, input.ChequeNumber, old.TenantID)
	}

	// Invoice linkage is inherited from the predecessor unless the request
	// overrides it. A divergent override is legal but unusual, so it is
	// flagged for follow-up.
	invoiceID := old.InvoiceID
	if input.InvoiceID != nil {
		invoice, err := s.invoiceDir.GetInvoice(ctx, *input.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("invoice %d: %w", *input.InvoiceID, err)
		}
		if invoice.TenantID != old.TenantID {
			return nil, validationf("invoice %d belongs to tenant %d, not %d",
				*input.InvoiceID, invoice.TenantID, old.TenantID)
		}
		if old.InvoiceID == nil || *old.InvoiceID != *input.InvoiceID {
			s.logger.Warn("Replacement cheque linked to a different invoice than its predecessor",
				"cheque_id", id, "predecessor_invoice", old.InvoiceID,
				"replacement_invoice", *input.InvoiceID)
		}
		invoiceID = input.InvoiceID
	}

	bankName := strings.TrimSpace(input.BankName)
	if bankName == "" {
		bankName = old.BankName
	}

	now := time.Now()
	replacement := &entity.Cheque{
		TenantID:      old.TenantID,
		InvoiceID:     invoiceID,
		ChequeNumber:  input.ChequeNumber,
		BankName:      bankName,
		Amount:        input.Amount,
		ChequeDate:    input.ChequeDate,
		Status:        entity.StatusDue,
		PredecessorID: &old.ID,
		Revision:      1,
		CreatedBy:     actor,
		UpdatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.chequeRepo.Create(txCtx, replacement); err != nil {
			return fmt.Errorf("create replacement: %w", err)
		}

		old.Status = entity.StatusReplaced
		old.SuccessorID = &replacement.ID
		old.UpdatedBy = actor
		if err := s.chequeRepo.ApplyTransition(txCtx, old, expectedRevision); err != nil {
			if errors.Is(err, port.ErrStaleRevision) {
				return fmt.Errorf("%w: cheque %d moved past revision %d",
					ErrConcurrencyConflict, id, expectedRevision)
			}
			return err
		}

		replacedEvent := &entity.ChequeEvent{
			ChequeID:   old.ID,
			Action:     entity.EventReplace,
			FromStatus: entity.StatusBounced,
			ToStatus:   entity.StatusReplaced,
			Actor:      actor,
			Note:       fmt.Sprintf("replaced by cheque %s", replacement.ChequeNumber),
			CreatedAt:  now,
		}
		if err := s.eventRepo.Create(txCtx, replacedEvent); err != nil {
			return err
		}

		registeredEvent := &entity.ChequeEvent{
			ChequeID:   replacement.ID,
			Action:     entity.EventRegister,
			FromStatus: "",
			ToStatus:   entity.StatusDue,
			Actor:      actor,
			Note:       fmt.Sprintf("replacement for cheque %s", old.ChequeNumber),
			CreatedAt:  now,
		}
		return s.eventRepo.Create(txCtx, registeredEvent)
	})
	if err != nil {
		if !errors.Is(err, ErrConcurrencyConflict) {
			s.logger.Error("Failed to replace cheque", "error", err, "cheque_id", id)
		}
		return nil, err
	}

	s.logger.Info("Cheque replaced", "cheque_id", old.ID,
		"replacement_id", replacement.ID, "actor", actor)
	return &ReplaceResult{Replaced: old, Replacement: replacement}, nil
}

// Withdraw returns the instrument to the tenant, e.g. on early lease termination
func (s *lifecycleServiceImpl) Withdraw(ctx context.Context, actor string, id, expectedRevision int64, reason string) (*entity.Cheque, error) {
	reason = utils.SanitizeString(strings.TrimSpace(reason))
	if reason == "" {
		return nil, validationf("withdrawal reason is required")
	}
	return s.fire(ctx, actor, id, expectedRevision, lifecycle.ActionWithdraw, reason,
		func(cheque *entity.Cheque) {
			withdrawalDate := time.Now()
			cheque.WithdrawalDate = &withdrawalDate
			cheque.WithdrawalReason = reason
		})
}

// Cancel voids the instrument without returning it to the tenant
func (s *lifecycleServiceImpl) Cancel(ctx context.Context, actor string, id, expectedRevision int64, note string) (*entity.Cheque, error) {
	note = utils.SanitizeString(strings.TrimSpace(note))
	return s.fire(ctx, actor, id, expectedRevision, lifecycle.ActionCancel, note,
		func(cheque *entity.Cheque) {
			cheque.CancelNote = note
		})
}
