package service

import (
	"context"
	"fmt"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
)

// maxChainHops bounds the replacement-chain walk. Per-tenant volumes are in
// the tens; a chain longer than this can only mean corrupted link data.
const maxChainHops = 64

// ChainService resolves replacement chains for audit display
type ChainService interface {
	// Chain returns the full replacement chain containing the cheque,
	// ordered oldest to newest
	Chain(ctx context.Context, chequeID int64) ([]*entity.Cheque, error)
}

type chainServiceImpl struct {
	chequeRepo port.ChequeRepository
	logger     Logger
}

// NewChainService creates a new ChainService
func NewChainService(chequeRepo port.ChequeRepository, logger Logger) ChainService {
	return &chainServiceImpl{chequeRepo: chequeRepo, logger: logger}
}

// Chain walks predecessor links back to the original cheque, then successor
// links forward to the newest. Both walks are hop-bounded and revisit-checked;
// a violation means the stored links no longer form a simple list and is
// surfaced as corruption, never silently repaired.
func (s *chainServiceImpl) Chain(ctx context.Context, chequeID int64) ([]*entity.Cheque, error) {
	start, err := s.chequeRepo.GetByID(ctx, chequeID)
	if err != nil {
		return nil, err
	}

	seen := map[int64]bool{start.ID: true}

	// Backward to the chain root.
	var backward []*entity.Cheque
	current := start
	for hops := 0; current.PredecessorID != nil; hops++ {
		if hops >= maxChainHops {
			return nil, s.corrupted(chequeID, "predecessor walk exceeded %d hops", maxChainHops)
		}
		predecessor, err := s.chequeRepo.GetByID(ctx, *current.PredecessorID)
		if err != nil {
			return nil, s.corrupted(chequeID, "predecessor %d of cheque %d: %s",
				*current.PredecessorID, current.ID, err.Error())
		}
		if seen[predecessor.ID] {
			return nil, s.corrupted(chequeID, "cycle through cheque %d", predecessor.ID)
		}
		seen[predecessor.ID] = true
		backward = append(backward, predecessor)
		current = predecessor
	}

	// Forward to the newest replacement.
	var forward []*entity.Cheque
	current = start
	for hops := 0; current.SuccessorID != nil; hops++ {
		if hops >= maxChainHops {
			return nil, s.corrupted(chequeID, "successor walk exceeded %d hops", maxChainHops)
		}
		if current.Status != entity.StatusReplaced {
			return nil, s.corrupted(chequeID,
				"cheque %d has a successor but status %s", current.ID, current.Status)
		}
		successor, err := s.chequeRepo.GetByID(ctx, *current.SuccessorID)
		if err != nil {
			return nil, s.corrupted(chequeID, "successor %d of cheque %d: %s",
				*current.SuccessorID, current.ID, err.Error())
		}
		if seen[successor.ID] {
			return nil, s.corrupted(chequeID, "cycle through cheque %d", successor.ID)
		}
		seen[successor.ID] = true
		forward = append(forward, successor)
		current = successor
	}

	chain := make([]*entity.Cheque, 0, len(backward)+1+len(forward))
	for i := len(backward) - 1; i >= 0; i-- {
		chain = append(chain, backward[i])
	}
	chain = append(chain, start)
	chain = append(chain, forward...)
	return chain, nil
}

func (s *chainServiceImpl) corrupted(chequeID int64, format string, args ...interface{}) error {
	detail := fmt.Sprintf(format, args...)
	s.logger.Error("Replacement chain corrupted", "cheque_id", chequeID, "detail", detail)
	return fmt.Errorf("%w: %s", ErrChainCorrupted, detail)
}
