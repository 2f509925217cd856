package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the root of the input-rejection family; every member
	// wraps it so HTTP mapping needs a single errors.Is check
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateCheque is returned when a non-cancelled cheque with the
	// same number already exists for the tenant (or within the same batch)
	ErrDuplicateCheque = fmt.Errorf("%w: duplicate cheque number", ErrValidation)

	// ErrBulkLimitExceeded is returned when a bulk intake carries more than
	// MaxBatchSize entries
	ErrBulkLimitExceeded = fmt.Errorf("%w: bulk intake limit exceeded", ErrValidation)

	// ErrConcurrencyConflict is returned when a transition raced a
	// concurrent update; callers should refetch and retry
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrChainCorrupted marks a replacement chain that is no longer a simple
	// linked list. This is a data-integrity failure, not a caller mistake.
	ErrChainCorrupted = errors.New("replacement chain corrupted")
)

// validationf builds a member of the ErrValidation family
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
