package utils

import (
	"fmt"
	"regexp"
)

var chequeNumberRegex = regexp.MustCompile(`^[A-Za-z0-9\-/]{1,32}$`)

// ValidateChequeNumber validates a cheque number as printed by the bank.
// Alphanumerics plus dash and slash cover the formats seen across the
// region's banks.
func ValidateChequeNumber(number string) error {
	if number == "" {
		return fmt.Errorf("cheque number is required")
	}
	if !chequeNumberRegex.MatchString(number) {
		return fmt.Errorf("invalid cheque number format: %s", number)
	}
	return nil
}

// ValidateAmount validates a cheque amount
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %.2f", amount)
	}
	return nil
}

// SanitizeString removes control characters from free-text input
func SanitizeString(s string) string {
	sanitized := regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
	return sanitized
}
