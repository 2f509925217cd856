package lifecycle

// Status represents a cheque state in the PDC lifecycle
type Status string

const (
	// StatusReceived is the pre-due intake state: the cheque is logged
	// before its written date is active for deposit. It behaves as an
	// alias of DUE for operator-triggered transitions.
	StatusReceived  Status = "RECEIVED"
	StatusDue       Status = "DUE"
	StatusDeposited Status = "DEPOSITED"
	StatusCleared   Status = "CLEARED"
	StatusBounced   Status = "BOUNCED"
	StatusReplaced  Status = "REPLACED"
	StatusWithdrawn Status = "WITHDRAWN"
	StatusCancelled Status = "CANCELLED"
)

var validStatuses = map[Status]bool{
	StatusReceived:  true,
	StatusDue:       true,
	StatusDeposited: true,
	StatusCleared:   true,
	StatusBounced:   true,
	StatusReplaced:  true,
	StatusWithdrawn: true,
	StatusCancelled: true,
}

var terminalStatuses = map[Status]bool{
	StatusCleared:   true,
	StatusReplaced:  true,
	StatusWithdrawn: true,
	StatusCancelled: true,
}

// IsTerminal returns true if the status is a terminal status (no further transitions allowed)
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsValid returns true if the status is a valid lifecycle status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsOutstanding returns true for cheques that still represent uncollected
// collateral: not terminal and not yet cleared. BOUNCED counts as
// outstanding because a replacement is still expected.
func (s Status) IsOutstanding() bool {
	switch s {
	case StatusReceived, StatusDue, StatusDeposited, StatusBounced:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
