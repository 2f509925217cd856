package entity

// Status constants for Cheque. The authoritative transition rules live in
// the lifecycle package; these mirror its states for persistence and APIs.
const (
	StatusReceived  = "RECEIVED"
	StatusDue       = "DUE"
	StatusDeposited = "DEPOSITED"
	StatusCleared   = "CLEARED"
	StatusBounced   = "BOUNCED"
	StatusReplaced  = "REPLACED"
	StatusWithdrawn = "WITHDRAWN"
	StatusCancelled = "CANCELLED"
)

// Audit action constants for ChequeEvent
const (
	EventRegister = "REGISTER"
	EventDeposit  = "DEPOSIT"
	EventClear    = "CLEAR"
	EventBounce   = "BOUNCE"
	EventReplace  = "REPLACE"
	EventWithdraw = "WITHDRAW"
	EventCancel   = "CANCEL"
	EventScan     = "SCAN_ATTACHED"
)
