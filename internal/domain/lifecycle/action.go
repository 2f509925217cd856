package lifecycle

// Action represents an operator-triggered event that advances a cheque
// through the lifecycle graph
type Action string

const (
	ActionDeposit  Action = "DEPOSIT"
	ActionClear    Action = "CLEAR"
	ActionBounce   Action = "BOUNCE"
	ActionReplace  Action = "REPLACE"
	ActionWithdraw Action = "WITHDRAW"
	ActionCancel   Action = "CANCEL"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}
