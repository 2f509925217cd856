package lifecycle

import "fmt"

// graph is the closed transition table of the PDC lifecycle. Every legality
// check in the system goes through this table; HTTP handlers and services
// never re-validate edges themselves.
type graph struct {
	edges map[Status]map[Action]Status
}

// permit registers a single edge. Panics on unknown states because the table
// is assembled from package constants at init time.
func (g *graph) permit(from Status, action Action, to Status) *graph {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid origin status: %s", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", to))
	}
	transitions, exists := g.edges[from]
	if !exists {
		transitions = make(map[Action]Status)
		g.edges[from] = transitions
	}
	transitions[action] = to
	return g
}

func newGraph() *graph {
	g := &graph{edges: make(map[Status]map[Action]Status)}

	// RECEIVED is the pre-due alias of DUE: the same operator actions apply.
	// Deposit of a pre-due cheque stays operator-triggered; the engine does
	// not enforce calendar rules.
	g.permit(StatusReceived, ActionDeposit, StatusDeposited).
		permit(StatusReceived, ActionWithdraw, StatusWithdrawn).
		permit(StatusReceived, ActionCancel, StatusCancelled)

	g.permit(StatusDue, ActionDeposit, StatusDeposited).
		permit(StatusDue, ActionWithdraw, StatusWithdrawn).
		permit(StatusDue, ActionCancel, StatusCancelled)

	g.permit(StatusDeposited, ActionClear, StatusCleared).
		permit(StatusDeposited, ActionBounce, StatusBounced)

	g.permit(StatusBounced, ActionReplace, StatusReplaced)

	return g
}

var lifecycleGraph = newGraph()

// Destination resolves the target status for an action fired from the given
// status. It returns an *InvalidTransitionError when the edge does not exist.
func Destination(from Status, action Action) (Status, error) {
	if !from.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownStatus, from)
	}

	transitions, exists := lifecycleGraph.edges[from]
	if !exists {
		return "", &InvalidTransitionError{From: from, Action: action}
	}

	to, exists := transitions[action]
	if !exists {
		return "", &InvalidTransitionError{From: from, Action: action}
	}

	return to, nil
}

// Can reports whether the action is permitted from the given status
func Can(from Status, action Action) bool {
	_, err := Destination(from, action)
	return err == nil
}

// PermittedActions returns all actions that may be fired from the given status
func PermittedActions(from Status) []Action {
	transitions, exists := lifecycleGraph.edges[from]
	if !exists {
		return []Action{}
	}

	actions := make([]Action, 0, len(transitions))
	for action := range transitions {
		actions = append(actions, action)
	}
	return actions
}
