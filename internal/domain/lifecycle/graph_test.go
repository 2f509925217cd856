package lifecycle

import (
	"errors"
	"testing"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusReceived, false},
		{StatusDue, false},
		{StatusDeposited, false},
		{StatusBounced, false},
		{StatusCleared, true},
		{StatusReplaced, true},
		{StatusWithdrawn, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"valid status", StatusDue, true},
		{"valid status", StatusCancelled, true},
		{"invalid status", Status("INVALID"), false},
		{"empty status", Status(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsOutstanding(t *testing.T) {
	outstanding := []Status{StatusReceived, StatusDue, StatusDeposited, StatusBounced}
	settled := []Status{StatusCleared, StatusReplaced, StatusWithdrawn, StatusCancelled}

	for _, s := range outstanding {
		if !s.IsOutstanding() {
			t.Errorf("Status(%s).IsOutstanding() = false, want true", s)
		}
	}
	for _, s := range settled {
		if s.IsOutstanding() {
			t.Errorf("Status(%s).IsOutstanding() = true, want false", s)
		}
	}
}

func TestDestination_ValidEdges(t *testing.T) {
	tests := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusDue, ActionDeposit, StatusDeposited},
		{StatusReceived, ActionDeposit, StatusDeposited},
		{StatusDeposited, ActionClear, StatusCleared},
		{StatusDeposited, ActionBounce, StatusBounced},
		{StatusBounced, ActionReplace, StatusReplaced},
		{StatusDue, ActionWithdraw, StatusWithdrawn},
		{StatusReceived, ActionWithdraw, StatusWithdrawn},
		{StatusDue, ActionCancel, StatusCancelled},
		{StatusReceived, ActionCancel, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.action), func(t *testing.T) {
			got, err := Destination(tt.from, tt.action)
			if err != nil {
				t.Fatalf("Destination() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Destination() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDestination_RefusedEdges(t *testing.T) {
	tests := []struct {
		from   Status
		action Action
	}{
		{StatusDue, ActionClear},     // cannot skip DEPOSITED
		{StatusDue, ActionBounce},    // cannot bounce before deposit
		{StatusDue, ActionReplace},   // only bounced cheques are replaced
		{StatusDeposited, ActionDeposit},
		{StatusDeposited, ActionWithdraw},
		{StatusDeposited, ActionCancel},
		{StatusBounced, ActionClear},
		{StatusBounced, ActionCancel},
		{StatusCleared, ActionDeposit},
		{StatusCleared, ActionBounce},
		{StatusCancelled, ActionDeposit},
		{StatusWithdrawn, ActionCancel},
		{StatusReplaced, ActionReplace},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.action), func(t *testing.T) {
			_, err := Destination(tt.from, tt.action)
			if err == nil {
				t.Fatal("Destination() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}

			var ite *InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Fatalf("error type = %T, want *InvalidTransitionError", err)
			}
			if ite.From != tt.from || ite.Action != tt.action {
				t.Errorf("InvalidTransitionError = {%s %s}, want {%s %s}",
					ite.From, ite.Action, tt.from, tt.action)
			}
		})
	}
}

func TestDestination_UnknownStatus(t *testing.T) {
	_, err := Destination(Status("BOGUS"), ActionDeposit)
	if !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("error = %v, want ErrUnknownStatus", err)
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	actions := []Action{ActionDeposit, ActionClear, ActionBounce, ActionReplace, ActionWithdraw, ActionCancel}

	for status := range validStatuses {
		if !status.IsTerminal() {
			continue
		}
		for _, action := range actions {
			if Can(status, action) {
				t.Errorf("terminal status %s permits %s", status, action)
			}
		}
	}
}

func TestPermittedActions(t *testing.T) {
	got := PermittedActions(StatusDeposited)
	if len(got) != 2 {
		t.Fatalf("PermittedActions(DEPOSITED) returned %d actions, want 2", len(got))
	}

	seen := map[Action]bool{}
	for _, a := range got {
		seen[a] = true
	}
	if !seen[ActionClear] || !seen[ActionBounce] {
		t.Errorf("PermittedActions(DEPOSITED) = %v, want CLEAR and BOUNCE", got)
	}

	if len(PermittedActions(StatusCleared)) != 0 {
		t.Error("PermittedActions(CLEARED) should be empty")
	}
}
