package returns

import (
	"shopflow-be/internal/entity"
)

// Command is an actor-issued instruction against the return workflow.
type Command string

const (
	CommandSubmit       Command = "submit"
	CommandResubmit     Command = "resubmit"
	CommandCsConfirm    Command = "cs-confirm"
	CommandReject       Command = "reject"
	CommandStaffInspect Command = "staff-inspect"
	CommandAdminConfirm Command = "admin-confirm"
	CommandCancel       Command = "cancel"
)

type transition struct {
	from []entity.OrderStatus
	to   entity.OrderStatus
}

// The single source of truth for legal workflow transitions. Reject is legal
// both at the CS checkpoint and after the staff inspection recorded its
// verdict (staff-side rejection of a bad return).
var transitions = map[Command]transition{
	CommandSubmit: {
		from: []entity.OrderStatus{entity.OrderStatusDelivered},
		to:   entity.OrderStatusReturnRequested,
	},
	CommandResubmit: {
		from: []entity.OrderStatus{entity.OrderStatusReturnRejected},
		to:   entity.OrderStatusReturnRequested,
	},
	CommandCsConfirm: {
		from: []entity.OrderStatus{entity.OrderStatusReturnRequested},
		to:   entity.OrderStatusReturnCsConfirmed,
	},
	CommandReject: {
		from: []entity.OrderStatus{
			entity.OrderStatusReturnRequested,
			entity.OrderStatusReturnCsConfirmed,
		},
		to: entity.OrderStatusReturnRejected,
	},
	CommandStaffInspect: {
		from: []entity.OrderStatus{entity.OrderStatusReturnCsConfirmed},
		to:   entity.OrderStatusReturnStaffConfirmed,
	},
	CommandAdminConfirm: {
		from: []entity.OrderStatus{entity.OrderStatusReturnStaffConfirmed},
		to:   entity.OrderStatusRefunded,
	},
	CommandCancel: {
		from: []entity.OrderStatus{
			entity.OrderStatusCreated,
			entity.OrderStatusPending,
			entity.OrderStatusConfirmed,
		},
		to: entity.OrderStatusCancelled,
	},
}

// CanTransition reports whether cmd is legal from the current status.
func CanTransition(current entity.OrderStatus, cmd Command) bool {
	t, ok := transitions[cmd]
	if !ok {
		return false
	}
	for _, s := range t.from {
		if s == current {
			return true
		}
	}
	return false
}

// Transition validates cmd against the current status and returns the
// resulting status. An illegal pair yields a *StateError and no state change.
func Transition(current entity.OrderStatus, cmd Command) (entity.OrderStatus, error) {
	t, ok := transitions[cmd]
	if !ok || !CanTransition(current, cmd) {
		return current, &StateError{
			Command:  cmd,
			Current:  current,
			Required: t.from,
		}
	}
	return t.to, nil
}

// AllowedCommands returns the commands legal from the given status.
func AllowedCommands(current entity.OrderStatus) []Command {
	var cmds []Command
	for cmd := range transitions {
		if CanTransition(current, cmd) {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// StepIndex maps a status to the return-progress step shown to the customer
// (0=requested, 1=cs-confirmed, 2=staff-confirmed, 3=refunded). A rejected
// request freezes the index at 0 and reports rejected=true instead of
// advancing.
func StepIndex(status entity.OrderStatus) (step int, rejected bool) {
	switch status {
	case entity.OrderStatusReturnCsConfirmed:
		return 1, false
	case entity.OrderStatusReturnStaffConfirmed:
		return 2, false
	case entity.OrderStatusRefunded:
		return 3, false
	case entity.OrderStatusReturnRejected:
		return 0, true
	default:
		return 0, false
	}
}

// IsReturnStatus reports whether the order sits anywhere in the return flow.
func IsReturnStatus(status entity.OrderStatus) bool {
	switch status {
	case entity.OrderStatusReturnRequested,
		entity.OrderStatusReturnCsConfirmed,
		entity.OrderStatusReturnStaffConfirmed,
		entity.OrderStatusReturnRejected,
		entity.OrderStatusRefunded:
		return true
	}
	return false
}
