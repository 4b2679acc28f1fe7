package returns

import (
	"testing"

	"shopflow-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []entity.OrderStatus{
	entity.OrderStatusCreated,
	entity.OrderStatusPending,
	entity.OrderStatusPaid,
	entity.OrderStatusConfirmed,
	entity.OrderStatusShipped,
	entity.OrderStatusDelivered,
	entity.OrderStatusCancelled,
	entity.OrderStatusReturnRequested,
	entity.OrderStatusReturnCsConfirmed,
	entity.OrderStatusReturnStaffConfirmed,
	entity.OrderStatusReturnRejected,
	entity.OrderStatusRefunded,
}

func TestTransitionHappyPath(t *testing.T) {
	cases := []struct {
		from entity.OrderStatus
		cmd  Command
		to   entity.OrderStatus
	}{
		{entity.OrderStatusDelivered, CommandSubmit, entity.OrderStatusReturnRequested},
		{entity.OrderStatusReturnRequested, CommandCsConfirm, entity.OrderStatusReturnCsConfirmed},
		{entity.OrderStatusReturnCsConfirmed, CommandStaffInspect, entity.OrderStatusReturnStaffConfirmed},
		{entity.OrderStatusReturnStaffConfirmed, CommandAdminConfirm, entity.OrderStatusRefunded},
		{entity.OrderStatusReturnRequested, CommandReject, entity.OrderStatusReturnRejected},
		{entity.OrderStatusReturnCsConfirmed, CommandReject, entity.OrderStatusReturnRejected},
		{entity.OrderStatusReturnRejected, CommandResubmit, entity.OrderStatusReturnRequested},
		{entity.OrderStatusCreated, CommandCancel, entity.OrderStatusCancelled},
		{entity.OrderStatusPending, CommandCancel, entity.OrderStatusCancelled},
		{entity.OrderStatusConfirmed, CommandCancel, entity.OrderStatusCancelled},
	}

	for _, c := range cases {
		next, err := Transition(c.from, c.cmd)
		assert.NoError(t, err, "from %s via %s", c.from, c.cmd)
		assert.Equal(t, c.to, next)
	}
}

func TestTransitionRejectsEverythingElse(t *testing.T) {
	commands := []Command{
		CommandSubmit, CommandResubmit, CommandCsConfirm, CommandReject,
		CommandStaffInspect, CommandAdminConfirm, CommandCancel,
	}

	for _, from := range allStatuses {
		for _, cmd := range commands {
			if CanTransition(from, cmd) {
				continue
			}
			next, err := Transition(from, cmd)
			assert.Error(t, err, "from %s via %s should fail", from, cmd)
			assert.Equal(t, from, next, "status must not change on illegal transition")

			var stateErr *StateError
			assert.ErrorAs(t, err, &stateErr)
			assert.Equal(t, from, stateErr.Current)
		}
	}
}

func TestTransitionSkippedStaffStep(t *testing.T) {
	// admin-confirm while the warehouse has not inspected yet
	_, err := Transition(entity.OrderStatusReturnCsConfirmed, CommandAdminConfirm)
	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Contains(t, stateErr.Error(), string(entity.OrderStatusReturnCsConfirmed))
	assert.Contains(t, stateErr.Error(), string(entity.OrderStatusReturnStaffConfirmed))
}

func TestCancelNotAllowedAfterShipping(t *testing.T) {
	for _, from := range []entity.OrderStatus{
		entity.OrderStatusShipped,
		entity.OrderStatusDelivered,
		entity.OrderStatusReturnRequested,
	} {
		assert.False(t, CanTransition(from, CommandCancel), "cancel from %s", from)
	}
}

func TestStepIndexMonotonicProgress(t *testing.T) {
	sequence := []entity.OrderStatus{
		entity.OrderStatusReturnRequested,
		entity.OrderStatusReturnCsConfirmed,
		entity.OrderStatusReturnStaffConfirmed,
		entity.OrderStatusRefunded,
	}

	prev := -1
	for _, status := range sequence {
		step, rejected := StepIndex(status)
		assert.False(t, rejected)
		assert.Greater(t, step, prev, "step index must advance at %s", status)
		prev = step
	}
}

func TestStepIndexFrozenOnRejection(t *testing.T) {
	step, rejected := StepIndex(entity.OrderStatusReturnRejected)
	assert.Equal(t, 0, step)
	assert.True(t, rejected)
}

func TestAllowedCommands(t *testing.T) {
	cmds := AllowedCommands(entity.OrderStatusReturnRequested)
	assert.ElementsMatch(t, []Command{CommandCsConfirm, CommandReject}, cmds)

	assert.Empty(t, AllowedCommands(entity.OrderStatusRefunded), "REFUNDED is terminal")
	assert.Empty(t, AllowedCommands(entity.OrderStatusCancelled), "CANCELLED is terminal")
}
