package returns

import (
	"fmt"
	"strings"

	"shopflow-be/internal/entity"

	"github.com/google/uuid"
)

// StateError signals a command issued against an order whose status does not
// satisfy the transition precondition. The order is left unmutated.
type StateError struct {
	Command  Command
	Current  entity.OrderStatus
	Required []entity.OrderStatus
}

func (e *StateError) Error() string {
	required := make([]string, len(e.Required))
	for i, s := range e.Required {
		required[i] = string(s)
	}
	return fmt.Sprintf("command %q not allowed: order status is %s, requires %s",
		e.Command, e.Current, strings.Join(required, " or "))
}

// ConflictError signals an optimistic-lock mismatch: the order row changed
// between read and write. Safe to retry once after re-reading.
type ConflictError struct {
	OrderId uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order %s was modified concurrently, please retry", e.OrderId)
}

// ValidationError enumerates the missing or malformed request-return fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid return request: missing " + strings.Join(e.Fields, ", ")
}

// NotFoundError signals an unknown order id.
type NotFoundError struct {
	OrderId uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderId)
}
