package orderevents

import (
	"context"
	"time"

	"shopflow-be/internal/pkg/logger"
	pkgEvents "shopflow-be/pkg/events"
	pktNats "shopflow-be/pkg/nats"

	"github.com/google/uuid"
)

// Event type codes emitted by the return workflow.
const (
	TypeReturnRequested      = "RETURN_REQUESTED"
	TypeReturnCsConfirmed    = "RETURN_CS_CONFIRMED"
	TypeReturnRejected       = "RETURN_REJECTED"
	TypeReturnStaffConfirmed = "RETURN_STAFF_CONFIRMED"
	TypeRefundCompleted      = "REFUND_COMPLETED"
	TypeOrderCancelled       = "ORDER_CANCELLED"
)

// Publisher abstracts event publishing for the return workflow. A publish
// failure is logged and returned; callers surface it as a partial-success
// warning, it must never undo the state transition that triggered it.
type Publisher interface {
	PublishReturnRequested(ctx context.Context, orderId, customerId uuid.UUID, code string, proposedAmount int64) error
	PublishReturnCsConfirmed(ctx context.Context, orderId, customerId uuid.UUID, code string) error
	PublishReturnRejected(ctx context.Context, orderId, customerId uuid.UUID, code, reason, source string) error
	PublishReturnStaffConfirmed(ctx context.Context, orderId, customerId uuid.UUID, code string, confirmedAmount int64) error
	PublishRefundCompleted(ctx context.Context, orderId, customerId uuid.UUID, code string, amount int64) error
	PublishOrderCancelled(ctx context.Context, orderId, customerId uuid.UUID, code, reason, source string) error
}

// NatsPublisher implements Publisher over JetStream. A nil inner publisher
// (NATS unavailable at boot) degrades to a no-op.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) PublishReturnRequested(ctx context.Context, orderId, customerId uuid.UUID, code string, proposedAmount int64) error {
	return p.emit(ctx, TypeReturnRequested, orderId, customerId, code, map[string]interface{}{
		"proposed_amount": proposedAmount,
	})
}

func (p *NatsPublisher) PublishReturnCsConfirmed(ctx context.Context, orderId, customerId uuid.UUID, code string) error {
	return p.emit(ctx, TypeReturnCsConfirmed, orderId, customerId, code, nil)
}

func (p *NatsPublisher) PublishReturnRejected(ctx context.Context, orderId, customerId uuid.UUID, code, reason, source string) error {
	return p.emit(ctx, TypeReturnRejected, orderId, customerId, code, map[string]interface{}{
		"reason": reason,
		"source": source,
	})
}

func (p *NatsPublisher) PublishReturnStaffConfirmed(ctx context.Context, orderId, customerId uuid.UUID, code string, confirmedAmount int64) error {
	return p.emit(ctx, TypeReturnStaffConfirmed, orderId, customerId, code, map[string]interface{}{
		"confirmed_amount": confirmedAmount,
	})
}

func (p *NatsPublisher) PublishRefundCompleted(ctx context.Context, orderId, customerId uuid.UUID, code string, amount int64) error {
	return p.emit(ctx, TypeRefundCompleted, orderId, customerId, code, map[string]interface{}{
		"amount": amount,
	})
}

func (p *NatsPublisher) PublishOrderCancelled(ctx context.Context, orderId, customerId uuid.UUID, code, reason, source string) error {
	return p.emit(ctx, TypeOrderCancelled, orderId, customerId, code, map[string]interface{}{
		"reason": reason,
		"source": source,
	})
}

func (p *NatsPublisher) emit(ctx context.Context, eventType string, orderId, customerId uuid.UUID, code string, extra map[string]interface{}) error {
	if p.publisher == nil {
		return nil
	}

	now := time.Now()
	data := map[string]interface{}{
		"order_id":    orderId,
		"customer_id": customerId,
		"order_code":  code,
		"entity_type": "order",
		"entity_id":   orderId.String(),
		"type_code":   eventType,
		"occurred_at": now,
	}
	for k, v := range extra {
		data[k] = v
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ORDER_EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{
			"order_id": orderId.String(),
			"error":    err.Error(),
		})
		return err
	}
	return nil
}
