package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shopflow-be/internal/model"
	"shopflow-be/internal/pkg/logger"
	"shopflow-be/internal/repository"
	"shopflow-be/pkg/events"
	pktNats "shopflow-be/pkg/nats"
	"shopflow-be/pkg/orderevents"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes real-time updates to connected clients.
// Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

// NotificationService turns order workflow events into persistent per-customer
// notifications and pushes them over websocket.
type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the order event bus with a durable consumer.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NOTIFICATION", "Event bus unavailable, notifications disabled", nil)
		return
	}

	if err := s.subscriber.Subscribe("orders.>", "order-notifier", s.handleEvent); err != nil {
		s.logger.Error("NOTIFICATION", "Failed to start order event subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NOTIFICATION", "Listening to orders.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	typeCode, _ := payload["type_code"].(string)
	if typeCode == "" {
		typeCode = strings.TrimPrefix(event.EventType(), "orders.")
	}

	customerRaw, _ := payload["customer_id"].(string)
	customerId, err := uuid.Parse(customerRaw)
	if err != nil {
		// not a customer-facing event, ack and move on
		s.logger.Warn("NOTIFICATION", "Event without customer target", map[string]interface{}{"type": typeCode})
		return nil
	}

	orderCode, _ := payload["order_code"].(string)
	title, message := composeNotification(typeCode, orderCode, payload)
	if title == "" {
		return nil
	}

	var entityId *uuid.UUID
	if raw, _ := payload["entity_id"].(string); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			entityId = &id
		}
	}

	metaJSON, _ := json.Marshal(payload)
	notif := model.Notification{
		ID:         uuid.New(),
		UserID:     customerId,
		TypeCode:   typeCode,
		EntityType: "order",
		EntityID:   entityId,
		Title:      title,
		Message:    message,
		Metadata:   datatypes.JSON(metaJSON),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	if s.delivery != nil {
		s.delivery.Send(customerId, notif)
	}

	return nil
}

// composeNotification maps an event type to the Vietnamese title and body the
// storefront shows. Unknown types yield an empty title and are skipped.
func composeNotification(typeCode, orderCode string, payload map[string]interface{}) (string, string) {
	switch typeCode {
	case orderevents.TypeReturnRequested:
		return "Đã tiếp nhận yêu cầu trả hàng",
			fmt.Sprintf("Yêu cầu trả hàng cho đơn %s đang chờ CSKH xử lý.", orderCode)
	case orderevents.TypeReturnCsConfirmed:
		return "Yêu cầu trả hàng được duyệt",
			fmt.Sprintf("CSKH đã duyệt yêu cầu trả hàng cho đơn %s. Vui lòng gửi hàng về kho.", orderCode)
	case orderevents.TypeReturnRejected:
		reason, _ := payload["reason"].(string)
		return "Yêu cầu trả hàng bị từ chối",
			fmt.Sprintf("Đơn %s: %s. Bạn có thể chỉnh sửa và gửi lại yêu cầu.", orderCode, reason)
	case orderevents.TypeReturnStaffConfirmed:
		return "Kho đã kiểm tra hàng hoàn",
			fmt.Sprintf("Đơn %s đã qua kiểm tra kho và đang chờ xác nhận hoàn tiền.", orderCode)
	case orderevents.TypeRefundCompleted:
		amount, _ := payload["amount"].(float64)
		return "Hoàn tiền thành công",
			fmt.Sprintf("Đơn %s đã được hoàn %.0f₫.", orderCode, amount)
	case orderevents.TypeOrderCancelled:
		return "Đơn hàng đã hủy",
			fmt.Sprintf("Đơn %s đã được hủy.", orderCode)
	}
	return "", ""
}

// --- inbox API used by the notification handler ---

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
