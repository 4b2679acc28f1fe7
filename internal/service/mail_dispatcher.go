package service

import (
	"context"
	"encoding/json"

	"shopflow-be/internal/pkg/logger"
	"shopflow-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const mailTopic = "return-status-mail"

type mailMessage struct {
	Kind        string `json:"kind"` // "status" or "refund_completed"
	OrderCode   string `json:"order_code"`
	ToEmail     string `json:"to_email"`
	StatusLabel string `json:"status_label,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Amount      int64  `json:"amount,omitempty"`
}

// MailDispatcher decouples email delivery from the workflow request path: the
// workflow enqueues onto an in-process channel and a consumer goroutine talks
// SMTP. An enqueue failure is logged and returned so the workflow can warn the
// caller; a missing address skips the mail silently.
type MailDispatcher struct {
	pubSub *gochannel.GoChannel
	email  mailer.IEmailService
	logger logger.ILogger
}

func NewMailDispatcher(email mailer.IEmailService, log logger.ILogger) *MailDispatcher {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})

	return &MailDispatcher{
		pubSub: pubSub,
		email:  email,
		logger: log,
	}
}

func (d *MailDispatcher) EnqueueStatusUpdate(orderCode, toEmail, statusLabel, detail string) error {
	return d.enqueue(mailMessage{
		Kind:        "status",
		OrderCode:   orderCode,
		ToEmail:     toEmail,
		StatusLabel: statusLabel,
		Detail:      detail,
	})
}

func (d *MailDispatcher) EnqueueRefundCompleted(orderCode, toEmail string, amount int64) error {
	return d.enqueue(mailMessage{
		Kind:      "refund_completed",
		OrderCode: orderCode,
		ToEmail:   toEmail,
		Amount:    amount,
	})
}

func (d *MailDispatcher) enqueue(m mailMessage) error {
	if m.ToEmail == "" {
		return nil
	}

	payload, err := json.Marshal(m)
	if err != nil {
		d.logger.Error("MAIL", "Failed to marshal mail message", map[string]interface{}{
			"orderCode": m.OrderCode,
			"error":     err.Error(),
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := d.pubSub.Publish(mailTopic, msg); err != nil {
		d.logger.Error("MAIL", "Failed to enqueue mail message", map[string]interface{}{
			"orderCode": m.OrderCode,
			"error":     err.Error(),
		})
		return err
	}
	return nil
}

// Consume subscribes to the mail topic and delivers until ctx is cancelled.
// Call once from the bootstrap.
func (d *MailDispatcher) Consume(ctx context.Context) error {
	messages, err := d.pubSub.Subscribe(ctx, mailTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			d.process(msg)
		}
	}()

	return nil
}

func (d *MailDispatcher) process(msg *message.Message) {
	var m mailMessage
	if err := json.Unmarshal(msg.Payload, &m); err != nil {
		d.logger.Error("MAIL", "Dropping malformed mail message", map[string]interface{}{
			"messageId": msg.UUID,
			"error":     err.Error(),
		})
		msg.Ack()
		return
	}

	var err error
	switch m.Kind {
	case "refund_completed":
		err = d.email.SendRefundCompleted(m.ToEmail, m.OrderCode, m.Amount)
	default:
		err = d.email.SendReturnStatusUpdate(m.ToEmail, m.OrderCode, m.StatusLabel, m.Detail)
	}

	if err != nil {
		d.logger.Error("MAIL", "Failed to send mail, requeueing", map[string]interface{}{
			"orderCode": m.OrderCode,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	d.logger.Info("MAIL", "Mail delivered", map[string]interface{}{
		"orderCode": m.OrderCode,
		"kind":      m.Kind,
	})
	msg.Ack()
}

func (d *MailDispatcher) Close() error {
	return d.pubSub.Close()
}
